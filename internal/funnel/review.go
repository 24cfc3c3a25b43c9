package funnel

import (
	"time"

	"leadfunnel/pkg/types"
)

// placeholderNotProvided fills any field the user never reached.
const placeholderNotProvided = "Not provided"

// buildLead assembles the locally mirrored submission record for the review
// step: a client-generated identifier, normalized copies of every field with
// placeholders for anything missing, and the fixed "New Lead" status.
func buildLead(f *FormState, id string, now time.Time) types.Lead {
	lead := types.Lead{
		ID: id,
		PersonalInfo: types.PersonalInfo{
			FirstName: orPlaceholder(f.PersonalInfo.FirstName),
			LastName:  orPlaceholder(f.PersonalInfo.LastName),
			Phone:     orPlaceholder(f.PersonalInfo.Phone),
			Email:     orPlaceholder(f.PersonalInfo.Email),
			Address:   orPlaceholder(f.Location),
		},
		QuizAnswers:    f.quizAnswerStrings(),
		SubmissionDate: now,
		Status:         StatusNewLead,
	}
	if f.UtilityBill != nil {
		lead.UtilityBill = &types.LeadBill{Name: f.UtilityBill.Name, UploadDate: now}
	}
	return lead
}

func orPlaceholder(s string) string {
	if s == "" {
		return placeholderNotProvided
	}
	return s
}
