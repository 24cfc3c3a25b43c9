package funnel

import (
	"strconv"
	"time"

	"leadfunnel/pkg/types"
)

// FormState is the single accumulating record built up across the
// data-collecting steps. It is owned by the session; steps read and write it
// only through the submit operations. Fields are never rolled back when the
// user navigates backward.
type FormState struct {
	Location              string
	PersonalInfo          types.PersonalInfo
	UtilityBill           *types.UtilityBill
	QuizAnswers           map[int]string
	SavingsReportDelivery string
	ScheduledDate         time.Time
	ScheduledTime         string
	// CustomerID is issued by the collaborator on the first successful create
	// call. It is set at most once and never cleared; every later update call
	// targets the same identifier.
	CustomerID string
}

// NewFormState returns an empty record ready for the first step.
func NewFormState() *FormState {
	return &FormState{QuizAnswers: make(map[int]string)}
}

// setCustomerID records the collaborator-issued identifier. Only the first
// value sticks.
func (f *FormState) setCustomerID(id string) {
	if f.CustomerID == "" {
		f.CustomerID = id
	}
}

// quizAnswerStrings converts answers to the string-keyed map used on the wire.
func (f *FormState) quizAnswerStrings() map[string]string {
	out := make(map[string]string, len(f.QuizAnswers))
	for k, v := range f.QuizAnswers {
		out[strconv.Itoa(k)] = v
	}
	return out
}

// View projects the record into its API representation.
func (f *FormState) View() *types.FormView {
	v := &types.FormView{
		Location:              f.Location,
		PersonalInfo:          f.PersonalInfo,
		SavingsReportDelivery: f.SavingsReportDelivery,
		ScheduledTime:         f.ScheduledTime,
		CustomerID:            f.CustomerID,
	}
	if f.UtilityBill != nil {
		v.UtilityBill = &types.BillMeta{Name: f.UtilityBill.Name, Size: f.UtilityBill.Size}
	}
	if len(f.QuizAnswers) > 0 {
		v.QuizAnswers = f.quizAnswerStrings()
	}
	if !f.ScheduledDate.IsZero() {
		v.ScheduledDate = f.ScheduledDate.Format("2006-01-02")
	}
	return v
}
