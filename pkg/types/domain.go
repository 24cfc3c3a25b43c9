package types

import "time"

// PersonalInfo is the contact block collected across the personal-info and
// contact-info steps. Phone is stored digits-only; formatting is display-only.
type PersonalInfo struct {
	// First name, trimmed.
	// example: Jane
	FirstName string `json:"firstName,omitempty" example:"Jane"`
	// Last name, trimmed.
	// example: Doe
	LastName string `json:"lastName,omitempty" example:"Doe"`
	// Canonical 10-digit phone number, digits only.
	// example: 5551234567
	Phone string `json:"phone,omitempty" example:"5551234567"`
	// Email address.
	// example: jane@x.com
	Email string `json:"email,omitempty" example:"jane@x.com"`
	// Street address, when captured separately from the location field.
	Address string `json:"address,omitempty"`
}

// UtilityBill is an uploaded attachment held in the form state until the
// create call hands it to the collaborator.
type UtilityBill struct {
	Name    string `json:"name"`
	Size    int64  `json:"size"`
	Content []byte `json:"-"`
}

// Customer is the collaborator's persisted representation of one lead.
// The identifier field name follows the collaborator's wire format.
type Customer struct {
	ID                    string            `json:"_id"`
	PersonalInfo          PersonalInfo      `json:"personalInfo"`
	Location              string            `json:"location,omitempty"`
	QuizAnswers           map[string]string `json:"quizAnswers,omitempty"`
	SavingsReportDelivery string            `json:"savingsReportDelivery,omitempty"`
	ScheduledDate         string            `json:"scheduledDate,omitempty"`
	ScheduledTime         string            `json:"scheduledTime,omitempty"`
	Status                string            `json:"status,omitempty"`
	UtilityBill           *BillMeta         `json:"utilityBill,omitempty"`
	CreatedAt             string            `json:"createdAt,omitempty"`
}

// BillMeta is the attachment metadata the collaborator reports back on a
// customer record. The raw bytes are fetched separately.
type BillMeta struct {
	Name string `json:"name"`
	Size int64  `json:"size,omitempty"`
}

// Lead is a locally assembled submission record kept in the durable mirror
// under the "solarLeads" key. It is a write-only local mirror, not a
// substitute for the collaborator's record.
type Lead struct {
	ID             string            `json:"id"`
	PersonalInfo   PersonalInfo      `json:"personalInfo"`
	UtilityBill    *LeadBill         `json:"utilityBill"`
	QuizAnswers    map[string]string `json:"quizAnswers"`
	SubmissionDate time.Time         `json:"submissionDate"`
	Status         string            `json:"status"`
}

// LeadBill records the uploaded file name and when it was attached.
type LeadBill struct {
	Name       string    `json:"name"`
	UploadDate time.Time `json:"uploadDate"`
}
