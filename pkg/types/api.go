package types

// ErrorResponse is a consistent JSON error payload.
type ErrorResponse struct {
	// Error message.
	// example: please enter a valid email address
	Error string `json:"error" example:"please enter a valid email address"`
	// Field the error applies to, when field-scoped.
	// example: email
	Field string `json:"field,omitempty" example:"email"`
	// HTTP status code.
	// example: 422
	Code int `json:"code" example:"422"`
}

// SessionResponse is the wizard session view returned by the session endpoints.
type SessionResponse struct {
	// Session identifier.
	// example: 7f6c9a4e-1b2d-4e3f-8a9b-0c1d2e3f4a5b
	ID string `json:"id" example:"7f6c9a4e-1b2d-4e3f-8a9b-0c1d2e3f4a5b"`
	// Identifier of the currently mounted step.
	// example: contactinfo
	Step string `json:"step" example:"contactinfo"`
	// Zero-based index of the current step.
	// example: 6
	StepIndex int `json:"step_index" example:"6"`
	// Total number of steps in the flow.
	// example: 12
	StepCount int `json:"step_count" example:"12"`
	// Progress fraction (index+1)/step_count, recomputed on every transition.
	// example: 0.5833
	Progress float64 `json:"progress" example:"0.5833"`
	// Whether the current step reads/writes the shared form state.
	// example: true
	NeedsFormData bool `json:"needs_form_data" example:"true"`
	// Accumulated form state, present only on steps that need it.
	Form *FormView `json:"form,omitempty"`
	// Quiz navigation state, present while the quiz step is mounted.
	Quiz *QuizView `json:"quiz,omitempty"`
}

// QuizView reports where the user is inside the quiz step.
type QuizView struct {
	// Zero-based index of the question currently shown.
	// example: 1
	Question int `json:"question" example:"1"`
	// Whether the tile sub-options are expanded.
	TileExpanded bool `json:"tileExpanded"`
}

// FormView is the externally visible projection of the accumulated form state.
type FormView struct {
	Location              string            `json:"location,omitempty"`
	PersonalInfo          PersonalInfo      `json:"personalInfo"`
	UtilityBill           *BillMeta         `json:"utilityBill,omitempty"`
	QuizAnswers           map[string]string `json:"quizAnswers,omitempty"`
	SavingsReportDelivery string            `json:"savingsReportDelivery,omitempty"`
	ScheduledDate         string            `json:"scheduledDate,omitempty"`
	ScheduledTime         string            `json:"scheduledTime,omitempty"`
	CustomerID            string            `json:"customerId,omitempty"`
}

// AddressSubmit is the payload for the address step.
type AddressSubmit struct {
	// Free-text home address.
	// example: 1 Main St, Chicago IL
	Location string `json:"location" example:"1 Main St, Chicago IL"`
}

// PersonalInfoSubmit is the payload for the personal-info step.
type PersonalInfoSubmit struct {
	FirstName string `json:"firstName" example:"Jane"`
	LastName  string `json:"lastName" example:"Doe"`
}

// ContactInfoSubmit is the payload for the contact-info step. Phone may be
// submitted formatted; it is normalized to digits before storage.
type ContactInfoSubmit struct {
	Phone string `json:"phone" example:"(555) 123-4567"`
	Email string `json:"email" example:"jane@x.com"`
}

// QuizAnswerSubmit carries one answer selection for the quiz step. Moving
// between questions and finishing the quiz are separate actions.
type QuizAnswerSubmit struct {
	// Zero-based question index; questions must be answered in order.
	// example: 1
	Question int `json:"question" example:"1"`
	// Selected answer text. For the roof question, a tile sub-choice is
	// encoded as "Tile - <subtype>".
	// example: Tile - Concrete
	Answer string `json:"answer" example:"Tile - Concrete"`
}

// SavingsReportSubmit is the payload for the delivery-preference step.
type SavingsReportSubmit struct {
	// One of: inperson, virtual.
	// example: virtual
	Delivery string `json:"delivery" example:"virtual"`
}

// ScheduleSubmit is the payload for the scheduling step.
type ScheduleSubmit struct {
	// Appointment date in YYYY-MM-DD form; must fall within the 5-day window
	// starting today.
	// example: 2024-06-11
	Date string `json:"date" example:"2024-06-11"`
	// One of the fixed hourly slot labels from 9:00 AM through 9:00 PM.
	// example: 2:00 PM
	Time string `json:"time" example:"2:00 PM"`
}

// LoginRequest is the admin credential check payload.
type LoginRequest struct {
	Username string `json:"username" example:"admin"`
	Password string `json:"password" example:"solar123"`
}

// CustomersResponse wraps the collaborator's record list for the admin view.
type CustomersResponse struct {
	Customers []Customer `json:"customers"`
}

// LeadsResponse wraps the locally mirrored submission list.
type LeadsResponse struct {
	Leads []Lead `json:"leads"`
}
