package funnel

// StepID identifies one screen in the wizard flow.
type StepID string

const (
	StepHero          StepID = "hero"
	StepEducation     StepID = "education"
	StepPPA           StepID = "ppa"
	StepComparison    StepID = "comparison"
	StepAddress       StepID = "address"
	StepPersonalInfo  StepID = "personalinfo"
	StepContactInfo   StepID = "contactinfo"
	StepUtilityBill   StepID = "utilitybill"
	StepQuiz          StepID = "quiz"
	StepSavingsReport StepID = "savingsreport"
	StepScheduling    StepID = "scheduling"
	StepThankYou      StepID = "thankyou"

	// StepReview is a confirmation variant that mirrors the submission into
	// the durable lead list. It is not part of the default flow but can be
	// wired into a custom one.
	StepReview StepID = "review"
)

// Step declares one entry in the ordered flow. NeedsFormData gates whether
// the mounted screen is handed the shared form state; informational screens
// are rendered without it and cannot mutate shared state.
type Step struct {
	ID            StepID
	NeedsFormData bool
}

// DefaultSteps returns the standard 12-step flow: four informational screens,
// seven data-collecting steps, and a terminal thank-you screen.
func DefaultSteps() []Step {
	return []Step{
		{ID: StepHero},
		{ID: StepEducation},
		{ID: StepPPA},
		{ID: StepComparison},
		{ID: StepAddress, NeedsFormData: true},
		{ID: StepPersonalInfo, NeedsFormData: true},
		{ID: StepContactInfo, NeedsFormData: true},
		{ID: StepUtilityBill, NeedsFormData: true},
		{ID: StepQuiz, NeedsFormData: true},
		{ID: StepSavingsReport, NeedsFormData: true},
		{ID: StepScheduling, NeedsFormData: true},
		{ID: StepThankYou},
	}
}

// Delivery preference values accepted by the savings-report step.
const (
	DeliveryInPerson = "inperson"
	DeliveryVirtual  = "virtual"
)

// StatusNewLead is the status label stamped on locally assembled leads.
const StatusNewLead = "New Lead"

// StatusScheduled is sent to the collaborator when an appointment is booked.
const StatusScheduled = "Scheduled"
