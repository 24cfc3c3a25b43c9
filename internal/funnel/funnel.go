package funnel

import (
	"context"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"leadfunnel/pkg/types"
)

// Backend is the collaborator surface the funnel consumes. The real
// implementation lives in internal/backend; tests substitute fakes.
type Backend interface {
	// CreateCustomer persists a new record from the serialized personal info,
	// the location string, and the utility-bill attachment. It returns the
	// stored record including the server-issued identifier.
	CreateCustomer(ctx context.Context, info types.PersonalInfo, location string, bill types.UtilityBill) (types.Customer, error)
	// UpdateCustomer merges patch into the identified record.
	UpdateCustomer(ctx context.Context, id string, patch map[string]any) error
}

// Notifier carries out-of-band notifications to other attached hubs,
// independent of the collaborator round trip.
type Notifier interface {
	NotifyNewCustomer(data any)
	NotifyCustomerUpdate(id string, patch map[string]any)
	// AppendLead appends a locally assembled submission to the durable lead
	// list and broadcasts the update.
	AppendLead(lead types.Lead) error
}

// noopNotifier is the default; it drops notifications.
type noopNotifier struct{}

func (noopNotifier) NotifyNewCustomer(any)                       {}
func (noopNotifier) NotifyCustomerUpdate(string, map[string]any) {}
func (noopNotifier) AppendLead(types.Lead) error                 { return nil }

// Config holds the funnel's dependencies. Backend is required; everything
// else has a usable default.
type Config struct {
	// Steps overrides the flow; nil means DefaultSteps.
	Steps    []Step
	Backend  Backend
	Notifier Notifier
	// Now is the clock used for the scheduling window and lead timestamps.
	Now    func() time.Time
	Events EventPublisher
	Logger *zerolog.Logger
}

// Funnel owns every wizard session and mediates all step submits against the
// collaborator and the broadcast hub.
type Funnel struct {
	mu       sync.RWMutex
	sessions map[string]*Session

	steps    []Step
	backend  Backend
	notifier Notifier
	now      func() time.Time
	pub      EventPublisher
	log      zerolog.Logger
}

// New validates cfg and builds a Funnel. A missing backend or an explicitly
// empty step list is a configuration error: fatal, not recoverable by retry.
func New(cfg Config) (*Funnel, error) {
	if cfg.Backend == nil {
		return nil, ErrConfiguration("collaborator backend is required")
	}
	steps := cfg.Steps
	if steps == nil {
		steps = DefaultSteps()
	}
	if _, err := NewController(steps); err != nil {
		return nil, err
	}
	f := &Funnel{
		sessions: make(map[string]*Session),
		steps:    steps,
		backend:  cfg.Backend,
		notifier: cfg.Notifier,
		now:      cfg.Now,
		pub:      cfg.Events,
	}
	if f.notifier == nil {
		f.notifier = noopNotifier{}
	}
	if f.now == nil {
		f.now = time.Now
	}
	if f.pub == nil {
		f.pub = noopPublisher{}
	}
	if cfg.Logger != nil {
		f.log = *cfg.Logger
	} else {
		f.log = zerolog.Nop()
	}
	return f, nil
}

// Ready reports whether the funnel can accept sessions. The backend is
// validated at construction, so a built Funnel is always ready.
func (f *Funnel) Ready() bool {
	return f.backend != nil
}

// SetEventPublisher installs a publisher for lifecycle events.
func (f *Funnel) SetEventPublisher(p EventPublisher) {
	if p == nil {
		p = noopPublisher{}
	}
	f.pub = p
}

// StartSession creates a fresh session at the first step with an empty form
// state and returns its view.
func (f *Funnel) StartSession() *types.SessionResponse {
	id := uuid.NewString()
	s, err := newSession(id, f.steps)
	if err != nil {
		// steps were validated in New
		panic(err)
	}
	f.mu.Lock()
	f.sessions[id] = s
	f.mu.Unlock()
	sessionsStarted.Inc()
	f.pub.Publish(Event{Name: "session_start", SessionID: id})
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.view()
}

// Session returns the view of an existing session.
func (f *Funnel) Session(id string) (*types.SessionResponse, error) {
	s, err := f.session(id)
	if err != nil {
		return nil, err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.view(), nil
}

func (f *Funnel) session(id string) (*Session, error) {
	f.mu.RLock()
	s, ok := f.sessions[id]
	f.mu.RUnlock()
	if !ok {
		return nil, ErrSessionNotFound(id)
	}
	return s, nil
}

// Advance moves the session forward by one step; a no-op at the last step.
func (f *Funnel) Advance(id string) (*types.SessionResponse, error) {
	s, err := f.session(id)
	if err != nil {
		return nil, err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.ctl.Advance() {
		stepTransitions.WithLabelValues("forward").Inc()
		f.pub.Publish(Event{Name: "step_advance", SessionID: id, Fields: map[string]any{"step": string(s.ctl.Current().ID)}})
	}
	return s.view(), nil
}

// Retreat moves the session backward by one step; a no-op at index zero.
// Going back re-displays a step pre-filled from the current form state but
// never reverts previously committed fields.
func (f *Funnel) Retreat(id string) (*types.SessionResponse, error) {
	s, err := f.session(id)
	if err != nil {
		return nil, err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.ctl.Retreat() {
		stepTransitions.WithLabelValues("backward").Inc()
		f.pub.Publish(Event{Name: "step_retreat", SessionID: id, Fields: map[string]any{"step": string(s.ctl.Current().ID)}})
	}
	return s.view(), nil
}

// SubmitAddress commits the free-text address verbatim and advances.
func (f *Funnel) SubmitAddress(id, location string) (*types.SessionResponse, error) {
	s, err := f.session(id)
	if err != nil {
		return nil, err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.ctl.requireStep(StepAddress); err != nil {
		return nil, err
	}
	if err := validateAddress(location); err != nil {
		return nil, err
	}
	s.form.Location = location
	s.ctl.Advance()
	return s.view(), nil
}

// SubmitPersonalInfo commits trimmed first and last name and advances.
func (f *Funnel) SubmitPersonalInfo(id, firstName, lastName string) (*types.SessionResponse, error) {
	s, err := f.session(id)
	if err != nil {
		return nil, err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.ctl.requireStep(StepPersonalInfo); err != nil {
		return nil, err
	}
	if err := validateNames(firstName, lastName); err != nil {
		return nil, err
	}
	s.form.PersonalInfo.FirstName = strings.TrimSpace(firstName)
	s.form.PersonalInfo.LastName = strings.TrimSpace(lastName)
	s.ctl.Advance()
	return s.view(), nil
}

// SubmitContactInfo validates phone and email, strips the phone down to its
// canonical digits-only form, and advances.
func (f *Funnel) SubmitContactInfo(id, phone, email string) (*types.SessionResponse, error) {
	s, err := f.session(id)
	if err != nil {
		return nil, err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.ctl.requireStep(StepContactInfo); err != nil {
		return nil, err
	}
	if err := validatePhone(phone); err != nil {
		return nil, err
	}
	if err := validateEmail(email); err != nil {
		return nil, err
	}
	s.form.PersonalInfo.Phone = DigitsOnly(phone)
	s.form.PersonalInfo.Email = strings.TrimSpace(email)
	s.ctl.Advance()
	return s.view(), nil
}

// SubmitUtilityBill performs the create call bundling the personal info, the
// location, and the attachment. On success the returned identifier becomes
// the session's customer id (first time only) and the wizard advances. On
// failure the wizard does not advance and the error carries the
// server-supplied message when one was given.
func (f *Funnel) SubmitUtilityBill(ctx context.Context, id string, bill types.UtilityBill) (*types.SessionResponse, error) {
	s, err := f.session(id)
	if err != nil {
		return nil, err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.ctl.requireStep(StepUtilityBill); err != nil {
		return nil, err
	}
	if bill.Name == "" || len(bill.Content) == 0 {
		return nil, ValidationError{Field: "utilityBill", Message: "Utility bill is required"}
	}
	cust, err := f.backend.CreateCustomer(ctx, s.form.PersonalInfo, s.form.Location, bill)
	if err != nil {
		remoteCallFailures.WithLabelValues(string(StepUtilityBill)).Inc()
		f.log.Error().Err(err).Str("session", id).Msg("customer create failed")
		if IsRemoteCall(err) {
			return nil, err
		}
		return nil, RemoteCallError{Err: err}
	}
	b := bill
	s.form.UtilityBill = &b
	s.form.setCustomerID(cust.ID)
	customersCreated.Inc()
	f.notifier.NotifyNewCustomer(cust)
	f.pub.Publish(Event{Name: "customer_created", SessionID: id, Fields: map[string]any{"customer": cust.ID}})
	s.ctl.Advance()
	return s.view(), nil
}

// SubmitQuizAnswer records the answer for the currently shown question.
// Questions are answered strictly in order; the tile question expands its
// sub-options while a tile answer is selected.
func (f *Funnel) SubmitQuizAnswer(id string, question int, answer string) (*types.SessionResponse, error) {
	s, err := f.session(id)
	if err != nil {
		return nil, err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.ctl.requireStep(StepQuiz); err != nil {
		return nil, err
	}
	if question != s.quizCursor {
		return nil, ValidationError{Field: "question", Message: "Questions must be answered in order"}
	}
	q := QuizQuestions()[question]
	if !validQuizAnswer(q, answer) {
		return nil, ValidationError{Field: "answer", Message: "Select one of the listed options"}
	}
	s.form.QuizAnswers[question] = answer
	if len(q.TileOptions) > 0 {
		s.tileExpanded = IsTileAnswer(answer)
	}
	return s.view(), nil
}

// QuizNext moves to the next question, or finishes the quiz from the last
// one: the full answer map is sent to the collaborator when a customer id is
// set, the outcome is only logged, and the wizard advances either way.
func (f *Funnel) QuizNext(ctx context.Context, id string) (*types.SessionResponse, error) {
	s, err := f.session(id)
	if err != nil {
		return nil, err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.ctl.requireStep(StepQuiz); err != nil {
		return nil, err
	}
	if s.form.QuizAnswers[s.quizCursor] == "" {
		return nil, ValidationError{Field: "answer", Message: "An answer is required"}
	}
	if s.quizCursor < len(QuizQuestions())-1 {
		s.quizCursor++
		s.tileExpanded = false
		return s.view(), nil
	}
	if cid := s.form.CustomerID; cid != "" {
		patch := map[string]any{"quizAnswers": s.form.quizAnswerStrings()}
		if err := f.backend.UpdateCustomer(ctx, cid, patch); err != nil {
			remoteCallFailures.WithLabelValues(string(StepQuiz)).Inc()
			f.log.Error().Err(err).Str("customer", cid).Msg("saving quiz answers failed")
		} else {
			f.notifier.NotifyCustomerUpdate(cid, patch)
		}
	}
	s.ctl.Advance()
	return s.view(), nil
}

// QuizPrev moves back to the previous question. The sub-option view
// collapses; a stored compound answer is retained.
func (f *Funnel) QuizPrev(id string) (*types.SessionResponse, error) {
	s, err := f.session(id)
	if err != nil {
		return nil, err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.ctl.requireStep(StepQuiz); err != nil {
		return nil, err
	}
	if s.quizCursor > 0 {
		s.quizCursor--
	}
	s.tileExpanded = false
	return s.view(), nil
}

// SubmitSavingsReport commits the delivery preference. The update call is
// best-effort: a failure is logged and the wizard still advances.
func (f *Funnel) SubmitSavingsReport(ctx context.Context, id, delivery string) (*types.SessionResponse, error) {
	s, err := f.session(id)
	if err != nil {
		return nil, err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.ctl.requireStep(StepSavingsReport); err != nil {
		return nil, err
	}
	if err := validateDelivery(delivery); err != nil {
		return nil, err
	}
	if cid := s.form.CustomerID; cid != "" {
		patch := map[string]any{"savingsReportDelivery": delivery}
		if err := f.backend.UpdateCustomer(ctx, cid, patch); err != nil {
			remoteCallFailures.WithLabelValues(string(StepSavingsReport)).Inc()
			f.log.Error().Err(err).Str("customer", cid).Msg("saving delivery method failed")
		} else {
			f.notifier.NotifyCustomerUpdate(cid, patch)
		}
	}
	s.form.SavingsReportDelivery = delivery
	s.ctl.Advance()
	return s.view(), nil
}

// SubmitSchedule books the appointment. The date must fall within the 5-day
// window starting today and the time must be one of the fixed slots. The
// update call must succeed: only a successful response commits the schedule
// and advances the wizard.
func (f *Funnel) SubmitSchedule(ctx context.Context, id, dateStr, slot string) (*types.SessionResponse, error) {
	s, err := f.session(id)
	if err != nil {
		return nil, err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.ctl.requireStep(StepScheduling); err != nil {
		return nil, err
	}
	date, perr := time.ParseInLocation("2006-01-02", dateStr, f.now().Location())
	if perr != nil {
		return nil, ValidationError{Field: "date", Message: "Please select a valid date"}
	}
	if !dateSelectable(f.now(), date) {
		return nil, ValidationError{Field: "date", Message: "Please select one of the available days"}
	}
	if !validSlot(slot) {
		return nil, ValidationError{Field: "time", Message: "Please select an available time slot"}
	}
	cid := s.form.CustomerID
	if cid == "" {
		return nil, RemoteCallError{Message: "no customer record to schedule against"}
	}
	patch := map[string]any{
		"scheduledDate": date.Format(time.RFC3339),
		"scheduledTime": slot,
		"status":        StatusScheduled,
	}
	if err := f.backend.UpdateCustomer(ctx, cid, patch); err != nil {
		remoteCallFailures.WithLabelValues(string(StepScheduling)).Inc()
		f.log.Error().Err(err).Str("customer", cid).Msg("saving scheduling data failed")
		if IsRemoteCall(err) {
			return nil, err
		}
		return nil, RemoteCallError{Err: err}
	}
	s.form.ScheduledDate = date
	s.form.ScheduledTime = slot
	f.notifier.NotifyCustomerUpdate(cid, patch)
	f.pub.Publish(Event{Name: "schedule_saved", SessionID: id, Fields: map[string]any{"customer": cid}})
	s.ctl.Advance()
	return s.view(), nil
}

// SubmitReview assembles a local submission record, mirrors it into the
// durable lead list, and advances. Only usable in flows that include the
// review step.
func (f *Funnel) SubmitReview(id string) (*types.SessionResponse, error) {
	s, err := f.session(id)
	if err != nil {
		return nil, err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.ctl.requireStep(StepReview); err != nil {
		return nil, err
	}
	lead := buildLead(s.form, uuid.NewString(), f.now())
	if err := f.notifier.AppendLead(lead); err != nil {
		f.log.Error().Err(err).Str("session", id).Msg("mirroring lead failed")
	}
	s.ctl.Advance()
	return s.view(), nil
}
