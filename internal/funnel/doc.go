// Package funnel provides the wizard engine for the lead-generation flow:
// session lifecycle, step sequencing, form-state accumulation, and the
// per-step validation/commit contracts. It is structured into small files by
// concern:
//
//   - funnel.go: core Funnel type, session registry, per-step submit operations.
//   - controller.go: step Controller (ordered steps, advance/retreat, progress).
//   - session.go: Session type and its API projection.
//   - form.go: FormState record and its API projection.
//   - validate.go: phone/email/name validation and phone display formatting.
//   - quiz.go: quiz questions, ordered answering, tile sub-choice encoding.
//   - schedule.go: time slots and the selectable date window.
//   - review.go: local lead assembly for the review step.
//   - types.go: step identifiers and step table.
//   - errors.go: error types and helpers (IsValidation, IsRemoteCall, ...).
//   - events.go: EventPublisher hook for lifecycle events.
//   - metrics.go: prometheus counters for funnel activity.
//
// External packages should treat this package as the orchestration layer and
// use public methods only. The collaborator client and the broadcast hub are
// injected via the Backend and Notifier interfaces.
package funnel
