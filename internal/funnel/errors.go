package funnel

// ValidationError blocks the triggering action. It is field-scoped,
// user-correctable, and never logged as exceptional.
type ValidationError struct {
	Field   string
	Message string
}

func (e ValidationError) Error() string { return e.Message }

// IsValidation reports whether err is a field-level validation failure.
func IsValidation(err error) (ValidationError, bool) {
	v, ok := err.(ValidationError)
	return v, ok
}

// RemoteCallError signals a collaborator call that failed with a network
// error or non-success status. Whether it blocks advance is decided per step
// at the call site.
type RemoteCallError struct {
	// Message is the server-supplied human-readable message, when present.
	Message string
	Err     error
}

func (e RemoteCallError) Error() string {
	if e.Message != "" {
		return e.Message
	}
	if e.Err != nil {
		return e.Err.Error()
	}
	return "remote call failed"
}

func (e RemoteCallError) Unwrap() error { return e.Err }

// IsRemoteCall reports whether err originated from a collaborator call.
func IsRemoteCall(err error) bool {
	_, ok := err.(RemoteCallError)
	return ok
}

// sessionNotFoundError signals an unknown session id for 404 mapping.
type sessionNotFoundError struct{ id string }

func (e sessionNotFoundError) Error() string { return "session not found: " + e.id }

// ErrSessionNotFound constructs a sessionNotFoundError.
func ErrSessionNotFound(id string) error { return sessionNotFoundError{id: id} }

// IsSessionNotFound reports whether the error indicates a missing session id.
func IsSessionNotFound(err error) bool {
	_, ok := err.(sessionNotFoundError)
	return ok
}

// stepMismatchError signals a submit aimed at a step that is not currently
// mounted, so the HTTP layer can return 409 Conflict.
type stepMismatchError struct{ want, got StepID }

func (e stepMismatchError) Error() string {
	return "step mismatch: session is on " + string(e.got) + ", not " + string(e.want)
}

// IsStepMismatch reports whether err indicates a submit for the wrong step.
func IsStepMismatch(err error) bool {
	_, ok := err.(stepMismatchError)
	return ok
}

// configurationError is fatal and not recoverable by retry.
type configurationError struct{ msg string }

func (e configurationError) Error() string { return e.msg }

// ErrConfiguration constructs a configurationError.
func ErrConfiguration(msg string) error { return configurationError{msg: msg} }

// IsConfiguration reports whether err is a fatal configuration problem.
func IsConfiguration(err error) bool {
	_, ok := err.(configurationError)
	return ok
}
