package funnel

import (
	"sync"

	"leadfunnel/pkg/types"
)

// Session is one client's run through the wizard: a controller, the shared
// form state, and the quiz navigation cursor. The mutex serializes every
// operation on the session, including step submits that wait on collaborator
// calls, so a late response can never commit after the session has moved on.
type Session struct {
	id string

	mu   sync.Mutex
	ctl  *Controller
	form *FormState

	// Quiz navigation state. quizCursor is the question currently shown;
	// tileExpanded tracks whether the tile sub-options are open. Retreating
	// collapses the sub-options without discarding a stored compound answer.
	quizCursor   int
	tileExpanded bool
}

func newSession(id string, steps []Step) (*Session, error) {
	ctl, err := NewController(steps)
	if err != nil {
		return nil, err
	}
	return &Session{id: id, ctl: ctl, form: NewFormState()}, nil
}

// ID returns the session identifier.
func (s *Session) ID() string { return s.id }

// view builds the API projection. Callers must hold s.mu.
func (s *Session) view() *types.SessionResponse {
	cur := s.ctl.Current()
	resp := &types.SessionResponse{
		ID:            s.id,
		Step:          string(cur.ID),
		StepIndex:     s.ctl.Index(),
		StepCount:     s.ctl.Count(),
		Progress:      s.ctl.Progress(),
		NeedsFormData: cur.NeedsFormData,
	}
	// Informational screens are rendered without a form handle so they
	// cannot observe or mutate shared state.
	if cur.NeedsFormData {
		resp.Form = s.form.View()
	}
	if cur.ID == StepQuiz {
		resp.Quiz = &types.QuizView{Question: s.quizCursor, TileExpanded: s.tileExpanded}
	}
	return resp
}
