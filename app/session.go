package app

import (
	"context"
	"sync"
	"time"

	valid "github.com/asaskevich/govalidator"
)

const NoFindingsPlaceholder = "No specific findings were reported."

type State string

const (
	StateIdle    State = "idle"
	StateLoading State = "loading"
	StateError   State = "error"
	StateResult  State = "result"
)

type analyzer interface {
	Analyze(context.Context, string) (*Result, error)
}

// Session holds one user's view: the last input and exactly one of
// nothing, an outstanding call, an error message or a result.
type Session struct {
	mu         sync.Mutex
	analyzer   analyzer
	state      State
	input      string
	message    string
	result     *Result
	lastActive time.Time
}

func NewSession(a analyzer) *Session {
	return &Session{
		analyzer:   a,
		state:      StateIdle,
		lastActive: time.Now(),
	}
}

// Submit runs one analysis. It refuses with ErrBusy while a previous
// submission is still outstanding and never calls out for empty input.
func (s *Session) Submit(ctx context.Context, input string) (*Result, error) {
	s.mu.Lock()
	if s.state == StateLoading {
		s.mu.Unlock()

		return nil, ErrBusy
	}

	s.input = input
	s.lastActive = time.Now()
	if valid.IsNull(NormalizeInput(input)) {
		s.setError(ErrEmptyURL)
		s.mu.Unlock()

		return nil, ErrEmptyURL
	}

	s.state = StateLoading
	s.message = ""
	s.result = nil
	s.mu.Unlock()

	result, err := s.analyzer.Analyze(ctx, input)

	s.mu.Lock()
	defer s.mu.Unlock()

	s.lastActive = time.Now()
	if err != nil {
		s.setError(err)

		return nil, err
	}

	s.state = StateResult
	s.result = result

	return result, nil
}

func (s *Session) setError(err error) {
	s.state = StateError
	s.message = DisplayMessage(err)
	s.result = nil
}

func (s *Session) Snapshot() View {
	s.mu.Lock()
	defer s.mu.Unlock()

	return View{
		State:   s.state,
		Input:   s.input,
		Message: s.message,
		Result:  s.result,
	}
}

// Touch records activity at t. It never moves lastActive backwards.
func (s *Session) Touch(t time.Time) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if t.After(s.lastActive) {
		s.lastActive = t
	}
}

func (s *Session) LastActive() time.Time {
	s.mu.Lock()
	defer s.mu.Unlock()

	return s.lastActive
}

type View struct {
	State   State
	Input   string
	Message string
	Result  *Result
}

// Busy reports whether the trigger must be disabled.
func (v View) Busy() bool {
	return v.State == StateLoading
}

// Items returns one line per finding, or a single placeholder when the
// result has none.
func (v View) Items() []string {
	if v.Result == nil {
		return nil
	}

	if len(v.Result.Findings) == 0 {
		return []string{NoFindingsPlaceholder}
	}

	items := make([]string, 0, len(v.Result.Findings))
	for _, finding := range v.Result.Findings {
		items = append(items, finding.Description)
	}

	return items
}
