package session

import (
	"fmt"
	"slices"

	"akinator-client/internal/akinator/bootstrap"
	"akinator-client/internal/akinator/region"
	"akinator-client/internal/akinator/response"
)

type Guess = response.Guess

type Status int

const (
	STATUS_UNINITIALIZED Status = iota
	STATUS_ACTIVE
	STATUS_WON
)

func (s Status) String() string {
	switch s {
	case STATUS_UNINITIALIZED:
		return "uninitialized"
	case STATUS_ACTIVE:
		return "active"
	case STATUS_WON:
		return "won"
	}
	return fmt.Sprintf("Status(%d)", int(s))
}

// State is an immutable snapshot of a session. It is only ever changed by the
// transition functions in this file, which return a new State and leave the
// one they were given untouched.
type State struct {
	Region    region.Region
	ChildMode bool

	Session   string
	Signature string
	BaseURL   string
	GameMode  int

	Step     int
	Progress float64
	Question string

	// StepLastProposition is echoed back on every answer once the service has
	// supplied it, it is never cleared within a session.
	StepLastProposition string

	Win bool
	// Suggestion is the guess currently put forward, it is the top-level
	// proposition on a win until another guess is selected.
	Suggestion Guess

	guesses []Guess
	started bool
}

// NewState is the only way to get an empty session.
func NewState(r region.Region, childMode bool) State {
	return State{
		Region:    r,
		ChildMode: childMode,
		GameMode:  r.GameMode(),
	}
}

func (s State) Status() Status {
	switch {
	case !s.started:
		return STATUS_UNINITIALIZED
	case s.Win:
		return STATUS_WON
	default:
		return STATUS_ACTIVE
	}
}

// Guesses returns a copy of every guess accumulated so far, in order.
func (s State) Guesses() []Guess {
	return slices.Clone(s.guesses)
}

// Endpoint resolves a path against the session's base url, deriving the base
// url from the region if it is missing.
func (s State) Endpoint(path string) string {
	base := s.BaseURL
	if base == "" {
		base = s.Region.BaseURL()
	}
	return base + path
}

// Start moves an uninitialized session to active with the credentials
// extracted from the game page.
func Start(s State, tokens bootstrap.Result) (State, error) {
	if s.started {
		return s, ErrAlreadyStarted
	}

	next := s
	next.Session = tokens.Session
	next.Signature = tokens.Signature
	next.Question = tokens.Question
	if next.BaseURL == "" {
		next.BaseURL = s.Region.BaseURL()
	}
	next.GameMode = s.Region.GameMode()
	next.Step = 0
	next.Progress = 0
	next.started = true
	return next, nil
}

// ApplyAnswer folds the outcome of an answer into the session.
//
// A win appends the outcome's guesses and is never undone. Otherwise the step
// falls back to the previous step + 1, and the progress and question fall
// back to their previous values, when the response lacks them.
func ApplyAnswer(s State, o response.Outcome) State {
	next := s
	if o.StepLastProposition != "" {
		next.StepLastProposition = o.StepLastProposition
	}

	if o.Win {
		next.Win = true
		next.Suggestion = o.Suggestion
		next.guesses = append(slices.Clone(s.guesses), o.Guesses...)
		return next
	}

	if o.StepOK && o.Step >= 0 {
		next.Step = o.Step
	} else {
		next.Step = s.Step + 1
	}
	if o.ProgressOK {
		next.Progress = o.Progress
	}
	if o.QuestionOK {
		next.Question = o.Question
	}
	return next
}

// ApplyCancel folds the outcome of a cancel into the session. It uses the same
// guarded parsing as ApplyAnswer, with the step falling back to the previous
// step - 1 (never below 0). Wins and guesses are left as they are.
func ApplyCancel(s State, o response.Outcome) State {
	next := s
	if o.StepOK && o.Step >= 0 {
		next.Step = o.Step
	} else {
		next.Step = max(s.Step-1, 0)
	}
	if o.ProgressOK {
		next.Progress = o.Progress
	}
	if o.QuestionOK {
		next.Question = o.Question
	}
	return next
}

// Select promotes the guess at the given index to the current suggestion.
func Select(s State, index int) (State, Guess, error) {
	if !s.Win || len(s.guesses) == 0 {
		return s, Guess{}, ErrNoGuessesAvailable
	}
	if index < 0 || index >= len(s.guesses) {
		return s, Guess{}, &InvalidGuessIndexError{Index: index, Count: len(s.guesses)}
	}

	guess := s.guesses[index]
	next := s
	next.Suggestion = guess
	return next, guess, nil
}
