// Package session drives one game against the akinator service: it starts
// the game, submits answers, cancels them and keeps track of the guesses.
//
// An Engine is not safe for concurrent use, only one request may be in
// flight per Engine. Separate engines share nothing and can run in parallel.
package session

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"akinator-client/internal/akinator/bootstrap"
	"akinator-client/internal/akinator/region"
	"akinator-client/internal/akinator/response"
	"akinator-client/internal/akinator/transport"
	"akinator-client/internal/components/assert"
	"akinator-client/internal/components/telemetry"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
)

const (
	report_engine_bootstrap     = "engine.bootstrap"
	report_engine_submit_answer = "engine.submit-answer"
	report_engine_cancel_answer = "engine.cancel-answer"
	report_engine_guesses       = "engine.guesses"
)

// HighProgressThreshold is the progress above which a missing win is reported.
const HighProgressThreshold = 95

var tracer = otel.Tracer("akinator/session")

// Transport is the network collaborator of the engine.
type Transport interface {
	PostForm(ctx context.Context, endpoint string, fields transport.Fields) (string, error)
}

type Engine struct {
	state     State
	transport Transport
	tel       telemetry.API
}

type Option func(*State)

// WithBaseURL makes the session talk to the given origin instead of the one
// derived from the region.
func WithBaseURL(baseUrl string) Option {
	return func(s *State) {
		s.BaseURL = strings.TrimSuffix(baseUrl, "/")
	}
}

// New validates the region and returns an engine holding an uninitialized
// session. No request is made.
func New(regionID string, childMode bool, t Transport, tel telemetry.API, opts ...Option) (*Engine, error) {
	assert.NotNil(t)
	assert.NotNil(tel)

	r, err := region.Parse(regionID)
	if err != nil {
		return nil, err
	}

	state := NewState(r, childMode)
	for _, opt := range opts {
		opt(&state)
	}

	return &Engine{
		state:     state,
		transport: t,
		tel:       telemetry.NewScopedAPI("session", tel),
	}, nil
}

// State returns a snapshot of the session.
func (e *Engine) State() State {
	return e.state
}

func fail(span trace.Span, err error, description string) {
	span.RecordError(err)
	span.SetStatus(codes.Error, description)
}

// Bootstrap starts the game and fills the session credentials. On failure
// the session stays uninitialized and Bootstrap may be called again.
func (e *Engine) Bootstrap(ctx context.Context) error {
	ctx, span := tracer.Start(ctx, "engine:Bootstrap")
	defer span.End()

	if e.state.Status() != STATUS_UNINITIALIZED {
		return ErrAlreadyStarted
	}

	endpoint := e.state.Endpoint("/game")
	body, err := e.transport.PostForm(ctx, endpoint, transport.Fields{
		"cm":  e.state.ChildMode,
		"sid": e.state.Region.GameMode(),
	})
	if err != nil {
		e.tel.ReportBroken(
			report_engine_bootstrap,
			fmt.Errorf("fetch game page: %w", err),
			endpoint,
		)
		fail(span, err, "failed to fetch game page")
		return fmt.Errorf("akinator session: bootstrap: %w", err)
	}

	tokens, err := bootstrap.Extract(body)
	if err != nil {
		e.tel.ReportBroken(report_engine_bootstrap, err, endpoint)
		fail(span, err, "failed to extract session")
		return fmt.Errorf("akinator session: %w", err)
	}

	next, err := Start(e.state, tokens)
	if err != nil {
		return err
	}
	e.state = next

	span.SetAttributes(
		attribute.String("region", string(e.state.Region)),
		attribute.Int("game_mode", e.state.GameMode),
	)
	e.tel.ReportDebug("started", e.state.BaseURL, e.state.GameMode)
	return nil
}

func (e *Engine) requireStarted() error {
	if e.state.Status() == STATUS_UNINITIALIZED {
		return ErrNotStarted
	}
	return nil
}

// exchange posts the fields and normalizes the body. The returned outcome
// always carries the decoded response, even when an error is returned.
func (e *Engine) exchange(ctx context.Context, reportId, endpoint string, fields transport.Fields) (response.Outcome, error) {
	span := trace.SpanFromContext(ctx)

	body, err := e.transport.PostForm(ctx, endpoint, fields)
	if err != nil {
		e.tel.ReportBroken(reportId, fmt.Errorf("fetch: %w", err), endpoint)
		fail(span, err, "request failed")
		return response.Outcome{}, fmt.Errorf("akinator session: %w", err)
	}

	decoded := response.Decode(body)
	outcome, err := response.Normalize(decoded)
	if err != nil {
		var failure *response.RequestFailure
		if errors.As(err, &failure) {
			e.tel.ReportWarning(reportId, err, endpoint)
		} else {
			e.tel.ReportBroken(reportId, err, endpoint)
		}
		fail(span, err, "unusable response")
		return response.Outcome{Response: decoded}, err
	}
	return outcome, nil
}

// SubmitAnswer answers the current question. The session is only changed if
// the service accepted the answer, in which case every change from the
// response is applied at once. The normalized response is returned for
// introspection.
func (e *Engine) SubmitAnswer(ctx context.Context, answer Answer) (response.Outcome, error) {
	ctx, span := tracer.Start(ctx, "engine:SubmitAnswer")
	defer span.End()

	if !answer.Valid() {
		return response.Outcome{}, fmt.Errorf("%w: %d", ErrInvalidAnswer, int(answer))
	}
	if err := e.requireStarted(); err != nil {
		return response.Outcome{}, err
	}

	s := e.state
	outcome, err := e.exchange(ctx, report_engine_submit_answer, s.Endpoint("/answer"), transport.Fields{
		"step":                  s.Step,
		"progression":           s.Progress,
		"sid":                   s.GameMode,
		"cm":                    s.ChildMode,
		"answer":                int(answer),
		"step_last_proposition": s.StepLastProposition,
		"session":               s.Session,
		"signature":             s.Signature,
	})
	if err != nil {
		return outcome, err
	}

	e.state = ApplyAnswer(s, outcome)

	span.SetAttributes(
		attribute.Int("step", e.state.Step),
		attribute.Float64("progress", e.state.Progress),
		attribute.Bool("win", e.state.Win),
	)
	if outcome.Win {
		e.tel.ReportCount(report_engine_guesses, int64(len(e.state.guesses)))
	} else if e.state.Progress > HighProgressThreshold {
		e.tel.ReportDebug("high progress without a proposition", e.state.Step, e.state.Progress)
	}

	return outcome, nil
}

// CancelLastAnswer undoes the previous answer. When no answer has been given
// yet (step 0) nothing is sent and ErrNothingToCancel is returned. A win and
// the guesses are kept.
func (e *Engine) CancelLastAnswer(ctx context.Context) (response.Outcome, error) {
	ctx, span := tracer.Start(ctx, "engine:CancelLastAnswer")
	defer span.End()

	if err := e.requireStarted(); err != nil {
		return response.Outcome{}, err
	}
	s := e.state
	if s.Step == 0 {
		return response.Outcome{}, ErrNothingToCancel
	}

	outcome, err := e.exchange(ctx, report_engine_cancel_answer, s.Endpoint("/cancel_answer"), transport.Fields{
		"step":        s.Step,
		"progression": s.Progress,
		"sid":         s.GameMode,
		"cm":          s.ChildMode,
		"session":     s.Session,
		"signature":   s.Signature,
	})
	if err != nil {
		return outcome, err
	}

	e.state = ApplyCancel(s, outcome)
	span.SetAttributes(attribute.Int("step", e.state.Step))
	return outcome, nil
}

// Guesses returns a copy of the guesses accumulated so far.
func (e *Engine) Guesses() []Guess {
	return e.state.Guesses()
}

// SelectGuess makes the guess at the given index the current suggestion.
func (e *Engine) SelectGuess(index int) (Guess, error) {
	next, guess, err := Select(e.state, index)
	if err != nil {
		return Guess{}, err
	}
	e.state = next
	return guess, nil
}
