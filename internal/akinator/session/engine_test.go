package session

import (
	"context"
	"errors"
	"fmt"
	"math"
	"testing"

	"akinator-client/internal/akinator/response"
	"akinator-client/internal/akinator/transport"
	"akinator-client/internal/components/telemetry"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/require"
)

const gamePage = `<html><body>
<form id="askSoundlike">
	<input id="session" value="311">
	<input id="signature" value="sig-9">
</form>
<p id="question-label">Is your character real?</p>
</body></html>`

type call struct {
	endpoint string
	fields   transport.Fields
}

type fakeTransport struct {
	calls   []call
	replies []string
	err     error
}

func (f *fakeTransport) reply(bodies ...string) {
	f.replies = append(f.replies, bodies...)
}

func (f *fakeTransport) PostForm(_ context.Context, endpoint string, fields transport.Fields) (string, error) {
	f.calls = append(f.calls, call{endpoint: endpoint, fields: fields})
	if f.err != nil {
		return "", f.err
	}
	if len(f.replies) == 0 {
		return "", fmt.Errorf("no reply queued for %s", endpoint)
	}
	body := f.replies[0]
	f.replies = f.replies[1:]
	return body, nil
}

func newEngine(t *testing.T, regionID string) (*Engine, *fakeTransport, *telemetry.Recorder) {
	fake := &fakeTransport{}
	tel := telemetry.NewRecorder()
	engine, err := New(regionID, false, fake, tel)
	require.NoError(t, err)
	return engine, fake, tel
}

func startedEngine(t *testing.T) (*Engine, *fakeTransport, *telemetry.Recorder) {
	engine, fake, tel := newEngine(t, "en")
	fake.reply(gamePage)
	require.NoError(t, engine.Bootstrap(context.Background()))
	return engine, fake, tel
}

func TestNewRegion(t *testing.T) {
	for _, id := range []string{"en", "fr_animals", "jp_animals", "id"} {
		engine, _, _ := newEngine(t, id)
		require.Equal(t, id, string(engine.State().Region))
	}

	fake := &fakeTransport{}
	_, err := New("klingon", false, fake, telemetry.NewRecorder())
	require.True(t, errors.Is(err, ErrInvalidRegion))
	require.Empty(t, fake.calls)
}

func TestBootstrap(t *testing.T) {
	fake := &fakeTransport{}
	engine, err := New("fr_animals", true, fake, telemetry.NewRecorder())
	require.NoError(t, err)
	fake.reply(gamePage)

	require.Equal(t, STATUS_UNINITIALIZED, engine.State().Status())
	require.NoError(t, engine.Bootstrap(context.Background()))

	state := engine.State()
	require.Equal(t, STATUS_ACTIVE, state.Status())
	require.Equal(t, "311", state.Session)
	require.Equal(t, "sig-9", state.Signature)
	require.Equal(t, "Is your character real?", state.Question)
	require.Equal(t, "https://fr.akinator.com", state.BaseURL)
	require.Equal(t, 14, state.GameMode)
	require.Equal(t, 0, state.Step)
	require.Equal(t, 0.0, state.Progress)

	require.Equal(t, []call{{
		endpoint: "https://fr.akinator.com/game",
		fields:   transport.Fields{"cm": true, "sid": 14},
	}}, fake.calls)

	err = engine.Bootstrap(context.Background())
	require.True(t, errors.Is(err, ErrAlreadyStarted))
}

func TestBootstrapFailureCanBeRetried(t *testing.T) {
	engine, fake, tel := newEngine(t, "en")
	fake.reply(`<html><p id="question-label">Q?</p></html>`)

	err := engine.Bootstrap(context.Background())
	require.True(t, errors.Is(err, ErrBootstrapFailure))
	require.Equal(t, STATUS_UNINITIALIZED, engine.State().Status())
	require.Len(t, tel.Find(telemetry.REPORT_BROKEN, report_engine_bootstrap), 1)

	fake.reply(gamePage)
	require.NoError(t, engine.Bootstrap(context.Background()))
	require.Equal(t, STATUS_ACTIVE, engine.State().Status())
}

func TestBootstrapTransportError(t *testing.T) {
	engine, fake, _ := newEngine(t, "en")
	fake.err = errors.New("connection reset")

	err := engine.Bootstrap(context.Background())
	require.ErrorIs(t, err, fake.err)
	require.Equal(t, STATUS_UNINITIALIZED, engine.State().Status())
}

func TestCallsBeforeBootstrap(t *testing.T) {
	engine, fake, _ := newEngine(t, "en")

	_, err := engine.SubmitAnswer(context.Background(), ANSWER_YES)
	require.ErrorIs(t, err, ErrNotStarted)
	_, err = engine.CancelLastAnswer(context.Background())
	require.ErrorIs(t, err, ErrNotStarted)
	require.Empty(t, fake.calls)
}

func TestSubmitAnswerProgress(t *testing.T) {
	engine, fake, _ := startedEngine(t)
	fake.reply(`{"completion":"OK","step":"4","progression":"37.5","question":"Is it a human?"}`)

	outcome, err := engine.SubmitAnswer(context.Background(), ANSWER_PROBABLY)
	require.NoError(t, err)
	require.False(t, outcome.Win)

	state := engine.State()
	require.Equal(t, 4, state.Step)
	require.Equal(t, 37.5, state.Progress)
	require.Equal(t, "Is it a human?", state.Question)
	require.False(t, state.Win)
	require.Equal(t, STATUS_ACTIVE, state.Status())

	require.Equal(t, call{
		endpoint: "https://en.akinator.com/answer",
		fields: transport.Fields{
			"step":                  0,
			"progression":           0.0,
			"sid":                   1,
			"cm":                    false,
			"answer":                3,
			"step_last_proposition": "",
			"session":               "311",
			"signature":             "sig-9",
		},
	}, fake.calls[1])
}

func TestSubmitAnswerFallbacks(t *testing.T) {
	engine, fake, _ := startedEngine(t)
	fake.reply(
		`{"completion":"OK","step":"2","progression":"12.5","question":"Q2"}`,
		`{"completion":"OK","step":"two","progression":"NaN"}`,
		`{"completion":"OK"}`,
	)

	_, err := engine.SubmitAnswer(context.Background(), ANSWER_YES)
	require.NoError(t, err)

	_, err = engine.SubmitAnswer(context.Background(), ANSWER_YES)
	require.NoError(t, err)
	state := engine.State()
	require.Equal(t, 3, state.Step)
	require.Equal(t, 12.5, state.Progress)
	require.Equal(t, "Q2", state.Question)

	_, err = engine.SubmitAnswer(context.Background(), ANSWER_NO)
	require.NoError(t, err)
	state = engine.State()
	require.Equal(t, 4, state.Step)
	require.False(t, math.IsNaN(state.Progress))
	require.Equal(t, 12.5, state.Progress)
}

func TestSubmitAnswerRequestFailureLeavesStateUnchanged(t *testing.T) {
	engine, fake, tel := startedEngine(t)
	fake.reply(`{"completion":"OK","step":"1","progression":"5","question":"Q1"}`)
	_, err := engine.SubmitAnswer(context.Background(), ANSWER_YES)
	require.NoError(t, err)

	before := engine.State()
	fake.reply(`{"completion":"KO - TIMEOUT","step":"9","progression":"99","question":"nope","name_proposition":"X","step_last_proposition":"3"}`)

	outcome, err := engine.SubmitAnswer(context.Background(), ANSWER_YES)
	var failure *RequestFailure
	require.True(t, errors.As(err, &failure))
	require.Equal(t, "KO - TIMEOUT", failure.Completion)
	require.Equal(t, response.KIND_STRUCTURED, outcome.Response.Kind)

	after := engine.State()
	if diff := cmp.Diff(before, after, cmp.AllowUnexported(State{})); diff != "" {
		t.Fatal(diff)
	}
	require.Len(t, tel.Find(telemetry.REPORT_WARNING, report_engine_submit_answer), 1)
}

func TestSubmitAnswerOpaqueResponse(t *testing.T) {
	engine, fake, _ := startedEngine(t)
	before := engine.State()
	fake.reply(`<html>Access denied</html>`)

	outcome, err := engine.SubmitAnswer(context.Background(), ANSWER_YES)
	var opaque *OpaqueResponseError
	require.True(t, errors.As(err, &opaque))
	require.Equal(t, response.KIND_OPAQUE, outcome.Response.Kind)
	require.Equal(t, `<html>Access denied</html>`, outcome.Response.Raw)
	require.Equal(t, before.Step, engine.State().Step)
}

func TestSubmitAnswerInvalid(t *testing.T) {
	engine, fake, _ := startedEngine(t)
	_, err := engine.SubmitAnswer(context.Background(), Answer(9))
	require.ErrorIs(t, err, ErrInvalidAnswer)
	require.Len(t, fake.calls, 1)
}

func TestSubmitAnswerSingleGuess(t *testing.T) {
	engine, fake, tel := startedEngine(t)
	fake.reply(`{"completion":"OK","name_proposition":"Sherlock Holmes","id_proposition":"42","nb_elements":1}`)

	_, err := engine.SubmitAnswer(context.Background(), ANSWER_YES)
	require.NoError(t, err)

	state := engine.State()
	require.True(t, state.Win)
	require.Equal(t, STATUS_WON, state.Status())
	require.Equal(t, []Guess{{
		Name:          "Sherlock Holmes",
		PropositionID: "42",
		Probability:   "85%",
	}}, engine.Guesses())
	require.Equal(t, "Sherlock Holmes", state.Suggestion.Name)
	require.Len(t, tel.Find(telemetry.REPORT_COUNT, report_engine_guesses), 1)
}

func TestSubmitAnswerGuessList(t *testing.T) {
	engine, fake, _ := startedEngine(t)
	fake.reply(`{
		"completion": "OK",
		"name_proposition": "Sherlock Holmes",
		"id_proposition": "42",
		"nb_elements": 2,
		"propositions": [
			{"name": "Sherlock Holmes", "id": "42", "proba": "0.91"},
			{"name": "Dr. Watson", "id": "44", "proba": "0.04"}
		]
	}`)

	_, err := engine.SubmitAnswer(context.Background(), ANSWER_YES)
	require.NoError(t, err)

	guesses := engine.Guesses()
	require.Len(t, guesses, 2)
	require.Equal(t, "0.91", guesses[0].Probability)
	require.Equal(t, "0.04", guesses[1].Probability)
}

func TestStepLastPropositionIsSticky(t *testing.T) {
	engine, fake, _ := startedEngine(t)
	fake.reply(
		`{"completion":"OK","step":"1","progression":"10","question":"Q1","step_last_proposition":"20"}`,
		`{"completion":"OK","step":"2","progression":"20","question":"Q2","step_last_proposition":""}`,
		`{"completion":"OK","step":"3","progression":"30","question":"Q3"}`,
	)

	for i := 0; i < 3; i++ {
		_, err := engine.SubmitAnswer(context.Background(), ANSWER_NO)
		require.NoError(t, err)
	}

	require.Equal(t, "", fake.calls[1].fields["step_last_proposition"])
	require.Equal(t, "20", fake.calls[2].fields["step_last_proposition"])
	require.Equal(t, "20", fake.calls[3].fields["step_last_proposition"])
	require.Equal(t, "20", engine.State().StepLastProposition)
}

func TestWinIsStickyAndGuessesAppend(t *testing.T) {
	engine, fake, _ := startedEngine(t)
	fake.reply(
		`{"completion":"OK","step":"1","progression":"50","question":"Q1"}`,
		`{"completion":"OK","name_proposition":"A","id_proposition":"1"}`,
		`{"completion":"OK","step":"3","progression":"60","question":"Q3"}`,
		`{"completion":"OK","step":"2","progression":"55","question":"Q2"}`,
		`{"completion":"OK","name_proposition":"B","id_proposition":"2","proba":"0.7"}`,
	)

	ctx := context.Background()
	_, err := engine.SubmitAnswer(ctx, ANSWER_YES)
	require.NoError(t, err)
	_, err = engine.SubmitAnswer(ctx, ANSWER_YES)
	require.NoError(t, err)
	require.True(t, engine.State().Win)

	// keep answering after the win
	_, err = engine.SubmitAnswer(ctx, ANSWER_NO)
	require.NoError(t, err)
	require.True(t, engine.State().Win)
	require.Equal(t, 3, engine.State().Step)

	_, err = engine.CancelLastAnswer(ctx)
	require.NoError(t, err)
	require.True(t, engine.State().Win)
	require.Equal(t, 2, engine.State().Step)
	require.Len(t, engine.Guesses(), 1)

	_, err = engine.SubmitAnswer(ctx, ANSWER_YES)
	require.NoError(t, err)
	guesses := engine.Guesses()
	require.Len(t, guesses, 2)
	require.Equal(t, "A", guesses[0].Name)
	require.Equal(t, "B", guesses[1].Name)
	require.Equal(t, "0.7", guesses[1].Probability)
}

func TestGuessesIsASnapshot(t *testing.T) {
	engine, fake, _ := startedEngine(t)
	fake.reply(`{"completion":"OK","name_proposition":"A","id_proposition":"1"}`)
	_, err := engine.SubmitAnswer(context.Background(), ANSWER_YES)
	require.NoError(t, err)

	guesses := engine.Guesses()
	guesses[0].Name = "mutated"

	require.Equal(t, []Guess{{Name: "A", PropositionID: "1", Probability: "85%"}}, engine.Guesses())
}

func TestCancelLastAnswer(t *testing.T) {
	engine, fake, _ := startedEngine(t)
	fake.reply(
		`{"completion":"OK","step":"1","progression":"10","question":"Q1","step_last_proposition":"5"}`,
		`{"completion":"OK","step":"0","progression":"0","question":"Is your character real?"}`,
	)
	ctx := context.Background()

	_, err := engine.SubmitAnswer(ctx, ANSWER_YES)
	require.NoError(t, err)
	_, err = engine.CancelLastAnswer(ctx)
	require.NoError(t, err)

	state := engine.State()
	require.Equal(t, 0, state.Step)
	require.Equal(t, 0.0, state.Progress)
	require.Equal(t, "Is your character real?", state.Question)

	require.Equal(t, call{
		endpoint: "https://en.akinator.com/cancel_answer",
		fields: transport.Fields{
			"step":        1,
			"progression": 10.0,
			"sid":         1,
			"cm":          false,
			"session":     "311",
			"signature":   "sig-9",
		},
	}, fake.calls[2])
}

func TestCancelAtStepZeroIsANoOp(t *testing.T) {
	engine, fake, _ := startedEngine(t)
	before := engine.State()

	_, err := engine.CancelLastAnswer(context.Background())
	require.ErrorIs(t, err, ErrNothingToCancel)
	require.Len(t, fake.calls, 1)
	require.Equal(t, before.Question, engine.State().Question)
}

func TestCancelMissingFieldsNeverYieldsNaN(t *testing.T) {
	engine, fake, _ := startedEngine(t)
	fake.reply(
		`{"completion":"OK","step":"3","progression":"30","question":"Q3"}`,
		`{"completion":"OK"}`,
	)
	ctx := context.Background()

	_, err := engine.SubmitAnswer(ctx, ANSWER_YES)
	require.NoError(t, err)
	_, err = engine.CancelLastAnswer(ctx)
	require.NoError(t, err)

	state := engine.State()
	require.Equal(t, 2, state.Step)
	require.Equal(t, 30.0, state.Progress)
	require.Equal(t, "Q3", state.Question)
}

func TestCancelRequestFailure(t *testing.T) {
	engine, fake, _ := startedEngine(t)
	fake.reply(
		`{"completion":"OK","step":"1","progression":"10","question":"Q1"}`,
		`{"completion":"KO - UNKNOWN"}`,
	)
	ctx := context.Background()
	_, err := engine.SubmitAnswer(ctx, ANSWER_YES)
	require.NoError(t, err)

	_, err = engine.CancelLastAnswer(ctx)
	var failure *RequestFailure
	require.True(t, errors.As(err, &failure))
	require.Equal(t, 1, engine.State().Step)
}

func TestSelectGuess(t *testing.T) {
	engine, fake, _ := startedEngine(t)

	_, err := engine.SelectGuess(0)
	require.ErrorIs(t, err, ErrNoGuessesAvailable)

	fake.reply(`{"completion":"OK","name_proposition":"Sherlock Holmes","id_proposition":"42","nb_elements":1}`)
	_, err = engine.SubmitAnswer(context.Background(), ANSWER_YES)
	require.NoError(t, err)

	_, err = engine.SelectGuess(1)
	var indexErr *InvalidGuessIndexError
	require.True(t, errors.As(err, &indexErr))
	require.Equal(t, 1, indexErr.Index)
	require.Equal(t, 1, indexErr.Count)

	_, err = engine.SelectGuess(-1)
	require.True(t, errors.As(err, &indexErr))

	guess, err := engine.SelectGuess(0)
	require.NoError(t, err)
	require.Equal(t, "Sherlock Holmes", guess.Name)
	require.Equal(t, guess, engine.State().Suggestion)
}

func TestProgressIsNotClamped(t *testing.T) {
	engine, fake, tel := startedEngine(t)
	fake.reply(`{"completion":"OK","step":"30","progression":"104.2","question":"Q"}`)

	_, err := engine.SubmitAnswer(context.Background(), ANSWER_YES)
	require.NoError(t, err)
	require.Equal(t, 104.2, engine.State().Progress)
	require.False(t, engine.State().Win)
	require.Len(t, tel.Find(telemetry.REPORT_DEBUG, "high progress"), 1)
}
