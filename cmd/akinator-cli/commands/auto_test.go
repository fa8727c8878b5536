package commands

import (
	"context"
	"fmt"
	"testing"

	"akinator-client/internal/akinator/akitest"
	"akinator-client/internal/akinator/session"
	"akinator-client/internal/akinator/strategy"

	"github.com/stretchr/testify/require"
)

func stepReply(step int, progress float64) string {
	return fmt.Sprintf(
		`{"completion":"OK","step":"%d","progression":"%g","question":"Question %d?"}`,
		step, progress, step+1,
	)
}

func TestAutoPlayUntilWin(t *testing.T) {
	server := akitest.NewServer(t, akitest.GamePage("1", "2", "Question 1?"))
	server.Reply(
		stepReply(1, 20),
		stepReply(2, 75),
		`{"completion":"OK","name_proposition":"Ada Lovelace","id_proposition":"88","nb_elements":1}`,
	)
	engine := newTestEngine(t, server)

	err := autoPlay(context.Background(), engine, strategy.New(1), strategy.MaxQuestions, 0)
	require.NoError(t, err)
	require.Equal(t, session.STATUS_WON, engine.State().Status())
	require.Len(t, server.Requests(), 4)
}

func TestAutoPlayGivesUpAfterForcedAnswers(t *testing.T) {
	server := akitest.NewServer(t, akitest.GamePage("1", "2", "Question 1?"))
	replies := 3 + strategy.ForcedAnswers
	for i := 1; i <= replies; i++ {
		server.Reply(stepReply(i, float64(i*10)))
	}
	engine := newTestEngine(t, server)

	err := autoPlay(context.Background(), engine, strategy.New(1), 3, 0)
	require.NoError(t, err)
	require.Equal(t, session.STATUS_ACTIVE, engine.State().Status())
	require.Equal(t, replies, engine.State().Step)

	requests := server.Requests()
	require.Len(t, requests, replies+1)
	allowed := []string{
		fmt.Sprint(int(session.ANSWER_YES)),
		fmt.Sprint(int(session.ANSWER_NO)),
		fmt.Sprint(int(session.ANSWER_DONT_KNOW)),
	}
	for _, r := range requests[4:] {
		require.Contains(t, allowed, r.Form.Get("answer"))
	}
}

func TestAutoPlayForcedAnswerCanWin(t *testing.T) {
	server := akitest.NewServer(t, akitest.GamePage("1", "2", "Question 1?"))
	server.Reply(
		stepReply(1, 10),
		stepReply(2, 20),
		`{"completion":"OK","name_proposition":"Ada Lovelace","id_proposition":"88","nb_elements":1}`,
	)
	engine := newTestEngine(t, server)

	err := autoPlay(context.Background(), engine, strategy.New(1), 2, 0)
	require.NoError(t, err)
	require.Equal(t, session.STATUS_WON, engine.State().Status())
	require.Len(t, server.Requests(), 4)
}

func TestAutoPlayAddsDontKnowWhenStuck(t *testing.T) {
	server := akitest.NewServer(t, akitest.GamePage("1", "2", "Question 1?"))
	// the first answer moves progress off zero, the next StuckLimit+1 stay put
	answers := strategy.StuckLimit + 2
	for i := 1; i <= answers+1; i++ {
		server.Reply(stepReply(i, 10))
	}
	server.Reply(`{"completion":"OK","name_proposition":"Ada Lovelace","id_proposition":"88","nb_elements":1}`)
	engine := newTestEngine(t, server)

	err := autoPlay(context.Background(), engine, strategy.New(7), answers, 0)
	require.NoError(t, err)
	require.Equal(t, session.STATUS_WON, engine.State().Status())

	requests := server.Requests()
	// bootstrap, regular answers, the extra "don't know", one forced answer
	require.Len(t, requests, answers+3)

	dontKnow := fmt.Sprint(int(session.ANSWER_DONT_KNOW))
	for i, r := range requests[1 : answers+1] {
		require.NotEqual(t, dontKnow, r.Form.Get("answer"), "answer %d", i+1)
	}
	require.Equal(t, dontKnow, requests[answers+1].Form.Get("answer"))
}

func TestAutoPlayBootstrapFailure(t *testing.T) {
	server := akitest.NewServer(t, "<html><body>maintenance</body></html>")
	engine := newTestEngine(t, server)

	err := autoPlay(context.Background(), engine, strategy.New(1), 5, 0)
	require.ErrorIs(t, err, session.ErrBootstrapFailure)
}
