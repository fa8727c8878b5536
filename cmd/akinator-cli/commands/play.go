package commands

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"
	"time"

	"akinator-client/internal/akinator/session"

	"github.com/spf13/cobra"
)

func init() {
	rootCmd.AddCommand(playCmd)
}

var playCmd = &cobra.Command{
	Use:   "play",
	Short: "Plays a game interactively.",
	RunE: func(cmd *cobra.Command, args []string) error {
		engine, err := newEngine(config, config.Region)
		if err != nil {
			return err
		}
		err = play(cmd.Context(), engine, cmd.InOrStdin(), cmd.OutOrStdout(), config.Delay())
		if err != nil {
			return err
		}
		return recordGame(cmd.Context(), config, cmd.OutOrStdout(), engine.State())
	},
}

// play runs one game reading answers line by line from `in` until the
// service proposes guesses, the player quits or `in` runs dry.
func play(ctx context.Context, engine *session.Engine, in io.Reader, out io.Writer, delay time.Duration) error {
	err := engine.Bootstrap(ctx)
	if err != nil {
		return err
	}

	lines := bufio.NewScanner(in)
	prompt := answerPrompt()

	for !engine.State().Win {
		state := engine.State()
		fmt.Fprintf(out, "\n#%d (%.1f%%) %s\n%s\n> ", state.Step+1, state.Progress, state.Question, prompt)
		if !lines.Scan() {
			return lines.Err()
		}

		choice, err := parseInput(lines.Text())
		if err != nil {
			fmt.Fprintln(out, err)
			continue
		}

		switch choice.kind {
		case INPUT_QUIT:
			return nil
		case INPUT_CANCEL:
			_, err = engine.CancelLastAnswer(ctx)
			if errors.Is(err, session.ErrNothingToCancel) {
				fmt.Fprintln(out, "nothing to take back")
				continue
			}
		case INPUT_ANSWER:
			_, err = engine.SubmitAnswer(ctx, choice.answer)
		}
		if err != nil {
			return err
		}

		err = pause(ctx, delay)
		if err != nil {
			return err
		}
	}

	return pickGuess(engine, lines, out)
}

// pickGuess shows the guesses and lets the player pick the right one, an
// empty line keeps the service's own suggestion.
func pickGuess(engine *session.Engine, lines *bufio.Scanner, out io.Writer) error {
	guesses := engine.Guesses()
	fmt.Fprintln(out)
	renderGuesses(out, guesses)

	for {
		fmt.Fprintf(out, "which one is it? [1-%d, enter keeps the first] ", len(guesses))
		if !lines.Scan() {
			break
		}
		text := strings.TrimSpace(lines.Text())
		if text == "" {
			break
		}

		n, err := strconv.Atoi(text)
		if err != nil {
			fmt.Fprintln(out, "not a number")
			continue
		}
		guess, err := engine.SelectGuess(n - 1)
		var invalid *session.InvalidGuessIndexError
		if errors.As(err, &invalid) {
			fmt.Fprintln(out, err)
			continue
		}
		if err != nil {
			return err
		}
		fmt.Fprintf(out, "I knew it, %s!\n", guess.Name)
		return lines.Err()
	}

	fmt.Fprintf(out, "I think of %s\n", engine.State().Suggestion.Name)
	return lines.Err()
}
