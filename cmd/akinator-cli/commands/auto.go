package commands

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"akinator-client/internal/akinator/session"
	"akinator-client/internal/akinator/strategy"

	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/spf13/cobra"
)

var (
	autoRegions      *[]string
	autoSeed         *int64
	autoMaxQuestions *int
)

func init() {
	autoRegions = autoCmd.Flags().StringSlice("regions", nil, "Regions to play one after the other, defaults to --region.")
	autoSeed = autoCmd.Flags().Int64("seed", 0, "Seed of the answer strategy, 0 picks one from the clock.")
	autoMaxQuestions = autoCmd.Flags().Int("max-questions", strategy.MaxQuestions, "Give up a game after this many answers.")
	rootCmd.AddCommand(autoCmd)
}

var autoCmd = &cobra.Command{
	Use:   "auto [--regions en,fr,...]",
	Short: "Plays unattended games with a randomized answer strategy.",
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()
		out := cmd.OutOrStdout()

		regions := *autoRegions
		if len(regions) == 0 {
			regions = []string{config.Region}
		}
		seed := *autoSeed
		if seed == 0 {
			seed = time.Now().UnixNano()
		}

		t := newTable(out)
		t.AppendHeader(table.Row{"Region", "Steps", "Progress", "Won", "Suggestion", "Error"})

		for i, regionID := range regions {
			if i > 0 {
				err := pause(ctx, config.Delay())
				if err != nil {
					return err
				}
			}

			engine, err := newEngine(config, regionID)
			if err != nil {
				t.AppendRow(table.Row{regionID, "", "", "", "", err.Error()})
				continue
			}

			err = autoPlay(ctx, engine, strategy.New(seed+int64(i)), *autoMaxQuestions, config.Delay())
			state := engine.State()
			row := table.Row{regionID, state.Step, fmt.Sprintf("%.1f", state.Progress), state.Win, state.Suggestion.Name, ""}
			if err != nil {
				slog.Warn("auto game failed", "region", regionID, "err", err)
				row[5] = err.Error()
			}
			t.AppendRow(row)

			err = recordGame(ctx, config, out, state)
			if err != nil {
				return err
			}
		}

		t.Render()
		return nil
	},
}

// autoPlay answers questions picked by the strategy until the service
// proposes guesses. A stuck game gets an extra "don't know" on top of the
// regular answer. After maxQuestions answers, up to strategy.ForcedAnswers
// last-chance answers are given before giving up.
func autoPlay(ctx context.Context, engine *session.Engine, strat *strategy.Strategy, maxQuestions int, delay time.Duration) error {
	err := engine.Bootstrap(ctx)
	if err != nil {
		return err
	}

	submit := func(answer session.Answer) error {
		_, err := engine.SubmitAnswer(ctx, answer)
		if err != nil {
			return err
		}
		return pause(ctx, delay)
	}

	for asked := 0; asked < maxQuestions && !engine.State().Win; asked++ {
		_, err = engine.SubmitAnswer(ctx, strat.Next(engine.State().Progress))
		if err != nil {
			return err
		}

		if strat.Observe(engine.State().Progress) && !engine.State().Win {
			slog.Debug("progress is stuck, answering don't know", "step", engine.State().Step)
			_, err = engine.SubmitAnswer(ctx, session.ANSWER_DONT_KNOW)
			if err != nil {
				return err
			}
		}

		err = pause(ctx, delay)
		if err != nil {
			return err
		}
	}

	for i := 0; i < strategy.ForcedAnswers && !engine.State().Win; i++ {
		err = submit(strat.Forced())
		if err != nil {
			return err
		}
	}
	return nil
}
