// Package strategy picks answers automatically for unattended games.
package strategy

import (
	"fmt"
	"math"
	"math/rand"

	"akinator-client/internal/akinator/session"
)

const (
	EarlyGameProgress = 30
	MidGameProgress   = 70

	// StuckDelta is the progress change under which an answer counts as stuck.
	StuckDelta = 0.5
	// StuckLimit is how many stuck answers in a row trigger a "don't know".
	StuckLimit = 10

	// MaxQuestions bounds an unattended game.
	MaxQuestions = 100
	// ForcedAnswers is how many last-chance answers follow MaxQuestions.
	ForcedAnswers = 5
)

var (
	earlyGame = []session.Answer{session.ANSWER_YES, session.ANSWER_PROBABLY}
	midGame   = []session.Answer{session.ANSWER_YES, session.ANSWER_NO, session.ANSWER_PROBABLY}
	lateGame  = []session.Answer{session.ANSWER_YES, session.ANSWER_NO}
	forced    = []session.Answer{session.ANSWER_YES, session.ANSWER_NO, session.ANSWER_DONT_KNOW}
)

// RandomSwitch returns a function that will output various integers at different weights.
//
// Ex. RandomSwitch(2, 3, 5) will return a function that will output:
//   - `0` 20% of the time
//   - `1` 30% of the time
//   - `2` 50% of the time
func RandomSwitch(weights ...int) func(rndm *rand.Rand) int {
	if len(weights) == 0 {
		panic("a random switch must have at least 1 probability")
	}

	var sum int
	for _, p := range weights {
		if p <= 0 {
			panic("cannot have weight that is 0 or less")
		}
		sum += p
	}

	return func(rndm *rand.Rand) int {
		value := rndm.Intn(sum)

		threshold := 0
		for i := 0; i < len(weights); i++ {
			threshold += weights[i]
			if value < threshold {
				return i
			}
		}

		panic(fmt.Sprintf("random value generated was out of bounds: %d", value))
	}
}

func uniform(n int) func(rndm *rand.Rand) int {
	weights := make([]int, n)
	for i := range weights {
		weights[i] = 1
	}
	return RandomSwitch(weights...)
}

var (
	pickEarly = uniform(len(earlyGame))
	pickMid   = uniform(len(midGame))
	pickLate  = uniform(len(lateGame))
	pickForce = uniform(len(forced))
)

// Strategy answers more positively early in the game and more decisively
// late in the game. It is not safe for concurrent use.
type Strategy struct {
	rndm         *rand.Rand
	lastProgress float64
	stuck        int
}

func New(seed int64) *Strategy {
	return &Strategy{rndm: rand.New(rand.NewSource(seed))}
}

// Next picks the answer for a question asked at the given progress.
func (s *Strategy) Next(progress float64) session.Answer {
	switch {
	case progress < EarlyGameProgress:
		return earlyGame[pickEarly(s.rndm)]
	case progress < MidGameProgress:
		return midGame[pickMid(s.rndm)]
	default:
		return lateGame[pickLate(s.rndm)]
	}
}

// Forced picks one of the last-chance answers given once MaxQuestions is
// reached without a proposition.
func (s *Strategy) Forced() session.Answer {
	return forced[pickForce(s.rndm)]
}

// Observe records the progress after an answer and returns true once the
// game has been stuck for StuckLimit answers in a row, at which point the
// counter is reset.
func (s *Strategy) Observe(progress float64) bool {
	if math.Abs(progress-s.lastProgress) < StuckDelta {
		s.stuck++
	} else {
		s.stuck = 0
		s.lastProgress = progress
	}

	if s.stuck > StuckLimit {
		s.stuck = 0
		return true
	}
	return false
}
