package commands

import (
	"fmt"
	"strconv"
	"strings"

	"akinator-client/internal/akinator/session"
	"akinator-client/lib/textutil"
)

type inputKind int

const (
	INPUT_ANSWER inputKind = iota
	INPUT_CANCEL
	INPUT_QUIT
)

// numeric codes beyond the answers
const (
	codeCancel = 5
	codeQuit   = 6
)

// minSimilarity is how close a typed word must be to be accepted.
const minSimilarity = 0.85

type input struct {
	kind   inputKind
	answer session.Answer
}

var shortcuts = map[string]input{
	"y":  {kind: INPUT_ANSWER, answer: session.ANSWER_YES},
	"n":  {kind: INPUT_ANSWER, answer: session.ANSWER_NO},
	"?":  {kind: INPUT_ANSWER, answer: session.ANSWER_DONT_KNOW},
	"p":  {kind: INPUT_ANSWER, answer: session.ANSWER_PROBABLY},
	"pn": {kind: INPUT_ANSWER, answer: session.ANSWER_PROBABLY_NOT},
	"b":  {kind: INPUT_CANCEL},
	"q":  {kind: INPUT_QUIT},
}

var words, wordInputs = func() ([]string, []input) {
	var words []string
	var inputs []input
	for _, a := range session.Answers() {
		words = append(words, a.String())
		inputs = append(inputs, input{kind: INPUT_ANSWER, answer: a})
	}
	words = append(words, "back", "undo", "quit", "exit")
	inputs = append(inputs,
		input{kind: INPUT_CANCEL},
		input{kind: INPUT_CANCEL},
		input{kind: INPUT_QUIT},
		input{kind: INPUT_QUIT},
	)
	return words, inputs
}()

func answerPrompt() string {
	var parts []string
	for _, a := range session.Answers() {
		parts = append(parts, fmt.Sprintf("%d) %s", int(a), a))
	}
	parts = append(parts, fmt.Sprintf("%d) back", codeCancel), fmt.Sprintf("%d) quit", codeQuit))
	return strings.Join(parts, "  ")
}

// parseInput accepts an answer code, a shortcut or a (possibly misspelled)
// answer word.
func parseInput(text string) (input, error) {
	text = textutil.NormalizeName(text)
	if text == "" {
		return input{}, fmt.Errorf("empty input")
	}

	if code, err := strconv.Atoi(text); err == nil {
		switch {
		case session.Answer(code).Valid():
			return input{kind: INPUT_ANSWER, answer: session.Answer(code)}, nil
		case code == codeCancel:
			return input{kind: INPUT_CANCEL}, nil
		case code == codeQuit:
			return input{kind: INPUT_QUIT}, nil
		}
		return input{}, fmt.Errorf("unknown code %d", code)
	}

	if in, ok := shortcuts[text]; ok {
		return in, nil
	}

	index, similarity := textutil.Closest(text, words)
	if index < 0 || similarity < minSimilarity {
		return input{}, fmt.Errorf("could not understand %q", text)
	}
	return wordInputs[index], nil
}
