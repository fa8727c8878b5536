package response

import (
	"fmt"
)

// COMPLETION_OK is the completion marker of a request the service accepted.
const COMPLETION_OK = "OK"

const (
	// DefaultListedProbability is used for a guess listed in a propositions
	// array that carries no probability.
	DefaultListedProbability = "0%"
	// DefaultSingleProbability is used for a single guess synthesized from the
	// top-level fields when the service sends no probability. It is a
	// placeholder, not a measured value.
	DefaultSingleProbability = "85%"
)

// Field is a semantic value that may be sent under several names.
type Field int

const (
	FIELD_COMPLETION Field = iota
	FIELD_STEP_LAST_PROPOSITION
	FIELD_NAME
	FIELD_DESCRIPTION
	FIELD_PHOTO
	FIELD_ID
	FIELD_PROBABILITY
	FIELD_ELEMENT_COUNT
	FIELD_PROPOSITIONS
	FIELD_STEP
	FIELD_PROGRESSION
	FIELD_QUESTION
)

// topLevelAliases are the names accepted on the response itself, in order of preference.
var topLevelAliases = map[Field][]string{
	FIELD_COMPLETION:            {"completion"},
	FIELD_STEP_LAST_PROPOSITION: {"step_last_proposition"},
	FIELD_NAME:                  {"name_proposition"},
	FIELD_DESCRIPTION:           {"description_proposition"},
	FIELD_PHOTO:                 {"photo"},
	FIELD_ID:                    {"id_proposition"},
	FIELD_PROBABILITY:           {"proba", "probability"},
	FIELD_ELEMENT_COUNT:         {"nb_elements"},
	FIELD_PROPOSITIONS:          {"propositions"},
	FIELD_STEP:                  {"step"},
	FIELD_PROGRESSION:           {"progression"},
	FIELD_QUESTION:              {"question"},
}

// recordAliases are the names accepted on each entry of the propositions array.
var recordAliases = map[Field][]string{
	FIELD_NAME:        {"name", "name_proposition"},
	FIELD_DESCRIPTION: {"description", "description_proposition"},
	FIELD_PHOTO:       {"photo"},
	FIELD_ID:          {"id", "id_proposition"},
	FIELD_PROBABILITY: {"probability", "proba"},
}

// Guess is a candidate answer proposed by the service.
type Guess struct {
	Name          string `json:"name"`
	Description   string `json:"description"`
	PhotoURL      string `json:"photo_url"`
	PropositionID string `json:"proposition_id"`
	Probability   string `json:"probability"`
}

// RequestFailure is returned when the service reports a completion other than OK.
type RequestFailure struct {
	Completion string
}

func (e *RequestFailure) Error() string {
	return fmt.Sprintf("request failure: completion %q", e.Completion)
}

// OpaqueResponseError is returned when the body was not a structured response.
type OpaqueResponseError struct {
	Body string
}

func (e *OpaqueResponseError) Error() string {
	const max = 120
	body := e.Body
	if len(body) > max {
		body = body[:max] + "..."
	}
	return fmt.Sprintf("opaque response: %q", body)
}

// Outcome is the normalized content of a successful response. The *OK flags
// tell whether the corresponding value was present and well-formed, the
// caller decides the fallback.
type Outcome struct {
	Response Response

	StepLastProposition string

	Win        bool
	Suggestion Guess
	Guesses    []Guess

	Step       int
	StepOK     bool
	Progress   float64
	ProgressOK bool
	Question   string
	QuestionOK bool
}

func (r Response) field(field Field) (string, bool) {
	return r.String(topLevelAliases[field]...)
}

func recordField(record map[string]any, field Field) string {
	value, ok := lookup(record, recordAliases[field])
	if !ok {
		return ""
	}
	str, _ := stringOf(value)
	return str
}

// Normalize checks the completion marker of the response and extracts
// everything the session needs from it.
func Normalize(r Response) (Outcome, error) {
	if r.Kind != KIND_STRUCTURED {
		return Outcome{}, &OpaqueResponseError{Body: r.Raw}
	}

	completion, _ := r.field(FIELD_COMPLETION)
	if completion != COMPLETION_OK {
		return Outcome{}, &RequestFailure{Completion: completion}
	}

	out := Outcome{Response: r}
	out.StepLastProposition, _ = r.field(FIELD_STEP_LAST_PROPOSITION)

	name, hasName := r.field(FIELD_NAME)
	id, hasID := r.field(FIELD_ID)
	if hasName || hasID {
		out.Win = true
		out.Suggestion = Guess{
			Name:          name,
			Description:   r.fieldOr(FIELD_DESCRIPTION, ""),
			PhotoURL:      r.fieldOr(FIELD_PHOTO, ""),
			PropositionID: id,
			Probability:   r.fieldOr(FIELD_PROBABILITY, DefaultSingleProbability),
		}
		out.Guesses = guessesOf(r, out.Suggestion)
	}

	out.Step, out.StepOK = r.Int(topLevelAliases[FIELD_STEP]...)
	out.Progress, out.ProgressOK = r.Float(topLevelAliases[FIELD_PROGRESSION]...)
	out.Question, out.QuestionOK = r.field(FIELD_QUESTION)

	return out, nil
}

func (r Response) fieldOr(field Field, fallback string) string {
	value, ok := r.field(field)
	if !ok {
		return fallback
	}
	return value
}

// guessesOf maps the proposition list. A win always carries at least one
// guess: an empty or missing list falls back to the top-level proposition.
func guessesOf(r Response, single Guess) []Guess {
	count, _ := r.Int(topLevelAliases[FIELD_ELEMENT_COUNT]...)
	if count > 0 {
		records, _ := r.Records(topLevelAliases[FIELD_PROPOSITIONS]...)
		if len(records) > 0 {
			guesses := make([]Guess, len(records))
			for i, record := range records {
				probability := recordField(record, FIELD_PROBABILITY)
				if probability == "" {
					probability = DefaultListedProbability
				}
				guesses[i] = Guess{
					Name:          recordField(record, FIELD_NAME),
					Description:   recordField(record, FIELD_DESCRIPTION),
					PhotoURL:      recordField(record, FIELD_PHOTO),
					PropositionID: recordField(record, FIELD_ID),
					Probability:   probability,
				}
			}
			return guesses
		}
	}
	return []Guess{single}
}
