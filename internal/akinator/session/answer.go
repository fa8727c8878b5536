package session

import "fmt"

// Answer is the reply given to the current question, the value is the code
// the service understands.
type Answer int

const (
	ANSWER_YES Answer = iota
	ANSWER_NO
	ANSWER_DONT_KNOW
	ANSWER_PROBABLY
	ANSWER_PROBABLY_NOT
)

var answerNames = map[Answer]string{
	ANSWER_YES:          "yes",
	ANSWER_NO:           "no",
	ANSWER_DONT_KNOW:    "don't know",
	ANSWER_PROBABLY:     "probably",
	ANSWER_PROBABLY_NOT: "probably not",
}

// Answers lists every answer in code order.
func Answers() []Answer {
	return []Answer{
		ANSWER_YES,
		ANSWER_NO,
		ANSWER_DONT_KNOW,
		ANSWER_PROBABLY,
		ANSWER_PROBABLY_NOT,
	}
}

func (a Answer) Valid() bool {
	_, ok := answerNames[a]
	return ok
}

func (a Answer) String() string {
	name, ok := answerNames[a]
	if !ok {
		return fmt.Sprintf("Answer(%d)", int(a))
	}
	return name
}
