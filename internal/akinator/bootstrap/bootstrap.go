// Package bootstrap pulls the session credentials and the first question out
// of the HTML document served when a game is started.
package bootstrap

import (
	"errors"
	"fmt"
	"strings"

	"akinator-client/lib/htmlutil"

	"github.com/PuerkitoBio/goquery"
)

var ErrBootstrapFailure = errors.New("bootstrap failure")

const (
	FIELD_SESSION   = "session"
	FIELD_SIGNATURE = "signature"
	FIELD_QUESTION  = "question"
)

const (
	sessionSelector   = "#askSoundlike > #session"
	signatureSelector = "#askSoundlike > #signature"
	questionSelector  = "#question-label"
)

// Error lists the fields that could not be found in the document.
type Error struct {
	Missing []string
	Cause   error
}

func (e *Error) Error() string {
	msg := fmt.Sprintf("%s: missing %s", ErrBootstrapFailure, strings.Join(e.Missing, ", "))
	if e.Cause != nil {
		msg = fmt.Sprintf("%s: %s", ErrBootstrapFailure, e.Cause)
	}
	return msg
}

func (e *Error) Unwrap() []error {
	if e.Cause != nil {
		return []error{ErrBootstrapFailure, e.Cause}
	}
	return []error{ErrBootstrapFailure}
}

// Result holds what the game page carries, every field is non-empty.
type Result struct {
	Session   string
	Signature string
	Question  string
}

// Extract locates the session id, signature and initial question in the given document.
func Extract(document string) (Result, error) {
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(document))
	if err != nil {
		return Result{}, &Error{Cause: fmt.Errorf("parse html: %w", err)}
	}

	result := Result{
		Session:   strings.TrimSpace(doc.Find(sessionSelector).First().AttrOr("value", "")),
		Signature: strings.TrimSpace(doc.Find(signatureSelector).First().AttrOr("value", "")),
	}

	label := doc.Find(questionSelector).First()
	if len(label.Nodes) > 0 {
		result.Question = htmlutil.CleanText(htmlutil.GetText(label.Nodes[0]))
	}

	var missing []string
	if result.Session == "" {
		missing = append(missing, FIELD_SESSION)
	}
	if result.Signature == "" {
		missing = append(missing, FIELD_SIGNATURE)
	}
	if result.Question == "" {
		missing = append(missing, FIELD_QUESTION)
	}
	if len(missing) > 0 {
		return Result{}, &Error{Missing: missing}
	}

	return result, nil
}
