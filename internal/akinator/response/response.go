// Package response decodes the bodies returned by the answer and cancel
// endpoints and normalizes the many shapes they come in.
package response

import (
	"encoding/json"
	"fmt"
	"math"
	"regexp"
	"strconv"
	"strings"
)

type Kind int

const (
	// KIND_STRUCTURED is a body that decoded into a JSON object.
	KIND_STRUCTURED Kind = iota
	// KIND_OPAQUE is anything else, usually an HTML error page. It is never valid state.
	KIND_OPAQUE
)

func (k Kind) String() string {
	switch k {
	case KIND_STRUCTURED:
		return "structured"
	case KIND_OPAQUE:
		return "opaque"
	}
	return fmt.Sprintf("Kind(%d)", int(k))
}

// Response is either a structured record of named fields or the raw text
// of a body that was not one.
type Response struct {
	Kind   Kind
	Fields map[string]any
	Raw    string
}

// Decode attempts a strict decode of the body into an object, falling back
// to an opaque response carrying the body unmodified.
func Decode(body string) Response {
	decoder := json.NewDecoder(strings.NewReader(body))
	decoder.UseNumber()

	var fields map[string]any
	err := decoder.Decode(&fields)
	if err != nil || fields == nil || decoder.More() {
		return Response{Kind: KIND_OPAQUE, Raw: body}
	}
	return Response{Kind: KIND_STRUCTURED, Fields: fields, Raw: body}
}

// Structured returns a response made of the given fields, it is mostly
// useful for tests and fakes.
func Structured(fields map[string]any) Response {
	raw, _ := json.Marshal(fields)
	return Decode(string(raw))
}

func lookup(fields map[string]any, aliases []string) (any, bool) {
	for _, alias := range aliases {
		value, ok := fields[alias]
		if !ok || value == nil {
			continue
		}
		if str, isStr := value.(string); isStr && str == "" {
			continue
		}
		return value, true
	}
	return nil, false
}

func stringOf(value any) (string, bool) {
	switch v := value.(type) {
	case string:
		return v, true
	case json.Number:
		return v.String(), true
	case bool:
		return strconv.FormatBool(v), true
	}
	return "", false
}

var (
	intPrefix   = regexp.MustCompile(`^[+-]?\d+`)
	floatPrefix = regexp.MustCompile(`^[+-]?(\d+\.?\d*|\.\d+)([eE][+-]?\d+)?`)
)

// intOf reads the leading integer of the value, "4.5" and "4 steps" are both 4.
func intOf(value any) (int, bool) {
	str, ok := stringOf(value)
	if !ok {
		return 0, false
	}
	match := intPrefix.FindString(strings.TrimSpace(str))
	if match == "" {
		return 0, false
	}
	n, err := strconv.Atoi(match)
	if err != nil {
		return 0, false
	}
	return n, true
}

// floatOf reads the leading decimal number of the value. NaN and infinities
// are never accepted.
func floatOf(value any) (float64, bool) {
	str, ok := stringOf(value)
	if !ok {
		return 0, false
	}
	match := floatPrefix.FindString(strings.TrimSpace(str))
	if match == "" {
		return 0, false
	}
	f, err := strconv.ParseFloat(match, 64)
	if err != nil || math.IsNaN(f) || math.IsInf(f, 0) {
		return 0, false
	}
	return f, true
}

// String returns the first non-empty alias present in the response as text.
func (r Response) String(aliases ...string) (string, bool) {
	value, ok := lookup(r.Fields, aliases)
	if !ok {
		return "", false
	}
	return stringOf(value)
}

// Int returns the first non-empty alias that parses as an integer.
func (r Response) Int(aliases ...string) (int, bool) {
	value, ok := lookup(r.Fields, aliases)
	if !ok {
		return 0, false
	}
	return intOf(value)
}

// Float returns the first non-empty alias that parses as a finite number.
func (r Response) Float(aliases ...string) (float64, bool) {
	value, ok := lookup(r.Fields, aliases)
	if !ok {
		return 0, false
	}
	return floatOf(value)
}

// Records returns the objects of an array field, entries that are not objects are skipped.
func (r Response) Records(aliases ...string) ([]map[string]any, bool) {
	value, ok := lookup(r.Fields, aliases)
	if !ok {
		return nil, false
	}
	list, ok := value.([]any)
	if !ok {
		return nil, false
	}
	var records []map[string]any
	for _, item := range list {
		record, isRecord := item.(map[string]any)
		if !isRecord {
			continue
		}
		records = append(records, record)
	}
	return records, true
}
