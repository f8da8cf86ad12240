// Package extract locates and decodes the JSON array that vision models
// embed in free-form answers.
//
// Models are asked for a list such as
//
//	[{"box_2d": [ymin, xmin, ymax, xmax], "label": "cup"}]
//
// but usually wrap it in prose and a ```json fence. Records first looks for
// such a fence and decodes its body; when there is none it decodes the whole
// text. Anything else is a parse failure, which callers treat as "nothing to
// draw" rather than a fatal error.
package extract

import (
	"encoding/json"
	"errors"
	"fmt"
	"regexp"
	"strings"
)

// Record is one raw element of the decoded array. Its shape is not checked here.
type Record map[string]any

// ErrParse is matched by every error returned from Records.
var ErrParse = errors.New("no JSON array found in response")

// Reasons reported by ParseError
const (
	ReasonNoJSON      = "no_json"
	ReasonInvalidJSON = "invalid_json"
	ReasonNotAList    = "not_a_list"
)

// ParseError describes why a response could not be turned into records
type ParseError struct {
	Reason string
	Fenced bool
	Err    error
}

func (e *ParseError) Error() string {
	src := "raw text"
	if e.Fenced {
		src = "json fence"
	}
	if e.Err != nil {
		return fmt.Sprintf("parse %s: %s: %v", src, e.Reason, e.Err)
	}
	return fmt.Sprintf("parse %s: %s", src, e.Reason)
}

func (e *ParseError) Is(target error) bool { return target == ErrParse }

func (e *ParseError) Unwrap() error { return e.Err }

var fenceRe = regexp.MustCompile("(?s)```json\\s*(.*?)\\s*```")

// FencedBlock returns the body of the first ```json fence in text.
func FencedBlock(text string) (string, bool) {
	m := fenceRe.FindStringSubmatch(text)
	if m == nil {
		return "", false
	}
	return m[1], true
}

// Records decodes the JSON array carried by text.
//
// Once a fence is found its body must be valid; there is no fallback to the
// raw text. Array elements that are not objects come back as nil records so
// the result always has one entry per array element.
func Records(text string) ([]Record, error) {
	payload, fenced := FencedBlock(text)
	if !fenced {
		payload = text
	}

	var v any
	if err := json.Unmarshal([]byte(payload), &v); err != nil {
		reason := ReasonInvalidJSON
		if !fenced && !looksLikeJSON(payload) {
			reason = ReasonNoJSON
		}
		return nil, &ParseError{Reason: reason, Fenced: fenced, Err: err}
	}

	items, ok := v.([]any)
	if !ok {
		return nil, &ParseError{Reason: ReasonNotAList, Fenced: fenced}
	}

	records := make([]Record, len(items))
	for i, item := range items {
		if obj, ok := item.(map[string]any); ok {
			records[i] = Record(obj)
		}
	}
	return records, nil
}

func looksLikeJSON(s string) bool {
	s = strings.TrimSpace(s)
	return strings.HasPrefix(s, "[") || strings.HasPrefix(s, "{")
}
