package llm

import (
	"bytes"
	"encoding/json"
	"strings"
	"unicode"
)

const (
	ObjectParseError  = "Could not parse JSON"
	ArrayParseError   = "Could not parse response"
	NoResponseMessage = "Sorry, no response."
)

// Reply is the shape of a successful response body. It is one of
// ErrorObject, UnknownObject, CompletionArray or PlainText.
type Reply interface {
	isReply()
}

// ErrorObject is a JSON object carrying an "error" field.
type ErrorObject struct {
	Message string
}

// UnknownObject is a JSON object without an "error" field, re-encoded compactly.
type UnknownObject struct {
	Raw string
}

// CompletionArray holds the trimmed generated_text of the first element.
type CompletionArray struct {
	Text string
}

// PlainText is a body that is not JSON, trimmed.
type PlainText struct {
	Body string
}

func (ErrorObject) isReply()     {}
func (UnknownObject) isReply()   {}
func (CompletionArray) isReply() {}
func (PlainText) isReply()       {}

// Classify sniffs body by its first non-whitespace character.
// It never fails: unparseable JSON degrades to fixed placeholder values.
func Classify(body string) Reply {
	trimmed := strings.TrimLeftFunc(body, unicode.IsSpace)

	switch {
	case strings.HasPrefix(trimmed, "{"):
		return classifyObject(body)
	case strings.HasPrefix(trimmed, "["):
		return classifyArray(body)
	default:
		return PlainText{Body: strings.TrimSpace(body)}
	}
}

func classifyObject(body string) Reply {
	var obj map[string]json.RawMessage
	if err := json.Unmarshal([]byte(body), &obj); err != nil {
		return ErrorObject{Message: ObjectParseError}
	}

	if raw, ok := obj["error"]; ok {
		return ErrorObject{Message: errorText(raw)}
	}

	var buf bytes.Buffer
	if err := json.Compact(&buf, []byte(body)); err != nil {
		return UnknownObject{Raw: strings.TrimSpace(body)}
	}
	return UnknownObject{Raw: buf.String()}
}

// errorText unquotes string errors and leaves any other JSON as written.
func errorText(raw json.RawMessage) string {
	if isNull(raw) {
		return "null"
	}
	var s string
	if err := json.Unmarshal(raw, &s); err == nil {
		return s
	}
	var buf bytes.Buffer
	if err := json.Compact(&buf, raw); err == nil {
		return buf.String()
	}
	return string(raw)
}

func classifyArray(body string) Reply {
	var items []json.RawMessage
	if err := json.Unmarshal([]byte(body), &items); err != nil {
		return CompletionArray{Text: ArrayParseError}
	}
	if len(items) == 0 {
		return CompletionArray{Text: NoResponseMessage}
	}

	var first map[string]json.RawMessage
	if err := json.Unmarshal(items[0], &first); err != nil {
		return CompletionArray{Text: NoResponseMessage}
	}

	var text string
	raw, ok := first["generated_text"]
	if !ok || isNull(raw) || json.Unmarshal(raw, &text) != nil {
		return CompletionArray{Text: NoResponseMessage}
	}

	return CompletionArray{Text: strings.TrimSpace(text)}
}

func isNull(raw json.RawMessage) bool {
	return bytes.Equal(bytes.TrimSpace(raw), []byte("null"))
}
