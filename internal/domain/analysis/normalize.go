package analysis

import (
	"bytes"
	"encoding/json"
	"strconv"
	"strings"
)

// RawResponseKey wraps model output that is not valid JSON.
const RawResponseKey = "rawResponse"

var emptyArray = json.RawMessage("[]")

// Result is the parsed model answer for one analysis request.
type Result struct {
	Kind    Kind
	Payload json.RawMessage
	// Raw is set when the model output could not be parsed and Payload is {"rawResponse": text}.
	Raw bool
}

// ParseContent turns the model's message content into a Result. Unparseable
// content degrades to {"rawResponse": content}. Parsed objects get every
// documented array key of the kind defaulted to [] when absent or null.
func ParseContent(kind Kind, content string, arrayKeys []string) Result {
	trimmed := strings.TrimSpace(content)
	if trimmed == "" || !json.Valid([]byte(trimmed)) {
		raw, _ := json.Marshal(map[string]string{RawResponseKey: content})
		return Result{Kind: kind, Payload: raw, Raw: true}
	}

	var fields map[string]json.RawMessage
	if err := json.Unmarshal([]byte(trimmed), &fields); err != nil || fields == nil {
		// Arrays, scalars and null pass through untouched.
		return Result{Kind: kind, Payload: json.RawMessage(trimmed)}
	}

	changed := false
	for _, key := range arrayKeys {
		value, ok := fields[key]
		if !ok || bytes.Equal(bytes.TrimSpace(value), []byte("null")) {
			fields[key] = emptyArray
			changed = true
		}
	}
	if !changed {
		return Result{Kind: kind, Payload: json.RawMessage(trimmed)}
	}

	payload, err := json.Marshal(fields)
	if err != nil {
		return Result{Kind: kind, Payload: json.RawMessage(trimmed)}
	}
	return Result{Kind: kind, Payload: payload}
}

// Fields gives loose, per-key access to an object payload.
type Fields map[string]json.RawMessage

// Fields returns the payload as an object. It reports false for raw fallbacks
// and non-object payloads.
func (r *Result) Fields() (Fields, bool) {
	if r.Raw {
		return nil, false
	}
	var f Fields
	if err := json.Unmarshal(r.Payload, &f); err != nil || f == nil {
		return nil, false
	}
	return f, true
}

// Number returns key when it holds a JSON number.
func (f Fields) Number(key string) (float64, bool) {
	raw, ok := f[key]
	if !ok {
		return 0, false
	}
	var value any
	dec := json.NewDecoder(bytes.NewReader(raw))
	dec.UseNumber()
	if err := dec.Decode(&value); err != nil {
		return 0, false
	}
	n, ok := value.(json.Number)
	if !ok {
		return 0, false
	}
	v, err := strconv.ParseFloat(n.String(), 64)
	if err != nil {
		return 0, false
	}
	return v, true
}

// String returns key when it holds a JSON string.
func (f Fields) String(key string) string {
	var s string
	if raw, ok := f[key]; ok {
		_ = json.Unmarshal(raw, &s)
	}
	return s
}

// Texts returns the items of an array key as text. Non-array values yield nil.
func (f Fields) Texts(key string) []Text {
	var items []Text
	if raw, ok := f[key]; ok {
		if err := json.Unmarshal(raw, &items); err != nil {
			return nil
		}
	}
	return items
}

// Objects returns the object items of an array key, skipping anything else.
func (f Fields) Objects(key string) []Fields {
	raw, ok := f[key]
	if !ok {
		return nil
	}
	var items []json.RawMessage
	if err := json.Unmarshal(raw, &items); err != nil {
		return nil
	}
	out := make([]Fields, 0, len(items))
	for _, item := range items {
		var obj Fields
		if err := json.Unmarshal(item, &obj); err == nil && obj != nil {
			out = append(out, obj)
		}
	}
	return out
}
