package model

import (
	"encoding/json"
	"fmt"
	"strconv"
)

// Accent is the presentation marker applied to every group of a payload.
type Accent string

const (
	AccentGood   Accent = "good"
	AccentDanger Accent = "danger"
)

// FieldEntry is a titled value inside a display group.
type FieldEntry struct {
	Title string
	Value any
	Short bool
}

// Text renders the value for display: strings as they are, other scalars in
// their usual textual form and anything else as JSON.
func (f FieldEntry) Text() string {
	switch v := f.Value.(type) {
	case nil:
		return "null"
	case string:
		return v
	case bool:
		return strconv.FormatBool(v)
	case int:
		return strconv.Itoa(v)
	case int64:
		return strconv.FormatInt(v, 10)
	case float64:
		return strconv.FormatFloat(v, 'f', -1, 64)
	default:
		data, err := json.Marshal(v)
		if err != nil {
			return fmt.Sprint(v)
		}
		return string(data)
	}
}

// DisplayGroup is one labelled block of fields, rendered as one chat attachment.
type DisplayGroup struct {
	Label  string
	Fields []FieldEntry
}

// DisplayContext identifies the response a payload was built from.
type DisplayContext struct {
	Type  string
	Token string
}

// DisplayPayload is a transport-agnostic message for downstream renderers.
type DisplayPayload struct {
	Groups  []DisplayGroup
	Context DisplayContext
	Accent  Accent
}
