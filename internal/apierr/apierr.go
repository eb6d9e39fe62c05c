// Package apierr turns backend failure bodies into a single display string.
// The backend mixes three detail shapes (plain string, validation-error
// array, fault object); parsing is exhaustive over a tagged variant so no
// body shape can escape with a raw decode error.
package apierr

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strings"
)

type DetailKind int

const (
	// DetailNone: body parsed but carried no detail field.
	DetailNone DetailKind = iota
	// DetailString: {"detail": "bad credentials"}
	DetailString
	// DetailList: {"detail": [{"msg": "..."}, ...]}
	DetailList
	// DetailObject: {"detail": {"message": "..."}}
	DetailObject
	// DetailUnparsable: body was not a JSON object at all.
	DetailUnparsable
)

// Detail is the parsed failure payload of a non-2xx response.
type Detail struct {
	Kind    DetailKind
	Str     string            // DetailString
	Items   []json.RawMessage // DetailList
	Object  json.RawMessage   // DetailObject
	Message string            // top-level message field, DetailNone fallback
}

type envelope struct {
	Detail  json.RawMessage `json:"detail"`
	Message string          `json:"message"`
}

// Parse classifies a failure body into one of the known detail shapes.
func Parse(body []byte) Detail {
	var env envelope
	if err := json.Unmarshal(body, &env); err != nil {
		return Detail{Kind: DetailUnparsable}
	}
	raw := bytes.TrimSpace(env.Detail)
	if len(raw) == 0 || bytes.Equal(raw, []byte("null")) {
		return Detail{Kind: DetailNone, Message: env.Message}
	}
	switch raw[0] {
	case '"':
		var s string
		if err := json.Unmarshal(raw, &s); err != nil {
			return Detail{Kind: DetailUnparsable}
		}
		return Detail{Kind: DetailString, Str: s}
	case '[':
		var items []json.RawMessage
		if err := json.Unmarshal(raw, &items); err != nil {
			return Detail{Kind: DetailUnparsable}
		}
		return Detail{Kind: DetailList, Items: items}
	default:
		return Detail{Kind: DetailObject, Object: raw}
	}
}

// Normalize produces the one user-facing message for a failed response.
func Normalize(status int, body []byte) string {
	d := Parse(body)
	switch d.Kind {
	case DetailUnparsable:
		return fmt.Sprintf("Request failed (%d)", status)
	case DetailNone:
		if d.Message != "" {
			return d.Message
		}
		return "Request failed"
	case DetailString:
		return d.Str
	case DetailList:
		parts := make([]string, 0, len(d.Items))
		for _, item := range d.Items {
			parts = append(parts, itemMessage(item))
		}
		return strings.Join(parts, "; ")
	default: // DetailObject
		var obj struct {
			Message string `json:"message"`
		}
		if err := json.Unmarshal(d.Object, &obj); err == nil && obj.Message != "" {
			return obj.Message
		}
		return compact(d.Object)
	}
}

// itemMessage extracts a validation element's msg field, falling back to the
// element's full serialization.
func itemMessage(item json.RawMessage) string {
	var elem struct {
		Msg string `json:"msg"`
	}
	if err := json.Unmarshal(item, &elem); err == nil && elem.Msg != "" {
		return elem.Msg
	}
	return compact(item)
}

func compact(raw json.RawMessage) string {
	var buf bytes.Buffer
	if err := json.Compact(&buf, raw); err != nil {
		return string(raw)
	}
	return buf.String()
}
