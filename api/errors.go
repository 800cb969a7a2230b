package api

import (
	"bytes"
	"encoding/json"
	"strings"
)

// UploadError is any failure of the upload call, network-level or
// backend-reported. Message is already human-readable.
type UploadError struct {
	Message string
	Err     error
}

func (e *UploadError) Error() string { return e.Message }
func (e *UploadError) Unwrap() error { return e.Err }

// QueryError is any failure of the chat or events calls.
type QueryError struct {
	Message string
	Err     error
}

func (e *QueryError) Error() string { return e.Message }
func (e *QueryError) Unwrap() error { return e.Err }

// normalizeDetail extracts one display string from a backend error body.
// The backend reports errors as {"detail": ...} where detail is either a
// plain string or a list of validation errors carrying a "msg" field.
// Anything else falls back: a decodable JSON object is compacted
// verbatim, garbage yields the provided fallback.
func normalizeDetail(body []byte, fallback string) string {
	var payload struct {
		Detail json.RawMessage `json:"detail"`
	}
	if err := json.Unmarshal(body, &payload); err != nil {
		return fallback
	}

	if len(payload.Detail) > 0 && string(payload.Detail) != "null" {
		var s string
		if err := json.Unmarshal(payload.Detail, &s); err == nil {
			return s
		}

		var items []json.RawMessage
		if err := json.Unmarshal(payload.Detail, &items); err == nil {
			parts := make([]string, 0, len(items))
			for _, it := range items {
				var fieldErr struct {
					Msg string `json:"msg"`
				}
				if err := json.Unmarshal(it, &fieldErr); err == nil && fieldErr.Msg != "" {
					parts = append(parts, fieldErr.Msg)
				} else {
					parts = append(parts, string(it))
				}
			}
			if len(parts) > 0 {
				return strings.Join(parts, ", ")
			}
		}
	}

	// no usable detail, but a structured body is still better than nothing
	var compact bytes.Buffer
	if len(bytes.TrimSpace(body)) > 0 && json.Compact(&compact, body) == nil && compact.String() != "{}" {
		return compact.String()
	}
	return fallback
}
