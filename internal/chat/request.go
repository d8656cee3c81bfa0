package chat

import (
	"encoding/base64"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/tidwall/gjson"
)

type ChatTurn struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

type ChatRequest struct {
	Message string     `json:"message"`
	History []ChatTurn `json:"history"`
}

type wireRequest struct {
	Message string          `json:"message"`
	History json.RawMessage `json:"history"`
}

type ErrorKind string

const (
	KindMissingBody  ErrorKind = "missing_body"
	KindMalformed    ErrorKind = "malformed_json"
	KindEmptyMessage ErrorKind = "empty_message"
)

// RequestError is a caller mistake; it always maps to a 400.
type RequestError struct {
	Kind    ErrorKind
	Title   string
	Detail  string
	wrapped error
}

func (e *RequestError) Error() string {
	if e.wrapped != nil {
		return fmt.Sprintf("%s: %v", e.Title, e.wrapped)
	}
	return e.Title
}

func (e *RequestError) Unwrap() error { return e.wrapped }

// ParseRequest decodes an API Gateway body into a ChatRequest with a trimmed,
// non-empty message. Unknown fields are ignored, and so are history entries
// that are not objects with string role and content.
func ParseRequest(body string, isBase64 bool) (ChatRequest, error) {
	if isBase64 && body != "" {
		decoded, err := base64.StdEncoding.DecodeString(body)
		if err != nil {
			return ChatRequest{}, &RequestError{
				Kind:    KindMalformed,
				Title:   "Invalid JSON in request body",
				Detail:  "Please provide valid JSON format",
				wrapped: err,
			}
		}
		body = string(decoded)
	}

	if strings.TrimSpace(body) == "" {
		return ChatRequest{}, &RequestError{
			Kind:   KindMissingBody,
			Title:  "Request body is required",
			Detail: "Please provide a message in the request body",
		}
	}

	var wire wireRequest
	if err := json.Unmarshal([]byte(body), &wire); err != nil {
		return ChatRequest{}, &RequestError{
			Kind:    KindMalformed,
			Title:   "Invalid JSON in request body",
			Detail:  "Please provide valid JSON format",
			wrapped: err,
		}
	}

	req := ChatRequest{
		Message: strings.TrimSpace(wire.Message),
		History: parseHistory(wire.History),
	}
	if req.Message == "" {
		return ChatRequest{}, &RequestError{
			Kind:   KindEmptyMessage,
			Title:  "Message is required",
			Detail: "Please provide a non-empty message",
		}
	}
	return req, nil
}

// parseHistory keeps the well-formed turns of a history array. A missing role
// is left empty; anything other than an array yields no turns.
func parseHistory(raw json.RawMessage) []ChatTurn {
	h := gjson.ParseBytes(raw)
	if !h.IsArray() {
		return nil
	}
	var turns []ChatTurn
	h.ForEach(func(_, item gjson.Result) bool {
		if !item.IsObject() {
			return true
		}
		role, content := item.Get("role"), item.Get("content")
		if content.Type != gjson.String || (role.Exists() && role.Type != gjson.String) {
			return true
		}
		turns = append(turns, ChatTurn{Role: role.String(), Content: content.String()})
		return true
	})
	return turns
}
