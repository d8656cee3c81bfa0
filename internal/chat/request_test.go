package chat

import (
	"encoding/base64"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseRequest(t *testing.T) {
	tests := []struct {
		name     string
		body     string
		base64   bool
		wantKind ErrorKind
		wantMsg  string
		turns    int
	}{
		{name: "empty body", body: "", wantKind: KindMissingBody},
		{name: "blank body", body: "  \n", wantKind: KindMissingBody},
		{name: "not json", body: "hello", wantKind: KindMalformed},
		{name: "json array", body: `["hi"]`, wantKind: KindMalformed},
		{name: "message not string", body: `{"message": 5}`, wantKind: KindMalformed},
		{name: "missing message", body: `{}`, wantKind: KindEmptyMessage},
		{name: "whitespace message", body: `{"message": "   "}`, wantKind: KindEmptyMessage},
		{name: "trimmed", body: `{"message": "  What is 2+2? "}`, wantMsg: "What is 2+2?"},
		{
			name:    "with history and extra fields",
			body:    `{"message":"and 3+3?","history":[{"role":"user","content":"2+2?"},{"role":"assistant","content":"4"}],"lang":"en"}`,
			wantMsg: "and 3+3?",
			turns:   2,
		},
		{
			name:    "history entries of the wrong shape are skipped",
			body:    `{"message":"Explain photosynthesis","history":["earlier",{"role":"user","content":42},{"role":7,"content":"x"},{"role":"assistant","content":"kept"},{"content":"no role"}]}`,
			wantMsg: "Explain photosynthesis",
			turns:   2,
		},
		{name: "history as object", body: `{"message":"Explain photosynthesis","history":{"role":"user"}}`, wantMsg: "Explain photosynthesis"},
		{name: "history as string", body: `{"message":"hi","history":"earlier"}`, wantMsg: "hi"},
		{name: "history null", body: `{"message":"hi","history":null}`, wantMsg: "hi"},
		{
			name:    "base64",
			body:    base64.StdEncoding.EncodeToString([]byte(`{"message":"hi"}`)),
			base64:  true,
			wantMsg: "hi",
		},
		{name: "bad base64", body: "%%%", base64: true, wantKind: KindMalformed},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req, err := ParseRequest(tt.body, tt.base64)
			if tt.wantKind != "" {
				var re *RequestError
				require.ErrorAs(t, err, &re)
				assert.Equal(t, tt.wantKind, re.Kind)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.wantMsg, req.Message)
			assert.Len(t, req.History, tt.turns)
		})
	}
}

func TestRequestErrorTexts(t *testing.T) {
	_, err := ParseRequest("", false)
	var re *RequestError
	require.ErrorAs(t, err, &re)
	assert.Equal(t, "Request body is required", re.Title)
	assert.Equal(t, "Please provide a message in the request body", re.Detail)

	_, err = ParseRequest("{", false)
	require.ErrorAs(t, err, &re)
	assert.Equal(t, "Invalid JSON in request body", re.Title)
	assert.Error(t, re.Unwrap())

	_, err = ParseRequest(`{"message":""}`, false)
	require.ErrorAs(t, err, &re)
	assert.Equal(t, "Message is required", re.Title)
	assert.Equal(t, "Please provide a non-empty message", re.Detail)
}

func TestParseRequestKeepsWellFormedTurns(t *testing.T) {
	req, err := ParseRequest(`{"message":"next","history":[1,{"role":"assistant","content":"kept"},{"content":"no role"}]}`, false)
	require.NoError(t, err)
	assert.Equal(t, []ChatTurn{
		{Role: RoleAssistant, Content: "kept"},
		{Role: "", Content: "no role"},
	}, req.History)
}
