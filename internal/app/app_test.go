package app

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/aws/aws-lambda-go/events"
	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"edumark/internal/chat"
	"edumark/internal/config"
	"edumark/internal/inference"
)

func TestSelectGenerator(t *testing.T) {
	tutor, err := chat.LookupVariant("tutor")
	require.NoError(t, err)
	assistant, err := chat.LookupVariant("assistant")
	require.NoError(t, err)

	cfg := config.Public(func(string) string { return "" })

	gen, params := SelectGenerator(cfg, tutor, aws.Config{})
	assert.Equal(t, "https://api-inference.huggingface.co/models/google/gemma-7b-it", gen.Name())
	assert.Equal(t, tutor.HubParams, params)

	cfg.Endpoint = "https://gemma.internal/generate"
	gen, params = SelectGenerator(cfg, assistant, aws.Config{})
	assert.Equal(t, "https://gemma.internal/generate", gen.Name())
	assert.Equal(t, 1024, params.MaxNewTokens)
	assert.InDelta(t, 1.1, params.RepetitionPenalty, 1e-9)

	cfg.Backend = config.BackendBedrock
	cfg.BedrockModelID = "anthropic.claude-3-haiku"
	gen, _ = SelectGenerator(cfg, assistant, aws.Config{Region: "us-east-1"})
	assert.IsType(t, &inference.BedrockGenerator{}, gen)
}

func TestWireEndToEnd(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`[{"generated_text":"Multiplication is repeated addition"}]`))
	}))
	defer srv.Close()

	cfg := config.Public(func(k string) string {
		return map[string]string{"CHAT_VARIANT": "subject", "GEMMA_ENDPOINT": srv.URL}[k]
	})
	cfg.InferenceTimeout = time.Second

	a, err := Wire(cfg, aws.Config{}, zap.NewNop())
	require.NoError(t, err)
	assert.Equal(t, "subject", a.Variant.Name)

	resp, err := a.Handler.Handle(context.Background(), events.APIGatewayProxyRequest{
		HTTPMethod: "POST",
		Body:       `{"message":"what is multiplication"}`,
	})
	require.NoError(t, err)
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Contains(t, resp.Body, `"response":"Multiplication is repeated addition."`)
	assert.Contains(t, resp.Body, `"model":"gemma-3-27b"`)

	families, err := a.Registry.Gather()
	require.NoError(t, err)
	var names []string
	for _, f := range families {
		names = append(names, f.GetName())
	}
	assert.Contains(t, names, "edumark_chat_requests_total")
}

func TestWireRejectsBadInputs(t *testing.T) {
	cfg := config.Public(func(string) string { return "" })
	cfg.Variant = "poet"
	_, err := Wire(cfg, aws.Config{}, zap.NewNop())
	assert.ErrorContains(t, err, "unknown chat variant")

	cfg.Variant = "tutor"
	cfg.ChatLogTable = "log"
	cfg.ChatLogKeyB64 = "short"
	_, err = Wire(cfg, aws.Config{}, zap.NewNop())
	assert.ErrorContains(t, err, "CHAT_LOG_ENC_KEY_B64")
}
