package inference

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	bedrockruntime "github.com/aws/aws-sdk-go-v2/service/bedrockruntime"
	brtypes "github.com/aws/aws-sdk-go-v2/service/bedrockruntime/types"
)

type BedrockClient interface {
	InvokeModel(ctx context.Context, params *bedrockruntime.InvokeModelInput, optFns ...func(*bedrockruntime.Options)) (*bedrockruntime.InvokeModelOutput, error)
}

// BedrockGenerator sends the composed prompt as a single user message using
// the Anthropic messages payload Bedrock expects for Claude models.
type BedrockGenerator struct {
	client  BedrockClient
	modelID string
	timeout time.Duration
}

func NewBedrockGenerator(client BedrockClient, modelID string, timeout time.Duration) *BedrockGenerator {
	return &BedrockGenerator{client: client, modelID: modelID, timeout: timeout}
}

func (g *BedrockGenerator) Name() string { return "bedrock:" + g.modelID }

func (g *BedrockGenerator) Generate(ctx context.Context, prompt string, params Parameters) (string, error) {
	if g.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, g.timeout)
		defer cancel()
	}

	payload := map[string]any{
		"anthropic_version": "bedrock-2023-05-31",
		"max_tokens":        params.MaxNewTokens,
		"temperature":       params.Temperature,
		"messages": []map[string]any{
			{
				"role": "user",
				"content": []map[string]any{
					{"type": "text", "text": prompt},
				},
			},
		},
	}
	if len(params.StopSequences) > 0 {
		payload["stop_sequences"] = params.StopSequences
	}

	body, err := json.Marshal(payload)
	if err != nil {
		return "", fmt.Errorf("marshal bedrock payload: %w", err)
	}

	out, err := g.client.InvokeModel(ctx, &bedrockruntime.InvokeModelInput{
		ModelId:     aws.String(g.modelID),
		ContentType: aws.String("application/json"),
		Accept:      aws.String("application/json"),
		Body:        body,
	})
	if err != nil {
		return "", bedrockErr(err)
	}

	// { "content":[{"type":"text","text":"..."}], ... }
	var raw struct {
		Content []struct {
			Type string `json:"type"`
			Text string `json:"text"`
		} `json:"content"`
	}
	if err := json.Unmarshal(out.Body, &raw); err != nil {
		return "", fmt.Errorf("%w: bedrock response unmarshal: %w", ErrUnavailable, err)
	}

	var text strings.Builder
	for _, c := range raw.Content {
		if c.Type == "text" {
			text.WriteString(c.Text)
		}
	}
	return text.String(), nil
}

func bedrockErr(err error) error {
	var (
		notReady    *brtypes.ModelNotReadyException
		throttled   *brtypes.ThrottlingException
		unavailable *brtypes.ServiceUnavailableException
	)
	if errors.As(err, &notReady) || errors.As(err, &throttled) || errors.As(err, &unavailable) {
		return fmt.Errorf("%w: bedrock InvokeModel: %w", ErrModelLoading, err)
	}
	var modelTimeout *brtypes.ModelTimeoutException
	if errors.As(err, &modelTimeout) || isTimeout(err) {
		return fmt.Errorf("%w: bedrock InvokeModel: %w", ErrTimeout, err)
	}
	return fmt.Errorf("%w: bedrock InvokeModel: %w", ErrUnavailable, err)
}
