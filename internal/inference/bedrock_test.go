package inference

import (
	"context"
	"encoding/json"
	"errors"
	"testing"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	bedrockruntime "github.com/aws/aws-sdk-go-v2/service/bedrockruntime"
	brtypes "github.com/aws/aws-sdk-go-v2/service/bedrockruntime/types"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeBedrock struct {
	in  *bedrockruntime.InvokeModelInput
	out []byte
	err error
}

func (f *fakeBedrock) InvokeModel(ctx context.Context, params *bedrockruntime.InvokeModelInput, optFns ...func(*bedrockruntime.Options)) (*bedrockruntime.InvokeModelOutput, error) {
	f.in = params
	if f.err != nil {
		return nil, f.err
	}
	return &bedrockruntime.InvokeModelOutput{Body: f.out}, nil
}

func TestBedrockGenerate(t *testing.T) {
	fb := &fakeBedrock{out: []byte(`{"content":[{"type":"text","text":"Photosynthesis "},{"type":"text","text":"turns light into sugar."}]}`)}
	g := NewBedrockGenerator(fb, "anthropic.claude-3-haiku", time.Second)

	text, err := g.Generate(context.Background(), "the prompt", Parameters{MaxNewTokens: 400, Temperature: 0.7, StopSequences: []string{"\nUser:"}})
	require.NoError(t, err)
	assert.Equal(t, "Photosynthesis turns light into sugar.", text)
	assert.Equal(t, "anthropic.claude-3-haiku", aws.ToString(fb.in.ModelId))

	var payload map[string]any
	require.NoError(t, json.Unmarshal(fb.in.Body, &payload))
	assert.Equal(t, float64(400), payload["max_tokens"])
	assert.Equal(t, []any{"\nUser:"}, payload["stop_sequences"])
}

func TestBedrockErrors(t *testing.T) {
	g := NewBedrockGenerator(&fakeBedrock{err: &brtypes.ModelNotReadyException{Message: aws.String("warming")}}, "m", 0)
	_, err := g.Generate(context.Background(), "p", Parameters{})
	assert.ErrorIs(t, err, ErrModelLoading)

	for _, busy := range []error{
		&brtypes.ThrottlingException{Message: aws.String("rate exceeded")},
		&brtypes.ServiceUnavailableException{Message: aws.String("try later")},
	} {
		g = NewBedrockGenerator(&fakeBedrock{err: busy}, "m", 0)
		_, err = g.Generate(context.Background(), "p", Parameters{})
		assert.ErrorIs(t, err, ErrModelLoading)
		assert.NotErrorIs(t, err, ErrUnavailable)
	}

	g = NewBedrockGenerator(&fakeBedrock{err: &brtypes.ModelTimeoutException{Message: aws.String("slow")}}, "m", 0)
	_, err = g.Generate(context.Background(), "p", Parameters{})
	assert.ErrorIs(t, err, ErrTimeout)

	g = NewBedrockGenerator(&fakeBedrock{err: errors.New("access denied")}, "m", 0)
	_, err = g.Generate(context.Background(), "p", Parameters{})
	assert.ErrorIs(t, err, ErrUnavailable)
	assert.NotErrorIs(t, err, ErrTimeout)

	g = NewBedrockGenerator(&fakeBedrock{out: []byte("nope")}, "m", 0)
	_, err = g.Generate(context.Background(), "p", Parameters{})
	assert.ErrorIs(t, err, ErrUnavailable)
}
