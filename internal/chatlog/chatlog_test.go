package chatlog

import (
	"context"
	"encoding/base64"
	"strings"
	"testing"
	"time"

	"github.com/aws/aws-sdk-go-v2/feature/dynamodb/attributevalue"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb"
	ddbtypes "github.com/aws/aws-sdk-go-v2/service/dynamodb/types"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"edumark/internal/security"
)

type fakeDDB struct {
	puts  []map[string]ddbtypes.AttributeValue
	pages [][]map[string]ddbtypes.AttributeValue
	calls int
}

func (f *fakeDDB) PutItem(ctx context.Context, in *dynamodb.PutItemInput, _ ...func(*dynamodb.Options)) (*dynamodb.PutItemOutput, error) {
	f.puts = append(f.puts, in.Item)
	return &dynamodb.PutItemOutput{}, nil
}

func (f *fakeDDB) Query(ctx context.Context, in *dynamodb.QueryInput, _ ...func(*dynamodb.Options)) (*dynamodb.QueryOutput, error) {
	out := &dynamodb.QueryOutput{Items: f.pages[f.calls]}
	f.calls++
	if f.calls < len(f.pages) {
		out.LastEvaluatedKey = map[string]ddbtypes.AttributeValue{"PK": &ddbtypes.AttributeValueMemberS{Value: "next"}}
	}
	return out, nil
}

var at = time.Date(2025, 3, 14, 9, 26, 53, 0, time.UTC)

func sampleRecord() Record {
	return Record{
		RequestID:    "req-1",
		Variant:      "tutor",
		Model:        "gemma-7b-it",
		Status:       "success",
		Outcome:      "model",
		Message:      "What is photosynthesis?",
		Response:     "Plants turn light into chemical energy.",
		HistoryTurns: 2,
		Latency:      1500 * time.Millisecond,
		At:           at,
	}
}

func TestWriteStoresCountsOnly(t *testing.T) {
	ddb := &fakeDDB{}
	require.NoError(t, New(ddb, "log", 0, nil).Write(context.Background(), sampleRecord()))
	require.Len(t, ddb.puts, 1)

	var e Entry
	require.NoError(t, attributevalue.UnmarshalMap(ddb.puts[0], &e))
	assert.Equal(t, "DAY#2025-03-14", e.PK)
	assert.Equal(t, "2025-03-14T09:26:53Z#req-1", e.SK)
	assert.Equal(t, 23, e.MessageChars)
	assert.Equal(t, int64(1500), e.LatencyMs)
	assert.Equal(t, at.Add(DefaultTTL).Unix(), e.ExpiresAt)
	assert.Empty(t, e.MessageEnc)
	_, hasGroup := ddb.puts[0]["FallbackGroup"]
	assert.False(t, hasGroup)
}

func TestWriteSealsText(t *testing.T) {
	sealer, err := security.NewSealerFromBase64(base64.StdEncoding.EncodeToString([]byte(strings.Repeat("x", 32))))
	require.NoError(t, err)

	ddb := &fakeDDB{}
	require.NoError(t, New(ddb, "log", time.Hour, sealer).Write(context.Background(), sampleRecord()))

	var e Entry
	require.NoError(t, attributevalue.UnmarshalMap(ddb.puts[0], &e))
	msg, err := sealer.Open(e.MessageEnc)
	require.NoError(t, err)
	assert.Equal(t, "What is photosynthesis?", msg)
	assert.NotContains(t, e.ResponseEnc, "light")
}

func TestListDayPaginates(t *testing.T) {
	item := func(id string) map[string]ddbtypes.AttributeValue {
		av, err := attributevalue.MarshalMap(Entry{PK: "DAY#2025-03-14", SK: id, RequestID: id, Variant: "tutor"})
		require.NoError(t, err)
		return av
	}
	ddb := &fakeDDB{pages: [][]map[string]ddbtypes.AttributeValue{
		{item("a"), item("b")},
		{item("c")},
	}}

	got, err := New(ddb, "log", 0, nil).ListDay(context.Background(), at)
	require.NoError(t, err)
	assert.Equal(t, 2, ddb.calls)
	require.Len(t, got, 3)
	assert.Equal(t, "c", got[2].RequestID)
}
