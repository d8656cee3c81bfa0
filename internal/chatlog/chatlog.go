package chatlog

import (
	"context"
	"fmt"
	"time"
	"unicode/utf8"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/feature/dynamodb/attributevalue"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb"
	ddbtypes "github.com/aws/aws-sdk-go-v2/service/dynamodb/types"

	"edumark/internal/security"
)

const DefaultTTL = 30 * 24 * time.Hour

type Client interface {
	PutItem(ctx context.Context, params *dynamodb.PutItemInput, optFns ...func(*dynamodb.Options)) (*dynamodb.PutItemOutput, error)
	Query(ctx context.Context, params *dynamodb.QueryInput, optFns ...func(*dynamodb.Options)) (*dynamodb.QueryOutput, error)
}

// Record is what the chat pipeline knows about one answered request.
type Record struct {
	RequestID     string
	Variant       string
	Model         string
	Status        string
	Outcome       string
	FallbackGroup string
	Message       string
	Response      string
	HistoryTurns  int
	Latency       time.Duration
	At            time.Time
}

// Entry is the stored item. Text is only kept when a Sealer is configured.
type Entry struct {
	PK            string `dynamodbav:"PK"`
	SK            string `dynamodbav:"SK"`
	RequestID     string `dynamodbav:"RequestId"`
	Variant       string `dynamodbav:"Variant"`
	Model         string `dynamodbav:"Model"`
	Status        string `dynamodbav:"Status"`
	Outcome       string `dynamodbav:"Outcome"`
	FallbackGroup string `dynamodbav:"FallbackGroup,omitempty"`
	MessageChars  int    `dynamodbav:"MessageChars"`
	ResponseChars int    `dynamodbav:"ResponseChars"`
	HistoryTurns  int    `dynamodbav:"HistoryTurns"`
	LatencyMs     int64  `dynamodbav:"LatencyMs"`
	CreatedAt     string `dynamodbav:"CreatedAt"`
	ExpiresAt     int64  `dynamodbav:"ExpiresAt"`
	MessageEnc    string `dynamodbav:"MessageEnc,omitempty"`
	ResponseEnc   string `dynamodbav:"ResponseEnc,omitempty"`
}

type Store struct {
	ddb    Client
	table  string
	ttl    time.Duration
	sealer *security.Sealer
}

// New returns a Store; sealer may be nil, in which case no text is stored.
func New(ddb Client, table string, ttl time.Duration, sealer *security.Sealer) *Store {
	if ttl <= 0 {
		ttl = DefaultTTL
	}
	return &Store{ddb: ddb, table: table, ttl: ttl, sealer: sealer}
}

func DayPK(t time.Time) string {
	return "DAY#" + t.UTC().Format("2006-01-02")
}

func SortKey(t time.Time, requestID string) string {
	return t.UTC().Format(time.RFC3339Nano) + "#" + requestID
}

func (s *Store) entry(r Record) (Entry, error) {
	at := r.At
	if at.IsZero() {
		at = time.Now()
	}
	e := Entry{
		PK:            DayPK(at),
		SK:            SortKey(at, r.RequestID),
		RequestID:     r.RequestID,
		Variant:       r.Variant,
		Model:         r.Model,
		Status:        r.Status,
		Outcome:       r.Outcome,
		FallbackGroup: r.FallbackGroup,
		MessageChars:  utf8.RuneCountInString(r.Message),
		ResponseChars: utf8.RuneCountInString(r.Response),
		HistoryTurns:  r.HistoryTurns,
		LatencyMs:     r.Latency.Milliseconds(),
		CreatedAt:     at.UTC().Format(time.RFC3339),
		ExpiresAt:     at.Add(s.ttl).Unix(),
	}
	if s.sealer != nil {
		var err error
		if e.MessageEnc, err = s.sealer.Seal(r.Message); err != nil {
			return Entry{}, fmt.Errorf("seal message: %w", err)
		}
		if e.ResponseEnc, err = s.sealer.Seal(r.Response); err != nil {
			return Entry{}, fmt.Errorf("seal response: %w", err)
		}
	}
	return e, nil
}

func (s *Store) Write(ctx context.Context, r Record) error {
	e, err := s.entry(r)
	if err != nil {
		return err
	}
	av, err := attributevalue.MarshalMap(e)
	if err != nil {
		return fmt.Errorf("chatlog marshal: %w", err)
	}
	if _, err := s.ddb.PutItem(ctx, &dynamodb.PutItemInput{
		TableName: aws.String(s.table),
		Item:      av,
	}); err != nil {
		return fmt.Errorf("chatlog PutItem: %w", err)
	}
	return nil
}

// ListDay returns every entry stored under the given UTC day, following
// pagination.
func (s *Store) ListDay(ctx context.Context, day time.Time) ([]Entry, error) {
	var (
		out   []Entry
		start map[string]ddbtypes.AttributeValue
	)
	for {
		page, err := s.ddb.Query(ctx, &dynamodb.QueryInput{
			TableName:              aws.String(s.table),
			KeyConditionExpression: aws.String("PK = :pk"),
			ExpressionAttributeValues: map[string]ddbtypes.AttributeValue{
				":pk": &ddbtypes.AttributeValueMemberS{Value: DayPK(day)},
			},
			ExclusiveStartKey: start,
		})
		if err != nil {
			return nil, fmt.Errorf("chatlog Query %s: %w", DayPK(day), err)
		}

		var batch []Entry
		if err := attributevalue.UnmarshalListOfMaps(page.Items, &batch); err != nil {
			return nil, fmt.Errorf("chatlog unmarshal: %w", err)
		}
		out = append(out, batch...)

		if len(page.LastEvaluatedKey) == 0 {
			return out, nil
		}
		start = page.LastEvaluatedKey
	}
}
