package cache

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"strings"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/feature/dynamodb/attributevalue"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb"
	ddbtypes "github.com/aws/aws-sdk-go-v2/service/dynamodb/types"
)

const DefaultTTL = 10 * time.Minute

type Client interface {
	GetItem(ctx context.Context, params *dynamodb.GetItemInput, optFns ...func(*dynamodb.Options)) (*dynamodb.GetItemOutput, error)
	PutItem(ctx context.Context, params *dynamodb.PutItemInput, optFns ...func(*dynamodb.Options)) (*dynamodb.PutItemOutput, error)
}

// Cache stores sanitized answers to history-free questions, per variant.
type Cache struct {
	ddb   Client
	table string
	ttl   time.Duration
	now   func() time.Time
}

func New(ddb Client, table string, ttl time.Duration) *Cache {
	if ttl <= 0 {
		ttl = DefaultTTL
	}
	return &Cache{ddb: ddb, table: table, ttl: ttl, now: time.Now}
}

type item struct {
	PK        string `dynamodbav:"PK"`
	SK        string `dynamodbav:"SK"`
	Response  string `dynamodbav:"Response"`
	CreatedAt int64  `dynamodbav:"CreatedAt"`
	ExpiresAt int64  `dynamodbav:"ExpiresAt"`
}

func NormalizeMessage(m string) string {
	return strings.Join(strings.Fields(strings.ToLower(m)), " ")
}

func HashKeyMaterial(s string) string {
	sum := sha256.Sum256([]byte(s))
	return hex.EncodeToString(sum[:])
}

func MakePK(variant string) string { return "VARIANT#" + variant }

func MakeSK(message string) string { return "Q#" + HashKeyMaterial(NormalizeMessage(message)) }

func (c *Cache) key(variant, message string) map[string]ddbtypes.AttributeValue {
	return map[string]ddbtypes.AttributeValue{
		"PK": &ddbtypes.AttributeValueMemberS{Value: MakePK(variant)},
		"SK": &ddbtypes.AttributeValueMemberS{Value: MakeSK(message)},
	}
}

func (c *Cache) Get(ctx context.Context, variant, message string) (string, bool, error) {
	out, err := c.ddb.GetItem(ctx, &dynamodb.GetItemInput{
		TableName:      aws.String(c.table),
		Key:            c.key(variant, message),
		ConsistentRead: aws.Bool(false),
	})
	if err != nil {
		return "", false, fmt.Errorf("cache GetItem: %w", err)
	}
	if len(out.Item) == 0 {
		return "", false, nil
	}

	var it item
	if err := attributevalue.UnmarshalMap(out.Item, &it); err != nil {
		return "", false, nil
	}
	// TTL deletion in DynamoDB can lag by hours.
	if it.ExpiresAt <= c.now().Unix() || it.Response == "" {
		return "", false, nil
	}
	return it.Response, true, nil
}

func (c *Cache) Put(ctx context.Context, variant, message, response string) error {
	now := c.now().UTC()
	av, err := attributevalue.MarshalMap(item{
		PK:        MakePK(variant),
		SK:        MakeSK(message),
		Response:  response,
		CreatedAt: now.Unix(),
		ExpiresAt: now.Add(c.ttl).Unix(),
	})
	if err != nil {
		return fmt.Errorf("cache marshal: %w", err)
	}

	if _, err := c.ddb.PutItem(ctx, &dynamodb.PutItemInput{
		TableName: aws.String(c.table),
		Item:      av,
	}); err != nil {
		return fmt.Errorf("cache PutItem: %w", err)
	}
	return nil
}
