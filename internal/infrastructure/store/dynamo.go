package store

import (
	"context"
	"fmt"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/feature/dynamodb/attributevalue"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb/types"
)

// DynamoAPI is the subset of the DynamoDB client used by DynamoStore.
type DynamoAPI interface {
	GetItem(ctx context.Context, params *dynamodb.GetItemInput, optFns ...func(*dynamodb.Options)) (*dynamodb.GetItemOutput, error)
	PutItem(ctx context.Context, params *dynamodb.PutItemInput, optFns ...func(*dynamodb.Options)) (*dynamodb.PutItemOutput, error)
}

// DynamoStore keeps each key as one item with partition key storage_key.
// Writes show up on the table's stream, which feeds the cart change lambda.
type DynamoStore struct {
	client    DynamoAPI
	tableName string
	writer    string
}

type DynamoOption func(*DynamoStore)

// WithWriter stamps every item with the instance that wrote it, so stream
// consumers can tell their own writes apart.
func WithWriter(instanceID string) DynamoOption {
	return func(s *DynamoStore) { s.writer = instanceID }
}

// DynamoItem is the table layout, shared with the stream adapter.
type DynamoItem struct {
	Key       string `dynamodbav:"storage_key"`
	Value     string `dynamodbav:"value"`
	UpdatedAt string `dynamodbav:"updated_at"`
	UpdatedBy string `dynamodbav:"updated_by,omitempty"`
}

func NewDynamoStore(client DynamoAPI, tableName string, opts ...DynamoOption) *DynamoStore {
	s := &DynamoStore{client: client, tableName: tableName}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

func (s *DynamoStore) Get(ctx context.Context, key string) ([]byte, bool, error) {
	if key == "" {
		return nil, false, ErrEmptyKey
	}
	result, err := s.client.GetItem(ctx, &dynamodb.GetItemInput{
		TableName: aws.String(s.tableName),
		Key: map[string]types.AttributeValue{
			"storage_key": &types.AttributeValueMemberS{Value: key},
		},
		ConsistentRead: aws.Bool(true),
	})
	if err != nil {
		return nil, false, fmt.Errorf("failed to get item %s: %w", key, err)
	}
	if result.Item == nil {
		return nil, false, nil
	}

	var item DynamoItem
	if err := attributevalue.UnmarshalMap(result.Item, &item); err != nil {
		return nil, false, fmt.Errorf("failed to unmarshal item %s: %w", key, err)
	}
	return []byte(item.Value), true, nil
}

func (s *DynamoStore) Set(ctx context.Context, key string, value []byte) error {
	if key == "" {
		return ErrEmptyKey
	}
	av, err := attributevalue.MarshalMap(DynamoItem{
		Key:       key,
		Value:     string(value),
		UpdatedAt: time.Now().UTC().Format(time.RFC3339Nano),
		UpdatedBy: s.writer,
	})
	if err != nil {
		return fmt.Errorf("failed to marshal item %s: %w", key, err)
	}

	_, err = s.client.PutItem(ctx, &dynamodb.PutItemInput{
		TableName: aws.String(s.tableName),
		Item:      av,
	})
	if err != nil {
		return fmt.Errorf("failed to put item %s: %w", key, err)
	}
	return nil
}
