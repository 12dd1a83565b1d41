// Package streams turns change records of the DynamoDB cart table, delivered
// through the table's Kinesis Data Streams integration, into cart changes.
package streams

import (
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/aws/aws-lambda-go/events"
	"github.com/example/storefront/internal/domain/cart"
	"github.com/example/storefront/internal/infrastructure/store"
)

// Source marks stream changes whose item does not name the instance that
// wrote it.
const Source = "dynamodb-stream"

var ErrUnknownKey = errors.New("unrecognized storage key")

// ConvertFromKinesisRecord decodes the DynamoDB Streams payload carried by a
// Kinesis record. It returns nil for record types that carry no cart.
func ConvertFromKinesisRecord(record events.KinesisEventRecord) (*cart.Change, error) {
	var dynamoDBRecord events.DynamoDBEventRecord
	if err := json.Unmarshal(record.Kinesis.Data, &dynamoDBRecord); err != nil {
		return nil, fmt.Errorf("failed to unmarshal DynamoDB record: %w", err)
	}
	return ConvertFromDynamoDBStreamRecord(dynamoDBRecord)
}

// ConvertFromDynamoDBStreamRecord maps INSERT and MODIFY to the stored cart
// and REMOVE to an empty cart.
func ConvertFromDynamoDBStreamRecord(record events.DynamoDBEventRecord) (*cart.Change, error) {
	switch events.DynamoDBOperationType(record.EventName) {
	case events.DynamoDBOperationTypeInsert, events.DynamoDBOperationTypeModify:
		return convertImage(record.EventID, record.Change.NewImage)
	case events.DynamoDBOperationTypeRemove:
		return convertRemoval(record.EventID, record.Change.Keys)
	default:
		return nil, nil
	}
}

func convertImage(eventID string, image map[string]events.DynamoDBAttributeValue) (*cart.Change, error) {
	if image == nil {
		return nil, fmt.Errorf("DynamoDB image is nil")
	}

	item := store.DynamoItem{
		Key:       stringAttr(image, "storage_key"),
		Value:     stringAttr(image, "value"),
		UpdatedAt: stringAttr(image, "updated_at"),
		UpdatedBy: stringAttr(image, "updated_by"),
	}

	if item.Key == "" || item.Value == "" {
		return nil, fmt.Errorf("missing required fields: storage_key=%q, value length=%d", item.Key, len(item.Value))
	}

	_, sessionID, ok := store.SplitKey(item.Key)
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrUnknownKey, item.Key)
	}

	c, err := cart.Decode([]byte(item.Value))
	if err != nil {
		return nil, err
	}

	ts := time.Now().UTC()
	if item.UpdatedAt != "" {
		parsed, err := time.Parse(time.RFC3339Nano, item.UpdatedAt)
		if err != nil {
			return nil, fmt.Errorf("failed to parse updated_at: %w", err)
		}
		ts = parsed
	}

	source := Source
	if item.UpdatedBy != "" {
		source = item.UpdatedBy
	}

	return &cart.Change{
		ID:        eventID,
		SessionID: sessionID,
		EventType: cart.EventCartStored,
		Cart:      c,
		Source:    source,
		Timestamp: ts,
	}, nil
}

func convertRemoval(eventID string, keys map[string]events.DynamoDBAttributeValue) (*cart.Change, error) {
	key := stringAttr(keys, "storage_key")
	if key == "" {
		return nil, fmt.Errorf("missing required fields: storage_key")
	}
	_, sessionID, ok := store.SplitKey(key)
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrUnknownKey, key)
	}
	return &cart.Change{
		ID:        eventID,
		SessionID: sessionID,
		EventType: cart.EventCartCleared,
		Cart:      cart.Clear(),
		Source:    Source,
		Timestamp: time.Now().UTC(),
	}, nil
}

// stringAttr returns "" for missing or non-string attributes.
func stringAttr(image map[string]events.DynamoDBAttributeValue, name string) string {
	v, ok := image[name]
	if !ok || v.DataType() != events.DataTypeString {
		return ""
	}
	return v.String()
}
