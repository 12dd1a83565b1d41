package streams

import (
	"encoding/json"
	"testing"

	"github.com/aws/aws-lambda-go/events"
	"github.com/example/storefront/internal/domain/cart"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const storedCart = `{"items":[{"id":"p001-Black-M","productId":"p001","name":"Crew Tee","price":28,"color":"Black","size":"M","quantity":2}],"total":999,"itemCount":9}`

func cartImage() map[string]events.DynamoDBAttributeValue {
	return map[string]events.DynamoDBAttributeValue{
		"storage_key": events.NewStringAttribute("threadlab_cart:session-1"),
		"value":       events.NewStringAttribute(storedCart),
		"updated_at":  events.NewStringAttribute("2024-01-15T10:30:00.123456789Z"),
	}
}

func TestConvertImage(t *testing.T) {
	tests := []struct {
		name    string
		image   map[string]events.DynamoDBAttributeValue
		wantErr bool
	}{
		{name: "valid item", image: cartImage()},
		{name: "nil image", image: nil, wantErr: true},
		{
			name: "missing value",
			image: map[string]events.DynamoDBAttributeValue{
				"storage_key": events.NewStringAttribute("threadlab_cart:session-1"),
			},
			wantErr: true,
		},
		{
			name: "non-string value",
			image: map[string]events.DynamoDBAttributeValue{
				"storage_key": events.NewStringAttribute("threadlab_cart:session-1"),
				"value":       events.NewNumberAttribute("1"),
			},
			wantErr: true,
		},
		{
			name: "key without session",
			image: map[string]events.DynamoDBAttributeValue{
				"storage_key": events.NewStringAttribute("threadlab_cart"),
				"value":       events.NewStringAttribute(storedCart),
			},
			wantErr: true,
		},
		{
			name: "malformed cart",
			image: map[string]events.DynamoDBAttributeValue{
				"storage_key": events.NewStringAttribute("threadlab_cart:session-1"),
				"value":       events.NewStringAttribute(`{"items":`),
			},
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			change, err := convertImage("evt-1", tt.image)
			if tt.wantErr {
				assert.Error(t, err)
				return
			}

			require.NoError(t, err)
			require.NotNil(t, change)
			assert.Equal(t, "evt-1", change.ID)
			assert.Equal(t, "session-1", change.SessionID)
			assert.Equal(t, cart.EventCartStored, change.EventType)
			assert.Equal(t, Source, change.Source)
			assert.EqualValues(t, 5600, change.Cart.Total)
			assert.Equal(t, 2, change.Cart.ItemCount)
			assert.Equal(t, 2024, change.Timestamp.Year())
		})
	}
}

func TestConvertImage_WriterBecomesSource(t *testing.T) {
	image := cartImage()
	image["updated_by"] = events.NewStringAttribute("api-1")

	change, err := convertImage("evt-1", image)

	require.NoError(t, err)
	assert.Equal(t, "api-1", change.Source)
}

func TestConvertFromDynamoDBStreamRecord(t *testing.T) {
	t.Run("INSERT converts the new image", func(t *testing.T) {
		record := events.DynamoDBEventRecord{
			EventID:   "evt-1",
			EventName: "INSERT",
			Change:    events.DynamoDBStreamRecord{NewImage: cartImage()},
		}

		change, err := ConvertFromDynamoDBStreamRecord(record)

		require.NoError(t, err)
		require.NotNil(t, change)
		assert.Equal(t, "session-1", change.SessionID)
	})

	t.Run("MODIFY converts the new image", func(t *testing.T) {
		record := events.DynamoDBEventRecord{
			EventID:   "evt-2",
			EventName: "MODIFY",
			Change:    events.DynamoDBStreamRecord{NewImage: cartImage()},
		}

		change, err := ConvertFromDynamoDBStreamRecord(record)

		require.NoError(t, err)
		require.NotNil(t, change)
		assert.Equal(t, "evt-2", change.ID)
	})

	t.Run("REMOVE becomes an empty cart", func(t *testing.T) {
		record := events.DynamoDBEventRecord{
			EventID:   "evt-3",
			EventName: "REMOVE",
			Change: events.DynamoDBStreamRecord{
				Keys: map[string]events.DynamoDBAttributeValue{
					"storage_key": events.NewStringAttribute("threadlab_cart:session-1"),
				},
			},
		}

		change, err := ConvertFromDynamoDBStreamRecord(record)

		require.NoError(t, err)
		require.NotNil(t, change)
		assert.Equal(t, cart.EventCartCleared, change.EventType)
		assert.Equal(t, cart.Clear(), change.Cart)
	})

	t.Run("unknown event name is skipped", func(t *testing.T) {
		change, err := ConvertFromDynamoDBStreamRecord(events.DynamoDBEventRecord{EventName: "UNKNOWN"})

		assert.NoError(t, err)
		assert.Nil(t, change)
	})
}

func kinesisRecord(t *testing.T, eventID string, record events.DynamoDBEventRecord) events.KinesisEventRecord {
	t.Helper()
	data, err := json.Marshal(record)
	require.NoError(t, err)
	return events.KinesisEventRecord{
		EventID: eventID,
		Kinesis: events.KinesisRecord{Data: data, SequenceNumber: eventID},
	}
}

func TestConvertFromKinesisRecord(t *testing.T) {
	record := kinesisRecord(t, "seq-1", events.DynamoDBEventRecord{
		EventID:   "evt-1",
		EventName: "INSERT",
		Change:    events.DynamoDBStreamRecord{NewImage: cartImage()},
	})

	change, err := ConvertFromKinesisRecord(record)

	require.NoError(t, err)
	require.NotNil(t, change)
	assert.Equal(t, "session-1", change.SessionID)
	assert.Len(t, change.Cart.Items, 1)
}

func TestConvertFromKinesisRecord_InvalidData(t *testing.T) {
	record := events.KinesisEventRecord{Kinesis: events.KinesisRecord{Data: []byte("not json")}}

	_, err := ConvertFromKinesisRecord(record)

	assert.Error(t, err)
}
