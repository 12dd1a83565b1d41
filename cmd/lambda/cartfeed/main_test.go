package main

import (
	"context"
	"encoding/json"
	"errors"
	"testing"

	"github.com/aws/aws-lambda-go/events"
	"github.com/example/storefront/internal/domain/cart"
	"github.com/example/storefront/internal/infrastructure/streams"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

type mockPublisher struct {
	keys    []string
	changes []*cart.Change
	err     error
}

func (p *mockPublisher) Publish(ctx context.Context, key string, event any) error {
	if p.err != nil {
		return p.err
	}
	p.keys = append(p.keys, key)
	p.changes = append(p.changes, event.(*cart.Change))
	return nil
}

func record(t *testing.T, seq string, r events.DynamoDBEventRecord) events.KinesisEventRecord {
	t.Helper()
	data, err := json.Marshal(r)
	require.NoError(t, err)
	return events.KinesisEventRecord{
		EventID: seq,
		Kinesis: events.KinesisRecord{Data: data, SequenceNumber: seq},
	}
}

func insert(t *testing.T, seq, sessionID string) events.KinesisEventRecord {
	return record(t, seq, events.DynamoDBEventRecord{
		EventID:   "evt-" + seq,
		EventName: "INSERT",
		Change: events.DynamoDBStreamRecord{NewImage: map[string]events.DynamoDBAttributeValue{
			"storage_key": events.NewStringAttribute("threadlab_cart:" + sessionID),
			"value":       events.NewStringAttribute(`{"items":[{"id":"p001-Black-M","productId":"p001","name":"Crew Tee","price":28,"color":"Black","size":"M","quantity":1}]}`),
		}},
	})
}

func TestFeed_RepublishesChanges(t *testing.T) {
	publisher := &mockPublisher{}
	f := &feed{publisher: publisher, logger: zap.NewNop()}

	remove := record(t, "seq-2", events.DynamoDBEventRecord{
		EventName: "REMOVE",
		Change: events.DynamoDBStreamRecord{Keys: map[string]events.DynamoDBAttributeValue{
			"storage_key": events.NewStringAttribute("threadlab_cart:session-b"),
		}},
	})

	resp, err := f.handle(context.Background(), events.KinesisEvent{
		Records: []events.KinesisEventRecord{insert(t, "seq-1", "session-a"), remove},
	})

	require.NoError(t, err)
	assert.Empty(t, resp.BatchItemFailures)
	assert.Equal(t, []string{"session-a", "session-b"}, publisher.keys)
	assert.Equal(t, cart.EventCartStored, publisher.changes[0].EventType)
	assert.Equal(t, 1, publisher.changes[0].Cart.ItemCount)
	assert.Equal(t, streams.Source, publisher.changes[0].Source)
	assert.Equal(t, cart.EventCartCleared, publisher.changes[1].EventType)
}

func TestFeed_ReportsFailuresBySequenceNumber(t *testing.T) {
	publisher := &mockPublisher{}
	f := &feed{publisher: publisher, logger: zap.NewNop()}

	bad := events.KinesisEventRecord{EventID: "seq-2", Kinesis: events.KinesisRecord{Data: []byte("{"), SequenceNumber: "seq-2"}}

	resp, err := f.handle(context.Background(), events.KinesisEvent{
		Records: []events.KinesisEventRecord{insert(t, "seq-1", "session-a"), bad},
	})

	require.NoError(t, err)
	require.Len(t, resp.BatchItemFailures, 1)
	assert.Equal(t, "seq-2", resp.BatchItemFailures[0].ItemIdentifier)
	assert.Len(t, publisher.changes, 1)
}

func TestFeed_PublishFailure(t *testing.T) {
	publisher := &mockPublisher{err: errors.New("broker down")}
	f := &feed{publisher: publisher, logger: zap.NewNop()}

	resp, err := f.handle(context.Background(), events.KinesisEvent{
		Records: []events.KinesisEventRecord{insert(t, "seq-1", "session-a")},
	})

	require.NoError(t, err)
	require.Len(t, resp.BatchItemFailures, 1)
	assert.Equal(t, "seq-1", resp.BatchItemFailures[0].ItemIdentifier)
}

func TestFeed_SkipsRecordsWithoutCart(t *testing.T) {
	publisher := &mockPublisher{}
	f := &feed{publisher: publisher, logger: zap.NewNop()}

	resp, err := f.handle(context.Background(), events.KinesisEvent{
		Records: []events.KinesisEventRecord{record(t, "seq-1", events.DynamoDBEventRecord{EventName: "UNKNOWN"})},
	})

	require.NoError(t, err)
	assert.Empty(t, resp.BatchItemFailures)
	assert.Empty(t, publisher.changes)
}
