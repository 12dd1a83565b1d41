package main

import (
	"context"
	"fmt"
	"os"

	"github.com/aws/aws-lambda-go/events"
	"github.com/aws/aws-lambda-go/lambda"
	"github.com/example/storefront/internal/cartstore"
	"github.com/example/storefront/internal/config"
	"github.com/example/storefront/internal/infrastructure/kafka"
	"github.com/example/storefront/internal/infrastructure/streams"
	"github.com/example/storefront/internal/logger"
	"go.uber.org/zap"
)

// feed republishes cart table changes onto the cart change topic.
type feed struct {
	publisher cartstore.Publisher
	logger    *zap.Logger
}

func (f *feed) handle(ctx context.Context, kinesisEvent events.KinesisEvent) (events.KinesisEventResponse, error) {
	f.logger.Info("received records", zap.Int("count", len(kinesisEvent.Records)))

	var batchItemFailures []events.KinesisBatchItemFailure
	fail := func(record events.KinesisEventRecord, msg string, err error) {
		f.logger.Error(msg, zap.String("event_id", record.EventID), zap.Error(err))
		batchItemFailures = append(batchItemFailures, events.KinesisBatchItemFailure{
			ItemIdentifier: record.Kinesis.SequenceNumber,
		})
	}

	for _, record := range kinesisEvent.Records {
		change, err := streams.ConvertFromKinesisRecord(record)
		if err != nil {
			fail(record, "failed to convert record", err)
			continue
		}

		// Record types without a cart
		if change == nil {
			continue
		}

		if err := f.publisher.Publish(ctx, change.SessionID, change); err != nil {
			fail(record, "failed to publish cart change", err)
			continue
		}

		f.logger.Debug("republished cart change",
			zap.String("session_id", change.SessionID),
			zap.String("event_type", change.EventType),
			zap.Int("item_count", change.Cart.ItemCount),
		)
	}

	f.logger.Info("processed records",
		zap.Int("succeeded", len(kinesisEvent.Records)-len(batchItemFailures)),
		zap.Int("total", len(kinesisEvent.Records)),
	)

	return events.KinesisEventResponse{
		BatchItemFailures: batchItemFailures,
	}, nil
}

func main() {
	cfg := config.Load()

	log, err := logger.New(logger.Options{Service: "storefront-cartfeed", Env: cfg.AppEnv, Level: cfg.LogLevel})
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to create logger: %v\n", err)
		os.Exit(1)
	}
	if !cfg.KafkaEnabled() {
		log.Fatal("KAFKA_BROKERS is required")
	}

	producer := kafka.NewProducer(cfg.KafkaBrokers, cfg.KafkaTopic, log)
	f := &feed{publisher: producer, logger: log}

	log.Info("initialized", zap.String("topic", cfg.KafkaTopic))
	lambda.Start(f.handle)
}
