// Package events publishes catalog lifecycle events to NATS JetStream.
package events

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/nats-io/nats.go"
	"github.com/nats-io/nats.go/jetstream"
	"github.com/sirupsen/logrus"

	"catalog-service/internal/models"
)

// Event types emitted by the ingestion pipeline.
const (
	BatchUploaded  = "catalog.batch.uploaded"
	BatchApproved  = "catalog.batch.approved"
	BatchRejected  = "catalog.batch.rejected"
	ProductUpdated = "catalog.product.updated"
)

// Notifier is the outbound event surface. Services treat it as fire-and-
// forget; publishing failures are logged, never returned to callers.
type Notifier interface {
	PublishBatchEvent(eventType string, batch *models.UploadBatch, rowCount int)
	PublishProductEvent(eventType string, product *models.Product, batchID uuid.UUID)
	Close()
}

// BatchEvent is the wire payload for batch lifecycle events.
type BatchEvent struct {
	EventID    string    `json:"eventId"`
	EventType  string    `json:"eventType"`
	Timestamp  time.Time `json:"timestamp"`
	BatchID    string    `json:"batchId"`
	SupplierID string    `json:"supplierId"`
	FileName   string    `json:"fileName"`
	Status     string    `json:"status"`
	RowCount   int       `json:"rowCount"`
}

// ProductEvent is the wire payload for per-code catalog changes. One is
// emitted for every code a batch approval touches, so downstream consumers
// can react per product instead of re-reading the whole catalog.
type ProductEvent struct {
	EventID    string    `json:"eventId"`
	EventType  string    `json:"eventType"`
	Timestamp  time.Time `json:"timestamp"`
	Code       string    `json:"code"`
	SupplierID string    `json:"supplierId"`
	BatchID    string    `json:"batchId"`
}

// Publisher publishes to the CATALOG_EVENTS stream. A nil *Publisher is a
// valid no-op notifier, so the service runs with NATS disabled.
type Publisher struct {
	nc     *nats.Conn
	js     jetstream.JetStream
	logger *logrus.Entry
}

// NewPublisher connects to NATS and ensures the catalog stream exists.
func NewPublisher(natsURL string, logger *logrus.Logger) (*Publisher, error) {
	nc, err := nats.Connect(natsURL,
		nats.Name("catalog-service"),
		nats.RetryOnFailedConnect(true),
		nats.MaxReconnects(-1),
		nats.ReconnectWait(2*time.Second),
		nats.DisconnectErrHandler(func(nc *nats.Conn, err error) {
			logger.WithError(err).Warn("NATS disconnected")
		}),
		nats.ReconnectHandler(func(nc *nats.Conn) {
			logger.WithField("url", nc.ConnectedUrl()).Info("NATS reconnected")
		}),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to NATS: %w", err)
	}

	js, err := jetstream.New(nc)
	if err != nil {
		nc.Close()
		return nil, fmt.Errorf("failed to create JetStream context: %w", err)
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	_, err = js.CreateOrUpdateStream(ctx, jetstream.StreamConfig{
		Name:      "CATALOG_EVENTS",
		Subjects:  []string{"catalog.>"},
		Retention: jetstream.LimitsPolicy,
		MaxAge:    7 * 24 * time.Hour,
		Storage:   jetstream.FileStorage,
	})
	if err != nil {
		logger.WithError(err).Warn("Failed to ensure catalog stream (may already exist)")
	}

	return &Publisher{
		nc:     nc,
		js:     js,
		logger: logger.WithField("component", "catalog-events"),
	}, nil
}

// Close drains the NATS connection.
func (p *Publisher) Close() {
	if p == nil || p.nc == nil {
		return
	}
	p.nc.Close()
}

// PublishBatchEvent publishes asynchronously so review requests never block
// on the broker.
func (p *Publisher) PublishBatchEvent(eventType string, batch *models.UploadBatch, rowCount int) {
	if p == nil || p.js == nil {
		return
	}

	event := BatchEvent{
		EventID:    uuid.New().String(),
		EventType:  eventType,
		Timestamp:  time.Now().UTC(),
		BatchID:    batch.ID.String(),
		SupplierID: batch.SupplierID,
		FileName:   batch.FileName,
		Status:     string(batch.Status),
		RowCount:   rowCount,
	}

	go func() {
		ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()

		data, err := json.Marshal(event)
		if err != nil {
			p.logger.WithError(err).Error("Failed to marshal batch event")
			return
		}

		if _, err := p.js.Publish(ctx, eventType, data); err != nil {
			p.logger.WithError(err).WithFields(logrus.Fields{
				"eventType": eventType,
				"batchId":   event.BatchID,
			}).Error("Failed to publish batch event")
			return
		}

		p.logger.WithFields(logrus.Fields{
			"eventType":  eventType,
			"batchId":    event.BatchID,
			"supplierId": event.SupplierID,
		}).Info("Published batch event")
	}()
}

// PublishProductEvent publishes a per-code catalog change, asynchronously
// like PublishBatchEvent.
func (p *Publisher) PublishProductEvent(eventType string, product *models.Product, batchID uuid.UUID) {
	if p == nil || p.js == nil {
		return
	}

	event := ProductEvent{
		EventID:    uuid.New().String(),
		EventType:  eventType,
		Timestamp:  time.Now().UTC(),
		Code:       product.Code,
		SupplierID: product.SupplierID,
		BatchID:    batchID.String(),
	}

	go func() {
		ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()

		data, err := json.Marshal(event)
		if err != nil {
			p.logger.WithError(err).Error("Failed to marshal product event")
			return
		}

		if _, err := p.js.Publish(ctx, eventType, data); err != nil {
			p.logger.WithError(err).WithFields(logrus.Fields{
				"eventType": eventType,
				"code":      event.Code,
			}).Error("Failed to publish product event")
			return
		}

		p.logger.WithFields(logrus.Fields{
			"eventType": eventType,
			"code":      event.Code,
			"batchId":   event.BatchID,
		}).Info("Published product event")
	}()
}
