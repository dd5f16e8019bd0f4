package usecase

import (
	"context"
	"encoding/json"
	"time"

	"WaveScan/internal/domain/models"
	domrepo "WaveScan/internal/domain/repository"
	pkgkafka "WaveScan/pkg/kafka"
)

// KafkaSignalsHandler consumes published signals back off the bus and
// persists them. Deployments that emit from one instance and store from
// another run only this consumer side.
type KafkaSignalsHandler struct {
	topic   string
	store   domrepo.SignalStore
	metrics domrepo.Metrics
}

func NewKafkaSignalsHandler(topic string, store domrepo.SignalStore, metrics domrepo.Metrics) *KafkaSignalsHandler {
	return &KafkaSignalsHandler{topic: topic, store: store, metrics: metrics}
}

func (h *KafkaSignalsHandler) Topic() string { return h.topic }

// Handle decodes the wire schema written by KafkaSignalPublisher.
func (h *KafkaSignalsHandler) Handle(ctx context.Context, b []byte) error {
	var m struct {
		Symbol      string          `json:"symbol"`
		Timeframe   string          `json:"timeframe"`
		Direction   string          `json:"direction"`
		Score       int             `json:"score"`
		Entry       float64         `json:"entry"`
		StopLoss    float64         `json:"stop_loss"`
		TakeProfit  float64         `json:"take_profit"`
		Factors     []models.Factor `json:"factors"`
		GeneratedAt time.Time       `json:"generated_at"`
	}
	if err := json.Unmarshal(b, &m); err != nil {
		h.metrics.RecordError("consumer_unmarshal")
		return err
	}

	h.metrics.RecordLatency("signal_e2e_seconds", time.Since(m.GeneratedAt).Seconds())

	start := time.Now()
	err := h.store.Store(ctx, &models.Signal{
		Symbol:      m.Symbol,
		Timeframe:   m.Timeframe,
		Direction:   models.SignalDirection(m.Direction),
		Score:       m.Score,
		Factors:     m.Factors,
		Entry:       m.Entry,
		StopLoss:    m.StopLoss,
		TakeProfit:  m.TakeProfit,
		GeneratedAt: m.GeneratedAt,
	})
	h.metrics.RecordLatency("signal_insert_seconds", time.Since(start).Seconds())
	if err != nil {
		h.metrics.RecordError("consumer_store")
		return err
	}
	return nil
}

var _ pkgkafka.MessageHandler = (*KafkaSignalsHandler)(nil)
