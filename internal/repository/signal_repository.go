package repository

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"WaveScan/internal/domain/models"
	"WaveScan/internal/domain/repository"
	pkgkafka "WaveScan/pkg/kafka"
)

// signalsSchema is idempotent; Init may run on every boot.
var signalsSchema = []string{
	`CREATE DATABASE IF NOT EXISTS wavescan`,
	`CREATE TABLE IF NOT EXISTS wavescan.signals (
        generated_at DateTime64(3),
        symbol       LowCardinality(String),
        timeframe    LowCardinality(String),
        direction    LowCardinality(String),
        score        UInt8,
        entry        Float64,
        stop_loss    Float64,
        take_profit  Float64,
        factors      String
    ) ENGINE = MergeTree()
    PARTITION BY toYYYYMM(generated_at)
    ORDER BY (symbol, timeframe, generated_at)`,
}

// CHSignalStore implements SignalStore for ClickHouse.
type CHSignalStore struct {
	db *sql.DB
}

func NewCHSignalStore(db *sql.DB) repository.SignalStore {
	return &CHSignalStore{db: db}
}

func (s *CHSignalStore) Init(ctx context.Context) error {
	for _, stmt := range signalsSchema {
		if _, err := s.db.ExecContext(ctx, stmt); err != nil {
			return fmt.Errorf("signals schema: %w", err)
		}
	}
	return nil
}

func (s *CHSignalStore) Store(ctx context.Context, sig *models.Signal) error {
	return s.StoreBatch(ctx, []*models.Signal{sig})
}

func (s *CHSignalStore) StoreBatch(ctx context.Context, signals []*models.Signal) error {
	if len(signals) == 0 {
		return nil
	}
	const chunkSize = 1000
	for start := 0; start < len(signals); start += chunkSize {
		end := start + chunkSize
		if end > len(signals) {
			end = len(signals)
		}

		values := make([]string, 0, end-start)
		args := make([]interface{}, 0, (end-start)*9)
		for _, sig := range signals[start:end] {
			if sig == nil || sig.Symbol == "" {
				continue
			}
			factors, err := json.Marshal(sig.Factors)
			if err != nil {
				return fmt.Errorf("marshal factors: %w", err)
			}
			values = append(values, "(?, ?, ?, ?, ?, ?, ?, ?, ?)")
			args = append(args,
				sig.GeneratedAt,
				sig.Symbol,
				sig.Timeframe,
				string(sig.Direction),
				uint8(sig.Score),
				sig.Entry,
				sig.StopLoss,
				sig.TakeProfit,
				string(factors),
			)
		}
		if len(values) == 0 {
			continue
		}
		q := "INSERT INTO wavescan.signals (generated_at, symbol, timeframe, direction, score, entry, stop_loss, take_profit, factors) VALUES " +
			strings.Join(values, ",")
		if _, err := s.db.ExecContext(ctx, q, args...); err != nil {
			return fmt.Errorf("insert signals: %w", err)
		}
	}
	return nil
}

func (s *CHSignalStore) Query(ctx context.Context, symbol string, from, to time.Time, limit int) ([]*models.Signal, error) {
	const q = `
        SELECT generated_at, symbol, timeframe, direction, score, entry, stop_loss, take_profit, factors
        FROM wavescan.signals
        WHERE symbol = ? AND generated_at >= ? AND generated_at <= ?
        ORDER BY generated_at DESC
        LIMIT ?
    `
	rows, err := s.db.QueryContext(ctx, q, symbol, from, to, limit)
	if err != nil {
		return nil, fmt.Errorf("query signals: %w", err)
	}
	defer rows.Close()

	var out []*models.Signal
	for rows.Next() {
		var sig models.Signal
		var direction, factors string
		var score uint8
		if err := rows.Scan(&sig.GeneratedAt, &sig.Symbol, &sig.Timeframe, &direction,
			&score, &sig.Entry, &sig.StopLoss, &sig.TakeProfit, &factors); err != nil {
			return nil, fmt.Errorf("scan signal: %w", err)
		}
		sig.Direction = models.SignalDirection(direction)
		sig.Score = int(score)
		if factors != "" {
			if err := json.Unmarshal([]byte(factors), &sig.Factors); err != nil {
				return nil, fmt.Errorf("unmarshal factors: %w", err)
			}
		}
		out = append(out, &sig)
	}
	return out, rows.Err()
}

func (s *CHSignalStore) Health(ctx context.Context) error {
	return s.db.PingContext(ctx)
}

func (s *CHSignalStore) Close() error {
	return nil // pool is owned by pkg/clickhouse
}

// KafkaSignalPublisher implements SignalPublisher for Kafka. Messages
// are keyed by symbol so per-symbol ordering survives partitioning.
type KafkaSignalPublisher struct {
	producer *pkgkafka.Producer
	topic    string
}

func NewKafkaSignalPublisher(producer *pkgkafka.Producer, topic string) repository.SignalPublisher {
	return &KafkaSignalPublisher{producer: producer, topic: topic}
}

func signalPayload(sig *models.Signal) map[string]interface{} {
	return map[string]interface{}{
		"symbol":       sig.Symbol,
		"timeframe":    sig.Timeframe,
		"direction":    string(sig.Direction),
		"score":        sig.Score,
		"entry":        sig.Entry,
		"stop_loss":    sig.StopLoss,
		"take_profit":  sig.TakeProfit,
		"factors":      sig.Factors,
		"generated_at": sig.GeneratedAt.UTC().Format(time.RFC3339Nano),
	}
}

func (p *KafkaSignalPublisher) Publish(ctx context.Context, sig *models.Signal) error {
	return p.producer.Publish(ctx, p.topic, []byte(sig.Symbol), signalPayload(sig))
}

func (p *KafkaSignalPublisher) PublishBatch(ctx context.Context, signals []*models.Signal) error {
	if len(signals) == 0 {
		return nil
	}
	msgs := make([]pkgkafka.Message, len(signals))
	for i, sig := range signals {
		msgs[i] = pkgkafka.Message{Key: []byte(sig.Symbol), Value: signalPayload(sig)}
	}
	return p.producer.PublishBatch(ctx, p.topic, msgs)
}

func (p *KafkaSignalPublisher) Close() error {
	if p.producer != nil {
		return p.producer.Close()
	}
	return nil
}
