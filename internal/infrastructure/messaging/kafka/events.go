package kafka

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/segmentio/kafka-go"

	"github.com/turtacn/ClauseMatch/internal/infrastructure/monitoring/logging"
	"github.com/turtacn/ClauseMatch/pkg/errors"
)

const (
	// TopicIngestionCompleted announces a freshly swapped standard-contract
	// index; verification workers re-pull the corpus on this signal.
	TopicIngestionCompleted = "clausematch.ingestion.completed"

	// TopicIngestionFailed carries runs that aborted before the index swap.
	TopicIngestionFailed = "clausematch.ingestion.failed"

	TopicDeadLetter = "clausematch.dead_letter"
)

// EventEnvelope standardizes event messages.
type EventEnvelope struct {
	EventID       string            `json:"event_id"`
	EventType     string            `json:"event_type"`
	Source        string            `json:"source"`
	Timestamp     time.Time         `json:"timestamp"`
	SchemaVersion string            `json:"schema_version"`
	TraceID       string            `json:"trace_id,omitempty"`
	Payload       json.RawMessage   `json:"payload"`
	Metadata      map[string]string `json:"metadata,omitempty"`
}

// IngestionCompletedPayload is emitted once per successful ingestion run,
// strictly after the lexical alias swap.
type IngestionCompletedPayload struct {
	RunID          string    `json:"run_id"`
	ContractType   string    `json:"contract_type"`
	ArticleChunks  int       `json:"article_chunks"`
	ClauseChunks   int       `json:"clause_chunks"`
	SkippedVectors int       `json:"skipped_vectors"`
	FailedVectors  int       `json:"failed_vectors"`
	SourceObject   string    `json:"source_object,omitempty"`
	CompletedAt    time.Time `json:"completed_at"`
}

// IngestionFailedPayload is emitted when a run aborts.  The previous index
// generation is still serving, so consumers treat this as advisory.
type IngestionFailedPayload struct {
	RunID        string    `json:"run_id"`
	ContractType string    `json:"contract_type"`
	Stage        string    `json:"stage"`
	Reason       string    `json:"reason"`
	FailedAt     time.Time `json:"failed_at"`
}

// NewEventEnvelope wraps payload in a versioned envelope with a fresh id.
func NewEventEnvelope(eventType, source string, payload interface{}) (*EventEnvelope, error) {
	data, err := json.Marshal(payload)
	if err != nil {
		return nil, errors.Wrap(err, errors.ErrCodeSerialization, "failed to marshal event payload")
	}
	return &EventEnvelope{
		EventID:       uuid.New().String(),
		EventType:     eventType,
		Source:        source,
		Timestamp:     time.Now().UTC(),
		SchemaVersion: "v1",
		Payload:       data,
	}, nil
}

// DecodePayload unmarshals the envelope payload into target.
func (e *EventEnvelope) DecodePayload(target interface{}) error {
	if len(e.Payload) == 0 || string(e.Payload) == "null" {
		return nil
	}
	return json.Unmarshal(e.Payload, target)
}

// ToMessage serializes the envelope into a keyed producer message.  key
// partitions events, so one contract type always lands on one partition and
// consumers observe its runs in order.
func (e *EventEnvelope) ToMessage(topic, key string) (*Message, error) {
	val, err := json.Marshal(e)
	if err != nil {
		return nil, errors.Wrap(err, errors.ErrCodeSerialization, "failed to marshal event envelope")
	}
	headers := map[string]string{
		"event_type":     e.EventType,
		"source_service": e.Source,
		"schema_version": e.SchemaVersion,
	}
	if e.TraceID != "" {
		headers["trace_id"] = e.TraceID
	}
	return &Message{
		Topic:     topic,
		Key:       []byte(key),
		Value:     val,
		Headers:   headers,
		Timestamp: e.Timestamp,
	}, nil
}

// TopicConfig describes one topic to ensure at startup.
type TopicConfig struct {
	Name              string
	NumPartitions     int
	ReplicationFactor int
	RetentionMs       int64
}

// ConnInterface abstracts kafka.Conn for testing.
type ConnInterface interface {
	CreateTopics(topics ...kafka.TopicConfig) error
	ReadPartitions(topics ...string) ([]kafka.Partition, error)
	Close() error
}

// TopicManager creates the event topics when auto-creation is enabled.
type TopicManager struct {
	conn   ConnInterface
	logger logging.Logger
}

// NewTopicManager dials the first broker for admin operations.
func NewTopicManager(brokers []string, logger logging.Logger) (*TopicManager, error) {
	if len(brokers) == 0 {
		return nil, errors.New(errors.ErrCodeValidation, "kafka brokers are required")
	}
	if logger == nil {
		logger = logging.NewNopLogger()
	}
	conn, err := kafka.Dial("tcp", brokers[0])
	if err != nil {
		return nil, errors.Wrap(err, errors.ErrCodeInternal, "failed to dial kafka")
	}
	return &TopicManager{conn: conn, logger: logger.Named("kafka_topics")}, nil
}

// CreateTopic creates one topic; an already-existing topic is not an error.
func (m *TopicManager) CreateTopic(ctx context.Context, cfg TopicConfig) error {
	if cfg.Name == "" {
		return errors.New(errors.ErrCodeValidation, "topic name is required")
	}
	if cfg.NumPartitions <= 0 {
		return errors.New(errors.ErrCodeValidation, "topic partitions must be > 0")
	}
	if cfg.ReplicationFactor <= 0 {
		return errors.New(errors.ErrCodeValidation, "topic replication factor must be > 0")
	}

	kCfg := kafka.TopicConfig{
		Topic:             cfg.Name,
		NumPartitions:     cfg.NumPartitions,
		ReplicationFactor: cfg.ReplicationFactor,
	}
	if cfg.RetentionMs > 0 {
		kCfg.ConfigEntries = append(kCfg.ConfigEntries, kafka.ConfigEntry{
			ConfigName:  "retention.ms",
			ConfigValue: fmt.Sprintf("%d", cfg.RetentionMs),
		})
	}

	if err := m.conn.CreateTopics(kCfg); err != nil {
		if exists, _ := m.TopicExists(ctx, cfg.Name); exists {
			return nil
		}
		return errors.Wrap(err, errors.ErrCodeInternal, "failed to create topic")
	}
	m.logger.Info("topic created", logging.String("topic", cfg.Name))
	return nil
}

// TopicExists reports whether the topic has at least one partition.
func (m *TopicManager) TopicExists(ctx context.Context, name string) (bool, error) {
	partitions, err := m.conn.ReadPartitions(name)
	if err != nil {
		return false, nil
	}
	return len(partitions) > 0, nil
}

// EnsureDefaultTopics creates every ClauseMatch topic that is missing.
func (m *TopicManager) EnsureDefaultTopics(ctx context.Context) error {
	for _, t := range DefaultTopics() {
		if err := m.CreateTopic(ctx, t); err != nil {
			return err
		}
	}
	return nil
}

// Close releases the admin connection.
func (m *TopicManager) Close() error {
	return m.conn.Close()
}

// DefaultTopics returns the ClauseMatch topic set.  Events are small and
// low-volume; a handful of partitions is plenty.
func DefaultTopics() []TopicConfig {
	const week = 7 * 24 * 3600 * 1000
	return []TopicConfig{
		{Name: TopicIngestionCompleted, NumPartitions: 3, ReplicationFactor: 3, RetentionMs: week},
		{Name: TopicIngestionFailed, NumPartitions: 3, ReplicationFactor: 3, RetentionMs: 4 * week},
		{Name: TopicDeadLetter, NumPartitions: 1, ReplicationFactor: 3, RetentionMs: 4 * week},
	}
}

//Personal.AI order the ending
