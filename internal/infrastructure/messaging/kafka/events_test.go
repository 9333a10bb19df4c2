package kafka

import (
	"context"
	stderrors "errors"
	"testing"
	"time"

	"github.com/segmentio/kafka-go"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/turtacn/ClauseMatch/internal/infrastructure/monitoring/logging"
)

func TestEventEnvelope_RoundTrip(t *testing.T) {
	payload := IngestionCompletedPayload{
		RunID:         "run-1",
		ContractType:  "provide",
		ArticleChunks: 34,
		ClauseChunks:  112,
		CompletedAt:   time.Date(2026, 8, 28, 10, 0, 0, 0, time.UTC),
	}

	env, err := NewEventEnvelope("ingestion.completed", "clausematch", payload)
	require.NoError(t, err)
	assert.NotEmpty(t, env.EventID)
	assert.Equal(t, "v1", env.SchemaVersion)

	var decoded IngestionCompletedPayload
	require.NoError(t, env.DecodePayload(&decoded))
	assert.Equal(t, payload, decoded)
}

func TestEventEnvelope_ToMessageKeysByContractType(t *testing.T) {
	env, err := NewEventEnvelope("ingestion.completed", "clausematch",
		IngestionCompletedPayload{RunID: "run-1", ContractType: "provide"})
	require.NoError(t, err)

	msg, err := env.ToMessage(TopicIngestionCompleted, "provide")
	require.NoError(t, err)
	assert.Equal(t, TopicIngestionCompleted, msg.Topic)
	assert.Equal(t, "provide", string(msg.Key))
	assert.Equal(t, "ingestion.completed", msg.Headers["event_type"])
	assert.Equal(t, "v1", msg.Headers["schema_version"])
}

type mockKafkaConn struct {
	created    []kafka.TopicConfig
	createErr  error
	partitions map[string][]kafka.Partition
}

func (m *mockKafkaConn) CreateTopics(topics ...kafka.TopicConfig) error {
	m.created = append(m.created, topics...)
	return m.createErr
}

func (m *mockKafkaConn) ReadPartitions(topics ...string) ([]kafka.Partition, error) {
	if len(topics) == 1 {
		return m.partitions[topics[0]], nil
	}
	var all []kafka.Partition
	for _, ps := range m.partitions {
		all = append(all, ps...)
	}
	return all, nil
}

func (m *mockKafkaConn) Close() error { return nil }

func TestTopicManager_EnsureDefaultTopics(t *testing.T) {
	conn := &mockKafkaConn{}
	m := &TopicManager{conn: conn, logger: logging.NewNopLogger()}

	require.NoError(t, m.EnsureDefaultTopics(context.Background()))
	require.Len(t, conn.created, len(DefaultTopics()))
	assert.Equal(t, TopicIngestionCompleted, conn.created[0].Topic)
}

func TestTopicManager_ExistingTopicIsNotAnError(t *testing.T) {
	conn := &mockKafkaConn{
		createErr: stderrors.New("topic already exists"),
		partitions: map[string][]kafka.Partition{
			TopicIngestionCompleted: {{Topic: TopicIngestionCompleted}},
		},
	}
	m := &TopicManager{conn: conn, logger: logging.NewNopLogger()}

	err := m.CreateTopic(context.Background(), TopicConfig{
		Name: TopicIngestionCompleted, NumPartitions: 3, ReplicationFactor: 3,
	})
	assert.NoError(t, err)
}

func TestTopicManager_CreateTopicValidation(t *testing.T) {
	m := &TopicManager{conn: &mockKafkaConn{}, logger: logging.NewNopLogger()}
	ctx := context.Background()

	assert.Error(t, m.CreateTopic(ctx, TopicConfig{NumPartitions: 1, ReplicationFactor: 1}))
	assert.Error(t, m.CreateTopic(ctx, TopicConfig{Name: "t", ReplicationFactor: 1}))
	assert.Error(t, m.CreateTopic(ctx, TopicConfig{Name: "t", NumPartitions: 1}))
}

//Personal.AI order the ending
