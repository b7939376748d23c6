package kafka

import (
	"context"
	"errors"
	"testing"

	"github.com/segmentio/kafka-go"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/turtacn/jazzy-go/internal/testutil"
	apperrors "github.com/turtacn/jazzy-go/pkg/errors"
)

type mockConn struct {
	created    []kafka.TopicConfig
	createErr  error
	partitions []kafka.Partition
	readErr    error
	closed     bool
}

func (c *mockConn) CreateTopics(topics ...kafka.TopicConfig) error {
	if c.createErr != nil {
		return c.createErr
	}
	c.created = append(c.created, topics...)
	return nil
}

func (c *mockConn) DeleteTopics(topics ...string) error { return nil }

func (c *mockConn) ReadPartitions(topics ...string) ([]kafka.Partition, error) {
	if c.readErr != nil {
		return nil, c.readErr
	}
	if len(topics) == 0 {
		return c.partitions, nil
	}
	var out []kafka.Partition
	for _, p := range c.partitions {
		for _, t := range topics {
			if p.Topic == t {
				out = append(out, p)
			}
		}
	}
	return out, nil
}

func (c *mockConn) Close() error {
	c.closed = true
	return nil
}

type samplePayload struct {
	SMILES string `json:"smiles"`
}

func TestEventEnvelope_RoundTrip(t *testing.T) {
	env, err := NewEventEnvelope(EventDescriptorRequested, "jazzy-cli", samplePayload{SMILES: "c1ccncc1"})
	require.NoError(t, err)
	env.RequestID = "req-1"
	assert.NotEmpty(t, env.EventID)
	assert.Equal(t, "v1", env.SchemaVersion)

	pm, err := env.ToMessage(TopicDescriptorRequests)
	require.NoError(t, err)
	assert.Equal(t, TopicDescriptorRequests, pm.Topic)
	assert.Equal(t, "req-1", string(pm.Key))
	assert.Equal(t, EventDescriptorRequested, pm.Headers[HeaderEventType])
	assert.Equal(t, "req-1", pm.Headers[HeaderRequestID])

	got, err := MessageToEventEnvelope(&Message{Value: pm.Value})
	require.NoError(t, err)
	assert.Equal(t, env.EventID, got.EventID)
	assert.Equal(t, "req-1", got.RequestID)

	var p samplePayload
	require.NoError(t, got.DecodePayload(&p))
	assert.Equal(t, "c1ccncc1", p.SMILES)
}

func TestEventEnvelope_ToMessageWithoutRequestID(t *testing.T) {
	env, err := NewEventEnvelope(EventDescriptorComputed, "worker", map[string]int{"a": 1})
	require.NoError(t, err)
	pm, err := env.ToMessage(TopicDescriptorResults)
	require.NoError(t, err)
	assert.Nil(t, pm.Key)
	_, ok := pm.Headers[HeaderRequestID]
	assert.False(t, ok)
}

func TestEventEnvelope_Errors(t *testing.T) {
	_, err := NewEventEnvelope("x", "y", make(chan int))
	assert.True(t, apperrors.IsCode(err, apperrors.ErrCodeSerialization))

	_, err = MessageToEventEnvelope(&Message{})
	assert.True(t, apperrors.IsCode(err, apperrors.ErrCodeValidation))
	_, err = MessageToEventEnvelope(nil)
	assert.Error(t, err)
	_, err = MessageToEventEnvelope(&Message{Value: []byte("{")})
	assert.True(t, apperrors.IsCode(err, apperrors.ErrCodeSerialization))

	empty := &EventEnvelope{}
	var p samplePayload
	assert.True(t, apperrors.IsCode(empty.DecodePayload(&p), apperrors.ErrCodeValidation))

	bad := &EventEnvelope{Payload: []byte(`"str"`)}
	assert.True(t, apperrors.IsCode(bad.DecodePayload(&p), apperrors.ErrCodeSerialization))
}

func TestTopicManager_CreateTopic(t *testing.T) {
	conn := &mockConn{}
	logger := testutil.NewMockLogger()
	m := newTopicManager(conn, logger)

	err := m.CreateTopic(context.Background(), TopicConfig{
		Name: "t", NumPartitions: 3, ReplicationFactor: 1,
		RetentionMs: 1000, CleanupPolicy: "delete", MaxMessageBytes: 2048,
		Configs: map[string]string{"min.insync.replicas": "1"},
	})
	require.NoError(t, err)
	require.Len(t, conn.created, 1)
	c := conn.created[0]
	assert.Equal(t, "t", c.Topic)
	assert.Equal(t, 3, c.NumPartitions)

	entries := map[string]string{}
	for _, e := range c.ConfigEntries {
		entries[e.ConfigName] = e.ConfigValue
	}
	assert.Equal(t, "1000", entries["retention.ms"])
	assert.Equal(t, "delete", entries["cleanup.policy"])
	assert.Equal(t, "2048", entries["max.message.bytes"])
	assert.Equal(t, "1", entries["min.insync.replicas"])
	assert.True(t, logger.HasMessage("info", "topic created"))
}

func TestTopicManager_CreateTopicValidation(t *testing.T) {
	m := newTopicManager(&mockConn{}, nil)
	ctx := context.Background()
	assert.Error(t, m.CreateTopic(ctx, TopicConfig{NumPartitions: 1, ReplicationFactor: 1}))
	assert.Error(t, m.CreateTopic(ctx, TopicConfig{Name: "t", ReplicationFactor: 1}))
	assert.Error(t, m.CreateTopic(ctx, TopicConfig{Name: "t", NumPartitions: 1}))
}

func TestTopicManager_CreateTopicExisting(t *testing.T) {
	m := newTopicManager(&mockConn{createErr: kafka.TopicAlreadyExists}, nil)
	assert.NoError(t, m.CreateTopic(context.Background(), TopicConfig{Name: "t", NumPartitions: 1, ReplicationFactor: 1}))

	m = newTopicManager(&mockConn{createErr: errors.New("racy"), partitions: []kafka.Partition{{Topic: "t"}}}, nil)
	assert.NoError(t, m.CreateTopic(context.Background(), TopicConfig{Name: "t", NumPartitions: 1, ReplicationFactor: 1}))

	m = newTopicManager(&mockConn{createErr: errors.New("denied")}, nil)
	assert.Error(t, m.CreateTopic(context.Background(), TopicConfig{Name: "t", NumPartitions: 1, ReplicationFactor: 1}))
}

func TestTopicManager_ListAndExists(t *testing.T) {
	conn := &mockConn{partitions: []kafka.Partition{{Topic: "a", ID: 0}, {Topic: "a", ID: 1}, {Topic: "b", ID: 0}}}
	m := newTopicManager(conn, nil)

	topics, err := m.ListTopics(context.Background())
	require.NoError(t, err)
	assert.ElementsMatch(t, []string{"a", "b"}, topics)

	ok, err := m.TopicExists(context.Background(), "b")
	require.NoError(t, err)
	assert.True(t, ok)
	ok, err = m.TopicExists(context.Background(), "c")
	require.NoError(t, err)
	assert.False(t, ok)

	m = newTopicManager(&mockConn{readErr: kafka.UnknownTopicOrPartition}, nil)
	ok, err = m.TopicExists(context.Background(), "a")
	require.NoError(t, err)
	assert.False(t, ok)

	require.NoError(t, m.Close())
}

func TestTopicManager_EnsureDescriptorTopics(t *testing.T) {
	conn := &mockConn{}
	m := newTopicManager(conn, nil)
	topics := DescriptorTopics(TopicDescriptorRequests, TopicDescriptorResults, TopicDescriptorDeadLetter, 0)
	require.Len(t, topics, 3)
	assert.Equal(t, 1, topics[0].ReplicationFactor)

	require.NoError(t, m.EnsureTopics(context.Background(), topics))
	assert.Len(t, conn.created, 3)

	assert.Len(t, DescriptorTopics("a", "b", "", 3), 2)
}

func TestNewTopicManager_NoBrokers(t *testing.T) {
	_, err := NewTopicManager(nil, nil)
	assert.Error(t, err)
}

//Personal.AI order the ending
