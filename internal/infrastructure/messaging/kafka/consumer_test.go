package kafka

import (
	"context"
	"errors"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/segmentio/kafka-go"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/turtacn/jazzy-go/internal/testutil"
)

type mockReader struct {
	mu        sync.Mutex
	msgs      chan kafka.Message
	committed []kafka.Message
	closed    bool
}

func newMockReader(msgs ...kafka.Message) *mockReader {
	ch := make(chan kafka.Message, len(msgs)+1)
	for _, m := range msgs {
		ch <- m
	}
	return &mockReader{msgs: ch}
}

func (r *mockReader) FetchMessage(ctx context.Context) (kafka.Message, error) {
	select {
	case m := <-r.msgs:
		return m, nil
	case <-ctx.Done():
		return kafka.Message{}, ctx.Err()
	}
}

func (r *mockReader) CommitMessages(ctx context.Context, msgs ...kafka.Message) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.committed = append(r.committed, msgs...)
	return nil
}

func (r *mockReader) Close() error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.closed = true
	return nil
}

func (r *mockReader) Stats() kafka.ReaderStats { return kafka.ReaderStats{} }

func (r *mockReader) committedCount() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.committed)
}

type mockPublisher struct {
	mu   sync.Mutex
	msgs []*ProducerMessage
	err  error
}

func (p *mockPublisher) Publish(ctx context.Context, msg *ProducerMessage) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.err != nil {
		return p.err
	}
	p.msgs = append(p.msgs, msg)
	return nil
}

func (p *mockPublisher) Close() error { return nil }

func testConsumer(r ReaderInterface, maxRetries int) (*Consumer, *testutil.MockLogger) {
	logger := testutil.NewMockLogger()
	c := newConsumerWithReader(r, ConsumerConfig{
		GroupID: "g",
		Topics:  []string{TopicDescriptorRequests},
		RetryConfig: RetryConfig{
			MaxRetries:      maxRetries,
			RetryBackoff:    time.Millisecond,
			MaxRetryBackoff: 2 * time.Millisecond,
			DeadLetterTopic: TopicDescriptorDeadLetter,
		},
	}, logger, nil)
	return c, logger
}

func TestValidateConsumerConfig(t *testing.T) {
	base := ConsumerConfig{Brokers: []string{"b:9092"}, GroupID: "g", Topics: []string{"t"}}
	assert.NoError(t, ValidateConsumerConfig(base))

	cases := map[string]func(c *ConsumerConfig){
		"no brokers":     func(c *ConsumerConfig) { c.Brokers = nil },
		"no group":       func(c *ConsumerConfig) { c.GroupID = "" },
		"no topics":      func(c *ConsumerConfig) { c.Topics = nil },
		"bad reset":      func(c *ConsumerConfig) { c.AutoOffsetReset = "middle" },
		"neg retries":    func(c *ConsumerConfig) { c.RetryConfig.MaxRetries = -1 },
		"sasl no mech":   func(c *ConsumerConfig) { c.Security = SecurityConfig{SASLEnabled: true} },
		"sasl bad mech":  func(c *ConsumerConfig) { c.Security = SecurityConfig{SASLEnabled: true, SASLMechanism: "GSSAPI", SASLUsername: "u", SASLPassword: "p"} },
		"sasl no creds":  func(c *ConsumerConfig) { c.Security = SecurityConfig{SASLEnabled: true, SASLMechanism: "PLAIN"} },
		"tls no ca path": func(c *ConsumerConfig) { c.Security = SecurityConfig{TLSEnabled: true} },
	}
	for name, mutate := range cases {
		t.Run(name, func(t *testing.T) {
			cfg := base
			mutate(&cfg)
			assert.Error(t, ValidateConsumerConfig(cfg))
		})
	}
}

func TestSecurityConfig_Mechanism(t *testing.T) {
	mech, err := SecurityConfig{}.mechanism()
	require.NoError(t, err)
	assert.Nil(t, mech)

	mech, err = SecurityConfig{SASLEnabled: true, SASLMechanism: "PLAIN", SASLUsername: "u", SASLPassword: "p"}.mechanism()
	require.NoError(t, err)
	assert.Equal(t, "PLAIN", mech.Name())

	mech, err = SecurityConfig{SASLEnabled: true, SASLMechanism: "SCRAM-SHA-512", SASLUsername: "u", SASLPassword: "p"}.mechanism()
	require.NoError(t, err)
	assert.Equal(t, "SCRAM-SHA-512", mech.Name())
}

func TestSecurityConfig_TLSMissingFile(t *testing.T) {
	_, err := SecurityConfig{TLSEnabled: true, TLSCertPath: "/nonexistent/ca.pem"}.tlsConfig()
	assert.Error(t, err)
}

func TestConsumerDefaults(t *testing.T) {
	cfg := consumerDefaults(ConsumerConfig{})
	assert.Equal(t, "earliest", cfg.AutoOffsetReset)
	assert.Equal(t, time.Second, cfg.RetryConfig.RetryBackoff)
	assert.Equal(t, 30*time.Second, cfg.RetryConfig.MaxRetryBackoff)
	assert.Equal(t, 1, cfg.FetchMinBytes)
}

func TestProcessMessage_Success(t *testing.T) {
	c, _ := testConsumer(newMockReader(), 2)
	status, err := c.processMessage(context.Background(), &Message{Topic: "t"}, func(ctx context.Context, m *Message) error { return nil })
	require.NoError(t, err)
	assert.Equal(t, StatusProcessed, status)
	assert.Equal(t, int64(1), c.Stats().MessagesProcessed)
}

func TestProcessMessage_SucceedsOnRetry(t *testing.T) {
	c, logger := testConsumer(newMockReader(), 3)
	var calls int32
	handler := func(ctx context.Context, m *Message) error {
		if atomic.AddInt32(&calls, 1) < 3 {
			return errors.New("transient")
		}
		return nil
	}

	status, err := c.processMessage(context.Background(), &Message{Topic: "t"}, handler)
	require.NoError(t, err)
	assert.Equal(t, StatusRetried, status)
	assert.Equal(t, int32(3), atomic.LoadInt32(&calls))
	assert.Equal(t, int64(2), c.Stats().MessagesRetried)
	assert.True(t, logger.HasMessage("warn", "handler failed, retrying"))
}

func TestProcessMessage_DeadLetters(t *testing.T) {
	c, logger := testConsumer(newMockReader(), 1)
	dlq := &mockPublisher{}
	c.deadLetter = dlq

	msg := &Message{Topic: TopicDescriptorRequests, Key: []byte("k"), Value: []byte("v"), Headers: map[string]string{"request_id": "r1"}}
	status, err := c.processMessage(context.Background(), msg, func(ctx context.Context, m *Message) error {
		return errors.New("broker down")
	})
	require.NoError(t, err)
	assert.Equal(t, StatusDeadLettered, status)

	require.Len(t, dlq.msgs, 1)
	dl := dlq.msgs[0]
	assert.Equal(t, TopicDescriptorDeadLetter, dl.Topic)
	assert.Equal(t, []byte("k"), dl.Key)
	assert.Equal(t, []byte("v"), dl.Value)
	assert.Equal(t, "r1", dl.Headers["request_id"])
	assert.Equal(t, TopicDescriptorRequests, dl.Headers[HeaderOriginalTopic])
	assert.Equal(t, "broker down", dl.Headers[HeaderErrorMessage])
	assert.Equal(t, "2", dl.Headers[HeaderAttempts])

	stats := c.Stats()
	assert.Equal(t, int64(1), stats.MessagesFailed)
	assert.Equal(t, int64(1), stats.MessagesDeadLettered)
	assert.True(t, logger.HasMessage("error", "message processing failed after retries"))
}

func TestProcessMessage_DroppedWithoutDeadLetter(t *testing.T) {
	c, _ := testConsumer(newMockReader(), 0)
	status, err := c.processMessage(context.Background(), &Message{Topic: "t"}, func(ctx context.Context, m *Message) error {
		return errors.New("nope")
	})
	require.NoError(t, err)
	assert.Equal(t, StatusDropped, status)
}

func TestProcessMessage_DeadLetterPublishFails(t *testing.T) {
	c, logger := testConsumer(newMockReader(), 0)
	c.deadLetter = &mockPublisher{err: errors.New("dlq down")}
	status, err := c.processMessage(context.Background(), &Message{Topic: "t"}, func(ctx context.Context, m *Message) error {
		return errors.New("nope")
	})
	require.NoError(t, err)
	assert.Equal(t, StatusDropped, status)
	assert.True(t, logger.HasMessage("error", "failed to publish to dead letter topic"))
}

func TestProcessMessage_CancelledDuringBackoff(t *testing.T) {
	c, _ := testConsumer(newMockReader(), 5)
	c.config.RetryConfig.RetryBackoff = time.Hour
	c.config.RetryConfig.MaxRetryBackoff = time.Hour

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err := c.processMessage(ctx, &Message{Topic: "t"}, func(ctx context.Context, m *Message) error {
		return errors.New("fail")
	})
	assert.ErrorIs(t, err, context.Canceled)
}

func TestConsumer_StartDispatchesAndCommits(t *testing.T) {
	reader := newMockReader(
		kafka.Message{Topic: TopicDescriptorRequests, Offset: 0, Value: []byte("a"), Headers: []kafka.Header{{Key: "h", Value: []byte("1")}}},
		kafka.Message{Topic: "other", Offset: 1, Value: []byte("b")},
	)
	c, logger := testConsumer(reader, 0)

	got := make(chan *Message, 1)
	c.Subscribe(TopicDescriptorRequests, func(ctx context.Context, m *Message) error {
		got <- m
		return nil
	})

	require.NoError(t, c.Start(context.Background()))
	assert.ErrorIs(t, c.Start(context.Background()), ErrAlreadyRunning)
	assert.True(t, c.Running())

	select {
	case m := <-got:
		assert.Equal(t, "a", string(m.Value))
		assert.Equal(t, "1", m.Headers["h"])
	case <-time.After(2 * time.Second):
		t.Fatal("handler not called")
	}

	assert.Eventually(t, func() bool { return reader.committedCount() == 2 }, 2*time.Second, 5*time.Millisecond)
	require.NoError(t, c.Close())
	require.NoError(t, c.Close())
	assert.False(t, c.Running())
	assert.True(t, reader.closed)

	assert.Equal(t, int64(2), c.Stats().MessagesConsumed)
	assert.True(t, logger.HasMessage("warn", "no handler for topic"))
}

func TestFromKafkaMessage(t *testing.T) {
	ts := time.Unix(1700000000, 0)
	msg := fromKafkaMessage(kafka.Message{
		Topic: "t", Partition: 2, Offset: 9, Key: []byte("k"), Value: []byte("v"), Time: ts,
		Headers: []kafka.Header{{Key: "a", Value: []byte("b")}},
	})
	assert.Equal(t, "t", msg.Topic)
	assert.Equal(t, 2, msg.Partition)
	assert.Equal(t, int64(9), msg.Offset)
	assert.Equal(t, ts, msg.Timestamp)
	assert.Equal(t, map[string]string{"a": "b"}, msg.Headers)
}

//Personal.AI order the ending
