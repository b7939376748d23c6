package worker

import (
	"context"
	stderrors "errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/turtacn/jazzy-go/internal/infrastructure/messaging/kafka"
	"github.com/turtacn/jazzy-go/internal/testutil"
)

type fakeConsumer struct {
	topic    string
	started  bool
	closed   bool
	startErr error
	closeErr error
	stats    kafka.ConsumerStats
}

func (c *fakeConsumer) Subscribe(topic string, handler kafka.MessageHandler) { c.topic = topic }

func (c *fakeConsumer) Start(ctx context.Context) error {
	if c.startErr != nil {
		return c.startErr
	}
	c.started = true
	return nil
}

func (c *fakeConsumer) Close() error {
	c.closed = true
	return c.closeErr
}

func (c *fakeConsumer) Stats() kafka.ConsumerStats { return c.stats }

func noopHandler(ctx context.Context, msg *kafka.Message) error { return nil }

func TestNewPool_Validation(t *testing.T) {
	factory := func() (Consumer, error) { return &fakeConsumer{}, nil }
	_, err := NewPool(0, "t", noopHandler, factory, nil)
	assert.Error(t, err)
	_, err = NewPool(1, "", noopHandler, factory, nil)
	assert.Error(t, err)
	_, err = NewPool(1, "t", nil, factory, nil)
	assert.Error(t, err)
	_, err = NewPool(1, "t", noopHandler, nil, nil)
	assert.Error(t, err)
}

func TestPool_StartAndClose(t *testing.T) {
	var made []*fakeConsumer
	factory := func() (Consumer, error) {
		c := &fakeConsumer{stats: kafka.ConsumerStats{MessagesConsumed: 2, MessagesProcessed: 1, Lag: int64(len(made))}}
		made = append(made, c)
		return c, nil
	}
	logger := testutil.NewMockLogger()
	p, err := NewPool(3, kafka.TopicDescriptorRequests, noopHandler, factory, logger)
	require.NoError(t, err)

	require.NoError(t, p.Start(context.Background()))
	assert.ErrorIs(t, p.Start(context.Background()), kafka.ErrAlreadyRunning)
	assert.Equal(t, 3, p.Size())
	for _, c := range made {
		assert.True(t, c.started)
		assert.Equal(t, kafka.TopicDescriptorRequests, c.topic)
	}

	stats := p.Stats()
	assert.Equal(t, int64(6), stats.MessagesConsumed)
	assert.Equal(t, int64(3), stats.MessagesProcessed)
	assert.Equal(t, int64(2), stats.Lag)
	assert.True(t, logger.HasMessage("info", "worker pool started"))

	require.NoError(t, p.Close())
	assert.Zero(t, p.Size())
	for _, c := range made {
		assert.True(t, c.closed)
	}
}

func TestPool_StartFailureClosesStarted(t *testing.T) {
	var made []*fakeConsumer
	factory := func() (Consumer, error) {
		c := &fakeConsumer{}
		if len(made) == 2 {
			c.startErr = stderrors.New("no brokers")
		}
		made = append(made, c)
		return c, nil
	}
	p, err := NewPool(4, "t", noopHandler, factory, nil)
	require.NoError(t, err)

	err = p.Start(context.Background())
	require.Error(t, err)
	assert.Len(t, made, 3)
	for _, c := range made {
		assert.True(t, c.closed)
	}
	assert.Zero(t, p.Size())
}

func TestPool_FactoryError(t *testing.T) {
	p, err := NewPool(2, "t", noopHandler, func() (Consumer, error) { return nil, stderrors.New("bad config") }, nil)
	require.NoError(t, err)
	assert.Error(t, p.Start(context.Background()))
}

func TestPool_CloseJoinsErrors(t *testing.T) {
	factory := func() (Consumer, error) { return &fakeConsumer{closeErr: stderrors.New("reader stuck")}, nil }
	p, err := NewPool(2, "t", noopHandler, factory, nil)
	require.NoError(t, err)
	require.NoError(t, p.Start(context.Background()))

	err = p.Close()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "reader stuck")
}

//Personal.AI order the ending
