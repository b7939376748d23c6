package worker

import (
	"context"
	stderrors "errors"
	"sync"

	"github.com/turtacn/jazzy-go/internal/infrastructure/messaging/kafka"
	"github.com/turtacn/jazzy-go/internal/infrastructure/monitoring/logging"
	"github.com/turtacn/jazzy-go/pkg/errors"
)

// Consumer is satisfied by *kafka.Consumer.
type Consumer interface {
	Subscribe(topic string, handler kafka.MessageHandler)
	Start(ctx context.Context) error
	Close() error
	Stats() kafka.ConsumerStats
}

// ConsumerFactory builds one group member.
type ConsumerFactory func() (Consumer, error)

// Pool runs several consumers of the same group, each handling one message
// at a time.  Kafka spreads the topic's partitions across them.
type Pool struct {
	size    int
	topic   string
	handler kafka.MessageHandler
	factory ConsumerFactory
	logger  logging.Logger

	mu        sync.Mutex
	consumers []Consumer
}

// NewPool creates a pool of size consumers.
func NewPool(size int, topic string, handler kafka.MessageHandler, factory ConsumerFactory, logger logging.Logger) (*Pool, error) {
	if size <= 0 {
		return nil, errors.InvalidParam("pool size must be positive")
	}
	if topic == "" || handler == nil || factory == nil {
		return nil, errors.InvalidParam("topic, handler and factory are required")
	}
	if logger == nil {
		logger = logging.NewNopLogger()
	}
	return &Pool{size: size, topic: topic, handler: handler, factory: factory, logger: logger.Named("worker.pool")}, nil
}

// Start creates and starts every consumer.  On failure the consumers started
// so far are closed.
func (p *Pool) Start(ctx context.Context) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	if len(p.consumers) > 0 {
		return kafka.ErrAlreadyRunning
	}

	for i := 0; i < p.size; i++ {
		c, err := p.factory()
		if err == nil {
			c.Subscribe(p.topic, p.handler)
			err = c.Start(ctx)
			if err != nil {
				_ = c.Close()
			}
		}
		if err != nil {
			p.closeLocked()
			return errors.Wrap(err, errors.ErrCodeInternal, "failed to start consumer")
		}
		p.consumers = append(p.consumers, c)
	}
	p.logger.Info("worker pool started", logging.Int("consumers", p.size), logging.String("topic", p.topic))
	return nil
}

// Close stops every consumer and returns their joined errors.
func (p *Pool) Close() error {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.closeLocked()
}

func (p *Pool) closeLocked() error {
	var errs []error
	for _, c := range p.consumers {
		if err := c.Close(); err != nil {
			errs = append(errs, err)
		}
	}
	p.consumers = nil
	return stderrors.Join(errs...)
}

// Stats sums the counters of every running consumer.  Lag is the largest
// lag reported.
func (p *Pool) Stats() kafka.ConsumerStats {
	p.mu.Lock()
	defer p.mu.Unlock()
	var total kafka.ConsumerStats
	for _, c := range p.consumers {
		s := c.Stats()
		total.MessagesConsumed += s.MessagesConsumed
		total.MessagesProcessed += s.MessagesProcessed
		total.MessagesFailed += s.MessagesFailed
		total.MessagesRetried += s.MessagesRetried
		total.MessagesDeadLettered += s.MessagesDeadLettered
		if s.Lag > total.Lag {
			total.Lag = s.Lag
		}
	}
	return total
}

// Size is the number of running consumers.
func (p *Pool) Size() int {
	p.mu.Lock()
	defer p.mu.Unlock()
	return len(p.consumers)
}

//Personal.AI order the ending
