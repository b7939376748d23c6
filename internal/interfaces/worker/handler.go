// Package worker turns descriptor requests consumed from Kafka into published
// results.
package worker

import (
	"context"
	"encoding/json"
	"time"

	"github.com/google/uuid"

	appdesc "github.com/turtacn/jazzy-go/internal/application/descriptor"
	"github.com/turtacn/jazzy-go/internal/infrastructure/messaging/kafka"
	"github.com/turtacn/jazzy-go/internal/infrastructure/monitoring/logging"
	"github.com/turtacn/jazzy-go/pkg/errors"
	"github.com/turtacn/jazzy-go/pkg/types/common"
)

// SourceName identifies the worker in published envelopes.
const SourceName = "jazzy-worker"

// Job outcomes.
const (
	StatusSucceeded = "succeeded"
	StatusFailed    = "failed"
)

// JobResult is the payload published on the result topic.  Exactly one of
// Result and ErrorCode is set.
type JobResult struct {
	RequestID    string           `json:"request_id"`
	SMILES       string           `json:"smiles"`
	Status       string           `json:"status"`
	Result       *appdesc.Result  `json:"result,omitempty"`
	ErrorCode    string           `json:"error_code,omitempty"`
	ErrorMessage string           `json:"error_message,omitempty"`
	DurationMs   int64            `json:"duration_ms"`
	CompletedAt  common.Timestamp `json:"completed_at"`
}

// Publisher is satisfied by *kafka.Producer.
type Publisher interface {
	Publish(ctx context.Context, msg *kafka.ProducerMessage) error
}

// Config tunes the handler.
type Config struct {
	ResultTopic    string
	ProcessTimeout time.Duration
}

// Handler computes descriptors for one request message.
type Handler struct {
	svc       appdesc.Service
	publisher Publisher
	cfg       Config
	logger    logging.Logger
}

// NewHandler creates a Handler.
func NewHandler(svc appdesc.Service, publisher Publisher, cfg Config, logger logging.Logger) (*Handler, error) {
	if svc == nil || publisher == nil {
		return nil, errors.InvalidParam("service and publisher are required")
	}
	if cfg.ResultTopic == "" {
		cfg.ResultTopic = kafka.TopicDescriptorResults
	}
	if logger == nil {
		logger = logging.NewNopLogger()
	}
	return &Handler{svc: svc, publisher: publisher, cfg: cfg, logger: logger.Named("worker")}, nil
}

// Handle is a kafka.MessageHandler.  Chemistry and input failures are
// published as failed results and acknowledged; only a failure to publish,
// an unreachable toolkit or a cancelled ctx is returned, so that the
// consumer retries and eventually dead-letters the request.
func (h *Handler) Handle(ctx context.Context, msg *kafka.Message) error {
	start := time.Now()
	req, requestID, decodeErr := decodeRequest(msg)
	ctx = logging.WithRequestID(ctx, requestID)
	log := h.logger.WithContext(ctx).With(logging.String("topic", msg.Topic), logging.Int64("offset", msg.Offset))

	out := &JobResult{RequestID: requestID}
	if decodeErr != nil {
		log.WithError(decodeErr).Warn("undecodable descriptor request")
		h.fail(out, decodeErr)
		return h.publish(ctx, out, start)
	}
	out.SMILES = req.SMILES

	runCtx := ctx
	if h.cfg.ProcessTimeout > 0 {
		var cancel context.CancelFunc
		runCtx, cancel = context.WithTimeout(ctx, h.cfg.ProcessTimeout)
		defer cancel()
	}

	res, err := h.svc.Analyze(runCtx, req)
	if err != nil {
		if ctx.Err() != nil {
			return ctx.Err()
		}
		if retryable(err) {
			log.WithError(err).Warn("toolkit unavailable, request will be retried")
			return err
		}
		if runCtx.Err() == context.DeadlineExceeded {
			err = errors.Wrap(err, errors.ErrCodeTimeout, "descriptor calculation timed out")
		}
		h.fail(out, err)
	} else {
		out.Status = StatusSucceeded
		out.Result = res
	}
	return h.publish(ctx, out, start)
}

func (h *Handler) fail(out *JobResult, err error) {
	out.Status = StatusFailed
	out.ErrorCode = appdesc.ErrorCode(err)
	out.ErrorMessage = appdesc.ErrorMessage(err)
}

func (h *Handler) publish(ctx context.Context, out *JobResult, start time.Time) error {
	out.DurationMs = time.Since(start).Milliseconds()
	out.CompletedAt = common.NewTimestamp()

	eventType := kafka.EventDescriptorComputed
	if out.Status == StatusFailed {
		eventType = kafka.EventDescriptorFailed
	}
	env, err := kafka.NewEventEnvelope(eventType, SourceName, out)
	if err != nil {
		return err
	}
	env.RequestID = out.RequestID
	pm, err := env.ToMessage(h.cfg.ResultTopic)
	if err != nil {
		return err
	}
	if err := h.publisher.Publish(ctx, pm); err != nil {
		h.logger.WithContext(ctx).WithError(err).Error("failed to publish descriptor result")
		return err
	}
	h.logger.WithContext(ctx).Info("descriptor result published",
		logging.String("status", out.Status),
		logging.String(logging.FieldErrorCode, out.ErrorCode),
		logging.Int64("duration_ms", out.DurationMs))
	return nil
}

// decodeRequest accepts either an EventEnvelope carrying a Request or a
// bare Request.  The request ID comes from the request, the envelope, the
// request_id header or a fresh uuid, in that order.
func decodeRequest(msg *kafka.Message) (*appdesc.Request, string, error) {
	requestID := msg.Headers[kafka.HeaderRequestID]
	if requestID == "" {
		requestID = uuid.NewString()
	}
	if len(msg.Value) == 0 {
		return nil, requestID, errors.New(errors.ErrCodeValidation, "empty request message")
	}

	var req appdesc.Request
	env, err := kafka.MessageToEventEnvelope(msg)
	if err != nil {
		return nil, requestID, err
	}
	if len(env.Payload) > 0 && string(env.Payload) != "null" {
		if err := env.DecodePayload(&req); err != nil {
			return nil, requestID, err
		}
		if env.RequestID != "" {
			requestID = env.RequestID
		}
	} else if err := json.Unmarshal(msg.Value, &req); err != nil {
		return nil, requestID, errors.Wrap(err, errors.ErrCodeSerialization, "failed to decode request")
	}

	if req.ID != "" {
		requestID = req.ID
	}
	req.ID = requestID
	if req.SMILES == "" {
		return nil, requestID, errors.New(errors.ErrCodeValidation, "smiles is required")
	}
	return &req, requestID, nil
}

func retryable(err error) bool {
	return errors.IsUnavailable(err)
}

//Personal.AI order the ending
