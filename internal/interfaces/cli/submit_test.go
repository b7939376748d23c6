package cli

import (
	stderrors "errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	appdesc "github.com/turtacn/jazzy-go/internal/application/descriptor"
	"github.com/turtacn/jazzy-go/internal/config"
	"github.com/turtacn/jazzy-go/internal/infrastructure/messaging/kafka"
	"github.com/turtacn/jazzy-go/pkg/errors"
)

func decodeRequest(t *testing.T, msg *kafka.ProducerMessage) (*kafka.EventEnvelope, appdesc.Request) {
	t.Helper()
	env, err := kafka.MessageToEventEnvelope(&kafka.Message{Value: msg.Value})
	require.NoError(t, err)
	var req appdesc.Request
	require.NoError(t, env.DecodePayload(&req))
	return env, req
}

func TestSubmitCmd_FromFlags(t *testing.T) {
	h := newCLIHarness()
	out, err := h.run("submit", "--smiles", "c1ccccn1", "--smiles", "CCO", "--charges", "MMFF94", "-o", "json")
	require.NoError(t, err)

	require.Len(t, h.publisher.msgs, 2)
	assert.True(t, h.publisher.closed)
	for i, want := range []string{"c1ccccn1", "CCO"} {
		msg := h.publisher.msgs[i]
		assert.Equal(t, config.DefaultRequestTopic, msg.Topic)
		env, req := decodeRequest(t, msg)
		assert.Equal(t, kafka.EventDescriptorRequested, env.EventType)
		assert.Equal(t, SubmitSource, env.Source)
		assert.Equal(t, want, req.SMILES)
		assert.Equal(t, "MMFF94", req.ChargeMethod)
		assert.NotEmpty(t, req.ID)
		assert.Equal(t, req.ID, env.RequestID)
		assert.Equal(t, req.ID, msg.Headers[kafka.HeaderRequestID])
		assert.Equal(t, []byte(req.ID), msg.Key)
	}

	res := decodeJSON[SubmitResult](t, out)
	assert.Equal(t, config.DefaultRequestTopic, res.Topic)
	require.Len(t, res.Jobs, 2)
	assert.Equal(t, SubmitQueued, res.Jobs[1].Status)
	assert.True(t, h.logger.HasMessage("info", "descriptor requests submitted"))
}

func TestSubmitCmd_FromFile(t *testing.T) {
	h := newCLIHarness()
	path := filepath.Join(t.TempDir(), "molecules.smi")
	require.NoError(t, os.WriteFile(path, []byte("# pyridine first\nc1ccccn1 job-1\n\n  CCO  \n"), 0o600))

	_, err := h.run("submit", "--file", path, "--topic", "custom.requests", "-o", "json")
	require.NoError(t, err)

	require.Len(t, h.publisher.msgs, 2)
	assert.Equal(t, "custom.requests", h.publisher.msgs[0].Topic)
	_, first := decodeRequest(t, h.publisher.msgs[0])
	assert.Equal(t, "job-1", first.ID)
	_, second := decodeRequest(t, h.publisher.msgs[1])
	assert.Equal(t, "CCO", second.SMILES)
	assert.Len(t, second.ID, 36)
}

func TestSubmitCmd_PartialFailure(t *testing.T) {
	h := newCLIHarness()
	h.publisher.result = &kafka.BatchPublishResult{
		Succeeded: 1,
		Failed:    1,
		Errors:    []kafka.BatchItemError{{Index: 1, Error: stderrors.New("leader not available")}},
	}

	out, err := h.run("submit", "--smiles", "c1ccccn1", "--smiles", "CCO", "-o", "json")
	require.Error(t, err)
	assert.True(t, errors.IsCode(err, errors.ErrCodeServiceUnavailable))

	res := decodeJSON[SubmitResult](t, out)
	assert.Equal(t, SubmitQueued, res.Jobs[0].Status)
	assert.Equal(t, SubmitFailed, res.Jobs[1].Status)
	assert.Equal(t, "leader not available", res.Jobs[1].Error)
}

func TestSubmitCmd_WholeBatchFailure(t *testing.T) {
	h := newCLIHarness()
	h.publisher.result = &kafka.BatchPublishResult{
		Failed: 2,
		Errors: []kafka.BatchItemError{{Index: -1, Error: stderrors.New("no brokers")}},
	}

	out, err := h.run("submit", "--smiles", "c1ccccn1", "--smiles", "CCO", "-o", "json")
	require.Error(t, err)
	res := decodeJSON[SubmitResult](t, out)
	for _, j := range res.Jobs {
		assert.Equal(t, SubmitFailed, j.Status)
	}
}

func TestSubmitCmd_Errors(t *testing.T) {
	h := newCLIHarness()

	_, err := h.run("submit")
	require.Error(t, err)
	assert.True(t, errors.IsValidation(err))

	_, err = h.run("submit", "--smiles", "C?C")
	require.Error(t, err)
	assert.True(t, errors.IsCode(err, errors.CodeInvalidSMILES))
	assert.Empty(t, h.publisher.msgs)

	h.publisher.err = errors.New(errors.ErrCodeInternal, "producer closed")
	_, err = h.run("submit", "--smiles", "CCO")
	require.Error(t, err)
	assert.True(t, h.publisher.closed)
}

//Personal.AI order the ending
