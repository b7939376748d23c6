package cli

import (
	"bufio"
	"fmt"
	"os"
	"strings"

	"github.com/google/uuid"
	"github.com/spf13/cobra"

	appdesc "github.com/turtacn/jazzy-go/internal/application/descriptor"
	domainMol "github.com/turtacn/jazzy-go/internal/domain/molecule"
	"github.com/turtacn/jazzy-go/internal/infrastructure/messaging/kafka"
	"github.com/turtacn/jazzy-go/internal/infrastructure/monitoring/logging"
	"github.com/turtacn/jazzy-go/pkg/errors"
)

// SubmitSource is the envelope source of CLI submissions.
const SubmitSource = "jazzy-cli"

// Submission states reported by submit.
const (
	SubmitQueued = "queued"
	SubmitFailed = "failed"
)

// SubmittedJob reports one published request.
type SubmittedJob struct {
	RequestID string `json:"request_id" yaml:"request_id"`
	SMILES    string `json:"smiles" yaml:"smiles"`
	Status    string `json:"status" yaml:"status"`
	Error     string `json:"error,omitempty" yaml:"error,omitempty"`
}

// SubmitResult lists the jobs of one submit run.
type SubmitResult struct {
	Topic string         `json:"topic" yaml:"topic"`
	Jobs  []SubmittedJob `json:"jobs" yaml:"jobs"`
}

func (r SubmitResult) TableHeaders() []string {
	return []string{"request_id", "smiles", "status", "error"}
}

func (r SubmitResult) TableRows() [][]string {
	rows := make([][]string, len(r.Jobs))
	for i, j := range r.Jobs {
		rows[i] = []string{j.RequestID, j.SMILES, j.Status, j.Error}
	}
	return rows
}

// readSubmitFile reads one request per line: a SMILES optionally followed by
// a request ID.  Blank lines and lines starting with # are skipped.
func readSubmitFile(path string) ([]appdesc.Request, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, errors.Wrap(err, errors.ErrCodeBadRequest, "failed to open input file").WithDetail("path=" + path)
	}
	defer f.Close()

	var reqs []appdesc.Request
	sc := bufio.NewScanner(f)
	for sc.Scan() {
		line := strings.TrimSpace(sc.Text())
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		fields := strings.Fields(line)
		req := appdesc.Request{SMILES: fields[0]}
		if len(fields) > 1 {
			req.ID = fields[1]
		}
		reqs = append(reqs, req)
	}
	if err := sc.Err(); err != nil {
		return nil, errors.Wrap(err, errors.ErrCodeBadRequest, "failed to read input file").WithDetail("path=" + path)
	}
	return reqs, nil
}

// buildRequestMessages wraps each request in a descriptor.requested envelope
// keyed by its request ID.
func buildRequestMessages(reqs []appdesc.Request, topic string) ([]*kafka.ProducerMessage, error) {
	msgs := make([]*kafka.ProducerMessage, len(reqs))
	for i := range reqs {
		if err := domainMol.ValidateSMILES(reqs[i].SMILES); err != nil {
			return nil, errors.Wrap(err, errors.CodeInvalidSMILES, "invalid input").WithDetail(fmt.Sprintf("item=%d", i))
		}
		if reqs[i].ID == "" {
			reqs[i].ID = uuid.NewString()
		}
		env, err := kafka.NewEventEnvelope(kafka.EventDescriptorRequested, SubmitSource, reqs[i])
		if err != nil {
			return nil, err
		}
		env.RequestID = reqs[i].ID
		if msgs[i], err = env.ToMessage(topic); err != nil {
			return nil, err
		}
	}
	return msgs, nil
}

func newSubmitCmd() *cobra.Command {
	var (
		smiles       []string
		file         string
		topic        string
		chargeMethod string
		minimisation string
	)

	cmd := &cobra.Command{
		Use:   "submit",
		Short: "Queue descriptor requests for the worker",
		Example: "  jazzy submit --smiles c1ccccn1 --smiles CCO\n" +
			"  jazzy submit --file molecules.smi --charges MMFF94",
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cliCtx, err := GetCLIContext(cmd)
			if err != nil {
				return err
			}
			var reqs []appdesc.Request
			for _, s := range smiles {
				reqs = append(reqs, appdesc.Request{SMILES: s})
			}
			if file != "" {
				fromFile, err := readSubmitFile(file)
				if err != nil {
					return err
				}
				reqs = append(reqs, fromFile...)
			}
			if len(reqs) == 0 {
				return errors.InvalidParam("nothing to submit; pass --smiles or --file")
			}
			for i := range reqs {
				reqs[i].ChargeMethod = chargeMethod
				reqs[i].MinimisationMethod = minimisation
			}
			if topic == "" {
				topic = cliCtx.Config.Kafka.RequestTopic
			}

			msgs, err := buildRequestMessages(reqs, topic)
			if err != nil {
				return err
			}
			pub, err := cliCtx.Publisher()
			if err != nil {
				return err
			}
			defer pub.Close()

			ctx, cancel := cliCtx.WithTimeout(cmd.Context())
			defer cancel()
			res, err := pub.PublishBatch(ctx, msgs)
			if err != nil {
				return err
			}

			out := SubmitResult{Topic: topic, Jobs: make([]SubmittedJob, len(reqs))}
			for i, r := range reqs {
				out.Jobs[i] = SubmittedJob{RequestID: r.ID, SMILES: r.SMILES, Status: SubmitQueued}
			}
			for _, e := range res.Errors {
				if e.Index < 0 {
					for i := range out.Jobs {
						out.Jobs[i].Status, out.Jobs[i].Error = SubmitFailed, e.Error.Error()
					}
					break
				}
				out.Jobs[e.Index].Status, out.Jobs[e.Index].Error = SubmitFailed, e.Error.Error()
			}
			cliCtx.Logger.Info("descriptor requests submitted",
				logging.String("topic", topic), logging.Int("succeeded", res.Succeeded), logging.Int("failed", res.Failed))

			if err := PrintResult(cmd, out); err != nil {
				return err
			}
			if res.Failed > 0 {
				return errors.Newf(errors.ErrCodeServiceUnavailable, "%d of %d requests were not published", res.Failed, len(reqs))
			}
			return nil
		},
	}

	f := cmd.Flags()
	f.StringArrayVar(&smiles, "smiles", nil, "SMILES to submit (repeatable)")
	f.StringVar(&file, "file", "", "file with one SMILES [request-id] per line")
	f.StringVar(&topic, "topic", "", "request topic (default kafka.request_topic)")
	f.StringVar(&chargeMethod, "charges", "", "charge method for every request")
	f.StringVar(&minimisation, "minimisation", "", "minimisation method for every request")
	return cmd
}

//Personal.AI order the ending
