// Package cli implements the jazzy command line: descriptor, charge and
// neighbour calculations against the toolkit sidecar, and job submission to
// the worker's request topic.
package cli

import (
	"context"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/spf13/cobra"

	appdesc "github.com/turtacn/jazzy-go/internal/application/descriptor"
	"github.com/turtacn/jazzy-go/internal/config"
	"github.com/turtacn/jazzy-go/internal/infrastructure/messaging/kafka"
	"github.com/turtacn/jazzy-go/internal/infrastructure/monitoring/logging"
	"github.com/turtacn/jazzy-go/internal/infrastructure/toolkit"
	"github.com/turtacn/jazzy-go/pkg/errors"
)

// Build-time variables injected via ldflags.
var (
	Version   = "dev"
	GitCommit = "unknown"
	BuildDate = "unknown"
)

type cliContextKey struct{}

// RootOptions holds the global flags.
type RootOptions struct {
	ConfigPath   string
	LogLevel     string
	OutputFormat string
	Verbose      bool
	NoColor      bool
	Timeout      time.Duration
	ToolkitURL   string
}

// Publisher is satisfied by *kafka.Producer.
type Publisher interface {
	PublishBatch(ctx context.Context, msgs []*kafka.ProducerMessage) (*kafka.BatchPublishResult, error)
	Close() error
}

// Dependencies are the factories the commands build their collaborators
// with.  Nil fields fall back to the production implementations.
type Dependencies struct {
	LoadConfig   func(path string) (*config.Config, error)
	NewLogger    func(cfg *config.Config, opts *RootOptions) (logging.Logger, error)
	NewService   func(cfg *config.Config, logger logging.Logger) (appdesc.Service, error)
	NewPublisher func(cfg *config.Config, logger logging.Logger) (Publisher, error)
}

func (d Dependencies) withDefaults() Dependencies {
	if d.LoadConfig == nil {
		d.LoadConfig = config.LoadOrEnv
	}
	if d.NewLogger == nil {
		d.NewLogger = initLogger
	}
	if d.NewService == nil {
		d.NewService = newToolkitService
	}
	if d.NewPublisher == nil {
		d.NewPublisher = newKafkaPublisher
	}
	return d
}

// CLIContext carries the loaded configuration and lazily built collaborators
// through the command tree.
type CLIContext struct {
	Config       *config.Config
	Logger       logging.Logger
	OutputFormat string
	NoColor      bool
	Timeout      time.Duration

	deps    Dependencies
	svcOnce sync.Once
	svc     appdesc.Service
	svcErr  error
}

// Service builds the descriptor service on first use.
func (c *CLIContext) Service() (appdesc.Service, error) {
	c.svcOnce.Do(func() {
		c.svc, c.svcErr = c.deps.NewService(c.Config, c.Logger)
	})
	return c.svc, c.svcErr
}

// Publisher builds a request-topic publisher.  The caller closes it.
func (c *CLIContext) Publisher() (Publisher, error) {
	return c.deps.NewPublisher(c.Config, c.Logger)
}

// WithTimeout bounds ctx by the --timeout flag.
func (c *CLIContext) WithTimeout(ctx context.Context) (context.Context, context.CancelFunc) {
	if c.Timeout <= 0 {
		return context.WithCancel(ctx)
	}
	return context.WithTimeout(ctx, c.Timeout)
}

// NewRootCommand creates the root command with its global flags and every
// subcommand.
func NewRootCommand(deps Dependencies) *cobra.Command {
	deps = deps.withDefaults()
	opts := &RootOptions{}

	cmd := &cobra.Command{
		Use:   "jazzy",
		Short: "Hydrogen-bond descriptors from SMILES",
		Long: "jazzy computes per-atom hydrogen-bond strength descriptors (charges,\n" +
			"polarizabilities, hybridization, lone pairs and steric accessibility)\n" +
			"for molecules given as SMILES or MOL blocks.",
		Version: fmt.Sprintf("%s (commit: %s, built: %s)", Version, GitCommit, BuildDate),
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return persistentPreRun(cmd, opts, deps)
		},
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	pf := cmd.PersistentFlags()
	pf.StringVarP(&opts.ConfigPath, "config", "c", "", "config file path (default: JAZZY_* environment)")
	pf.StringVar(&opts.LogLevel, "log-level", "warn", "log level (debug, info, warn, error)")
	pf.StringVarP(&opts.OutputFormat, "output", "o", OutputTable, "output format (json, yaml, table)")
	pf.BoolVarP(&opts.Verbose, "verbose", "v", false, "enable debug logging")
	pf.BoolVar(&opts.NoColor, "no-color", false, "disable styled output")
	pf.DurationVar(&opts.Timeout, "timeout", 2*time.Minute, "per-command timeout")
	pf.StringVar(&opts.ToolkitURL, "toolkit-url", "", "toolkit sidecar URL (overrides toolkit.base_url)")

	cmd.AddCommand(
		newDescriptorsCmd(),
		newChargesCmd(),
		newNeighborsCmd(),
		newSubmitCmd(),
		newVersionCmd(),
	)
	return cmd
}

func persistentPreRun(cmd *cobra.Command, opts *RootOptions, deps Dependencies) error {
	switch opts.OutputFormat {
	case OutputJSON, OutputYAML, OutputTable:
	default:
		return errors.InvalidParam(fmt.Sprintf("unknown output format %q; expected json|yaml|table", opts.OutputFormat))
	}

	cfg, err := deps.LoadConfig(opts.ConfigPath)
	if err != nil {
		return errors.Wrap(err, errors.ErrCodeValidation, "config initialization failed")
	}
	if opts.ToolkitURL != "" {
		cfg.Toolkit.BaseURL = opts.ToolkitURL
	}

	logger, err := deps.NewLogger(cfg, opts)
	if err != nil {
		return errors.Wrap(err, errors.ErrCodeValidation, "logger initialization failed")
	}

	cliCtx := &CLIContext{
		Config:       cfg,
		Logger:       logger,
		OutputFormat: opts.OutputFormat,
		NoColor:      opts.NoColor,
		Timeout:      opts.Timeout,
		deps:         deps,
	}
	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}
	cmd.SetContext(context.WithValue(ctx, cliContextKey{}, cliCtx))
	return nil
}

// initLogger logs to stderr in console format so stdout carries only
// command output.
func initLogger(_ *config.Config, opts *RootOptions) (logging.Logger, error) {
	level := strings.ToLower(opts.LogLevel)
	if opts.Verbose {
		level = "debug"
	}
	return logging.NewLogger(logging.LogConfig{
		Level:            level,
		Format:           "console",
		OutputPaths:      []string{"stderr"},
		ErrorOutputPaths: []string{"stderr"},
	})
}

func newToolkitService(cfg *config.Config, logger logging.Logger) (appdesc.Service, error) {
	client, err := toolkit.NewClient(cfg.Toolkit.BaseURL, cfg.Toolkit.APIKey,
		toolkit.WithTimeout(cfg.Toolkit.Timeout),
		toolkit.WithRetryMax(cfg.Toolkit.RetryMax),
		toolkit.WithRetryWait(cfg.Toolkit.RetryWaitMin, cfg.Toolkit.RetryWaitMax),
		toolkit.WithUserAgent("jazzy-cli/"+Version),
		toolkit.WithLogger(logger),
	)
	if err != nil {
		return nil, err
	}
	return appdesc.NewService(client, client, cfg.Descriptor.ServiceConfig(), logger, nil)
}

func newKafkaPublisher(cfg *config.Config, logger logging.Logger) (Publisher, error) {
	p, err := kafka.NewProducer(cfg.Kafka.ProducerConfig(), logger)
	if err != nil {
		return nil, err
	}
	return p, nil
}

// GetCLIContext extracts the CLIContext stored by the root command.
func GetCLIContext(cmd *cobra.Command) (*CLIContext, error) {
	ctx := cmd.Context()
	if ctx == nil {
		return nil, errors.Internal("command context is nil")
	}
	cliCtx, ok := ctx.Value(cliContextKey{}).(*CLIContext)
	if !ok || cliCtx == nil {
		return nil, errors.Internal("CLI context not initialised")
	}
	return cliCtx, nil
}

// Execute runs the command line with the production dependencies.
func Execute() error {
	rootCmd := NewRootCommand(Dependencies{})
	if err := rootCmd.Execute(); err != nil {
		PrintError(rootCmd, err)
		return err
	}
	return nil
}

// PrintError writes err to stderr, prefixed by its code when it has one.
func PrintError(cmd *cobra.Command, err error) {
	if err == nil {
		return
	}
	if code := appdesc.ErrorCode(err); code != "" && code != errors.ErrCodeInternal.String() {
		fmt.Fprintf(cmd.ErrOrStderr(), "Error [%s]: %s\n", code, appdesc.ErrorMessage(err))
		return
	}
	fmt.Fprintf(cmd.ErrOrStderr(), "Error: %s\n", err.Error())
}

//Personal.AI order the ending
