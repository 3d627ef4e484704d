package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"time"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/muurk/nestctl/internal/config"
	"github.com/muurk/nestctl/internal/logging"
	"github.com/muurk/nestctl/internal/thermostat"
	"github.com/muurk/nestctl/internal/ui"
	"github.com/muurk/nestctl/internal/version"
)

// Exit codes
const (
	exitOK      = 0
	exitFailure = 1
	exitUsage   = 2
)

// usageError marks bad command-line input. The usage text is printed with it
// and no network call is made.
type usageError struct {
	err error
}

func (e *usageError) Error() string { return e.err.Error() }
func (e *usageError) Unwrap() error { return e.err }

func newUsageError(err error) error {
	return &usageError{err: err}
}

type options struct {
	mode       string
	configPath string
	timeout    time.Duration
	quiet      bool
	logLevel   string

	stdout io.Writer
	stderr io.Writer
}

func newRootCmd(stdout, stderr io.Writer) *cobra.Command {
	opts := &options{stdout: stdout, stderr: stderr}

	cmd := &cobra.Command{
		Use:   "nest [temp]",
		Short: "Read or set the target temperature of a thermostat",
		Long: fmt.Sprintf(`Read or set the target temperature of a single thermostat.

With no argument the current target temperature is printed. With a
temperature (%d-%d °F) the target is set first and the value reported by
the API afterwards is printed. --mode switches the HVAC mode in the same run.

The device id and token come from config.json, looked up in order:
  --config, $%s, next to the executable, then the user config dir.`,
			thermostat.MinTemperatureF, thermostat.MaxTemperatureF, config.PathEnvVar),
		Example: `  nest
  nest 72
  nest --mode cool 72`,
		Version:       version.Full(),
		Args:          maxArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			// .env may set NEST_LOG_LEVEL, so it is loaded first.
			if err := config.LoadEnvFiles(); err != nil {
				return err
			}
			return opts.initLogging()
		},
		RunE: opts.run,
	}

	cmd.CompletionOptions.DisableDefaultCmd = true
	cmd.SetOut(stdout)
	cmd.SetErr(stderr)
	cmd.SetVersionTemplate("nest {{.Version}}\n")
	cmd.SetFlagErrorFunc(func(_ *cobra.Command, err error) error {
		return newUsageError(err)
	})

	flags := cmd.Flags()
	flags.StringVar(&opts.mode, "mode", "", "HVAC mode to set (heat or cool)")
	flags.StringVar(&opts.configPath, "config", "", "Path to config file (JSON, or YAML by extension)")
	flags.DurationVar(&opts.timeout, "timeout", thermostat.DefaultTimeout, "Timeout for each API request")
	flags.BoolVarP(&opts.quiet, "quiet", "q", false, "Do not show progress on stderr")
	flags.StringVar(&opts.logLevel, "log-level", "", "Log level (debug, info, warn, error); overrides $"+logging.LogLevelEnvVar)

	return cmd
}

func maxArgs(n int) cobra.PositionalArgs {
	check := cobra.MaximumNArgs(n)
	return func(cmd *cobra.Command, args []string) error {
		if err := check(cmd, args); err != nil {
			return newUsageError(err)
		}
		return nil
	}
}

func (o *options) initLogging() error {
	if o.logLevel == "" {
		return logging.InitializeFromEnv()
	}
	if err := logging.Initialize(o.logLevel); err != nil {
		return newUsageError(err)
	}
	return nil
}

// parseUpdate validates the command line before anything else happens.
func (o *options) parseUpdate(cmd *cobra.Command, args []string) (thermostat.Update, error) {
	var update thermostat.Update

	if cmd.Flags().Changed("mode") {
		mode, err := thermostat.ValidateMode(o.mode)
		if err != nil {
			return update, newUsageError(err)
		}
		update.HVACMode = &mode
	}

	if len(args) == 1 {
		tempF, err := thermostat.ParseTemperature(args[0])
		if err != nil {
			return update, newUsageError(err)
		}
		update.TargetTemperatureF = &tempF
	}

	if o.timeout <= 0 {
		return update, newUsageError(fmt.Errorf("invalid --timeout %s: must be positive", o.timeout))
	}
	return update, nil
}

func (o *options) run(cmd *cobra.Command, args []string) error {
	update, err := o.parseUpdate(cmd, args)
	if err != nil {
		return err
	}

	cfg, path, err := config.Resolve(o.configPath)
	if err != nil {
		return err
	}
	logging.Debug("Loaded config",
		zap.String("path", path),
		zap.String("device", cfg.Device),
		zap.String("base_url", cfg.BaseURL),
	)

	client, err := thermostat.NewClient(cfg.Device, cfg.Token,
		thermostat.WithBaseURL(cfg.BaseURL),
		thermostat.WithTimeout(o.timeout),
		thermostat.WithUserAgent(version.UserAgent()),
	)
	if err != nil {
		return &config.Error{Path: path, Reason: err.Error(), Err: err}
	}

	var tempF float64
	err = ui.RunSpinner(cmd.Context(), o.stderr, progressLabel(update), !o.quiet, func(ctx context.Context) error {
		var err error
		tempF, err = client.Apply(ctx, update)
		return err
	})
	if err != nil {
		return err
	}

	logging.Info("Thermostat updated",
		zap.String("device", cfg.Device),
		zap.String("update", update.String()),
		zap.Float64("target_temperature_f", tempF),
	)
	_, err = fmt.Fprintln(o.stdout, thermostat.FormatTemperature(tempF))
	return err
}

func progressLabel(u thermostat.Update) string {
	if u.IsEmpty() {
		return "Reading thermostat..."
	}
	return "Updating thermostat (" + u.String() + ")..."
}

// run executes the command and maps the outcome to an exit code. Errors are
// reported on stderr; stdout only ever receives the temperature.
func run(ctx context.Context, args []string, stdout, stderr io.Writer) int {
	defer logging.Sync()

	printer := ui.NewPrinter(stderr)

	cmd := newRootCmd(stdout, stderr)
	cmd.SetArgs(args)

	err := cmd.ExecuteContext(ctx)
	if err == nil {
		return exitOK
	}

	var uerr *usageError
	if errors.As(err, &uerr) {
		printer.PrintUsageError(usageMessage(uerr.err), cmd.UsageString())
		return exitUsage
	}

	printer.PrintError(errorTitle(err), err, troubleshooting(err))
	return exitFailure
}

// usageMessage strips the type prefix from validation errors so the user
// sees the bare message, e.g. "80 is too crazy!".
func usageMessage(err error) error {
	var terr *thermostat.Error
	if errors.As(err, &terr) && terr.Type == thermostat.ErrTypeValidation {
		return errors.New(terr.Message)
	}
	return err
}

func errorTitle(err error) string {
	switch {
	case config.IsConfigError(err):
		return "Configuration error"
	case thermostat.IsRateLimitError(err):
		return "Rate limited"
	case thermostat.IsRedirectLimitError(err):
		return "Too many redirects"
	case thermostat.IsLookupError(err):
		return "Thermostat not found"
	case thermostat.IsAuthError(err):
		return "Authentication failed"
	case errors.Is(err, context.Canceled):
		return "Interrupted"
	default:
		return "Thermostat request failed"
	}
}

func troubleshooting(err error) []string {
	var cerr *config.Error
	if errors.As(err, &cerr) {
		hints := []string{"Copy config.example.json to one of:"}
		for _, p := range config.Candidates("") {
			hints = append(hints, "  "+p)
		}
		return hints
	}
	return thermostat.GetTroubleshootingHint(err)
}
