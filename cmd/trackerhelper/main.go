package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/llehouerou/trackerhelper/internal/config"
	"github.com/llehouerou/trackerhelper/internal/errmsg"
	"github.com/llehouerou/trackerhelper/internal/fingerprint"
	"github.com/llehouerou/trackerhelper/internal/library"
	"github.com/llehouerou/trackerhelper/internal/logger"
	"github.com/llehouerou/trackerhelper/internal/plan"
)

// Process exit codes.
const (
	exitOK          = 0
	exitNoInput     = 1 // also any other runtime failure
	exitUsage       = 2
	exitNoFpcalc    = 3
	exitApplyFailed = 4
)

var (
	errApplyFailures = errors.New("some releases could not be moved or deleted")
	errEmptyTable    = errors.New("fingerprint table has no rows")
	errNoRoots       = errors.New("no roots to scan")
)

var (
	configPath string
	logLevel   string
	quiet      bool

	cfg = &config.Config{}
	log = zap.NewNop()
)

var rootCmd = &cobra.Command{
	Use:           "trackerhelper",
	Short:         "Find and remove redundant releases in an audio collection",
	SilenceErrors: true,
	SilenceUsage:  true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		loaded, err := config.Load(configPath)
		if err != nil {
			return usage(fail(errmsg.OpConfigLoad, err))
		}
		cfg = loaded

		lc := cfg.GetLogConfig()
		if cmd.Flags().Changed("log-level") {
			lc.Level = logLevel
		}
		l, err := logger.New(logger.Options{
			Level:      lc.Level,
			File:       lc.File,
			MaxSizeMB:  lc.MaxSizeMB,
			MaxBackups: lc.MaxBackups,
			MaxAgeDays: lc.MaxAgeDays,
			Compress:   lc.Compress,
		})
		if err != nil {
			return usage(fail(errmsg.OpLoggerInit, err))
		}
		log = l
		return nil
	},
}

func init() {
	rootCmd.PersistentFlags().StringVar(&configPath, "config", "", "Config file (default: $XDG_CONFIG_HOME/trackerhelper/config.toml)")
	rootCmd.PersistentFlags().StringVar(&logLevel, "log-level", "", "Log level: debug, info, warn, error")
	rootCmd.PersistentFlags().BoolVarP(&quiet, "quiet", "q", false, "Only print errors")
	rootCmd.SetFlagErrorFunc(func(_ *cobra.Command, err error) error {
		return usage(err)
	})
}

func main() {
	os.Exit(run(os.Args[1:]))
}

func run(args []string) int {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	rootCmd.SetArgs(args)
	err := rootCmd.ExecuteContext(ctx)
	_ = log.Sync()
	if err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
	}
	return exitCode(err)
}

// usageError marks errors caused by how the command was invoked.
type usageError struct{ err error }

func (e usageError) Error() string { return e.err.Error() }
func (e usageError) Unwrap() error { return e.err }

func usage(err error) error {
	if err == nil {
		return nil
	}
	return usageError{err: err}
}

// opError renders as a user-facing "Failed to <op>" message.
type opError struct {
	op  errmsg.Op
	err error
}

func (e opError) Error() string { return errmsg.Format(e.op, e.err) }
func (e opError) Unwrap() error { return e.err }

func fail(op errmsg.Op, err error) error {
	if err == nil {
		return nil
	}
	return opError{op: op, err: err}
}

func exitCode(err error) int {
	var ue usageError
	switch {
	case err == nil:
		return exitOK
	case errors.Is(err, fingerprint.ErrNotInstalled):
		return exitNoFpcalc
	case errors.Is(err, errApplyFailures):
		return exitApplyFailed
	case errors.As(err, &ue),
		errors.Is(err, plan.ErrConflictingModes),
		errors.Is(err, plan.ErrNoMode),
		errors.Is(err, plan.ErrInvalidPlan),
		errors.Is(err, plan.ErrUnsupportedVersion):
		return exitUsage
	case errors.Is(err, library.ErrNoAudioFiles),
		errors.Is(err, library.ErrNoFingerprints),
		errors.Is(err, errEmptyTable):
		return exitNoInput
	}
	return exitNoInput
}
