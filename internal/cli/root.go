package cli

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/mvp-joe/docstrings/internal/config"
	"github.com/mvp-joe/docstrings/internal/logging"
	"github.com/mvp-joe/docstrings/internal/output"
)

var (
	cfgFile    string
	verbose    bool
	formatFlag string
)

// rootCmd represents the base command when called without any subcommands
var rootCmd = &cobra.Command{
	Use:   "docstrings",
	Short: "Extract structured documentation from Python source",
	Long: `docstrings parses Python source and prints a tree of its modules, classes
and functions with their docstrings, parsed into short and long descriptions,
parameters, attributes and return values, plus a reconstructed call signature
for every function.

Configuration is read from .docstrings/config.yml in the project root and
can be overridden with DOCSTRINGS_* environment variables.`,
	SilenceUsage:  true,
	SilenceErrors: true,
}

// Execute adds all child commands to the root command and sets flags appropriately.
// This is called by main.main(). It only needs to happen once to the rootCmd.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func init() {
	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "config file (default is <root>/.docstrings/config.yml)")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "verbose output")
	rootCmd.PersistentFlags().StringVarP(&formatFlag, "format", "f", "", "output format: json or yaml (overrides config)")
}

// loadConfig loads configuration for rootDir, applies flag overrides and
// installs the logger.
func loadConfig(rootDir string) (*config.Config, error) {
	var opts []config.LoaderOption
	if cfgFile != "" {
		opts = append(opts, config.WithConfigFile(cfgFile))
	}

	cfg, err := config.NewLoader(rootDir, opts...).Load()
	if err != nil {
		return nil, fmt.Errorf("failed to load configuration: %w", err)
	}

	if formatFlag != "" {
		format, err := output.ParseFormat(formatFlag)
		if err != nil {
			return nil, err
		}
		cfg.Output.Format = format.String()
	}

	if err := setupLogging(cfg); err != nil {
		return nil, err
	}
	if cfgFile != "" {
		slog.Debug("using config file", "path", cfgFile)
	}
	return cfg, nil
}

// setupLogging sends logs to stderr so stdout carries only rendered output.
func setupLogging(cfg *config.Config) error {
	level, err := logging.ParseLevel(cfg.Log.Level)
	if err != nil {
		return err
	}
	if verbose {
		level = slog.LevelDebug
	}

	logging.Setup(os.Stderr, logging.Options{
		Level:     level,
		NoColor:   os.Getenv("NO_COLOR") != "",
		AddSource: verbose,
	})
	return nil
}

// newFormatter builds the output formatter from configuration.
func newFormatter(cfg *config.Config) (output.Formatter, error) {
	format, err := output.ParseFormat(cfg.Output.Format)
	if err != nil {
		return nil, err
	}
	return output.NewFormatter(format, cfg.Output.Indent)
}

// signalContext returns a context cancelled on Ctrl+C or SIGTERM.
func signalContext(parent context.Context) (context.Context, context.CancelFunc) {
	ctx, cancel := context.WithCancel(parent)

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, os.Interrupt, syscall.SIGTERM)
	go func() {
		defer signal.Stop(sigChan)
		select {
		case <-sigChan:
			slog.Info("interrupted, shutting down")
			cancel()
		case <-ctx.Done():
		}
	}()

	return ctx, cancel
}
