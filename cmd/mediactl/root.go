package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"github.com/mediacloud/go-mediacloud/core"
	"github.com/mediacloud/go-mediacloud/rest"
)

const (
	outputTable = "table"
	outputJSON  = "json"
)

var (
	configPath string
	output     string
	verbose    bool
)

var rootCmd = &cobra.Command{
	Use:   "mediactl",
	Short: "Upload and manage assets in a media cloud account",
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		if output != outputTable && output != outputJSON {
			return fmt.Errorf("unsupported output %q (want %s or %s)", output, outputTable, outputJSON)
		}
		if verbose {
			core.SetLogger(newVerboseLogger(cmd.ErrOrStderr()))
		}
		return nil
	},
}

// Execute runs the root command and exits non-zero on failure.
func Execute() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()
	if err := rootCmd.ExecuteContext(ctx); err != nil {
		if errors.Is(err, context.Canceled) {
			os.Exit(130)
		}
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func init() {
	rootCmd.SilenceUsage = true
	rootCmd.SilenceErrors = true
	rootCmd.CompletionOptions.HiddenDefaultCmd = true

	rootCmd.PersistentFlags().StringVarP(&configPath, "config", "c", "", "YAML config file (default: $"+core.EnvConfigURL+")")
	rootCmd.PersistentFlags().StringVarP(&output, "output", "o", outputTable, "output format: table or json")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "log requests and responses to stderr")

	rootCmd.AddCommand(pingCmd)
	rootCmd.AddCommand(usageCmd)
	rootCmd.AddCommand(uploadCmd)
	rootCmd.AddCommand(resourceCmd)
	rootCmd.AddCommand(resourcesCmd)
	rootCmd.AddCommand(signCmd)
	rootCmd.AddCommand(urlCmd)
	rootCmd.AddCommand(versionCmd)
}

func newVerboseLogger(w io.Writer) *zap.Logger {
	encoder := zapcore.NewConsoleEncoder(zap.NewDevelopmentEncoderConfig())
	return zap.New(zapcore.NewCore(encoder, zapcore.AddSync(w), zapcore.DebugLevel))
}

// loadConfig reads --config when given, otherwise MEDIACLOUD_URL.
func loadConfig() (*core.Config, error) {
	if configPath != "" {
		return core.LoadConfigFile(configPath)
	}
	return core.FromEnv()
}

func newClient(cmd *cobra.Command) (*rest.TypedRest, error) {
	config, err := loadConfig()
	if err != nil {
		return nil, err
	}
	config.Context = cmd.Context()
	return rest.NewTypedRest(config)
}

// render writes r in the selected output format.
func render(cmd *cobra.Command, r core.Renderable) error {
	var text string
	if output == outputJSON {
		text = r.PrettyJson("  ")
	} else {
		text = r.PrettyTable()
	}
	_, err := fmt.Fprintln(cmd.OutOrStdout(), text)
	return err
}

// failed turns a server error carried by a result into a command error
// after the result has been shown.
func failed(cmd *cobra.Command, r interface {
	core.Renderable
	Err() error
}) error {
	if err := render(cmd, r); err != nil {
		return err
	}
	return r.Err()
}
