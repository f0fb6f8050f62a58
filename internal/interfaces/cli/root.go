// Package cli implements the themedash command-line client.
package cli

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/turtacn/themedash/internal/app"
	"github.com/turtacn/themedash/internal/config"
	"github.com/turtacn/themedash/internal/domain/strengths"
	"github.com/turtacn/themedash/internal/infrastructure/monitoring/logging"
	"github.com/turtacn/themedash/pkg/errors"
)

// Build-time variables injected via ldflags.
var (
	Version   = "dev"
	GitCommit = "unknown"
	BuildDate = "unknown"
)

// cliContextKey is the context key for CLIContext.
type cliContextKey struct{}

// RootOptions holds global CLI flags.
type RootOptions struct {
	ConfigPath   string
	LogLevel     string
	OutputFormat string
}

// CLIContext carries initialized dependencies through the command tree.
type CLIContext struct {
	Config       *config.Config
	Logger       logging.Logger
	App          *app.App
	OutputFormat string
}

// AppFactory assembles the application from configuration.
type AppFactory func(cfg *config.Config, logger logging.Logger) (*app.App, error)

// NewRootCommand creates the root command with all global flags and
// subcommands.
func NewRootCommand() *cobra.Command {
	return newRootCommand(app.New)
}

func newRootCommand(factory AppFactory) *cobra.Command {
	opts := &RootOptions{}

	cmd := &cobra.Command{
		Use:   "themedash",
		Short: "themedash builds dashboard charts from tabular data",
		Long: "themedash loads the data sets declared in the configuration and builds\n" +
			"line charts and CliftonStrengths starburst charts from them.",
		Version: fmt.Sprintf("%s (commit: %s, built: %s)", Version, GitCommit, BuildDate),
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return persistentPreRun(cmd, opts, factory)
		},
		PersistentPostRunE: func(cmd *cobra.Command, args []string) error {
			if cliCtx, err := GetCLIContext(cmd); err == nil && cliCtx.App != nil {
				return cliCtx.App.Close()
			}
			return nil
		},
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	pf := cmd.PersistentFlags()
	pf.StringVarP(&opts.ConfigPath, "config", "c", "", "config file path (default: environment only)")
	pf.StringVar(&opts.LogLevel, "log-level", "", "log level override (debug, info, warn, error)")
	pf.StringVarP(&opts.OutputFormat, "output", "o", "text", "output format (text, json, table)")

	cmd.AddCommand(
		newListCmd(),
		newCountsCmd(),
		newFigureCmd(),
		newRenderCmd(),
		newVersionCmd(),
	)
	return cmd
}

// persistentPreRun loads config, builds the logger and the app, then stores
// the CLIContext.
func persistentPreRun(cmd *cobra.Command, opts *RootOptions, factory AppFactory) error {
	switch strings.ToLower(opts.OutputFormat) {
	case "text", "json", "table":
	default:
		return errors.InvalidParam("unknown output format").WithDetailf("output=%q", opts.OutputFormat)
	}

	cfg, err := config.LoadOrEnv(opts.ConfigPath)
	if err != nil {
		return fmt.Errorf("config initialization failed: %w", err)
	}
	if opts.LogLevel != "" {
		cfg.Log.Level = opts.LogLevel
	}

	// CLI logs go to stderr so stdout stays parseable.
	logger, err := app.NewLogger(config.LogConfig{
		Level:       cfg.Log.Level,
		Format:      "console",
		OutputPaths: []string{"stderr"},
	})
	if err != nil {
		return fmt.Errorf("logger initialization failed: %w", err)
	}

	a, err := factory(cfg, logger)
	if err != nil {
		return fmt.Errorf("application initialization failed: %w", err)
	}

	cliCtx := &CLIContext{
		Config:       cfg,
		Logger:       logger,
		App:          a,
		OutputFormat: strings.ToLower(opts.OutputFormat),
	}
	cmd.SetContext(context.WithValue(cmd.Context(), cliContextKey{}, cliCtx))
	return nil
}

// GetCLIContext extracts CLIContext from a cobra command's context.
func GetCLIContext(cmd *cobra.Command) (*CLIContext, error) {
	ctx := cmd.Context()
	if ctx == nil {
		return nil, errors.New(errors.ErrCodeValidation, "command context is nil")
	}
	cliCtx, ok := ctx.Value(cliContextKey{}).(*CLIContext)
	if !ok || cliCtx == nil {
		return nil, errors.New(errors.ErrCodeValidation, "CLIContext not found in command context")
	}
	return cliCtx, nil
}

// Execute is the main entry point for the CLI application.
func Execute() error {
	rootCmd := NewRootCommand()
	if err := rootCmd.Execute(); err != nil {
		PrintError(rootCmd, err)
		return err
	}
	return nil
}

// PrintResult outputs data in the format specified by CLIContext.
func PrintResult(cmd *cobra.Command, data interface{}) error {
	cliCtx, err := GetCLIContext(cmd)
	if err != nil {
		return printJSON(cmd, data)
	}

	switch cliCtx.OutputFormat {
	case "json":
		return printJSON(cmd, data)
	case "table":
		return printTable(cmd, data)
	default:
		return printText(cmd, data)
	}
}

func printJSON(cmd *cobra.Command, data interface{}) error {
	enc := json.NewEncoder(cmd.OutOrStdout())
	enc.SetIndent("", "  ")
	return enc.Encode(data)
}

func printText(cmd *cobra.Command, data interface{}) error {
	switch v := data.(type) {
	case string:
		fmt.Fprintln(cmd.OutOrStdout(), v)
	case fmt.Stringer:
		fmt.Fprint(cmd.OutOrStdout(), v.String())
	default:
		fmt.Fprintf(cmd.OutOrStdout(), "%+v\n", v)
	}
	return nil
}

// tableProvider is implemented by results that can be shown as a table.
type tableProvider interface {
	TableHeaders() []string
	TableRows() [][]string
}

func printTable(cmd *cobra.Command, data interface{}) error {
	if tp, ok := data.(tableProvider); ok {
		fmt.Fprint(cmd.OutOrStdout(), FormatTable(tp.TableHeaders(), tp.TableRows()))
		return nil
	}
	return printText(cmd, data)
}

// PrintError writes a formatted error message to stderr.
func PrintError(cmd *cobra.Command, err error) {
	if err == nil {
		return
	}
	fmt.Fprintf(cmd.ErrOrStderr(), "Error: %s\n", err.Error())
	if strengths.IsUnmappedTheme(err) {
		fmt.Fprintln(cmd.ErrOrStderr(), "Hint: every theme in the data must be a CliftonStrengths theme; check the spelling in the source.")
	}
}

// PrintSuccess writes a formatted success message to stdout.
func PrintSuccess(cmd *cobra.Command, msg string) {
	fmt.Fprintf(cmd.OutOrStdout(), "OK: %s\n", msg)
}

// FormatTable renders headers and rows as an aligned ASCII table.
func FormatTable(headers []string, rows [][]string) string {
	if len(headers) == 0 {
		return ""
	}

	colWidths := make([]int, len(headers))
	for i, h := range headers {
		colWidths[i] = len(h)
	}
	for _, row := range rows {
		for i := 0; i < len(row) && i < len(colWidths); i++ {
			if len(row[i]) > colWidths[i] {
				colWidths[i] = len(row[i])
			}
		}
	}

	var sb strings.Builder
	writeRow := func(cells []string) {
		for i := range headers {
			if i > 0 {
				sb.WriteString("  ")
			}
			val := ""
			if i < len(cells) {
				val = cells[i]
			}
			sb.WriteString(padRight(val, colWidths[i]))
		}
		sb.WriteString("\n")
	}

	writeRow(headers)
	sep := make([]string, len(colWidths))
	for i, w := range colWidths {
		sep[i] = strings.Repeat("-", w)
	}
	writeRow(sep)
	for _, row := range rows {
		writeRow(row)
	}
	return sb.String()
}

// padRight pads s with spaces to the given width.
func padRight(s string, width int) string {
	if len(s) >= width {
		return s
	}
	return s + strings.Repeat(" ", width-len(s))
}
