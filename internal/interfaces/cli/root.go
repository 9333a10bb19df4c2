// Package cli implements the clausematch command-line interface.  Every
// subcommand talks to a running API server through pkg/client; the CLI
// itself carries no retrieval logic and needs no backing-store access.
package cli

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"time"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"github.com/turtacn/ClauseMatch/pkg/client"
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
	ServerAddr   string
	APIKey       string
	OutputFormat string
	Timeout      time.Duration
	Verbose      bool
	NoColor      bool
}

// CLIContext carries the initialized API client through the command tree.
type CLIContext struct {
	Client       *client.Client
	OutputFormat string
	Verbose      bool
	NoColor      bool
}

// NewRootCommand creates the root cobra command with all global flags and
// subcommands attached.
func NewRootCommand() *cobra.Command {
	opts := &RootOptions{}

	cmd := &cobra.Command{
		Use:   "clausematch",
		Short: "ClauseMatch CLI — hybrid retrieval over Korean standard-contract corpora",
		Long: "ClauseMatch indexes standard subcontract documents as article- and clause-level\n" +
			"chunks and answers hybrid (dense + BM25) search and article-coverage matching\n" +
			"queries against them.  All commands talk to a running ClauseMatch API server.",
		Version: fmt.Sprintf("%s (commit: %s, built: %s)", Version, GitCommit, BuildDate),
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return persistentPreRun(cmd, opts)
		},
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	pf := cmd.PersistentFlags()
	pf.StringVarP(&opts.ServerAddr, "server", "s", "", "API server address (default: $CLAUSEMATCH_SERVER or http://localhost:8080)")
	pf.StringVar(&opts.APIKey, "api-key", "", "bearer token for an authenticating gateway (default: $CLAUSEMATCH_API_KEY)")
	pf.StringVarP(&opts.OutputFormat, "output", "o", "text", "output format (text, json)")
	pf.DurationVar(&opts.Timeout, "timeout", 60*time.Second, "per-request timeout")
	pf.BoolVarP(&opts.Verbose, "verbose", "v", false, "enable verbose output")
	pf.BoolVar(&opts.NoColor, "no-color", false, "disable colored output")

	cmd.AddCommand(
		newSearchCmd(),
		newMatchCmd(),
		newIngestCmd(),
		newCorpusCmd(),
		newStatusCmd(),
	)

	return cmd
}

// persistentPreRun builds the API client and stores the CLIContext.
func persistentPreRun(cmd *cobra.Command, opts *RootOptions) error {
	if opts.NoColor {
		color.NoColor = true
	}

	addr := opts.ServerAddr
	if addr == "" {
		addr = os.Getenv("CLAUSEMATCH_SERVER")
	}
	if addr == "" {
		addr = "http://localhost:8080"
	}

	apiKey := opts.APIKey
	if apiKey == "" {
		apiKey = os.Getenv("CLAUSEMATCH_API_KEY")
	}

	clientOpts := []client.Option{client.WithTimeout(opts.Timeout)}
	if apiKey != "" {
		clientOpts = append(clientOpts, client.WithAPIKey(apiKey))
	}

	apiClient, err := client.NewClient(addr, clientOpts...)
	if err != nil {
		return fmt.Errorf("client initialization failed: %w", err)
	}

	cliCtx := &CLIContext{
		Client:       apiClient,
		OutputFormat: opts.OutputFormat,
		Verbose:      opts.Verbose,
		NoColor:      opts.NoColor,
	}

	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}
	cmd.SetContext(context.WithValue(ctx, cliContextKey{}, cliCtx))

	return nil
}

// GetCLIContext extracts the CLIContext from a cobra command's context.
func GetCLIContext(cmd *cobra.Command) (*CLIContext, error) {
	ctx := cmd.Context()
	if ctx == nil {
		return nil, fmt.Errorf("command context is nil")
	}

	cliCtx, ok := ctx.Value(cliContextKey{}).(*CLIContext)
	if !ok || cliCtx == nil {
		return nil, fmt.Errorf("CLI context not initialized")
	}

	return cliCtx, nil
}

// Execute is the main entry point for the CLI application.
func Execute() error {
	rootCmd := NewRootCommand()

	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(rootCmd.ErrOrStderr(), "Error: %s\n", err.Error())
		return err
	}

	return nil
}

// printJSON writes data as indented JSON to the command's stdout.
func printJSON(cmd *cobra.Command, data interface{}) error {
	enc := json.NewEncoder(cmd.OutOrStdout())
	enc.SetIndent("", "  ")
	return enc.Encode(data)
}

// truncateString shortens s to at most max runes, appending "..." when cut.
// Korean titles are rune-counted so the tables stay aligned-ish.
func truncateString(s string, max int) string {
	runes := []rune(s)
	if len(runes) <= max {
		return s
	}
	if max <= 3 {
		return string(runes[:max])
	}
	return string(runes[:max-3]) + "..."
}

// colorizeScore renders a combined score with a coverage-level color.
func colorizeScore(score float64) string {
	s := fmt.Sprintf("%.4f", score)
	switch {
	case score >= 0.8:
		return color.GreenString(s)
	case score >= 0.5:
		return color.YellowString(s)
	default:
		return s
	}
}

//Personal.AI order the ending
