package cli

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log"
	"slices"

	"softwise/internal/app"
	"softwise/internal/config"

	"github.com/spf13/cobra"
)

// RootOptions holds global flags for all commands.
type RootOptions struct {
	EnvFile string
	Verbose bool
	Format  string // "json" | "text"
}

// ValidFormats defines the allowed output formats.
var ValidFormats = []string{"text", "json"}

// NewRootCommand creates the root command for catalogctl.
func NewRootCommand() *cobra.Command {
	opts := &RootOptions{}

	cmd := &cobra.Command{
		Use:   "catalogctl",
		Short: "Manage the Softwise project catalog",
		Long:  "Operator tooling for the Softwise portfolio: seed the catalog, import projects from CSV and list what is stored.",
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			if !slices.Contains(ValidFormats, opts.Format) {
				return fmt.Errorf("invalid format %q: must be one of %v", opts.Format, ValidFormats)
			}
			return nil
		},
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	cmd.PersistentFlags().StringVar(&opts.EnvFile, "env-file", "", "dotenv file to load before reading the environment")
	cmd.PersistentFlags().BoolVarP(&opts.Verbose, "verbose", "v", false, "verbose output")
	cmd.PersistentFlags().StringVar(&opts.Format, "format", "text", "output format (json|text)")

	cmd.AddCommand(NewSeedCommand(opts))
	cmd.AddCommand(NewImportCommand(opts))
	cmd.AddCommand(NewListCommand(opts))

	return cmd
}

// logger writes to stderr in verbose mode and is silent otherwise.
func (o *RootOptions) logger(cmd *cobra.Command) *log.Logger {
	w := io.Discard
	if o.Verbose {
		w = cmd.ErrOrStderr()
	}
	return log.New(w, "[catalogctl] ", log.LstdFlags|log.LUTC|log.Lshortfile)
}

// open loads configuration and wires the catalog. The caller closes it.
func (o *RootOptions) open(ctx context.Context, cmd *cobra.Command) (*app.App, error) {
	var files []string
	if o.EnvFile != "" {
		files = append(files, o.EnvFile)
	}
	cfg, err := config.Load(files...)
	if err != nil {
		return nil, fmt.Errorf("load config: %w", err)
	}
	return app.Build(ctx, cfg, o.logger(cmd))
}

// emit writes v as indented JSON or falls back to the text renderer.
func (o *RootOptions) emit(cmd *cobra.Command, v any, text func(io.Writer) error) error {
	if o.Format == "json" {
		enc := json.NewEncoder(cmd.OutOrStdout())
		enc.SetIndent("", "  ")
		return enc.Encode(v)
	}
	return text(cmd.OutOrStdout())
}
