package cli

import (
	"fmt"
	"io"
	"os"
	"strings"
	"text/tabwriter"
	"time"

	"softwise/internal/domain"
	"softwise/internal/importer"
	"softwise/internal/seed"

	"github.com/spf13/cobra"
)

// NewSeedCommand creates the seed command.
func NewSeedCommand(rootOpts *RootOptions) *cobra.Command {
	var file string
	cmd := &cobra.Command{
		Use:   "seed",
		Short: "Create the sample portfolio",
		Long: `Create projects from a YAML seed document.

Without --file the portfolio bundled with the binary is used. Slugs that
already exist are skipped, so the command can be run repeatedly.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			projects, err := loadSeed(file)
			if err != nil {
				return err
			}

			catalog, err := rootOpts.open(cmd.Context(), cmd)
			if err != nil {
				return err
			}
			defer catalog.Close()

			sum, err := seed.Apply(cmd.Context(), catalog.Projects, projects, rootOpts.logger(cmd))
			if err != nil {
				return err
			}
			return rootOpts.emit(cmd, sum, func(w io.Writer) error {
				_, err := fmt.Fprintf(w, "Seeded %d projects (%d skipped)\n", sum.Created, sum.Skipped)
				return err
			})
		},
	}
	cmd.Flags().StringVarP(&file, "file", "f", "", "YAML seed document")
	return cmd
}

func loadSeed(path string) ([]domain.CreateProjectInput, error) {
	if path == "" {
		return seed.Default()
	}
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open seed: %w", err)
	}
	defer f.Close()
	return seed.Parse(f)
}

// NewImportCommand creates the import command.
func NewImportCommand(rootOpts *RootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "import <file.csv>",
		Short: "Upsert projects from a CSV file",
		Long: `Upsert projects from a CSV file keyed by slug.

Columns: slug, title, description, imageUrl, tags, category, link, featured.
Tags are separated by "|". Rows without a slug add tags to the previous project.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			f, err := os.Open(args[0])
			if err != nil {
				return fmt.Errorf("open file: %w", err)
			}
			defer f.Close()

			catalog, err := rootOpts.open(cmd.Context(), cmd)
			if err != nil {
				return err
			}
			defer catalog.Close()

			start := time.Now()
			sum, err := importer.NewCSVImporter(f, catalog.Projects).Run(cmd.Context())
			if err != nil {
				return fmt.Errorf("import failed: %w", err)
			}
			return rootOpts.emit(cmd, sum, func(w io.Writer) error {
				_, err := fmt.Fprintf(w, "Imported %d projects (%d created, %d updated) in %s\n",
					sum.Total(), sum.Created, sum.Updated, time.Since(start).Truncate(time.Millisecond))
				return err
			})
		},
	}
}

// NewListCommand creates the list command.
func NewListCommand(rootOpts *RootOptions) *cobra.Command {
	var q domain.ProjectQuery
	cmd := &cobra.Command{
		Use:   "list",
		Short: "List stored projects, newest first",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			catalog, err := rootOpts.open(cmd.Context(), cmd)
			if err != nil {
				return err
			}
			defer catalog.Close()

			res, err := catalog.Projects.GetAll(cmd.Context(), q)
			if err != nil {
				return err
			}
			page, failure := res.Get()
			if failure != nil {
				return failure
			}
			return rootOpts.emit(cmd, page, func(w io.Writer) error {
				return writeTable(w, page)
			})
		},
	}
	cmd.Flags().StringVar(&q.Page, "page", "", "page number (default 1)")
	cmd.Flags().StringVar(&q.Limit, "limit", "", "page size (default 10)")
	cmd.Flags().StringVar(&q.Search, "search", "", "match title or description")
	cmd.Flags().StringVar(&q.Category, "category", "", "exact category")
	cmd.Flags().StringVar(&q.Featured, "featured", "", "only featured projects when \"true\"")
	return cmd
}

func writeTable(w io.Writer, page domain.ProjectPage) error {
	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
	fmt.Fprintln(tw, "SLUG\tTITLE\tCATEGORY\tFEATURED\tTAGS")
	for _, p := range page.Data {
		fmt.Fprintf(tw, "%s\t%s\t%s\t%t\t%s\n", p.Slug, p.Title, p.Category, p.Featured, strings.Join(p.Tags, ", "))
	}
	pg := page.Pagination
	fmt.Fprintf(tw, "\npage %d/%d, %d total\n", pg.Page, pg.TotalPages, pg.Total)
	return tw.Flush()
}
