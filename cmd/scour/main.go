// Command scour is the batch front end to the cleaning pipeline: autopilot
// runs, column profiling and format conversion without a running server.
package main

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"scour/adapters/dataio"
	"scour/domain/journal"
	"scour/domain/table"
	"scour/internal/autopilot"
	"scour/internal/describe"

	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"
)

func main() {
	rootCmd := &cobra.Command{
		Use:   "scour",
		Short: "Tabular data cleaning: autopilot runs, profiling and conversion",
	}

	rootCmd.AddCommand(
		newCleanCmd(),
		newProfileCmd(),
		newConvertCmd(),
	)

	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func newCleanCmd() *cobra.Command {
	var output string
	var format string
	var journalPath string
	var concurrency int

	cmd := &cobra.Command{
		Use:   "clean [files...]",
		Short: "Run the rule-based cleaning sequence on one or more files",
		Long: `Run the full cleaning sequence (duplicates, missing values, outliers,
encoding, scaling) on each input file and write the cleaned table next to it
as <name>.clean.<ext>, or to --output when a single file is given.

Example: scour clean data.csv --output cleaned.csv --journal report.md`,
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if output != "" && len(args) > 1 {
				return fmt.Errorf("--output only applies to a single input file")
			}
			g, _ := errgroup.WithContext(cmd.Context())
			g.SetLimit(concurrency)
			for _, path := range args {
				g.Go(func() error {
					return cleanFile(path, output, format, journalPath)
				})
			}
			return g.Wait()
		},
	}

	cmd.Flags().StringVarP(&output, "output", "o", "", "Output path (single input only)")
	cmd.Flags().StringVar(&format, "format", "", "Output format: csv|xlsx|json|xml (default: same as input)")
	cmd.Flags().StringVar(&journalPath, "journal", "", "Write the markdown cleaning report to this path")
	cmd.Flags().IntVar(&concurrency, "concurrency", 4, "Files cleaned in parallel")

	return cmd
}

func cleanFile(path, output, format, journalPath string) error {
	t, inFormat, err := readFile(path)
	if err != nil {
		return err
	}

	result := autopilot.Run(t)
	for _, skip := range result.Skipped {
		fmt.Fprintf(os.Stderr, "skipped %s (%s): %s\n", skip.Column, skip.Phase, skip.Reason)
	}

	outFormat := inFormat
	if format != "" {
		outFormat = dataio.Format(format)
	}
	if output == "" {
		output = cleanedPath(path, outFormat)
	}
	if err := writeFile(output, result.Table, outFormat); err != nil {
		return err
	}
	fmt.Printf("%s: %d rows, %d columns -> %s (%d steps)\n",
		path, result.Table.RowCount(), result.Table.ColumnCount(), output, len(result.Entries))

	if journalPath != "" {
		report := journal.FromEntries(result.Entries).Markdown()
		if err := os.WriteFile(journalPath, []byte(report), 0o644); err != nil {
			return fmt.Errorf("write journal %s: %w", journalPath, err)
		}
	}
	return nil
}

func newProfileCmd() *cobra.Command {
	var asJSON bool

	cmd := &cobra.Command{
		Use:   "profile [file]",
		Short: "Print per-column types, null rates and numeric statistics",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			t, _, err := readFile(args[0])
			if err != nil {
				return err
			}
			columns := t.Profile()

			if asJSON {
				type profiled struct {
					table.Column
					Stats *describe.ColumnStats `json:"stats,omitempty"`
				}
				out := make([]profiled, 0, len(columns))
				for _, c := range columns {
					cs, err := describe.Column(t, c.Name)
					if err != nil {
						return err
					}
					out = append(out, profiled{Column: c, Stats: cs})
				}
				enc := json.NewEncoder(os.Stdout)
				enc.SetIndent("", "  ")
				return enc.Encode(out)
			}

			fmt.Printf("%d rows, %d columns\n\n", t.RowCount(), t.ColumnCount())
			for _, c := range columns {
				fmt.Printf("%-24s %-12s null %5.1f%%  unique %d\n",
					c.Name, c.Type, c.NullPercentage, c.UniqueCount)
				cs, err := describe.Column(t, c.Name)
				if err != nil {
					return err
				}
				if cs != nil {
					fmt.Printf("%24s mean=%.2f median=%.2f std=%.2f q1=%.2f q3=%.2f skew=%.2f\n",
						"", cs.Mean, cs.Median, cs.Std, cs.Q1, cs.Q3, cs.Skewness)
				}
			}
			return nil
		},
	}

	cmd.Flags().BoolVar(&asJSON, "json", false, "Emit the profile as JSON")

	return cmd
}

func newConvertCmd() *cobra.Command {
	var output string

	cmd := &cobra.Command{
		Use:   "convert [file]",
		Short: "Convert a table between csv, xlsx, json and xml",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if output == "" {
				return fmt.Errorf("--output is required")
			}
			t, _, err := readFile(args[0])
			if err != nil {
				return err
			}
			outFormat, err := dataio.DetectFormat(output)
			if err != nil {
				return err
			}
			return writeFile(output, t, outFormat)
		},
	}

	cmd.Flags().StringVarP(&output, "output", "o", "", "Output path; its extension selects the format")

	return cmd
}

func readFile(path string) (*table.Table, dataio.Format, error) {
	format, err := dataio.DetectFormat(path)
	if err != nil {
		return nil, "", err
	}
	f, err := os.Open(path)
	if err != nil {
		return nil, "", err
	}
	defer f.Close()
	t, err := dataio.Read(f, format)
	if err != nil {
		return nil, "", fmt.Errorf("read %s: %w", path, err)
	}
	return t, format, nil
}

func writeFile(path string, t *table.Table, format dataio.Format) error {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	defer f.Close()
	if err := dataio.Write(f, t, format); err != nil {
		return fmt.Errorf("write %s: %w", path, err)
	}
	return nil
}

func cleanedPath(path string, format dataio.Format) string {
	ext := filepath.Ext(path)
	base := strings.TrimSuffix(path, ext)
	return fmt.Sprintf("%s.clean.%s", base, format)
}
