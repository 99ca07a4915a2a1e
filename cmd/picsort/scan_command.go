package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"picsort/internal/config"
	"picsort/internal/metadata"
	"picsort/internal/plan"
	"picsort/internal/scan"
)

func newScanCommand(ctx *commandContext) *cobra.Command {
	var flags sortingFlags

	cmd := &cobra.Command{
		Use:   "scan <source>",
		Short: "Preview how a source directory would be sorted",
		Long: "Scan walks the source directory, reads metadata from every supported " +
			"image file, and shows where each file would land without touching anything.",
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := ctx.ensureConfig()
			if err != nil {
				return err
			}
			logger, err := ctx.ensureLogger()
			if err != nil {
				return err
			}
			if err := flags.apply(cmd, cfg); err != nil {
				return err
			}
			opts := cfg.RunOptions()

			source, err := config.ExpandPath(args[0])
			if err != nil {
				return fmt.Errorf("resolve source path: %w", err)
			}

			paths, err := scan.Images(source, logger)
			if err != nil {
				return err
			}
			out := cmd.OutOrStdout()
			if len(paths) == 0 {
				fmt.Fprintf(out, "No supported image files found under %s\n", source)
				return nil
			}

			resolver := metadata.NewResolver(logger)
			defer resolver.Close()
			records := resolver.ResolveAll(cmd.Context(), paths, opts.MetadataWorkers())
			if err := cmd.Context().Err(); err != nil {
				return err
			}

			p, conflicts := plan.Build(records, opts)
			summary := plan.Summarize(records, p, opts.DestRoot)

			fmt.Fprintln(out, renderCountTable("Scan of "+source, "Overview", [][2]string{
				{"Files", plan.HumanCount(summary.TotalFiles)},
				{"Distinct days", plan.HumanCount(summary.DateCount)},
				{"Destination folders", plan.HumanCount(len(p.Directories()))},
				{"Existing name conflicts", plan.HumanCount(len(conflicts))},
			}))

			fmt.Fprintln(out, renderCountTable("", "Camera", countRows(summary.Cameras, 10)))
			if opts.GroupBy == config.GroupLens {
				fmt.Fprintln(out, renderCountTable("", "Lens", countRows(summary.Lenses, 10)))
			}

			if samples := plan.SamplePaths(p, opts.DestRoot, 10); len(samples) > 0 {
				fmt.Fprintln(out, renderListTable("Sample destination folders", samples))
			}

			if len(conflicts) > 0 {
				rows := make([]string, 0, len(conflicts))
				for i, c := range conflicts {
					if i == 20 {
						rows = append(rows, fmt.Sprintf("... and %d more", len(conflicts)-i))
						break
					}
					rows = append(rows, c.Existing)
				}
				fmt.Fprintln(out, renderListTable("Already present at destination", rows))
			}
			return nil
		},
	}

	flags.register(cmd)
	return cmd
}

func countRows(counts []plan.Count, limit int) [][2]string {
	rows := make([][2]string, 0, len(counts))
	for i, c := range counts {
		if i == limit {
			break
		}
		rows = append(rows, [2]string{c.Key, plan.HumanCount(c.N)})
	}
	return rows
}
