package main

import (
	"github.com/spf13/cobra"

	"picsort/internal/config"
)

// sortingFlags are the per-invocation overrides shared by scan and sort.
// Values not set on the command line keep their configured defaults, and
// overrides pass through the same validation as the config file.
type sortingFlags struct {
	destRoot  string
	groupBy   string
	hierarchy string
	splitKind bool
	operation string
	policy    string
	hashSkip  bool
	workers   int
}

func (f *sortingFlags) register(cmd *cobra.Command) {
	flags := cmd.Flags()
	flags.StringVar(&f.destRoot, "dest", "", "Destination library root")
	flags.StringVar(&f.groupBy, "group-by", "", "Group segment: camera or lens")
	flags.StringVar(&f.hierarchy, "hierarchy", "", "Folder order: device-first or date-first")
	flags.BoolVar(&f.splitKind, "split-kind", false, "Add a raw/jpg/other segment under each date folder")
}

func (f *sortingFlags) registerExecution(cmd *cobra.Command) {
	flags := cmd.Flags()
	flags.StringVar(&f.operation, "operation", "", "File operation: copy or move")
	flags.StringVar(&f.policy, "policy", "", "Duplicate-name policy: rename, skip, or ask")
	flags.BoolVar(&f.hashSkip, "hash-skip", false, "Skip files whose content already exists at the destination")
	flags.IntVar(&f.workers, "workers", 0, "Worker count for extraction and transfer")
}

func (f *sortingFlags) apply(cmd *cobra.Command, cfg *config.Config) error {
	set := cmd.Flags().Changed
	if set("dest") {
		expanded, err := config.ExpandPath(f.destRoot)
		if err != nil {
			return err
		}
		cfg.Paths.DestRoot = expanded
	}
	if set("group-by") {
		cfg.Sorting.GroupBy = f.groupBy
	}
	if set("hierarchy") {
		cfg.Sorting.Hierarchy = f.hierarchy
	}
	if set("split-kind") {
		cfg.Sorting.SplitKind = f.splitKind
	}
	if set("operation") {
		cfg.Sorting.Operation = f.operation
	}
	if set("policy") {
		cfg.Sorting.Policy = f.policy
	}
	if set("hash-skip") {
		cfg.Sorting.HashSkip = f.hashSkip
	}
	if set("workers") {
		cfg.Sorting.Workers = f.workers
	}
	return cfg.Validate()
}
