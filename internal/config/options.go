package config

import "runtime"

// GroupKey selects the metadata field used for the group path segment.
type GroupKey string

const (
	GroupCamera GroupKey = "camera"
	GroupLens   GroupKey = "lens"
)

// Hierarchy selects whether the group segment precedes or follows the date segments.
type Hierarchy string

const (
	DeviceFirst Hierarchy = "device-first"
	DateFirst   Hierarchy = "date-first"
)

// Operation is the file operation performed per planned file.
type Operation string

const (
	OperationCopy Operation = "copy"
	OperationMove Operation = "move"
)

// Policy decides the outcome of a duplicate-name conflict.
type Policy string

const (
	PolicyRename Policy = "rename"
	PolicySkip   Policy = "skip"
	PolicyAsk    Policy = "ask"
)

// RunOptions is the resolved, read-only value object one organize run
// operates under. The core packages consume it and never mutate it.
type RunOptions struct {
	DestRoot  string
	GroupBy   GroupKey
	Hierarchy Hierarchy
	SplitKind bool
	Operation Operation
	Policy    Policy
	HashSkip  bool
	Workers   int
}

// RunOptions derives the run value object from the validated configuration.
func (c *Config) RunOptions() RunOptions {
	return RunOptions{
		DestRoot:  c.Paths.DestRoot,
		GroupBy:   GroupKey(c.Sorting.GroupBy),
		Hierarchy: Hierarchy(c.Sorting.Hierarchy),
		SplitKind: c.Sorting.SplitKind,
		Operation: Operation(c.Sorting.Operation),
		Policy:    Policy(c.Sorting.Policy),
		HashSkip:  c.Sorting.HashSkip,
		Workers:   c.Sorting.Workers,
	}
}

// MetadataWorkers is the worker count for the extraction phase: the
// configured value capped by available parallelism, at least 1.
func (o RunOptions) MetadataWorkers() int {
	workers := o.Workers
	if workers < 1 {
		workers = 1
	}
	if cpus := runtime.GOMAXPROCS(0); workers > cpus {
		workers = cpus
	}
	return workers
}

// ExecutionWorkers is the worker count for the execution phase. The ask
// policy prompts synchronously and therefore forces a single worker no
// matter what is configured.
func (o RunOptions) ExecutionWorkers() int {
	if o.Policy == PolicyAsk {
		return 1
	}
	return o.MetadataWorkers()
}
