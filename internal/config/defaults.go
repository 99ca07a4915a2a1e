package config

const (
	defaultDestRoot      = "~/pictures/library"
	defaultLogDir        = "~/.local/share/picsort/logs"
	defaultIndexPath     = "~/.cache/picsort/digests.db"
	defaultGroupBy       = "camera"
	defaultHierarchy     = "device-first"
	defaultOperation     = "copy"
	defaultPolicy        = "ask"
	defaultWorkers       = 1
	defaultLogFormat     = "console"
	defaultLogLevel      = "info"
	defaultSettleSeconds = 5
)

// Default returns a Config populated with repository defaults.
func Default() Config {
	return Config{
		Paths: Paths{
			DestRoot:  defaultDestRoot,
			LogDir:    defaultLogDir,
			IndexPath: defaultIndexPath,
		},
		Sorting: Sorting{
			GroupBy:   defaultGroupBy,
			Hierarchy: defaultHierarchy,
			SplitKind: true,
			Operation: defaultOperation,
			Policy:    defaultPolicy,
			Workers:   defaultWorkers,
		},
		Watch: Watch{
			SettleSeconds: defaultSettleSeconds,
		},
		Logging: Logging{
			Format: defaultLogFormat,
			Level:  defaultLogLevel,
		},
	}
}
