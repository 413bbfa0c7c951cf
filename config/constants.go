package config

// CLI verbosity values accepted by [ConfigOverride.LogLvl]
const (
	ErrorVerbose = iota + 1
	WarnVerbose
	InfoVerbose
	DebugVerbose
	TraceVerbose
)

// Storage backends understood by the storage registry
const (
	OSStorage  = "os"
	MemStorage = "mem"
)

// Root path state backends
const (
	YAMLState   = "yaml"
	SQLiteState = "sqlite"
	NoState     = "none"
)
