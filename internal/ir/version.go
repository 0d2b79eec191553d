package ir

// Version constants recorded with every run.
const (
	// SchemaVersion is the version of the canonical record layout.
	SchemaVersion = "1"

	// EngineVersion is the closure engine version.
	EngineVersion = "0.1.0"
)
