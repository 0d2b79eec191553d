// Package config loads the pipeline configuration.
//
// Configuration is written in CUE and unified with the embedded #Pipeline
// definition in schema.cue, which supplies defaults and rejects unknown
// fields and out-of-range values. The same Pipeline struct carries yaml
// tags so test fixtures can embed overrides; call Validate on those.
package config
