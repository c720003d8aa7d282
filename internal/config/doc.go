// Package config loads and validates the pipeline configuration.
//
// Configuration is a YAML file with ${VAR} environment expansion. The only
// required settings are the three file-system paths (reference file, input
// folder, output folder); everything else carries defaults. The reconcile
// binary also accepts the three paths as flags, which take precedence over
// the file, so a config file is optional for simple invocations.
package config
