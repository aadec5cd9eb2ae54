// Package config handles loading and validating the home automation configuration.
//
// This package manages:
//   - Loading configuration from YAML files
//   - Overriding with HOMEAUTO_* environment variables
//   - Validation of every section, reporting all problems at once
//   - Default values, including a demonstration fleet
//
// Usage:
//
//	cfg, err := config.Load("configs/config.yaml")
//	if err != nil {
//	    return err
//	}
//	specs, err := cfg.DeviceSpecs()
package config
