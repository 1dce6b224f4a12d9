// Package config handles YAML configuration loading with environment variable substitution.
//
// Configuration files support ${VAR} syntax for environment variable interpolation.
// All fields are optional; missing values fall back to defaults, so running
// without a config file is the common case.
package config
