// Package config loads shell configuration.
//
// Sources, lowest to highest precedence:
//   - Default()
//   - a TOML file named by SHELL_CONFIG (optional)
//   - environment variables (12-factor)
//
// Fields carry no envconfig defaults on purpose: an unset variable leaves the
// value from the previous layer untouched.
package config
