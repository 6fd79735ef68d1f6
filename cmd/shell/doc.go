// Command shell is the desktop application entry point.
//
// It wires the window controller, security gate, command bridge and skill
// sync workflow, starts the loopback bridge server, and hands the main
// thread to the desktop runtime until the application quits.
//
// Usage:
//
//	shell [-config shell.toml] [-version]
//
// Configuration comes from defaults, the TOML file named by -config or
// SHELL_CONFIG, then environment variables (see internal/infrastructure/config).
package main
