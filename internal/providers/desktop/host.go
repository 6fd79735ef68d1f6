package desktop

import (
	"os"
	"runtime"
)

// Host reports facts about the machine the shell runs on.
type Host struct{}

// Platform returns the OS identifier the shell was built for.
func (Host) Platform() string {
	return runtime.GOOS
}

// HomeDir returns the current user's home directory.
func (Host) HomeDir() (string, error) {
	return os.UserHomeDir()
}
