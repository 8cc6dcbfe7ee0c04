// Package fsutil provides shared file system constants for repod.
package fsutil

// File and directory permission constants.
const (
	// Default file modes.
	FileModeDefault = 0o644 // -rw-r--r--

	// Default directory modes.
	DirModeDefault = 0o755 // drwxr-xr-x
)
