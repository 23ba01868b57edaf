// Package doctor provides environment checking and fixing for the
// provisioner: it verifies the package managers and project files a
// run depends on before any step executes.
package doctor

// CheckStatus represents the status of an environment check.
type CheckStatus int

const (
	// StatusOK indicates the dependency is installed and working.
	StatusOK CheckStatus = iota
	// StatusMissing indicates the dependency is not installed.
	StatusMissing
	// StatusError indicates an error occurred during the check.
	StatusError
	// StatusWarning indicates the dependency has issues but may work.
	StatusWarning
)

// String returns the string representation of the status.
func (s CheckStatus) String() string {
	switch s {
	case StatusOK:
		return "ok"
	case StatusMissing:
		return "missing"
	case StatusError:
		return "error"
	case StatusWarning:
		return "warning"
	default:
		return "unknown"
	}
}

// Check represents a single environment check result.
type Check struct {
	ID          string      // Unique identifier, e.g. "apt-get", "pip"
	Name        string      // Display name
	Description string      // What this dependency is for
	Status      CheckStatus // Current status
	Message     string      // Status message (version info, error, etc.)
	FixCommand  *FixCommand // How to fix if missing (nil if not fixable)
}

// FixCommand describes how to fix a missing dependency.
type FixCommand struct {
	Description string // Human-readable description of what the fix does
	Command     string // Shell command to run
	Sudo        bool   // Whether the command requires sudo
}

// CheckGroup represents a group of related environment checks.
type CheckGroup struct {
	ID          string  // Unique identifier, e.g. "system", "python"
	Name        string  // Display name
	Description string  // What this group covers
	Checks      []Check // Individual checks in this group
}

// GroupID constants for check groups.
const (
	GroupSystem  = "system"
	GroupPython  = "python"
	GroupProject = "project"
)

// CheckID constants for individual checks.
const (
	IDAptGet   = "apt-get"
	IDPython   = "python3"
	IDPip      = "pip"
	IDManifest = "manifest"
	IDUploads  = "uploads"
)
