package doctor

import (
	"bytes"
	"os"
	"os/exec"
	"regexp"
)

// CommandExecutor is an interface for executing commands, allowing for testing.
type CommandExecutor interface {
	LookPath(file string) (string, error)
	Run(name string, args ...string) (string, error)
	CombinedOutput(name string, args ...string) ([]byte, error)
	FileExists(path string) bool
	DirWritable(path string) bool
}

// RealExecutor is the default command executor that uses the real system.
type RealExecutor struct{}

// LookPath finds the path to an executable.
func (e *RealExecutor) LookPath(file string) (string, error) {
	return exec.LookPath(file)
}

// Run executes a command and returns its output.
func (e *RealExecutor) Run(name string, args ...string) (string, error) {
	cmd := exec.Command(name, args...)
	var stdout, stderr bytes.Buffer
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr
	err := cmd.Run()
	if err != nil {
		// Some tools output version to stderr
		if stderr.Len() > 0 {
			return stderr.String(), err
		}
		return stdout.String(), err
	}
	// Prefer stdout, fall back to stderr (some tools output version to stderr)
	output := stdout.String()
	if output == "" {
		output = stderr.String()
	}
	return output, nil
}

// CombinedOutput runs a command and returns combined stdout and stderr.
func (e *RealExecutor) CombinedOutput(name string, args ...string) ([]byte, error) {
	cmd := exec.Command(name, args...)
	return cmd.CombinedOutput()
}

// FileExists checks if a file exists.
func (e *RealExecutor) FileExists(path string) bool {
	_, err := os.Stat(path)
	return err == nil
}

// DirWritable checks whether files can be created under path.
func (e *RealExecutor) DirWritable(path string) bool {
	probe, err := os.CreateTemp(path, ".doctor-*")
	if err != nil {
		return false
	}
	name := probe.Name()
	probe.Close()
	os.Remove(name)
	return true
}

// checkTool checks if a tool is installed and gets its version.
func checkTool(exec CommandExecutor, id, name, desc string, versionArgs []string, versionRegex *regexp.Regexp, fixCmd *FixCommand) Check {
	check := Check{
		ID:          id,
		Name:        name,
		Description: desc,
		FixCommand:  fixCmd,
	}

	path, err := exec.LookPath(id)
	if err != nil {
		check.Status = StatusMissing
		check.Message = "not installed"
		return check
	}

	// Try to get version
	output, err := exec.Run(path, versionArgs...)
	if err != nil {
		// Tool exists but version check failed - still consider it OK
		check.Status = StatusOK
		check.Message = "installed (version unknown)"
		return check
	}

	version := extractVersion(output, versionRegex)
	if version != "" {
		check.Status = StatusOK
		check.Message = version
	} else {
		check.Status = StatusOK
		check.Message = "installed"
	}

	return check
}

// extractVersion extracts version string from command output.
func extractVersion(output string, regex *regexp.Regexp) string {
	if regex == nil {
		// Default: look for common version patterns
		defaultRegex := regexp.MustCompile(`v?(\d+\.\d+(?:\.\d+)?(?:-[a-zA-Z0-9]+)?)`)
		matches := defaultRegex.FindStringSubmatch(output)
		if len(matches) >= 2 {
			return matches[1]
		}
		return ""
	}

	matches := regex.FindStringSubmatch(output)
	if len(matches) >= 2 {
		return matches[1]
	}
	return ""
}

// CheckAptGet checks if apt-get is installed.
func CheckAptGet(exec CommandExecutor) Check {
	return checkTool(
		exec,
		IDAptGet,
		"apt-get",
		"OS package manager",
		[]string{"--version"},
		regexp.MustCompile(`apt (\d+\.\d+(?:\.\d+)?)`),
		nil, // apt comes with the OS; nothing sensible installs it
	)
}

// CheckPython checks if python3 is installed.
func CheckPython(exec CommandExecutor) Check {
	return checkTool(
		exec,
		IDPython,
		"Python 3",
		"Runtime for the backend and its build tooling",
		[]string{"--version"},
		regexp.MustCompile(`Python (\d+\.\d+\.\d+)`),
		GetFixCommand(IDPython),
	)
}

// CheckPip checks if pip is installed, accepting pip3 as a fallback.
func CheckPip(exec CommandExecutor) Check {
	check := Check{
		ID:          IDPip,
		Name:        "pip",
		Description: "Python package installer",
		FixCommand:  GetFixCommand(IDPip),
	}

	path, err := exec.LookPath("pip")
	if err != nil {
		path, err = exec.LookPath("pip3")
		if err != nil {
			check.Status = StatusMissing
			check.Message = "not installed"
			return check
		}
	}

	output, err := exec.Run(path, "--version")
	if err != nil {
		check.Status = StatusOK
		check.Message = "installed (version unknown)"
		return check
	}

	version := extractVersion(output, regexp.MustCompile(`pip (\d+\.\d+(?:\.\d+)?)`))
	if version != "" {
		check.Status = StatusOK
		check.Message = version
	} else {
		check.Status = StatusOK
		check.Message = "installed"
	}

	return check
}

// CheckManifest checks that the requirements manifest exists.
func CheckManifest(exec CommandExecutor, path string) Check {
	check := Check{
		ID:          IDManifest,
		Name:        "Requirements manifest",
		Description: "Declarative Python dependency list",
	}

	if path == "" {
		path = "requirements.txt"
	}

	if exec.FileExists(path) {
		check.Status = StatusOK
		check.Message = path
	} else {
		check.Status = StatusMissing
		check.Message = "no manifest at " + path
	}

	return check
}

// CheckUploadsWritable checks that the upload directory's parent is
// writable, so the bootstrap step can create it.
func CheckUploadsWritable(exec CommandExecutor, dir string) Check {
	check := Check{
		ID:          IDUploads,
		Name:        "Upload directory",
		Description: "Destination for user-submitted documents",
	}

	if dir == "" {
		dir = "uploads"
	}

	if exec.FileExists(dir) {
		if exec.DirWritable(dir) {
			check.Status = StatusOK
			check.Message = dir
		} else {
			check.Status = StatusError
			check.Message = dir + " exists but is not writable"
		}
		return check
	}

	if exec.DirWritable(".") {
		check.Status = StatusOK
		check.Message = dir + " will be created"
	} else {
		check.Status = StatusError
		check.Message = "working directory is not writable"
	}

	return check
}
