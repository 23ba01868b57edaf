// Package pip builds pip invocations for provisioning Python build
// dependencies.
package pip

import (
	"fmt"
	"os/exec"
)

// DefaultBin is the preferred pip binary name.
const DefaultBin = "pip"

// Pin is a package pinned to an exact version.
type Pin struct {
	Name    string
	Version string
}

// String returns the pip requirement specifier, e.g. "numpy==1.24.4".
func (p Pin) String() string {
	return fmt.Sprintf("%s==%s", p.Name, p.Version)
}

// DefaultBinaryPins are the numeric libraries pre-installed from
// prebuilt wheels. Installing them with --only-binary before the
// requirements manifest avoids a long native build on constrained
// build infrastructure.
var DefaultBinaryPins = []Pin{
	{Name: "numpy", Version: "1.24.4"},
	{Name: "pandas", Version: "2.0.3"},
}

// ResolveBin returns the pip binary to use, falling back to pip3 when
// pip is not on PATH.
func ResolveBin() string {
	if _, err := exec.LookPath(DefaultBin); err == nil {
		return DefaultBin
	}
	if _, err := exec.LookPath("pip3"); err == nil {
		return "pip3"
	}
	return DefaultBin
}

// BootstrapArgs returns the argv for upgrading pip and its build
// helpers.
func BootstrapArgs(bin string) []string {
	return []string{bin, "install", "--upgrade", "pip", "setuptools", "wheel"}
}

// BinaryPinArgs returns the argv for installing the pinned packages
// from prebuilt wheels only. A source build is a hard failure here,
// not a fallback.
func BinaryPinArgs(bin string, pins []Pin) []string {
	args := []string{bin, "install", "--only-binary=:all:"}
	for _, pin := range pins {
		args = append(args, pin.String())
	}
	return args
}

// RequirementsArgs returns the argv for installing a requirements
// manifest.
func RequirementsArgs(bin, path string) []string {
	return []string{bin, "install", "-r", path}
}
