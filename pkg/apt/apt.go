// Package apt builds apt-get invocations for provisioning OS-level
// build dependencies.
package apt

// Bin is the apt-get binary name.
const Bin = "apt-get"

// NonInteractiveEnv suppresses debconf prompts during installs.
var NonInteractiveEnv = []string{"DEBIAN_FRONTEND=noninteractive"}

// BasePackages are the OS packages every profile installs: the OCR and
// graphics runtime libraries plus the toolchain needed to build any
// Python dependency that ships without a wheel.
var BasePackages = []string{
	"libgl1",
	"libglib2.0-0",
	"tesseract-ocr",
	"libatlas-base-dev",
	"gfortran",
	"gcc",
	"g++",
}

// WorkerPackages are the extra packages the worker profile installs on
// top of BasePackages (PDF rendering and imaging support).
var WorkerPackages = []string{
	"poppler-utils",
	"liblapack-dev",
	"libjpeg-dev",
	"zlib1g-dev",
}

// UpdateArgs returns the argv for refreshing the package index.
func UpdateArgs() []string {
	return []string{Bin, "update"}
}

// InstallArgs returns the argv for installing the given packages
// without prompting.
func InstallArgs(packages []string) []string {
	args := []string{Bin, "install", "-y"}
	return append(args, packages...)
}
