// Package plan defines the provisioning plan model: the ordered,
// fail-fast sequence of steps that prepares a build host for the
// AgroScheme backend.
package plan

import (
	"github.com/agroscheme/provision/pkg/apt"
	"github.com/agroscheme/provision/pkg/pip"
)

// Step IDs for the built-in provisioning steps.
const (
	StepAptUpdate       = "apt-update"
	StepAptInstall      = "apt-install"
	StepPipBootstrap    = "pip-bootstrap"
	StepPipBinaryPins   = "pip-binary-pins"
	StepPipRequirements = "pip-requirements"
	StepUploadsDir      = "uploads-dir"
)

// Step is a single provisioning action. Command steps run a
// subprocess; builtin steps are implemented in-process and looked up
// by ID at run time.
type Step struct {
	// ID uniquely identifies the step within a plan.
	ID string

	// Name is a human-readable display name.
	Name string

	// Command is the argv to execute. Empty for builtin steps.
	Command []string

	// Env holds extra KEY=VALUE pairs appended to the process
	// environment.
	Env []string

	// Builtin marks steps implemented in Go rather than as a
	// subprocess.
	Builtin bool
}

// Plan is an ordered list of steps for one profile.
type Plan struct {
	Profile string
	Steps   []Step
}

// Step returns the step with the given ID, or nil if not present.
func (p *Plan) Step(id string) *Step {
	for i := range p.Steps {
		if p.Steps[i].ID == id {
			return &p.Steps[i]
		}
	}
	return nil
}

// IDs returns the step IDs in execution order.
func (p *Plan) IDs() []string {
	ids := make([]string, len(p.Steps))
	for i, s := range p.Steps {
		ids[i] = s.ID
	}
	return ids
}

// Settings parameterize plan construction. The zero value is not
// usable; start from DefaultSettings.
type Settings struct {
	// AptPackages are the OS packages installed by every profile.
	AptPackages []string

	// ExtraAptPackages are added by the worker profile.
	ExtraAptPackages []string

	// BinaryPins are pre-installed from prebuilt wheels before the
	// requirements manifest.
	BinaryPins []pip.Pin

	// RequirementsPath is the pip requirements manifest, relative to
	// the working directory.
	RequirementsPath string

	// UploadsDir is the upload directory created by the worker
	// profile.
	UploadsDir string

	// PipBin is the pip binary to invoke.
	PipBin string
}

// DefaultSettings returns the settings matching the platform's build
// configuration.
func DefaultSettings() Settings {
	return Settings{
		AptPackages:      apt.BasePackages,
		ExtraAptPackages: apt.WorkerPackages,
		BinaryPins:       pip.DefaultBinaryPins,
		RequirementsPath: "requirements.txt",
		UploadsDir:       "uploads",
		PipBin:           pip.ResolveBin(),
	}
}
