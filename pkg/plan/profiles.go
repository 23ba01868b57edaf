package plan

import (
	"fmt"
	"strings"

	"github.com/agroscheme/provision/pkg/apt"
	"github.com/agroscheme/provision/pkg/pip"
)

// Profile names. The web profile provisions the API service build; the
// worker profile adds the OCR rendering packages and the upload
// directory.
const (
	ProfileWeb    = "web"
	ProfileWorker = "worker"
)

// Profiles returns the known profile names.
func Profiles() []string {
	return []string{ProfileWeb, ProfileWorker}
}

// ForProfile builds the provisioning plan for the named profile.
func ForProfile(profile string, s Settings) (*Plan, error) {
	switch profile {
	case ProfileWeb, ProfileWorker:
	default:
		return nil, fmt.Errorf("unknown profile %q (expected %s)", profile, strings.Join(Profiles(), " or "))
	}

	aptPackages := s.AptPackages
	if profile == ProfileWorker {
		aptPackages = append(append([]string{}, aptPackages...), s.ExtraAptPackages...)
	}

	p := &Plan{
		Profile: profile,
		Steps: []Step{
			{
				ID:      StepAptUpdate,
				Name:    "Refresh package index",
				Command: apt.UpdateArgs(),
				Env:     apt.NonInteractiveEnv,
			},
			{
				ID:      StepAptInstall,
				Name:    "Install OS packages",
				Command: apt.InstallArgs(aptPackages),
				Env:     apt.NonInteractiveEnv,
			},
			{
				ID:      StepPipBootstrap,
				Name:    "Upgrade pip, setuptools, wheel",
				Command: pip.BootstrapArgs(s.PipBin),
			},
			{
				ID:      StepPipBinaryPins,
				Name:    "Pre-install pinned wheels",
				Command: pip.BinaryPinArgs(s.PipBin, s.BinaryPins),
			},
			{
				ID:      StepPipRequirements,
				Name:    "Install requirements manifest",
				Command: pip.RequirementsArgs(s.PipBin, s.RequirementsPath),
			},
		},
	}

	if profile == ProfileWorker {
		p.Steps = append(p.Steps, Step{
			ID:      StepUploadsDir,
			Name:    "Create upload directory",
			Builtin: true,
		})
	}

	return p, nil
}
