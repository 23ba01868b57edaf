package plan

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/agroscheme/provision/pkg/pip"
)

// DefaultFileName is the plan override file looked up in the working
// directory.
const DefaultFileName = "provision.yaml"

// File is the on-disk plan override. Every field is optional; unset
// fields keep their defaults.
type File struct {
	Profile          string    `yaml:"profile"`
	AptPackages      []string  `yaml:"apt_packages"`
	ExtraAptPackages []string  `yaml:"extra_apt_packages"`
	BinaryPins       []PinSpec `yaml:"binary_pins"`
	Requirements     string    `yaml:"requirements"`
	UploadsDir       string    `yaml:"uploads_dir"`
	PipBin           string    `yaml:"pip"`
}

// PinSpec is a pinned wheel entry in the plan file.
type PinSpec struct {
	Name    string `yaml:"name"`
	Version string `yaml:"version"`
}

// LoadFile reads and parses a plan override file.
func LoadFile(path string) (*File, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read plan file: %w", err)
	}

	var f File
	if err := yaml.Unmarshal(data, &f); err != nil {
		return nil, fmt.Errorf("failed to parse plan file %s: %w", path, err)
	}

	for _, pin := range f.BinaryPins {
		if pin.Name == "" || pin.Version == "" {
			return nil, fmt.Errorf("invalid binary pin in %s: name and version are required", path)
		}
	}

	return &f, nil
}

// Apply merges the file's set fields over the given settings and
// returns the result.
func (f *File) Apply(s Settings) Settings {
	if len(f.AptPackages) > 0 {
		s.AptPackages = f.AptPackages
	}
	if len(f.ExtraAptPackages) > 0 {
		s.ExtraAptPackages = f.ExtraAptPackages
	}
	if len(f.BinaryPins) > 0 {
		pins := make([]pip.Pin, len(f.BinaryPins))
		for i, spec := range f.BinaryPins {
			pins[i] = pip.Pin{Name: spec.Name, Version: spec.Version}
		}
		s.BinaryPins = pins
	}
	if f.Requirements != "" {
		s.RequirementsPath = f.Requirements
	}
	if f.UploadsDir != "" {
		s.UploadsDir = f.UploadsDir
	}
	if f.PipBin != "" {
		s.PipBin = f.PipBin
	}
	return s
}
