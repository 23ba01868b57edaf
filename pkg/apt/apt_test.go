package apt

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestUpdateArgs(t *testing.T) {
	assert.Equal(t, []string{"apt-get", "update"}, UpdateArgs())
}

func TestInstallArgs(t *testing.T) {
	args := InstallArgs([]string{"gcc", "g++"})
	assert.Equal(t, []string{"apt-get", "install", "-y", "gcc", "g++"}, args)
}

func TestBasePackages(t *testing.T) {
	// The OCR runtime and the full toolchain must both be present;
	// missing either one turns a wheel-less pip install into a build
	// failure.
	assert.Contains(t, BasePackages, "tesseract-ocr")
	assert.Contains(t, BasePackages, "gfortran")
	assert.Contains(t, BasePackages, "gcc")
	assert.Contains(t, BasePackages, "g++")
}
