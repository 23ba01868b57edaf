package plan

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/agroscheme/provision/pkg/pip"
)

func testSettings() Settings {
	return Settings{
		AptPackages:      []string{"libgl1", "tesseract-ocr", "gcc"},
		ExtraAptPackages: []string{"poppler-utils"},
		BinaryPins: []pip.Pin{
			{Name: "numpy", Version: "1.24.4"},
			{Name: "pandas", Version: "2.0.3"},
		},
		RequirementsPath: "requirements.txt",
		UploadsDir:       "uploads",
		PipBin:           "pip",
	}
}

func TestForProfile_Web(t *testing.T) {
	p, err := ForProfile(ProfileWeb, testSettings())
	require.NoError(t, err)

	assert.Equal(t, ProfileWeb, p.Profile)
	assert.Equal(t, []string{
		StepAptUpdate,
		StepAptInstall,
		StepPipBootstrap,
		StepPipBinaryPins,
		StepPipRequirements,
	}, p.IDs())

	// Web profile creates no upload directory
	assert.Nil(t, p.Step(StepUploadsDir))
}

func TestForProfile_Worker(t *testing.T) {
	p, err := ForProfile(ProfileWorker, testSettings())
	require.NoError(t, err)

	ids := p.IDs()
	assert.Equal(t, StepUploadsDir, ids[len(ids)-1])

	uploadsStep := p.Step(StepUploadsDir)
	require.NotNil(t, uploadsStep)
	assert.True(t, uploadsStep.Builtin)
	assert.Empty(t, uploadsStep.Command)

	install := p.Step(StepAptInstall)
	require.NotNil(t, install)
	assert.Contains(t, install.Command, "poppler-utils")
}

func TestForProfile_WebExcludesWorkerPackages(t *testing.T) {
	p, err := ForProfile(ProfileWeb, testSettings())
	require.NoError(t, err)

	install := p.Step(StepAptInstall)
	require.NotNil(t, install)
	assert.NotContains(t, install.Command, "poppler-utils")
	assert.Contains(t, install.Command, "tesseract-ocr")
}

func TestForProfile_Unknown(t *testing.T) {
	_, err := ForProfile("staging", testSettings())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "unknown profile")
}

func TestForProfile_StepCommands(t *testing.T) {
	p, err := ForProfile(ProfileWeb, testSettings())
	require.NoError(t, err)

	update := p.Step(StepAptUpdate)
	require.NotNil(t, update)
	assert.Equal(t, []string{"apt-get", "update"}, update.Command)
	assert.Contains(t, update.Env, "DEBIAN_FRONTEND=noninteractive")

	pins := p.Step(StepPipBinaryPins)
	require.NotNil(t, pins)
	assert.Contains(t, pins.Command, "--only-binary=:all:")
	assert.Contains(t, pins.Command, "numpy==1.24.4")
	assert.Contains(t, pins.Command, "pandas==2.0.3")

	reqs := p.Step(StepPipRequirements)
	require.NotNil(t, reqs)
	assert.Equal(t, []string{"pip", "install", "-r", "requirements.txt"}, reqs.Command)
}

func TestForProfile_DoesNotMutateSettings(t *testing.T) {
	s := testSettings()
	base := len(s.AptPackages)

	_, err := ForProfile(ProfileWorker, s)
	require.NoError(t, err)

	assert.Len(t, s.AptPackages, base)
}

func TestLoadFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "provision.yaml")
	content := `profile: worker
apt_packages:
  - libgl1
binary_pins:
  - name: numpy
    version: 1.26.0
requirements: requirements-prod.txt
uploads_dir: data/uploads
pip: pip3
`
	require.NoError(t, os.WriteFile(path, []byte(content), 0644))

	f, err := LoadFile(path)
	require.NoError(t, err)

	assert.Equal(t, "worker", f.Profile)
	assert.Equal(t, []string{"libgl1"}, f.AptPackages)

	s := f.Apply(testSettings())
	assert.Equal(t, []string{"libgl1"}, s.AptPackages)
	assert.Equal(t, []pip.Pin{{Name: "numpy", Version: "1.26.0"}}, s.BinaryPins)
	assert.Equal(t, "requirements-prod.txt", s.RequirementsPath)
	assert.Equal(t, "data/uploads", s.UploadsDir)
	assert.Equal(t, "pip3", s.PipBin)

	// Fields absent from the file keep their defaults
	assert.Equal(t, []string{"poppler-utils"}, s.ExtraAptPackages)
}

func TestLoadFile_InvalidPin(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "provision.yaml")
	content := `binary_pins:
  - name: numpy
`
	require.NoError(t, os.WriteFile(path, []byte(content), 0644))

	_, err := LoadFile(path)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "invalid binary pin")
}

func TestLoadFile_Missing(t *testing.T) {
	_, err := LoadFile(filepath.Join(t.TempDir(), "nope.yaml"))
	require.Error(t, err)
}
