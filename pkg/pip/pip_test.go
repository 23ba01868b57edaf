package pip

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestPin_String(t *testing.T) {
	pin := Pin{Name: "numpy", Version: "1.24.4"}
	assert.Equal(t, "numpy==1.24.4", pin.String())
}

func TestBootstrapArgs(t *testing.T) {
	args := BootstrapArgs("pip")
	assert.Equal(t, []string{"pip", "install", "--upgrade", "pip", "setuptools", "wheel"}, args)
}

func TestBinaryPinArgs(t *testing.T) {
	args := BinaryPinArgs("pip3", DefaultBinaryPins)
	assert.Equal(t, []string{"pip3", "install", "--only-binary=:all:", "numpy==1.24.4", "pandas==2.0.3"}, args)
}

func TestRequirementsArgs(t *testing.T) {
	args := RequirementsArgs("pip", "requirements.txt")
	assert.Equal(t, []string{"pip", "install", "-r", "requirements.txt"}, args)
}
