package manifest

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const sampleManifest = `# Backend dependencies
fastapi==0.104.1
uvicorn[standard]==0.24.0
numpy==1.24.4
pandas==2.0.3

# OCR
pytesseract==0.3.10
Pillow>=10.0
pdf2image  # installed for worker hosts

-r requirements-dev.txt
--index-url https://pypi.org/simple
requests==2.31.0; python_version >= "3.8"
`

func TestParse(t *testing.T) {
	reqs, err := Parse(strings.NewReader(sampleManifest))
	require.NoError(t, err)

	require.Len(t, reqs, 8)

	assert.Equal(t, "fastapi", reqs[0].Name)
	assert.Equal(t, "==0.104.1", reqs[0].Spec)
	assert.True(t, reqs[0].Pinned())

	// Extras are stripped from the name
	assert.Equal(t, "uvicorn", reqs[1].Name)
	assert.Equal(t, "==0.24.0", reqs[1].Spec)

	// Case is normalized
	assert.Equal(t, "pillow", reqs[5].Name)
	assert.Equal(t, ">=10.0", reqs[5].Spec)
	assert.False(t, reqs[5].Pinned())

	// Bare name with trailing comment
	assert.Equal(t, "pdf2image", reqs[6].Name)
	assert.Empty(t, reqs[6].Spec)

	// Environment marker doesn't leak into the spec
	assert.Equal(t, "requests", reqs[7].Name)
	assert.Equal(t, "==2.31.0", reqs[7].Spec)
}

func TestParse_LineNumbers(t *testing.T) {
	reqs, err := Parse(strings.NewReader("# header\n\nnumpy==1.24.4\n"))
	require.NoError(t, err)

	require.Len(t, reqs, 1)
	assert.Equal(t, 3, reqs[0].Line)
}

func TestParseFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "requirements.txt")
	require.NoError(t, os.WriteFile(path, []byte("numpy==1.24.4\n"), 0644))

	reqs, err := ParseFile(path)
	require.NoError(t, err)
	require.Len(t, reqs, 1)
	assert.Equal(t, "numpy", reqs[0].Name)
}

func TestParseFile_Missing(t *testing.T) {
	_, err := ParseFile(filepath.Join(t.TempDir(), "requirements.txt"))
	require.Error(t, err)
}

func TestValidate(t *testing.T) {
	reqs, err := Parse(strings.NewReader("numpy==1.24.4\npandas\nnumpy==1.26.0\n"))
	require.NoError(t, err)

	issues := Validate(reqs)
	require.Len(t, issues, 2)

	assert.Equal(t, SeverityWarning, issues[0].Severity)
	assert.Equal(t, "pandas", issues[0].Name)

	assert.Equal(t, SeverityError, issues[1].Severity)
	assert.Equal(t, "numpy", issues[1].Name)
	assert.Contains(t, issues[1].Message, "duplicate of line 1")

	assert.True(t, HasErrors(issues))
}

func TestValidate_Clean(t *testing.T) {
	reqs, err := Parse(strings.NewReader("numpy==1.24.4\npandas==2.0.3\n"))
	require.NoError(t, err)

	issues := Validate(reqs)
	assert.Empty(t, issues)
	assert.False(t, HasErrors(issues))
}
