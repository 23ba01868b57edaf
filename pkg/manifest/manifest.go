// Package manifest parses pip requirements files enough to list and
// sanity-check the declared dependencies before installation. pip
// itself remains the authority on the full format.
package manifest

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"strings"
)

// Requirement is one entry from a requirements file.
type Requirement struct {
	// Name is the distribution name, lowercased, without extras.
	Name string

	// Spec is the version constraint including the operator, e.g.
	// "==2.0.3". Empty when unpinned.
	Spec string

	// Raw is the original line with comments stripped.
	Raw string

	// Line is the 1-based line number in the file.
	Line int
}

// Pinned reports whether the requirement is pinned to an exact
// version.
func (r Requirement) Pinned() bool {
	return strings.HasPrefix(r.Spec, "==")
}

// versionOps are the comparison operators recognized in specifiers,
// longest first so that "==" wins over "=".
var versionOps = []string{"===", "==", "~=", "!=", ">=", "<=", ">", "<"}

// ParseFile reads and parses a requirements file.
func ParseFile(path string) ([]Requirement, error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open requirements file: %w", err)
	}
	defer file.Close()

	reqs, err := Parse(file)
	if err != nil {
		return nil, fmt.Errorf("failed to parse %s: %w", path, err)
	}
	return reqs, nil
}

// Parse parses requirements from a reader. Comment and blank lines are
// skipped; option lines (-r, --index-url, ...) are recognized and
// skipped but not followed.
func Parse(r io.Reader) ([]Requirement, error) {
	var reqs []Requirement

	scanner := bufio.NewScanner(r)
	lineNum := 0
	for scanner.Scan() {
		lineNum++
		line := scanner.Text()

		// Strip trailing comments.
		if idx := strings.Index(line, "#"); idx >= 0 {
			line = line[:idx]
		}
		line = strings.TrimSpace(line)

		if line == "" || strings.HasPrefix(line, "-") {
			continue
		}

		reqs = append(reqs, parseLine(line, lineNum))
	}

	if err := scanner.Err(); err != nil {
		return nil, err
	}
	return reqs, nil
}

// parseLine splits one requirement line into name and specifier.
func parseLine(line string, lineNum int) Requirement {
	req := Requirement{Raw: line, Line: lineNum}

	// Environment markers follow a semicolon; they don't affect the
	// name or pin.
	spec := line
	if idx := strings.Index(spec, ";"); idx >= 0 {
		spec = strings.TrimSpace(spec[:idx])
	}

	name := spec
	for _, op := range versionOps {
		if idx := strings.Index(spec, op); idx >= 0 {
			name = spec[:idx]
			req.Spec = strings.TrimSpace(spec[idx:])
			break
		}
	}

	// Drop extras, e.g. "uvicorn[standard]".
	if idx := strings.Index(name, "["); idx >= 0 {
		name = name[:idx]
	}

	req.Name = strings.ToLower(strings.TrimSpace(name))
	return req
}

// IssueSeverity classifies a validation issue.
type IssueSeverity string

const (
	SeverityWarning IssueSeverity = "warning"
	SeverityError   IssueSeverity = "error"
)

// Issue is a validation finding for one requirement.
type Issue struct {
	Severity IssueSeverity
	Name     string
	Line     int
	Message  string
}

// Validate reports unpinned and duplicate requirements. Duplicates are
// errors (pip's behavior depends on order); missing pins are warnings.
func Validate(reqs []Requirement) []Issue {
	var issues []Issue
	seen := make(map[string]int)

	for _, req := range reqs {
		if first, ok := seen[req.Name]; ok {
			issues = append(issues, Issue{
				Severity: SeverityError,
				Name:     req.Name,
				Line:     req.Line,
				Message:  fmt.Sprintf("duplicate of line %d", first),
			})
			continue
		}
		seen[req.Name] = req.Line

		if !req.Pinned() {
			issues = append(issues, Issue{
				Severity: SeverityWarning,
				Name:     req.Name,
				Line:     req.Line,
				Message:  "not pinned to an exact version",
			})
		}
	}

	return issues
}

// HasErrors reports whether any issue is an error.
func HasErrors(issues []Issue) bool {
	for _, issue := range issues {
		if issue.Severity == SeverityError {
			return true
		}
	}
	return false
}
