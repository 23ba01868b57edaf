// Package uploads bootstraps the upload directory structure used by
// the AgroScheme backend for user-submitted documents.
package uploads

import (
	"fmt"
	"os"
	"path/filepath"
)

// DefaultDir is the upload directory created in the working directory.
const DefaultDir = "uploads"

// Subdirectories created under the upload root.
var subdirs = []string{"temp", "trash", "system"}

const readmeContent = `# Uploads Directory

User-uploaded documents live here.

## Structure
- uploads/farmer_<farmer_id>/  - per-farmer folders, created on first upload
- uploads/user_<user_id>/      - fallback per-user folders
- uploads/temp/                - in-flight uploads
- uploads/trash/               - soft-deleted files
- uploads/system/              - system files

Files are stored under UUID names; original filenames live in the
database. Never commit user files to the repository.
`

const gitignoreContent = `# Ignore all user uploads
/*
!.gitkeep
!README.md

# Except system directories
!/temp/
!/trash/
!/system/
`

// Result reports what the bootstrap created.
type Result struct {
	Root     string
	Created  []string // paths created by this run
	Existing []string // paths that already existed
}

// Bootstrap creates the upload directory structure under root. It is
// idempotent: re-running against an existing structure creates
// nothing and fails nothing.
func Bootstrap(root string) (*Result, error) {
	result := &Result{Root: root}

	dirs := make([]string, 0, len(subdirs)+1)
	dirs = append(dirs, root)
	for _, sub := range subdirs {
		dirs = append(dirs, filepath.Join(root, sub))
	}

	for _, dir := range dirs {
		created, err := ensureDir(dir)
		if err != nil {
			return nil, err
		}
		result.record(dir, created)

		gitkeep := filepath.Join(dir, ".gitkeep")
		created, err = ensureFile(gitkeep, "")
		if err != nil {
			return nil, err
		}
		result.record(gitkeep, created)
	}

	readme := filepath.Join(root, "README.md")
	created, err := ensureFile(readme, readmeContent)
	if err != nil {
		return nil, err
	}
	result.record(readme, created)

	gitignore := filepath.Join(root, ".gitignore")
	created, err = ensureFile(gitignore, gitignoreContent)
	if err != nil {
		return nil, err
	}
	result.record(gitignore, created)

	return result, nil
}

// Verify checks that the upload root exists and is a directory.
func Verify(root string) error {
	info, err := os.Stat(root)
	if err != nil {
		return fmt.Errorf("upload directory missing: %w", err)
	}
	if !info.IsDir() {
		return fmt.Errorf("upload path %s exists but is not a directory", root)
	}
	return nil
}

func (r *Result) record(path string, created bool) {
	if created {
		r.Created = append(r.Created, path)
	} else {
		r.Existing = append(r.Existing, path)
	}
}

// ensureDir creates dir if absent, reporting whether it was created.
func ensureDir(dir string) (bool, error) {
	info, err := os.Stat(dir)
	if err == nil {
		if !info.IsDir() {
			return false, fmt.Errorf("path %s exists but is not a directory", dir)
		}
		return false, nil
	}
	if !os.IsNotExist(err) {
		return false, err
	}
	if err := os.MkdirAll(dir, 0755); err != nil {
		return false, fmt.Errorf("failed to create %s: %w", dir, err)
	}
	return true, nil
}

// ensureFile writes the file if absent, reporting whether it was
// created. Existing files are left untouched.
func ensureFile(path, content string) (bool, error) {
	if _, err := os.Stat(path); err == nil {
		return false, nil
	} else if !os.IsNotExist(err) {
		return false, err
	}
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		return false, fmt.Errorf("failed to write %s: %w", path, err)
	}
	return true, nil
}
