// Package discover finds the test packages beneath a run root.
package discover

import (
	"fmt"
	"io/fs"
	"os"
	"path/filepath"

	"github.com/AndreyAkinshin/partest/internal/errors"
	"github.com/AndreyAkinshin/partest/internal/manifest"
	"github.com/AndreyAkinshin/partest/internal/model"
)

// Discoverer walks a directory tree looking for package roots.
//
// A directory is a candidate when it directly contains Marker. A candidate whose
// own name equals TestDir is ignored, so test-support packages nested inside a
// package's test directory are never run on their own. A candidate without a
// TestDir subdirectory is reported through Warn and skipped.
type Discoverer struct {
	Root      string
	Marker    string
	TestDir   string
	Toolchain string   // Recorded on every discovered package
	Exclude   []string // Glob patterns matched against directory base names; matching subtrees are pruned

	// Warn receives non-fatal diagnostics. May be nil.
	Warn func(format string, args ...interface{})
}

// Discover returns the packages under Root in directory-walk order.
// The order is lexical and therefore stable for an unchanged tree.
func (d *Discoverer) Discover() ([]model.Package, error) {
	if d.Marker == "" {
		return nil, errors.Config("discover: marker file name is empty")
	}
	for _, pattern := range d.Exclude {
		if _, err := filepath.Match(pattern, ""); err != nil {
			return nil, errors.Configf("invalid exclude pattern %q: %v", pattern, err)
		}
	}

	root, err := ValidateRoot(d.Root)
	if err != nil {
		return nil, err
	}

	var packages []model.Package
	walkErr := filepath.WalkDir(root, func(path string, entry fs.DirEntry, err error) error {
		if err != nil {
			if path == root {
				return errors.InvalidRoot(d.Root, err)
			}
			d.warn("skipping '%s': %v", d.rel(root, path), err)
			if entry != nil && entry.IsDir() {
				return filepath.SkipDir
			}
			return nil
		}
		if !entry.IsDir() {
			return nil
		}

		name := entry.Name()
		if path != root && d.excluded(name) {
			return filepath.SkipDir
		}
		// Not a package itself, but packages may still live below it.
		if d.TestDir != "" && name == d.TestDir {
			return nil
		}
		if !isFile(filepath.Join(path, d.Marker)) {
			return nil
		}

		rel := d.rel(root, path)
		if d.TestDir != "" && !isDir(filepath.Join(path, d.TestDir)) {
			d.warn("no tests found in '%s'", rel)
			return nil
		}

		packages = append(packages, model.Package{
			Path:      path,
			RelPath:   rel,
			Name:      manifest.Name(filepath.Join(path, d.Marker)),
			Toolchain: d.Toolchain,
		})
		return nil
	})
	if walkErr != nil {
		return nil, walkErr
	}

	return packages, nil
}

// WorkItems wraps packages for the work queue, preserving discovery order.
func WorkItems(packages []model.Package) []model.WorkItem {
	items := make([]model.WorkItem, len(packages))
	for i, p := range packages {
		items[i] = model.WorkItem{Index: i, Package: p}
	}
	return items
}

// ValidateRoot checks that root exists and is a directory, returning its
// absolute, symlink-free path. An empty root means the working directory.
func ValidateRoot(root string) (string, error) {
	if root == "" {
		root = "."
	}
	abs, err := filepath.Abs(root)
	if err != nil {
		return "", errors.InvalidRoot(root, err)
	}
	info, err := os.Stat(abs)
	if err != nil {
		return "", errors.InvalidRoot(root, err)
	}
	if !info.IsDir() {
		return "", errors.InvalidRoot(root, fmt.Errorf("not a directory"))
	}
	// WalkDir does not descend into a symlinked root.
	resolved, err := filepath.EvalSymlinks(abs)
	if err != nil {
		return "", errors.InvalidRoot(root, err)
	}
	return resolved, nil
}

func (d *Discoverer) excluded(name string) bool {
	for _, pattern := range d.Exclude {
		if ok, _ := filepath.Match(pattern, name); ok {
			return true
		}
	}
	return false
}

func (d *Discoverer) rel(root, path string) string {
	rel, err := filepath.Rel(root, path)
	if err != nil {
		return path
	}
	return rel
}

func (d *Discoverer) warn(format string, args ...interface{}) {
	if d.Warn != nil {
		d.Warn(format, args...)
	}
}

func isFile(path string) bool {
	info, err := os.Stat(path)
	return err == nil && !info.IsDir()
}

func isDir(path string) bool {
	info, err := os.Stat(path)
	return err == nil && info.IsDir()
}
