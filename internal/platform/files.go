package platform

import (
	"io/fs"
	"os"
	"path/filepath"
	"strings"
)

// FileReader is the file-system collaborator used by probes. Paths are
// absolute OS paths.
type FileReader interface {
	ReadFile(name string) ([]byte, error)
	ReadDir(name string) ([]fs.DirEntry, error)
	Glob(pattern string) ([]string, error)
}

// OSFiles reads from the real file system.
type OSFiles struct{}

func (OSFiles) ReadFile(name string) ([]byte, error) { return os.ReadFile(name) }
func (OSFiles) ReadDir(name string) ([]fs.DirEntry, error) { return os.ReadDir(name) }
func (OSFiles) Glob(pattern string) ([]string, error) { return filepath.Glob(pattern) }

// FSFiles serves absolute paths from an fs.FS rooted at "/". It lets tests
// stand up a fake /proc or /sys with fstest.MapFS.
type FSFiles struct {
	FS fs.FS
}

func (f FSFiles) ReadFile(name string) ([]byte, error) {
	return fs.ReadFile(f.FS, rel(name))
}

func (f FSFiles) ReadDir(name string) ([]fs.DirEntry, error) {
	return fs.ReadDir(f.FS, rel(name))
}

func (f FSFiles) Glob(pattern string) ([]string, error) {
	matches, err := fs.Glob(f.FS, rel(pattern))
	if err != nil {
		return nil, err
	}
	for i, m := range matches {
		matches[i] = "/" + m
	}
	return matches, nil
}

func rel(name string) string {
	name = strings.TrimPrefix(filepath.ToSlash(name), "/")
	if name == "" {
		return "."
	}
	return name
}

// readTrimmed reads a small sysfs-style file and trims whitespace.
func readTrimmed(files FileReader, name string) (string, error) {
	data, err := files.ReadFile(name)
	if err != nil {
		return "", err
	}
	return strings.TrimSpace(string(data)), nil
}

// countDirs counts the directories in name, ignoring hidden entries.
func countDirs(files FileReader, name string) (int, error) {
	entries, err := files.ReadDir(name)
	if err != nil {
		return 0, err
	}
	n := 0
	for _, e := range entries {
		if e.IsDir() && !strings.HasPrefix(e.Name(), ".") {
			n++
		}
	}
	return n, nil
}
