package actions

import (
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"runtime"
	"strings"

	"github.com/bmatcuk/doublestar/v4"
)

// FindFiles walks searchPath recursively and returns the absolute paths of the files
// whose base name matches the glob pattern. searchPath defaults to ".".
//
// Directories that cannot be read are skipped without error, and so is a missing root or
// one that is not a directory. Unclosed brackets and braces match literally.
// Results follow traversal order.
func FindFiles(pattern, searchPath string) ([]string, error) {
	pattern = literalizeUnclosed(pattern)
	if searchPath == "" {
		searchPath = "."
	}
	root, err := filepath.Abs(searchPath)
	if err != nil {
		return nil, fmt.Errorf("resolve search path: %w", err)
	}
	if info, err := os.Stat(root); err != nil || !info.IsDir() {
		return []string{}, nil
	}

	matches := []string{}
	walkErr := filepath.WalkDir(root, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			if d != nil && d.IsDir() {
				return fs.SkipDir
			}
			return nil
		}
		if d.IsDir() {
			return nil
		}
		if d.Type()&fs.ModeSymlink != 0 {
			// Links to directories are not files and are not followed.
			if info, statErr := os.Stat(path); statErr == nil && info.IsDir() {
				return nil
			}
		}
		ok, err := matchName(pattern, d.Name())
		if err != nil {
			return err
		}
		if ok {
			matches = append(matches, path)
		}
		return nil
	})
	if walkErr != nil {
		return nil, walkErr
	}
	return matches, nil
}

// literalizeUnclosed escapes '[' and '{' that have no closing partner, and a trailing
// backslash, so that such patterns match those characters literally.
func literalizeUnclosed(pattern string) string {
	if doublestar.ValidatePattern(pattern) {
		return pattern
	}
	var b strings.Builder
	for i := 0; i < len(pattern); i++ {
		c := pattern[i]
		switch {
		case c == '\\' && i+1 < len(pattern):
			b.WriteByte(c)
			i++
			c = pattern[i]
		case c == '\\':
			b.WriteByte(c)
		case c == '[' && !strings.Contains(pattern[i+1:], "]"),
			c == '{' && !strings.Contains(pattern[i+1:], "}"):
			b.WriteByte('\\')
		}
		b.WriteByte(c)
	}
	if escaped := b.String(); doublestar.ValidatePattern(escaped) {
		return escaped
	}
	return escapeMeta(pattern)
}

func escapeMeta(pattern string) string {
	var b strings.Builder
	for _, r := range pattern {
		if strings.ContainsRune(`*?[]{}\`, r) {
			b.WriteByte('\\')
		}
		b.WriteRune(r)
	}
	return b.String()
}

func matchName(pattern, name string) (bool, error) {
	if runtime.GOOS == "windows" {
		pattern = strings.ToLower(pattern)
		name = strings.ToLower(name)
	}
	return doublestar.Match(pattern, name)
}
