package actions

import (
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
	"syscall"

	"github.com/aretw0/deckhand/pkg/domain"
)

// CollisionPolicy decides what happens when the destination folder already
// contains an entry with the source's base name.
type CollisionPolicy string

const (
	// CollisionOverwrite replaces the existing file.
	CollisionOverwrite CollisionPolicy = "overwrite"
	// CollisionFail records a per-file error and leaves both files untouched.
	CollisionFail CollisionPolicy = "fail"
	// CollisionRename keeps both by appending " (n)" to the new file's name.
	CollisionRename CollisionPolicy = "rename"
)

// ErrDestinationExists is reported under CollisionFail.
var ErrDestinationExists = errors.New("destination exists")

// ParseCollisionPolicy validates a policy name. The empty string selects CollisionOverwrite.
func ParseCollisionPolicy(s string) (CollisionPolicy, error) {
	switch p := CollisionPolicy(strings.ToLower(strings.TrimSpace(s))); p {
	case "":
		return CollisionOverwrite, nil
	case CollisionOverwrite, CollisionFail, CollisionRename:
		return p, nil
	default:
		return "", fmt.Errorf("unknown collision policy %q (want overwrite, fail or rename)", s)
	}
}

// MoveFiles moves every source into destination, keeping base names.
func MoveFiles(sources []string, destination string, policy CollisionPolicy) domain.TransferReport {
	return transfer(sources, destination, policy, "move", moveEntry)
}

// CopyFiles copies every source file into destination, keeping base names, mode and
// modification time. Sources are left in place.
func CopyFiles(sources []string, destination string, policy CollisionPolicy) domain.TransferReport {
	return transfer(sources, destination, policy, "copy", copyEntry)
}

func transfer(sources []string, destination string, policy CollisionPolicy, verb string, op func(src, dst string) error) domain.TransferReport {
	report := domain.TransferReport{Success: []string{}, Error: []string{}}

	dest, err := filepath.Abs(destination)
	if err == nil {
		err = os.MkdirAll(dest, 0o755)
	}
	if err != nil {
		report.Error = append(report.Error, fmt.Sprintf("Could not create destination %s: %v", destination, err))
		return report
	}

	for _, src := range sources {
		if _, err := os.Stat(src); err != nil {
			if errors.Is(err, fs.ErrNotExist) {
				report.Error = append(report.Error, fmt.Sprintf("Source not found: %s", src))
			} else {
				report.Error = append(report.Error, fmt.Sprintf("Failed to %s %s: %v", verb, src, err))
			}
			continue
		}

		target, err := resolveTarget(src, filepath.Join(dest, filepath.Base(src)), policy)
		if err == nil {
			err = op(src, target)
		}
		if err != nil {
			report.Error = append(report.Error, fmt.Sprintf("Failed to %s %s: %v", verb, src, err))
			continue
		}
		report.Success = append(report.Success, src)
	}
	return report
}

// resolveTarget applies the collision policy to the natural target path.
func resolveTarget(src, target string, policy CollisionPolicy) (string, error) {
	if _, err := os.Lstat(target); err != nil {
		return target, nil
	}
	if samePath(src, target) {
		return target, nil
	}
	switch policy {
	case CollisionFail:
		return "", fmt.Errorf("%w: %s", ErrDestinationExists, target)
	case CollisionRename:
		return uniqueName(target), nil
	default:
		return target, nil
	}
}

func uniqueName(target string) string {
	dir := filepath.Dir(target)
	ext := filepath.Ext(target)
	stem := strings.TrimSuffix(filepath.Base(target), ext)
	for n := 1; ; n++ {
		candidate := filepath.Join(dir, fmt.Sprintf("%s (%d)%s", stem, n, ext))
		if _, err := os.Lstat(candidate); errors.Is(err, fs.ErrNotExist) {
			return candidate
		}
	}
}

func samePath(a, b string) bool {
	ai, err := os.Stat(a)
	if err != nil {
		return false
	}
	bi, err := os.Stat(b)
	if err != nil {
		return false
	}
	return os.SameFile(ai, bi)
}

func moveEntry(src, dst string) error {
	err := os.Rename(src, dst)
	if err == nil || !errors.Is(err, syscall.EXDEV) {
		return err
	}
	// Cross-device: copy then remove.
	info, err := os.Stat(src)
	if err != nil {
		return err
	}
	if info.IsDir() {
		err = copyTree(src, dst)
	} else {
		err = copyFile(src, dst)
	}
	if err != nil {
		return err
	}
	return os.RemoveAll(src)
}

func copyEntry(src, dst string) error {
	if samePath(src, dst) {
		return fmt.Errorf("%s and %s are the same file", src, dst)
	}
	return copyFile(src, dst)
}

func copyFile(src, dst string) error {
	in, err := os.Open(src)
	if err != nil {
		return err
	}
	defer in.Close()

	info, err := in.Stat()
	if err != nil {
		return err
	}
	if info.IsDir() {
		return fmt.Errorf("%s is a directory", src)
	}

	out, err := os.OpenFile(dst, os.O_WRONLY|os.O_CREATE|os.O_TRUNC, info.Mode().Perm())
	if err != nil {
		return err
	}
	if _, err := io.Copy(out, in); err != nil {
		out.Close()
		return err
	}
	if err := out.Close(); err != nil {
		return err
	}
	if err := os.Chmod(dst, info.Mode().Perm()); err != nil {
		return err
	}
	return os.Chtimes(dst, info.ModTime(), info.ModTime())
}

func copyTree(src, dst string) error {
	return filepath.WalkDir(src, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		rel, err := filepath.Rel(src, path)
		if err != nil {
			return err
		}
		target := filepath.Join(dst, rel)
		if d.IsDir() {
			info, err := d.Info()
			if err != nil {
				return err
			}
			return os.MkdirAll(target, info.Mode().Perm())
		}
		return copyFile(path, target)
	})
}
