package actions

import (
	"context"
	"path/filepath"
	"runtime"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestShell_Run(t *testing.T) {
	sh := NewShell()

	t.Run("captures stdout", func(t *testing.T) {
		report := sh.Run(context.Background(), "echo hello from robot")
		assert.Equal(t, 0, report.ReturnCode)
		assert.Contains(t, report.Stdout, "hello from robot")
	})

	t.Run("reports non-zero exit codes", func(t *testing.T) {
		report := sh.Run(context.Background(), "exit 3")
		assert.Equal(t, 3, report.ReturnCode)
	})

	t.Run("captures stderr", func(t *testing.T) {
		if runtime.GOOS == "windows" {
			t.Skip("uses POSIX redirection")
		}
		report := sh.Run(context.Background(), "echo oops 1>&2")
		assert.Equal(t, 0, report.ReturnCode)
		assert.Contains(t, report.Stderr, "oops")
		assert.Empty(t, report.Stdout)
	})
}

func TestShell_Timeout(t *testing.T) {
	if runtime.GOOS == "windows" {
		t.Skip("uses sleep")
	}
	sh := NewShell(WithTimeout(200 * time.Millisecond))

	start := time.Now()
	report := sh.Run(context.Background(), "echo partial; sleep 30")

	assert.Equal(t, -1, report.ReturnCode)
	assert.Equal(t, TimeoutMessage, report.Stderr)
	assert.Empty(t, report.Stdout)
	assert.Less(t, time.Since(start), 10*time.Second, "the process group should be killed promptly")
}

func TestShell_LaunchFailure(t *testing.T) {
	sh := NewShell(WithShell("/definitely/not/a/shell -c"))

	report := sh.Run(context.Background(), "echo hi")

	assert.Equal(t, -1, report.ReturnCode)
	assert.NotEmpty(t, report.Stderr)
	assert.Empty(t, report.Stdout)
}

func TestShell_Options(t *testing.T) {
	sh := NewShell(WithTimeout(0))
	assert.Equal(t, DefaultCommandTimeout, sh.Timeout())

	sh = NewShell(WithTimeout(time.Second), WithShell("   "))
	assert.Equal(t, time.Second, sh.Timeout())
	assert.NotEmpty(t, sh.program)
}

func TestShell_WorkingDirectory(t *testing.T) {
	if runtime.GOOS == "windows" {
		t.Skip("uses pwd")
	}
	dir := t.TempDir()
	report := NewShell(WithDir(dir)).Run(context.Background(), "pwd")
	assert.Equal(t, 0, report.ReturnCode)
	assert.Contains(t, report.Stdout, filepath.Base(dir))
}
