package actions

import (
	"bytes"
	"context"
	"errors"
	"os/exec"
	"runtime"
	"strings"
	"time"

	"github.com/aretw0/deckhand/pkg/domain"
)

// DefaultCommandTimeout bounds every shell command.
const DefaultCommandTimeout = 120 * time.Second

// TimeoutMessage is reported in stderr when a command exceeds its timeout.
const TimeoutMessage = "Command timed out"

// Shell runs command lines through the host shell.
type Shell struct {
	program string
	args    []string
	timeout time.Duration
	dir     string
}

// ShellOption configures a Shell.
type ShellOption func(*Shell)

// WithTimeout overrides DefaultCommandTimeout. Non-positive values are ignored.
func WithTimeout(d time.Duration) ShellOption {
	return func(s *Shell) {
		if d > 0 {
			s.timeout = d
		}
	}
}

// WithShell sets the interpreter command line, e.g. "bash -c".
// The command to run is appended as the last argument.
func WithShell(commandLine string) ShellOption {
	return func(s *Shell) {
		fields := strings.Fields(commandLine)
		if len(fields) == 0 {
			return
		}
		s.program = fields[0]
		s.args = fields[1:]
	}
}

// WithDir sets the working directory of executed commands.
func WithDir(dir string) ShellOption {
	return func(s *Shell) {
		s.dir = dir
	}
}

// NewShell creates a Shell using "sh -c" ("cmd /C" on Windows).
func NewShell(opts ...ShellOption) *Shell {
	s := &Shell{
		program: "sh",
		args:    []string{"-c"},
		timeout: DefaultCommandTimeout,
	}
	if runtime.GOOS == "windows" {
		s.program = "cmd"
		s.args = []string{"/C"}
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Timeout returns the effective command timeout.
func (s *Shell) Timeout() time.Duration {
	return s.timeout
}

// Run executes command and captures both streams.
//
// A non-zero exit is reported through ReturnCode. A timeout yields ReturnCode -1 and
// TimeoutMessage; any other launch failure yields ReturnCode -1 and the error text.
func (s *Shell) Run(ctx context.Context, command string) domain.CommandReport {
	ctx, cancel := context.WithTimeout(ctx, s.timeout)
	defer cancel()

	args := append(append([]string{}, s.args...), command)
	cmd := exec.CommandContext(ctx, s.program, args...)
	cmd.Dir = s.dir
	configureProcess(cmd)
	// Grandchildren may keep the pipes open after the shell is killed.
	cmd.WaitDelay = 2 * time.Second

	var stdout, stderr bytes.Buffer
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr

	err := cmd.Run()

	if errors.Is(ctx.Err(), context.DeadlineExceeded) {
		return domain.CommandReport{Stdout: "", Stderr: TimeoutMessage, ReturnCode: -1}
	}
	if errors.Is(err, exec.ErrWaitDelay) && cmd.ProcessState != nil {
		// The shell exited but a background child still held the pipes.
		return domain.CommandReport{
			Stdout:     stdout.String(),
			Stderr:     stderr.String(),
			ReturnCode: cmd.ProcessState.ExitCode(),
		}
	}
	if err != nil {
		var exitErr *exec.ExitError
		if errors.As(err, &exitErr) && ctx.Err() == nil {
			return domain.CommandReport{
				Stdout:     stdout.String(),
				Stderr:     stderr.String(),
				ReturnCode: exitErr.ExitCode(),
			}
		}
		if ctxErr := ctx.Err(); ctxErr != nil {
			err = ctxErr
		}
		return domain.CommandReport{Stdout: "", Stderr: err.Error(), ReturnCode: -1}
	}

	return domain.CommandReport{
		Stdout:     stdout.String(),
		Stderr:     stderr.String(),
		ReturnCode: 0,
	}
}
