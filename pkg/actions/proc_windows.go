//go:build windows

package actions

import "os/exec"

func configureProcess(cmd *exec.Cmd) {}
