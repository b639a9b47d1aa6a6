package util

import (
	"context"
	"errors"
	"fmt"
	"os/exec"
	"path/filepath"
	"strings"
	"time"

	"github.com/markusressel/karlson/internal/ui"
)

// CommandRunner executes a command and returns its trimmed standard output
type CommandRunner func(executable string, args []string) (string, error)

// NewCommandRunner returns a CommandRunner using SafeCmdExecution with the given timeout
func NewCommandRunner(timeout time.Duration) CommandRunner {
	return func(executable string, args []string) (string, error) {
		return SafeCmdExecution(executable, args, timeout)
	}
}

func SafeCmdExecution(executable string, args []string, timeout time.Duration) (string, error) {
	if !filepath.IsAbs(executable) {
		resolved, err := exec.LookPath(executable)
		if err != nil {
			return "", fmt.Errorf("cannot find %s: %w", executable, err)
		}
		executable = resolved
	}

	if _, err := CheckFilePermissionsForExecution(executable); err != nil {
		return "", errors.New(fmt.Sprintf("Cannot execute %s: %s", executable, err))
	}

	ctx, cancel := context.WithTimeout(context.Background(), timeout)
	defer cancel()

	cmd := exec.CommandContext(ctx, executable, args...)
	out, err := cmd.Output()

	if ctx.Err() == context.DeadlineExceeded {
		ui.Warning("Command timed out: %s", executable)
		return "", ctx.Err()
	}

	if err != nil {
		ui.Debug("Command failed to execute: %s %s: %v", executable, strings.Join(args, " "), err)
		return "", err
	}

	return strings.Trim(string(out), "\n"), nil
}
