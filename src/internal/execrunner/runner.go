// Package execrunner runs external programs with a hard timeout.
//
// Each process is started in its own process group, and the whole group is
// killed when the timeout expires or the context is cancelled, so that shell
// wrappers cannot leave orphaned children behind.
package execrunner

import (
	"bytes"
	"context"
	"fmt"
	"os/exec"
	"path/filepath"
	"syscall"
	"time"

	"golang.org/x/sys/unix"

	"github.com/maksimkurb/hostconf/src/internal/errors"
	"github.com/maksimkurb/hostconf/src/internal/log"
	"github.com/maksimkurb/hostconf/src/internal/metrics"
)

// maxOutput caps captured stdout and stderr each.
const maxOutput = 64 * 1024

// waitDelay bounds how long Wait blocks on output pipes after the process is killed.
const waitDelay = 2 * time.Second

var logger = log.Prefixed("exec")

// Result is the outcome of a process that ran to completion.
type Result struct {
	ExitCode int
	Stdout   string
	Stderr   string
	Duration time.Duration
}

// Output returns stdout followed by stderr.
func (r *Result) Output() string {
	if r.Stdout == "" {
		return r.Stderr
	}
	if r.Stderr == "" {
		return r.Stdout
	}
	return r.Stdout + "\n" + r.Stderr
}

// Runner runs an external program. A non-zero exit status is reported in
// Result, not as an error; errors mean the program could not be run to completion.
type Runner interface {
	Run(ctx context.Context, name string, args []string, timeout time.Duration) (*Result, error)
}

// ProcessRunner runs programs as OS processes.
type ProcessRunner struct{}

// NewProcessRunner creates a ProcessRunner.
func NewProcessRunner() *ProcessRunner {
	return &ProcessRunner{}
}

// Run starts name with args and waits for it to exit or for timeout to expire.
func (p *ProcessRunner) Run(ctx context.Context, name string, args []string, timeout time.Duration) (*Result, error) {
	command := filepath.Base(name)
	metrics.Get().ProcessRuns.WithLabelValues(command).Inc()

	var stdout, stderr limitedBuffer
	cmd := exec.Command(name, args...)
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr
	cmd.SysProcAttr = &syscall.SysProcAttr{Setpgid: true}
	cmd.WaitDelay = waitDelay

	started := time.Now()
	if err := cmd.Start(); err != nil {
		return nil, errors.Wrap(errors.ErrCodeServiceControl, fmt.Sprintf("failed to start %s", command), err)
	}
	logger.Debugf("Started %s %v (pid %d)", name, args, cmd.Process.Pid)

	done := make(chan error, 1)
	go func() {
		done <- cmd.Wait()
	}()

	timer := time.NewTimer(timeout)
	defer timer.Stop()

	select {
	case err := <-done:
		result := &Result{
			Stdout:   stdout.String(),
			Stderr:   stderr.String(),
			Duration: time.Since(started),
		}
		if err != nil {
			exitErr, ok := err.(*exec.ExitError)
			if !ok {
				return nil, errors.Wrap(errors.ErrCodeServiceControl, fmt.Sprintf("failed to run %s", command), err)
			}
			result.ExitCode = exitErr.ExitCode()
		}
		logger.Debugf("%s exited with status %d after %s", command, result.ExitCode, result.Duration)
		return result, nil

	case <-timer.C:
		killGroup(cmd)
		<-done
		metrics.Get().ProcessTimeouts.WithLabelValues(command).Inc()
		logger.Warnf("%s did not finish within %s and was killed", command, timeout)
		return nil, errors.NewTimeoutError(fmt.Sprintf("%s did not finish within %s", command, timeout), nil)

	case <-ctx.Done():
		killGroup(cmd)
		<-done
		logger.Warnf("%s was killed: %v", command, ctx.Err())
		return nil, errors.NewTimeoutError(fmt.Sprintf("%s was interrupted", command), ctx.Err())
	}
}

func killGroup(cmd *exec.Cmd) {
	pid := cmd.Process.Pid
	if err := unix.Kill(-pid, unix.SIGKILL); err != nil {
		// The group leader may have exited already; fall back to the process itself.
		_ = cmd.Process.Kill()
	}
}

// limitedBuffer keeps the first maxOutput bytes written to it and discards the rest.
type limitedBuffer struct {
	buf bytes.Buffer
}

func (b *limitedBuffer) Write(p []byte) (int, error) {
	if room := maxOutput - b.buf.Len(); room > 0 {
		if len(p) > room {
			b.buf.Write(p[:room])
		} else {
			b.buf.Write(p)
		}
	}
	return len(p), nil
}

func (b *limitedBuffer) String() string {
	return b.buf.String()
}
