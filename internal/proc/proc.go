// Package proc runs short-lived helper processes such as external
// formatters and makes sure they die with their context.
package proc

import (
	"bufio"
	"bytes"
	"context"
	"errors"
	"fmt"
	"os/exec"
	"runtime"
	"strings"
	"time"
)

// ErrNotFound is returned when the executable is not on PATH.
var ErrNotFound = errors.New("executable not found")

// killGrace is how long a child gets after the interrupt before the whole
// process group is killed.
var killGrace = 2 * time.Second

// ExitError is a child that ran but failed. Stderr holds the first lines
// of its error output.
type ExitError struct {
	Name   string
	Stderr string
	Err    error
}

func (e *ExitError) Error() string {
	if e.Stderr == "" {
		return fmt.Sprintf("%s: %v", e.Name, e.Err)
	}
	return fmt.Sprintf("%s: %v: %s", e.Name, e.Err, e.Stderr)
}

func (e *ExitError) Unwrap() error { return e.Err }

// Available reports whether name resolves on PATH and where.
func Available(name string) (string, bool) {
	p, err := exec.LookPath(name)
	if err != nil {
		return "", false
	}
	return p, true
}

// Run starts name with args, feeds stdin and returns stdout. The child runs
// in its own process group; cancelling ctx interrupts the group, then kills
// it after a short grace period.
func Run(ctx context.Context, name string, args []string, stdin string) ([]byte, error) {
	path, ok := Available(name)
	if !ok {
		return nil, fmt.Errorf("%s: %w", name, ErrNotFound)
	}
	cmd := exec.Command(path, args...)
	cmd.SysProcAttr = newSysProcAttrForGroup()
	cmd.Stdin = strings.NewReader(stdin)
	cmd.WaitDelay = killGrace
	var stdout, stderr bytes.Buffer
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr

	if err := cmd.Start(); err != nil {
		return nil, fmt.Errorf("start %s: %w", name, err)
	}
	done := make(chan error, 1)
	go func() { done <- cmd.Wait() }()

	select {
	case err := <-done:
		if err != nil {
			return nil, &ExitError{Name: name, Stderr: firstLines(stderr.String(), 5), Err: err}
		}
		return stdout.Bytes(), nil
	case <-ctx.Done():
		_ = terminate(cmd)
		select {
		case <-done:
		case <-time.After(killGrace):
			_ = killProcessGroup(cmd.Process.Pid)
			<-done
		}
		return nil, fmt.Errorf("%s: %w", name, ctx.Err())
	}
}

// Opener is the desktop command OpenURL runs on this platform.
func Opener() string {
	name, _ := openerCommand("")
	return name
}

func openerCommand(url string) (string, []string) {
	switch runtime.GOOS {
	case "darwin":
		return "open", []string{url}
	case "windows":
		return "rundll32", []string{"url.dll,FileProtocolHandler", url}
	default:
		return "xdg-open", []string{url}
	}
}

// OpenURL asks the desktop to open url in the default browser.
func OpenURL(ctx context.Context, url string) error {
	name, args := openerCommand(url)
	_, err := Run(ctx, name, args, "")
	return err
}

func firstLines(s string, n int) string {
	sc := bufio.NewScanner(strings.NewReader(s))
	var out []string
	for sc.Scan() && len(out) < n {
		line := strings.TrimSpace(sc.Text())
		if line == "" {
			continue
		}
		out = append(out, line)
	}
	return strings.Join(out, " | ")
}
