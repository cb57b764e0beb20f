//go:build !windows

package proc

import (
    "errors"
    "os/exec"
    "syscall"
)

func newSysProcAttrForGroup() *syscall.SysProcAttr {
    return &syscall.SysProcAttr{Setpgid: true}
}

// terminate interrupts the child's whole process group (npx wrappers fork).
func terminate(cmd *exec.Cmd) error {
    if cmd.Process == nil { return errors.New("no process") }
    return syscall.Kill(-cmd.Process.Pid, syscall.SIGTERM)
}

func killProcessGroup(pid int) error {
    if pid <= 0 { return nil }
    return syscall.Kill(-pid, syscall.SIGKILL)
}
