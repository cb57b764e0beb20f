//go:build windows

package proc

import (
    "errors"
    "fmt"
    "os/exec"
    "syscall"

    winapi "golang.org/x/sys/windows"
)

func newSysProcAttrForGroup() *syscall.SysProcAttr {
    // New process group so taskkill /T reaches the node child of prettier.cmd
    return &syscall.SysProcAttr{CreationFlags: winapi.CREATE_NEW_PROCESS_GROUP}
}

func terminate(cmd *exec.Cmd) error {
    if cmd.Process == nil { return errors.New("no process") }
    return killProcessGroup(cmd.Process.Pid)
}

func killProcessGroup(pid int) error {
    if pid <= 0 { return nil }
    return exec.Command("taskkill", "/PID", fmt.Sprint(pid), "/T", "/F").Run()
}
