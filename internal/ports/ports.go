package ports

import (
    "fmt"
    "net"
)

func FindFreePort() (int, error) {
    l, err := net.Listen("tcp", "127.0.0.1:0")
    if err != nil {
        return 0, fmt.Errorf("listen: %w", err)
    }
    defer l.Close()
    return l.Addr().(*net.TCPAddr).Port, nil
}

// CheckAddr reports whether the preview server could listen on addr.
// Port 0 always passes once the host resolves.
func CheckAddr(addr string) error {
    if _, _, err := net.SplitHostPort(addr); err != nil {
        return fmt.Errorf("bad address %q: %w", addr, err)
    }
    l, err := net.Listen("tcp", addr)
    if err != nil {
        return fmt.Errorf("listen %s: %w", addr, err)
    }
    return l.Close()
}
