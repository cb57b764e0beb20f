package httpx

import (
    "context"
    "fmt"
    "io"
    "net/http"
    "strings"
    "time"
)

var (
    DefaultTimeout = 20 * time.Second
    PollInterval   = 300 * time.Millisecond
    MaxBody        int64 = 1 << 20
)

// GetJSON fetches url and returns the body. Non-2xx answers become errors
// carrying the start of the body.
func GetJSON(ctx context.Context, url string) ([]byte, error) {
    ctx, cancel := context.WithTimeout(ctx, DefaultTimeout)
    defer cancel()

    req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
    if err != nil {
        return nil, err
    }
    req.Header.Set("Accept", "application/json")
    resp, err := http.DefaultClient.Do(req)
    if err != nil {
        return nil, err
    }
    defer resp.Body.Close()
    body, err := io.ReadAll(io.LimitReader(resp.Body, MaxBody))
    if err != nil {
        return nil, fmt.Errorf("GET %s: %w", url, err)
    }
    if resp.StatusCode < 200 || resp.StatusCode >= 300 {
        if len(body) > 4096 {
            body = body[:4096]
        }
        return nil, fmt.Errorf("GET %s: %s (%d)", url, strings.TrimSpace(string(body)), resp.StatusCode)
    }
    return body, nil
}

// WaitHTTPUp polls url until it answers with a non-5xx status, the timeout
// passes or ctx is done.
func WaitHTTPUp(ctx context.Context, url string, timeout time.Duration) error {
    ctx, cancel := context.WithTimeout(ctx, timeout)
    defer cancel()
    for {
        req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
        if err != nil {
            return err
        }
        resp, err := http.DefaultClient.Do(req)
        if err == nil {
            resp.Body.Close()
            if resp.StatusCode < 500 {
                return nil
            }
        }
        select {
        case <-ctx.Done():
            return fmt.Errorf("timeout waiting for %s", url)
        case <-time.After(PollInterval):
        }
    }
}
