package utils

import (
	"fmt"
	"net/http"
	"time"
)

// PingURL performs a GET against the URL and reports non-2xx statuses as
// errors. Used by the healthcheck binary against the running API.
func PingURL(url string) error {
	client := &http.Client{Timeout: 5 * time.Second}
	resp, err := client.Get(url)
	if err != nil {
		return fmt.Errorf("ping %s: %w", url, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return fmt.Errorf("ping %s: unexpected status %d", url, resp.StatusCode)
	}

	return nil
}
