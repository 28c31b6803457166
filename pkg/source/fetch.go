package source

import (
	"fmt"
	"strings"

	"github.com/go-resty/resty/v2"
)

// Fetch downloads a record file and returns its first line.
func Fetch(client *resty.Client, url string) (string, error) {
	resp, err := client.R().Get(url)
	if err != nil {
		return "", fmt.Errorf("fetching %s: %w", url, err)
	}
	if resp.IsError() {
		return "", fmt.Errorf("fetching %s: %s", url, resp.Status())
	}

	line := string(resp.Body())
	if i := strings.IndexByte(line, '\n'); i >= 0 {
		line = line[:i]
	}
	line = strings.TrimRight(line, "\r")
	if line == "" {
		return "", fmt.Errorf("fetching %s: empty record", url)
	}
	return line, nil
}
