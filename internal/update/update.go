package update

import (
	"context"
	"encoding/json"
	"net/http"
	"strings"
	"time"
)

const releaseURL = "https://api.github.com/repos/readycatholic/readycatholic/releases/latest"

type ghRelease struct {
	TagName string `json:"tag_name"`
}

// Checker looks up the newest published release on GitHub.
type Checker struct {
	client *http.Client
	url    string
}

func NewChecker() *Checker {
	return &Checker{
		client: &http.Client{Timeout: 5 * time.Second},
		url:    releaseURL,
	}
}

// Available returns the newest version when it differs from current,
// without a leading "v". It returns "" when current is up to date or
// when the check fails; a failed check is never worth surfacing.
func (c *Checker) Available(ctx context.Context, current string) string {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.url, nil)
	if err != nil {
		return ""
	}
	req.Header.Set("Accept", "application/vnd.github+json")

	resp, err := c.client.Do(req)
	if err != nil {
		return ""
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return ""
	}

	var release ghRelease
	if err := json.NewDecoder(resp.Body).Decode(&release); err != nil {
		return ""
	}

	latest := strings.TrimPrefix(release.TagName, "v")
	if latest == "" || latest == strings.TrimPrefix(current, "v") {
		return ""
	}
	return latest
}
