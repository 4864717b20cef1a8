package dictionary

import (
	"context"
	"net/http"
	"time"
)

const defaultTimeout = 10 * time.Second

// HTTPSource fetches a term list in the line format from URL.
type HTTPSource struct {
	URL    string
	Client *http.Client
}

func (s HTTPSource) Terms(ctx context.Context) ([]string, error) {
	client := s.Client
	if client == nil {
		client = &http.Client{Timeout: defaultTimeout}
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, s.URL, nil)
	if err != nil {
		return nil, err
	}

	resp, err := client.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, statusError(s.URL, resp.StatusCode)
	}

	return readLines(resp.Body)
}

func (s HTTPSource) String() string {
	return "url " + s.URL
}
