package seed

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/veganaut/veganaut-backend/internal/domain/model"
)

var teams = []string{"team1", "team2", "team3", "team4", "team5"}

// client wraps the HTTP surface of a running instance.
type client struct {
	baseURL string
	http    *http.Client
}

func newClient(baseURL string, timeout time.Duration) *client {
	return &client{
		baseURL: baseURL,
		http:    &http.Client{Timeout: timeout},
	}
}

func (c *client) postJSON(ctx context.Context, path string, body any, out any) error {
	payload, err := json.Marshal(body)
	if err != nil {
		return fmt.Errorf("marshal request: %w", err)
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+path, bytes.NewReader(payload))
	if err != nil {
		return fmt.Errorf("build request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.http.Do(req)
	if err != nil {
		return fmt.Errorf("post %s: %w", path, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode >= http.StatusBadRequest {
		detail, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		return fmt.Errorf("post %s: status %d: %s", path, resp.StatusCode, detail)
	}
	if out != nil {
		if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
			return fmt.Errorf("decode %s response: %w", path, err)
		}
	}
	return nil
}

func (c *client) createPersons(ctx context.Context, n int) ([]string, error) {
	ids := make([]string, 0, n)
	for i := 0; i < n; i++ {
		var created struct {
			ID string `json:"id"`
		}
		body := map[string]string{"team": teams[i%len(teams)]}
		if err := c.postJSON(ctx, "/v1/persons", body, &created); err != nil {
			return nil, err
		}
		ids = append(ids, created.ID)
	}
	return ids, nil
}

func (c *client) createLocations(ctx context.Context, n int) ([]string, error) {
	ids := make([]string, 0, n)
	for i := 0; i < n; i++ {
		var created struct {
			ID string `json:"id"`
		}
		body := map[string]string{"name": fmt.Sprintf("Seeded location %d", i+1)}
		if err := c.postJSON(ctx, "/v1/locations", body, &created); err != nil {
			return nil, err
		}
		ids = append(ids, created.ID)
	}
	return ids, nil
}

func (c *client) submitTask(ctx context.Context, req taskRequest) (*model.SubmissionResult, error) {
	var res model.SubmissionResult
	if err := c.postJSON(ctx, "/v1/tasks", req, &res); err != nil {
		return nil, err
	}
	return &res, nil
}
