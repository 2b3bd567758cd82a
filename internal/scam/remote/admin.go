package remote

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strconv"

	"scamwatch.org/internal/scam"
)

// Admin calls are a proxy, not enrichment: the caller asked for the sibling
// service's data directly, so failures propagate instead of degrading.

// ListAll fetches every report. Requires an admin bearer token.
func (c *Client) ListAll(ctx context.Context, bearer string) ([]scam.Report, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+"/v1/reports", nil)
	if err != nil {
		return nil, err
	}
	req.Header.Set("Accept", "application/json")
	if bearer != "" {
		req.Header.Set("Authorization", "Bearer "+bearer)
	}
	resp, err := c.http.Do(req)
	if err != nil {
		return nil, fmt.Errorf("reports service: %w", err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("reports service: unexpected status %d", resp.StatusCode)
	}
	var reports []scam.Report
	if err := json.NewDecoder(io.LimitReader(resp.Body, 8<<20)).Decode(&reports); err != nil {
		return nil, fmt.Errorf("reports service: decode response: %w", err)
	}
	if reports == nil {
		reports = []scam.Report{}
	}
	return reports, nil
}

// Delete removes a report by id. Requires an admin bearer token.
func (c *Client) Delete(ctx context.Context, id int, bearer string) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodDelete, c.baseURL+"/v1/reports/"+strconv.Itoa(id), nil)
	if err != nil {
		return err
	}
	if bearer != "" {
		req.Header.Set("Authorization", "Bearer "+bearer)
	}
	resp, err := c.http.Do(req)
	if err != nil {
		return fmt.Errorf("reports service: %w", err)
	}
	defer resp.Body.Close()
	switch resp.StatusCode {
	case http.StatusOK, http.StatusNoContent:
		return nil
	case http.StatusNotFound:
		return scam.ErrNotFound
	default:
		return fmt.Errorf("reports service: unexpected status %d", resp.StatusCode)
	}
}
