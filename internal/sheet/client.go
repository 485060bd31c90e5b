// Package sheet talks to the Google Apps Script web app that fronts the
// spreadsheet. One POST per call, no retries; a retried event can duplicate a
// row because the web app is not idempotent.
package sheet

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"docline/internal/extract"
)

// previewLimit caps how many rows a list query returns for preview.
const previewLimit = 10

// Row is one persisted record as the web app returns it.
type Row struct {
	EmployeeCode string `json:"employeeCode"`
	Identifier   string `json:"identifier"`
	SecondaryID  string `json:"secondaryId"`
	DocNumber    string `json:"docNumber"`
	Name         string `json:"name"`
	Date         string `json:"date"`
	Total        string `json:"total"`
	Timestamp    string `json:"timestamp"`
}

// Client calls the Apps Script web app
type Client struct {
	url        string
	httpClient *http.Client
}

// NewClient creates a new Client for the given web app URL
func NewClient(url string) *Client {
	return NewClientWithHTTPClient(url, &http.Client{Timeout: 20 * time.Second})
}

// NewClientWithHTTPClient creates a Client with a custom http.Client for testing
func NewClientWithHTTPClient(url string, httpClient *http.Client) *Client {
	return &Client{url: url, httpClient: httpClient}
}

// Persist stores one extracted record as a sheet row.
func (c *Client) Persist(ctx context.Context, employeeCode string, rec extract.Record) error {
	payload := rec.Fields()
	payload["employeeCode"] = employeeCode

	body, err := json.Marshal(payload)
	if err != nil {
		return fmt.Errorf("marshaling record: %w", err)
	}

	resp, err := c.post(ctx, body)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		b, _ := io.ReadAll(resp.Body)
		return fmt.Errorf("sheet API error (status %d): %s", resp.StatusCode, string(b))
	}
	return nil
}

type queryRequest struct {
	Action       string `json:"action"`
	EmployeeCode string `json:"employeeCode"`
	Value        string `json:"value"`
}

type queryResponse struct {
	Rows  []Row `json:"rows"`
	Count int   `json:"count"`
}

// FindByIdentifier looks up the single row with the given receipt identifier.
// Returns nil when no row matches.
func (c *Client) FindByIdentifier(ctx context.Context, employeeCode, identifier string) (*Row, error) {
	rows, _, err := c.query(ctx, "findByIdentifier", employeeCode, identifier)
	if err != nil {
		return nil, err
	}
	if len(rows) == 0 {
		return nil, nil
	}
	return &rows[0], nil
}

// FindBySecondaryID lists rows for a patient id, capped for preview.
func (c *Client) FindBySecondaryID(ctx context.Context, employeeCode, secondaryID string) ([]Row, error) {
	rows, _, err := c.query(ctx, "findBySecondaryId", employeeCode, secondaryID)
	if err != nil {
		return nil, err
	}
	return capRows(rows), nil
}

// FindByName lists rows matching a name, capped for preview.
func (c *Client) FindByName(ctx context.Context, employeeCode, name string) ([]Row, error) {
	rows, _, err := c.query(ctx, "findByName", employeeCode, name)
	if err != nil {
		return nil, err
	}
	return capRows(rows), nil
}

// CountByDate counts rows persisted for the given document date.
func (c *Client) CountByDate(ctx context.Context, employeeCode, date string) (int, error) {
	_, count, err := c.query(ctx, "countByDate", employeeCode, date)
	return count, err
}

func (c *Client) query(ctx context.Context, action, employeeCode, value string) ([]Row, int, error) {
	body, err := json.Marshal(queryRequest{Action: action, EmployeeCode: employeeCode, Value: value})
	if err != nil {
		return nil, 0, fmt.Errorf("marshaling query: %w", err)
	}

	resp, err := c.post(ctx, body)
	if err != nil {
		return nil, 0, err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		b, _ := io.ReadAll(resp.Body)
		return nil, 0, fmt.Errorf("sheet API error (status %d): %s", resp.StatusCode, string(b))
	}

	var qr queryResponse
	if err := json.NewDecoder(resp.Body).Decode(&qr); err != nil {
		return nil, 0, fmt.Errorf("decoding query response: %w", err)
	}
	return qr.Rows, qr.Count, nil
}

func (c *Client) post(ctx context.Context, body []byte) (*http.Response, error) {
	req, err := http.NewRequestWithContext(ctx, "POST", c.url, bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("creating request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("calling sheet API: %w", err)
	}
	return resp, nil
}

func capRows(rows []Row) []Row {
	if len(rows) > previewLimit {
		return rows[:previewLimit]
	}
	return rows
}
