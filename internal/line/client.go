package line

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"
)

const (
	defaultAPIURL  = "https://api.line.me"
	defaultDataURL = "https://api-data.line.me"
)

// Client calls the LINE Messaging API: media retrieval and reply delivery.
type Client struct {
	token      string
	apiURL     string
	dataURL    string
	httpClient *http.Client
}

// NewClient creates a new Client with the channel access token
func NewClient(token string) *Client {
	return NewClientWithURLs(token, defaultAPIURL, defaultDataURL, &http.Client{Timeout: 15 * time.Second})
}

// NewClientWithURLs creates a Client against custom endpoints for testing
func NewClientWithURLs(token, apiURL, dataURL string, httpClient *http.Client) *Client {
	return &Client{
		token:      token,
		apiURL:     apiURL,
		dataURL:    dataURL,
		httpClient: httpClient,
	}
}

// FetchMedia retrieves the content of an image message and its content type.
func (c *Client) FetchMedia(ctx context.Context, messageID string) ([]byte, string, error) {
	url := fmt.Sprintf("%s/v2/bot/message/%s/content", c.dataURL, messageID)
	req, err := http.NewRequestWithContext(ctx, "GET", url, nil)
	if err != nil {
		return nil, "", fmt.Errorf("creating request: %w", err)
	}
	req.Header.Set("Authorization", "Bearer "+c.token)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, "", fmt.Errorf("calling LINE content API: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(resp.Body)
		return nil, "", fmt.Errorf("LINE content API error (status %d): %s", resp.StatusCode, string(body))
	}

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, "", fmt.Errorf("reading media body: %w", err)
	}

	return data, resp.Header.Get("Content-Type"), nil
}

type replyRequest struct {
	ReplyToken string         `json:"replyToken"`
	Messages   []replyMessage `json:"messages"`
}

type replyMessage struct {
	Type string `json:"type"`
	Text string `json:"text"`
}

// Reply delivers one text message for the given reply token.
func (c *Client) Reply(ctx context.Context, replyToken, text string) error {
	body, err := json.Marshal(replyRequest{
		ReplyToken: replyToken,
		Messages:   []replyMessage{{Type: "text", Text: text}},
	})
	if err != nil {
		return fmt.Errorf("marshaling reply: %w", err)
	}

	url := c.apiURL + "/v2/bot/message/reply"
	req, err := http.NewRequestWithContext(ctx, "POST", url, bytes.NewReader(body))
	if err != nil {
		return fmt.Errorf("creating request: %w", err)
	}
	req.Header.Set("Authorization", "Bearer "+c.token)
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("calling LINE reply API: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		respBody, _ := io.ReadAll(resp.Body)
		return fmt.Errorf("LINE reply API error (status %d): %s", resp.StatusCode, string(respBody))
	}
	return nil
}
