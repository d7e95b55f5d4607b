package uploader

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"
)

// Client talks to the streaming backend's upload endpoints.
type Client struct {
	BaseURL    string
	Token      string
	HTTPClient *http.Client
}

func NewClient(baseURL, token string) *Client {
	return &Client{
		BaseURL: baseURL,
		Token:   token,
		HTTPClient: &http.Client{
			Timeout: 30 * time.Second,
		},
	}
}

// UploadMetadata is the video metadata declared before the file upload.
type UploadMetadata struct {
	Title       string `json:"title"`
	Description string `json:"description"`
	CategoryID  string `json:"categoryId,omitempty"`
	Type        string `json:"type,omitempty"`
	SeriesID    *int64 `json:"seriesId,omitempty"`
	IsPromoted  bool   `json:"isPromoted"`
}

type createUploadResponse struct {
	UploadURL string `json:"uploadUrl"`
	UploadID  string `json:"uploadId"`
}

type UploadStatus struct {
	UploadStatus string `json:"uploadStatus"`
	UploadID     string `json:"uploadId"`
	AssetID      string `json:"assetId"`
	PlaybackID   string `json:"playbackId"`
	Error        string `json:"error"`
}

type apiError struct {
	Message string `json:"message"`
}

// CreateVideoUpload requests a direct upload slot for the declared metadata.
func (c *Client) CreateVideoUpload(ctx context.Context, meta UploadMetadata) (uploadURL, uploadID string, err error) {
	body, err := json.Marshal(meta)
	if err != nil {
		return "", "", err
	}

	var resp createUploadResponse
	if err := c.do(ctx, http.MethodPost, "/api/v1/stream/upload/video", bytes.NewReader(body), &resp); err != nil {
		return "", "", err
	}
	return resp.UploadURL, resp.UploadID, nil
}

func (c *Client) GetUploadStatus(ctx context.Context, uploadID string) (*UploadStatus, error) {
	var resp UploadStatus
	path := fmt.Sprintf("/api/v1/stream/upload/video/%s", uploadID)
	if err := c.do(ctx, http.MethodGet, path, nil, &resp); err != nil {
		return nil, err
	}
	return &resp, nil
}

func (c *Client) CancelUpload(ctx context.Context, uploadID string) error {
	path := fmt.Sprintf("/api/v1/stream/upload/video/%s", uploadID)
	return c.do(ctx, http.MethodDelete, path, nil, nil)
}

func (c *Client) do(ctx context.Context, method, path string, body io.Reader, dest interface{}) error {
	req, err := http.NewRequestWithContext(ctx, method, c.BaseURL+path, body)
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", "application/json")
	if c.Token != "" {
		req.Header.Set("Authorization", "Bearer "+c.Token)
	}

	resp, err := c.HTTPClient.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return err
	}

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		var apiErr apiError
		if json.Unmarshal(raw, &apiErr) == nil && apiErr.Message != "" {
			return fmt.Errorf("api returned %d: %s", resp.StatusCode, apiErr.Message)
		}
		return fmt.Errorf("api returned %d: %s", resp.StatusCode, raw)
	}

	if dest == nil {
		return nil
	}
	return json.Unmarshal(raw, dest)
}
