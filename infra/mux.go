package infra

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/tnqbao/gau-video-service/config"
)

// MuxService talks to the hosted video-processing API. Uploads and assets
// live entirely on the Mux side; this service only ever holds references.
type MuxService struct {
	BaseURL     string
	TokenID     string
	TokenSecret string
	HTTPClient  *http.Client
}

func InitMuxService(cfg *config.EnvConfig) *MuxService {
	if cfg.Mux.TokenID == "" || cfg.Mux.TokenSecret == "" {
		panic("Mux credentials are not configured")
	}

	return &MuxService{
		BaseURL:     cfg.Mux.BaseURL,
		TokenID:     cfg.Mux.TokenID,
		TokenSecret: cfg.Mux.TokenSecret,
		HTTPClient:  &http.Client{Timeout: 30 * time.Second},
	}
}

// MuxUpload mirrors the upload object of the processing API. Status moves
// through "waiting" -> "asset_created"; AssetID is set once the asset exists.
type MuxUpload struct {
	ID       string    `json:"id"`
	Status   string    `json:"status"`
	AssetID  string    `json:"asset_id"`
	URL      string    `json:"url"`
	Timeout  int64     `json:"timeout"`
	Error    *MuxError `json:"error,omitempty"`
	CorsOrig string    `json:"cors_origin"`
}

// MuxAsset mirrors the asset object. Status is one of "preparing", "ready",
// "errored".
type MuxAsset struct {
	ID          string          `json:"id"`
	Status      string          `json:"status"`
	Duration    float64         `json:"duration"`
	Passthrough string          `json:"passthrough"`
	PlaybackIDs []MuxPlaybackID `json:"playback_ids"`
	Errors      *MuxError       `json:"errors,omitempty"`
}

type MuxPlaybackID struct {
	ID     string `json:"id"`
	Policy string `json:"policy"`
}

type MuxError struct {
	Type     string   `json:"type"`
	Messages []string `json:"messages"`
}

// FirstPlaybackID returns the id of the first playback id, or "" when the
// asset has none.
func (a *MuxAsset) FirstPlaybackID() string {
	if len(a.PlaybackIDs) == 0 {
		return ""
	}
	return a.PlaybackIDs[0].ID
}

type muxUploadEnvelope struct {
	Data MuxUpload `json:"data"`
}

type muxAssetEnvelope struct {
	Data MuxAsset `json:"data"`
}

type createUploadRequest struct {
	CorsOrigin       string           `json:"cors_origin"`
	NewAssetSettings newAssetSettings `json:"new_asset_settings"`
}

type newAssetSettings struct {
	PlaybackPolicy []string `json:"playback_policy"`
	EncodingTier   string   `json:"encoding_tier"`
	MP4Support     string   `json:"mp4_support"`
	Passthrough    string   `json:"passthrough"`
}

// CreateDirectUpload mints a single-use direct-upload slot. The passthrough
// string is attached to the future asset and echoed back on every webhook
// event for it.
func (m *MuxService) CreateDirectUpload(ctx context.Context, corsOrigin, passthrough string) (*MuxUpload, error) {
	payload := createUploadRequest{
		CorsOrigin: corsOrigin,
		NewAssetSettings: newAssetSettings{
			PlaybackPolicy: []string{"public"},
			EncodingTier:   "baseline",
			MP4Support:     "capped-1080p",
			Passthrough:    passthrough,
		},
	}

	var envelope muxUploadEnvelope
	if err := m.do(ctx, http.MethodPost, "/video/v1/uploads", payload, &envelope); err != nil {
		return nil, err
	}
	return &envelope.Data, nil
}

func (m *MuxService) GetUpload(ctx context.Context, uploadID string) (*MuxUpload, error) {
	var envelope muxUploadEnvelope
	if err := m.do(ctx, http.MethodGet, "/video/v1/uploads/"+uploadID, nil, &envelope); err != nil {
		return nil, err
	}
	return &envelope.Data, nil
}

func (m *MuxService) CancelUpload(ctx context.Context, uploadID string) error {
	return m.do(ctx, http.MethodPut, "/video/v1/uploads/"+uploadID+"/cancel", nil, nil)
}

func (m *MuxService) GetAsset(ctx context.Context, assetID string) (*MuxAsset, error) {
	var envelope muxAssetEnvelope
	if err := m.do(ctx, http.MethodGet, "/video/v1/assets/"+assetID, nil, &envelope); err != nil {
		return nil, err
	}
	return &envelope.Data, nil
}

func (m *MuxService) DeleteAsset(ctx context.Context, assetID string) error {
	return m.do(ctx, http.MethodDelete, "/video/v1/assets/"+assetID, nil, nil)
}

func (m *MuxService) do(ctx context.Context, method, path string, payload, dest interface{}) error {
	var body io.Reader
	if payload != nil {
		raw, err := json.Marshal(payload)
		if err != nil {
			return fmt.Errorf("failed to marshal request: %w", err)
		}
		body = bytes.NewReader(raw)
	}

	req, err := http.NewRequestWithContext(ctx, method, m.BaseURL+path, body)
	if err != nil {
		return fmt.Errorf("failed to create request: %w", err)
	}
	req.SetBasicAuth(m.TokenID, m.TokenSecret)
	if payload != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := m.HTTPClient.Do(req)
	if err != nil {
		return fmt.Errorf("mux request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		raw, _ := io.ReadAll(resp.Body)
		return fmt.Errorf("mux returned %d: %s", resp.StatusCode, raw)
	}

	if dest != nil {
		if err := json.NewDecoder(resp.Body).Decode(dest); err != nil {
			return fmt.Errorf("failed to decode mux response: %w", err)
		}
	}
	return nil
}
