package dto

// CreateVideoUploadRequest carries the metadata a client declares before
// uploading a video file. It travels to the processing provider as
// passthrough and comes back on the webhook.
type CreateVideoUploadRequest struct {
	Title       string `json:"title" binding:"required,min=1,max=200"`
	Description string `json:"description" binding:"required,min=1,max=5000"`
	CategoryID  string `json:"categoryId" binding:"omitempty,uuid"`
	Type        string `json:"type" binding:"omitempty,oneof=free premium"`
	SeriesID    *int64 `json:"seriesId" binding:"omitempty,min=1"`
	IsPromoted  bool   `json:"isPromoted"`
}

// CreateVideoUploadResponse is returned with 201 once the provider issued a
// direct upload URL.
type CreateVideoUploadResponse struct {
	UploadURL string                   `json:"uploadUrl"`
	UploadID  string                   `json:"uploadId"`
	Metadata  CreateVideoUploadRequest `json:"metadata"`
}

// UploadStatusResponse reports ingestion progress for one upload. Before the
// provider creates an asset, UploadStatus holds the upload's own status and
// the asset fields stay empty.
type UploadStatusResponse struct {
	UploadStatus string `json:"uploadStatus"`
	UploadID     string `json:"uploadId"`
	AssetID      string `json:"assetId,omitempty"`
	PlaybackID   string `json:"playbackId,omitempty"`
	Error        string `json:"error,omitempty"`
}
