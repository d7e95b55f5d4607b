package entity

import (
	"encoding/json"
	"errors"

	"github.com/google/uuid"
)

// PassthroughVersion is the current wire version of UploadPassthrough.
const PassthroughVersion = 1

// UploadPassthrough is the metadata bundle baked into a Mux direct upload at
// session-creation time and echoed back verbatim on every webhook event for
// that upload. It is the only channel carrying ownership and catalog data
// across the asynchronous boundary, so the encoding is versioned: decoding
// ignores unknown fields and fills defaults for missing ones, which keeps
// older in-flight deliveries parseable after a schema change.
type UploadPassthrough struct {
	Version     int       `json:"v"`
	UserID      uuid.UUID `json:"userId"`
	Title       string    `json:"title"`
	Description string    `json:"description"`
	CategoryID  string    `json:"categoryId"`
	Type        string    `json:"type"`
	SeriesID    *int64    `json:"seriesId,omitempty"`
	IsPromoted  bool      `json:"isPromoted"`
	CoverURL    string    `json:"coverUrl,omitempty"`
}

// Encode serializes the passthrough for embedding in the upload session.
func (p UploadPassthrough) Encode() (string, error) {
	if p.Version == 0 {
		p.Version = PassthroughVersion
	}
	raw, err := json.Marshal(p)
	if err != nil {
		return "", err
	}
	return string(raw), nil
}

// DecodePassthrough parses a passthrough string received on a webhook event.
// Pre-versioned payloads (no "v" field) are treated as version 1. An empty
// string decodes to the zero value without error; callers decide whether the
// result carries enough data to act on.
func DecodePassthrough(raw string) (UploadPassthrough, error) {
	var p UploadPassthrough
	if raw == "" {
		return p, nil
	}
	if err := json.Unmarshal([]byte(raw), &p); err != nil {
		return UploadPassthrough{}, errors.New("malformed passthrough payload")
	}
	if p.Version == 0 {
		p.Version = PassthroughVersion
	}
	if p.Type == "" {
		p.Type = string(VideoTypeFree)
	}
	return p, nil
}

// Complete reports whether the passthrough carries the minimum fields needed
// to construct a Video without a client request (owner and title).
func (p UploadPassthrough) Complete() bool {
	return p.Title != "" && p.UserID != uuid.Nil
}
