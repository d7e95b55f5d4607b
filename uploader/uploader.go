package uploader

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"time"
)

var (
	// ErrUploadForbidden means the upload URL was rejected, usually because
	// the single-use slot expired or was already consumed.
	ErrUploadForbidden = errors.New("upload rejected: URL may have expired")
	// ErrUploadTooLarge means the file exceeds the provider's size limit.
	ErrUploadTooLarge = errors.New("file is too large")
	// ErrUploadTimeout means the transfer did not finish in time.
	ErrUploadTimeout = errors.New("upload timed out")
)

// Uploader streams a video file to a direct upload URL and reports progress.
// A failed upload is not retried here: the direct upload URL is single use,
// so the caller must mint a fresh slot and start over.
type Uploader struct {
	HTTPClient *http.Client
	OnProgress func(ProgressState)
}

func NewUploader(onProgress func(ProgressState)) *Uploader {
	return &Uploader{
		HTTPClient: &http.Client{
			Timeout: 30 * time.Minute,
		},
		OnProgress: onProgress,
	}
}

func (u *Uploader) emit(state ProgressState) {
	if u.OnProgress != nil {
		u.OnProgress(state)
	}
}

// Upload PUTs the file body to the direct upload URL. Progress is reported
// in whole percents from 0 to 100 while bytes leave the reader.
func (u *Uploader) Upload(ctx context.Context, uploadURL, uploadID string, file io.Reader, size int64) error {
	u.emit(ProgressState{Phase: PhaseUploading, Progress: 0, UploadID: uploadID})

	body := &progressReader{
		reader: file,
		total:  size,
		report: func(percent int) {
			u.emit(ProgressState{Phase: PhaseUploading, Progress: percent, UploadID: uploadID})
		},
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPut, uploadURL, body)
	if err != nil {
		return err
	}
	req.ContentLength = size
	req.Header.Set("Content-Type", "application/octet-stream")

	resp, err := u.HTTPClient.Do(req)
	if err != nil {
		classified := classifyTransportError(ctx, err)
		u.emit(ProgressState{Phase: PhaseError, UploadID: uploadID, Err: classified})
		return classified
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		classified := classifyStatusError(resp.StatusCode)
		u.emit(ProgressState{Phase: PhaseError, UploadID: uploadID, Err: classified})
		return classified
	}

	u.emit(ProgressState{Phase: PhaseUploading, Progress: 100, UploadID: uploadID})
	return nil
}

func classifyStatusError(status int) error {
	switch status {
	case http.StatusForbidden:
		return ErrUploadForbidden
	case http.StatusRequestEntityTooLarge:
		return ErrUploadTooLarge
	case http.StatusRequestTimeout:
		return ErrUploadTimeout
	default:
		return fmt.Errorf("upload failed with status %d", status)
	}
}

func classifyTransportError(ctx context.Context, err error) error {
	if errors.Is(ctx.Err(), context.DeadlineExceeded) {
		return ErrUploadTimeout
	}
	var timeoutErr interface{ Timeout() bool }
	if errors.As(err, &timeoutErr) && timeoutErr.Timeout() {
		return ErrUploadTimeout
	}
	return err
}

// progressReader counts bytes and reports each new whole percent exactly
// once.
type progressReader struct {
	reader      io.Reader
	total       int64
	transferred int64
	lastPercent int
	report      func(percent int)
}

func (r *progressReader) Read(p []byte) (int, error) {
	n, err := r.reader.Read(p)
	if n > 0 {
		r.transferred += int64(n)
		if r.total > 0 {
			percent := int(r.transferred * 100 / r.total)
			if percent > 100 {
				percent = 100
			}
			if percent > r.lastPercent {
				r.lastPercent = percent
				r.report(percent)
			}
		}
	}
	return n, err
}
