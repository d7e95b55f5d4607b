package uploader

import (
	"context"
	"errors"
	"fmt"
	"time"
)

var (
	// ErrPollTimeout means the asset was still not ready after the final
	// attempt.
	ErrPollTimeout = errors.New("processing did not finish in time")
	// ErrProcessingFailed means the provider reported the upload or asset
	// as errored.
	ErrProcessingFailed = errors.New("processing failed")
)

const (
	defaultPollInterval = 5 * time.Second
	defaultMaxAttempts  = 120

	// Synthetic progress starts here once the file is uploaded and creeps
	// up half a percent per poll, never reaching 100 until ready.
	processingBaseProgress = 50
	processingCapProgress  = 95
)

// Poller watches an upload until its asset is ready for playback.
type Poller struct {
	Client      *Client
	Interval    time.Duration
	MaxAttempts int
	OnProgress  func(ProgressState)

	// sleep is replaceable in tests.
	sleep func(ctx context.Context, d time.Duration) error
}

func NewPoller(client *Client, onProgress func(ProgressState)) *Poller {
	return &Poller{
		Client:      client,
		Interval:    defaultPollInterval,
		MaxAttempts: defaultMaxAttempts,
		OnProgress:  onProgress,
		sleep:       sleepContext,
	}
}

func sleepContext(ctx context.Context, d time.Duration) error {
	timer := time.NewTimer(d)
	defer timer.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-timer.C:
		return nil
	}
}

func (p *Poller) emit(state ProgressState) {
	if p.OnProgress != nil {
		p.OnProgress(state)
	}
}

// PollUntilReady polls the upload status endpoint until the asset reports
// ready, returning the asset id. It gives up after MaxAttempts polls.
func (p *Poller) PollUntilReady(ctx context.Context, uploadID string) (string, error) {
	interval := p.Interval
	if interval <= 0 {
		interval = defaultPollInterval
	}
	maxAttempts := p.MaxAttempts
	if maxAttempts <= 0 {
		maxAttempts = defaultMaxAttempts
	}
	sleep := p.sleep
	if sleep == nil {
		sleep = sleepContext
	}

	for attempt := 1; attempt <= maxAttempts; attempt++ {
		status, err := p.Client.GetUploadStatus(ctx, uploadID)
		if err != nil {
			if ctx.Err() != nil {
				return "", ctx.Err()
			}
			// Transient backend hiccups should not kill a two hour upload.
			p.emit(ProgressState{Phase: PhaseProcessing, Progress: syntheticProgress(attempt), UploadID: uploadID})
			if err := sleep(ctx, interval); err != nil {
				return "", err
			}
			continue
		}

		switch status.UploadStatus {
		case "ready":
			p.emit(ProgressState{
				Phase:      PhaseCompleted,
				Progress:   100,
				UploadID:   uploadID,
				MuxAssetID: status.AssetID,
			})
			return status.AssetID, nil
		case "errored", "cancelled":
			err := fmt.Errorf("%w: %s", ErrProcessingFailed, status.UploadStatus)
			if status.Error != "" {
				err = fmt.Errorf("%w: %s", ErrProcessingFailed, status.Error)
			}
			p.emit(ProgressState{Phase: PhaseError, UploadID: uploadID, Err: err})
			return "", err
		}

		p.emit(ProgressState{
			Phase:      PhaseProcessing,
			Progress:   syntheticProgress(attempt),
			UploadID:   uploadID,
			MuxAssetID: status.AssetID,
		})

		if attempt < maxAttempts {
			if err := sleep(ctx, interval); err != nil {
				return "", err
			}
		}
	}

	p.emit(ProgressState{Phase: PhaseError, UploadID: uploadID, Err: ErrPollTimeout})
	return "", ErrPollTimeout
}

func syntheticProgress(attempt int) int {
	progress := processingBaseProgress + attempt/2
	if progress > processingCapProgress {
		progress = processingCapProgress
	}
	return progress
}
