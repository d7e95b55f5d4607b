package uploader

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func statusServer(t *testing.T, responses func(call int) UploadStatus) (*httptest.Server, *int) {
	t.Helper()
	calls := 0
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls++
		w.Header().Set("Content-Type", "application/json")
		_ = json.NewEncoder(w).Encode(responses(calls))
	}))
	t.Cleanup(server.Close)
	return server, &calls
}

func newTestPoller(server *httptest.Server, onProgress func(ProgressState)) *Poller {
	p := NewPoller(NewClient(server.URL, ""), onProgress)
	p.Interval = time.Millisecond
	p.sleep = func(ctx context.Context, d time.Duration) error { return nil }
	return p
}

func TestPollUntilReadySucceeds(t *testing.T) {
	server, calls := statusServer(t, func(call int) UploadStatus {
		if call < 3 {
			return UploadStatus{UploadStatus: "preparing", UploadID: "up-1"}
		}
		return UploadStatus{UploadStatus: "ready", UploadID: "up-1", AssetID: "asset-1"}
	})

	var states []ProgressState
	p := newTestPoller(server, func(s ProgressState) { states = append(states, s) })

	assetID, err := p.PollUntilReady(context.Background(), "up-1")
	require.NoError(t, err)
	assert.Equal(t, "asset-1", assetID)
	assert.Equal(t, 3, *calls)

	last := states[len(states)-1]
	assert.Equal(t, PhaseCompleted, last.Phase)
	assert.Equal(t, 100, last.Progress)
	assert.Equal(t, "asset-1", last.MuxAssetID)
}

func TestPollUntilReadyTimesOutAfterMaxAttempts(t *testing.T) {
	server, calls := statusServer(t, func(call int) UploadStatus {
		return UploadStatus{UploadStatus: "preparing", UploadID: "up-1"}
	})

	p := newTestPoller(server, nil)
	p.MaxAttempts = 120

	_, err := p.PollUntilReady(context.Background(), "up-1")
	assert.ErrorIs(t, err, ErrPollTimeout)
	assert.Equal(t, 120, *calls)
}

func TestPollUntilReadyProcessingFailed(t *testing.T) {
	server, _ := statusServer(t, func(call int) UploadStatus {
		return UploadStatus{UploadStatus: "errored", UploadID: "up-1", Error: "invalid_input"}
	})

	var last ProgressState
	p := newTestPoller(server, func(s ProgressState) { last = s })

	_, err := p.PollUntilReady(context.Background(), "up-1")
	assert.ErrorIs(t, err, ErrProcessingFailed)
	assert.Contains(t, err.Error(), "invalid_input")
	assert.Equal(t, PhaseError, last.Phase)
}

func TestPollUntilReadySyntheticProgress(t *testing.T) {
	server, _ := statusServer(t, func(call int) UploadStatus {
		return UploadStatus{UploadStatus: "preparing", UploadID: "up-1"}
	})

	var progresses []int
	p := newTestPoller(server, func(s ProgressState) { progresses = append(progresses, s.Progress) })
	p.MaxAttempts = 120

	_, err := p.PollUntilReady(context.Background(), "up-1")
	require.ErrorIs(t, err, ErrPollTimeout)

	// Progress creeps from just above the upload handoff point and never
	// passes the cap while processing.
	assert.Equal(t, 50, progresses[0])
	for i := 1; i < len(progresses)-1; i++ {
		assert.GreaterOrEqual(t, progresses[i], progresses[i-1])
		assert.LessOrEqual(t, progresses[i], 95)
	}
}

func TestPollUntilReadyContextCancelled(t *testing.T) {
	server, _ := statusServer(t, func(call int) UploadStatus {
		return UploadStatus{UploadStatus: "preparing", UploadID: "up-1"}
	})

	ctx, cancel := context.WithCancel(context.Background())
	p := newTestPoller(server, nil)
	p.sleep = func(ctx context.Context, d time.Duration) error {
		cancel()
		return ctx.Err()
	}

	_, err := p.PollUntilReady(ctx, "up-1")
	assert.ErrorIs(t, err, context.Canceled)
}
