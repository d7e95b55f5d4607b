package uploader

import (
	"bytes"
	"context"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestUploadReportsProgress(t *testing.T) {
	var received []byte
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, http.MethodPut, r.Method)
		body, err := io.ReadAll(r.Body)
		require.NoError(t, err)
		received = body
		w.WriteHeader(http.StatusOK)
	}))
	defer server.Close()

	payload := bytes.Repeat([]byte("v"), 4096)
	var states []ProgressState
	u := NewUploader(func(s ProgressState) { states = append(states, s) })

	err := u.Upload(context.Background(), server.URL, "up-1", bytes.NewReader(payload), int64(len(payload)))
	require.NoError(t, err)
	assert.Equal(t, payload, received)

	require.NotEmpty(t, states)
	assert.Equal(t, 0, states[0].Progress)
	last := states[len(states)-1]
	assert.Equal(t, PhaseUploading, last.Phase)
	assert.Equal(t, 100, last.Progress)

	// Progress never goes backwards.
	for i := 1; i < len(states); i++ {
		assert.GreaterOrEqual(t, states[i].Progress, states[i-1].Progress)
	}
}

func TestUploadForbidden(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusForbidden)
	}))
	defer server.Close()

	var last ProgressState
	u := NewUploader(func(s ProgressState) { last = s })

	err := u.Upload(context.Background(), server.URL, "up-1", strings.NewReader("data"), 4)
	assert.ErrorIs(t, err, ErrUploadForbidden)
	assert.Equal(t, PhaseError, last.Phase)
	assert.ErrorIs(t, last.Err, ErrUploadForbidden)
}

func TestUploadTooLarge(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusRequestEntityTooLarge)
	}))
	defer server.Close()

	u := NewUploader(nil)
	err := u.Upload(context.Background(), server.URL, "up-1", strings.NewReader("data"), 4)
	assert.ErrorIs(t, err, ErrUploadTooLarge)
}

func TestUploadTimeout(t *testing.T) {
	blocked := make(chan struct{})
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		<-blocked
	}))
	defer server.Close()
	defer close(blocked)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	u := NewUploader(nil)
	err := u.Upload(ctx, server.URL, "up-1", strings.NewReader("data"), 4)
	assert.Error(t, err)
}

func TestProgressReaderWholePercentsOnce(t *testing.T) {
	var reported []int
	r := &progressReader{
		reader: bytes.NewReader(make([]byte, 200)),
		total:  200,
		report: func(p int) { reported = append(reported, p) },
	}

	buf := make([]byte, 50)
	for {
		if _, err := r.Read(buf); err == io.EOF {
			break
		}
	}

	assert.Equal(t, []int{25, 50, 75, 100}, reported)
}
