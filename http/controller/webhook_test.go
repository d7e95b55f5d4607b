package controller

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/tnqbao/gau-video-service/entity"
	"github.com/tnqbao/gau-video-service/finalizer"
	"github.com/tnqbao/gau-video-service/infra"
)

type fakeFinalizer struct {
	autoCreateCalls int
	autoCreateErr   error
}

func (f *fakeFinalizer) Finalize(ctx context.Context, input finalizer.FinalizeInput) (*entity.Video, bool, error) {
	return nil, false, nil
}

func (f *fakeFinalizer) AutoCreate(ctx context.Context, assetID, rawPassthrough string) (*entity.Video, bool, error) {
	f.autoCreateCalls++
	return nil, false, f.autoCreateErr
}

type fakeAuditor struct {
	events []*entity.WebhookEvent
	err    error
}

func (a *fakeAuditor) Create(event *entity.WebhookEvent) error {
	a.events = append(a.events, event)
	return a.err
}

func newWebhookTestController(fin *fakeFinalizer, audits *fakeAuditor) *Controller {
	return &Controller{
		Infra:     &infra.Infra{Logger: infra.NewLoggerClient(slog.New(slog.DiscardHandler))},
		Finalizer: fin,
		Audits:    audits,
	}
}

func serveWebhook(ctrl *Controller, body string) *httptest.ResponseRecorder {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.POST("/webhooks/video", func(c *gin.Context) {
		c.Set("webhook_raw_body", []byte(body))
		ctrl.HandleMuxWebhook(c)
	})

	req := httptest.NewRequest(http.MethodPost, "/webhooks/video", strings.NewReader(body))
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func TestHandleMuxWebhookAcksFailedFinalize(t *testing.T) {
	fin := &fakeFinalizer{autoCreateErr: errors.New("asset lookup failed")}
	audits := &fakeAuditor{}
	ctrl := newWebhookTestController(fin, audits)

	body := `{"type":"video.asset.ready","data":{"id":"asset-1","passthrough":"{}"}}`
	w := serveWebhook(ctrl, body)

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), `"received":true`)
	assert.Equal(t, 1, fin.autoCreateCalls)
}

func TestHandleMuxWebhookAcksUnknownEventType(t *testing.T) {
	fin := &fakeFinalizer{}
	audits := &fakeAuditor{}
	ctrl := newWebhookTestController(fin, audits)

	w := serveWebhook(ctrl, `{"type":"video.asset.updated","data":{"id":"asset-1"}}`)

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), `"received":true`)
	assert.Equal(t, 0, fin.autoCreateCalls, "only asset.ready drives creation")
}

func TestHandleMuxWebhookAuditsAssetEvents(t *testing.T) {
	fin := &fakeFinalizer{}
	audits := &fakeAuditor{}
	ctrl := newWebhookTestController(fin, audits)

	body := `{"type":"video.asset.errored","data":{"id":"asset-9","errors":{"type":"invalid_input","messages":["bad codec"]}}}`
	w := serveWebhook(ctrl, body)

	assert.Equal(t, http.StatusOK, w.Code)
	if assert.Len(t, audits.events, 1) {
		assert.Equal(t, "video.asset.errored", audits.events[0].Type)
		assert.Equal(t, "asset-9", audits.events[0].AssetID)
	}
}

func TestHandleMuxWebhookAcksWhenAuditFails(t *testing.T) {
	fin := &fakeFinalizer{}
	audits := &fakeAuditor{err: errors.New("insert failed")}
	ctrl := newWebhookTestController(fin, audits)

	w := serveWebhook(ctrl, `{"type":"video.upload.cancelled","data":{"id":"upload-1"}}`)

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), `"received":true`)
}

func TestHandleMuxWebhookUnparseableBody(t *testing.T) {
	fin := &fakeFinalizer{}
	audits := &fakeAuditor{}
	ctrl := newWebhookTestController(fin, audits)

	w := serveWebhook(ctrl, `{not json`)

	assert.Equal(t, http.StatusInternalServerError, w.Code)
	assert.Equal(t, 0, fin.autoCreateCalls)
	assert.Empty(t, audits.events, "nothing is audited for an unreadable payload")
}
