package finalizer

import (
	"context"
	"log/slog"
	"sync"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/tnqbao/gau-video-service/entity"
	"github.com/tnqbao/gau-video-service/infra"
	"gorm.io/gorm"
)

type fakeStore struct {
	mu      sync.Mutex
	byAsset map[string]*entity.Video
	bySlug  map[string]*entity.Video

	createErr   error
	createCalls int
}

func newFakeStore() *fakeStore {
	return &fakeStore{
		byAsset: make(map[string]*entity.Video),
		bySlug:  make(map[string]*entity.Video),
	}
}

func (s *fakeStore) FindByMuxAssetID(muxAssetID string) (*entity.Video, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if v, ok := s.byAsset[muxAssetID]; ok {
		clone := *v
		return &clone, nil
	}
	return nil, nil
}

func (s *fakeStore) SlugsLike(base string) ([]string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	var slugs []string
	for slug := range s.bySlug {
		slugs = append(slugs, slug)
	}
	return slugs, nil
}

func (s *fakeStore) Create(video *entity.Video) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.createCalls++
	if s.createErr != nil {
		err := s.createErr
		s.createErr = nil
		return err
	}
	if _, ok := s.byAsset[video.MuxAssetID]; ok {
		return gorm.ErrDuplicatedKey
	}
	if _, ok := s.bySlug[video.Slug]; ok {
		return gorm.ErrDuplicatedKey
	}
	s.byAsset[video.MuxAssetID] = video
	s.bySlug[video.Slug] = video
	return nil
}

func (s *fakeStore) put(video *entity.Video) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.byAsset[video.MuxAssetID] = video
	s.bySlug[video.Slug] = video
}

type fakeAssets struct {
	assets map[string]*infra.MuxAsset
}

func (f *fakeAssets) GetAsset(ctx context.Context, assetID string) (*infra.MuxAsset, error) {
	if asset, ok := f.assets[assetID]; ok {
		return asset, nil
	}
	return nil, errAssetNotFound
}

var errAssetNotFound = &notFoundError{}

type notFoundError struct{}

func (*notFoundError) Error() string { return "asset not found" }

func testLogger() *infra.LoggerClient {
	return infra.NewLoggerClient(slog.New(slog.DiscardHandler))
}

func readyAsset(id string) *infra.MuxAsset {
	return &infra.MuxAsset{
		ID:       id,
		Status:   "ready",
		Duration: 125,
		PlaybackIDs: []infra.MuxPlaybackID{
			{ID: "pb-" + id, Policy: "public"},
		},
	}
}

func testInput(assetID string) FinalizeInput {
	return FinalizeInput{
		MuxAssetID:  assetID,
		Title:       "Ocean Life",
		Description: "desc",
		CategoryID:  uuid.New(),
		Type:        entity.VideoTypeFree,
		AuthorID:    uuid.New(),
	}
}

func TestFinalizeCreatesVideo(t *testing.T) {
	store := newFakeStore()
	assets := &fakeAssets{assets: map[string]*infra.MuxAsset{"asset-1": readyAsset("asset-1")}}
	f := NewFinalizer(store, assets, testLogger())

	video, created, err := f.Finalize(context.Background(), testInput("asset-1"))
	require.NoError(t, err)
	assert.True(t, created)
	assert.Equal(t, "asset-1", video.MuxAssetID)
	assert.Equal(t, "pb-asset-1", video.PlaybackID)
	assert.Equal(t, "2:05", video.Duration)
	assert.Equal(t, "ocean-life", video.Slug)
}

func TestFinalizeIsIdempotent(t *testing.T) {
	store := newFakeStore()
	assets := &fakeAssets{assets: map[string]*infra.MuxAsset{"asset-1": readyAsset("asset-1")}}
	f := NewFinalizer(store, assets, testLogger())

	first, created, err := f.Finalize(context.Background(), testInput("asset-1"))
	require.NoError(t, err)
	require.True(t, created)

	second, created, err := f.Finalize(context.Background(), testInput("asset-1"))
	require.NoError(t, err)
	assert.False(t, created)
	assert.Equal(t, first.ID, second.ID)
	assert.Equal(t, 1, store.createCalls)
}

func TestFinalizeReturnsExistingRowWithoutAssetLookup(t *testing.T) {
	store := newFakeStore()
	existing := &entity.Video{ID: uuid.New(), MuxAssetID: "asset-1", Slug: "ocean-life"}
	store.put(existing)

	// No asset registered: the provider must not be consulted when the row
	// already exists.
	f := NewFinalizer(store, &fakeAssets{assets: map[string]*infra.MuxAsset{}}, testLogger())

	video, created, err := f.Finalize(context.Background(), testInput("asset-1"))
	require.NoError(t, err)
	assert.False(t, created)
	assert.Equal(t, existing.ID, video.ID)
}

func TestFinalizeDuplicateKeyRaceReturnsWinner(t *testing.T) {
	store := newFakeStore()
	assets := &fakeAssets{assets: map[string]*infra.MuxAsset{"asset-1": readyAsset("asset-1")}}

	// The winner lands between the initial existence check and the insert,
	// so the insert hits the unique index and the lookup finds the winner.
	winner := &entity.Video{ID: uuid.New(), MuxAssetID: "asset-1", Slug: "ocean-life"}
	racing := &racingStore{fakeStore: store, winner: winner}
	f := NewFinalizer(racing, assets, testLogger())

	video, created, err := f.Finalize(context.Background(), testInput("asset-1"))
	require.NoError(t, err)
	assert.False(t, created)
	assert.Equal(t, winner.ID, video.ID)
}

// racingStore injects a competing writer after the first existence check.
type racingStore struct {
	*fakeStore
	winner *entity.Video
	looked bool
}

func (s *racingStore) FindByMuxAssetID(muxAssetID string) (*entity.Video, error) {
	if !s.looked {
		s.looked = true
		return nil, nil
	}
	return s.fakeStore.FindByMuxAssetID(muxAssetID)
}

func (s *racingStore) Create(video *entity.Video) error {
	s.fakeStore.put(s.winner)
	return s.fakeStore.Create(video)
}

func TestFinalizeStillProcessing(t *testing.T) {
	store := newFakeStore()
	asset := readyAsset("asset-1")
	asset.Status = "preparing"
	f := NewFinalizer(store, &fakeAssets{assets: map[string]*infra.MuxAsset{"asset-1": asset}}, testLogger())

	_, _, err := f.Finalize(context.Background(), testInput("asset-1"))
	assert.ErrorIs(t, err, ErrStillProcessing)
}

func TestFinalizeNoPlaybackID(t *testing.T) {
	store := newFakeStore()
	asset := readyAsset("asset-1")
	asset.PlaybackIDs = nil
	f := NewFinalizer(store, &fakeAssets{assets: map[string]*infra.MuxAsset{"asset-1": asset}}, testLogger())

	_, _, err := f.Finalize(context.Background(), testInput("asset-1"))
	assert.ErrorIs(t, err, ErrNoPlayback)
}

func TestFinalizeSlugCollision(t *testing.T) {
	store := newFakeStore()
	store.put(&entity.Video{ID: uuid.New(), MuxAssetID: "other", Slug: "ocean-life"})
	assets := &fakeAssets{assets: map[string]*infra.MuxAsset{"asset-1": readyAsset("asset-1")}}
	f := NewFinalizer(store, assets, testLogger())

	video, created, err := f.Finalize(context.Background(), testInput("asset-1"))
	require.NoError(t, err)
	assert.True(t, created)
	assert.Equal(t, "ocean-life-1", video.Slug)
}

func TestAutoCreateSkipsBadPassthrough(t *testing.T) {
	store := newFakeStore()
	assets := &fakeAssets{assets: map[string]*infra.MuxAsset{"asset-1": readyAsset("asset-1")}}
	f := NewFinalizer(store, assets, testLogger())

	// Malformed passthrough: no error, no row.
	video, created, err := f.AutoCreate(context.Background(), "asset-1", "{oops")
	require.NoError(t, err)
	assert.Nil(t, video)
	assert.False(t, created)

	// Incomplete passthrough (no user): no error, no row.
	video, created, err = f.AutoCreate(context.Background(), "asset-1", `{"v":1,"title":"T"}`)
	require.NoError(t, err)
	assert.Nil(t, video)
	assert.False(t, created)

	assert.Equal(t, 0, store.createCalls)
}

func TestAutoCreateFromCompletePassthrough(t *testing.T) {
	store := newFakeStore()
	assets := &fakeAssets{assets: map[string]*infra.MuxAsset{"asset-1": readyAsset("asset-1")}}
	f := NewFinalizer(store, assets, testLogger())

	passthrough, err := entity.UploadPassthrough{
		UserID:      uuid.New(),
		Title:       "Webhook Video",
		Description: "from webhook",
		CategoryID:  uuid.New().String(),
		Type:        "premium",
	}.Encode()
	require.NoError(t, err)

	video, created, err := f.AutoCreate(context.Background(), "asset-1", passthrough)
	require.NoError(t, err)
	assert.True(t, created)
	assert.Equal(t, "webhook-video", video.Slug)
	assert.Equal(t, entity.VideoTypePremium, video.Type)
}
