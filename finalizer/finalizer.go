package finalizer

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/tnqbao/gau-video-service/entity"
	"github.com/tnqbao/gau-video-service/infra"
	"github.com/tnqbao/gau-video-service/utils"
	"gorm.io/gorm"
)

var (
	// ErrStillProcessing means the remote asset exists but is not ready yet.
	ErrStillProcessing = errors.New("asset is still processing")
	// ErrNoPlayback means the asset is ready but carries no playback id.
	ErrNoPlayback = errors.New("asset has no playback id")
)

// VideoStore is the persistence surface the finalizer needs.
// FindByMuxAssetID must return (nil, nil) when no row exists.
type VideoStore interface {
	FindByMuxAssetID(muxAssetID string) (*entity.Video, error)
	SlugsLike(base string) ([]string, error)
	Create(video *entity.Video) error
}

// AssetRetriever fetches asset state from the processing provider.
type AssetRetriever interface {
	GetAsset(ctx context.Context, assetID string) (*infra.MuxAsset, error)
}

// Finalizer turns a ready remote asset into exactly one video row. Both the
// synchronous create endpoint and the webhook handler go through it, so a
// race between the two resolves to a single winner.
type Finalizer struct {
	store  VideoStore
	assets AssetRetriever
	logger *infra.LoggerClient
}

func NewFinalizer(store VideoStore, assets AssetRetriever, logger *infra.LoggerClient) *Finalizer {
	return &Finalizer{
		store:  store,
		assets: assets,
		logger: logger,
	}
}

// FinalizeInput is the complete set of fields needed to materialize a video.
type FinalizeInput struct {
	MuxAssetID  string
	Title       string
	Description string
	CategoryID  uuid.UUID
	Type        entity.VideoType
	SeriesID    *int64
	IsPromoted  bool
	CoverURL    string
	AuthorID    uuid.UUID
}

// Finalize returns the video row for the asset, creating it if necessary.
// The bool reports whether this call created the row. Calling it twice with
// the same asset id, in any order or concurrently, yields the same row.
func (f *Finalizer) Finalize(ctx context.Context, input FinalizeInput) (*entity.Video, bool, error) {
	existing, err := f.store.FindByMuxAssetID(input.MuxAssetID)
	if err != nil {
		return nil, false, fmt.Errorf("lookup video by asset id: %w", err)
	}
	if existing != nil {
		return existing, false, nil
	}

	asset, err := f.assets.GetAsset(ctx, input.MuxAssetID)
	if err != nil {
		return nil, false, fmt.Errorf("fetch asset %s: %w", input.MuxAssetID, err)
	}
	if asset.Status != "ready" {
		return nil, false, fmt.Errorf("%w: status %q", ErrStillProcessing, asset.Status)
	}
	playbackID := asset.FirstPlaybackID()
	if playbackID == "" {
		return nil, false, ErrNoPlayback
	}

	videoType := input.Type
	if videoType == "" {
		videoType = entity.VideoTypeFree
	}

	base := utils.GenerateSlug(input.Title)
	for attempt := 0; attempt < 3; attempt++ {
		existingSlugs, err := f.store.SlugsLike(base)
		if err != nil {
			return nil, false, fmt.Errorf("lookup slugs for %q: %w", base, err)
		}

		video := &entity.Video{
			ID:          uuid.New(),
			Title:       input.Title,
			Description: input.Description,
			CoverURL:    input.CoverURL,
			CategoryID:  input.CategoryID,
			Type:        videoType,
			SeriesID:    input.SeriesID,
			IsPromoted:  input.IsPromoted,
			MuxAssetID:  input.MuxAssetID,
			PlaybackID:  playbackID,
			Duration:    utils.FormatDuration(asset.Duration),
			Slug:        utils.EnsureUniqueSlug(base, existingSlugs),
			AuthorID:    input.AuthorID,
		}

		err = f.store.Create(video)
		if err == nil {
			return video, true, nil
		}
		if !errors.Is(err, gorm.ErrDuplicatedKey) {
			return nil, false, fmt.Errorf("insert video for asset %s: %w", input.MuxAssetID, err)
		}

		// Either a concurrent finalize won on mux_asset_id, or another video
		// grabbed the slug between the lookup and the insert.
		winner, lookupErr := f.store.FindByMuxAssetID(input.MuxAssetID)
		if lookupErr != nil {
			return nil, false, fmt.Errorf("lookup winner for asset %s: %w", input.MuxAssetID, lookupErr)
		}
		if winner != nil {
			return winner, false, nil
		}
	}

	return nil, false, fmt.Errorf("could not allocate a unique slug for %q", input.Title)
}

// AutoCreate finalizes a video from a webhook delivery using the upload's
// passthrough metadata. Incomplete or malformed passthrough is a no-op so a
// stray delivery never produces a half filled row.
func (f *Finalizer) AutoCreate(ctx context.Context, assetID, rawPassthrough string) (*entity.Video, bool, error) {
	meta, err := entity.DecodePassthrough(rawPassthrough)
	if err != nil {
		f.logger.WarningWithContextf(ctx, "skipping auto create for asset %s: bad passthrough: %v", assetID, err)
		return nil, false, nil
	}
	if !meta.Complete() {
		f.logger.InfoWithContextf(ctx, "skipping auto create for asset %s: passthrough incomplete", assetID)
		return nil, false, nil
	}

	var categoryID uuid.UUID
	if meta.CategoryID != "" {
		categoryID, err = uuid.Parse(meta.CategoryID)
		if err != nil {
			f.logger.WarningWithContextf(ctx, "skipping auto create for asset %s: bad category id %q", assetID, meta.CategoryID)
			return nil, false, nil
		}
	}

	return f.Finalize(ctx, FinalizeInput{
		MuxAssetID:  assetID,
		Title:       meta.Title,
		Description: meta.Description,
		CategoryID:  categoryID,
		Type:        entity.VideoType(meta.Type),
		SeriesID:    meta.SeriesID,
		IsPromoted:  meta.IsPromoted,
		CoverURL:    meta.CoverURL,
		AuthorID:    meta.UserID,
	})
}
