package services

import (
	"context"

	"github.com/mrkecom/mrkecom-backend/internal/platform/apierr"
	"github.com/mrkecom/mrkecom-backend/internal/platform/localmedia"
	"github.com/mrkecom/mrkecom-backend/internal/platform/logger"
	"github.com/mrkecom/mrkecom-backend/internal/types"
)

// MediaService fronts the media store for the rest of the services. The
// core only ever handles the returned URLs.
type MediaService interface {
	StoreImage(ctx context.Context, upload types.Upload) (string, error)
	StoreImages(ctx context.Context, uploads []types.Upload) ([]string, error)
	RemoveByURL(ctx context.Context, url string)
}

type mediaService struct {
	log   *logger.Logger
	store localmedia.Store
}

func NewMediaService(log *logger.Logger, store localmedia.Store) MediaService {
	serviceLog := log.With("service", "MediaService")
	return &mediaService{log: serviceLog, store: store}
}

func (ms *mediaService) StoreImage(ctx context.Context, upload types.Upload) (string, error) {
	url, err := ms.store.Save(upload.Name, upload.Data)
	if err != nil {
		return "", apierr.Validation("%s", err.Error())
	}
	return url, nil
}

func (ms *mediaService) StoreImages(ctx context.Context, uploads []types.Upload) ([]string, error) {
	urls := make([]string, 0, len(uploads))
	for _, upload := range uploads {
		url, err := ms.StoreImage(ctx, upload)
		if err != nil {
			// Roll back what's already on disk so a failed request leaves
			// no orphan files behind.
			for _, stored := range urls {
				ms.RemoveByURL(ctx, stored)
			}
			return nil, err
		}
		urls = append(urls, url)
	}
	return urls, nil
}

// RemoveByURL is best-effort: a missing file is not a request failure.
func (ms *mediaService) RemoveByURL(ctx context.Context, url string) {
	if url == "" {
		return
	}
	if err := ms.store.Delete(url); err != nil {
		ms.log.Warn("Failed to delete media file", "url", url, "error", err)
	}
}
