// Package services holds the application logic between the HTTP surface and
// the repositories. Services validate input, enforce ownership and
// visibility, and translate infrastructure failures into the shared error
// taxonomy.
package services

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"

	"filesmanager/internal/common"
	"filesmanager/internal/server/blob"
	"filesmanager/internal/server/models"
)

// ContentService decides where decoded file bytes live. Payloads at or under
// inlineMaxBytes stay inline on the metadata record; larger ones (or all of
// them when the threshold is zero) go to the blob store under a fresh UUID
// key.
type ContentService struct {
	blobs          blob.Store
	inlineMaxBytes int
}

func NewContentService(blobs blob.Store, inlineMaxBytes int) *ContentService {
	return &ContentService{blobs: blobs, inlineMaxBytes: inlineMaxBytes}
}

// Materialize stores data for a new record, filling in either rec.Data or
// rec.LocalPath. Folders carry no content and pass through untouched.
func (s *ContentService) Materialize(ctx context.Context, rec *models.FileRecord, data []byte) error {
	if rec.IsFolder() {
		return nil
	}
	if s.inlineMaxBytes > 0 && len(data) <= s.inlineMaxBytes {
		rec.Data = data
		return nil
	}
	key := uuid.NewString()
	if err := s.blobs.Write(ctx, key, data); err != nil {
		return fmt.Errorf("%w: %s", common.ErrorInternal, err)
	}
	rec.LocalPath = key
	return nil
}

// Read returns the bytes of a record. Folders have no content and report
// common.ErrorNotFound, matching a missing blob. A store that refuses
// access reports common.ErrorForbidden.
func (s *ContentService) Read(ctx context.Context, rec *models.FileRecord) ([]byte, error) {
	if rec.IsFolder() {
		return nil, common.ErrorNotFound
	}
	if rec.LocalPath != "" {
		data, err := s.blobs.Read(ctx, rec.LocalPath)
		if err != nil {
			switch {
			case errors.Is(err, blob.ErrNotFound):
				return nil, common.ErrorNotFound
			case errors.Is(err, blob.ErrDenied):
				return nil, common.ErrorForbidden
			}
			return nil, fmt.Errorf("%w: %s", common.ErrorInternal, err)
		}
		return data, nil
	}
	if rec.Data != nil {
		return rec.Data, nil
	}
	return nil, common.ErrorNotFound
}
