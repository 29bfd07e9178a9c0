package services

import (
	"context"
	"database/sql"
	"encoding/base64"
	"errors"
	"fmt"

	"github.com/google/uuid"

	"filesmanager/internal/common"
	"filesmanager/internal/server/models"
	"filesmanager/internal/server/repositories/repomanager"
)

// FileService owns the file-metadata registry: creation with parent
// validation, visibility-checked reads, paginated listing, and the publish
// toggle.
type FileService struct {
	db       *sql.DB
	repos    repomanager.RepositoryManager
	content  *ContentService
	pageSize int
}

func NewFileService(db *sql.DB, repos repomanager.RepositoryManager, content *ContentService, pageSize int) *FileService {
	return &FileService{db: db, repos: repos, content: content, pageSize: pageSize}
}

// CreateFileInput is the decoded create request. ParentID empty means the
// root; Content is base64 for non-folder kinds.
type CreateFileInput struct {
	Name        string
	Kind        string
	ParentID    string
	IsPublished bool
	Content     string
}

// Create validates the input, materializes content, and persists the
// metadata record. The returned record never carries inline bytes.
func (s *FileService) Create(ctx context.Context, userID string, in CreateFileInput) (*models.FileRecord, error) {
	if in.Name == "" {
		return nil, fmt.Errorf("missing name: %w", common.ErrorMissingParameter)
	}
	if !models.ValidKind(in.Kind) {
		return nil, fmt.Errorf("bad type %q: %w", in.Kind, common.ErrorInvalidPayload)
	}
	if in.Kind != models.KindFolder && in.Content == "" {
		return nil, fmt.Errorf("missing data: %w", common.ErrorMissingParameter)
	}

	if in.ParentID != "" {
		if uuid.Validate(in.ParentID) != nil {
			return nil, fmt.Errorf("parent %q: %w", in.ParentID, common.ErrorInvalidParent)
		}
		parent, err := s.repos.Files(s.db).GetByID(ctx, in.ParentID)
		if err != nil {
			if errors.Is(err, common.ErrorNotFound) {
				return nil, fmt.Errorf("parent %q: %w", in.ParentID, common.ErrorInvalidParent)
			}
			return nil, err
		}
		if !parent.IsFolder() || parent.UserID != userID {
			return nil, fmt.Errorf("parent %q: %w", in.ParentID, common.ErrorInvalidParent)
		}
	}

	var data []byte
	if in.Kind != models.KindFolder {
		decoded, err := base64.StdEncoding.DecodeString(in.Content)
		if err != nil {
			return nil, fmt.Errorf("decoding data: %w", common.ErrorInvalidPayload)
		}
		data = decoded
	}

	rec := &models.FileRecord{
		UserID:      userID,
		Name:        in.Name,
		Kind:        in.Kind,
		ParentID:    in.ParentID,
		IsPublished: in.IsPublished,
	}
	if err := s.content.Materialize(ctx, rec, data); err != nil {
		return nil, err
	}

	created, err := s.repos.Files(s.db).Create(ctx, rec)
	if err != nil {
		return nil, err
	}
	created.Data = nil
	return created, nil
}

// GetByID returns a record visible to the caller: the owner always, anyone
// else only when it is published. Nonexistence and lack of access read the
// same so ids cannot be probed.
func (s *FileService) GetByID(ctx context.Context, userID, id string) (*models.FileRecord, error) {
	rec, err := s.visibleRecord(ctx, userID, id)
	if err != nil {
		return nil, err
	}
	rec.Data = nil
	return rec, nil
}

// List returns one page of the caller's records under the given parent
// filter (nil for all, "" for root, otherwise a folder id). Pages are
// zero-based; a page past the end is an empty slice, not an error. A
// non-positive limit falls back to the configured page size, which also
// caps requested limits.
func (s *FileService) List(ctx context.Context, userID string, parent *string, page, limit int) ([]*models.FileRecord, error) {
	if page < 0 {
		page = 0
	}
	if limit <= 0 || limit > s.pageSize {
		limit = s.pageSize
	}
	if parent != nil && *parent != "" && uuid.Validate(*parent) != nil {
		// A non-uuid parent cannot match anything.
		return []*models.FileRecord{}, nil
	}
	recs, err := s.repos.Files(s.db).List(ctx, userID, parent, page*limit, limit)
	if err != nil {
		return nil, err
	}
	for _, rec := range recs {
		rec.Data = nil
	}
	return recs, nil
}

// SetPublished flips visibility on a record owned by the caller.
func (s *FileService) SetPublished(ctx context.Context, userID, id string, published bool) (*models.FileRecord, error) {
	if uuid.Validate(id) != nil {
		return nil, common.ErrorNotFound
	}
	rec, err := s.repos.Files(s.db).SetPublished(ctx, id, userID, published)
	if err != nil {
		return nil, err
	}
	rec.Data = nil
	return rec, nil
}

// GetData returns a visible record together with its content bytes.
// Folders have no content and report common.ErrorNotFound.
func (s *FileService) GetData(ctx context.Context, userID, id string) (*models.FileRecord, []byte, error) {
	rec, err := s.visibleRecord(ctx, userID, id)
	if err != nil {
		return nil, nil, err
	}
	data, err := s.content.Read(ctx, rec)
	if err != nil {
		return nil, nil, err
	}
	rec.Data = nil
	return rec, data, nil
}

func (s *FileService) visibleRecord(ctx context.Context, userID, id string) (*models.FileRecord, error) {
	if uuid.Validate(id) != nil {
		return nil, common.ErrorNotFound
	}
	rec, err := s.repos.Files(s.db).GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if rec.UserID != userID && !rec.IsPublished {
		return nil, common.ErrorNotFound
	}
	return rec, nil
}
