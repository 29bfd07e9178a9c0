package files

import (
	"context"

	"filesmanager/internal/server/models"
)

// Repository persists file-metadata documents.
//
// List's parent argument selects the parent filter: nil lists every record
// owned by the user, the empty string lists root-level records
// (parent_id IS NULL), and any other value lists the children of that folder.
type Repository interface {
	Create(ctx context.Context, rec *models.FileRecord) (*models.FileRecord, error)
	GetByID(ctx context.Context, id string) (*models.FileRecord, error)
	List(ctx context.Context, userID string, parent *string, offset, limit int) ([]*models.FileRecord, error)
	SetPublished(ctx context.Context, id, userID string, published bool) (*models.FileRecord, error)
	Count(ctx context.Context) (int64, error)
}
