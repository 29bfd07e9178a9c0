package services

import (
	"context"
	"database/sql"
	"sync"
	"time"

	"github.com/google/uuid"

	"filesmanager/internal/common"
	"filesmanager/internal/dbx"
	"filesmanager/internal/server/models"
	"filesmanager/internal/server/repositories/files"
	"filesmanager/internal/server/repositories/users"
)

// fakeRepoManager vends in-memory repositories so service logic can be
// exercised without a database. The DBTX argument is ignored.
type fakeRepoManager struct {
	users *fakeUsersRepo
	files *fakeFilesRepo
}

func newFakeRepoManager() *fakeRepoManager {
	return &fakeRepoManager{
		users: &fakeUsersRepo{byEmail: make(map[string]*models.User)},
		files: &fakeFilesRepo{},
	}
}

func (m *fakeRepoManager) RunMigrations(context.Context, *sql.DB) error { return nil }
func (m *fakeRepoManager) Users(dbx.DBTX) users.Repository             { return m.users }
func (m *fakeRepoManager) Files(dbx.DBTX) files.Repository             { return m.files }

type fakeUsersRepo struct {
	mu      sync.Mutex
	byEmail map[string]*models.User
}

func (r *fakeUsersRepo) Create(_ context.Context, user *models.User) (*models.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.byEmail[user.Email]; ok {
		return nil, common.ErrorAlreadyExists
	}
	stored := *user
	stored.ID = uuid.NewString()
	stored.CreatedAt = time.Now()
	r.byEmail[user.Email] = &stored
	out := stored
	return &out, nil
}

func (r *fakeUsersRepo) GetByEmail(_ context.Context, email string) (*models.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	user, ok := r.byEmail[email]
	if !ok {
		return nil, common.ErrorNotFound
	}
	out := *user
	return &out, nil
}

func (r *fakeUsersRepo) GetByID(_ context.Context, id string) (*models.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, user := range r.byEmail {
		if user.ID == id {
			out := *user
			out.PasswordHash = ""
			return &out, nil
		}
	}
	return nil, common.ErrorNotFound
}

func (r *fakeUsersRepo) Count(context.Context) (int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	return int64(len(r.byEmail)), nil
}

type fakeFilesRepo struct {
	mu   sync.Mutex
	recs []*models.FileRecord
}

func (r *fakeFilesRepo) Create(_ context.Context, rec *models.FileRecord) (*models.FileRecord, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	stored := *rec
	stored.ID = uuid.NewString()
	stored.CreatedAt = time.Now()
	r.recs = append(r.recs, &stored)
	out := stored
	return &out, nil
}

func (r *fakeFilesRepo) GetByID(_ context.Context, id string) (*models.FileRecord, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, rec := range r.recs {
		if rec.ID == id {
			out := *rec
			return &out, nil
		}
	}
	return nil, common.ErrorNotFound
}

func (r *fakeFilesRepo) List(_ context.Context, userID string, parent *string, offset, limit int) ([]*models.FileRecord, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	matched := []*models.FileRecord{}
	for _, rec := range r.recs {
		if rec.UserID != userID {
			continue
		}
		if parent != nil && rec.ParentID != *parent {
			continue
		}
		out := *rec
		matched = append(matched, &out)
	}
	if offset >= len(matched) {
		return []*models.FileRecord{}, nil
	}
	matched = matched[offset:]
	if len(matched) > limit {
		matched = matched[:limit]
	}
	return matched, nil
}

func (r *fakeFilesRepo) SetPublished(_ context.Context, id, userID string, published bool) (*models.FileRecord, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, rec := range r.recs {
		if rec.ID == id && rec.UserID == userID {
			rec.IsPublished = published
			out := *rec
			return &out, nil
		}
	}
	return nil, common.ErrorNotFound
}

func (r *fakeFilesRepo) Count(context.Context) (int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	return int64(len(r.recs)), nil
}
