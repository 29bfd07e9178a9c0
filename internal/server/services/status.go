package services

import (
	"context"
	"database/sql"

	"filesmanager/internal/server/repositories/repomanager"
	"filesmanager/internal/server/sessions"
)

// Health reports reachability of the two backing stores.
type Health struct {
	DB    bool
	Cache bool
}

// Stats carries the aggregate counters exposed by the stats endpoint.
type Stats struct {
	Users int64
	Files int64
}

// StatusService backs the liveness and counters endpoints.
type StatusService struct {
	db       *sql.DB
	repos    repomanager.RepositoryManager
	sessions sessions.Cache
}

func NewStatusService(db *sql.DB, repos repomanager.RepositoryManager, cache sessions.Cache) *StatusService {
	return &StatusService{db: db, repos: repos, sessions: cache}
}

func (s *StatusService) Health(ctx context.Context) Health {
	return Health{
		DB:    s.db.PingContext(ctx) == nil,
		Cache: s.sessions.Ping(ctx) == nil,
	}
}

func (s *StatusService) Stats(ctx context.Context) (Stats, error) {
	userCount, err := s.repos.Users(s.db).Count(ctx)
	if err != nil {
		return Stats{}, err
	}
	fileCount, err := s.repos.Files(s.db).Count(ctx)
	if err != nil {
		return Stats{}, err
	}
	return Stats{Users: userCount, Files: fileCount}, nil
}
