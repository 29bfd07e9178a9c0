package repomanager

import (
	"context"
	"database/sql"

	"filesmanager/internal/dbx"
	"filesmanager/internal/server/repositories/files"
	"filesmanager/internal/server/repositories/users"
)

type RepositoryManager interface {
	RunMigrations(context.Context, *sql.DB) error
	Users(db dbx.DBTX) users.Repository
	Files(db dbx.DBTX) files.Repository
}
