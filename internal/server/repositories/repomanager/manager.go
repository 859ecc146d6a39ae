// Package repomanager hands out repositories bound to a DBTX, so the same
// repository code runs against the pool or inside a transaction.
package repomanager

import (
	"context"
	"database/sql"

	"taskvault/internal/dbx"
	"taskvault/internal/server/repositories/refreshtokens"
	"taskvault/internal/server/repositories/tasks"
	"taskvault/internal/server/repositories/users"
)

type RepositoryManager interface {
	RunMigrations(context.Context, *sql.DB) error
	Users(db dbx.DBTX) users.Repository
	RefreshTokens(db dbx.DBTX) refreshtokens.Repository
	Tasks(db dbx.DBTX) tasks.Repository
}
