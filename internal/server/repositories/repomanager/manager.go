package repomanager

import (
	"context"
	"database/sql"

	"github.com/dmitrijs2005/labagenda/internal/dbx"
	"github.com/dmitrijs2005/labagenda/internal/server/repositories/documents"
	"github.com/dmitrijs2005/labagenda/internal/server/repositories/refreshtokens"
	"github.com/dmitrijs2005/labagenda/internal/server/repositories/users"
)

// RepositoryManager hands out repositories bound to a DB handle or a
// transaction, so services can compose them inside dbx.WithTx.
type RepositoryManager interface {
	RunMigrations(context.Context, *sql.DB) error
	Users(db dbx.DBTX) users.Repository
	RefreshTokens(db dbx.DBTX) refreshtokens.Repository
	Documents(db dbx.DBTX) documents.Repository
}
