package repomanager

import (
	"context"
	"database/sql"

	"github.com/dmitrijs2005/kaffeekasse/internal/dbx"
	"github.com/dmitrijs2005/kaffeekasse/internal/server/repositories/accounts"
	"github.com/dmitrijs2005/kaffeekasse/internal/server/repositories/entries"
	"github.com/dmitrijs2005/kaffeekasse/internal/server/repositories/refreshtokens"
)

// RepositoryManager hands out repositories bound to either the shared DB
// handle or a transaction, so services can compose multi-statement writes
// with dbx.WithTx.
type RepositoryManager interface {
	RunMigrations(context.Context, *sql.DB) error
	Accounts(db dbx.DBTX) accounts.Repository
	Entries(db dbx.DBTX) entries.Repository
	RefreshTokens(db dbx.DBTX) refreshtokens.Repository
}
