package repomanager

import (
	"context"
	"database/sql"

	"github.com/dmitrijs2005/userdir/internal/dbx"
	"github.com/dmitrijs2005/userdir/internal/server/repositories/addresses"
	"github.com/dmitrijs2005/userdir/internal/server/repositories/companies"
	"github.com/dmitrijs2005/userdir/internal/server/repositories/users"
)

// RepositoryManager vends repositories bound to either the pooled connection
// or a transaction handle, so a single write protocol can run every step on
// one transaction.
type RepositoryManager interface {
	RunMigrations(context.Context, *sql.DB) error
	Users(db dbx.DBTX) users.Repository
	Addresses(db dbx.DBTX) addresses.Repository
	Companies(db dbx.DBTX) companies.Repository
}
