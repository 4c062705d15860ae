package repomanager

import (
	"context"
	"database/sql"

	"github.com/dmitrijs2005/linkgate/internal/dbx"
	"github.com/dmitrijs2005/linkgate/internal/server/repositories/attempts"
	"github.com/dmitrijs2005/linkgate/internal/server/repositories/connections"
	"github.com/dmitrijs2005/linkgate/internal/server/repositories/files"
	"github.com/dmitrijs2005/linkgate/internal/server/repositories/links"
	"github.com/dmitrijs2005/linkgate/internal/server/repositories/sessions"
	"github.com/dmitrijs2005/linkgate/internal/server/repositories/users"
)

type RepositoryManager interface {
	RunMigrations(context.Context, *sql.DB) error
	Users(db dbx.DBTX) users.Repository
	Sessions(db dbx.DBTX) sessions.Repository
	Connections(db dbx.DBTX) connections.Repository
	Links(db dbx.DBTX) links.Repository
	Attempts(db dbx.DBTX) attempts.Repository
	Files(db dbx.DBTX) files.Repository
}
