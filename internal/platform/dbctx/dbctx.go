package dbctx

import (
	"context"

	"gorm.io/gorm"
)

// Context bundles a request context with an optional GORM transaction.
// Repo methods run against the transaction when Tx is set, otherwise
// against the repo's own connection.
type Context struct {
	Ctx context.Context
	Tx  *gorm.DB
}
