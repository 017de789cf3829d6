// Package dbtx binds gorm sessions to a database/sql transaction so that
// services can own the transaction boundary with *sql.DB while repositories
// keep using gorm.
package dbtx

import (
	"context"
	"database/sql"

	"gorm.io/gorm"
)

// Conn returns a gorm session for ctx. When tx is non-nil every statement of
// the session runs on tx.
func Conn(ctx context.Context, db *gorm.DB, tx *sql.Tx) *gorm.DB {
	q := db.WithContext(ctx)
	if tx != nil {
		q.Statement.ConnPool = tx
	}
	return q
}
