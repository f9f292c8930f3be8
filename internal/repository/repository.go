// Package repository implements the relational backend for users, live
// datasets, the interaction log and behavior profiles. Every repo works on
// SQLite and Postgres; queries are written with "?" and rebound per dialect.
package repository

import (
	"errors"

	"github.com/alexanderramin/cityguide/internal/db"
)

var ErrNotFound = errors.New("not found")

// conn pairs a DBTX with its dialect.
type conn struct {
	db      db.DBTX
	dialect db.Dialect
}

func (c conn) q(query string) string {
	return db.Rebind(c.dialect, query)
}
