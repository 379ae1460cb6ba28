package repository

import "github.com/jackc/pgx/v5"

// ErrNoRows is returned when a lookup matches nothing. Aliased so callers
// don't have to import pgx to test for it.
var ErrNoRows = pgx.ErrNoRows
