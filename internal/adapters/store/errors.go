package store

import (
	"errors"
)

// Sentinel error kinds for this package. These allow errors.Is/As from callers.
var (
	ErrSchema = errors.New("schema migration failed")
	ErrUpsert = errors.New("system upsert failed")
	ErrDelete = errors.New("event delete failed")
	ErrInsert = errors.New("event insert failed")
	ErrQuery  = errors.New("query failed")
)
