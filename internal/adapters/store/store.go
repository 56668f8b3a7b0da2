// Package store persists rating systems and their event histories through
// gorm. Each registered (algorithm, granularity, subject) combination owns
// one events table; each algorithm owns one systems table shared by its
// combinations.
package store

import (
	"errors"
	"fmt"
	"time"

	"gorm.io/gorm"
)

// sqliteBindLimit is the default SQLITE_MAX_VARIABLE_NUMBER budget one
// multi-valued insert may consume.
const sqliteBindLimit = 999

// DefaultBatchSize bounds one bulk event insert unless overridden.
const DefaultBatchSize = 1000

// SystemRow is the metadata row shared by all per-algorithm systems tables.
// A named system is unique within its (granularity, subject) combination.
type SystemRow struct {
	ID          uint   `gorm:"primaryKey"`
	Granularity string `gorm:"size:32;not null;uniqueIndex:uq_system_key,priority:1"`
	Subject     string `gorm:"size:32;not null;uniqueIndex:uq_system_key,priority:2"`
	Name        string `gorm:"size:128;not null;uniqueIndex:uq_system_key,priority:3"`
	Description string `gorm:"size:512"`
	ConfigJSON  string `gorm:"type:text;not null"`
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

// Repository persists one events table plus its algorithm's systems table.
// R is the event row model.
type Repository[R any] struct {
	db             *gorm.DB
	systemTable    string
	systemIDColumn string
	entityIDColumn string
	batchSize      int
}

// Option applies a configuration option to a repository.
type Option func(*settings)

type settings struct {
	batchSize int
}

// WithBatchSize bounds one bulk insert. Values below 1 keep the default.
func WithBatchSize(n int) Option {
	return func(s *settings) {
		if n > 0 {
			s.batchSize = n
		}
	}
}

// NewRepository builds a repository over db. systemTable names the
// algorithm's metadata table; systemIDColumn and entityIDColumn name the
// event table's foreign key and rated-entity columns.
func NewRepository[R any](db *gorm.DB, systemTable, systemIDColumn, entityIDColumn string, opts ...Option) *Repository[R] {
	s := settings{batchSize: DefaultBatchSize}
	for _, opt := range opts {
		opt(&s)
	}
	return &Repository[R]{
		db:             db,
		systemTable:    systemTable,
		systemIDColumn: systemIDColumn,
		entityIDColumn: entityIDColumn,
		batchSize:      s.batchSize,
	}
}

// DB returns the underlying connection for transaction scoping.
func (r *Repository[R]) DB() *gorm.DB {
	return r.db
}

// EnsureSchema creates the systems and events tables when missing.
func (r *Repository[R]) EnsureSchema() error {
	if err := r.db.Table(r.systemTable).AutoMigrate(&SystemRow{}); err != nil {
		return fmt.Errorf("%w: %s: %v", ErrSchema, r.systemTable, err)
	}
	var row R
	if err := r.db.AutoMigrate(&row); err != nil {
		return fmt.Errorf("%w: %v", ErrSchema, err)
	}
	return nil
}

// UpsertSystem creates or updates the metadata row for one named system and
// returns its id. tx may be a transaction handle.
func (r *Repository[R]) UpsertSystem(tx *gorm.DB, granularity, subject, name, description, configJSON string) (uint, error) {
	var row SystemRow
	err := tx.Table(r.systemTable).
		Where("granularity = ? AND subject = ? AND name = ?", granularity, subject, name).
		Take(&row).Error
	switch {
	case errors.Is(err, gorm.ErrRecordNotFound):
		row = SystemRow{
			Granularity: granularity,
			Subject:     subject,
			Name:        name,
			Description: description,
			ConfigJSON:  configJSON,
		}
		if err := tx.Table(r.systemTable).Create(&row).Error; err != nil {
			return 0, fmt.Errorf("%w: %s %q: %v", ErrUpsert, r.systemTable, name, err)
		}
		return row.ID, nil
	case err != nil:
		return 0, fmt.Errorf("%w: %s %q: %v", ErrUpsert, r.systemTable, name, err)
	}

	updates := map[string]any{
		"description": description,
		"config_json": configJSON,
		"updated_at":  time.Now().UTC(),
	}
	if err := tx.Table(r.systemTable).Where("id = ?", row.ID).Updates(updates).Error; err != nil {
		return 0, fmt.Errorf("%w: %s %q: %v", ErrUpsert, r.systemTable, name, err)
	}
	return row.ID, nil
}

// DeleteEvents removes every persisted event for one system.
func (r *Repository[R]) DeleteEvents(tx *gorm.DB, systemID uint) error {
	var row R
	if err := tx.Where(r.systemIDColumn+" = ?", systemID).Delete(&row).Error; err != nil {
		return fmt.Errorf("%w: system %d: %v", ErrDelete, systemID, err)
	}
	return nil
}

// InsertEvents bulk-inserts event rows in dialect-sized batches.
func (r *Repository[R]) InsertEvents(tx *gorm.DB, rows []R) error {
	if len(rows) == 0 {
		return nil
	}
	if err := tx.CreateInBatches(rows, r.insertBatchSize()).Error; err != nil {
		return fmt.Errorf("%w: %v", ErrInsert, err)
	}
	return nil
}

// CountTrackedEntities counts distinct rated entities for one system.
func (r *Repository[R]) CountTrackedEntities(tx *gorm.DB, systemID uint) (int64, error) {
	var row R
	var count int64
	err := tx.Model(&row).
		Where(r.systemIDColumn+" = ?", systemID).
		Distinct(r.entityIDColumn).
		Count(&count).Error
	if err != nil {
		return 0, fmt.Errorf("%w: %v", ErrQuery, err)
	}
	return count, nil
}

// insertBatchSize caps the configured batch by the bind-variable budget on
// sqlite; postgres takes the configured size as-is.
func (r *Repository[R]) insertBatchSize() int {
	if r.db.Dialector.Name() != "sqlite" {
		return r.batchSize
	}
	fields := columnCount[R](r.db)
	if fields <= 0 {
		return r.batchSize
	}
	capped := sqliteBindLimit / fields
	if capped < 1 {
		capped = 1
	}
	if capped < r.batchSize {
		return capped
	}
	return r.batchSize
}

// columnCount reports how many columns one row binds.
func columnCount[R any](db *gorm.DB) int {
	var row R
	stmt := gorm.Statement{DB: db}
	if err := stmt.Parse(&row); err != nil {
		return 0
	}
	return len(stmt.Schema.Fields)
}
