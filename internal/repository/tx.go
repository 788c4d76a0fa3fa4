package repository

import (
	"context"

	"gorm.io/gorm"
)

// Transactor runs fn in one database transaction. Repositories rebound
// with WithTx(tx) inside fn commit or roll back together.
type Transactor interface {
	Transaction(ctx context.Context, fn func(tx *gorm.DB) error) error
}

type gormTransactor struct {
	db *gorm.DB
}

// NewTransactor creates a Transactor on db
func NewTransactor(db *gorm.DB) Transactor {
	return &gormTransactor{db: db}
}

func (t *gormTransactor) Transaction(ctx context.Context, fn func(tx *gorm.DB) error) error {
	return t.db.WithContext(ctx).Transaction(fn)
}

// TxReactionStore is a ReactionStore living in the relational database
type TxReactionStore interface {
	ReactionStore
	WithTx(tx *gorm.DB) ReactionStore
}
