// Package store implements the user-scoped ordered sequences behind links,
// collections, and social links. All three entity kinds share the same order
// semantics, so the helpers take the model as a parameter instead of
// repeating the logic per table.
package store

import (
	"database/sql"

	"gorm.io/gorm"
)

// OrderUpdate is one (entity, position) pair of a reorder batch
type OrderUpdate struct {
	// Order has no required tag: position 0 is a legal value
	ID    string `json:"id" binding:"required"`
	Order int    `json:"order"`
}

// NextOrder computes the append position for a user's sequence: one past the
// current maximum, 1 when the sequence is empty. The maximum is read from the
// store on every call rather than cached, so concurrent appends cannot drift.
func NextOrder(db *gorm.DB, model interface{}, userID string) (int, error) {
	var max sql.NullInt64
	err := db.Model(model).
		Where("user_id = ?", userID).
		Select(`COALESCE(MAX("order"), 0)`).
		Scan(&max).Error
	if err != nil {
		return 0, err
	}
	return int(max.Int64) + 1, nil
}

// Reorder applies a batch of order updates as a single transaction. Every
// update must match a row owned by userID; one miss rolls the whole batch
// back with gorm.ErrRecordNotFound, so a batch naming someone else's entity
// changes nothing. Supplied order values are trusted positions; the store
// does not renumber or deduplicate them.
func Reorder(db *gorm.DB, model interface{}, userID string, updates []OrderUpdate) error {
	return db.Transaction(func(tx *gorm.DB) error {
		for _, u := range updates {
			result := tx.Model(model).
				Where("id = ? AND user_id = ?", u.ID, userID).
				Update("order", u.Order)
			if result.Error != nil {
				return result.Error
			}
			if result.RowsAffected == 0 {
				return gorm.ErrRecordNotFound
			}
		}
		return nil
	})
}

// Ordered scopes a query to a user's sequence sorted by position, with
// creation time as a deterministic tie-break.
func Ordered(db *gorm.DB, userID string) *gorm.DB {
	return db.Where("user_id = ?", userID).Order(`"order" ASC, created_at ASC`)
}
