// Package orm is a thin query helper over GORM with cache-through reads,
// offset pagination, and transaction support.
package orm

import (
	"time"

	"github.com/shashiranjanraj/influex/pkg/cache"
	"github.com/shashiranjanraj/influex/pkg/database"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// Pagination carries page metadata alongside a result set.
type Pagination struct {
	Page       int   `json:"page"`
	Limit      int   `json:"limit"`
	Total      int64 `json:"total"`
	TotalPages int   `json:"total_pages"`
}

type Query struct {
	db *gorm.DB
}

func DB() *Query {
	return &Query{db: database.DB}
}

// Wrap builds a Query on an explicit *gorm.DB, typically a transaction handle.
func Wrap(db *gorm.DB) *Query {
	return &Query{db: db}
}

func (q *Query) Model(v interface{}) *Query {
	return &Query{db: q.db.Model(v)}
}

func (q *Query) Where(query string, args ...interface{}) *Query {
	return &Query{db: q.db.Where(query, args...)}
}

func (q *Query) Order(order string) *Query {
	return &Query{db: q.db.Order(order)}
}

func (q *Query) Limit(n int) *Query {
	return &Query{db: q.db.Limit(n)}
}

func (q *Query) Offset(n int) *Query {
	return &Query{db: q.db.Offset(n)}
}

func (q *Query) Get(dest interface{}) error {
	return q.db.Find(dest).Error
}

func (q *Query) First(dest interface{}) error {
	return q.db.First(dest).Error
}

func (q *Query) Count(n *int64) error {
	return q.db.Count(n).Error
}

func (q *Query) Create(v interface{}) error {
	return q.db.Create(v).Error
}

// CreateIgnoreConflict inserts v, silently skipping rows that would violate
// a unique constraint. Returns the number of rows actually inserted.
func (q *Query) CreateIgnoreConflict(v interface{}) (int64, error) {
	res := q.db.Clauses(clause.OnConflict{DoNothing: true}).Create(v)
	if res.Error != nil {
		return 0, res.Error
	}
	return res.RowsAffected, nil
}

func (q *Query) Save(v interface{}) error {
	return q.db.Save(v).Error
}

func (q *Query) Updates(values interface{}) error {
	return q.db.Updates(values).Error
}

// UpdatesWithCount applies values and returns how many rows changed, for
// callers that need to distinguish a no-op from a hit.
func (q *Query) UpdatesWithCount(values interface{}) (int64, error) {
	res := q.db.Updates(values)
	return res.RowsAffected, res.Error
}

func (q *Query) Pluck(column string, dest interface{}) error {
	return q.db.Pluck(column, dest).Error
}

// Expr builds a raw SQL expression usable as an update value, e.g.
// orm.Expr("click_count + 1").
func Expr(expr string, args ...interface{}) clause.Expr {
	return gorm.Expr(expr, args...)
}

func (q *Query) Delete(v interface{}) error {
	return q.db.Delete(v).Error
}

// DeleteWithCount removes matching rows and returns how many were hit, the
// delete-side twin of UpdatesWithCount.
func (q *Query) DeleteWithCount(v interface{}) (int64, error) {
	res := q.db.Delete(v)
	return res.RowsAffected, res.Error
}

// GetWithPagination fills dest with one page of results and returns the
// page metadata. page and limit are normalised to sane values.
func (q *Query) GetWithPagination(dest interface{}, page, limit int) (Pagination, error) {
	if page < 1 {
		page = 1
	}
	if limit < 1 || limit > 100 {
		limit = 20
	}

	var total int64
	if err := q.db.Count(&total).Error; err != nil {
		return Pagination{}, err
	}

	if err := q.db.Offset((page - 1) * limit).Limit(limit).Find(dest).Error; err != nil {
		return Pagination{}, err
	}

	pages := int((total + int64(limit) - 1) / int64(limit))
	return Pagination{Page: page, Limit: limit, Total: total, TotalPages: pages}, nil
}

// Cache reads dest from the cache under key, falling back to the database
// and populating the cache on a miss.
func (q *Query) Cache(key string, ttl time.Duration, dest interface{}) error {
	if cache.Get(key, dest) {
		return nil
	}

	err := q.db.Find(dest).Error
	if err != nil {
		return err
	}

	cache.Set(key, dest, ttl) //nolint:errcheck
	return nil
}

// Transaction runs fn inside a database transaction. fn receives a Query
// bound to the transaction; returning an error rolls everything back.
func Transaction(fn func(tx *Query) error) error {
	return database.DB.Transaction(func(tx *gorm.DB) error {
		return fn(Wrap(tx))
	})
}
