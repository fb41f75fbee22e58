package repository

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/suteetoe/backoffice/internal/model"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

var (
	// ErrNotFound is returned when a lookup matches no row
	ErrNotFound = errors.New("record not found")
	// ErrUnknownSortField is returned for a sort field outside the entity whitelist
	ErrUnknownSortField = errors.New("unknown sort field")
)

// likeEscaper makes LIKE wildcards in a search term match literally
var likeEscaper = strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`)

// sortColumns maps a sortable field name to its column
type sortColumns map[string]string

// crud holds the queries every entity repository shares
type crud[T any] struct {
	db           *gorm.DB
	sortable     sortColumns
	searchFields []string
}

func (c crud[T]) conn(ctx context.Context) *gorm.DB {
	return c.db.WithContext(ctx)
}

// FindByID loads one row by primary key
func (c crud[T]) FindByID(ctx context.Context, id uint) (*T, error) {
	var v T
	if err := c.conn(ctx).First(&v, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return &v, nil
}

// Create inserts v and fills its id
func (c crud[T]) Create(ctx context.Context, v *T) error {
	return c.conn(ctx).Create(v).Error
}

// Save writes every column of v
func (c crud[T]) Save(ctx context.Context, v *T) error {
	return c.conn(ctx).Save(v).Error
}

// Delete removes v by primary key
func (c crud[T]) Delete(ctx context.Context, v *T) error {
	return c.conn(ctx).Delete(v).Error
}

// Count returns the number of rows
func (c crud[T]) Count(ctx context.Context) (int64, error) {
	var n int64
	err := c.conn(ctx).Model(new(T)).Count(&n).Error
	return n, err
}

// FindAll returns one page in default (id) order, or the requested sort
func (c crud[T]) FindAll(ctx context.Context, p model.Pageable) (model.Slice[T], error) {
	return c.page(c.conn(ctx).Model(new(T)), p)
}

// Search returns rows where any search field contains term, ignoring case.
// A blank term behaves like FindAll.
func (c crud[T]) Search(ctx context.Context, term string, p model.Pageable) (model.Slice[T], error) {
	term = strings.TrimSpace(term)
	if term == "" {
		return c.FindAll(ctx, p)
	}

	like := "%" + likeEscaper.Replace(strings.ToLower(term)) + "%"
	conds := make([]string, 0, len(c.searchFields))
	args := make([]interface{}, 0, len(c.searchFields))
	for _, field := range c.searchFields {
		conds = append(conds, "LOWER("+field+") LIKE ? ESCAPE '\\'")
		args = append(args, like)
	}

	q := c.conn(ctx).Model(new(T)).Where(strings.Join(conds, " OR "), args...)
	return c.page(q, p)
}

func (c crud[T]) page(q *gorm.DB, p model.Pageable) (model.Slice[T], error) {
	p = p.Normalize()
	q, err := c.order(q, p.Sort)
	if err != nil {
		return model.Slice[T]{}, err
	}

	// one extra row tells whether another page exists without counting
	rows := make([]T, 0, p.Size+1)
	if err := q.Offset(p.Offset()).Limit(p.Size + 1).Find(&rows).Error; err != nil {
		return model.Slice[T]{}, err
	}
	return model.NewSlice(rows, p), nil
}

func (c crud[T]) order(q *gorm.DB, sort *model.Sort) (*gorm.DB, error) {
	if sort != nil {
		column, ok := c.sortable[sort.Field]
		if !ok {
			return nil, fmt.Errorf("%w: %s", ErrUnknownSortField, sort.Field)
		}
		if column != "id" {
			q = q.Order(clause.OrderByColumn{Column: clause.Column{Name: column}, Desc: sort.Direction == model.Desc})
			return q.Order("id"), nil
		}
		return q.Order(clause.OrderByColumn{Column: clause.Column{Name: "id"}, Desc: sort.Direction == model.Desc}), nil
	}
	return q.Order("id"), nil
}

// findBy loads the single row whose column equals value
func (c crud[T]) findBy(ctx context.Context, column string, value interface{}) (*T, error) {
	var v T
	err := c.conn(ctx).Where(clause.Eq{Column: clause.Column{Name: column}, Value: value}).First(&v).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return &v, nil
}

// taken reports whether a row other than excludeID holds value in column.
// Pass excludeID 0 when creating.
func (c crud[T]) taken(ctx context.Context, column string, value interface{}, excludeID uint) (bool, error) {
	q := c.conn(ctx).Model(new(T)).Where(clause.Eq{Column: clause.Column{Name: column}, Value: value})
	if excludeID != 0 {
		q = q.Where("id <> ?", excludeID)
	}
	var count int64
	if err := q.Count(&count).Error; err != nil {
		return false, err
	}
	return count > 0, nil
}

// list returns every row matching the condition in id order
func (c crud[T]) list(ctx context.Context, query interface{}, args ...interface{}) ([]T, error) {
	rows := make([]T, 0)
	err := c.conn(ctx).Where(query, args...).Order("id").Find(&rows).Error
	return rows, err
}
