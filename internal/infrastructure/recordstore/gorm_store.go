package recordstore

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"sort"
	"strconv"
	"time"

	"github.com/quoteflow/backend/internal/domain/shared"
	"gorm.io/gorm"
)

// recordRow is the single physical table backing every logical table.
type recordRow struct {
	Tbl       string `gorm:"column:tbl;primaryKey;size:64"`
	ID        string `gorm:"column:id;primaryKey;size:32"`
	Data      string `gorm:"column:data;type:text;not null"`
	CreatedAt time.Time
	UpdatedAt time.Time
}

// TableName returns the physical table name
func (recordRow) TableName() string {
	return "records"
}

// GormStore implements Store on a single gorm-managed table.
type GormStore struct {
	db *gorm.DB
}

// NewGormStore creates a new GormStore
func NewGormStore(db *gorm.DB) *GormStore {
	return &GormStore{db: db}
}

// AutoMigrate creates the records table. Production schemas come from
// the migrations directory; this exists for tests and sqlite setups.
func (s *GormStore) AutoMigrate() error {
	return s.db.AutoMigrate(&recordRow{})
}

// List returns one page of a logical table, optionally filtered by a
// case-insensitive substring search over the serialized record fields.
// Records are ordered by numeric id, i.e. insertion order.
func (s *GormStore) List(ctx context.Context, table string, opts ListOptions) (*ListResult, error) {
	var rows []recordRow
	if err := s.db.WithContext(ctx).Where("tbl = ?", table).Find(&rows).Error; err != nil {
		return nil, fmt.Errorf("list %s: %w", table, err)
	}

	records := make([]Record, 0, len(rows))
	for i := range rows {
		rec, err := decodeRow(&rows[i])
		if err != nil {
			return nil, err
		}
		if opts.Search != "" && !matchesSearch(rec, opts.Search) {
			continue
		}
		records = append(records, rec)
	}

	sort.Slice(records, func(i, j int) bool {
		return numericID(records[i]) < numericID(records[j])
	})

	total := int64(len(records))
	page := opts.Page
	if page <= 0 {
		page = 1
	}
	if opts.Limit > 0 {
		start := (page - 1) * opts.Limit
		if start > len(records) {
			start = len(records)
		}
		end := start + opts.Limit
		if end > len(records) {
			end = len(records)
		}
		records = records[start:end]
	}

	return &ListResult{
		Data:  records,
		Total: total,
		Page:  page,
		Limit: opts.Limit,
	}, nil
}

// Get returns one record by logical table and id
func (s *GormStore) Get(ctx context.Context, table, id string) (Record, error) {
	var row recordRow
	err := s.db.WithContext(ctx).
		Where("tbl = ? AND id = ?", table, id).
		First(&row).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, fmt.Errorf("get %s/%s: %w", table, id, err)
	}
	return decodeRow(&row)
}

// Create stores a new record, assigning the next numeric id when absent.
func (s *GormStore) Create(ctx context.Context, table string, rec Record) (Record, error) {
	id, _ := rec["id"].(string)
	if id == "" {
		next, err := s.nextID(ctx, table)
		if err != nil {
			return nil, err
		}
		id = next
	}
	rec["id"] = id

	data, err := json.Marshal(rec)
	if err != nil {
		return nil, fmt.Errorf("encode %s/%s: %w", table, id, err)
	}

	now := time.Now()
	row := recordRow{Tbl: table, ID: id, Data: string(data), CreatedAt: now, UpdatedAt: now}
	if err := s.db.WithContext(ctx).Create(&row).Error; err != nil {
		return nil, fmt.Errorf("create %s/%s: %w", table, id, err)
	}
	return rec, nil
}

// Update shallow-merges the partial record over the stored one.
// The id field is immutable.
func (s *GormStore) Update(ctx context.Context, table, id string, partial Record) (Record, error) {
	existing, err := s.Get(ctx, table, id)
	if err != nil {
		return nil, err
	}

	for k, v := range partial {
		existing[k] = v
	}
	existing["id"] = id

	data, err := json.Marshal(existing)
	if err != nil {
		return nil, fmt.Errorf("encode %s/%s: %w", table, id, err)
	}

	err = s.db.WithContext(ctx).
		Model(&recordRow{}).
		Where("tbl = ? AND id = ?", table, id).
		Updates(map[string]any{"data": string(data), "updated_at": time.Now()}).Error
	if err != nil {
		return nil, fmt.Errorf("update %s/%s: %w", table, id, err)
	}
	return existing, nil
}

// Delete removes one record
func (s *GormStore) Delete(ctx context.Context, table, id string) error {
	result := s.db.WithContext(ctx).
		Where("tbl = ? AND id = ?", table, id).
		Delete(&recordRow{})
	if result.Error != nil {
		return fmt.Errorf("delete %s/%s: %w", table, id, result.Error)
	}
	if result.RowsAffected == 0 {
		return shared.ErrNotFound
	}
	return nil
}

// nextID computes max(existing numeric ids)+1, stringified. Non-numeric
// ids are ignored for the purpose of the maximum.
func (s *GormStore) nextID(ctx context.Context, table string) (string, error) {
	var ids []string
	err := s.db.WithContext(ctx).
		Model(&recordRow{}).
		Where("tbl = ?", table).
		Pluck("id", &ids).Error
	if err != nil {
		return "", fmt.Errorf("next id for %s: %w", table, err)
	}

	max := int64(0)
	for _, raw := range ids {
		if n, err := strconv.ParseInt(raw, 10, 64); err == nil && n > max {
			max = n
		}
	}
	return strconv.FormatInt(max+1, 10), nil
}

func decodeRow(row *recordRow) (Record, error) {
	var rec Record
	if err := json.Unmarshal([]byte(row.Data), &rec); err != nil {
		return nil, fmt.Errorf("decode %s/%s: %w", row.Tbl, row.ID, err)
	}
	if rec == nil {
		rec = Record{}
	}
	rec["id"] = row.ID
	return rec, nil
}

func numericID(rec Record) int64 {
	id, _ := rec["id"].(string)
	n, err := strconv.ParseInt(id, 10, 64)
	if err != nil {
		return 1<<62 - 1
	}
	return n
}
