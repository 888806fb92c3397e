package repository

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/hitoshi/basic/internal/model"
)

// PostgresPropertyRepo はPostgreSQLを使用した物件リポジトリ。
type PostgresPropertyRepo struct {
	db *sql.DB
}

// NewPostgresPropertyRepo はPostgresPropertyRepoを生成する。
func NewPostgresPropertyRepo(db *sql.DB) *PostgresPropertyRepo {
	return &PostgresPropertyRepo{db: db}
}

const propertyColumns = `id, kind, host_id, bedrooms, rooms, city, price_per_day, size_sqm`

// Create は物件を作成する。IDが既に存在する場合は ErrDuplicate を返す。
func (r *PostgresPropertyRepo) Create(ctx context.Context, property *model.Property) error {
	var size sql.NullFloat64
	if property.Kind == model.PropertyKindFull {
		size = sql.NullFloat64{Float64: property.SizeSqm, Valid: true}
	}

	_, err := r.db.ExecContext(ctx,
		`INSERT INTO properties (`+propertyColumns+`)
		 VALUES ($1, $2, $3, $4, $5, $6, $7, $8)`,
		property.ID, string(property.Kind), property.HostID,
		property.Bedrooms, property.Rooms, property.City,
		property.PricePerDay, size,
	)
	if isUniqueViolation(err) {
		return ErrDuplicate
	}
	if err != nil {
		return fmt.Errorf("failed to insert property: %w", err)
	}
	return nil
}

// FindByID は指定IDの物件を取得する。見つからない場合はnilを返す。
func (r *PostgresPropertyRepo) FindByID(ctx context.Context, id int) (*model.Property, error) {
	row := r.db.QueryRowContext(ctx,
		`SELECT `+propertyColumns+` FROM properties WHERE id = $1`,
		id,
	)
	property, err := scanProperty(row)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to find property by ID: %w", err)
	}
	return property, nil
}

// List は登録順に物件一覧を返す。
func (r *PostgresPropertyRepo) List(ctx context.Context) ([]*model.Property, error) {
	rows, err := r.db.QueryContext(ctx,
		`SELECT `+propertyColumns+` FROM properties ORDER BY created_at, id`,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to list properties: %w", err)
	}
	defer rows.Close()

	properties := []*model.Property{}
	for rows.Next() {
		property, err := scanProperty(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan property: %w", err)
		}
		properties = append(properties, property)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate properties: %w", err)
	}
	return properties, nil
}

// CountByHostID はホストが所有する物件数を返す。
func (r *PostgresPropertyRepo) CountByHostID(ctx context.Context, hostID int) (int, error) {
	var count int
	err := r.db.QueryRowContext(ctx,
		`SELECT COUNT(*) FROM properties WHERE host_id = $1`,
		hostID,
	).Scan(&count)
	if err != nil {
		return 0, fmt.Errorf("failed to count properties by host: %w", err)
	}
	return count, nil
}

// DeleteByID は指定IDの物件を削除する。
// 点検記録は ON DELETE CASCADE で削除される。
func (r *PostgresPropertyRepo) DeleteByID(ctx context.Context, id int) error {
	result, err := r.db.ExecContext(ctx,
		`DELETE FROM properties WHERE id = $1`,
		id,
	)
	if err != nil {
		return fmt.Errorf("failed to delete property: %w", err)
	}
	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get rows affected: %w", err)
	}
	if rowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}

func scanProperty(s rowScanner) (*model.Property, error) {
	property := &model.Property{}
	var kind string
	var size sql.NullFloat64

	err := s.Scan(
		&property.ID, &kind, &property.HostID,
		&property.Bedrooms, &property.Rooms, &property.City,
		&property.PricePerDay, &size,
	)
	if err != nil {
		return nil, err
	}
	property.Kind = model.PropertyKind(kind)
	property.SizeSqm = size.Float64
	return property, nil
}

// compile-time interface check
var _ PropertyRepository = (*PostgresPropertyRepo)(nil)
