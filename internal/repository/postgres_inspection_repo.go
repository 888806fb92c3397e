package repository

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/hitoshi/basic/internal/model"
)

// PostgresInspectionRepo はPostgreSQLを使用した点検記録リポジトリ。
type PostgresInspectionRepo struct {
	db *sql.DB
}

// NewPostgresInspectionRepo はPostgresInspectionRepoを生成する。
func NewPostgresInspectionRepo(db *sql.DB) *PostgresInspectionRepo {
	return &PostgresInspectionRepo{db: db}
}

// Upsert は物件と日付をキーに点検記録を保存する。
// PRIMARY KEY(property_id, day) を利用した INSERT ON CONFLICT で同じ日の記録を上書きする。
func (r *PostgresInspectionRepo) Upsert(ctx context.Context, inspection *model.Inspection) error {
	_, err := r.db.ExecContext(ctx,
		`INSERT INTO inspections (property_id, day, report, recorded_at)
		 VALUES ($1, $2, $3, $4)
		 ON CONFLICT (property_id, day)
		 DO UPDATE SET report = EXCLUDED.report, recorded_at = EXCLUDED.recorded_at`,
		inspection.PropertyID, model.FormatDate(inspection.Day),
		inspection.Report, inspection.RecordedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to upsert inspection: %w", err)
	}
	return nil
}

// ListByPropertyID は物件の点検記録を日付順に返す。
func (r *PostgresInspectionRepo) ListByPropertyID(ctx context.Context, propertyID int) ([]*model.Inspection, error) {
	rows, err := r.db.QueryContext(ctx,
		`SELECT property_id, day, report, recorded_at
		 FROM inspections WHERE property_id = $1 ORDER BY day`,
		propertyID,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to list inspections: %w", err)
	}
	defer rows.Close()

	inspections := []*model.Inspection{}
	for rows.Next() {
		in, err := scanInspection(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan inspection: %w", err)
		}
		inspections = append(inspections, in)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate inspections: %w", err)
	}
	return inspections, nil
}

// FindByPropertyAndDay は指定日の点検記録を返す。見つからない場合はnilを返す。
func (r *PostgresInspectionRepo) FindByPropertyAndDay(ctx context.Context, propertyID int, day time.Time) (*model.Inspection, error) {
	row := r.db.QueryRowContext(ctx,
		`SELECT property_id, day, report, recorded_at
		 FROM inspections WHERE property_id = $1 AND day = $2`,
		propertyID, model.FormatDate(day),
	)
	in, err := scanInspection(row)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to find inspection: %w", err)
	}
	return in, nil
}

// DeleteByPropertyID は物件の点検記録を全て削除する。
func (r *PostgresInspectionRepo) DeleteByPropertyID(ctx context.Context, propertyID int) error {
	_, err := r.db.ExecContext(ctx,
		`DELETE FROM inspections WHERE property_id = $1`,
		propertyID,
	)
	if err != nil {
		return fmt.Errorf("failed to delete inspections: %w", err)
	}
	return nil
}

func scanInspection(s rowScanner) (*model.Inspection, error) {
	in := &model.Inspection{}
	if err := s.Scan(&in.PropertyID, &in.Day, &in.Report, &in.RecordedAt); err != nil {
		return nil, err
	}
	in.Day = model.CalendarDay(in.Day)
	return in, nil
}

// compile-time interface check
var _ InspectionRepository = (*PostgresInspectionRepo)(nil)
