package repository

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/hitoshi/basic/internal/model"
)

// PostgresBookingRepo はPostgreSQLを使用した予約リポジトリ。
type PostgresBookingRepo struct {
	db *sql.DB
}

// NewPostgresBookingRepo はPostgresBookingRepoを生成する。
func NewPostgresBookingRepo(db *sql.DB) *PostgresBookingRepo {
	return &PostgresBookingRepo{db: db}
}

const bookingColumns = `id, user_id, property_id, start_date, end_date, paid, created_at`

// Create は予約を作成する。
func (r *PostgresBookingRepo) Create(ctx context.Context, booking *model.Booking) error {
	_, err := r.db.ExecContext(ctx,
		`INSERT INTO bookings (`+bookingColumns+`)
		 VALUES ($1, $2, $3, $4, $5, $6, $7)`,
		booking.ID, booking.UserID, booking.PropertyID,
		model.FormatDate(booking.StartDate), model.FormatDate(booking.EndDate),
		booking.Paid, booking.CreatedAt,
	)
	if isUniqueViolation(err) {
		return ErrDuplicate
	}
	if isForeignKeyViolation(err) {
		return ErrNotFound
	}
	if err != nil {
		return fmt.Errorf("failed to insert booking: %w", err)
	}
	return nil
}

// FindByID は指定IDの予約を取得する。見つからない場合はnilを返す。
func (r *PostgresBookingRepo) FindByID(ctx context.Context, id string) (*model.Booking, error) {
	row := r.db.QueryRowContext(ctx,
		`SELECT `+bookingColumns+` FROM bookings WHERE id = $1`,
		id,
	)
	booking, err := scanBooking(row)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to find booking by ID: %w", err)
	}
	return booking, nil
}

// ListByUserID はユーザーの予約を作成順に返す。
func (r *PostgresBookingRepo) ListByUserID(ctx context.Context, userID int) ([]*model.Booking, error) {
	rows, err := r.db.QueryContext(ctx,
		`SELECT `+bookingColumns+` FROM bookings WHERE user_id = $1 ORDER BY created_at, id`,
		userID,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to list bookings by user: %w", err)
	}
	defer rows.Close()

	bookings := []*model.Booking{}
	for rows.Next() {
		booking, err := scanBooking(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan booking: %w", err)
		}
		bookings = append(bookings, booking)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate bookings: %w", err)
	}
	return bookings, nil
}

// FindFirstByUserAndProperty はユーザーの予約のうち指定物件を対象とする最初の予約を返す。
func (r *PostgresBookingRepo) FindFirstByUserAndProperty(ctx context.Context, userID, propertyID int) (*model.Booking, error) {
	row := r.db.QueryRowContext(ctx,
		`SELECT `+bookingColumns+` FROM bookings
		 WHERE user_id = $1 AND property_id = $2
		 ORDER BY created_at, id
		 LIMIT 1`,
		userID, propertyID,
	)
	booking, err := scanBooking(row)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to find booking by user and property: %w", err)
	}
	return booking, nil
}

// CountByPropertyID は物件を参照している予約数を返す。
func (r *PostgresBookingRepo) CountByPropertyID(ctx context.Context, propertyID int) (int, error) {
	var count int
	err := r.db.QueryRowContext(ctx,
		`SELECT COUNT(*) FROM bookings WHERE property_id = $1`,
		propertyID,
	).Scan(&count)
	if err != nil {
		return 0, fmt.Errorf("failed to count bookings by property: %w", err)
	}
	return count, nil
}

// DeleteByUserID はユーザーの全予約を削除する。
func (r *PostgresBookingRepo) DeleteByUserID(ctx context.Context, userID int) error {
	_, err := r.db.ExecContext(ctx,
		`DELETE FROM bookings WHERE user_id = $1`,
		userID,
	)
	if err != nil {
		return fmt.Errorf("failed to delete bookings by user: %w", err)
	}
	return nil
}

func scanBooking(s rowScanner) (*model.Booking, error) {
	booking := &model.Booking{}
	err := s.Scan(
		&booking.ID, &booking.UserID, &booking.PropertyID,
		&booking.StartDate, &booking.EndDate,
		&booking.Paid, &booking.CreatedAt,
	)
	if err != nil {
		return nil, err
	}
	booking.StartDate = model.CalendarDay(booking.StartDate)
	booking.EndDate = model.CalendarDay(booking.EndDate)
	return booking, nil
}

// compile-time interface check
var _ BookingRepository = (*PostgresBookingRepo)(nil)
