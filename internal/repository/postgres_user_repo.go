package repository

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/hitoshi/basic/internal/model"
)

// PostgresUserRepo はPostgreSQLを使用したユーザーリポジトリ。
type PostgresUserRepo struct {
	db *sql.DB
}

// NewPostgresUserRepo はPostgresUserRepoを生成する。
func NewPostgresUserRepo(db *sql.DB) *PostgresUserRepo {
	return &PostgresUserRepo{db: db}
}

const userColumns = `id, kind, first_name, last_name, date_of_birth, registration_date,
	tax_number, payment_method, gold_level`

// Create はユーザーを作成する。IDが既に存在する場合は ErrDuplicate を返す。
// 種別ごとの項目は該当しない種別ではNULLとして保存する。
func (r *PostgresUserRepo) Create(ctx context.Context, user *model.User) error {
	var taxNumber sql.NullInt64
	var paymentMethod sql.NullString
	var goldLevel sql.NullInt64

	switch user.Kind {
	case model.UserKindHost:
		taxNumber = sql.NullInt64{Int64: user.TaxNumber, Valid: true}
	case model.UserKindGold:
		goldLevel = sql.NullInt64{Int64: int64(user.GoldLevel), Valid: true}
		paymentMethod = sql.NullString{String: user.PaymentMethod, Valid: true}
	case model.UserKindStandard:
		paymentMethod = sql.NullString{String: user.PaymentMethod, Valid: true}
	}

	_, err := r.db.ExecContext(ctx,
		`INSERT INTO users (`+userColumns+`)
		 VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)`,
		user.ID, string(user.Kind), user.FirstName, user.LastName,
		model.FormatDate(user.DateOfBirth), model.FormatDate(user.RegistrationDate),
		taxNumber, paymentMethod, goldLevel,
	)
	if isUniqueViolation(err) {
		return ErrDuplicate
	}
	if err != nil {
		return fmt.Errorf("failed to insert user: %w", err)
	}
	return nil
}

// FindByID は指定IDのユーザーを取得する。見つからない場合はnilを返す。
func (r *PostgresUserRepo) FindByID(ctx context.Context, id int) (*model.User, error) {
	row := r.db.QueryRowContext(ctx,
		`SELECT `+userColumns+` FROM users WHERE id = $1`,
		id,
	)
	user, err := scanUser(row)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to find user by ID: %w", err)
	}
	return user, nil
}

// List は登録順にユーザー一覧を返す。
func (r *PostgresUserRepo) List(ctx context.Context) ([]*model.User, error) {
	rows, err := r.db.QueryContext(ctx,
		`SELECT `+userColumns+` FROM users ORDER BY created_at, id`,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to list users: %w", err)
	}
	defer rows.Close()

	users := []*model.User{}
	for rows.Next() {
		user, err := scanUser(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan user: %w", err)
		}
		users = append(users, user)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate users: %w", err)
	}
	return users, nil
}

// DeleteByID は指定IDのユーザーを削除する。
// ユーザーの予約は ON DELETE CASCADE で削除される。
func (r *PostgresUserRepo) DeleteByID(ctx context.Context, id int) error {
	result, err := r.db.ExecContext(ctx,
		`DELETE FROM users WHERE id = $1`,
		id,
	)
	if err != nil {
		return fmt.Errorf("failed to delete user: %w", err)
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

// rowScanner は *sql.Row と *sql.Rows の共通インターフェース。
type rowScanner interface {
	Scan(dest ...any) error
}

func scanUser(s rowScanner) (*model.User, error) {
	user := &model.User{}
	var kind string
	var taxNumber sql.NullInt64
	var paymentMethod sql.NullString
	var goldLevel sql.NullInt64

	err := s.Scan(
		&user.ID, &kind, &user.FirstName, &user.LastName,
		&user.DateOfBirth, &user.RegistrationDate,
		&taxNumber, &paymentMethod, &goldLevel,
	)
	if err != nil {
		return nil, err
	}

	user.Kind = model.UserKind(kind)
	user.DateOfBirth = model.CalendarDay(user.DateOfBirth)
	user.RegistrationDate = model.CalendarDay(user.RegistrationDate)
	user.TaxNumber = taxNumber.Int64
	user.PaymentMethod = paymentMethod.String
	user.GoldLevel = int(goldLevel.Int64)
	return user, nil
}

// compile-time interface check
var _ UserRepository = (*PostgresUserRepo)(nil)
