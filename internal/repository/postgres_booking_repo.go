package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/lib/pq"

	"github.com/hitoshi/fityog/internal/model"
)

// PostgresBookingRepo はPostgreSQLを使用した予約リポジトリ。
type PostgresBookingRepo struct {
	db *sql.DB
}

// NewPostgresBookingRepo はPostgresBookingRepoを生成する。
func NewPostgresBookingRepo(db *sql.DB) *PostgresBookingRepo {
	return &PostgresBookingRepo{db: db}
}

// Create は予約を作成し、採番したIDをbooking.IDに書き込む。
// user_id・expert_idの外部キー制約違反はFOREIGN_KEY_VIOLATIONのAPIErrorに変換し、
// 予約行は一切永続化されない。
func (r *PostgresBookingRepo) Create(ctx context.Context, booking *model.Booking) error {
	err := r.db.QueryRowContext(ctx,
		`INSERT INTO bookings (user_id, expert_id, date, time, contact_info, status)
		 VALUES ($1, $2, $3, $4, $5, $6)
		 RETURNING id`,
		booking.UserID, booking.ExpertID, booking.Date, booking.Time,
		booking.ContactInfo, string(booking.Status),
	).Scan(&booking.ID)

	var pqErr *pq.Error
	if errors.As(err, &pqErr) && pqErr.Code == pgForeignKeyViolation {
		return model.NewForeignKeyViolationError("expert")
	}
	if err != nil {
		return fmt.Errorf("failed to insert booking: %w", err)
	}
	return nil
}

// compile-time interface check
var _ BookingRepository = (*PostgresBookingRepo)(nil)
