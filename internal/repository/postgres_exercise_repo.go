package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/lib/pq"

	"github.com/hitoshi/fityog/internal/model"
)

// PostgresExerciseRepo はPostgreSQLを使用した運動ログリポジトリ。
type PostgresExerciseRepo struct {
	db *sql.DB
}

// NewPostgresExerciseRepo はPostgresExerciseRepoを生成する。
func NewPostgresExerciseRepo(db *sql.DB) *PostgresExerciseRepo {
	return &PostgresExerciseRepo{db: db}
}

// ListByUserID は指定ユーザーが所有する運動ログのみをID昇順で返す。
// user_idカラムの等価条件で絞り込む。1件もない場合は空スライスを返す。
func (r *PostgresExerciseRepo) ListByUserID(ctx context.Context, userID int) ([]*model.Exercise, error) {
	rows, err := r.db.QueryContext(ctx,
		`SELECT id, user_id, type, duration, calories, date
		 FROM exercises WHERE user_id = $1 ORDER BY id`,
		userID,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to list exercises: %w", err)
	}
	defer rows.Close()

	exercises := make([]*model.Exercise, 0)
	for rows.Next() {
		ex := &model.Exercise{}
		var calories sql.NullInt64
		if err := rows.Scan(&ex.ID, &ex.UserID, &ex.Type, &ex.Duration, &calories, &ex.Date); err != nil {
			return nil, fmt.Errorf("failed to scan exercise: %w", err)
		}
		ex.Calories = int(calories.Int64)
		exercises = append(exercises, ex)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate exercises: %w", err)
	}
	return exercises, nil
}

// Create は運動ログを作成し、採番したIDをexercise.IDに書き込む。
// user_idの外部キー制約違反はFOREIGN_KEY_VIOLATIONのAPIErrorに変換する。
func (r *PostgresExerciseRepo) Create(ctx context.Context, exercise *model.Exercise) error {
	var calories sql.NullInt64
	if exercise.Calories != 0 {
		calories = sql.NullInt64{Int64: int64(exercise.Calories), Valid: true}
	}

	err := r.db.QueryRowContext(ctx,
		`INSERT INTO exercises (user_id, type, duration, calories, date)
		 VALUES ($1, $2, $3, $4, $5)
		 RETURNING id`,
		exercise.UserID, exercise.Type, exercise.Duration, calories, exercise.Date,
	).Scan(&exercise.ID)

	var pqErr *pq.Error
	if errors.As(err, &pqErr) && pqErr.Code == pgForeignKeyViolation {
		return model.NewForeignKeyViolationError("user")
	}
	if err != nil {
		return fmt.Errorf("failed to insert exercise: %w", err)
	}
	return nil
}

// compile-time interface check
var _ ExerciseRepository = (*PostgresExerciseRepo)(nil)
