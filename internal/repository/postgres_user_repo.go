package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/lib/pq"

	"github.com/hitoshi/fityog/internal/model"
)

// PostgreSQLのエラーコード。制約違反を型付きエラーへ変換する際に使用する。
const (
	pgUniqueViolation     = "23505"
	pgForeignKeyViolation = "23503"
)

// PostgresUserRepo はPostgreSQLを使用したユーザーリポジトリ。
type PostgresUserRepo struct {
	db *sql.DB
}

// NewPostgresUserRepo はPostgresUserRepoを生成する。
func NewPostgresUserRepo(db *sql.DB) *PostgresUserRepo {
	return &PostgresUserRepo{db: db}
}

// FindByID は指定IDのユーザーを取得する。見つからない場合はnilを返す。
func (r *PostgresUserRepo) FindByID(ctx context.Context, id int) (*model.User, error) {
	return r.findOne(ctx,
		`SELECT id, username, password_hash, is_expert, bio, specialties, rating, photo_url, experience, created_at
		 FROM users WHERE id = $1`,
		id,
	)
}

// FindByUsername はユーザー名でユーザーを検索する。見つからない場合はnilを返す。
// usernameカラムにはユニークインデックスがあり、等価検索はインデックスを使用する。
func (r *PostgresUserRepo) FindByUsername(ctx context.Context, username string) (*model.User, error) {
	return r.findOne(ctx,
		`SELECT id, username, password_hash, is_expert, bio, specialties, rating, photo_url, experience, created_at
		 FROM users WHERE username = $1`,
		username,
	)
}

// Create はユーザーを作成し、採番したIDをuser.IDに書き込む。
// ユーザー名のユニーク制約違反はDUPLICATE_USERNAMEのAPIErrorに変換する。
func (r *PostgresUserRepo) Create(ctx context.Context, user *model.User) error {
	err := r.db.QueryRowContext(ctx,
		`INSERT INTO users (username, password_hash, is_expert, bio, specialties, rating, photo_url, experience, created_at)
		 VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
		 RETURNING id`,
		user.Username, user.PasswordHash, user.IsExpert,
		nullString(user.Bio), pq.Array(user.Specialties), nullFloat(user.Rating),
		nullString(user.PhotoURL), nullString(user.Experience), user.CreatedAt,
	).Scan(&user.ID)

	var pqErr *pq.Error
	if errors.As(err, &pqErr) && pqErr.Code == pgUniqueViolation {
		return model.NewDuplicateUsernameError(user.Username)
	}
	if err != nil {
		return fmt.Errorf("failed to insert user: %w", err)
	}
	return nil
}

// ListExperts はIsExpertがtrueの全ユーザーをID昇順で返す。
func (r *PostgresUserRepo) ListExperts(ctx context.Context) ([]*model.User, error) {
	rows, err := r.db.QueryContext(ctx,
		`SELECT id, username, password_hash, is_expert, bio, specialties, rating, photo_url, experience, created_at
		 FROM users WHERE is_expert = TRUE ORDER BY id`,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to list experts: %w", err)
	}
	defer rows.Close()

	experts := make([]*model.User, 0)
	for rows.Next() {
		user, err := scanUser(rows)
		if err != nil {
			return nil, err
		}
		experts = append(experts, user)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate experts: %w", err)
	}
	return experts, nil
}

// findOne は1件取得クエリを実行する。ヒットしない場合はnilを返す。
func (r *PostgresUserRepo) findOne(ctx context.Context, query string, arg any) (*model.User, error) {
	row := r.db.QueryRowContext(ctx, query, arg)
	user, err := scanUser(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to find user: %w", err)
	}
	return user, nil
}

// rowScanner は*sql.Rowと*sql.Rowsの共通部分。
type rowScanner interface {
	Scan(dest ...any) error
}

// scanUser はユーザー行をスキャンする。NULL許容カラムはゼロ値に写像する。
func scanUser(row rowScanner) (*model.User, error) {
	user := &model.User{}
	var bio, photoURL, experience sql.NullString
	var rating sql.NullFloat64

	err := row.Scan(
		&user.ID, &user.Username, &user.PasswordHash, &user.IsExpert,
		&bio, pq.Array(&user.Specialties), &rating, &photoURL, &experience,
		&user.CreatedAt,
	)
	if err != nil {
		return nil, err
	}

	user.Bio = bio.String
	user.Rating = rating.Float64
	user.PhotoURL = photoURL.String
	user.Experience = experience.String
	return user, nil
}

// nullString は空文字列をNULLとして扱う。
func nullString(s string) sql.NullString {
	return sql.NullString{String: s, Valid: s != ""}
}

// nullFloat はゼロ値をNULLとして扱う。
func nullFloat(f float64) sql.NullFloat64 {
	return sql.NullFloat64{Float64: f, Valid: f != 0}
}

// compile-time interface check
var _ UserRepository = (*PostgresUserRepo)(nil)
