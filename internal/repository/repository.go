// Package repository はデータ永続化のインターフェースを定義する。
//
// 各エンティティのリポジトリにはインメモリ実装（プロセス生存期間のみ）と
// PostgreSQL実装の2種類があり、起動時の設定でどちらか一方を選択する。
// 呼び出し側はバックエンドの種別を意識しない。
package repository

import (
	"context"

	"github.com/hitoshi/fityog/internal/model"
)

// UserRepository はユーザーデータの永続化インターフェース。
type UserRepository interface {
	// FindByID は指定IDのユーザーを取得する。見つからない場合はnilを返す。
	FindByID(ctx context.Context, id int) (*model.User, error)

	// FindByUsername はユーザー名でユーザーを検索する。見つからない場合はnilを返す。
	// ログインとユーザー名の重複チェックで使用する。
	FindByUsername(ctx context.Context, username string) (*model.User, error)

	// Create はユーザーを作成し、採番したIDをuser.IDに書き込む。
	// IDはエンティティ種別ごとに単調増加し、再利用されない。
	// ユーザー名が重複している場合はDUPLICATE_USERNAMEのAPIErrorを返し、
	// ストアの状態は変更しない。
	Create(ctx context.Context, user *model.User) error

	// ListExperts はIsExpertがtrueの全ユーザーを返す。
	ListExperts(ctx context.Context) ([]*model.User, error)
}

// ExerciseRepository は運動ログの永続化インターフェース。
type ExerciseRepository interface {
	// ListByUserID は指定ユーザーが所有する運動ログのみを返す。
	// 1件もない場合はエラーではなく空スライスを返す。
	ListByUserID(ctx context.Context, userID int) ([]*model.Exercise, error)

	// Create は運動ログを作成し、採番したIDをexercise.IDに書き込む。
	// 永続バックエンドはUserIDの参照整合性を強制し、違反時は
	// FOREIGN_KEY_VIOLATIONのAPIErrorを返す。インメモリ実装は検証しない。
	Create(ctx context.Context, exercise *model.Exercise) error
}

// BookingRepository は予約データの永続化インターフェース。
type BookingRepository interface {
	// Create は予約を作成し、採番したIDをbooking.IDに書き込む。
	// 参照整合性の扱いはExerciseRepository.Createと同じ。
	Create(ctx context.Context, booking *model.Booking) error
}

// SessionRepository はセッションデータの永続化インターフェース。
type SessionRepository interface {
	// Create はセッションを作成する。
	Create(ctx context.Context, session *model.Session) error
	// FindByID は指定IDのセッションを取得する。期限切れの場合はnilを返す。
	FindByID(ctx context.Context, id string) (*model.Session, error)
	// DeleteByID は指定IDのセッションを削除する。存在しない場合もエラーにしない。
	DeleteByID(ctx context.Context, id string) error
	// DeleteByUserID は指定ユーザーの全セッションを削除する。
	DeleteByUserID(ctx context.Context, userID int) error
}

// Store は全リポジトリを束ねたストレージファサード。
// 起動時にバックエンドを1つ選択し、以後すべてのハンドラーが共有する。
type Store struct {
	Users     UserRepository
	Exercises ExerciseRepository
	Bookings  BookingRepository
	Sessions  SessionRepository
}
