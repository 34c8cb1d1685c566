package repository

import "database/sql"

// NewMemoryStore はインメモリバックエンドのStoreを生成する。
// 採番カウンターはStoreインスタンスごとに独立し、プロセス再起動で失われる。
func NewMemoryStore() *Store {
	return &Store{
		Users:     NewMemoryUserRepo(),
		Exercises: NewMemoryExerciseRepo(),
		Bookings:  NewMemoryBookingRepo(),
		Sessions:  NewMemorySessionRepo(),
	}
}

// NewPostgresStore はPostgreSQLバックエンドのStoreを生成する。
// 接続プールは*sql.DBが管理し、複数リクエストから安全に共有できる。
func NewPostgresStore(db *sql.DB) *Store {
	return &Store{
		Users:     NewPostgresUserRepo(db),
		Exercises: NewPostgresExerciseRepo(db),
		Bookings:  NewPostgresBookingRepo(db),
		Sessions:  NewPostgresSessionRepo(db),
	}
}
