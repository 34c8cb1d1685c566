// Package model はドメインモデルを定義する。
package model

import "time"

// User はサービス利用ユーザーを表す。
// IsExpertがtrueのユーザーは予約可能なエキスパートとして一覧に表示される。
type User struct {
	ID           int       `json:"id"`
	Username     string    `json:"username"`
	PasswordHash string    `json:"-"`
	IsExpert     bool      `json:"isExpert"`
	Bio          string    `json:"bio,omitempty"`
	Specialties  []string  `json:"specialties,omitempty"`
	Rating       float64   `json:"rating,omitempty"`
	PhotoURL     string    `json:"photoUrl,omitempty"`
	Experience   string    `json:"experience,omitempty"`
	CreatedAt    time.Time `json:"createdAt"`
}

// Session はユーザーのログインセッションを表す。
type Session struct {
	ID        string
	UserID    int
	ExpiresAt time.Time
	CreatedAt time.Time
}
