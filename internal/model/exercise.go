package model

import "time"

// Exercise はユーザーが記録した運動ログを表す。追記専用で更新・削除はしない。
type Exercise struct {
	ID       int       `json:"id"`
	UserID   int       `json:"userId"`
	Type     string    `json:"type"`
	Duration int       `json:"duration"` // 分
	Calories int       `json:"calories,omitempty"`
	Date     time.Time `json:"date"`
}
