package model

import "time"

// BookingStatus は予約の状態を表す。
type BookingStatus string

const (
	// BookingStatusPending は作成直後の未確定状態。
	BookingStatusPending BookingStatus = "pending"
	// BookingStatusConfirmed はエキスパートが確定した状態。
	// 状態遷移の管理操作は現時点では提供していない。
	BookingStatusConfirmed BookingStatus = "confirmed"
)

// Booking はユーザーとエキスパート間のセッション予約を表す。
type Booking struct {
	ID          int           `json:"id"`
	UserID      int           `json:"userId"`
	ExpertID    int           `json:"expertId"`
	Date        time.Time     `json:"date"`
	Time        string        `json:"time"` // "HH:MM"形式
	ContactInfo string        `json:"contactInfo"`
	Status      BookingStatus `json:"status"`
}
