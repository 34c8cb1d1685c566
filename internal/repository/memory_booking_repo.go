package repository

import (
	"context"
	"sync"

	"github.com/hitoshi/fityog/internal/model"
)

// MemoryBookingRepo はプロセスメモリ上の予約リポジトリ。
type MemoryBookingRepo struct {
	mu       sync.Mutex
	bookings map[int]*model.Booking
	nextID   int
}

// NewMemoryBookingRepo はMemoryBookingRepoを生成する。
func NewMemoryBookingRepo() *MemoryBookingRepo {
	return &MemoryBookingRepo{
		bookings: make(map[int]*model.Booking),
		nextID:   1,
	}
}

// Create は予約を作成し、採番したIDをbooking.IDに書き込む。
func (r *MemoryBookingRepo) Create(ctx context.Context, booking *model.Booking) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	booking.ID = r.nextID
	r.nextID++

	stored := *booking
	r.bookings[booking.ID] = &stored
	return nil
}

// compile-time interface check
var _ BookingRepository = (*MemoryBookingRepo)(nil)
