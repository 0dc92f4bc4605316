package repository

import (
	"context"
	"sync"

	"github.com/Domenick1991/hotelportal/internal/domain"
)

type HotelRepository interface {
	Get(ctx context.Context, id string) (*domain.Hotel, error)
	// Reserve takes rooms units of a room type, or fails with ErrNoInventory
	// leaving the count untouched.
	Reserve(ctx context.Context, hotelID, roomID string, rooms int) error
	Release(ctx context.Context, hotelID, roomID string, rooms int) error
}

type MemoryHotelRepository struct {
	mu     sync.RWMutex
	hotels map[string]*domain.Hotel
}

func NewHotelRepository(hotels ...domain.Hotel) *MemoryHotelRepository {
	r := &MemoryHotelRepository{hotels: make(map[string]*domain.Hotel, len(hotels))}
	for i := range hotels {
		h := copyHotel(&hotels[i])
		r.hotels[h.ID] = h
	}
	return r
}

var _ HotelRepository = (*MemoryHotelRepository)(nil)

func (r *MemoryHotelRepository) Get(_ context.Context, id string) (*domain.Hotel, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	h, ok := r.hotels[id]
	if !ok {
		return nil, ErrNotFound
	}
	return copyHotel(h), nil
}

func (r *MemoryHotelRepository) Reserve(_ context.Context, hotelID, roomID string, rooms int) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	room, err := r.roomLocked(hotelID, roomID)
	if err != nil {
		return err
	}
	if rooms < 1 || room.Available < rooms {
		return ErrNoInventory
	}
	room.Available -= rooms
	return nil
}

func (r *MemoryHotelRepository) Release(_ context.Context, hotelID, roomID string, rooms int) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	room, err := r.roomLocked(hotelID, roomID)
	if err != nil {
		return err
	}
	room.Available += rooms
	return nil
}

func (r *MemoryHotelRepository) roomLocked(hotelID, roomID string) (*domain.Room, error) {
	h, ok := r.hotels[hotelID]
	if !ok {
		return nil, ErrNotFound
	}
	for i := range h.Rooms {
		if h.Rooms[i].ID == roomID {
			return &h.Rooms[i], nil
		}
	}
	return nil, ErrNotFound
}

func copyHotel(h *domain.Hotel) *domain.Hotel {
	out := *h
	out.Rooms = make([]domain.Room, len(h.Rooms))
	for i, room := range h.Rooms {
		if room.Pricing != nil {
			p := *room.Pricing
			room.Pricing = &p
		}
		out.Rooms[i] = room
	}
	return &out
}
