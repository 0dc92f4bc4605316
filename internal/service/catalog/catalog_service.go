package catalog

import (
	"context"

	"github.com/Domenick1991/hotelportal/internal/apiclient"
	"github.com/Domenick1991/hotelportal/internal/domain"
	"go.uber.org/zap"
)

type CatalogUseCase interface {
	GetHotel(ctx context.Context, creds apiclient.CredentialSource, hotelID string) (*domain.Hotel, error)
	Invalidate(ctx context.Context, hotelID string)
}

type HotelAPI interface {
	GetHotel(ctx context.Context, creds apiclient.CredentialSource, hotelID string) (*domain.Hotel, error)
}

type HotelCache interface {
	GetHotel(ctx context.Context, hotelID string) (*domain.Hotel, error)
	SetHotel(ctx context.Context, hotel *domain.Hotel) error
	DeleteHotel(ctx context.Context, hotelID string) error
}

type CatalogService struct {
	api   HotelAPI
	cache HotelCache
	log   *zap.Logger
}

// NewCatalogService wires the hotel API with an optional cache; pass a nil
// cache to always go to the API.
func NewCatalogService(api HotelAPI, cache HotelCache, log *zap.Logger) *CatalogService {
	if log == nil {
		log = zap.NewNop()
	}
	return &CatalogService{api: api, cache: cache, log: log}
}

func (s *CatalogService) GetHotel(ctx context.Context, creds apiclient.CredentialSource, hotelID string) (*domain.Hotel, error) {
	if s.cache != nil {
		cached, err := s.cache.GetHotel(ctx, hotelID)
		if err != nil {
			s.log.Debug("hotel cache read failed", zap.String("hotel_id", hotelID), zap.Error(err))
		} else if cached != nil {
			return cached, nil
		}
	}

	hotel, err := s.api.GetHotel(ctx, creds, hotelID)
	if err != nil {
		return nil, err
	}
	if s.cache != nil {
		if err := s.cache.SetHotel(ctx, hotel); err != nil {
			s.log.Debug("hotel cache write failed", zap.String("hotel_id", hotelID), zap.Error(err))
		}
	}
	return hotel, nil
}

// Invalidate drops a cached hotel so room availability is re-read.
func (s *CatalogService) Invalidate(ctx context.Context, hotelID string) {
	if s.cache == nil {
		return
	}
	if err := s.cache.DeleteHotel(ctx, hotelID); err != nil {
		s.log.Debug("hotel cache delete failed", zap.String("hotel_id", hotelID), zap.Error(err))
	}
}

// FindRoom resolves a selection against a fetched hotel.
func FindRoom(hotel *domain.Hotel, roomID string) (domain.Room, error) {
	if hotel == nil {
		return domain.Room{}, &domain.Error{Kind: domain.KindNotFound, Message: "Hotel not found"}
	}
	room, ok := hotel.Room(roomID)
	if !ok {
		return domain.Room{}, &domain.Error{Kind: domain.KindNotFound, Message: "Room not found"}
	}
	return room, nil
}

var _ CatalogUseCase = (*CatalogService)(nil)
