package domain

type RoomPricing struct {
	BasePrice float64 `json:"basePrice"`
}

type Room struct {
	ID        string       `json:"id"`
	Name      string       `json:"name"`
	Type      string       `json:"type"`
	Capacity  int          `json:"capacity"`
	Available int          `json:"available"`
	Price     float64      `json:"price,omitempty"`
	Pricing   *RoomPricing `json:"pricing,omitempty"`
}

// NightlyPrice prefers pricing.basePrice and falls back to the flat price field.
func (r Room) NightlyPrice() float64 {
	if r.Pricing != nil && r.Pricing.BasePrice > 0 {
		return r.Pricing.BasePrice
	}
	if r.Price > 0 {
		return r.Price
	}
	return 0
}

type Hotel struct {
	ID      string  `json:"id"`
	Name    string  `json:"name"`
	City    string  `json:"city"`
	Address string  `json:"address,omitempty"`
	Rating  float64 `json:"rating,omitempty"`
	Rooms   []Room  `json:"rooms"`
}

// Room looks up a room by id.
func (h Hotel) Room(id string) (Room, bool) {
	for _, r := range h.Rooms {
		if r.ID == id {
			return r, true
		}
	}
	return Room{}, false
}
