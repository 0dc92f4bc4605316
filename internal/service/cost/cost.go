// Package cost derives stay length and price breakdowns. Everything here is
// pure: the same inputs always give the same breakdown.
package cost

import (
	"math"
	"time"

	"github.com/Domenick1991/hotelportal/internal/domain"
)

const (
	DefaultTaxRate    = 0.10
	DefaultServiceFee = 25.0
)

type Calculator struct {
	TaxRate    float64
	ServiceFee float64
}

// Default uses a 10% tax and a flat 25 service fee.
var Default = Calculator{TaxRate: DefaultTaxRate, ServiceFee: DefaultServiceFee}

// New builds a calculator. Zero is a valid rate or fee; negative values fall
// back to the defaults.
func New(taxRate, serviceFee float64) Calculator {
	c := Default
	if taxRate >= 0 {
		c.TaxRate = taxRate
	}
	if serviceFee >= 0 {
		c.ServiceFee = serviceFee
	}
	return c
}

// Compute returns the breakdown for a stay. nights and rooms are clamped to
// at least 1 and a negative price counts as 0, so no field is ever negative.
func (c Calculator) Compute(nightlyPrice float64, nights, rooms int) domain.CostBreakdown {
	if nightlyPrice < 0 || math.IsNaN(nightlyPrice) {
		nightlyPrice = 0
	}
	nights = clamp(nights)
	rooms = clamp(rooms)

	subtotal := nightlyPrice * float64(nights) * float64(rooms)
	tax := subtotal * math.Max(c.TaxRate, 0)
	fee := math.Max(c.ServiceFee, 0)

	return domain.CostBreakdown{
		Nights:       nights,
		NightlyPrice: nightlyPrice,
		Subtotal:     subtotal,
		Tax:          tax,
		ServiceFee:   fee,
		Total:        subtotal + tax + fee,
	}
}

// ForStay computes the breakdown straight from stay details.
func (c Calculator) ForStay(nightlyPrice float64, stay domain.StayDetails) domain.CostBreakdown {
	return c.Compute(nightlyPrice, Nights(stay.CheckIn, stay.CheckOut), stay.Rooms)
}

// Compute uses the default rates.
func Compute(nightlyPrice float64, nights, rooms int) domain.CostBreakdown {
	return Default.Compute(nightlyPrice, nights, rooms)
}

// Nights is ceil((checkOut - checkIn) / 1 day). When either date is unset or
// the range is not positive it returns 1, which is for display only.
func Nights(checkIn, checkOut time.Time) int {
	if checkIn.IsZero() || checkOut.IsZero() {
		return 1
	}
	diff := checkOut.Sub(checkIn)
	if diff <= 0 {
		return 1
	}
	return int(math.Ceil(float64(diff) / float64(24*time.Hour)))
}

func clamp(n int) int {
	if n < 1 {
		return 1
	}
	return n
}
