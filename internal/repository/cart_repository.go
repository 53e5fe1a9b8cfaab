package repository

import (
	"context"

	"github.com/Lixing-Zhang/kart-challenge/checkout/internal/models"
)

// CartRepository provides the cart shown at the start of a checkout
type CartRepository interface {
	Current(ctx context.Context) (models.Cart, error)
}

// InMemoryCartRepository serves a fixed single-item cart
type InMemoryCartRepository struct {
	cart models.Cart
}

// NewInMemoryCartRepository creates a cart repository with the Event Craft booking
func NewInMemoryCartRepository() *InMemoryCartRepository {
	return &InMemoryCartRepository{
		cart: models.Cart{
			Merchant: models.Merchant{
				Name:      "Event Craft",
				Phone:     "9999999998",
				Email:     "gaurav.kumar@example.com",
				PoweredBy: "Razorpay",
			},
			Item: models.CartItem{
				Title:           "Inception",
				Subtitle:        "July 10, 2025 (07:30 PM)",
				PriceMinorUnits: 68000,
				Currency:        "INR",
			},
			Details: []models.BookingDetail{
				{Label: "Movie Name", Value: "Inception"},
				{Label: "Booking ID", Value: "#MOV2025"},
				{Label: "Show Time", Value: "July 10, 2025 (07:30 PM)"},
				{Label: "Ticket Price", Value: "₹ 680.00"},
			},
		},
	}
}

// Current returns a copy of the cart
func (r *InMemoryCartRepository) Current(ctx context.Context) (models.Cart, error) {
	cart := r.cart
	cart.Details = append([]models.BookingDetail(nil), r.cart.Details...)
	return cart, nil
}
