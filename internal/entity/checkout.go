package entity

import (
	"github.com/shopspring/decimal"
)

type (
	// CheckoutRequest is a validated checkout: digits-only documents, split phone,
	// and a strictly positive amount.
	CheckoutRequest struct {
		Amount      decimal.Decimal
		Name        string
		Email       string
		TaxID       string
		Phone       Phone
		Shipping    *Address
		Reference   string
		Description string
	}

	Phone struct {
		Area   string
		Number string
	}

	Address struct {
		Street     string
		Number     string
		Complement string
		District   string
		City       string
		RegionCode string
		PostalCode string
	}
)

// Digits returns the phone without the country code, as typed by the payer.
func (p Phone) Digits() string {
	return p.Area + p.Number
}
