package config

import (
	"paycheckout/internal/entity"

	"github.com/shopspring/decimal"
)

const (
	ProfileLegacy  = "legacy"
	ProfileOrders  = "orders"
	ProfileCharges = "charges"
)

// Profiles builds the immutable gateway profiles for every enabled block, keyed by name.
func (g *Gateway) Profiles() map[string]entity.Profile {
	profiles := make(map[string]entity.Profile, 3)

	if g.Legacy.Enabled {
		profiles[ProfileLegacy] = g.Legacy.profile()
	}
	if g.Orders.Enabled {
		profiles[ProfileOrders] = g.Orders.profile(ProfileOrders, entity.ResourceOrder)
	}
	if g.Charges.Enabled {
		profiles[ProfileCharges] = g.Charges.profile(ProfileCharges, entity.ResourceCharge)
	}

	return profiles
}

func (g *Gateway) profileEnabled(name string) bool {
	switch name {
	case ProfileLegacy:
		return g.Legacy.Enabled
	case ProfileOrders:
		return g.Orders.Enabled
	case ProfileCharges:
		return g.Charges.Enabled
	default:
		return false
	}
}

func (p *LegacyProfile) profile() *entity.FormProfile {
	return &entity.FormProfile{
		Key:             ProfileLegacy,
		Endpoint:        p.Endpoint,
		PaymentPageURL:  p.PaymentPageURL,
		Email:           p.Email,
		Token:           p.Token,
		Currency:        p.Currency,
		ItemID:          p.ItemID,
		ItemDescription: p.ItemDescription,
		RequireShipping: p.RequireShipping,
		ShippingType:    p.ShippingType,
		ShippingCost:    decimal.NewFromFloat(p.ShippingCost),
		RedirectURL:     p.RedirectURL,
		NotificationURL: p.NotificationURL,
		MaxUses:         p.MaxUses,
		MaxAge:          p.MaxAge,
		TaxDigits:       p.TaxIDDigits,
		ReferencePrefix: p.ReferencePrefix,
	}
}

func (p *RESTProfile) profile(name string, resource entity.Resource) *entity.JSONProfile {
	urls := make([]string, len(p.NotificationURLs))
	copy(urls, p.NotificationURLs)

	return &entity.JSONProfile{
		Key:              name,
		Resource:         resource,
		Endpoint:         p.Endpoint,
		Token:            p.Token,
		PhoneCountry:     p.PhoneCountry,
		AddressCountry:   p.AddressCountry,
		Currency:         p.Currency,
		ItemReference:    p.ItemReference,
		ItemName:         p.ItemName,
		NotificationURLs: urls,
		RequireShipping:  p.RequireShipping,
		TaxDigits:        p.TaxIDDigits,
		ReferencePrefix:  p.ReferencePrefix,
	}
}
