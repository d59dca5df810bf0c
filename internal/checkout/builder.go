package checkout

import (
	"fmt"
	"strconv"

	"paycheckout/internal/entity"

	"github.com/goccy/go-json"
	"github.com/shopspring/decimal"
)

const (
	ContentTypeForm = "application/x-www-form-urlencoded; charset=UTF-8"
	ContentTypeJSON = "application/json"

	_hundred = 100
)

type (
	phoneDoc struct {
		Country string `json:"country"`
		Area    string `json:"area"`
		Number  string `json:"number"`
	}

	customerDoc struct {
		Name  string   `json:"name"`
		Email string   `json:"email"`
		TaxID string   `json:"tax_id"`
		Phone phoneDoc `json:"phone"`
	}

	itemDoc struct {
		ReferenceID string `json:"reference_id"`
		Name        string `json:"name"`
		Quantity    int    `json:"quantity"`
		UnitAmount  int64  `json:"unit_amount"`
	}

	addressDoc struct {
		Street     string `json:"street"`
		Number     string `json:"number"`
		Complement string `json:"complement"`
		Locality   string `json:"locality"`
		City       string `json:"city"`
		RegionCode string `json:"region_code"`
		Country    string `json:"country"`
		PostalCode string `json:"postal_code"`
	}

	shippingDoc struct {
		Address addressDoc `json:"address"`
	}

	// OrderDocument is the body of the REST orders endpoint.
	OrderDocument struct {
		ReferenceID      string       `json:"reference_id"`
		Customer         customerDoc  `json:"customer"`
		Items            []itemDoc    `json:"items"`
		Shipping         *shippingDoc `json:"shipping,omitempty"`
		NotificationURLs []string     `json:"notification_urls,omitempty"`
	}

	amountDoc struct {
		Value    int64  `json:"value"`
		Currency string `json:"currency"`
	}

	paymentMethodDoc struct {
		Type string `json:"type"`
	}

	// ChargeDocument is the body of the REST charges endpoint (PIX).
	ChargeDocument struct {
		ReferenceID      string           `json:"reference_id"`
		Description      string           `json:"description"`
		Amount           amountDoc        `json:"amount"`
		PaymentMethod    paymentMethodDoc `json:"payment_method"`
		Customer         customerDoc      `json:"customer"`
		NotificationURLs []string         `json:"notification_urls,omitempty"`
	}
)

// Builder maps a validated request onto the wire representation of a profile.
type Builder struct {
	refs ReferenceGenerator
}

func NewBuilder(refs ReferenceGenerator) *Builder {
	return &Builder{refs: refs}
}

func (b *Builder) Build(
	req *entity.CheckoutRequest,
	profile entity.Profile,
) (*entity.OutboundPayload, error) {
	reference := req.Reference

	switch p := profile.(type) {
	case *entity.FormProfile:
		if reference == "" {
			reference = b.refs.Next(p.ReferencePrefix)
		}
		return buildForm(req, p, reference), nil
	case *entity.JSONProfile:
		if reference == "" {
			reference = b.refs.Next(p.ReferencePrefix)
		}
		return buildJSON(req, p, reference)
	default:
		return nil, fmt.Errorf("checkout.Build: %w: %T", entity.ErrUnknownProfile, profile)
	}
}

func buildForm(
	req *entity.CheckoutRequest,
	p *entity.FormProfile,
	reference string,
) *entity.OutboundPayload {
	var form entity.FormFields

	form.Add("email", p.Email)
	form.Add("token", p.Token)
	form.Add("currency", p.Currency)

	form.Add("itemId1", p.ItemID)
	form.Add("itemDescription1", itemDescription(req.Description, p.ItemDescription))
	form.Add("itemAmount1", FormatAmount(req.Amount))
	form.Add("itemQuantity1", "1")

	form.Add("reference", reference)

	form.Add("senderName", req.Name)
	form.Add("senderEmail", req.Email)
	form.Add("senderCPF", req.TaxID)
	form.Add("senderAreaCode", req.Phone.Area)
	form.Add("senderPhone", req.Phone.Number)

	form.Add("shippingAddressRequired", strconv.FormatBool(p.RequireShipping))
	if req.Shipping != nil {
		form.Add("shippingAddressStreet", req.Shipping.Street)
		form.Add("shippingAddressNumber", req.Shipping.Number)
		form.Add("shippingAddressComplement", req.Shipping.Complement)
		form.Add("shippingAddressDistrict", req.Shipping.District)
		form.Add("shippingAddressCity", req.Shipping.City)
		form.Add("shippingAddressState", req.Shipping.RegionCode)
		form.Add("shippingAddressPostalCode", req.Shipping.PostalCode)
		form.Add("shippingAddressCountry", "BRA")
		form.Add("shippingType", strconv.Itoa(p.ShippingType))
		form.Add("shippingCost", FormatAmount(p.ShippingCost))
	}

	if p.RedirectURL != "" {
		form.Add("redirectURL", p.RedirectURL)
	}
	if p.NotificationURL != "" {
		form.Add("notificationURL", p.NotificationURL)
	}
	form.Add("maxUses", strconv.Itoa(p.MaxUses))
	form.Add("maxAge", strconv.Itoa(p.MaxAge))

	return &entity.OutboundPayload{
		Profile:     p.Key,
		ReferenceID: reference,
		Endpoint:    p.Endpoint,
		ContentType: ContentTypeForm,
		Headers: map[string]string{
			"Accept": "application/xml;charset=ISO-8859-1",
		},
		Form: form,
		Body: []byte(form.Encode()),
	}
}

func buildJSON(
	req *entity.CheckoutRequest,
	p *entity.JSONProfile,
	reference string,
) (*entity.OutboundPayload, error) {
	customer := customerDoc{
		Name:  req.Name,
		Email: req.Email,
		TaxID: req.TaxID,
		Phone: phoneDoc{
			Country: p.PhoneCountry,
			Area:    req.Phone.Area,
			Number:  req.Phone.Number,
		},
	}

	cents, err := MinorUnits(req.Amount)
	if err != nil {
		return nil, fmt.Errorf("checkout.buildJSON: %w", err)
	}

	var doc any
	switch p.Resource {
	case entity.ResourceCharge:
		doc = &ChargeDocument{
			ReferenceID: reference,
			Description: itemDescription(req.Description, p.ItemName),
			Amount: amountDoc{
				Value:    cents,
				Currency: p.Currency,
			},
			PaymentMethod:    paymentMethodDoc{Type: "PIX"},
			Customer:         customer,
			NotificationURLs: p.NotificationURLs,
		}
	default:
		order := &OrderDocument{
			ReferenceID: reference,
			Customer:    customer,
			Items: []itemDoc{{
				ReferenceID: p.ItemReference,
				Name:        itemDescription(req.Description, p.ItemName),
				Quantity:    1,
				UnitAmount:  cents,
			}},
			NotificationURLs: p.NotificationURLs,
		}
		if req.Shipping != nil {
			order.Shipping = &shippingDoc{Address: addressDoc{
				Street:     req.Shipping.Street,
				Number:     req.Shipping.Number,
				Complement: req.Shipping.Complement,
				Locality:   req.Shipping.District,
				City:       req.Shipping.City,
				RegionCode: req.Shipping.RegionCode,
				Country:    p.AddressCountry,
				PostalCode: req.Shipping.PostalCode,
			}}
		}
		doc = order
	}

	body, err := json.Marshal(doc)
	if err != nil {
		return nil, fmt.Errorf("checkout.buildJSON: marshal %s document: %w", p.Resource, err)
	}

	return &entity.OutboundPayload{
		Profile:     p.Key,
		ReferenceID: reference,
		Endpoint:    p.Endpoint,
		ContentType: ContentTypeJSON,
		Headers: map[string]string{
			"Authorization": "Bearer " + p.Token,
			"Accept":        ContentTypeJSON,
		},
		Document: doc,
		Body:     body,
	}, nil
}

// FormatAmount renders the amount with exactly two decimals, rounding half away from zero.
func FormatAmount(amount decimal.Decimal) string {
	return amount.StringFixed(2)
}

// MinorUnits converts to cents with round-half-up; 10.005 becomes 1001.
// Amounts whose cents do not fit in an int64 are rejected instead of wrapped.
func MinorUnits(amount decimal.Decimal) (int64, error) {
	cents := amount.Mul(decimal.NewFromInt(_hundred)).Round(0)
	if cents.IsNegative() || !cents.BigInt().IsInt64() {
		return 0, fmt.Errorf("amount %s out of range: %w", amount.String(), entity.ErrInvalidData)
	}
	return cents.IntPart(), nil
}

func itemDescription(custom, fallback string) string {
	if custom != "" {
		return custom
	}
	return fallback
}
