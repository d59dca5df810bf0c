package entity

import "github.com/shopspring/decimal"

type (
	Encoding string

	Resource string

	// Profile is one gateway generation/endpoint pair. The set of variants is closed:
	// *FormProfile for the legacy form/XML checkout API and *JSONProfile for the
	// REST orders and charges APIs.
	Profile interface {
		Name() string
		Encoding() Encoding
		ShippingRequired() bool
		TaxIDDigits() int
		isProfile()
	}

	FormProfile struct {
		Key             string
		Endpoint        string
		PaymentPageURL  string
		Email           string
		Token           string
		Currency        string
		ItemID          string
		ItemDescription string
		RequireShipping bool
		ShippingType    int
		ShippingCost    decimal.Decimal
		RedirectURL     string
		NotificationURL string
		MaxUses         int
		MaxAge          int
		TaxDigits       int
		ReferencePrefix string
	}

	JSONProfile struct {
		Key              string
		Resource         Resource
		Endpoint         string
		Token            string
		PhoneCountry     string
		AddressCountry   string
		Currency         string
		ItemReference    string
		ItemName         string
		NotificationURLs []string
		RequireShipping  bool
		TaxDigits        int
		ReferencePrefix  string
	}
)

const (
	EncodingForm Encoding = "form"
	EncodingJSON Encoding = "json"

	ResourceOrder  Resource = "order"
	ResourceCharge Resource = "charge"
)

var (
	_ Profile = (*FormProfile)(nil)
	_ Profile = (*JSONProfile)(nil)
)

func (p *FormProfile) Name() string           { return p.Key }
func (p *FormProfile) Encoding() Encoding     { return EncodingForm }
func (p *FormProfile) ShippingRequired() bool { return p.RequireShipping }
func (p *FormProfile) TaxIDDigits() int       { return p.TaxDigits }
func (p *FormProfile) isProfile()             {}

func (p *JSONProfile) Name() string           { return p.Key }
func (p *JSONProfile) Encoding() Encoding     { return EncodingJSON }
func (p *JSONProfile) ShippingRequired() bool { return p.RequireShipping }
func (p *JSONProfile) TaxIDDigits() int       { return p.TaxDigits }
func (p *JSONProfile) isProfile()             {}
