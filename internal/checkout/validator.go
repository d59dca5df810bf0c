package checkout

import (
	"errors"
	"fmt"
	"reflect"
	"regexp"
	"strings"

	"paycheckout/internal/entity"

	"github.com/go-playground/validator/v10"
	"github.com/shopspring/decimal"
)

const (
	_regionCodes = "AC AL AP AM BA CE DF ES GO MA MT MS MG PA PB PR PE PI RJ RN RS RO RR SC SP SE TO"

	_areaCodeDigits = 2
)

var (
	_minAmount   = decimal.New(1, -2)
	_maxAmount   = decimal.RequireFromString("9999999.99")
	_emailFormat = regexp.MustCompile(`^[^\s@]+@[^\s@.]+(\.[^\s@.]+)+$`)
)

// checkoutFields is the normalized view the tag rules run against.
type checkoutFields struct {
	Name        string `json:"name"        validate:"required,min=2,max=120"`
	Email       string `json:"email"       validate:"required,max=120,simple_email"`
	TaxID       string `json:"cpf"         validate:"required,numeric,tax_id_length,not_repeated"`
	Phone       string `json:"phone"       validate:"required,numeric,min=10,max=11"`
	Street      string `json:"street"      validate:"required_if=Shipping true,max=160"`
	Number      string `json:"number"      validate:"required_if=Shipping true,max=20"`
	Complement  string `json:"complement"  validate:"max=40"`
	District    string `json:"district"    validate:"required_if=Shipping true,max=60"`
	City        string `json:"city"        validate:"required_if=Shipping true,max=90"`
	State       string `json:"state"       validate:"required_if=Shipping true,omitempty,oneof=AC AL AP AM BA CE DF ES GO MA MT MS MG PA PB PR PE PI RJ RN RS RO RR SC SP SE TO"`
	PostalCode  string `json:"postalCode"  validate:"required_if=Shipping true,omitempty,numeric,len=8"`
	Reference   string `json:"reference"   validate:"omitempty,max=64,printascii"`
	Description string `json:"description" validate:"max=255"`

	Shipping    bool `json:"-"`
	TaxIDDigits int  `json:"-"`
}

// Validator turns a raw storefront body into a CheckoutRequest for one profile.
// It is safe for concurrent use.
type Validator struct {
	validate *validator.Validate
}

func NewValidator() *Validator {
	v := validator.New(validator.WithRequiredStructEnabled())

	v.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name, _, _ := strings.Cut(fld.Tag.Get("json"), ",")
		if name == "-" {
			return ""
		}
		return name
	})

	// Registration only fails on empty tags or nil funcs.
	_ = v.RegisterValidation("simple_email", func(fl validator.FieldLevel) bool {
		return _emailFormat.MatchString(fl.Field().String())
	})
	_ = v.RegisterValidation("tax_id_length", func(fl validator.FieldLevel) bool {
		want := fl.Parent().FieldByName("TaxIDDigits").Int()
		return int64(len(fl.Field().String())) == want
	})
	_ = v.RegisterValidation("not_repeated", func(fl validator.FieldLevel) bool {
		return !repeatedDigits(fl.Field().String())
	})

	return &Validator{validate: v}
}

// Validate checks every rule and returns *entity.ValidationError listing all of the
// violations, or the normalized request.
func (v *Validator) Validate(
	raw *entity.RawCheckout,
	profile entity.Profile,
) (*entity.CheckoutRequest, error) {
	const op = "checkout.Validate"

	var fieldErrs []entity.FieldError

	amount, amountErr := parseAmount(raw.Amount.String())
	if amountErr != nil {
		fieldErrs = append(fieldErrs, *amountErr)
	}

	fields := checkoutFields{
		Name:        strings.TrimSpace(raw.Name.String()),
		Email:       strings.TrimSpace(raw.Email.String()),
		TaxID:       digitsOrRaw(raw.TaxID.String()),
		Phone:       digitsOrRaw(raw.Phone.String()),
		Street:      strings.TrimSpace(raw.Street.String()),
		Number:      strings.TrimSpace(raw.Number.String()),
		Complement:  strings.TrimSpace(raw.Complement.String()),
		District:    strings.TrimSpace(raw.District.String()),
		City:        strings.TrimSpace(raw.City.String()),
		State:       strings.ToUpper(strings.TrimSpace(raw.State.String())),
		PostalCode:  digitsOrRaw(raw.PostalCode.String()),
		Reference:   strings.TrimSpace(raw.Reference.String()),
		Description: strings.TrimSpace(raw.Description.String()),
		Shipping:    profile.ShippingRequired(),
		TaxIDDigits: profile.TaxIDDigits(),
	}

	if err := v.validate.Struct(&fields); err != nil {
		var validationErrs validator.ValidationErrors
		if !errors.As(err, &validationErrs) {
			return nil, fmt.Errorf("%s: %w", op, err)
		}
		for _, fe := range validationErrs {
			fieldErrs = append(fieldErrs, entity.FieldError{
				Field:   fe.Field(),
				Rule:    fe.Tag(),
				Message: message(fe, fields.TaxIDDigits),
			})
		}
	}

	if len(fieldErrs) > 0 {
		return nil, &entity.ValidationError{Fields: fieldErrs}
	}

	req := &entity.CheckoutRequest{
		Amount: amount,
		Name:   fields.Name,
		Email:  fields.Email,
		TaxID:  fields.TaxID,
		Phone: entity.Phone{
			Area:   fields.Phone[:_areaCodeDigits],
			Number: fields.Phone[_areaCodeDigits:],
		},
		Reference:   fields.Reference,
		Description: fields.Description,
	}

	if fields.Shipping || fields.hasAddress() {
		req.Shipping = &entity.Address{
			Street:     fields.Street,
			Number:     fields.Number,
			Complement: fields.Complement,
			District:   fields.District,
			City:       fields.City,
			RegionCode: fields.State,
			PostalCode: fields.PostalCode,
		}
	}

	return req, nil
}

func (f *checkoutFields) hasAddress() bool {
	return f.Street != "" && f.Number != "" && f.District != "" &&
		f.City != "" && f.State != "" && f.PostalCode != ""
}

func parseAmount(raw string) (decimal.Decimal, *entity.FieldError) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return decimal.Zero, &entity.FieldError{Field: "amount", Rule: "required", Message: "is required"}
	}

	amount, err := decimal.NewFromString(raw)
	if err != nil {
		return decimal.Zero, &entity.FieldError{Field: "amount", Rule: "number", Message: "must be a number"}
	}

	if !amount.IsPositive() {
		return decimal.Zero, &entity.FieldError{Field: "amount", Rule: "gt", Message: "must be greater than zero"}
	}

	if amount.LessThan(_minAmount) {
		return decimal.Zero, &entity.FieldError{Field: "amount", Rule: "min", Message: "must be at least 0.01"}
	}

	if amount.GreaterThan(_maxAmount) {
		return decimal.Zero, &entity.FieldError{Field: "amount", Rule: "max", Message: "must be at most 9999999.99"}
	}

	return amount, nil
}

func message(fe validator.FieldError, taxIDDigits int) string {
	switch fe.Tag() {
	case "required", "required_if":
		return "is required"
	case "simple_email":
		return "must look like name@domain.tld"
	case "numeric":
		return "must contain digits"
	case "tax_id_length":
		return fmt.Sprintf("must have %d digits", taxIDDigits)
	case "not_repeated":
		return "must not be a single repeated digit"
	case "oneof":
		return "must be a valid region code"
	case "len":
		return fmt.Sprintf("must have %s digits", fe.Param())
	case "min":
		if fe.Field() == "phone" {
			return "must have 10 or 11 digits"
		}
		return fmt.Sprintf("must be at least %s characters", fe.Param())
	case "max":
		if fe.Field() == "phone" {
			return "must have 10 or 11 digits"
		}
		return fmt.Sprintf("must be at most %s characters", fe.Param())
	case "printascii":
		return "must contain printable ASCII only"
	default:
		return "is invalid"
	}
}

// OnlyDigits strips every non-digit character.
func OnlyDigits(s string) string {
	var b strings.Builder
	b.Grow(len(s))
	for _, r := range s {
		if r >= '0' && r <= '9' {
			b.WriteRune(r)
		}
	}
	return b.String()
}

// digitsOrRaw keeps the trimmed input when it has no digits at all, so a value
// like "abc" fails as non-numeric instead of as missing.
func digitsOrRaw(s string) string {
	if digits := OnlyDigits(s); digits != "" {
		return digits
	}
	return strings.TrimSpace(s)
}

func repeatedDigits(s string) bool {
	if s == "" {
		return false
	}
	return strings.Count(s, s[:1]) == len(s)
}

// RegionCodes lists the accepted subdivision codes.
func RegionCodes() []string {
	return strings.Fields(_regionCodes)
}
