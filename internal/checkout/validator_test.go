package checkout_test

import (
	"errors"
	"testing"

	"paycheckout/internal/checkout"
	"paycheckout/internal/entity"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var (
	_shippingProfile = &entity.JSONProfile{Key: "orders", Resource: entity.ResourceOrder, RequireShipping: true, TaxDigits: 11}
	_digitalProfile  = &entity.JSONProfile{Key: "charges", Resource: entity.ResourceCharge, TaxDigits: 11}
	_companyProfile  = &entity.FormProfile{Key: "legacy", TaxDigits: 14}
)

func validRaw() *entity.RawCheckout {
	return &entity.RawCheckout{
		Amount:     "149.90",
		Name:       " Maria Silva ",
		Email:      "maria@example.com",
		TaxID:      "123.456.789-09",
		Phone:      "(11) 98765-4321",
		Street:     "Av. Paulista",
		Number:     "1000",
		Complement: "Apto 12",
		District:   "Bela Vista",
		City:       "São Paulo",
		State:      "sp",
		PostalCode: "01310-100",
	}
}

func validationFields(t *testing.T, err error) []string {
	t.Helper()

	var validationErr *entity.ValidationError
	require.True(t, errors.As(err, &validationErr), "expected *entity.ValidationError, got %v", err)
	assert.ErrorIs(t, err, entity.ErrInvalidData)

	fields := make([]string, 0, len(validationErr.Fields))
	for _, f := range validationErr.Fields {
		assert.NotEmpty(t, f.Message, f.Field)
		fields = append(fields, f.Field)
	}
	return fields
}

func TestValidator_Normalizes(t *testing.T) {
	v := checkout.NewValidator()

	req, err := v.Validate(validRaw(), _shippingProfile)
	require.NoError(t, err)

	assert.True(t, decimal.RequireFromString("149.9").Equal(req.Amount))
	assert.Equal(t, "Maria Silva", req.Name)
	assert.Equal(t, "12345678909", req.TaxID)
	assert.Equal(t, entity.Phone{Area: "11", Number: "987654321"}, req.Phone)
	require.NotNil(t, req.Shipping)
	assert.Equal(t, "SP", req.Shipping.RegionCode)
	assert.Equal(t, "01310100", req.Shipping.PostalCode)
	assert.Equal(t, "Apto 12", req.Shipping.Complement)
}

func TestValidator_LandlinePhone(t *testing.T) {
	raw := validRaw()
	raw.Phone = "11 3333-4444"

	req, err := checkout.NewValidator().Validate(raw, _shippingProfile)
	require.NoError(t, err)
	assert.Equal(t, entity.Phone{Area: "11", Number: "33334444"}, req.Phone)
	assert.Equal(t, "1133334444", req.Phone.Digits())
}

func TestValidator_Shipping(t *testing.T) {
	v := checkout.NewValidator()

	t.Run("RequiredAddressMissing", func(t *testing.T) {
		raw := validRaw()
		raw.Street, raw.Number, raw.District, raw.City, raw.State, raw.PostalCode = "", "", "", "", "", ""

		_, err := v.Validate(raw, _shippingProfile)
		assert.ElementsMatch(t,
			[]string{"street", "number", "district", "city", "state", "postalCode"},
			validationFields(t, err),
		)
	})

	t.Run("OptionalAddressOmitted", func(t *testing.T) {
		raw := validRaw()
		raw.Street, raw.Number, raw.District, raw.City, raw.State, raw.PostalCode = "", "", "", "", "", ""

		req, err := v.Validate(raw, _digitalProfile)
		require.NoError(t, err)
		assert.Nil(t, req.Shipping)
	})

	t.Run("OptionalAddressKept", func(t *testing.T) {
		req, err := v.Validate(validRaw(), _digitalProfile)
		require.NoError(t, err)
		require.NotNil(t, req.Shipping)
		assert.Equal(t, "Av. Paulista", req.Shipping.Street)
	})
}

func TestValidator_Rejects(t *testing.T) {
	testCases := []struct {
		desc    string
		mutate  func(*entity.RawCheckout)
		profile entity.Profile
		fields  []string
	}{
		{
			desc:   "AmountMissing",
			mutate: func(r *entity.RawCheckout) { r.Amount = "" },
			fields: []string{"amount"},
		},
		{
			desc:   "AmountZero",
			mutate: func(r *entity.RawCheckout) { r.Amount = "0" },
			fields: []string{"amount"},
		},
		{
			desc:   "AmountNegative",
			mutate: func(r *entity.RawCheckout) { r.Amount = "-10.00" },
			fields: []string{"amount"},
		},
		{
			desc:   "AmountNotNumber",
			mutate: func(r *entity.RawCheckout) { r.Amount = "cem reais" },
			fields: []string{"amount"},
		},
		{
			desc:   "AmountBelowCent",
			mutate: func(r *entity.RawCheckout) { r.Amount = "0.001" },
			fields: []string{"amount"},
		},
		{
			desc:   "AmountAboveMax",
			mutate: func(r *entity.RawCheckout) { r.Amount = "10000000.00" },
			fields: []string{"amount"},
		},
		{
			desc:   "AmountBeyondInt64Cents",
			mutate: func(r *entity.RawCheckout) { r.Amount = "92233720368547758.08" },
			fields: []string{"amount"},
		},
		{
			desc:   "NameTooShort",
			mutate: func(r *entity.RawCheckout) { r.Name = "M" },
			fields: []string{"name"},
		},
		{
			desc:   "EmailWithoutDomain",
			mutate: func(r *entity.RawCheckout) { r.Email = "maria@" },
			fields: []string{"email"},
		},
		{
			desc:   "EmailWithoutTLD",
			mutate: func(r *entity.RawCheckout) { r.Email = "maria@example" },
			fields: []string{"email"},
		},
		{
			desc:   "TaxIDShort",
			mutate: func(r *entity.RawCheckout) { r.TaxID = "123.456.789" },
			fields: []string{"cpf"},
		},
		{
			desc:   "TaxIDRepeated",
			mutate: func(r *entity.RawCheckout) { r.TaxID = "111.111.111-11" },
			fields: []string{"cpf"},
		},
		{
			desc:    "TaxIDCompanyDigits",
			mutate:  func(*entity.RawCheckout) {},
			profile: _companyProfile,
			fields:  []string{"cpf"},
		},
		{
			desc:   "PhoneLetters",
			mutate: func(r *entity.RawCheckout) { r.Phone = "call me" },
			fields: []string{"phone"},
		},
		{
			desc:   "PhoneTooShort",
			mutate: func(r *entity.RawCheckout) { r.Phone = "98765-4321" },
			fields: []string{"phone"},
		},
		{
			desc:   "PhoneTooLong",
			mutate: func(r *entity.RawCheckout) { r.Phone = "+55 (11) 98765-4321" },
			fields: []string{"phone"},
		},
		{
			desc:   "StateUnknown",
			mutate: func(r *entity.RawCheckout) { r.State = "XX" },
			fields: []string{"state"},
		},
		{
			desc:   "PostalCodeShort",
			mutate: func(r *entity.RawCheckout) { r.PostalCode = "0131-010" },
			fields: []string{"postalCode"},
		},
		{
			desc:   "ReferenceNotASCII",
			mutate: func(r *entity.RawCheckout) { r.Reference = "pedido-ç" },
			fields: []string{"reference"},
		},
		{
			desc: "EveryViolationReported",
			mutate: func(r *entity.RawCheckout) {
				r.Amount = "abc"
				r.Email = "nope"
				r.TaxID = ""
				r.State = "ZZ"
			},
			fields: []string{"amount", "email", "cpf", "state"},
		},
	}

	v := checkout.NewValidator()

	for _, tc := range testCases {
		t.Run(tc.desc, func(t *testing.T) {
			raw := validRaw()
			tc.mutate(raw)

			profile := tc.profile
			if profile == nil {
				profile = _shippingProfile
			}

			req, err := v.Validate(raw, profile)
			assert.Nil(t, req)
			assert.ElementsMatch(t, tc.fields, validationFields(t, err))
		})
	}
}

func TestValidator_AmountBounds(t *testing.T) {
	v := checkout.NewValidator()

	testCases := []struct {
		desc   string
		amount string
		rule   string
	}{
		{desc: "Min", amount: "0.01"},
		{desc: "Max", amount: "9999999.99"},
		{desc: "AboveMax", amount: "9999999.991", rule: "max"},
		{desc: "Overflow", amount: "92233720368547758.08", rule: "max"},
		{desc: "BelowMin", amount: "0.009", rule: "min"},
	}

	for _, tc := range testCases {
		t.Run(tc.desc, func(t *testing.T) {
			raw := validRaw()
			raw.Amount = entity.Field(tc.amount)

			req, err := v.Validate(raw, _shippingProfile)
			if tc.rule == "" {
				require.NoError(t, err)
				assert.Equal(t, tc.amount, req.Amount.String())
				return
			}

			var validationErr *entity.ValidationError
			require.ErrorAs(t, err, &validationErr)
			require.Len(t, validationErr.Fields, 1)
			assert.Equal(t, "amount", validationErr.Fields[0].Field)
			assert.Equal(t, tc.rule, validationErr.Fields[0].Rule)
		})
	}
}

func TestValidator_CompanyTaxID(t *testing.T) {
	raw := validRaw()
	raw.TaxID = "11.222.333/0001-81"

	req, err := checkout.NewValidator().Validate(raw, _companyProfile)
	require.NoError(t, err)
	assert.Equal(t, "11222333000181", req.TaxID)
}

func TestOnlyDigits(t *testing.T) {
	assert.Equal(t, "01310100", checkout.OnlyDigits("01310-100"))
	assert.Equal(t, "", checkout.OnlyDigits("abc"))
	assert.Len(t, checkout.RegionCodes(), 27)
}
