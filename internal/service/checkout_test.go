package service_test

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"testing"
	"time"

	"paycheckout/internal/checkout"
	"paycheckout/internal/entity"
	"paycheckout/internal/service"
	mock_service "paycheckout/internal/service/mock"
	"paycheckout/pkg/logger"
	mock_metric "paycheckout/pkg/metric/mock"

	"github.com/brianvoe/gofakeit/v7"
	"github.com/golang/mock/gomock"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fixedReferences struct{}

func (fixedReferences) Next(prefix string) string { return prefix + "1700000000000" }

func testProfiles() map[string]entity.Profile {
	return map[string]entity.Profile{
		"legacy": &entity.FormProfile{
			Key:             "legacy",
			Endpoint:        "https://ws.example.test/v2/checkout",
			PaymentPageURL:  "https://pay.example.test/v2/checkout/payment.html",
			Email:           "seller@example.test",
			Token:           "legacy-token",
			Currency:        "BRL",
			ItemID:          "0001",
			ItemDescription: "Kit",
			ShippingType:    3,
			ShippingCost:    decimal.Zero,
			MaxUses:         1,
			MaxAge:          3600,
			TaxDigits:       11,
			ReferencePrefix: "REF",
		},
		"orders": &entity.JSONProfile{
			Key:             "orders",
			Resource:        entity.ResourceOrder,
			Endpoint:        "https://api.example.test/orders",
			Token:           "orders-token",
			PhoneCountry:    "55",
			AddressCountry:  "BRA",
			Currency:        "BRL",
			ItemReference:   "KIT-01",
			ItemName:        "Kit",
			RequireShipping: true,
			TaxDigits:       11,
			ReferencePrefix: "PED",
		},
		"charges": &entity.JSONProfile{
			Key:             "charges",
			Resource:        entity.ResourceCharge,
			Endpoint:        "https://api.example.test/charges",
			Token:           "charges-token",
			PhoneCountry:    "55",
			Currency:        "BRL",
			ItemName:        "Kit",
			TaxDigits:       11,
			ReferencePrefix: "PIX",
		},
	}
}

func generateFakeRawCheckout() *entity.RawCheckout {
	return &entity.RawCheckout{
		Amount:     entity.Field(fmt.Sprintf("%d.90", gofakeit.IntRange(10, 500))),
		Name:       entity.Field(gofakeit.Name()),
		Email:      entity.Field(fmt.Sprintf("%s@example.com", gofakeit.Username())),
		TaxID:      "123.456.789-09",
		Phone:      "(11) 98765-4321",
		Street:     entity.Field(gofakeit.Street()),
		Number:     entity.Field(gofakeit.StreetNumber()),
		District:   "Centro",
		City:       entity.Field(gofakeit.City()),
		State:      "SP",
		PostalCode: "01310-100",
	}
}

type checkoutDeps struct {
	gateway *mock_service.MockGateway
	metrics *mock_metric.MockGateway
}

func newCheckoutService(t *testing.T) (*service.CheckoutService, checkoutDeps) {
	t.Helper()
	ctrl := gomock.NewController(t)

	deps := checkoutDeps{
		gateway: mock_service.NewMockGateway(ctrl),
		metrics: mock_metric.NewMockGateway(ctrl),
	}

	svc := service.NewCheckoutService(
		testProfiles(),
		checkout.NewValidator(),
		checkout.NewBuilder(fixedReferences{}),
		deps.gateway,
		deps.metrics,
		logger.NewNop(),
	)
	return svc, deps
}

func TestCheckoutService_Checkout(t *testing.T) {
	type expected struct {
		kind        entity.FailureKind
		gatewayID   string
		redirectURL string
		copyPaste   string
	}

	testCases := []struct {
		desc     string
		profile  string
		response *entity.GatewayResponse
		sendErr  error
		expected expected
	}{
		{
			desc:    "LegacyCheckoutCode",
			profile: "legacy",
			response: &entity.GatewayResponse{
				StatusCode: http.StatusOK,
				Body:       []byte(`<?xml version="1.0" encoding="ISO-8859-1"?><checkout><code>8CF4BE7DCECEF0F004A6DFA0A8243412</code><date>2024-01-01T10:00:00.000-03:00</date></checkout>`),
			},
			expected: expected{
				gatewayID:   "8CF4BE7DCECEF0F004A6DFA0A8243412",
				redirectURL: "https://pay.example.test/v2/checkout/payment.html?code=8CF4BE7DCECEF0F004A6DFA0A8243412",
			},
		},
		{
			desc:    "OrderPayLink",
			profile: "orders",
			response: &entity.GatewayResponse{
				StatusCode: http.StatusCreated,
				Body: []byte(`{"id":"ORDE_1","reference_id":"PED1700000000000","links":[
					{"rel":"SELF","href":"https://api.example.test/orders/ORDE_1"},
					{"rel":"PAY","href":"https://pay.example.test/ORDE_1"}]}`),
			},
			expected: expected{
				gatewayID:   "ORDE_1",
				redirectURL: "https://pay.example.test/ORDE_1",
			},
		},
		{
			desc:    "ChargeQRCode",
			profile: "charges",
			response: &entity.GatewayResponse{
				StatusCode: http.StatusCreated,
				Body:       []byte(`{"id":"CHAR_1","payment_method":{"type":"PIX","qr_code":"data:image/png;base64,AAA","text":"00020126PIX"}}`),
			},
			expected: expected{
				gatewayID: "CHAR_1",
				copyPaste: "00020126PIX",
			},
		},
		{
			desc:    "GatewayRejected",
			profile: "orders",
			response: &entity.GatewayResponse{
				StatusCode: http.StatusBadRequest,
				Body:       []byte(`{"error_messages":[{"code":"40002","description":"invalid_parameter","parameter_name":"customer.tax_id"}]}`),
			},
			expected: expected{kind: entity.FailureGatewayRejected},
		},
		{
			desc:    "GatewayServerError",
			profile: "orders",
			response: &entity.GatewayResponse{
				StatusCode: http.StatusBadGateway,
				Body:       []byte(`upstream down`),
			},
			expected: expected{kind: entity.FailureGatewayUnavailable},
		},
		{
			desc:     "GatewayTimeout",
			profile:  "charges",
			sendErr:  fmt.Errorf("gateway.Send: %w: timeout", entity.ErrGatewayUnavailable),
			expected: expected{kind: entity.FailureGatewayUnavailable},
		},
		{
			desc:    "MalformedBody",
			profile: "orders",
			response: &entity.GatewayResponse{
				StatusCode: http.StatusOK,
				Body:       []byte(`<html>maintenance</html>`),
			},
			expected: expected{kind: entity.FailureMalformedResponse},
		},
	}

	for _, tc := range testCases {
		t.Run(tc.desc, func(t *testing.T) {
			svc, deps := newCheckoutService(t)
			raw := generateFakeRawCheckout()

			deps.gateway.EXPECT().
				Send(gomock.Any(), gomock.Any()).
				DoAndReturn(func(_ context.Context, p *entity.OutboundPayload) (*entity.GatewayResponse, error) {
					assert.Equal(t, tc.profile, p.Profile)
					assert.NotEmpty(t, p.ReferenceID)
					return tc.response, tc.sendErr
				}).
				Times(1)

			outcome := "success"
			if tc.expected.kind != "" {
				outcome = string(tc.expected.kind)
			}
			deps.metrics.EXPECT().Outcome(tc.profile, outcome).Times(1)

			result, err := svc.Checkout(context.Background(), tc.profile, raw)
			require.NoError(t, err)
			require.NotNil(t, result)

			if tc.expected.kind != "" {
				require.NotNil(t, result.Failure)
				assert.Nil(t, result.Success)
				assert.Equal(t, tc.expected.kind, result.Failure.Kind)
				return
			}

			require.NotNil(t, result.Success)
			assert.Nil(t, result.Failure)
			assert.Equal(t, tc.expected.gatewayID, result.Success.GatewayID)
			assert.Equal(t, tc.expected.redirectURL, result.Success.RedirectURL)
			assert.Equal(t, tc.expected.copyPaste, result.Success.CopyPasteCode)
			assert.True(t, decimal.RequireFromString(raw.Amount.String()).Equal(result.Success.Amount))
		})
	}
}

func TestCheckoutService_ValidationSkipsGateway(t *testing.T) {
	svc, deps := newCheckoutService(t)

	raw := generateFakeRawCheckout()
	raw.Street = ""
	raw.PostalCode = ""

	deps.gateway.EXPECT().Send(gomock.Any(), gomock.Any()).Times(0)
	deps.metrics.EXPECT().Outcome("orders", string(entity.FailureValidation)).Times(1)

	result, err := svc.Checkout(context.Background(), "orders", raw)
	require.Error(t, err)
	assert.Nil(t, result)

	var validationErr *entity.ValidationError
	require.ErrorAs(t, err, &validationErr)
	assert.True(t, validationErr.Has("street"))
	assert.True(t, validationErr.Has("postalCode"))
	assert.ErrorIs(t, err, entity.ErrInvalidData)
}

func TestCheckoutService_ReferenceRoundTrip(t *testing.T) {
	svc, deps := newCheckoutService(t)

	raw := generateFakeRawCheckout()
	raw.Reference = "PEDIDO-42"

	deps.gateway.EXPECT().
		Send(gomock.Any(), gomock.Any()).
		DoAndReturn(func(_ context.Context, p *entity.OutboundPayload) (*entity.GatewayResponse, error) {
			assert.Equal(t, "PEDIDO-42", p.ReferenceID)
			return &entity.GatewayResponse{
				StatusCode: http.StatusOK,
				Body:       []byte(`{"id":"ORDE_9","links":[{"rel":"PAY","href":"https://pay.example.test/9"}]}`),
				Duration:   time.Millisecond,
			}, nil
		})
	deps.metrics.EXPECT().Outcome("orders", "success")

	result, err := svc.Checkout(context.Background(), "orders", raw)
	require.NoError(t, err)
	assert.Equal(t, "PEDIDO-42", result.Success.ReferenceID)
}

func TestCheckoutService_UnknownProfile(t *testing.T) {
	svc, _ := newCheckoutService(t)

	_, err := svc.Checkout(context.Background(), "boleto", generateFakeRawCheckout())
	require.True(t, errors.Is(err, entity.ErrUnknownProfile))
}

func TestCheckoutService_Profiles(t *testing.T) {
	svc, _ := newCheckoutService(t)

	assert.Equal(t, []string{"charges", "legacy", "orders"}, svc.Profiles())
	assert.True(t, svc.HasProfile("legacy"))
	assert.False(t, svc.HasProfile("boleto"))
}
