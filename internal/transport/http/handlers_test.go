package httpt_test

import (
	"context"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"sync/atomic"
	"testing"
	"time"

	"paycheckout/internal/checkout"
	"paycheckout/internal/config"
	"paycheckout/internal/entity"
	"paycheckout/internal/gateway"
	"paycheckout/internal/service"
	mock_service "paycheckout/internal/service/mock"
	httpt "paycheckout/internal/transport/http"
	"paycheckout/pkg/cache"
	"paycheckout/pkg/logger"
	mock_metric "paycheckout/pkg/metric/mock"

	"github.com/gin-gonic/gin"
	"github.com/goccy/go-json"
	"github.com/golang/mock/gomock"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const _validBody = `{
	"amount": "149.90",
	"name": "Maria Silva",
	"email": "maria@example.com",
	"cpf": "123.456.789-09",
	"phone": "(11) 98765-4321",
	"street": "Av. Paulista",
	"number": "1000",
	"district": "Bela Vista",
	"city": "São Paulo",
	"state": "SP",
	"postalCode": "01310-100"
}`

func init() {
	gin.SetMode(gin.TestMode)
}

type fakeGateway struct {
	server *httptest.Server
	calls  atomic.Int32
}

func newFakeGateway(t *testing.T, handler http.HandlerFunc) *fakeGateway {
	t.Helper()
	g := &fakeGateway{}
	g.server = httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		g.calls.Add(1)
		handler(w, r)
	}))
	t.Cleanup(g.server.Close)
	return g
}

type testEnv struct {
	router    *gin.Engine
	publisher *mock_service.MockPublisher
}

type endpoints struct {
	legacy, orders, charges string
}

func newTestEnv(t *testing.T, ep endpoints) *testEnv {
	t.Helper()
	ctrl := gomock.NewController(t)

	httpMetrics := mock_metric.NewMockHTTP(ctrl)
	httpMetrics.EXPECT().Request(gomock.Any(), gomock.Any(), gomock.Any(), gomock.Any()).AnyTimes()
	httpMetrics.EXPECT().SlowRequest(gomock.Any(), gomock.Any(), gomock.Any(), gomock.Any()).AnyTimes()

	gatewayMetrics := mock_metric.NewMockGateway(ctrl)
	gatewayMetrics.EXPECT().Call(gomock.Any(), gomock.Any(), gomock.Any()).AnyTimes()
	gatewayMetrics.EXPECT().TransportError(gomock.Any(), gomock.Any()).AnyTimes()
	gatewayMetrics.EXPECT().Outcome(gomock.Any(), gomock.Any()).AnyTimes()

	cacheMetrics := mock_metric.NewMockCache(ctrl)
	cacheMetrics.EXPECT().Hit(gomock.Any()).AnyTimes()
	cacheMetrics.EXPECT().Miss(gomock.Any()).AnyTimes()
	cacheMetrics.EXPECT().Eviction(gomock.Any(), gomock.Any()).AnyTimes()
	cacheMetrics.EXPECT().Size(gomock.Any(), gomock.Any()).AnyTimes()

	publisherMetrics := mock_metric.NewMockPublisher(ctrl)
	publisherMetrics.EXPECT().Duplicate(gomock.Any()).AnyTimes()

	log := logger.NewNop()

	profiles := map[string]entity.Profile{}
	if ep.legacy != "" {
		profiles[config.ProfileLegacy] = &entity.FormProfile{
			Key:             config.ProfileLegacy,
			Endpoint:        ep.legacy,
			PaymentPageURL:  "https://pay.example.test/v2/checkout/payment.html",
			Email:           "seller@example.test",
			Token:           "legacy-token",
			Currency:        "BRL",
			ItemID:          "0001",
			ItemDescription: "Kit",
			RequireShipping: true,
			ShippingType:    3,
			ShippingCost:    decimal.Zero,
			MaxUses:         1,
			MaxAge:          3600,
			TaxDigits:       11,
			ReferencePrefix: "MG_",
		}
	}
	if ep.orders != "" {
		profiles[config.ProfileOrders] = &entity.JSONProfile{
			Key:             config.ProfileOrders,
			Resource:        entity.ResourceOrder,
			Endpoint:        ep.orders,
			Token:           "orders-token",
			PhoneCountry:    "55",
			AddressCountry:  "BRA",
			Currency:        "BRL",
			ItemReference:   "kit",
			ItemName:        "Kit",
			RequireShipping: true,
			TaxDigits:       11,
			ReferencePrefix: "PED",
		}
	}
	if ep.charges != "" {
		profiles[config.ProfileCharges] = &entity.JSONProfile{
			Key:             config.ProfileCharges,
			Resource:        entity.ResourceCharge,
			Endpoint:        ep.charges,
			Token:           "charges-token",
			PhoneCountry:    "55",
			Currency:        "BRL",
			ItemName:        "Kit",
			TaxDigits:       11,
			ReferencePrefix: "PIX",
		}
	}

	refs, err := checkout.NewSnowflakeReferences(1)
	require.NoError(t, err)

	client, err := gateway.NewClient(log, gatewayMetrics, gateway.Timeout(300*time.Millisecond))
	require.NoError(t, err)

	checkoutService := service.NewCheckoutService(
		profiles, checkout.NewValidator(), checkout.NewBuilder(refs), client, gatewayMetrics, log,
	)

	dedup, err := cache.NewLRUCache[string, time.Time]("notifications", 100, log, cacheMetrics)
	require.NoError(t, err)

	publisher := mock_service.NewMockPublisher(ctrl)
	notificationService := service.NewNotificationService(dedup, time.Hour, publisher, time.Second, publisherMetrics, log)

	cfg := &config.Config{}
	cfg.App.Name = "paycheckout"
	cfg.App.Version = "test"
	cfg.Gateway.DefaultProfile = config.ProfileOrders
	cfg.HTTP.AllowedOrigins = []string{"https://shop.example.test"}

	handler, err := httpt.NewCheckoutHandler(checkoutService, notificationService, cfg, log, httpMetrics)
	require.NoError(t, err)

	return &testEnv{router: handler.Engine(), publisher: publisher}
}

func (e *testEnv) do(method, path, contentType, body string, headers ...string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(method, path, strings.NewReader(body))
	if contentType != "" {
		req.Header.Set("Content-Type", contentType)
	}
	for i := 0; i+1 < len(headers); i += 2 {
		req.Header.Set(headers[i], headers[i+1])
	}
	w := httptest.NewRecorder()
	e.router.ServeHTTP(w, req)
	return w
}

func decode[T any](t *testing.T, w *httptest.ResponseRecorder) T {
	t.Helper()
	var v T
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &v), w.Body.String())
	return v
}

func TestCheckoutHandler_OrdersPayLink(t *testing.T) {
	gw := newFakeGateway(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "Bearer orders-token", r.Header.Get("Authorization"))

		var doc checkout.OrderDocument
		require.NoError(t, json.NewDecoder(r.Body).Decode(&doc))
		assert.Equal(t, int64(14990), doc.Items[0].UnitAmount)
		assert.Equal(t, "01310100", doc.Shipping.Address.PostalCode)

		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusCreated)
		_, _ = io.WriteString(w, `{"id":"ORDE_1","reference_id":"`+doc.ReferenceID+`","links":[
			{"rel":"SELF","href":"https://api.example.test/orders/ORDE_1"},
			{"rel":"PAY","href":"https://pay/x"}]}`)
	})
	env := newTestEnv(t, endpoints{orders: gw.server.URL})

	for _, path := range []string{"/api/pagbank", "/checkout"} {
		w := env.do(http.MethodPost, path, "application/json", _validBody)
		require.Equal(t, http.StatusOK, w.Code, w.Body.String())

		resp := decode[httpt.CheckoutResponse](t, w)
		assert.True(t, resp.Success)
		assert.Equal(t, "https://pay/x", resp.RedirectURL)
		assert.Equal(t, "ORDE_1", resp.GatewayID)
		assert.Equal(t, "149.90", resp.Amount)
		assert.True(t, strings.HasPrefix(resp.ReferenceID, "PED"))
	}
	assert.Equal(t, int32(2), gw.calls.Load())
}

func TestCheckoutHandler_LegacyReferenceRoundTrip(t *testing.T) {
	gw := newFakeGateway(t, func(w http.ResponseWriter, r *http.Request) {
		raw, _ := io.ReadAll(r.Body)
		form, err := url.ParseQuery(string(raw))
		require.NoError(t, err)

		assert.Equal(t, "seller@example.test", form.Get("email"))
		assert.Equal(t, "149.90", form.Get("itemAmount1"))
		assert.Equal(t, "11", form.Get("senderAreaCode"))
		assert.Equal(t, "987654321", form.Get("senderPhone"))

		w.Header().Set("Content-Type", "application/xml;charset=ISO-8859-1")
		_, _ = io.WriteString(w, `<?xml version="1.0" encoding="ISO-8859-1"?><checkout><code>8CF4BE7D</code><reference>`+
			form.Get("reference")+`</reference></checkout>`)
	})
	env := newTestEnv(t, endpoints{legacy: gw.server.URL, orders: "http://unused.invalid"})

	body := strings.Replace(_validBody, `"amount"`, `"reference": "PEDIDO-77", "amount"`, 1)
	w := env.do(http.MethodPost, "/api/pagseguro", "application/json", body)
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())

	resp := decode[httpt.CheckoutResponse](t, w)
	assert.Equal(t, "PEDIDO-77", resp.ReferenceID)
	assert.Equal(t, "https://pay.example.test/v2/checkout/payment.html?code=8CF4BE7D", resp.RedirectURL)
}

func TestCheckoutHandler_ChargesQRCode(t *testing.T) {
	gw := newFakeGateway(t, func(w http.ResponseWriter, r *http.Request) {
		var doc checkout.ChargeDocument
		require.NoError(t, json.NewDecoder(r.Body).Decode(&doc))
		assert.Equal(t, "PIX", doc.PaymentMethod.Type)
		assert.Equal(t, int64(1001), doc.Amount.Value)

		w.WriteHeader(http.StatusCreated)
		_, _ = io.WriteString(w, `{"id":"CHAR_1","reference_id":"`+doc.ReferenceID+`",
			"payment_method":{"type":"PIX","qr_code":"data:image/png;base64,AAA","text":"00020126PIX"}}`)
	})
	env := newTestEnv(t, endpoints{charges: gw.server.URL, orders: "http://unused.invalid"})

	body := `{"amount":10.005,"name":"Jo Lima","email":"jo@example.com","cpf":"52998224725","phone":"1133334444"}`
	w := env.do(http.MethodPost, "/api/pix-direto", "application/json", body)
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())

	resp := decode[httpt.CheckoutResponse](t, w)
	assert.Equal(t, "00020126PIX", resp.CopyPasteCode)
	assert.Equal(t, "data:image/png;base64,AAA", resp.QRCode)
	assert.Equal(t, "10.01", resp.Amount)
}

func TestCheckoutHandler_GatewayFailures(t *testing.T) {
	testCases := []struct {
		desc     string
		status   int
		body     string
		legacy   bool
		expected int
		kind     entity.FailureKind
		details  string
	}{
		{
			desc:     "LegacyXMLError",
			status:   http.StatusOK,
			body:     `<?xml version="1.0" encoding="ISO-8859-1"?><errors><error><code>11013</code><message>senderAreaCode invalid value.</message></error></errors>`,
			legacy:   true,
			expected: http.StatusUnprocessableEntity,
			kind:     entity.FailureGatewayRejected,
			details:  "11013",
		},
		{
			desc:     "LegacyBareError",
			status:   http.StatusOK,
			body:     `<error><code>11013</code><message>Invalid tax id</message></error>`,
			legacy:   true,
			expected: http.StatusUnprocessableEntity,
			kind:     entity.FailureGatewayRejected,
			details:  "11013: Invalid tax id",
		},
		{
			desc:     "LegacyTransactionError",
			status:   http.StatusOK,
			body:     `<transaction><errors><error><code>53004</code><message>items invalid quantity.</message></error></errors></transaction>`,
			legacy:   true,
			expected: http.StatusUnprocessableEntity,
			kind:     entity.FailureGatewayRejected,
			details:  "53004",
		},
		{
			desc:     "RESTClientError",
			status:   http.StatusBadRequest,
			body:     `{"error_messages":[{"code":"40002","description":"invalid_parameter","parameter_name":"customer.tax_id"}]}`,
			expected: http.StatusUnprocessableEntity,
			kind:     entity.FailureGatewayRejected,
			details:  "customer.tax_id",
		},
		{
			desc:     "ServerError",
			status:   http.StatusServiceUnavailable,
			body:     `maintenance`,
			expected: http.StatusBadGateway,
			kind:     entity.FailureGatewayUnavailable,
			details:  "503",
		},
		{
			desc:     "MalformedSuccess",
			status:   http.StatusOK,
			body:     `{"status":"ok"}`,
			expected: http.StatusInternalServerError,
			kind:     entity.FailureMalformedResponse,
		},
	}

	for _, tc := range testCases {
		t.Run(tc.desc, func(t *testing.T) {
			gw := newFakeGateway(t, func(w http.ResponseWriter, _ *http.Request) {
				w.WriteHeader(tc.status)
				_, _ = io.WriteString(w, tc.body)
			})

			ep := endpoints{orders: gw.server.URL}
			path := "/api/pagbank"
			if tc.legacy {
				ep.legacy = gw.server.URL
				path = "/api/pagseguro"
			}
			env := newTestEnv(t, ep)

			w := env.do(http.MethodPost, path, "application/json", _validBody)
			require.Equal(t, tc.expected, w.Code, w.Body.String())

			resp := decode[httpt.ErrorResponse](t, w)
			assert.False(t, resp.Success)
			assert.Equal(t, tc.kind, resp.Kind)
			assert.NotEmpty(t, resp.Error)
			assert.Contains(t, resp.Details, tc.details)
		})
	}
}

func TestCheckoutHandler_GatewayTimeout(t *testing.T) {
	gw := newFakeGateway(t, func(w http.ResponseWriter, r *http.Request) {
		select {
		case <-time.After(3 * time.Second):
		case <-r.Context().Done():
		}
	})
	env := newTestEnv(t, endpoints{orders: gw.server.URL})

	start := time.Now()
	w := env.do(http.MethodPost, "/api/pagbank", "application/json", _validBody)

	assert.Less(t, time.Since(start), 2*time.Second)
	require.Equal(t, http.StatusBadGateway, w.Code)
	assert.Equal(t, entity.FailureGatewayUnavailable, decode[httpt.ErrorResponse](t, w).Kind)
}

func TestCheckoutHandler_ValidationNeverCallsGateway(t *testing.T) {
	gw := newFakeGateway(t, func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusOK)
	})
	env := newTestEnv(t, endpoints{orders: gw.server.URL})

	testCases := []struct {
		desc   string
		body   string
		fields []string
	}{
		{
			desc:   "MissingAddress",
			body:   `{"amount":"50","name":"Maria Silva","email":"maria@example.com","cpf":"12345678909","phone":"11987654321"}`,
			fields: []string{"street", "number", "district", "city", "state", "postalCode"},
		},
		{
			desc:   "EmptyBody",
			body:   ``,
			fields: []string{"amount", "name", "email", "cpf", "phone"},
		},
		{
			desc:   "BadValues",
			body:   strings.NewReplacer(`"149.90"`, `"0"`, `maria@example.com`, `maria@`, `"SP"`, `"XX"`).Replace(_validBody),
			fields: []string{"amount", "email", "state"},
		},
	}

	for _, tc := range testCases {
		t.Run(tc.desc, func(t *testing.T) {
			w := env.do(http.MethodPost, "/api/pagbank", "application/json", tc.body)
			require.Equal(t, http.StatusBadRequest, w.Code, w.Body.String())

			resp := decode[httpt.ErrorResponse](t, w)
			assert.Equal(t, entity.FailureValidation, resp.Kind)

			got := make([]string, 0, len(resp.FieldErrors))
			for _, fe := range resp.FieldErrors {
				got = append(got, fe.Field)
			}
			assert.Subset(t, got, tc.fields)
		})
	}

	assert.Equal(t, int32(0), gw.calls.Load())
}

func TestCheckoutHandler_BadJSON(t *testing.T) {
	env := newTestEnv(t, endpoints{orders: "http://unused.invalid"})

	for _, body := range []string{`{"amount":`, `[1,2]`, `{"name":{"first":"x"}}`} {
		w := env.do(http.MethodPost, "/api/pagbank", "application/json", body)
		assert.Equal(t, http.StatusBadRequest, w.Code, body)
	}
}

func TestCheckoutHandler_DisabledProfile(t *testing.T) {
	env := newTestEnv(t, endpoints{orders: "http://unused.invalid"})

	w := env.do(http.MethodPost, "/api/pagseguro", "application/json", _validBody)
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestCheckoutHandler_Webhook(t *testing.T) {
	env := newTestEnv(t, endpoints{orders: "http://unused.invalid"})

	env.publisher.EXPECT().
		Publish(gomock.Any(), gomock.Any()).
		DoAndReturn(func(_ any, n *entity.Notification) error {
			assert.Equal(t, "PED1", n.ReferenceID)
			assert.Equal(t, "PAID", n.Status)
			return nil
		}).
		Times(1)

	body := `{"id":"ORDE_1","reference_id":"PED1","charges":[{"id":"CHAR_1","status":"PAID"}]}`
	for range 2 {
		w := env.do(http.MethodPost, "/api/webhook", "application/json", body)
		assert.Equal(t, http.StatusOK, w.Code)
		assert.Equal(t, "OK", w.Body.String())
	}

	w := env.do(http.MethodPost, "/api/webhook", "application/x-www-form-urlencoded", "notificationType=transaction")
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestCheckoutHandler_WebhookPublishFailure(t *testing.T) {
	env := newTestEnv(t, endpoints{orders: "http://unused.invalid"})

	env.publisher.EXPECT().Publish(gomock.Any(), gomock.Any()).Return(assert.AnError)

	w := env.do(http.MethodPost, "/api/webhook", "application/x-www-form-urlencoded", "notificationCode=ABC&notificationType=transaction")
	assert.Equal(t, http.StatusServiceUnavailable, w.Code)
}

func TestCheckoutHandler_StatusAndPages(t *testing.T) {
	env := newTestEnv(t, endpoints{orders: "http://unused.invalid", charges: "http://unused.invalid"})

	w := env.do(http.MethodGet, "/", "", "")
	require.Equal(t, http.StatusOK, w.Code)
	status := decode[httpt.StatusResponse](t, w)
	assert.Equal(t, "ok", status.Status)
	assert.Equal(t, []string{"charges", "orders"}, status.Profiles)
	assert.Contains(t, status.Routes, "POST /api/pix-direto")
	assert.Contains(t, status.Routes, "POST /checkout")
	assert.NotContains(t, status.Routes, "POST /api/pagseguro")

	w = env.do(http.MethodGet, "/health", "", "")
	assert.Equal(t, http.StatusOK, w.Code)

	w = env.do(http.MethodGet, "/sucesso", "", "")
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "PAGAMENTO REALIZADO")
	assert.Contains(t, w.Header().Get("Content-Type"), "text/html")
}

func TestCheckoutHandler_Middleware(t *testing.T) {
	env := newTestEnv(t, endpoints{orders: "http://unused.invalid"})

	testCases := []struct {
		desc        string
		method      string
		headers     []string
		status      int
		allowOrigin string
		requestID   string
	}{
		{
			desc:        "PreflightAllowedOrigin",
			method:      http.MethodOptions,
			headers:     []string{"Origin", "https://shop.example.test"},
			status:      http.StatusNoContent,
			allowOrigin: "https://shop.example.test",
		},
		{
			desc:    "PreflightForeignOrigin",
			method:  http.MethodOptions,
			headers: []string{"Origin", "https://evil.example.test"},
			status:  http.StatusForbidden,
		},
		{
			desc:      "RequestIDEchoed",
			method:    http.MethodGet,
			headers:   []string{"X-Request-ID", "abc-123"},
			status:    http.StatusOK,
			requestID: "abc-123",
		},
	}

	for _, tc := range testCases {
		t.Run(tc.desc, func(t *testing.T) {
			path := "/api/pagbank"
			if tc.method == http.MethodGet {
				path = "/health"
			}
			w := env.do(tc.method, path, "", "", tc.headers...)

			assert.Equal(t, tc.status, w.Code)
			assert.Equal(t, tc.allowOrigin, w.Header().Get("Access-Control-Allow-Origin"))
			if tc.requestID != "" {
				assert.Equal(t, tc.requestID, w.Header().Get("X-Request-ID"))
			} else {
				assert.NotEmpty(t, w.Header().Get("X-Request-ID"))
			}
		})
	}
}

type failingCheckout struct {
	err error
}

func (f failingCheckout) Checkout(context.Context, string, *entity.RawCheckout) (*entity.GatewayResult, error) {
	return nil, f.err
}

func (failingCheckout) Profiles() []string { return []string{config.ProfileOrders} }

func (failingCheckout) HasProfile(name string) bool { return name == config.ProfileOrders }

func TestCheckoutHandler_InternalError(t *testing.T) {
	ctrl := gomock.NewController(t)
	httpMetrics := mock_metric.NewMockHTTP(ctrl)
	httpMetrics.EXPECT().Request(gomock.Any(), gomock.Any(), gomock.Any(), gomock.Any()).AnyTimes()
	httpMetrics.EXPECT().SlowRequest(gomock.Any(), gomock.Any(), gomock.Any(), gomock.Any()).AnyTimes()

	cfg := &config.Config{}
	cfg.Gateway.DefaultProfile = config.ProfileOrders

	handler, err := httpt.NewCheckoutHandler(
		failingCheckout{err: errors.New("reference generator exhausted")},
		nil, cfg, logger.NewNop(), httpMetrics,
	)
	require.NoError(t, err)
	env := &testEnv{router: handler.Engine()}

	w := env.do(http.MethodPost, "/api/pagbank", "application/json", _validBody)
	require.Equal(t, http.StatusInternalServerError, w.Code, w.Body.String())

	resp := decode[httpt.ErrorResponse](t, w)
	assert.False(t, resp.Success)
	assert.Equal(t, entity.FailureInternal, resp.Kind)
	assert.NotEqual(t, entity.FailureMalformedResponse, resp.Kind)
	assert.Empty(t, resp.Details)
}
