package httpt

import (
	"bytes"
	"errors"
	"io"
	"net/http"

	"paycheckout/internal/entity"
	"paycheckout/pkg/logger"

	"github.com/gin-gonic/gin"
	"github.com/goccy/go-json"
)

const (
	_maxBodyBytes = 64 << 10
	_closeAfter   = 5
)

// @Summary      Create a checkout
// @Description  Validates the storefront body, calls the gateway profile bound to the route once and returns a normalized result
// @Tags         Checkout
// @Accept       json
// @Produce      json
// @Param        request body httpt.CheckoutRequest true "Buyer, amount and optional shipping address"
// @Success      200 {object} httpt.CheckoutResponse "Redirect URL or PIX QR code"
// @Failure      400 {object} httpt.ErrorResponse "Validation failed"
// @Failure      422 {object} httpt.ErrorResponse "Gateway rejected the payload"
// @Failure      500 {object} httpt.ErrorResponse "Gateway returned an unusable body"
// @Failure      502 {object} httpt.ErrorResponse "Gateway unavailable or timed out"
// @Router       /api/pagbank [post]
// @Router       /api/pix-direto [post]
// @Router       /api/pagseguro [post]
// @Router       /checkout [post]
func (h *CheckoutHandler) checkoutHandler(profile string) gin.HandlerFunc {
	return func(c *gin.Context) {
		const op = "transport.checkoutHandler"
		ctx := c.Request.Context()

		body, err := readBody(c)
		if err != nil {
			h.handleBadBody(c, op, err)
			return
		}

		var raw entity.RawCheckout
		if len(bytes.TrimSpace(body)) > 0 {
			if err = json.Unmarshal(body, &raw); err != nil {
				h.handleBadBody(c, op, err)
				return
			}
		}

		result, err := h.checkout.Checkout(ctx, profile, &raw)
		if err != nil {
			h.handleServiceError(c, err, op)
			return
		}

		if result.Failure != nil {
			h.handleFailure(c, result.Failure)
			return
		}

		c.JSON(http.StatusOK, newCheckoutResponse(result.Success))
	}
}

// @Summary      Receive a payment notification
// @Description  Accepts REST JSON notifications and legacy notificationCode forms; repeats are acknowledged without publishing
// @Tags         Notifications
// @Accept       json,x-www-form-urlencoded
// @Produce      plain
// @Success      200 {string} string "OK"
// @Failure      400 {object} httpt.ErrorResponse "Unrecognized notification"
// @Failure      503 {object} httpt.ErrorResponse "Notification could not be published, redeliver"
// @Router       /api/webhook [post]
func (h *CheckoutHandler) webhookHandler(c *gin.Context) {
	const op = "transport.webhookHandler"
	ctx := c.Request.Context()
	log := h.log.Ctx(ctx)

	body, err := readBody(c)
	if err != nil {
		h.handleBadBody(c, op, err)
		return
	}

	n, err := h.notifications.Parse(c.GetHeader("Content-Type"), body)
	if err != nil {
		log.LogAttrs(ctx, logger.WarnLevel, "unrecognized notification",
			logger.String("op", op),
			logger.Err(err),
			logger.String("remote_addr", c.ClientIP()),
		)
		c.JSON(http.StatusBadRequest, ErrorResponse{
			Error:   "Unrecognized notification",
			Kind:    entity.FailureValidation,
			Details: err.Error(),
		})
		return
	}

	err = h.notifications.Handle(ctx, n)
	switch {
	case err == nil, errors.Is(err, entity.ErrDuplicateNotification):
		c.String(http.StatusOK, "OK")
	default:
		c.JSON(http.StatusServiceUnavailable, ErrorResponse{
			Error: "Notification not accepted, retry later",
			Kind:  entity.FailureGatewayUnavailable,
		})
	}
}

// @Summary  Service status
// @Tags     Service
// @Produce  json
// @Success  200 {object} httpt.StatusResponse
// @Router   / [get]
func (h *CheckoutHandler) statusHandler(c *gin.Context) {
	c.JSON(http.StatusOK, StatusResponse{
		Status:         "ok",
		Service:        h.service,
		Version:        h.version,
		DefaultProfile: h.defaultProfile,
		Profiles:       h.checkout.Profiles(),
		Routes:         h.enabledRoutes(),
	})
}

// @Summary  Payment success page
// @Tags     Service
// @Produce  html
// @Success  200 {string} string "HTML page"
// @Router   /sucesso [get]
func (h *CheckoutHandler) successPageHandler(c *gin.Context) {
	c.HTML(http.StatusOK, "sucesso.html", gin.H{
		"Service":    h.service,
		"CloseAfter": _closeAfter,
	})
}

func readBody(c *gin.Context) ([]byte, error) {
	c.Request.Body = http.MaxBytesReader(c.Writer, c.Request.Body, _maxBodyBytes)
	return io.ReadAll(c.Request.Body)
}
