package httpt

import (
	"context"
	"embed"
	"fmt"
	"html/template"

	"paycheckout/internal/config"
	"paycheckout/internal/entity"
	"paycheckout/pkg/logger"
	"paycheckout/pkg/metric"

	"github.com/gin-gonic/gin"
)

//go:embed web/*.html
var webFS embed.FS

type (
	CheckoutService interface {
		Checkout(ctx context.Context, profile string, raw *entity.RawCheckout) (*entity.GatewayResult, error)
		Profiles() []string
		HasProfile(name string) bool
	}

	NotificationService interface {
		Parse(contentType string, body []byte) (*entity.Notification, error)
		Handle(ctx context.Context, n *entity.Notification) error
	}

	CheckoutHandler struct {
		checkout       CheckoutService
		notifications  NotificationService
		log            logger.Logger
		metrics        metric.HTTP
		router         *gin.Engine
		service        string
		version        string
		defaultProfile string
		allowedOrigins []string
	}
)

func NewCheckoutHandler(
	checkout CheckoutService,
	notifications NotificationService,
	cfg *config.Config,
	log logger.Logger,
	metrics metric.HTTP,
) (*CheckoutHandler, error) {
	h := &CheckoutHandler{
		checkout:       checkout,
		notifications:  notifications,
		log:            log,
		metrics:        metrics,
		service:        cfg.App.Name,
		version:        cfg.App.Version,
		defaultProfile: cfg.Gateway.DefaultProfile,
		allowedOrigins: cfg.HTTP.AllowedOrigins,
	}

	pages, err := template.ParseFS(webFS, "web/*.html")
	if err != nil {
		return nil, fmt.Errorf("transport.http.NewCheckoutHandler: parse templates: %w", err)
	}

	router := gin.New()

	router.Use(h.requestIDMiddleware())
	router.Use(h.loggingMiddleware())
	router.Use(gin.Recovery())
	router.Use(h.corsMiddleware())

	router.SetHTMLTemplate(pages)

	h.router = router
	h.setupRoutes()

	return h, nil
}

func (h *CheckoutHandler) Engine() *gin.Engine {
	return h.router
}
