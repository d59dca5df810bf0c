package httpt

import (
	"net/http"

	"paycheckout/internal/config"

	_ "paycheckout/docs" // for swagger

	"github.com/gin-gonic/gin"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
)

// checkoutRoutes binds each storefront path to the gateway profile it calls.
var checkoutRoutes = []struct {
	path    string
	profile string
}{
	{"/api/pagbank", config.ProfileOrders},
	{"/api/pix-direto", config.ProfileCharges},
	{"/api/pagseguro", config.ProfileLegacy},
}

// @title           Checkout Gateway API
// @version         1.0
// @description     Translates storefront checkout requests into payment gateway calls
// @contact.name    API Support
// @contact.email   support@example.com
// @host            localhost:3000
// @BasePath        /
// @schemes         http https
func (h *CheckoutHandler) setupRoutes() {
	h.router.GET("/health", func(c *gin.Context) {
		c.Status(http.StatusOK)
	})

	h.router.GET("/", h.statusHandler)
	h.router.GET("/sucesso", h.successPageHandler)

	for _, route := range checkoutRoutes {
		h.router.POST(route.path, h.checkoutHandler(route.profile))
	}
	h.router.POST("/checkout", h.checkoutHandler(h.defaultProfile))

	api := h.router.Group("/api")
	{
		api.POST("/webhook", h.webhookHandler)
	}

	h.router.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))
}

func (h *CheckoutHandler) enabledRoutes() []string {
	routes := make([]string, 0, len(checkoutRoutes)+1)
	for _, route := range checkoutRoutes {
		if h.checkout.HasProfile(route.profile) {
			routes = append(routes, "POST "+route.path)
		}
	}
	if h.checkout.HasProfile(h.defaultProfile) {
		routes = append(routes, "POST /checkout")
	}
	return append(routes, "POST /api/webhook")
}
