package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"pdv-terminal/internal/handler/api"
	"pdv-terminal/internal/handler/middleware"
	"pdv-terminal/internal/pkg/config"
	"pdv-terminal/internal/pkg/metrics"
)

type route struct {
	Method  string
	Path    string
	Handler gin.HandlerFunc
	Mw      []gin.HandlerFunc
}

func NewRouter(
	engine *gin.Engine,
	cfg config.Config,
	terminalMetrics *metrics.TerminalMetrics,
	authHandler *api.AuthHandler,
	cartHandler *api.CartHandler,
	checkoutHandler *api.CheckoutHandler,
	authMiddleware *middleware.AuthMiddleware,
) {
	setupMiddleware(engine, cfg, terminalMetrics)
	setupRoutes(engine, authHandler, cartHandler, checkoutHandler, authMiddleware)
}

func setupMiddleware(engine *gin.Engine, cfg config.Config, terminalMetrics *metrics.TerminalMetrics) {
	// Recovery must be first (outermost) to catch panics from all other middleware
	engine.Use(middleware.CustomRecovery())
	engine.Use(middleware.NewCORSMiddleware(cfg.CORS))
	engine.Use(middleware.LoggingMiddleware(nil, cfg.Log))
	engine.Use(terminalMetrics.Middleware())
	engine.Use(middleware.ErrorHandler())
}

func setupRoutes(
	engine *gin.Engine,
	authHandler *api.AuthHandler,
	cartHandler *api.CartHandler,
	checkoutHandler *api.CheckoutHandler,
	authMiddleware *middleware.AuthMiddleware,
) {
	engine.GET("/health", healthCheck)
	engine.GET("/metrics", gin.WrapH(promhttp.Handler()))

	apiGroup := engine.Group("/api")
	{
		auth := apiGroup.Group("/auth")
		{
			addRoutes(auth, []route{
				{Method: http.MethodPost, Path: "/login", Handler: authHandler.Login},
				{Method: http.MethodPost, Path: "/refresh", Handler: authHandler.Refresh},
			})
		}

		terminals := apiGroup.Group("/terminals/:terminal")
		terminals.Use(authMiddleware.RequireAuth())
		{
			addRoutes(terminals, []route{
				{Method: http.MethodGet, Path: "/cart", Handler: cartHandler.GetCart},
				{Method: http.MethodDelete, Path: "/cart", Handler: cartHandler.ClearCart},
				{Method: http.MethodPost, Path: "/cart/items", Handler: cartHandler.AddItem},
				{Method: http.MethodPatch, Path: "/cart/items/:product", Handler: cartHandler.UpdateQuantity},
				{Method: http.MethodDelete, Path: "/cart/items/:product", Handler: cartHandler.RemoveItem},
				{Method: http.MethodPost, Path: "/cart/scan", Handler: cartHandler.Scan},
				{Method: http.MethodPut, Path: "/cart/discounts/line", Handler: cartHandler.SetLineDiscount},
				{Method: http.MethodPut, Path: "/cart/discounts/global", Handler: cartHandler.SetGlobalDiscount},
				{Method: http.MethodPost, Path: "/checkout", Handler: checkoutHandler.Finalize},
				{Method: http.MethodPost, Path: "/last-sale/repeat", Handler: cartHandler.RepeatLastSale},
			})
		}
	}
}

func healthCheck(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"status":  "ok",
		"message": "Service is healthy",
	})
}

func addRoutes(g *gin.RouterGroup, rs []route) {
	for _, r := range rs {
		h := r.Handler
		if len(r.Mw) > 0 {
			h = chainHandlers(append(r.Mw, r.Handler)...)
		}
		switch r.Method {
		case http.MethodGet:
			g.GET(r.Path, h)
		case http.MethodPost:
			g.POST(r.Path, h)
		case http.MethodPut:
			g.PUT(r.Path, h)
		case http.MethodPatch:
			g.PATCH(r.Path, h)
		case http.MethodDelete:
			g.DELETE(r.Path, h)
		default:
			g.Any(r.Path, h)
		}
	}
}

func chainHandlers(hs ...gin.HandlerFunc) gin.HandlerFunc {
	return func(c *gin.Context) {
		for _, h := range hs {
			h(c)
			if c.IsAborted() {
				return
			}
		}
	}
}
