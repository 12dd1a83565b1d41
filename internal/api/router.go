package api

import (
	"github.com/example/storefront/internal/api/middleware"
	"github.com/example/storefront/internal/auth"
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

type RouterOptions struct {
	JWT          *auth.JWTService
	SecureCookie bool
	Logger       *zap.Logger
}

func NewRouter(handlers *Handlers, opts RouterOptions) *gin.Engine {
	logger := opts.Logger
	if logger == nil {
		logger = zap.NewNop()
	}

	r := gin.New()
	r.Use(gin.Recovery(), middleware.RequestLogger(logger))

	r.GET("/healthz", handlers.Health)

	api := r.Group("/")
	api.Use(middleware.Session(opts.JWT, opts.SecureCookie, logger))

	// Products
	api.GET("/products", handlers.ListProducts)
	api.GET("/products/featured", handlers.FeaturedProducts)
	api.GET("/products/facets", handlers.Facets)
	api.GET("/products/:slug", handlers.GetProduct)

	// Reviews
	api.GET("/products/:slug/reviews", handlers.ListReviews)
	api.POST("/products/:slug/reviews", handlers.SubmitReview)
	api.POST("/reviews/:id/helpful", handlers.MarkReviewHelpful)

	// Cart
	api.GET("/cart", handlers.GetCart)
	api.DELETE("/cart", handlers.ClearCart)
	api.POST("/cart/items", handlers.AddToCart)
	api.PATCH("/cart/items/:id", handlers.UpdateQuantity)
	api.DELETE("/cart/items/:id", handlers.RemoveFromCart)

	// Checkout
	api.GET("/checkout/summary", handlers.CheckoutSummary)
	api.POST("/checkout", handlers.PlaceOrder)

	return r
}
