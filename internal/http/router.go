package api

import (
	"log"
	stdhttp "net/http"

	intconfig "bluebay/internal/config"
	h "bluebay/internal/http/handlers"
	"bluebay/internal/http/middleware"
	"bluebay/internal/services"

	"github.com/gin-gonic/gin"
)

func NewRouter(env intconfig.Env) *gin.Engine {
	r := gin.New()
	r.Use(middleware.RequestID(), middleware.Logger(), gin.Recovery(), middleware.CORS())

	if err := r.SetTrustedProxies(nil); err != nil {
		log.Printf("warning: failed to set trusted proxies: %v", err)
	}

	r.NoRoute(func(c *gin.Context) {
		c.JSON(stdhttp.StatusNotFound, gin.H{
			"error":  "route not found",
			"path":   c.Request.URL.Path,
			"method": c.Request.Method,
		})
	})

	reference := h.ReferenceHandler{
		Reference: &services.ReferenceService{
			Client: services.ReferenceClient{BaseURL: env.APIBaseURL},
		},
	}
	bookings := h.BookingHandler{Env: env}

	api := r.Group("/api")
	{
		api.GET("/health", h.Health)

		mountReferenceLists(api, reference)

		api.POST("/pricing/quote", h.GetPricingQuote)

		excursions := api.Group("/excursions")
		excursions.POST("", bookings.SubmitExcursion)
		excursions.POST("/voucher", bookings.GetExcursionVoucher)
	}

	return r
}

func mountReferenceLists(g *gin.RouterGroup, reference h.ReferenceHandler) {
	g.GET("/hotels", reference.List("hotels"))
	g.GET("/cities", reference.List("cities"))
	g.GET("/nationalities", reference.List("nationalities"))
	g.GET("/currencies", reference.List("currencies"))
	g.GET("/roads", reference.List("roads"))
}
