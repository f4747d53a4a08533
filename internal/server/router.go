package server

import (
	"net/http"

	"neighborconnect/internal/repository"
	handler "neighborconnect/services/listing/handler"
	"neighborconnect/utils"

	"github.com/gin-gonic/gin"
)

// SetupRouter configures all Gin routes for the application
func SetupRouter(listingService handler.ListingServiceInterface, views repository.ViewStore) *gin.Engine {
	router := gin.New() // New router without default middleware for full control over middleware and logging

	router.Use(gin.Recovery())          // recover from panics
	router.Use(RequestIDMiddleware)     // correlation id on every response
	router.Use(RequestLoggerMiddleware) // custom request logging

	listingHandler := handler.NewListingHandler(listingService)

	router.GET("/healthz", func(c *gin.Context) {
		utils.JSONResponse(c, http.StatusOK, gin.H{"open_views": views.Count()}, "ok")
	})

	viewsGroup := router.Group("/views")
	{
		viewsGroup.POST("", listingHandler.OpenViewHandler)
		viewsGroup.GET("/:view_id", listingHandler.GetViewHandler)
		viewsGroup.DELETE("/:view_id", listingHandler.CloseViewHandler)
		viewsGroup.GET("/:view_id/events", listingHandler.StreamViewHandler)
		viewsGroup.POST("/:view_id/bids", listingHandler.PlaceBidHandler)
		viewsGroup.POST("/:view_id/buy", listingHandler.BuyNowHandler)
	}

	listings := router.Group("/listings")
	{
		listings.GET("/:listing_id/views", listingHandler.ListViewsHandler)
	}

	return router
}
