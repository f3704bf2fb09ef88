// Package router contains routing and server setup for the HTTP delivery.
package router

import (
	"bazaar/internal/delivery/http/middleware"
	"bazaar/internal/delivery/http/router/handler"
	"bazaar/internal/domain/entity"

	"github.com/labstack/echo/v4"
	"go.uber.org/fx"
)

type RouterParams struct {
	fx.In

	DownloadHandler *handler.DownloadHandler
	PaymentHandler  *handler.PaymentHandler
	AdminHandler    *handler.AdminHandler
	AuthMiddleware  *middleware.AuthMiddleware
}

// router holds all the handlers that need to be registered.
type router struct {
	downloadHandler *handler.DownloadHandler
	paymentHandler  *handler.PaymentHandler
	adminHandler    *handler.AdminHandler
	authMiddleware  *middleware.AuthMiddleware
}

// NewRouter is the constructor for the Router.
// Fx will inject the required handlers here.
func NewRouter(params RouterParams) *router {
	return &router{
		downloadHandler: params.DownloadHandler,
		paymentHandler:  params.PaymentHandler,
		adminHandler:    params.AdminHandler,
		authMiddleware:  params.AuthMiddleware,
	}
}

// RegisterRoutes sets up all the API routes for the application.
func (r *router) RegisterRoutes(e *echo.Echo) {
	// Health check endpoint
	e.GET("/health", handler.HealthCheck)

	// Download routes require authentication
	downloadGroup := e.Group("/downloads")
	downloadGroup.Use(r.authMiddleware.Authenticate)
	{
		downloadGroup.POST("/generate/:assetId", r.downloadHandler.Generate)
		downloadGroup.GET("/history", r.downloadHandler.History)
		downloadGroup.GET("/can-download/:assetId", r.downloadHandler.CanDownload)
	}

	// Payment routes. The webhook stays outside the auth group: the processor
	// authenticates with the signature header, not a bearer token.
	paymentGroup := e.Group("/payments")
	{
		paymentGroup.POST("/webhook", r.paymentHandler.Webhook)
	}
	checkoutGroup := paymentGroup.Group("")
	checkoutGroup.Use(r.authMiddleware.Authenticate)
	{
		checkoutGroup.POST("/create-checkout", r.paymentHandler.CreateCheckout)
	}

	// Support routes require authentication and the administer capability
	adminGroup := e.Group("/admin")
	adminGroup.Use(r.authMiddleware.Authenticate)
	adminGroup.Use(r.authMiddleware.RequireCapability(entity.CapabilityAdminister))
	{
		adminGroup.GET("/orders/:orderId", r.adminHandler.GetOrder)
	}
}
