package routes

import (
	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/fieldserve/marketplace-api/internal/audit"
	"github.com/fieldserve/marketplace-api/internal/config"
	"github.com/fieldserve/marketplace-api/internal/handlers"
	infraRepo "github.com/fieldserve/marketplace-api/internal/infra/repository"
	"github.com/fieldserve/marketplace-api/internal/matching"
	"github.com/fieldserve/marketplace-api/internal/middleware"
	"github.com/fieldserve/marketplace-api/internal/notify"
	"github.com/fieldserve/marketplace-api/internal/realtime"
	ucBid "github.com/fieldserve/marketplace-api/internal/usecase/bid"
	ucOrder "github.com/fieldserve/marketplace-api/internal/usecase/order"
)

func RegisterRoutes(
	r *gin.Engine,
	db *gorm.DB,
	cfg *config.Config,
	hub *realtime.Hub,
	pub realtime.Publisher,
) {

	// ======================================================
	// INFRA (SINGLETONS)
	// ======================================================
	orderRepo := infraRepo.NewOrderGormRepository(db)
	bidRepo := infraRepo.NewBidGormRepository(db)
	providerRepo := infraRepo.NewProviderGormRepository(db)

	auditLogger := audit.New(db)
	auditDispatcher := audit.NewDispatcher(auditLogger)

	notifier := notify.NewDispatcher(pub)
	matcher := matching.NewMatcher(providerRepo, pub)

	// ======================================================
	// USE CASES — ORDERS
	// ======================================================
	createOrderUC := ucOrder.NewCreateOrder(orderRepo, matcher, notifier, auditDispatcher)
	updateOrderUC := ucOrder.NewUpdateOrder(orderRepo, auditDispatcher)
	assignProviderUC := ucOrder.NewAssignProvider(orderRepo, auditDispatcher)
	deleteOrderUC := ucOrder.NewDeleteOrder(orderRepo, auditDispatcher)
	rejectOrderUC := ucOrder.NewRejectOrder(orderRepo, notifier, auditDispatcher)
	clearRejectionUC := ucOrder.NewClearRejection(orderRepo, auditDispatcher)
	listEligibleUC := ucOrder.NewListEligibleOrders(orderRepo)

	// ======================================================
	// USE CASES — BIDS
	// ======================================================
	createBidUC := ucBid.NewCreateBid(bidRepo, notifier, auditDispatcher)
	counterOfferUC := ucBid.NewCounterOffer(bidRepo, notifier, auditDispatcher)
	acceptBidUC := ucBid.NewAcceptBid(bidRepo, notifier, auditDispatcher)
	rejectBidUC := ucBid.NewRejectBid(bidRepo, notifier, auditDispatcher)

	// ======================================================
	// HANDLERS
	// ======================================================
	authHandler := handlers.NewAuthHandler(db, cfg)
	serviceHandler := handlers.NewServiceHandler(db)
	providerHandler := handlers.NewProviderHandler(db, listEligibleUC)
	wsHandler := handlers.NewWSHandler(db, hub)

	orderHandler := handlers.NewOrderHandler(
		orderRepo,
		createOrderUC,
		updateOrderUC,
		assignProviderUC,
		deleteOrderUC,
		rejectOrderUC,
		clearRejectionUC,
	)

	bidHandler := handlers.NewBidHandler(
		bidRepo,
		createBidUC,
		counterOfferUC,
		acceptBidUC,
		rejectBidUC,
	)

	// ======================================================
	// API (JSON)
	// ======================================================
	api := r.Group("/api")
	{
		// ------------------------------
		// AUTH
		// ------------------------------
		api.POST("/auth/register", authHandler.Register)
		api.POST("/auth/login", authHandler.Login)

		api.GET("/services", serviceHandler.List)

		// ------------------------------
		// PRIVATE API
		// ------------------------------
		secured := api.Group("/")
		secured.Use(middleware.AuthMiddleware(cfg))
		{
			secured.GET("/me", authHandler.Me)

			// ------------------------------
			// CATALOG (admin)
			// ------------------------------
			secured.POST("/services", serviceHandler.Create)
			secured.PATCH("/services/:id", serviceHandler.Update)

			// ------------------------------
			// ORDERS
			// ------------------------------
			secured.POST("/orders", orderHandler.Create)
			secured.GET("/orders", orderHandler.List)
			secured.GET("/orders/:id", orderHandler.Get)
			secured.PATCH("/orders/:id", orderHandler.Update)
			secured.PATCH("/orders/:id/status", orderHandler.UpdateStatus)
			secured.PATCH("/orders/:id/assign", orderHandler.Assign)
			secured.POST("/orders/:id/reject", orderHandler.Reject)
			secured.DELETE("/orders/:id/rejections/:providerId", orderHandler.ClearRejection)
			secured.DELETE("/orders/:id", orderHandler.Delete)

			// ------------------------------
			// BIDS
			// ------------------------------
			secured.POST("/bids", bidHandler.Create)
			secured.POST("/bids/counter-offer/:bidId", bidHandler.CounterOffer)
			secured.POST("/bids/accept/:bidId", bidHandler.Accept)
			secured.POST("/bids/reject/:bidId", bidHandler.Reject)
			secured.GET("/bids/order/:orderId", bidHandler.ListByOrder)
			secured.GET("/bids/provider/:providerId", bidHandler.ListByProvider)
			secured.GET("/bids/provider/:providerId/counter-offers", bidHandler.ListCounterOffers)

			// ------------------------------
			// PROVIDERS
			// ------------------------------
			secured.POST("/providers/register", providerHandler.Register)
			secured.PATCH("/providers/me/availability", providerHandler.UpdateAvailability)
			secured.GET("/providers/:id/eligible-orders", providerHandler.ListEligibleOrders)
		}
	}

	// ======================================================
	// REALTIME
	// ======================================================
	ws := r.Group("/ws")
	ws.Use(middleware.AuthMiddleware(cfg))
	ws.GET("", wsHandler.Join)
}
