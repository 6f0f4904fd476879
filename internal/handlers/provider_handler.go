package handlers

import (
	"time"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/fieldserve/marketplace-api/internal/dto"
	"github.com/fieldserve/marketplace-api/internal/httperr"
	"github.com/fieldserve/marketplace-api/internal/httpresp"
	"github.com/fieldserve/marketplace-api/internal/middleware"
	"github.com/fieldserve/marketplace-api/internal/models"
	ucOrder "github.com/fieldserve/marketplace-api/internal/usecase/order"
)

type ProviderHandler struct {
	db             *gorm.DB
	listEligibleUC *ucOrder.ListEligibleOrders
}

func NewProviderHandler(
	db *gorm.DB,
	listEligibleUC *ucOrder.ListEligibleOrders,
) *ProviderHandler {
	return &ProviderHandler{
		db:             db,
		listEligibleUC: listEligibleUC,
	}
}

// ======================================================
// REGISTER PROFILE
// ======================================================

type registerProviderRequest struct {
	Designation string  `json:"designation" binding:"required"`
	Location    string  `json:"location"`
	RatePerHour float64 `json:"rate_per_hour"`
	Experience  string  `json:"experience"`
}

func (h *ProviderHandler) Register(c *gin.Context) {
	userID := c.MustGet(middleware.ContextUserID).(uint)

	var req registerProviderRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httperr.BadRequest(c, "invalid_request", "designation is required.")
		return
	}

	var count int64
	h.db.Model(&models.ServiceProvider{}).Where("user_id = ?", userID).Count(&count)
	if count > 0 {
		httperr.Conflict(c, "provider_profile_exists", "This user already has a provider profile.")
		return
	}

	provider := models.ServiceProvider{
		UserID:             userID,
		Designation:        req.Designation,
		Location:           req.Location,
		RatePerHour:        req.RatePerHour,
		Experience:         req.Experience,
		Status:             "active",
		AvailabilityStatus: models.AvailabilityOffline,
		JoinedDate:         time.Now(),
	}

	if err := h.db.Create(&provider).Error; err != nil {
		httperr.Internal(c, "failed_to_create_provider", "Could not create provider profile.")
		return
	}

	httpresp.Created(c, gin.H{"provider": provider})
}

// ======================================================
// AVAILABILITY
// ======================================================

// UpdateAvailability is a plain single-row write; it is idempotent and
// deliberately not wrapped in a transaction.
func (h *ProviderHandler) UpdateAvailability(c *gin.Context) {
	userID := c.MustGet(middleware.ContextUserID).(uint)

	var req struct {
		AvailabilityStatus string `json:"availability_status" binding:"required"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		httperr.BadRequest(c, "invalid_request", "availability_status is required.")
		return
	}

	if req.AvailabilityStatus != models.AvailabilityOnline &&
		req.AvailabilityStatus != models.AvailabilityOffline {
		httperr.BadRequest(c, "invalid_availability_status", "availability_status must be online or offline.")
		return
	}

	var provider models.ServiceProvider
	if err := h.db.Where("user_id = ?", userID).First(&provider).Error; err != nil {
		httperr.NotFound(c, "provider_not_found", "No provider profile for this user.")
		return
	}

	now := time.Now()
	provider.AvailabilityStatus = req.AvailabilityStatus
	provider.LastActive = &now

	if err := h.db.Save(&provider).Error; err != nil {
		httperr.Internal(c, "failed_to_update_provider", "Could not update availability.")
		return
	}

	httpresp.OK(c, gin.H{"provider": provider})
}

// ======================================================
// ELIGIBLE ORDERS
// ======================================================

func (h *ProviderHandler) ListEligibleOrders(c *gin.Context) {
	providerID, ok := paramID(c, "id")
	if !ok {
		return
	}

	orders, err := h.listEligibleUC.Execute(
		c.Request.Context(),
		providerID,
		c.Query("status"),
	)
	if err != nil {
		httperr.Internal(c, "failed_to_list_orders", "Could not list eligible orders.")
		return
	}

	out := make([]dto.EligibleOrderDTO, 0, len(orders))
	for _, o := range orders {
		out = append(out, dto.FromOrder(o))
	}

	httpresp.List(c, out)
}
