package handlers

import (
	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/fieldserve/marketplace-api/internal/httperr"
	"github.com/fieldserve/marketplace-api/internal/httpresp"
	"github.com/fieldserve/marketplace-api/internal/middleware"
	"github.com/fieldserve/marketplace-api/internal/models"
)

// ServiceHandler is plain catalog CRUD; orders snapshot these rows so
// edits here never touch existing orders.
type ServiceHandler struct {
	db *gorm.DB
}

func NewServiceHandler(db *gorm.DB) *ServiceHandler {
	return &ServiceHandler{db: db}
}

type serviceRequest struct {
	Title    string  `json:"title" binding:"required"`
	Subtitle string  `json:"subtitle"`
	Image    string  `json:"image"`
	Category string  `json:"category" binding:"required"`
	Price    float64 `json:"price"`
}

func (h *ServiceHandler) List(c *gin.Context) {
	q := h.db.Order("category ASC, title ASC")
	if category := c.Query("category"); category != "" {
		q = q.Where("category = ?", category)
	}

	var services []models.Service
	if err := q.Find(&services).Error; err != nil {
		httperr.Internal(c, "failed_to_list_services", "Could not list services.")
		return
	}

	httpresp.List(c, services)
}

func (h *ServiceHandler) Create(c *gin.Context) {
	if c.MustGet(middleware.ContextRoleID).(uint) != models.RoleAdmin {
		httperr.Forbidden(c, "admin_only", "Only admins can manage the catalog.")
		return
	}

	var req serviceRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httperr.BadRequest(c, "invalid_request", "title and category are required.")
		return
	}

	service := models.Service{
		Title:    req.Title,
		Subtitle: req.Subtitle,
		Image:    req.Image,
		Category: req.Category,
		Price:    req.Price,
	}

	if err := h.db.Create(&service).Error; err != nil {
		httperr.Internal(c, "failed_to_create_service", "Could not create service.")
		return
	}

	httpresp.Created(c, gin.H{"service": service})
}

func (h *ServiceHandler) Update(c *gin.Context) {
	if c.MustGet(middleware.ContextRoleID).(uint) != models.RoleAdmin {
		httperr.Forbidden(c, "admin_only", "Only admins can manage the catalog.")
		return
	}

	id, ok := paramID(c, "id")
	if !ok {
		return
	}

	var service models.Service
	if err := h.db.First(&service, id).Error; err != nil {
		httperr.NotFound(c, "service_not_found", "Service not found.")
		return
	}

	var req serviceRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httperr.BadRequest(c, "invalid_request", "title and category are required.")
		return
	}

	service.Title = req.Title
	service.Subtitle = req.Subtitle
	service.Image = req.Image
	service.Category = req.Category
	service.Price = req.Price

	if err := h.db.Save(&service).Error; err != nil {
		httperr.Internal(c, "failed_to_update_service", "Could not update service.")
		return
	}

	httpresp.OK(c, gin.H{"service": service})
}
