package handlers

import (
	"strconv"

	"github.com/gin-gonic/gin"

	domain "github.com/fieldserve/marketplace-api/internal/domain/order"
	"github.com/fieldserve/marketplace-api/internal/httperr"
	"github.com/fieldserve/marketplace-api/internal/httpresp"
	"github.com/fieldserve/marketplace-api/internal/middleware"
	"github.com/fieldserve/marketplace-api/internal/models"
	ucOrder "github.com/fieldserve/marketplace-api/internal/usecase/order"
)

// ======================================================
// HANDLER
// ======================================================

type OrderHandler struct {
	repo domain.Repository

	createUC         *ucOrder.CreateOrder
	updateUC         *ucOrder.UpdateOrder
	assignUC         *ucOrder.AssignProvider
	deleteUC         *ucOrder.DeleteOrder
	rejectUC         *ucOrder.RejectOrder
	clearRejectionUC *ucOrder.ClearRejection
}

func NewOrderHandler(
	repo domain.Repository,
	createUC *ucOrder.CreateOrder,
	updateUC *ucOrder.UpdateOrder,
	assignUC *ucOrder.AssignProvider,
	deleteUC *ucOrder.DeleteOrder,
	rejectUC *ucOrder.RejectOrder,
	clearRejectionUC *ucOrder.ClearRejection,
) *OrderHandler {
	return &OrderHandler{
		repo:             repo,
		createUC:         createUC,
		updateUC:         updateUC,
		assignUC:         assignUC,
		deleteUC:         deleteUC,
		rejectUC:         rejectUC,
		clearRejectionUC: clearRejectionUC,
	}
}

var orderMessages = map[string]string{
	"missing_required_fields":   "Required fields are missing.",
	"order_not_found":           "Order not found.",
	"invalid_status":            "Unknown order status.",
	"invalid_status_transition": "The order cannot move to that status.",
}

// ======================================================
// REQUESTS
// ======================================================

type orderServiceItemRequest struct {
	ID       uint    `json:"id"`
	Price    float64 `json:"price"`
	Quantity int     `json:"quantity"`
	Notes    string  `json:"notes"`
}

type createOrderRequest struct {
	UserID        uint                      `json:"userId"`
	Address       string                    `json:"address"`
	Area          string                    `json:"area"`
	City          string                    `json:"city"`
	ZipCode       string                    `json:"zipCode"`
	ScheduledDate string                    `json:"scheduledDate"`
	ScheduledTime string                    `json:"scheduledTime"`
	Amount        float64                   `json:"amount"`
	Status        string                    `json:"status"`
	PaymentStatus string                    `json:"paymentStatus"`
	Services      []orderServiceItemRequest `json:"services"`
}

type updateOrderRequest struct {
	Address       *string                   `json:"address"`
	Area          *string                   `json:"area"`
	City          *string                   `json:"city"`
	ZipCode       *string                   `json:"zipCode"`
	ScheduledDate *string                   `json:"scheduledDate"`
	ScheduledTime *string                   `json:"scheduledTime"`
	Amount        *float64                  `json:"amount"`
	Status        *string                   `json:"status"`
	PaymentStatus *string                   `json:"paymentStatus"`
	Rating        *float64                  `json:"rating"`
	Review        *string                   `json:"review"`
	Services      []orderServiceItemRequest `json:"services"`
}

func toServiceInputs(items []orderServiceItemRequest) []ucOrder.ServiceItemInput {
	if items == nil {
		return nil
	}
	out := make([]ucOrder.ServiceItemInput, 0, len(items))
	for _, item := range items {
		out = append(out, ucOrder.ServiceItemInput{
			ServiceID: item.ID,
			Price:     item.Price,
			Quantity:  item.Quantity,
			Notes:     item.Notes,
		})
	}
	return out
}

// ======================================================
// CREATE
// ======================================================

func (h *OrderHandler) Create(c *gin.Context) {
	var req createOrderRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httperr.BadRequest(c, "invalid_request", "Invalid request body.")
		return
	}

	if req.UserID == 0 {
		req.UserID = c.MustGet(middleware.ContextUserID).(uint)
	}

	o, err := h.createUC.Execute(c.Request.Context(), ucOrder.CreateOrderInput{
		UserID:        req.UserID,
		Address:       req.Address,
		Area:          req.Area,
		City:          req.City,
		ZipCode:       req.ZipCode,
		ScheduledDate: req.ScheduledDate,
		ScheduledTime: req.ScheduledTime,
		Amount:        req.Amount,
		Status:        req.Status,
		PaymentStatus: req.PaymentStatus,
		Services:      toServiceInputs(req.Services),
	})
	if err != nil {
		httperr.Respond(c, err, orderMessages)
		return
	}

	httpresp.Created(c, gin.H{"order": o})
}

// ======================================================
// READ
// ======================================================

func (h *OrderHandler) List(c *gin.Context) {
	var f domain.Filter

	if v := c.Query("userId"); v != "" {
		if id, err := strconv.ParseUint(v, 10, 32); err == nil {
			uid := uint(id)
			f.UserID = &uid
		}
	}
	if v := c.Query("serviceProviderId"); v != "" {
		if id, err := strconv.ParseUint(v, 10, 32); err == nil {
			pid := uint(id)
			f.ServiceProviderID = &pid
		}
	}
	f.Status = c.Query("status")

	orders, err := h.repo.ListOrders(c.Request.Context(), f)
	if err != nil {
		httperr.Internal(c, "failed_to_list_orders", "Could not list orders.")
		return
	}

	httpresp.List(c, orders)
}

func (h *OrderHandler) Get(c *gin.Context) {
	id, ok := paramID(c, "id")
	if !ok {
		return
	}

	o, err := h.repo.GetOrder(c.Request.Context(), id)
	if err != nil {
		httperr.NotFound(c, "order_not_found", "Order not found.")
		return
	}

	httpresp.OK(c, gin.H{"order": o})
}

// ======================================================
// UPDATE / STATUS / ASSIGN
// ======================================================

func (h *OrderHandler) Update(c *gin.Context) {
	id, ok := paramID(c, "id")
	if !ok {
		return
	}

	var req updateOrderRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httperr.BadRequest(c, "invalid_request", "Invalid request body.")
		return
	}

	o, err := h.updateUC.Execute(c.Request.Context(), id, ucOrder.UpdateOrderInput{
		Address:       req.Address,
		Area:          req.Area,
		City:          req.City,
		ZipCode:       req.ZipCode,
		ScheduledDate: req.ScheduledDate,
		ScheduledTime: req.ScheduledTime,
		Amount:        req.Amount,
		Status:        req.Status,
		PaymentStatus: req.PaymentStatus,
		Rating:        req.Rating,
		Review:        req.Review,
		Services:      toServiceInputs(req.Services),
	})
	if err != nil {
		httperr.Respond(c, err, orderMessages)
		return
	}

	httpresp.OK(c, gin.H{"order": o})
}

func (h *OrderHandler) UpdateStatus(c *gin.Context) {
	id, ok := paramID(c, "id")
	if !ok {
		return
	}

	var req struct {
		Status string `json:"status" binding:"required"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		httperr.BadRequest(c, "invalid_request", "status is required.")
		return
	}

	o, err := h.updateUC.Execute(c.Request.Context(), id, ucOrder.UpdateOrderInput{
		Status: &req.Status,
	})
	if err != nil {
		httperr.Respond(c, err, orderMessages)
		return
	}

	httpresp.OK(c, gin.H{"order": o})
}

func (h *OrderHandler) Assign(c *gin.Context) {
	id, ok := paramID(c, "id")
	if !ok {
		return
	}

	var req struct {
		ServiceProviderID uint `json:"serviceProviderId"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		httperr.BadRequest(c, "invalid_request", "Invalid request body.")
		return
	}

	o, err := h.assignUC.Execute(c.Request.Context(), id, req.ServiceProviderID)
	if err != nil {
		httperr.Respond(c, err, orderMessages)
		return
	}

	httpresp.OK(c, gin.H{"order": o})
}

// ======================================================
// REJECT (ledger) / DELETE
// ======================================================

func (h *OrderHandler) Reject(c *gin.Context) {
	id, ok := paramID(c, "id")
	if !ok {
		return
	}

	var req struct {
		ProviderID uint `json:"providerId"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		httperr.BadRequest(c, "invalid_request", "Invalid request body.")
		return
	}

	o, err := h.rejectUC.Execute(c.Request.Context(), id, req.ProviderID)
	if err != nil {
		httperr.Respond(c, err, orderMessages)
		return
	}

	httpresp.OK(c, gin.H{"order": o})
}

// ClearRejection is admin-only: it forgives a provider's earlier
// decline so matching can offer the order again.
func (h *OrderHandler) ClearRejection(c *gin.Context) {
	if c.MustGet(middleware.ContextRoleID).(uint) != models.RoleAdmin {
		httperr.Forbidden(c, "admin_only", "Only admins can clear rejections.")
		return
	}

	id, ok := paramID(c, "id")
	if !ok {
		return
	}
	providerID, ok := paramID(c, "providerId")
	if !ok {
		return
	}

	if err := h.clearRejectionUC.Execute(c.Request.Context(), id, providerID); err != nil {
		httperr.Respond(c, err, orderMessages)
		return
	}

	httpresp.OK(c, gin.H{})
}

func (h *OrderHandler) Delete(c *gin.Context) {
	id, ok := paramID(c, "id")
	if !ok {
		return
	}

	if err := h.deleteUC.Execute(c.Request.Context(), id); err != nil {
		httperr.Respond(c, err, orderMessages)
		return
	}

	httpresp.OK(c, gin.H{})
}

// ======================================================
// HELPERS
// ======================================================

func paramID(c *gin.Context, name string) (uint, bool) {
	id, err := strconv.ParseUint(c.Param(name), 10, 32)
	if err != nil || id == 0 {
		httperr.BadRequest(c, "invalid_id", "Invalid id parameter.")
		return 0, false
	}
	return uint(id), true
}
