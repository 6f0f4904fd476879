package handlers

import (
	"github.com/gin-gonic/gin"

	domain "github.com/fieldserve/marketplace-api/internal/domain/bid"
	"github.com/fieldserve/marketplace-api/internal/httperr"
	"github.com/fieldserve/marketplace-api/internal/httpresp"
	ucBid "github.com/fieldserve/marketplace-api/internal/usecase/bid"
)

// ======================================================
// HANDLER
// ======================================================

type BidHandler struct {
	repo domain.Repository

	createUC  *ucBid.CreateBid
	counterUC *ucBid.CounterOffer
	acceptUC  *ucBid.AcceptBid
	rejectUC  *ucBid.RejectBid
}

func NewBidHandler(
	repo domain.Repository,
	createUC *ucBid.CreateBid,
	counterUC *ucBid.CounterOffer,
	acceptUC *ucBid.AcceptBid,
	rejectUC *ucBid.RejectBid,
) *BidHandler {
	return &BidHandler{
		repo:      repo,
		createUC:  createUC,
		counterUC: counterUC,
		acceptUC:  acceptUC,
		rejectUC:  rejectUC,
	}
}

var bidMessages = map[string]string{
	"missing_required_fields": "Required fields are missing.",
	"order_not_found":         "Order not found.",
	"provider_not_found":      "Service provider not found.",
	"bid_not_found":           "Bid not found.",
	"duplicate_bid":           "You already have an active bid on this order.",
	"bid_already_settled":     "This bid was already accepted or rejected.",
	"bid_already_accepted":    "An accepted bid cannot be rejected.",
	"order_not_open_for_bids": "This order is no longer open for bidding.",
}

// ======================================================
// CREATE
// ======================================================

type createBidRequest struct {
	OrderID           uint    `json:"orderId"`
	ServiceProviderID uint    `json:"serviceProviderId"`
	BidPrice          float64 `json:"bidPrice"`
	BidMessage        string  `json:"bidMessage"`
}

func (h *BidHandler) Create(c *gin.Context) {
	var req createBidRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httperr.BadRequest(c, "invalid_request", "Invalid request body.")
		return
	}

	b, err := h.createUC.Execute(c.Request.Context(), ucBid.CreateBidInput{
		OrderID:           req.OrderID,
		ServiceProviderID: req.ServiceProviderID,
		BidPrice:          req.BidPrice,
		BidMessage:        req.BidMessage,
	})
	if err != nil {
		httperr.Respond(c, err, bidMessages)
		return
	}

	httpresp.Created(c, gin.H{"bid": b})
}

// ======================================================
// NEGOTIATION
// ======================================================

func (h *BidHandler) CounterOffer(c *gin.Context) {
	bidID, ok := paramID(c, "bidId")
	if !ok {
		return
	}

	var req struct {
		CounterOfferPrice float64 `json:"counterOfferPrice"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		httperr.BadRequest(c, "invalid_request", "Invalid request body.")
		return
	}

	b, err := h.counterUC.Execute(c.Request.Context(), bidID, req.CounterOfferPrice)
	if err != nil {
		httperr.Respond(c, err, bidMessages)
		return
	}

	httpresp.OK(c, gin.H{"bid": b})
}

func (h *BidHandler) Accept(c *gin.Context) {
	bidID, ok := paramID(c, "bidId")
	if !ok {
		return
	}

	b, o, err := h.acceptUC.Execute(c.Request.Context(), bidID)
	if err != nil {
		httperr.Respond(c, err, bidMessages)
		return
	}

	httpresp.OK(c, gin.H{"bid": b, "order": o})
}

func (h *BidHandler) Reject(c *gin.Context) {
	bidID, ok := paramID(c, "bidId")
	if !ok {
		return
	}

	b, err := h.rejectUC.Execute(c.Request.Context(), bidID)
	if err != nil {
		httperr.Respond(c, err, bidMessages)
		return
	}

	httpresp.OK(c, gin.H{"bid": b})
}

// ======================================================
// LISTINGS
// ======================================================

func (h *BidHandler) ListByOrder(c *gin.Context) {
	orderID, ok := paramID(c, "orderId")
	if !ok {
		return
	}

	bids, err := h.repo.ListBidsByOrder(c.Request.Context(), orderID)
	if err != nil {
		httperr.Internal(c, "failed_to_list_bids", "Could not list bids.")
		return
	}

	httpresp.List(c, bids)
}

func (h *BidHandler) ListByProvider(c *gin.Context) {
	providerID, ok := paramID(c, "providerId")
	if !ok {
		return
	}

	bids, err := h.repo.ListBidsByProvider(c.Request.Context(), providerID)
	if err != nil {
		httperr.Internal(c, "failed_to_list_bids", "Could not list bids.")
		return
	}

	httpresp.List(c, bids)
}

func (h *BidHandler) ListCounterOffers(c *gin.Context) {
	providerID, ok := paramID(c, "providerId")
	if !ok {
		return
	}

	bids, err := h.repo.ListCounterOffersByProvider(c.Request.Context(), providerID)
	if err != nil {
		httperr.Internal(c, "failed_to_list_bids", "Could not list counter offers.")
		return
	}

	httpresp.List(c, bids)
}
