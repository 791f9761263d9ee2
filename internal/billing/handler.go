package billing

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"gymdesk/internal/api"
	"gymdesk/internal/apperr"
	"gymdesk/internal/auth"
)

type Handler struct {
	service Service
}

func NewHandler(service Service) *Handler {
	return &Handler{service: service}
}

// VoidOrder godoc
// @Summary      Void order
// @Description  Cancels an open or paid order. Manager only; branch-scoped.
// @Tags         billing
// @Security     BearerAuth
// @Accept       json
// @Produce      json
// @Param        orderID  path      int            true  "Order ID"
// @Param        body     body      ReasonRequest  true  "Reason"
// @Success      200      {object}  Order
// @Failure      403      {object}  gin.H
// @Failure      404      {object}  gin.H
// @Failure      409      {object}  gin.H
// @Router       /admin/orders/{orderID}/void [post]
func (h *Handler) VoidOrder(c *gin.Context) {
	actor, ok := auth.GetActor(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "User not authenticated"})
		return
	}

	orderID, err := strconv.Atoi(c.Param("orderID"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid order ID"})
		return
	}

	var req ReasonRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		api.BindError(c, err)
		return
	}

	order, err := h.service.VoidOrder(c.Request.Context(), actor, orderID, req.Reason)
	if err != nil {
		c.JSON(apperr.Status(err), gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusOK, order)
}

// RefundPayment godoc
// @Summary      Refund payment
// @Description  Refunds a paid payment and flips the linked order. Manager only.
// @Tags         billing
// @Security     BearerAuth
// @Accept       json
// @Produce      json
// @Param        paymentID  path      int            true  "Payment ID"
// @Param        body       body      ReasonRequest  true  "Reason"
// @Success      200        {object}  Payment
// @Failure      400        {object}  gin.H
// @Failure      404        {object}  gin.H
// @Failure      409        {object}  gin.H
// @Router       /admin/payments/{paymentID}/refund [post]
func (h *Handler) RefundPayment(c *gin.Context) {
	actor, ok := auth.GetActor(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "User not authenticated"})
		return
	}

	paymentID, err := strconv.Atoi(c.Param("paymentID"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid payment ID"})
		return
	}

	var req ReasonRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		api.BindError(c, err)
		return
	}

	payment, err := h.service.RefundPayment(c.Request.Context(), actor, paymentID, req.Reason)
	if err != nil {
		c.JSON(apperr.Status(err), gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusOK, payment)
}
