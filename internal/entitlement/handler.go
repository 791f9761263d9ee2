package entitlement

import (
	"net/http"

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

// Redeem godoc
// @Summary      Redeem a session
// @Description  Consumes one unit of a member's entitlement, optionally tied to a booking. At most one redemption per booking.
// @Tags         entitlements
// @Security     BearerAuth
// @Accept       json
// @Produce      json
// @Param        body  body      RedeemRequest  true  "Redemption"
// @Success      201   {object}  SessionRedemption
// @Failure      400   {object}  gin.H
// @Failure      402   {object}  gin.H
// @Failure      404   {object}  gin.H
// @Failure      409   {object}  gin.H
// @Router       /redemptions [post]
func (h *Handler) Redeem(c *gin.Context) {
	actor, ok := auth.GetActor(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "User not authenticated"})
		return
	}

	var req RedeemRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		api.BindError(c, err)
		return
	}

	redemption, err := h.service.Redeem(c.Request.Context(), actor, req)
	if err != nil {
		c.JSON(apperr.Status(err), gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusCreated, redemption)
}

// ListMyPasses godoc
// @Summary      List my entry passes
// @Tags         entitlements
// @Security     BearerAuth
// @Produce      json
// @Success      200  {array}   EntryPass
// @Failure      500  {object}  gin.H
// @Router       /my/passes [get]
func (h *Handler) ListMyPasses(c *gin.Context) {
	actor, ok := auth.GetActor(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "User not authenticated"})
		return
	}

	passes, err := h.service.ListMyPasses(c.Request.Context(), actor)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch passes"})
		return
	}

	c.JSON(http.StatusOK, passes)
}

// ListMySubscriptions godoc
// @Summary      List my subscriptions
// @Tags         entitlements
// @Security     BearerAuth
// @Produce      json
// @Success      200  {array}   Subscription
// @Failure      500  {object}  gin.H
// @Router       /my/subscriptions [get]
func (h *Handler) ListMySubscriptions(c *gin.Context) {
	actor, ok := auth.GetActor(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "User not authenticated"})
		return
	}

	subs, err := h.service.ListMySubscriptions(c.Request.Context(), actor)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch subscriptions"})
		return
	}

	c.JSON(http.StatusOK, subs)
}
