package schedule

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

// CreateSlot godoc
// @Summary      Create coach slot
// @Description  Creates an availability window for a coach. Manager only.
// @Tags         schedule
// @Security     BearerAuth
// @Accept       json
// @Produce      json
// @Param        body  body      CreateSlotRequest  true  "Slot window"
// @Success      201   {object}  CoachSlot
// @Failure      400   {object}  gin.H
// @Failure      500   {object}  gin.H
// @Router       /admin/slots [post]
func (h *Handler) CreateSlot(c *gin.Context) {
	actor, ok := auth.GetActor(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "User not authenticated"})
		return
	}

	var req CreateSlotRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		api.BindError(c, err)
		return
	}

	slot, err := h.service.CreateSlot(c.Request.Context(), actor, req)
	if err != nil {
		c.JSON(apperr.Status(err), gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusCreated, slot)
}

type cancelSlotRequest struct {
	Reason string `json:"reason" binding:"required"`
}

// CancelSlot godoc
// @Summary      Cancel coach slot
// @Description  Cancels an active slot. Rejected while upcoming bookings sit inside it. Manager only.
// @Tags         schedule
// @Security     BearerAuth
// @Accept       json
// @Produce      json
// @Param        slotID  path      int                true  "Slot ID"
// @Param        body    body      cancelSlotRequest  true  "Cancellation reason"
// @Success      200     {object}  gin.H
// @Failure      400     {object}  gin.H
// @Failure      404     {object}  gin.H
// @Failure      409     {object}  gin.H
// @Router       /admin/slots/{slotID}/cancel [post]
func (h *Handler) CancelSlot(c *gin.Context) {
	actor, ok := auth.GetActor(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "User not authenticated"})
		return
	}

	slotID, err := strconv.Atoi(c.Param("slotID"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid slot ID"})
		return
	}

	var req cancelSlotRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		api.BindError(c, err)
		return
	}

	if err := h.service.CancelSlot(c.Request.Context(), actor, slotID, req.Reason); err != nil {
		c.JSON(apperr.Status(err), gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Slot cancelled"})
}

// ListByCoach godoc
// @Summary      List coach slots
// @Tags         schedule
// @Security     BearerAuth
// @Produce      json
// @Param        coachID  path      int     true   "Coach ID"
// @Param        future   query     string  false  "Only future slots (true/false)"
// @Success      200      {array}   CoachSlot
// @Failure      400      {object}  gin.H
// @Router       /coaches/{coachID}/slots [get]
func (h *Handler) ListByCoach(c *gin.Context) {
	actor, ok := auth.GetActor(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "User not authenticated"})
		return
	}

	coachID, err := strconv.Atoi(c.Param("coachID"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid coach ID"})
		return
	}

	onlyFuture := c.DefaultQuery("future", "true") == "true"

	slots, err := h.service.ListByCoach(c.Request.Context(), actor, coachID, onlyFuture)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch slots"})
		return
	}

	c.JSON(http.StatusOK, slots)
}
