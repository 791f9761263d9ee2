package approval

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

// Create godoc
// @Summary      Request a high-risk action
// @Description  Opens an approval ticket for an order void or payment refund. At most one pending ticket per target.
// @Tags         approvals
// @Security     BearerAuth
// @Accept       json
// @Produce      json
// @Param        body  body      CreateRequestInput  true  "Request"
// @Success      201   {object}  Request
// @Failure      400   {object}  gin.H
// @Failure      409   {object}  gin.H
// @Router       /approvals [post]
func (h *Handler) Create(c *gin.Context) {
	actor, ok := auth.GetActor(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "User not authenticated"})
		return
	}

	var input CreateRequestInput
	if err := c.ShouldBindJSON(&input); err != nil {
		api.BindError(c, err)
		return
	}

	req, err := h.service.CreateRequest(c.Request.Context(), actor, input)
	if err != nil {
		c.JSON(apperr.Status(err), gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusCreated, req)
}

// Decide godoc
// @Summary      Decide a high-risk request
// @Description  Approves or rejects a pending ticket. Approval executes the void/refund; if execution fails the ticket stays pending. Manager only.
// @Tags         approvals
// @Security     BearerAuth
// @Accept       json
// @Produce      json
// @Param        requestID  path      int                 true  "Request ID"
// @Param        body       body      DecideRequestInput  true  "Decision"
// @Success      200        {object}  Request
// @Failure      400        {object}  gin.H
// @Failure      404        {object}  gin.H
// @Failure      409        {object}  gin.H
// @Router       /admin/approvals/{requestID}/decide [post]
func (h *Handler) Decide(c *gin.Context) {
	actor, ok := auth.GetActor(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "User not authenticated"})
		return
	}

	requestID, err := strconv.Atoi(c.Param("requestID"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request ID"})
		return
	}

	var input DecideRequestInput
	if err := c.ShouldBindJSON(&input); err != nil {
		api.BindError(c, err)
		return
	}

	req, err := h.service.Decide(c.Request.Context(), actor, requestID, input)
	if err != nil {
		c.JSON(apperr.Status(err), gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusOK, req)
}

// List godoc
// @Summary      List high-risk requests
// @Description  Manager queue, filtered by status (default pending).
// @Tags         approvals
// @Security     BearerAuth
// @Produce      json
// @Param        status  query     string  false  "pending, approved or rejected"
// @Param        limit   query     int     false  "Page size"
// @Param        offset  query     int     false  "Page offset"
// @Success      200     {array}   Request
// @Failure      400     {object}  gin.H
// @Router       /admin/approvals [get]
func (h *Handler) List(c *gin.Context) {
	actor, ok := auth.GetActor(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "User not authenticated"})
		return
	}

	limit, _ := strconv.Atoi(c.DefaultQuery("limit", "50"))
	offset, _ := strconv.Atoi(c.DefaultQuery("offset", "0"))

	requests, err := h.service.ListByStatus(c.Request.Context(), actor, c.Query("status"), limit, offset)
	if err != nil {
		c.JSON(apperr.Status(err), gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusOK, requests)
}
