package booking

import (
	"net/http"
	"strconv"
	"time"

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
// @Summary      Create booking
// @Description  Creates a booking for a member, optionally against a coach slot. Members can only book themselves and only in the future.
// @Tags         bookings
// @Security     BearerAuth
// @Accept       json
// @Produce      json
// @Param        body  body      CreateBookingRequest  true  "Booking"
// @Success      201   {object}  Booking
// @Failure      400   {object}  gin.H
// @Failure      409   {object}  gin.H
// @Failure      422   {object}  gin.H
// @Router       /bookings [post]
func (h *Handler) Create(c *gin.Context) {
	actor, ok := auth.GetActor(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "User not authenticated"})
		return
	}

	var req CreateBookingRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		api.BindError(c, err)
		return
	}

	b, err := h.service.Create(c.Request.Context(), actor, req)
	if err != nil {
		c.JSON(apperr.Status(err), gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusCreated, b)
}

// UpdateStatus godoc
// @Summary      Update booking status
// @Description  Staff-side status transition. Coaches may only check in, complete or no-show their own bookings.
// @Tags         bookings
// @Security     BearerAuth
// @Accept       json
// @Produce      json
// @Param        bookingID  path      int                  true  "Booking ID"
// @Param        body       body      UpdateStatusRequest  true  "Next status and reason"
// @Success      200        {object}  Booking
// @Failure      400        {object}  gin.H
// @Failure      404        {object}  gin.H
// @Failure      422        {object}  gin.H
// @Router       /bookings/{bookingID}/status [patch]
func (h *Handler) UpdateStatus(c *gin.Context) {
	actor, ok := auth.GetActor(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "User not authenticated"})
		return
	}

	bookingID, err := strconv.Atoi(c.Param("bookingID"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid booking ID"})
		return
	}

	var req UpdateStatusRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		api.BindError(c, err)
		return
	}

	b, err := h.service.UpdateStatus(c.Request.Context(), actor, bookingID, req)
	if err != nil {
		c.JSON(apperr.Status(err), gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusOK, b)
}

// MemberModify godoc
// @Summary      Cancel or reschedule own booking
// @Description  Member-side change, allowed only outside the lock window before the booking starts.
// @Tags         bookings
// @Security     BearerAuth
// @Accept       json
// @Produce      json
// @Param        bookingID  path      int                  true  "Booking ID"
// @Param        body       body      MemberModifyRequest  true  "Action"
// @Success      200        {object}  Booking
// @Failure      400        {object}  gin.H
// @Failure      404        {object}  gin.H
// @Failure      423        {object}  gin.H
// @Router       /my/bookings/{bookingID}/modify [post]
func (h *Handler) MemberModify(c *gin.Context) {
	actor, ok := auth.GetActor(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "User not authenticated"})
		return
	}

	bookingID, err := strconv.Atoi(c.Param("bookingID"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid booking ID"})
		return
	}

	var req MemberModifyRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		api.BindError(c, err)
		return
	}

	b, err := h.service.MemberModify(c.Request.Context(), actor, bookingID, req)
	if err != nil {
		c.JSON(apperr.Status(err), gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusOK, b)
}

// ListMy godoc
// @Summary      List my bookings
// @Tags         bookings
// @Security     BearerAuth
// @Produce      json
// @Success      200  {array}   Booking
// @Failure      500  {object}  gin.H
// @Router       /my/bookings [get]
func (h *Handler) ListMy(c *gin.Context) {
	actor, ok := auth.GetActor(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "User not authenticated"})
		return
	}

	bookings, err := h.service.ListByMember(c.Request.Context(), actor)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch bookings"})
		return
	}

	c.JSON(http.StatusOK, bookings)
}

// ListByDay godoc
// @Summary      List branch bookings for a day
// @Description  Staff view of the actor's branch.
// @Tags         bookings
// @Security     BearerAuth
// @Produce      json
// @Param        date  query     string  false  "Day (YYYY-MM-DD, defaults to today)"
// @Success      200   {array}   Booking
// @Failure      400   {object}  gin.H
// @Router       /bookings [get]
func (h *Handler) ListByDay(c *gin.Context) {
	actor, ok := auth.GetActor(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "User not authenticated"})
		return
	}

	day := time.Now()
	if dateStr := c.Query("date"); dateStr != "" {
		parsed, err := time.Parse("2006-01-02", dateStr)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid date, use YYYY-MM-DD"})
			return
		}
		day = parsed
	}

	bookings, err := h.service.ListByBranchDay(c.Request.Context(), actor, day)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch bookings"})
		return
	}

	c.JSON(http.StatusOK, bookings)
}
