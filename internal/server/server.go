package server

import (
	"context"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/jmoiron/sqlx"
	"github.com/redis/go-redis/v9"

	"gymdesk/internal/approval"
	"gymdesk/internal/audit"
	"gymdesk/internal/auth"
	"gymdesk/internal/billing"
	"gymdesk/internal/booking"
	"gymdesk/internal/config"
	"gymdesk/internal/entitlement"
	"gymdesk/internal/schedule"
)

type Server struct {
	router *gin.Engine
	db     *sqlx.DB
	config *config.Config
	http   *http.Server
}

func New(database *sqlx.DB, redisClient *redis.Client, cfg *config.Config) *Server {
	router := gin.New()
	router.Use(gin.Recovery())
	router.Use(corsMiddleware())
	router.Use(RequestLoggingMiddleware())
	router.Use(MetricsMiddleware())
	router.Use(RateLimitMiddleware(cfg.RateLimitRPS, cfg.RateLimitBurst))

	scope := auth.StrictScope()

	auditRepo := audit.NewRepository(database)
	recorder := audit.NewRecorder(auditRepo, audit.NewFeed(redisClient))

	scheduleRepo := schedule.NewRepository(database)
	bookingRepo := booking.NewRepository(database)
	entitlementRepo := entitlement.NewRepository(database)
	billingRepo := billing.NewRepository(database)
	approvalRepo := approval.NewRepository(database)

	lockWindow := time.Duration(cfg.BookingLockMinutes) * time.Minute

	scheduleHandler := schedule.NewHandler(schedule.NewService(scheduleRepo, recorder))
	bookingHandler := booking.NewHandler(booking.NewService(bookingRepo, scheduleRepo, recorder, scope, lockWindow))
	entitlementHandler := entitlement.NewHandler(entitlement.NewService(entitlementRepo, recorder))
	billingHandler := billing.NewHandler(billing.NewService(billingRepo, recorder, scope))
	approvalHandler := approval.NewHandler(approval.NewService(approvalRepo, recorder))
	auditHandler := audit.NewHandler(auditRepo)

	router.GET("/health", Health)
	router.GET("/metrics", Metrics())

	authMiddleware := auth.Middleware(cfg.JWTSecret)

	protected := router.Group("/")
	protected.Use(authMiddleware)
	{
		protected.POST("/bookings", bookingHandler.Create)
		protected.GET("/my/bookings", bookingHandler.ListMy)
		protected.POST("/my/bookings/:bookingID/modify", bookingHandler.MemberModify)
		protected.GET("/my/passes", entitlementHandler.ListMyPasses)
		protected.GET("/my/subscriptions", entitlementHandler.ListMySubscriptions)
		protected.GET("/coaches/:coachID/slots", scheduleHandler.ListByCoach)
	}

	staff := router.Group("/")
	staff.Use(authMiddleware, auth.RequireRole(auth.RoleCoach, auth.RoleFrontdesk, auth.RoleManager, auth.RoleAdmin))
	{
		staff.GET("/bookings", bookingHandler.ListByDay)
		staff.PATCH("/bookings/:bookingID/status", bookingHandler.UpdateStatus)
	}

	frontdesk := router.Group("/")
	frontdesk.Use(authMiddleware, auth.RequireRole(auth.RoleFrontdesk, auth.RoleManager, auth.RoleAdmin))
	{
		frontdesk.POST("/redemptions", entitlementHandler.Redeem)
		frontdesk.POST("/approvals", approvalHandler.Create)
	}

	admin := router.Group("/admin")
	admin.Use(authMiddleware, auth.RequireRole(auth.RoleManager, auth.RoleAdmin))
	{
		admin.POST("/slots", scheduleHandler.CreateSlot)
		admin.POST("/slots/:slotID/cancel", scheduleHandler.CancelSlot)
		admin.GET("/approvals", approvalHandler.List)
		admin.POST("/approvals/:requestID/decide", approvalHandler.Decide)
		admin.POST("/orders/:orderID/void", billingHandler.VoidOrder)
		admin.POST("/payments/:paymentID/refund", billingHandler.RefundPayment)
		admin.GET("/audit", auditHandler.List)
	}

	return &Server{
		router: router,
		db:     database,
		config: cfg,
	}
}

func (s *Server) Start(port string) error {
	s.http = &http.Server{
		Addr:    ":" + port,
		Handler: s.router,
	}
	return s.http.ListenAndServe()
}

func (s *Server) Shutdown(ctx context.Context) error {
	if s.http == nil {
		return nil
	}
	return s.http.Shutdown(ctx)
}

func (s *Server) Router() *gin.Engine {
	return s.router
}

func corsMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Writer.Header().Set("Access-Control-Allow-Origin", "*")
		c.Writer.Header().Set("Access-Control-Allow-Credentials", "true")
		c.Writer.Header().Set("Access-Control-Allow-Headers", "Content-Type, Content-Length, Accept-Encoding, X-CSRF-Token, Authorization, accept, origin, Cache-Control, X-Requested-With")
		c.Writer.Header().Set("Access-Control-Allow-Methods", "POST, OPTIONS, GET, PUT, DELETE, PATCH")
		if c.Request.Method == "OPTIONS" {
			c.AbortWithStatus(204)
			return
		}
		c.Next()
	}
}
