package handlers

import (
	"github.com/gin-gonic/gin"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"

	"clinicbook/api/internal/config"
	"clinicbook/api/internal/middleware"
	"clinicbook/api/internal/models"
	"clinicbook/api/internal/repository"
	"clinicbook/api/internal/service"
)

type HandlerSet struct {
	log       zerolog.Logger
	cfg       *config.AppConfig
	auth      *service.AuthService
	directory *service.DirectoryService
	booking   *service.BookingService
	limiter   *middleware.RateLimiter
	db        *pgxpool.Pool
	cache     *redis.Client
}

func NewHandlerSet(log zerolog.Logger, db *pgxpool.Pool, cache *redis.Client, cfg *config.AppConfig) HandlerSet {
	userRepo := repository.NewUserRepository(db)
	appointmentRepo := repository.NewAppointmentRepository(db)
	sessionRepo := repository.NewSessionRepository(db)

	auth := service.NewAuthService(userRepo, sessionRepo, cfg.Session.TTL, log)
	directory := service.NewDirectoryService(userRepo, appointmentRepo, cache, log)
	booking := service.NewBookingService(userRepo, appointmentRepo, log)

	return HandlerSet{
		log:       log,
		cfg:       cfg,
		auth:      auth,
		directory: directory,
		booking:   booking,
		limiter:   middleware.NewRateLimiter(cfg.RateLimit.RPS, cfg.RateLimit.Burst),
		db:        db,
		cache:     cache,
	}
}

// NewWithServices wires a HandlerSet from preconstructed services. Used by
// tests running against in-memory stores.
func NewWithServices(
	log zerolog.Logger,
	cfg *config.AppConfig,
	auth *service.AuthService,
	directory *service.DirectoryService,
	booking *service.BookingService,
) HandlerSet {
	return HandlerSet{
		log:       log,
		cfg:       cfg,
		auth:      auth,
		directory: directory,
		booking:   booking,
		limiter:   middleware.NewRateLimiter(cfg.RateLimit.RPS, cfg.RateLimit.Burst),
	}
}

func (h HandlerSet) Register(router *gin.RouterGroup) {
	router.GET("/healthz", h.Health)

	limited := middleware.RateLimit(h.limiter)
	authed := middleware.Auth(h.auth, h.cfg.Session.CookieName)
	adminOnly := middleware.RequireRoles(models.RoleAdmin)
	patientOnly := middleware.RequireRoles(models.RolePatient)
	doctorOnly := middleware.RequireRoles(models.RoleDoctor)

	router.POST("/login", limited, h.Login)
	router.POST("/logout", h.Logout)
	router.POST("/register", limited, h.RegisterPatient)

	router.GET("/doctors", h.ListDoctors)
	router.GET("/doctors/specialization/:specialization", h.ListDoctorsBySpecialization)
	router.GET("/specializations", h.ListSpecializations)
	router.POST("/doctors", authed, adminOnly, h.CreateDoctor)
	router.PUT("/doctors/:id", authed, adminOnly, h.UpdateDoctor)
	router.DELETE("/doctors/:id", authed, adminOnly, h.DeleteDoctor)

	router.GET("/users", authed, adminOnly, h.ListUsers)

	router.GET("/appointments/available/:doctorId/:date", h.AvailableSlots)
	router.POST("/appointments", authed, patientOnly, h.CreateAppointment)
	router.GET("/appointments/me", authed, patientOnly, h.MyAppointments)
	router.GET("/appointments/doctor/me", authed, doctorOnly, h.DoctorAppointments)
	router.GET("/appointments", authed, adminOnly, h.ListAppointments)
	router.PUT("/appointments/:id/status", authed, doctorOnly, h.UpdateAppointmentStatus)
}
