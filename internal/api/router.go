package api

import (
	"fmt"
	"net/http"
	"strings"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/premuk420/Myslivec/internal/auth"
	"github.com/premuk420/Myslivec/internal/ground"
	groundHttp "github.com/premuk420/Myslivec/internal/ground/http"
	"github.com/premuk420/Myslivec/internal/groundinfo"
	groundInfoHttp "github.com/premuk420/Myslivec/internal/groundinfo/http"
	"github.com/premuk420/Myslivec/internal/mappoint"
	mapPointHttp "github.com/premuk420/Myslivec/internal/mappoint/http"
	"github.com/premuk420/Myslivec/internal/membership"
	membershipHttp "github.com/premuk420/Myslivec/internal/membership/http"
	"github.com/premuk420/Myslivec/internal/pkg/logger"
	"github.com/premuk420/Myslivec/internal/reservation"
	reservationHttp "github.com/premuk420/Myslivec/internal/reservation/http"
	"github.com/premuk420/Myslivec/internal/user"
	userHttp "github.com/premuk420/Myslivec/internal/user/http"
)

// Config holds the services and settings the router is assembled from.
type Config struct {
	IsProduction       bool
	ProdOrigins        string
	Logger             *zap.Logger
	UserService        user.Service
	GroundService      ground.Service
	MembershipService  membership.Service
	MapPointService    mappoint.Service
	ReservationService reservation.Service
	GroundInfoService  groundinfo.Service
	JWTManager         *auth.JWTManager
}

// NewRouter initializes the HTTP router engine.
// It is responsible for assembling middleware (CORS, Logger, Auth) and registering routes for various modules.
func NewRouter(cfg Config) (*gin.Engine, error) {
	if err := RegisterValidators(); err != nil {
		return nil, err
	}

	r := gin.New()

	// Global Middleware:
	// - Logger: Logs one structured line per request.
	// - Recovery: Captures panics to prevent server crashes and returns a 500 error.
	r.Use(logger.Middleware(cfg.Logger, auth.UserIDKey), gin.Recovery())

	// Configure CORS (Cross-Origin Resource Sharing).
	config := cors.DefaultConfig()
	if cfg.IsProduction {
		config.AllowOrigins = splitOrigins(cfg.ProdOrigins)
		if len(config.AllowOrigins) == 0 {
			return nil, fmt.Errorf("PROD_ORIGINS is required in production")
		}
	} else {
		config.AllowOrigins = []string{
			"http://localhost:5173", // Vite dev server
			"http://localhost:8081", // Swagger
		}
	}
	config.AllowMethods = []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"}
	config.AllowHeaders = []string{"Origin", "Content-Type", "Authorization"}
	r.Use(cors.New(config))

	r.GET("/healthz", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})

	// authMiddleware: Validates the JWT and that its user is still active.
	authMiddleware := auth.AuthRequired(cfg.JWTManager, RequireActiveUser(cfg.UserService))

	// Initialize HTTP Handlers for each module (injecting Service dependencies).
	userHandler := userHttp.NewHandler(cfg.UserService, cfg.JWTManager)
	groundHandler := groundHttp.NewHandler(cfg.GroundService)
	groundInfoHandler := groundInfoHttp.NewHandler(cfg.GroundInfoService)
	membershipHandler := membershipHttp.NewHandler(cfg.MembershipService, cfg.UserService)
	mapPointHandler := mapPointHttp.NewHandler(cfg.MapPointService)
	reservationHandler := reservationHttp.NewHandler(cfg.ReservationService, cfg.UserService)

	// Register API routes under /v1
	v1 := r.Group("/v1")
	{
		userHttp.RegisterRoutes(v1, userHandler, authMiddleware)
		groundHttp.RegisterRoutes(v1, groundHandler, authMiddleware)
		groundInfoHttp.RegisterRoutes(v1, groundInfoHandler, authMiddleware)
		membershipHttp.RegisterRoutes(v1, membershipHandler, authMiddleware)
		mapPointHttp.RegisterRoutes(v1, mapPointHandler, authMiddleware)
		reservationHttp.RegisterRoutes(v1, reservationHandler, authMiddleware)
	}

	return r, nil
}

func splitOrigins(s string) []string {
	var out []string
	for _, o := range strings.Split(s, ",") {
		if o = strings.TrimSpace(o); o != "" {
			out = append(out, o)
		}
	}
	return out
}
