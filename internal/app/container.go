package app

import (
	"time"

	"github.com/gin-gonic/gin"
	"github.com/jackc/pgx/v5/pgxpool"
	"go.uber.org/zap"

	"github.com/premuk420/Myslivec/internal/access"
	"github.com/premuk420/Myslivec/internal/api"
	"github.com/premuk420/Myslivec/internal/auth"
	"github.com/premuk420/Myslivec/internal/geo"
	"github.com/premuk420/Myslivec/internal/ground"
	"github.com/premuk420/Myslivec/internal/groundinfo"
	"github.com/premuk420/Myslivec/internal/mappoint"
	"github.com/premuk420/Myslivec/internal/membership"
	"github.com/premuk420/Myslivec/internal/pkg/events"
	"github.com/premuk420/Myslivec/internal/pkg/lock"
	"github.com/premuk420/Myslivec/internal/reservation"
	"github.com/premuk420/Myslivec/internal/store"
	"github.com/premuk420/Myslivec/internal/user"
)

// Config holds the dependencies and settings required to start the application.
type Config struct {
	IsProduction bool
	ProdOrigins  string
	StoreDriver  string
	DBPool       *pgxpool.Pool
	JWTSecret    string
	JWTTTL       time.Duration
	PasswordCost int
	Timezone     *time.Location
	Logger       *zap.Logger

	// Optional. Nil values fall back to an in-process lock and no events.
	Locker    lock.Locker
	Publisher events.Publisher
	// Optional replacement of the random invite code generator.
	InviteCodes geo.CodeSource
}

// Container holds the initialized components that are needed externally.
type Container struct {
	Router     *gin.Engine
	JWTManager *auth.JWTManager
}

// NewContainer initializes all modules and returns the container.
func NewContainer(cfg Config) (*Container, error) {
	backend := store.Backend{Driver: cfg.StoreDriver, Pool: cfg.DBPool}
	if err := backend.Validate(); err != nil {
		return nil, err
	}

	log := cfg.Logger
	if log == nil {
		log = zap.NewNop()
	}
	locker := cfg.Locker
	if locker == nil {
		locker = lock.NewKeyedMutex()
	}
	publisher := cfg.Publisher
	if publisher == nil {
		publisher = events.Nop{}
	}
	tz := cfg.Timezone
	if tz == nil {
		tz = time.UTC
	}

	// Init Components
	passwordHasher := auth.NewBcryptPasswordHasher(cfg.PasswordCost)
	jwtManager := auth.NewJWTManager(cfg.JWTSecret, cfg.JWTTTL)

	// User Module
	userRepo := user.NewRepository(backend)
	userService := user.NewService(userRepo, passwordHasher, log.Named("user"))

	// Ground and Membership repositories back the access guard every module shares
	groundRepo := ground.NewRepository(backend)
	memberRepo := membership.NewRepository(backend)
	guard := access.NewGuard(groundRepo, memberRepo)

	// Membership Module
	memberService := membership.NewService(memberRepo, groundRepo, guard, publisher, log.Named("membership"))

	// Reservation Module; points are resolved from their repository
	pointRepo := mappoint.NewRepository(backend)
	reservationService := reservation.NewService(
		reservation.NewRepository(backend),
		mappoint.NewLookup(pointRepo),
		ground.NewViewIndex(groundRepo, memberService),
		guard,
		locker,
		publisher,
		log.Named("reservation"),
		reservation.WithLocation(tz),
	)

	// MapPoint Module; deleting a point takes its reservations along
	pointService := mappoint.NewService(pointRepo, guard, log.Named("mappoint"), mappoint.WithDependents(reservationService))

	// Ground Module; deleting a ground takes its reservations, points and members along
	groundOpts := []ground.Option{ground.WithDependents(reservationService, pointService, memberService)}
	if cfg.InviteCodes != nil {
		groundOpts = append(groundOpts, ground.WithCodeSource(cfg.InviteCodes))
	}
	groundService := ground.NewService(groundRepo, guard, memberService, log.Named("ground"), groundOpts...)

	// Overview Module
	infoService := groundinfo.NewService(groundinfo.Deps{
		Grounds:      groundService,
		Guard:        guard,
		Members:      memberService.CountActive,
		Points:       pointService.CountByGround,
		Reservations: reservationService,
	})

	// Router
	router, err := api.NewRouter(api.Config{
		IsProduction:       cfg.IsProduction,
		ProdOrigins:        cfg.ProdOrigins,
		Logger:             log.Named("http"),
		UserService:        userService,
		GroundService:      groundService,
		MembershipService:  memberService,
		MapPointService:    pointService,
		ReservationService: reservationService,
		GroundInfoService:  infoService,
		JWTManager:         jwtManager,
	})
	if err != nil {
		return nil, err
	}

	return &Container{
		Router:     router,
		JWTManager: jwtManager,
	}, nil
}
