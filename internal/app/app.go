package app

import (
	"context"
	"crypto/ecdsa"
	"fmt"
	"net/http"

	"github.com/haguru/wakenbake/config"
	"github.com/haguru/wakenbake/internal/auth"
	"github.com/haguru/wakenbake/internal/interfaces"
	"github.com/haguru/wakenbake/internal/middleware"
	mongoOrderRepo "github.com/haguru/wakenbake/internal/orderrepo/mongo"
	postgresOrderRepo "github.com/haguru/wakenbake/internal/orderrepo/postgres"
	"github.com/haguru/wakenbake/internal/orderservice"
	"github.com/haguru/wakenbake/internal/routes"
	"github.com/haguru/wakenbake/internal/server"
	"github.com/haguru/wakenbake/internal/session"
	mongoUserRepo "github.com/haguru/wakenbake/internal/userrepo/mongo"
	postgresUserRepo "github.com/haguru/wakenbake/internal/userrepo/postgres"
	"github.com/haguru/wakenbake/internal/userservice"
	"github.com/haguru/wakenbake/pkg/databases/mongo"
	"github.com/haguru/wakenbake/pkg/databases/postgres"
	"github.com/haguru/wakenbake/pkg/metrics"
	"github.com/haguru/wakenbake/pkg/zerolog"
	"go.opentelemetry.io/contrib/instrumentation/net/http/otelhttp"
	"golang.org/x/time/rate"

	structValidator "github.com/go-playground/validator/v10"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

const (
	defaultLoginRateLimit = 5
	defaultLoginBurst     = 10
)

// App represents the main application, containing server and configuration.
// It initializes with a config file, validates settings, and manages routes.
type App struct {
	Server     interfaces.Server
	Config     *config.ServiceConfig
	Sessions   *session.Manager
	logger     interfaces.Logger
	privateKey *ecdsa.PrivateKey
}

// NewApp creates and configures a new App instance.
func NewApp(configPath string) (*App, error) {
	cfg, err := config.ReadLocalConfig(configPath)
	if err != nil {
		return nil, err
	}

	app := &App{
		Config: cfg,
	}

	// Validate the configuration
	validator := structValidator.New()
	if err := validator.Struct(cfg); err != nil {
		// Validation failed, handle the error
		errors := err.(structValidator.ValidationErrors)
		return nil, fmt.Errorf("validation error: %s", errors)
	}

	app.logger = zerolog.NewZerologLogger(cfg.ServiceName)
	app.logger.SetLevel(cfg.LogLevel)

	// Initialize server, sessions, database, and metrics
	serverInstance := server.NewServer(cfg.Host, cfg.Port, app.logger)
	app.Server = serverInstance

	metricsInstance := app.initializeMetrics()

	if err := app.initializePrivateKey(); err != nil {
		return nil, fmt.Errorf("failed to initialize private key: %v", err)
	}

	sessionTTL := cfg.Session.TTL
	if sessionTTL <= 0 {
		sessionTTL = session.DefaultTTL
	}
	app.Sessions = session.NewManager(sessionTTL)

	dbClient, err := app.initializeDBClient()
	if err != nil {
		return nil, fmt.Errorf("failed to initialize database client: %v", err)
	}

	userRepo, err := app.initializeUserRepo(dbClient)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize user repository: %v", err)
	}

	orderRepo, err := app.initializeOrderRepo(dbClient)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize order repository: %v", err)
	}

	userService := userservice.NewUserService(userRepo, app.logger)
	orderService := orderservice.NewOrderService(orderRepo, app.logger)

	route := routes.NewRoute(metricsInstance, userService, orderService,
		app.Sessions, app.privateKey, sessionTTL, validator)

	metricsHandler := promhttp.HandlerFor(
		metricsInstance.GetRegistry(),
		promhttp.HandlerOpts{})

	tracedMetricsHandler := otelhttp.NewHandler(metricsHandler, routes.MetricsRouteAPI)

	err = app.Server.AddRoute(routes.MetricsRouteAPI, tracedMetricsHandler.ServeHTTP)
	if err != nil {
		return nil, fmt.Errorf("failed to add metrics route: %v", err)
	}

	rps := cfg.LoginRateLimit.RequestsPerSecond
	if rps <= 0 {
		rps = defaultLoginRateLimit
	}
	burst := cfg.LoginRateLimit.Burst
	if burst <= 0 {
		burst = defaultLoginBurst
	}
	loginLimiter := middleware.RateLimitMiddleware(
		rate.NewLimiter(rate.Limit(rps), burst),
		metricsInstance,
		routes.LoginRateLimitedTotal)

	sessionAuth := middleware.SessionAuthMiddleware(app.Sessions, &app.privateKey.PublicKey)

	openRoutes := map[string]http.HandlerFunc{
		routes.SignupRouteAPI: route.Signup,
		routes.LogoutRouteAPI: route.Logout,
	}
	for path, handler := range openRoutes {
		if err := app.Server.AddRoute(path, handler); err != nil {
			return nil, fmt.Errorf("failed to add %s route: %v", path, err)
		}
	}

	loginHandler := loginLimiter(http.HandlerFunc(route.Login))
	if err := app.Server.AddRoute(routes.LoginRouteAPI, loginHandler.ServeHTTP); err != nil {
		return nil, fmt.Errorf("failed to add %s route: %v", routes.LoginRouteAPI, err)
	}

	// Everything past the login page requires a live session on the home page.
	protectedRoutes := map[string]http.HandlerFunc{
		routes.MenuRouteAPI:     route.Menu,
		routes.CartRouteAPI:     route.Cart,
		routes.CartAddRouteAPI:  route.CartAdd,
		routes.CheckoutRouteAPI: route.Checkout,
		routes.OrdersRouteAPI:   route.Orders,
	}
	for path, handler := range protectedRoutes {
		wrapped := sessionAuth(handler)
		if err := app.Server.AddRoute(path, wrapped.ServeHTTP); err != nil {
			return nil, fmt.Errorf("failed to add %s route: %v", path, err)
		}
	}

	app.logger.Info("routes registered",
		"open", len(openRoutes)+1,
		"protected", len(protectedRoutes))

	return app, nil
}

func (app *App) Run() error {
	defer app.Sessions.Close()

	// start the server
	if err := app.Server.ListenAndServe(); err != nil {
		return fmt.Errorf("failed to start server: %v", err)
	}

	return nil
}

func (app *App) initializeMetrics() interfaces.Metrics {
	appMetrics := metrics.NewMetrics(app.Config.ServiceName)
	appMetrics.RegisterCounter(routes.SignupRequestsTotal, routes.SignupRequestsTotalHelp)
	appMetrics.RegisterCounter(routes.SignupSuccessTotal, routes.SignupSuccessTotalHelp)
	appMetrics.RegisterCounter(routes.SignupErrorsTotal, routes.SignupErrorsTotalHelp)
	appMetrics.RegisterHistogram(
		routes.SignupDurationSeconds,
		routes.SignupDurationSecondsHelp,
		routes.SignupDurationSecondsBuckets)

	appMetrics.RegisterCounter(routes.LoginRequestsTotal, routes.LoginRequestsTotalHelp)
	appMetrics.RegisterCounter(routes.LoginSuccessTotal, routes.LoginSuccessTotalHelp)
	appMetrics.RegisterCounter(routes.LoginFailedTotal, routes.LoginFailedTotalHelp)
	appMetrics.RegisterCounter(routes.LoginRateLimitedTotal, routes.LoginRateLimitedTotalHelp)
	appMetrics.RegisterHistogram(
		routes.LoginDurationSeconds,
		routes.LoginDurationSecondsHelp,
		routes.LoginDurationSecondsBuckets)

	appMetrics.RegisterCounter(routes.CartAddsTotal, routes.CartAddsTotalHelp)
	appMetrics.RegisterCounter(routes.OrdersPlacedTotal, routes.OrdersPlacedTotalHelp)
	appMetrics.RegisterCounter(routes.CheckoutRequestsTotal, routes.CheckoutRequestsTotalHelp)
	appMetrics.RegisterCounter(routes.CheckoutErrorsTotal, routes.CheckoutErrorsTotalHelp)
	appMetrics.RegisterHistogram(
		routes.CheckoutDurationSeconds,
		routes.CheckoutDurationSecondsHelp,
		routes.CheckoutDurationSecondsBuckets)

	return appMetrics
}

func (app *App) initializeDBClient() (interfaces.DBClient, error) {
	var dbClient interfaces.DBClient
	var err error

	switch app.Config.Database.Type {
	case "mongo":
		// Initialize MongoDB client
		dbClient, err = mongo.NewMongoDB(&app.Config.Database.MongoDB)
		if err != nil {
			return nil, fmt.Errorf("failed to initialize MongoDB client: %v", err)
		}

		// Ensure the MongoDB client is connected
		if err = dbClient.Connect(context.Background(), app.Config.Database.MongoDB.DSN); err != nil {
			return nil, fmt.Errorf("failed to connect to MongoDB: %v", err)
		}

	case "postgres":
		// Create PostgreSQL database client
		dbClient = postgres.NewPostgresDatabaseClient(&app.Config.Database.Postgres)

		if err = dbClient.Connect(context.Background(), app.Config.Database.Postgres.DSN); err != nil {
			return nil, fmt.Errorf("failed to connect to PostgreSQL: %v", err)
		}

	default:
		return nil, fmt.Errorf("unsupported database type: %s", app.Config.Database.Type)
	}

	return dbClient, nil
}

func (app *App) initializeUserRepo(dbClient interfaces.DBClient) (interfaces.UserRepository, error) {
	var userRepo interfaces.UserRepository
	var err error

	switch app.Config.Database.Type {
	case "mongo":
		// Initialize MongoDB repository
		userRepo, err = mongoUserRepo.NewMongoUserRepository(dbClient)
		if err != nil {
			return nil, fmt.Errorf("failed to initialize MongoDB repository: %v", err)
		}

	case "postgres":
		// Initialize PostgreSQL repository
		userRepo, err = postgresUserRepo.NewPostgresUserRepository(dbClient)
		if err != nil {
			return nil, fmt.Errorf("failed to initialize PostgreSQL repository: %v", err)
		}

	default:
		return nil, fmt.Errorf("unsupported database type: %s", app.Config.Database.Type)
	}

	// Ensure indices for MongoDB or PostgreSQL
	if err = userRepo.EnsureIndices(context.Background()); err != nil {
		return nil, fmt.Errorf("failed to ensure user indices: %v", err)
	}

	return userRepo, nil
}

func (app *App) initializeOrderRepo(dbClient interfaces.DBClient) (interfaces.OrderRepository, error) {
	var orderRepo interfaces.OrderRepository
	var err error

	switch app.Config.Database.Type {
	case "mongo":
		orderRepo, err = mongoOrderRepo.NewMongoOrderRepository(dbClient)
		if err != nil {
			return nil, fmt.Errorf("failed to initialize MongoDB repository: %v", err)
		}

	case "postgres":
		orderRepo, err = postgresOrderRepo.NewPostgresOrderRepository(dbClient)
		if err != nil {
			return nil, fmt.Errorf("failed to initialize PostgreSQL repository: %v", err)
		}

	default:
		return nil, fmt.Errorf("unsupported database type: %s", app.Config.Database.Type)
	}

	if err = orderRepo.EnsureIndices(context.Background()); err != nil {
		return nil, fmt.Errorf("failed to ensure order indices: %v", err)
	}

	return orderRepo, nil
}

func (app *App) initializePrivateKey() error {
	if app.Config.PrivateKeyPath == "" {
		return fmt.Errorf("private key path is not provided in the configuration")
	}

	privateKey, err := auth.LoadECDSAPrivateKey(app.Config.PrivateKeyPath)
	if err != nil {
		return fmt.Errorf("failed to load private key: %v", err)
	}

	app.privateKey = privateKey
	return nil
}
