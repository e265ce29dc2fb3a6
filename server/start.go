package server

import (
	"context"
	"net/http"
	"os"

	"route-planner/auth"
	cachepackage "route-planner/cache"
	"route-planner/config"
	"route-planner/database"
	"route-planner/handlers"

	"github.com/umakantv/go-utils/httpserver"
	"github.com/umakantv/go-utils/logger"
	"go.uber.org/zap"
)

// newCheckAuth builds the httpserver auth callback from the session token
// manager. Routes are registered with AuthType "none" because the handlers
// enforce auth themselves (the 401 bodies are localized), but any route that
// opts into AuthType "cookie" gets the same verification here.
func newCheckAuth(tokens *auth.TokenManager) func(r *http.Request) (bool, httpserver.RequestAuth) {
	return func(r *http.Request) (bool, httpserver.RequestAuth) {
		user, ok := tokens.UserFromRequest(r)
		if !ok {
			return false, httpserver.RequestAuth{}
		}
		return true, httpserver.RequestAuth{
			Type:   "cookie",
			Client: user.Email,
			Claims: map[string]interface{}{"user_id": user.UserID, "email": user.Email},
		}
	}
}

func StartServer() {
	// Initialize logger
	logger.Init(logger.LoggerConfig{
		CallerKey:  "file",
		TimeKey:    "timestamp",
		CallerSkip: 1,
	})

	logger.Info("Starting Route Planner Service...")

	cfg := config.Load()
	if cfg.JWTSecret == config.DefaultJWTSecret {
		logger.Info("JWT_SECRET not configured; using the development default. Set JWT_SECRET in production.")
	}
	if cfg.GoogleMapsAPIKey == "" {
		logger.Info("GOOGLE_MAPS_API_KEY not configured; route search is unavailable to clients of this deployment.")
	}

	// Initialize database
	dbConn := database.InitializeDatabase(cfg)
	defer dbConn.Close()

	// Initialize cache
	cache := cachepackage.InitializeCache(cfg)
	defer cache.Close()

	tokens := auth.NewTokenManager(cfg.JWTSecret, auth.SessionDuration)

	// Initialize handlers
	authHandler := handlers.NewAuthHandler(dbConn, tokens, cfg.IsProduction())
	favoritesHandler := handlers.NewFavoritesHandler(dbConn, cache, tokens)
	routesHandler := handlers.NewRoutesHandler(dbConn, cache)

	server := httpserver.New(cfg.ServerPort, newCheckAuth(tokens))

	// Register routes
	server.Register(httpserver.Route{
		Name:     "HealthCheck",
		Method:   "GET",
		Path:     "/health",
		AuthType: "none",
	}, httpserver.HandlerFunc(func(ctx context.Context, w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusOK)
		w.Write([]byte(`{"status": "healthy", "service": "route-planner"}`))
	}))

	server.Register(httpserver.Route{
		Name:     "Login",
		Method:   "POST",
		Path:     "/login",
		AuthType: "none",
	}, httpserver.HandlerFunc(authHandler.Login))

	server.Register(httpserver.Route{
		Name:     "Register",
		Method:   "POST",
		Path:     "/register",
		AuthType: "none",
	}, httpserver.HandlerFunc(authHandler.Register))

	server.Register(httpserver.Route{
		Name:     "Logout",
		Method:   "POST",
		Path:     "/logout",
		AuthType: "none",
	}, httpserver.HandlerFunc(authHandler.Logout))

	server.Register(httpserver.Route{
		Name:     "Me",
		Method:   "GET",
		Path:     "/me",
		AuthType: "none",
	}, httpserver.HandlerFunc(authHandler.Me))

	server.Register(httpserver.Route{
		Name:     "ListFavorites",
		Method:   "GET",
		Path:     "/favorites",
		AuthType: "none",
	}, httpserver.HandlerFunc(favoritesHandler.List))

	server.Register(httpserver.Route{
		Name:     "CreateFavorite",
		Method:   "POST",
		Path:     "/favorites",
		AuthType: "none",
	}, httpserver.HandlerFunc(favoritesHandler.Create))

	server.Register(httpserver.Route{
		Name:     "DeleteFavorite",
		Method:   "DELETE",
		Path:     "/favorites",
		AuthType: "none",
	}, httpserver.HandlerFunc(favoritesHandler.Delete))

	server.Register(httpserver.Route{
		Name:     "DeleteFavoriteByID",
		Method:   "DELETE",
		Path:     "/favorites/{id}",
		AuthType: "none",
	}, httpserver.HandlerFunc(favoritesHandler.Delete))

	server.Register(httpserver.Route{
		Name:     "ListRoutes",
		Method:   "GET",
		Path:     "/routes",
		AuthType: "none",
	}, httpserver.HandlerFunc(routesHandler.List))

	server.Register(httpserver.Route{
		Name:     "RecordRoute",
		Method:   "POST",
		Path:     "/routes",
		AuthType: "none",
	}, httpserver.HandlerFunc(routesHandler.Record))

	logger.Info("Route Planner Service started on port " + cfg.ServerPort)
	logger.Info("Health check: GET /health")
	logger.Info("API endpoints: /login /register /logout /me /favorites /routes")

	// Start server
	if err := server.Start(); err != nil {
		logger.Error("Server failed to start", zap.Error(err))
		os.Exit(1)
	}
}
