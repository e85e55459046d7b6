package router

import (
	"log"
	"time"

	"github.com/devarko/thunderstorm/backend/internal/cache"
	"github.com/devarko/thunderstorm/backend/internal/handlers"
	"github.com/devarko/thunderstorm/backend/internal/middleware"
	"github.com/devarko/thunderstorm/backend/internal/models"
	"github.com/devarko/thunderstorm/backend/internal/repositories"
	"github.com/devarko/thunderstorm/backend/internal/services"
	"github.com/devarko/thunderstorm/backend/internal/token"
	"github.com/labstack/echo/v4"
	eMiddleware "github.com/labstack/echo/v4/middleware"
	"github.com/redis/go-redis/v9"
	"go.mongodb.org/mongo-driver/mongo"
	"gorm.io/gorm"
)

// SetupMiddleware configures global Echo middleware
func SetupMiddleware(e *echo.Echo) {
	e.Use(eMiddleware.Logger())
	e.Use(eMiddleware.Recover())
	e.Use(eMiddleware.CORS())
	log.Println("Global middleware configured.")
}

// Deps carries everything SetupRoutes wires into handlers.
type Deps struct {
	MongoDB  *mongo.Database
	AuditDB  *gorm.DB
	Redis    *redis.Client
	Tokens   *token.Service
	CacheTTL time.Duration

	ReconcileInterval time.Duration
	ReconcileGrace    time.Duration
}

// SetupRoutes configures all application routes, injects dependencies and
// returns the graph reconciler for the caller to start.
func SetupRoutes(e *echo.Echo, deps Deps) (*services.Reconciler, error) {
	// AutoMigrate the relational journal model
	if err := deps.AuditDB.AutoMigrate(&models.GraphAudit{}); err != nil {
		return nil, err
	}
	log.Println("Audit journal migrations completed.")

	// Health check - always accessible
	e.GET("/health", handlers.HealthCheck)
	e.GET("/", func(c echo.Context) error {
		return c.JSON(200, map[string]string{"message": "The lightning has struck"})
	})

	// --- Initialize repositories ---
	userRepo := repositories.NewMongoUserRepository(deps.MongoDB)
	postRepo := repositories.NewMongoPostRepository(deps.MongoDB)
	auditRepo := repositories.NewGormAuditRepository(deps.AuditDB)

	var graphCache *cache.GraphCache
	if deps.Redis != nil {
		graphCache = cache.NewGraphCache(deps.Redis, deps.CacheTTL)
		log.Println("Follower listing cache enabled.")
	}

	// --- Initialize services ---
	accountService := services.NewAccountService(userRepo, deps.Tokens)
	graphService := services.NewGraphService(userRepo, postRepo, auditRepo, graphCache)
	postService := services.NewPostService(postRepo, userRepo)

	// --- Unprotected routes ---
	authHandler := handlers.NewAuthHandler(accountService)
	authHandler.RegisterAuthRoutes(e.Group("/api/v1/users"))
	log.Println("Auth routes configured.")

	userHandler := handlers.NewUserHandler(accountService, graphService)
	userHandler.RegisterPublicRoutes(e.Group("/api/v1/users"))

	postHandler := handlers.NewPostHandler(postService, graphService)
	postHandler.RegisterPublicRoutes(e.Group("/api/v1/posts"))
	log.Println("Public listing routes configured.")

	// --- Protected routes (require JWT authentication) ---
	usersGroup := e.Group("/api/v1/users")
	usersGroup.Use(middleware.JWTAuthMiddleware(deps.Tokens))
	userHandler.RegisterProtectedRoutes(usersGroup)
	log.Println("User profile and graph routes configured.")

	postsGroup := e.Group("/api/v1/posts")
	postsGroup.Use(middleware.JWTAuthMiddleware(deps.Tokens))
	postHandler.RegisterProtectedRoutes(postsGroup)
	log.Println("Post routes configured.")

	adminGroup := e.Group("/api/v1")
	adminGroup.Use(middleware.JWTAuthMiddleware(deps.Tokens))
	auditHandler := handlers.NewGraphAuditHandler(graphService)
	auditHandler.RegisterRoutes(adminGroup)
	log.Println("Graph audit routes configured.")

	reconciler := services.NewReconciler(userRepo, auditRepo, deps.ReconcileInterval, deps.ReconcileGrace)
	log.Println("All routes configured.")
	return reconciler, nil
}
