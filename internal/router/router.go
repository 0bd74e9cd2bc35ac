package router

import (
	"time"

	"github.com/GiacomoGuaresi/LiteERP/internal/config"
	"github.com/GiacomoGuaresi/LiteERP/internal/handler"
	"github.com/GiacomoGuaresi/LiteERP/internal/middleware"
	"github.com/GiacomoGuaresi/LiteERP/internal/repository"
	"github.com/GiacomoGuaresi/LiteERP/internal/service"
	"github.com/GiacomoGuaresi/LiteERP/internal/worker"

	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
	"gorm.io/gorm"
)

// New wires all dependencies and returns a configured Gin engine.
// Dependency graph: Handler ← Service ← Repository ← DB/Redis
func New(cfg *config.Config, db *gorm.DB, rdb *redis.Client) *gin.Engine {
	if cfg.Env == "production" {
		gin.SetMode(gin.ReleaseMode)
	}

	r := gin.New()

	// Global middleware chain (order matters)
	r.Use(middleware.RequestID())
	r.Use(middleware.Logger())
	r.Use(middleware.Recovery())
	r.Use(middleware.CORS())
	r.Use(middleware.ErrorHandler())
	r.Use(middleware.RateLimiter(1000, time.Minute)) // 1000 req/min per IP

	// ── Repositories ─────────────────────────────────────────────────────────
	inventoryRepo := repository.NewInventoryRepository(db)
	bomRepo := repository.NewBOMRepository(db)
	orderRepo := repository.NewOrderRepository(db)
	userRepo := repository.NewUserRepository(db)
	logRepo := repository.NewLogRepository(db)

	// Worker dispatcher — injected into services that enqueue async jobs
	dispatcher := worker.NewDispatcher(rdb)

	// ── Services ─────────────────────────────────────────────────────────────
	authSvc := service.NewAuthService(userRepo, cfg)
	logSvc := service.NewLogService(logRepo, dispatcher)
	orderSvc := service.NewOrderService(orderRepo, bomRepo, inventoryRepo, dispatcher)
	inventorySvc := service.NewInventoryService(inventoryRepo, orderRepo, orderSvc, dispatcher)
	bomSvc := service.NewBOMService(bomRepo, inventoryRepo)

	// ── Handlers ─────────────────────────────────────────────────────────────
	inventoryH := handler.NewInventoryHandler(inventorySvc, logSvc)
	bomH := handler.NewBOMHandler(bomSvc, logSvc)
	ordersH := handler.NewOrdersHandler(orderSvc, logSvc)
	usersH := handler.NewUsersHandler(authSvc)
	logsH := handler.NewLogsHandler(logSvc)

	// ── Routes ───────────────────────────────────────────────────────────────

	// Public
	r.GET("/health", handler.Health(db, rdb))
	r.POST("/users/login", middleware.LoginRateLimiter(), usersH.Login)
	r.POST("/users", usersH.Register)

	// Protected routes
	jwtMW := middleware.JWTAuth(cfg.JWTSecret)

	inv := r.Group("/inventory", jwtMW)
	{
		inv.POST("", inventoryH.Create)
		inv.GET("", inventoryH.List)
		inv.GET("/:id", inventoryH.Get)
		inv.PUT("/:id", inventoryH.Update)
		inv.DELETE("/:id", inventoryH.Delete)
		inv.POST("/:id/add", inventoryH.AddStock)
		inv.POST("/:id/remove", inventoryH.RemoveStock)
	}
	// Separate segment: gin cannot mix :id and :code wildcards at one level.
	r.POST("/inventory/code/:code/addbycode", jwtMW, inventoryH.AddStockByCode)

	bom := r.Group("/bom", jwtMW)
	{
		bom.POST("", bomH.Create)
		bom.GET("", bomH.List)
		bom.GET("/:id", bomH.Get)
		bom.GET("/:id/children", bomH.Children)
		bom.PUT("/:id", bomH.Update)
		bom.DELETE("/:id", bomH.Delete)
	}

	orders := r.Group("/orders", jwtMW)
	{
		orders.POST("", ordersH.Create)
		orders.GET("", ordersH.List)
		orders.GET("/:id", ordersH.Get)
		orders.GET("/:id/details", ordersH.ListDetails)
		orders.PATCH("/:id/status", ordersH.UpdateStatus)
		orders.DELETE("/:id", ordersH.Delete)
		orders.GET("/:id/cost", ordersH.Cost)
		orders.GET("/:id/pdf", ordersH.PickListPDF)
	}

	users := r.Group("/users", jwtMW)
	{
		users.GET("", usersH.List)
		users.GET("/:id", usersH.Get)
		users.PUT("/:id", usersH.Update)
		users.DELETE("/:id", usersH.Delete)
	}

	r.GET("/logs", jwtMW, logsH.List)

	// Swagger UI — only enabled outside production
	if cfg.Env != "production" {
		r.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))
	}

	return r
}
