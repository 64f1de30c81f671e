package main

import (
	"log"
	"os"
	"strconv"
	"time"

	"github.com/campusmeet/backend/internal/cache"
	"github.com/campusmeet/backend/internal/handlers"
	"github.com/campusmeet/backend/internal/middleware"
	"github.com/campusmeet/backend/internal/repository"
	"github.com/campusmeet/backend/internal/service"
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/gofiber/fiber/v2/middleware/limiter"
	"github.com/gofiber/fiber/v2/middleware/logger"
	"github.com/gofiber/fiber/v2/middleware/requestid"
	"github.com/joho/godotenv"
)

func main() {
	// Load environment variables
	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found, using system environment variables")
	}

	jwtSecret := os.Getenv("JWT_SECRET")
	if jwtSecret == "" {
		log.Fatal("JWT_SECRET is required")
	}

	// Initialize Fiber app
	app := fiber.New(fiber.Config{
		AppName: "CampusMeet Backend",
	})

	// Middleware
	app.Use(requestid.New())
	app.Use(logger.New())
	app.Use(cors.New(cors.Config{
		AllowOrigins:     os.Getenv("ALLOWED_ORIGINS"),
		AllowHeaders:     "Origin, Content-Type, Accept, Authorization, X-CM-CSRF",
		AllowMethods:     "GET, POST, PUT, DELETE, OPTIONS",
		AllowCredentials: true,
	}))

	// Initialize database connection
	db, err := repository.InitDB()
	if err != nil {
		log.Fatal("Failed to connect to database:", err)
	}

	// Initialize Redis cache
	redisAddr := os.Getenv("REDIS_ADDR")
	if redisAddr == "" {
		redisAddr = "localhost:6379"
	}
	redisPassword := os.Getenv("REDIS_PASSWORD")
	redisDB := 0
	if dbStr := os.Getenv("REDIS_DB"); dbStr != "" {
		if parsedDB, err := strconv.Atoi(dbStr); err == nil {
			redisDB = parsedDB
		}
	}

	redisCache := cache.NewRedisCache(redisAddr, redisPassword, redisDB)
	if err := redisCache.Ping(); err != nil {
		log.Printf("WARNING: Redis connection failed: %v. Running without cache.", err)
		redisCache = nil
	} else {
		log.Println("Redis cache connected successfully")
	}
	groupCache := cache.NewGroupCache(redisCache)

	// Initialize repositories
	store := repository.NewStore(db)
	userRepo := repository.NewUserRepository(db)
	postRepo := repository.NewPostRepository(db)
	groupRepo := repository.NewGroupRepository(db)
	membershipRepo := repository.NewMembershipRepository(db)
	requestRepo := repository.NewJoinRequestRepository(db)

	// Initialize services
	lockTimeout := service.DefaultLockTimeout
	if msStr := os.Getenv("GROUP_LOCK_TIMEOUT_MS"); msStr != "" {
		if ms, err := strconv.Atoi(msStr); err == nil && ms > 0 {
			lockTimeout = time.Duration(ms) * time.Millisecond
		}
	}
	admissionService := service.NewAdmissionService(store, requestRepo, groupCache, lockTimeout)
	groupService := service.NewGroupService(store, groupRepo, membershipRepo, postRepo, admissionService, groupCache)
	requestService := service.NewJoinRequestService(requestRepo, userRepo, admissionService)

	// Initialize handlers
	groupHandler := handlers.NewGroupHandler(groupService)
	requestHandler := handlers.NewJoinRequestHandler(requestService, admissionService)

	api := app.Group("/api", middleware.OriginAllowed())

	// Protected routes
	protected := api.Group("/", middleware.AuthRequired(), middleware.CSRFRequired())

	// Group routes
	protected.Post("/groups", groupHandler.CreateGroup)
	protected.Get("/groups/mine", groupHandler.GetMyGroups)
	protected.Get("/groups/led", groupHandler.GetMyLedGroups)
	protected.Get("/groups/by-post/:post_id", groupHandler.GetGroupByPost)
	protected.Get("/groups/:id", groupHandler.GetGroup)
	protected.Get("/groups/:id/summary", groupHandler.GetSummary)
	protected.Get("/groups/:id/members", groupHandler.GetMembers)
	protected.Get("/groups/:id/leader", groupHandler.GetLeader)
	protected.Get("/groups/:id/me", groupHandler.GetMyRole)
	protected.Post("/groups/:id/leave", groupHandler.LeaveGroup)
	protected.Post("/groups/:id/kick", groupHandler.KickMember)
	protected.Post("/groups/:id/transfer", groupHandler.TransferLeadership)
	protected.Post("/groups/:id/close", groupHandler.CloseGroup)
	protected.Post("/groups/:id/reopen", groupHandler.ReopenGroup)
	protected.Delete("/groups/:id", groupHandler.DissolveGroup)

	// Join request routes; submission is rate limited per user
	protected.Post("/groups/:id/requests",
		limiter.New(limiter.Config{
			Max:        30,
			Expiration: time.Minute,
			KeyGenerator: func(c *fiber.Ctx) string {
				if uid, ok := c.Locals("userID").(uint); ok {
					return "submit:" + strconv.FormatUint(uint64(uid), 10)
				}
				return c.IP()
			},
		}),
		requestHandler.Submit,
	)
	protected.Get("/groups/:id/requests", requestHandler.GetGroupRequests)
	protected.Get("/requests/mine", requestHandler.GetMyRequests)
	protected.Get("/requests/inbox", requestHandler.GetInbox)
	protected.Delete("/requests/:id", requestHandler.Cancel)
	protected.Post("/requests/:id/approve", requestHandler.Approve)
	protected.Post("/requests/:id/reject", requestHandler.Reject)

	// Health check
	app.Get("/health", func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{
			"status":  "ok",
			"message": "CampusMeet backend is running",
		})
	})

	// Start server
	port := os.Getenv("PORT")
	if port == "" {
		port = "8080"
	}

	log.Printf("Server starting on port %s...", port)
	if err := app.Listen(":" + port); err != nil {
		log.Fatal("Failed to start server:", err)
	}
}
