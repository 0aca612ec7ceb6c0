package main

import (
	"context"
	"log"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/gofiber/websocket/v2"
	"github.com/joho/godotenv"

	"github.com/aldikurniawan/workhive_be/internal/config"
	"github.com/aldikurniawan/workhive_be/internal/db"
	"github.com/aldikurniawan/workhive_be/internal/handlers"
	"github.com/aldikurniawan/workhive_be/internal/middleware"
	"github.com/aldikurniawan/workhive_be/internal/models"
	"github.com/aldikurniawan/workhive_be/internal/realtime"
	"github.com/aldikurniawan/workhive_be/internal/services/contract"
	"github.com/aldikurniawan/workhive_be/internal/services/earnings"
	"github.com/aldikurniawan/workhive_be/internal/services/gateway"
	"github.com/aldikurniawan/workhive_be/internal/services/milestone"
	"github.com/aldikurniawan/workhive_be/internal/services/payment"
	"github.com/aldikurniawan/workhive_be/internal/services/proposal"
	"github.com/aldikurniawan/workhive_be/internal/services/review"
)

func main() {
	_ = godotenv.Load()

	cfg := config.Load()
	gdb, err := db.Connect(cfg.DBDSN)
	if err != nil {
		log.Fatal(err)
	}

	if err := gdb.AutoMigrate(
		&models.User{},
		&models.FreelancerProfile{},
		&models.Project{},
		&models.Proposal{},
		&models.Contract{},
		&models.Milestone{},
		&models.PaymentRequest{},
		&models.Transaction{},
		&models.ReviewOpportunity{},
		&models.Review{},
		&models.EarningEntry{},
	); err != nil {
		log.Fatal(err)
	}
	if err := db.Migrate(gdb); err != nil {
		log.Fatal(err)
	}

	rdb := realtime.NewRedis(cfg.RedisAddr, cfg.RedisPassword)
	if err := rdb.Ping(context.Background()).Err(); err != nil {
		log.Println("Redis unavailable, lifecycle events stay in-process:", err)
		rdb = nil
	}

	hub := realtime.NewHub()
	go hub.Run()
	notifier := realtime.NewNotifier(hub, rdb)

	gw := gateway.NewService(cfg.GatewayAPIKey, cfg.GatewayPrivKey, cfg.GatewayMerchant, cfg.GatewayBaseURL)

	earnSvc := earnings.NewService(gdb)
	reviewSvc := review.NewService(gdb)
	proposalSvc := proposal.NewService(gdb)
	contractSvc := contract.NewService(gdb, earnSvc, reviewSvc)
	milestoneSvc := milestone.NewService(gdb)
	paymentSvc := payment.NewService(gdb, gw, earnSvc)

	authH := &handlers.AuthHandler{DB: gdb, JWTSecret: cfg.JWTSecret, Expires: cfg.JWTExpiresMin}
	googleH := &handlers.GoogleOAuthHandler{
		DB:              gdb,
		JWTSecret:       cfg.JWTSecret,
		Expires:         cfg.JWTExpiresMin,
		GoogleClientID:  cfg.GoogleClientID,
		GoogleSecret:    cfg.GoogleSecret,
		GoogleRedirect:  cfg.GoogleRedirect,
		FrontendBaseURL: cfg.FrontendBaseURL,
	}
	projectH := handlers.NewProjectHandler(gdb)
	proposalH := handlers.NewProposalHandler(proposalSvc, notifier)
	contractH := handlers.NewContractHandler(contractSvc, notifier)
	milestoneH := handlers.NewMilestoneHandler(milestoneSvc, notifier)
	paymentH := handlers.NewPaymentHandler(paymentSvc, notifier)
	reviewH := handlers.NewReviewHandler(reviewSvc)
	dashboardH := handlers.NewDashboardHandler(earnSvc)
	wsH := handlers.NewWSHandler(hub)

	app := fiber.New()

	app.Use(cors.New(cors.Config{
		AllowOrigins:     cfg.FrontendBaseURL,
		AllowMethods:     "GET,POST,PUT,PATCH,DELETE,OPTIONS",
		AllowHeaders:     "Origin, Content-Type, Accept, Authorization",
		ExposeHeaders:    "Content-Length",
		AllowCredentials: true,
	}))

	api := app.Group("/api")

	// public
	api.Post("/auth/register", authH.Register)
	api.Post("/auth/login", authH.Login)
	api.Post("/auth/logout", authH.Logout)
	api.Get("/auth/google/start", googleH.GoogleStart)
	api.Get("/auth/google/callback", googleH.GoogleCallback)
	api.Get("/projects", projectH.ListOpen)
	api.Get("/projects/:id", projectH.Get)

	// protected (JWT from cookie)
	protected := api.Group("/",
		middleware.JWTFromCookie(cfg.JWTSecret),
		middleware.AttachJWTLocals(),
	)

	protected.Get("/me", func(c *fiber.Ctx) error {
		uid := c.Locals("userId")
		var user models.User
		if err := gdb.First(&user, "id = ?", uid).Error; err != nil {
			return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{
				"success": false,
				"message": "User not found",
			})
		}
		return c.JSON(fiber.Map{
			"success": true,
			"data": fiber.Map{
				"id":    user.ID,
				"name":  user.Name,
				"email": user.Email,
				"role":  user.Role,
			},
		})
	})

	// projects
	protected.Post("/projects",
		middleware.RequireRoles("client"),
		projectH.Create,
	)
	protected.Get("/client/projects",
		middleware.RequireRoles("client"),
		projectH.ListMine,
	)

	// proposals
	protected.Post("/projects/:id/proposals",
		middleware.RequireRoles("freelancer"),
		proposalH.Submit,
	)
	protected.Get("/projects/:id/proposals",
		middleware.RequireRoles("client"),
		proposalH.ListForProject,
	)
	protected.Get("/proposals/:id", proposalH.Get)
	protected.Patch("/proposals/:id/accept",
		middleware.RequireRoles("client"),
		proposalH.Accept,
	)
	protected.Patch("/proposals/:id/reject",
		middleware.RequireRoles("client"),
		proposalH.Reject,
	)
	protected.Patch("/proposals/:id/withdraw",
		middleware.RequireRoles("freelancer"),
		proposalH.Withdraw,
	)
	protected.Post("/proposals/:id/contract",
		middleware.RequireRoles("client"),
		proposalH.CreateContract,
	)

	// contracts
	protected.Get("/contracts", contractH.ListMine)
	protected.Get("/contracts/:id", contractH.Get)
	protected.Patch("/contracts/:id/accept",
		middleware.RequireRoles("freelancer"),
		contractH.Accept,
	)
	protected.Patch("/contracts/:id/reject",
		middleware.RequireRoles("freelancer"),
		contractH.Reject,
	)
	protected.Patch("/contracts/:id/complete",
		middleware.RequireRoles("client"),
		contractH.Complete,
	)
	protected.Patch("/admin/contracts/:id/dispute",
		middleware.RequireRoles("admin"),
		contractH.Dispute,
	)

	// milestones
	protected.Post("/contracts/:id/milestones",
		middleware.RequireRoles("client"),
		milestoneH.Create,
	)
	protected.Get("/contracts/:id/milestones", milestoneH.ListByContract)
	protected.Put("/milestones/:id",
		middleware.RequireRoles("client"),
		milestoneH.Update,
	)
	protected.Patch("/milestones/:id/start",
		middleware.RequireRoles("freelancer"),
		milestoneH.Start,
	)
	protected.Patch("/milestones/:id/complete",
		middleware.RequireRoles("freelancer"),
		milestoneH.Complete,
	)

	// payments
	protected.Post("/milestones/:id/payment-requests",
		middleware.RequireRoles("freelancer"),
		paymentH.CreateRequest,
	)
	protected.Get("/contracts/:id/payment-requests", paymentH.ListByContract)
	protected.Patch("/payment-requests/:id/approve",
		middleware.RequireRoles("client"),
		paymentH.Approve,
	)
	protected.Patch("/payment-requests/:id/reject",
		middleware.RequireRoles("client"),
		paymentH.Reject,
	)
	protected.Post("/payment-requests/:id/pay",
		middleware.RequireRoles("client"),
		paymentH.Pay,
	)

	// reviews
	protected.Post("/contracts/:id/reviews", reviewH.Submit)
	protected.Get("/reviews/opportunities", reviewH.ListMyOpportunities)

	// freelancer dashboard
	protected.Get("/freelancer/dashboard",
		middleware.RequireRoles("freelancer"),
		dashboardH.Summary,
	)

	// WebSocket endpoint, authenticated via query param
	app.Get("/ws/lifecycle", websocket.New(wsH.LifecycleSocket))

	log.Fatal(app.Listen(":" + cfg.AppPort))
}
