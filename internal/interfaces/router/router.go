package router

import (
	"net/http"

	authsvc "seedlink-backend/internal/application/auth"
	docsvc "seedlink-backend/internal/application/documents"
	emailsvc "seedlink-backend/internal/application/emails"
	ledgersvc "seedlink-backend/internal/application/ledger"
	startupsvc "seedlink-backend/internal/application/startups"
	updatesvc "seedlink-backend/internal/application/updates"
	usersvc "seedlink-backend/internal/application/user"
	"seedlink-backend/internal/config"
	"seedlink-backend/internal/infrastructure/database"
	authhandler "seedlink-backend/internal/interfaces/handlers/auth"
	dochandler "seedlink-backend/internal/interfaces/handlers/documents"
	healthhandler "seedlink-backend/internal/interfaces/handlers/health"
	investhandler "seedlink-backend/internal/interfaces/handlers/investments"
	startuphandler "seedlink-backend/internal/interfaces/handlers/startups"
	updatehandler "seedlink-backend/internal/interfaces/handlers/updates"
	userhandler "seedlink-backend/internal/interfaces/handlers/user"
	"seedlink-backend/internal/middleware"
	"seedlink-backend/internal/pkg/constants"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/adaptor"
	"github.com/redis/go-redis/v9"
	"gorm.io/gorm"
)

type gormDBPinger struct {
	db *gorm.DB
}

func (g *gormDBPinger) Ping() error {
	if g == nil || g.db == nil {
		return nil
	}
	sqlDB, err := g.db.DB()
	if err != nil {
		return err
	}
	return sqlDB.Ping()
}

func CreateApp(cfg *config.Config) (*fiber.App, *gorm.DB, *redis.Client, error) {
	app := fiber.New(fiber.Config{
		DisableStartupMessage:   true,
		ErrorHandler:            middleware.ErrorHandler,
		EnableTrustedProxyCheck: true,
	})

	app.Use(middleware.CORS(middleware.CORSConfig{
		AllowedSuffix: cfg.FrontendURLEndsWith,
		DevPassword:   cfg.DevPassword,
	}))

	sessionHandler, redisClient, err := middleware.Session(middleware.SessionConfig{
		Secret:            cfg.SessionSecret,
		RedisURL:          cfg.RedisURL,
		AllowCrossSiteDev: cfg.AllowCrossSiteDev,
		IsProduction:      cfg.Env == "production",
	})
	if err != nil {
		return nil, nil, nil, err
	}
	rdb := redisClient
	app.Use(sessionHandler)
	app.Use(middleware.HealthMarker(rdb))
	app.Use(middleware.ResponseFormatter())
	app.Use(middleware.Tracing())
	app.Use(middleware.RouteLogger())

	app.Use(func(c *fiber.Ctx) error {
		user := c.Locals("user")
		if user == nil {
			c.Locals("user", nil)
		}
		return c.Next()
	})

	hh := &healthhandler.Handlers{
		Rdb:            rdb,
		DB:             nil,
		HealthAdminKey: cfg.HealthAdminKey,
	}
	app.Get("/", hh.Dashboard)
	app.Get("/reset", hh.Reset)
	app.Get("/health/json", hh.JSON)
	app.Get("/health/errors", hh.Errors)

	var db *gorm.DB
	if cfg.DatabaseURL != "" {
		var errDB error
		db, errDB = database.Open(cfg.DatabaseURL)
		if errDB != nil {
			return nil, nil, nil, errDB
		}
		hh.DB = &gormDBPinger{db: db}
	}

	sessionCfg := middleware.SessionConfig{
		Secret:            cfg.SessionSecret,
		RedisURL:          cfg.RedisURL,
		AllowCrossSiteDev: cfg.AllowCrossSiteDev,
		IsProduction:      cfg.Env == "production",
	}

	var userFinder authsvc.UserFinder
	if db != nil {
		userFinder = &authsvc.GormUserFinder{DB: db}
	}
	ah := &authhandler.Handlers{
		UserFinder: userFinder,
		Rdb:        rdb,
		Config:     sessionCfg,
	}
	authGroup := app.Group("/api/v1/auth")
	authGroup.Post("/login", ah.Login)
	authGroup.Get("/me", ah.Me)
	authGroup.Delete("/logout", ah.Logout)

	if db != nil && rdb != nil {
		var emailSender emailsvc.Sender
		if cfg.SendinblueAPIKey != "" {
			emailSender = &emailsvc.BrevoClient{APIKey: cfg.SendinblueAPIKey, MailFrom: cfg.MailFrom}
		}

		// Users (registration is public)
		us := &usersvc.Service{DB: db, Rdb: rdb, EmailSender: emailSender}
		uh := &userhandler.Handlers{Service: us, Config: sessionCfg}
		app.Post("/api/v1/users/register", uh.Register)
		ug := app.Group("/api/v1/users", middleware.RequireAuth())
		ug.Put("/update-user", uh.UpdateUser)
		ug.Get("/view-user", uh.ViewUser)
		ug.Delete("/remove-user", middleware.AuthorizePermission(constants.RemoveUser), uh.RemoveUser)

		// Startups
		ss := &startupsvc.Service{DB: db}
		sh := &startuphandler.Handlers{Service: ss}
		sg := app.Group("/api/v1/startups", middleware.RequireAuth())
		sg.Post("/create-startup", middleware.AuthorizePermission(constants.ManageStartup), sh.CreateStartup)
		sg.Get("/get-all-startups", sh.GetAll)
		sg.Get("/get-startup/:startup_id", sh.GetByID)
		sg.Get("/view-startup", middleware.AuthorizePermission(constants.ManageStartup), sh.ViewMine)
		sg.Patch("/update-startup", middleware.AuthorizePermission(constants.ManageStartup), sh.UpdateStartup)

		// Investments (the funds ledger)
		ls := &ledgersvc.Service{DB: db, EmailSender: emailSender}
		ih := &investhandler.Handlers{Service: ls}
		ig := app.Group("/api/v1/investments", middleware.RequireAuth())
		ig.Post("/invest", middleware.AuthorizePermission(constants.Invest), ih.Invest)
		ig.Post("/approve", middleware.AuthorizePermission(constants.VerifyPayment), ih.Approve)
		ig.Post("/reject", middleware.AuthorizePermission(constants.VerifyPayment), ih.Reject)
		ig.Get("/my-investments", middleware.AuthorizePermission(constants.Invest), ih.MyInvestments)
		ig.Get("/startup-transactions", middleware.AuthorizePermission(constants.VerifyPayment), ih.StartupTransactions)
		ig.Get("/pending-transactions", middleware.AuthorizePermission(constants.VerifyPayment), ih.PendingTransactions)
		ig.Get("/events", middleware.AuthorizePermission(constants.VerifyPayment), ih.Events)

		// Updates
		upds := &updatesvc.Service{DB: db, EmailSender: emailSender}
		uph := &updatehandler.Handlers{Service: upds}
		upg := app.Group("/api/v1/updates", middleware.RequireAuth())
		upg.Post("/post-update", middleware.AuthorizePermission(constants.PostUpdate), uph.PostUpdate)
		upg.Get("/get-updates/:startup_id", middleware.AuthorizePermission(constants.Invest), uph.GetStartupUpdates)
		upg.Get("/my-updates", middleware.AuthorizePermission(constants.PostUpdate), uph.MyUpdates)

		// Documents — signed uploads use SUPABASE_URL
		sc := &docsvc.HTTPClient{BaseURL: cfg.SupabaseURL, SecretKey: cfg.SupabaseSecretKey}
		ds := &docsvc.Service{DB: db, Client: sc, SupabaseURL: cfg.SupabaseURL}
		dh := &dochandler.Handlers{Service: ds}
		dg := app.Group("/api/v1/documents", middleware.RequireAuth())
		dg.Post("/sign-upload", middleware.AuthorizePermission(constants.UploadDocument), dh.SignDocumentUpload)
		dg.Post("/sign-profile-image", dh.SignProfileImageUpload)
		dg.Post("/create-document", middleware.AuthorizePermission(constants.UploadDocument), dh.CreateDocument)
		dg.Get("/get-documents/:startup_id", dh.GetStartupDocuments)
	}

	return app, db, rdb, nil
}

func Handler(app *fiber.App) http.Handler {
	return adaptor.FiberApp(app)
}
