package main

import (
	"context"
	"fmt"
	"log" // Standard log for errors raised before zap is ready.
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"github.com/redis/go-redis/v9"

	"github.com/Mucyobrian123/DevCamp/internal/config"
	"github.com/Mucyobrian123/DevCamp/internal/database"
	"github.com/Mucyobrian123/DevCamp/internal/geocoder"
	"github.com/Mucyobrian123/DevCamp/internal/handlers"
	"github.com/Mucyobrian123/DevCamp/internal/mailer"
	"github.com/Mucyobrian123/DevCamp/internal/middleware"
	"github.com/Mucyobrian123/DevCamp/internal/repository"
	"github.com/Mucyobrian123/DevCamp/internal/routes"
	"github.com/Mucyobrian123/DevCamp/internal/server"
	"github.com/Mucyobrian123/DevCamp/internal/services"
	"github.com/Mucyobrian123/DevCamp/internal/utils"
)

func main() {
	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found, using system environment variables:", err)
	}

	cfg, err := config.Load("config.yaml")
	if err != nil {
		log.Fatalf("failed to load config: %v", err)
	}

	logger := utils.NewLogger(cfg.App.Env)
	defer func() {
		_ = logger.Sync()
	}()
	sugar := logger.Sugar()
	sugar.Infof("Starting devcamp-api in %s environment on port %d", cfg.App.Env, cfg.App.Port)

	db, mongoClient, err := database.ConnectMongo(cfg.Mongo.URI, cfg.Mongo.Database, sugar)
	if err != nil {
		sugar.Fatal(err)
	}

	{
		ctx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
		if err := database.EnsureIndexes(ctx, db); err != nil {
			sugar.Fatalf("failed to ensure indexes: %v", err)
		}
		cancel()
	}

	// Redis is optional; without it the auth endpoints run unthrottled.
	var rdb *redis.Client
	var limiter *middleware.RateLimiter
	if cfg.Redis.Addr != "" {
		rdb, err = database.ConnectRedis(cfg.Redis.Addr, cfg.Redis.Password, cfg.Redis.DB, sugar)
		if err != nil {
			sugar.Fatal(err)
		}
		limiter = middleware.NewRateLimiter(rdb, "ratelimit:auth", cfg.RateLimit.Limit,
			time.Duration(cfg.RateLimit.WindowSeconds)*time.Second)
	} else {
		sugar.Warn("Redis not configured. Auth rate limiting is disabled.")
	}

	geo := geocoder.NewClient(cfg.Geocoder.Key)
	if !geo.IsConfigured() {
		sugar.Warn("Geocoder client not configured. Address resolution will fail.")
	}
	mail := mailer.NewClient(cfg.Mail.APIKey, cfg.Mail.FromEmail, cfg.Mail.FromName)
	if !mail.IsConfigured() {
		sugar.Warn("Mailer client not configured. Password reset email will be skipped.")
	}

	tokens := utils.NewJWTManager(cfg.JWT.Secret, cfg.JWT.ExpireDays)

	userRepo := repository.NewMongoUserRepo(db)
	bootcampRepo := repository.NewMongoBootcampRepo(db)
	courseRepo := repository.NewMongoCourseRepo(db)

	authSvc := services.NewAuthService(userRepo, mail, tokens, sugar)
	bootcampSvc := services.NewBootcampService(bootcampRepo, courseRepo, geo, cfg.Upload.Dir, sugar)
	courseSvc := services.NewCourseService(courseRepo, bootcampRepo, sugar)
	userSvc := services.NewUserService(userRepo)

	cookie := handlers.CookieSettings{
		ExpireDays: cfg.JWT.CookieExpireDays,
		Secure:     cfg.Production(),
	}

	app := server.New(server.Options{
		ReadTimeout:  cfg.ReadTimeout,
		WriteTimeout: cfg.WriteTimeout,
		IdleTimeout:  cfg.IdleTimeout,
		StaticDir:    "./public",
		Handlers: routes.Handlers{
			Auth:      handlers.NewAuthHandler(authSvc, cookie),
			Bootcamps: handlers.NewBootcampHandler(bootcampSvc, cfg.Upload.MaxBytes),
			Courses:   handlers.NewCourseHandler(courseSvc),
			Users:     handlers.NewUserHandler(userSvc),
		},
		Protect: middleware.Protect(userRepo, tokens),
		Limiter: limiter,
		Logger:  logger,
	})

	go func() {
		listenAddr := fmt.Sprintf(":%d", cfg.App.Port)
		sugar.Infof("Server listening on %s", listenAddr)
		if err := app.Listen(listenAddr); err != nil {
			sugar.Fatalf("Server failed to start: %v", err)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, os.Interrupt, syscall.SIGTERM)
	<-quit
	sugar.Info("Shutting down server...")

	ctxShut, cancelShut := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancelShut()

	if err := app.ShutdownWithContext(ctxShut); err != nil {
		sugar.Errorf("Fiber app shutdown error: %v", err)
	}
	if err := mongoClient.Disconnect(ctxShut); err != nil {
		sugar.Errorf("MongoDB disconnect error: %v", err)
	}
	if rdb != nil {
		if err := rdb.Close(); err != nil {
			sugar.Errorf("Redis client close error: %v", err)
		}
	}

	sugar.Info("Graceful shutdown complete. Goodbye!")
}
