package main

import (
	"context"
	"log"
	"time"

	"github.com/gin-gonic/gin"

	"navm8/internal/cache"
	"navm8/internal/config"
	"navm8/internal/database"
	"navm8/internal/middleware"
	"navm8/internal/modules/auth"
	"navm8/internal/modules/booking"
	"navm8/internal/modules/chat"
	"navm8/internal/modules/review"
	"navm8/internal/modules/tour"
	jwtsvc "navm8/internal/pkg/jwt"
	"navm8/internal/repository"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatal(err)
	}

	db, err := database.Connect(cfg.DatabaseDSN)
	if err != nil {
		log.Fatal(err)
	}
	if err := repository.Migrate(db); err != nil {
		log.Fatal(err)
	}

	userRepo := repository.NewUserRepository(db)
	tourRepo := repository.NewTourRepository(db)
	bookingRepo := repository.NewBookingRepository(db)
	reviewRepo := repository.NewReviewRepository(db)
	refreshRepo := repository.NewRefreshTokenRepository(db)
	chatRepo := repository.NewChatRepository(db)

	j := jwtsvc.New(cfg.JWTSecret, cfg.AccessTTL)

	go func() {
		ticker := time.NewTicker(12 * time.Hour)
		defer ticker.Stop()
		for range ticker.C {
			if err := refreshRepo.DeleteExpired(context.Background()); err != nil {
				log.Println("refresh token cleanup:", err)
			}
		}
	}()

	// without Redis the transactional reserve alone guards capacity
	var slotLock booking.SlotLocker
	if cfg.RedisAddr != "" {
		slotLock = cache.NewSlotLock(cfg)
	}

	hub := chat.NewHub()
	defer hub.Close()

	authService := auth.NewService(userRepo, refreshRepo, j, cfg.RefreshTTL)
	authHandler := auth.NewHandler(authService)

	tourService := tour.NewService(tourRepo)
	tourHandler := tour.NewHandler(tourService)

	bookingService := booking.NewService(bookingRepo, tourRepo, slotLock, chat.NewNotifier(hub))
	bookingHandler := booking.NewHandler(bookingService)

	reviewService := review.NewService(reviewRepo, bookingRepo, tourRepo)
	reviewHandler := review.NewHandler(reviewService)

	chatService := chat.NewService(chatRepo, userRepo, hub)
	chatHandler := chat.NewHandler(chatService, hub, j)

	r := gin.Default()
	r.Use(middleware.CORS(cfg.CORSAllowedOrigins))
	r.Use(middleware.ErrorLogger())

	v1 := r.Group("/api/v1")
	{
		// public
		authHandler.RegisterRoutes(v1)
		tourHandler.RegisterPublicRoutes(v1)
		reviewHandler.RegisterPublicRoutes(v1)

		protected := v1.Group("/")
		protected.Use(middleware.Auth(j))
		{
			authHandler.RegisterProtectedRoutes(protected)
			tourHandler.RegisterRoutes(protected)
			bookingHandler.RegisterRoutes(protected)
			reviewHandler.RegisterRoutes(protected)
		}

		chatHandler.RegisterRoutes(v1, protected)
	}

	if err := r.Run(cfg.HTTPAddr); err != nil {
		log.Fatal(err)
	}
}
