package main

import (
	"database/sql"
	"log"

	_ "github.com/go-sql-driver/mysql"

	"firebase.google.com/go/messaging"
	"github.com/redis/go-redis/v9"

	"vzaimoBack/internal/config"
	"vzaimoBack/internal/handlers"
	"vzaimoBack/internal/repositories"
	"vzaimoBack/internal/services"
	"vzaimoBack/utils"
)

type application struct {
	errorLog           *log.Logger
	infoLog            *log.Logger
	db                 *sql.DB
	wsManager          *WebSocketManager
	signingKey         string
	userRepo           *repositories.UserRepository
	userHandler        *handlers.UserHandler
	listingHandler     *handlers.ListingHandler
	applicationHandler *handlers.ApplicationHandler
	reviewHandler      *handlers.ReviewHandler
	dialogHandler      *handlers.DialogHandler
	deviceTokenHandler *handlers.DeviceTokenHandler
}

func initializeApp(cfg config.Config, db *sql.DB, rdb *redis.Client, fcmClient *messaging.Client, errorLog, infoLog *log.Logger) *application {
	utils.ConfigureS3(cfg.S3.AccessKey, cfg.S3.SecretKey, cfg.S3.Bucket, cfg.S3.Region, cfg.S3.Endpoint)

	tokenManager, err := utils.NewManager(cfg.JWT.SigningKey)
	if err != nil {
		errorLog.Fatalf("Failed to create token manager: %v", err)
	}

	wsManager := NewWebSocketManager()

	// Repositories
	userRepo := repositories.UserRepository{DB: db}
	listingRepo := repositories.ListingRepository{DB: db}
	applicationRepo := repositories.ApplicationRepository{DB: db}
	reviewRepo := repositories.ReviewRepository{DB: db}
	ratingRepo := repositories.RatingRepository{DB: db}
	deviceTokenRepo := repositories.DeviceTokenRepository{DB: db}
	flowSessionRepo := repositories.FlowSessionRepository{RDB: rdb}

	// Services
	notificationService := &services.NotificationService{
		FCM:       fcmClient,
		TokenRepo: &deviceTokenRepo,
		Pusher:    wsManager,
		ErrorLog:  errorLog,
	}
	userService := &services.UserService{
		UserRepo:     &userRepo,
		FlowSessions: &flowSessionRepo,
		TokenManager: tokenManager,
		SMS:          services.NewSMSService(cfg.SMS.APIKey),
		SigningKey:   cfg.JWT.SigningKey,
	}
	listingService := &services.ListingService{
		ListingRepo:     &listingRepo,
		ApplicationRepo: &applicationRepo,
		RatingRepo:      &ratingRepo,
		UserRepo:        &userRepo,
		Notifications:   notificationService,
	}
	applicationService := &services.ApplicationService{
		ApplicationRepo: &applicationRepo,
		ListingRepo:     &listingRepo,
		Notifications:   notificationService,
	}
	ratingService := &services.RatingService{
		ReviewRepo: &reviewRepo,
		RatingRepo: &ratingRepo,
		UserRepo:   &userRepo,
	}
	dialogService := services.NewDialogService(&flowSessionRepo, userService, listingService, applicationService, ratingService)

	// Handlers
	return &application{
		errorLog:           errorLog,
		infoLog:            infoLog,
		db:                 db,
		wsManager:          wsManager,
		signingKey:         cfg.JWT.SigningKey,
		userRepo:           &userRepo,
		userHandler:        &handlers.UserHandler{Service: userService},
		listingHandler:     &handlers.ListingHandler{Service: listingService},
		applicationHandler: &handlers.ApplicationHandler{Service: applicationService},
		reviewHandler:      &handlers.ReviewHandler{Service: ratingService},
		dialogHandler:      &handlers.DialogHandler{Service: dialogService},
		deviceTokenHandler: &handlers.DeviceTokenHandler{Repo: &deviceTokenRepo},
	}
}

func openDB(dsn string) (*sql.DB, error) {
	db, err := sql.Open("mysql", dsn)
	if err != nil {
		log.Printf("Failed to open DB: %v", err)
		return nil, err
	}
	if err = db.Ping(); err != nil {
		log.Printf("Failed to ping DB: %v", err)
		return nil, err
	}
	db.SetMaxIdleConns(35)
	log.Println("Successfully connected to database")
	return db, nil
}
