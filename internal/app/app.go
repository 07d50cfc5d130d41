package app

import (
	"time"

	"github.com/AbbasAlizada1380/mellat/config"
	"github.com/AbbasAlizada1380/mellat/internal/database"
	"github.com/AbbasAlizada1380/mellat/internal/events"
	"github.com/AbbasAlizada1380/mellat/internal/handlers/middleware"
	"github.com/AbbasAlizada1380/mellat/internal/logger"
	"github.com/AbbasAlizada1380/mellat/internal/repositories"
	"github.com/AbbasAlizada1380/mellat/internal/services"
	"github.com/AbbasAlizada1380/mellat/internal/websockets"

	athleteController "github.com/AbbasAlizada1380/mellat/internal/controllers/athletes"
	feeController "github.com/AbbasAlizada1380/mellat/internal/controllers/fees"
	userController "github.com/AbbasAlizada1380/mellat/internal/controllers/users"
)

type App struct {
	Database   database.DB
	Middleware middleware.Middleware
	Websocket  *websockets.Manager
	EventBus   *events.EventBus
	Config     config.Config

	// Services
	TransactionService  *services.TransactionService
	TokenService        *services.TokenService
	NotificationService *services.NotificationService
	FileStorage         services.FileStorage

	// Repositories
	UserRepo    repositories.UserRepository
	AthleteRepo repositories.AthleteRepository
	FeeRepo     repositories.FeeRepository

	// Controllers
	UserController    *userController.UserController
	AthleteController *athleteController.AthleteController
	FeeController     *feeController.FeeController
}

func New() (*App, error) {
	log := logger.New("app").Function("New")

	config, err := config.InitConfig()
	if err != nil {
		return &App{}, log.Err("failed to initialize config", err)
	}

	return Build(config)
}

// Build wires every component for config. The caller owns the returned App
// and must Close it.
func Build(config config.Config) (*App, error) {
	log := logger.New("app").Function("Build")
	logger.SetLevel(config.AppLogLevel)

	db, err := database.New(config)
	if err != nil {
		return &App{}, log.Err("failed to create database", err)
	}

	eventBus := events.New(db.Cache.Events, config)

	// Initialize services
	transactionService := services.NewTransactionService(db)
	tokenService := services.NewTokenService(
		config.SecurityJwtSecret,
		time.Duration(config.SecurityTokenTTLHours)*time.Hour,
	)
	notificationService := services.NewNotificationService(eventBus)
	fileStorage := services.NewDiskStorage(config.UploadsDir, config.UploadsMaxFileBytes)

	// Initialize repositories
	userRepo := repositories.NewUser(db)
	athleteRepo := repositories.NewAthlete(db)
	feeRepo := repositories.NewFee(db)

	// Initialize controllers with repositories and services
	middleware := middleware.New(tokenService, config)
	userController := userController.New(userRepo, tokenService)
	athleteController := athleteController.New(
		athleteRepo,
		feeRepo,
		fileStorage,
		transactionService,
		notificationService,
	)
	feeController, err := feeController.New(
		feeRepo,
		athleteRepo,
		transactionService,
		notificationService,
		config,
	)
	if err != nil {
		_ = eventBus.Close()
		_ = db.Close()
		return &App{}, log.Err("failed to create fee controller", err)
	}

	websocket, err := websockets.New(eventBus)
	if err != nil {
		_ = eventBus.Close()
		_ = db.Close()
		return &App{}, log.Err("failed to create websocket manager", err)
	}

	app := &App{
		Database:            db,
		Config:              config,
		Middleware:          middleware,
		TransactionService:  transactionService,
		TokenService:        tokenService,
		NotificationService: notificationService,
		FileStorage:         fileStorage,
		UserRepo:            userRepo,
		AthleteRepo:         athleteRepo,
		FeeRepo:             feeRepo,
		UserController:      userController,
		AthleteController:   athleteController,
		FeeController:       feeController,
		Websocket:           websocket,
		EventBus:            eventBus,
	}

	if err := app.validate(); err != nil {
		_ = app.Close()
		return &App{}, log.Err("failed to validate app", err)
	}

	return app, nil
}

func (a *App) validate() error {
	log := logger.New("app").Function("validate")
	if a.Database.SQL == nil {
		return log.ErrMsg("database is nil")
	}

	if a.Config == (config.Config{}) {
		return log.ErrMsg("config is nil")
	}

	nilChecks := map[string]bool{
		"websocket":          a.Websocket == nil,
		"eventBus":           a.EventBus == nil,
		"transactionService": a.TransactionService == nil,
		"tokenService":       a.TokenService == nil,
		"fileStorage":        a.FileStorage == nil,
		"userController":     a.UserController == nil,
		"athleteController":  a.AthleteController == nil,
		"feeController":      a.FeeController == nil,
		"userRepo":           a.UserRepo == nil,
		"athleteRepo":        a.AthleteRepo == nil,
		"feeRepo":            a.FeeRepo == nil,
	}

	for name, isNil := range nilChecks {
		if isNil {
			return log.Error("nil check failed", "component", name)
		}
	}

	return nil
}

func (a *App) Close() (err error) {
	if a.Websocket != nil {
		a.Websocket.Close()
	}

	if a.EventBus != nil {
		if closeErr := a.EventBus.Close(); closeErr != nil {
			err = closeErr
		}
	}

	if dbErr := a.Database.Close(); dbErr != nil {
		err = dbErr
	}

	return err
}
