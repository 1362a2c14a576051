package main

import (
	"context"
	"errors"
	"fmt"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/compress"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/gofiber/fiber/v2/middleware/healthcheck"
	"github.com/gofiber/fiber/v2/middleware/helmet"
	"github.com/gofiber/fiber/v2/middleware/logger"
	"github.com/gofiber/fiber/v2/middleware/pprof"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/joho/godotenv"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"

	"github.com/hirestack/gauntlet/internal/config"
	"github.com/hirestack/gauntlet/internal/domain/fiber/handler"
	"github.com/hirestack/gauntlet/internal/middleware"
	"github.com/hirestack/gauntlet/internal/model"
	"github.com/hirestack/gauntlet/internal/repository"
	"github.com/hirestack/gauntlet/internal/service"
	"github.com/hirestack/gauntlet/internal/usecase"
)

// snapshotDebounce coalesces bursts of phase mutations into one store write.
const snapshotDebounce = 300 * time.Millisecond

func main() {
	ctx := context.Background()
	if err := godotenv.Load(); err != nil {
		log.Println("Could not load .env file")
	}

	appConfig := config.LoadAppConfig()

	app := fiber.New(fiber.Config{
		AppName: appConfig.Name,
		ErrorHandler: func(ctx *fiber.Ctx, err error) error {
			code := fiber.StatusInternalServerError
			var e *fiber.Error
			if errors.As(err, &e) {
				code = e.Code
			}
			message := err.Error()
			if message == "" {
				message = "Internal Server Error"
			}
			return ctx.Status(code).JSON(fiber.Map{"error": message})
		},
	})
	app.Use(logger.New())
	app.Use(cors.New(cors.Config{
		AllowOrigins: "*",
	}))
	app.Use(recover.New(recover.Config{
		EnableStackTrace: appConfig.Env != "production",
	}))
	app.Use(compress.New(compress.Config{
		Level: compress.LevelBestSpeed,
	}))
	app.Use(pprof.New(pprof.Config{
		Next: func(c *fiber.Ctx) bool {
			return appConfig.Env == "production"
		},
	}))
	app.Use(healthcheck.New())
	app.Use(helmet.New(helmet.Config{
		CrossOriginResourcePolicy: "cross-origin",
	}))
	app.Use(middleware.RateLimiter(50, 1*time.Minute))

	db := ConnectDB()

	candidateRepo := repository.NewCandidateRepository(db)
	roleRepo := repository.NewRoleRepository(db)
	writeQueue := repository.NewWriteQueue(candidateRepo, snapshotDebounce)

	gemini, err := service.NewGeminiService(ctx)
	if err != nil {
		log.Fatal(err)
	}
	phaseJudge := service.NewPhaseJudgeService(gemini)
	proctorJudge := service.NewProctorJudgeService()
	questions := service.NewQuestionService(gemini, roleRepo)
	notifier := service.NewNotificationService(gemini)

	gauntletUC := usecase.NewGauntletUsecase(
		candidateRepo, writeQueue, phaseJudge, proctorJudge, questions, notifier)
	roleUC := usecase.NewRoleUsecase(roleRepo, gemini)
	gate := usecase.NewSessionGate(config.LoadSessionConfig().Secret)

	handler.NewGauntletHandler(gauntletUC, gate).RegisterRoutes(app)
	handler.NewCandidateHandler(candidateRepo).RegisterRoutes(app)
	handler.NewRoleHandler(roleUC).RegisterRoutes(app)

	// Drain queued snapshot writes before the process exits.
	shutdown := make(chan os.Signal, 1)
	signal.Notify(shutdown, syscall.SIGINT, syscall.SIGTERM)
	go func() {
		<-shutdown
		log.Println("Shutting down, draining snapshot writes")
		writeQueue.Close()
		if err := app.Shutdown(); err != nil {
			log.Printf("Shutdown error: %v", err)
		}
	}()

	log.Println("Server running on ", appConfig.Port)
	if err := app.Listen(appConfig.Port); err != nil {
		log.Fatal(err)
	}
}

func ConnectDB() *gorm.DB {
	dbConfig := config.LoadDBConfig()
	appConfig := config.LoadAppConfig()

	dsn := fmt.Sprintf("host=%s user=%s password=%s dbname=%s port=%s sslmode=%s",
		dbConfig.Host,
		dbConfig.User,
		dbConfig.Password,
		dbConfig.Name,
		dbConfig.Port,
		dbConfig.SSLMode,
	)

	db, err := gorm.Open(postgres.Open(dsn), &gorm.Config{})
	if err != nil {
		log.Fatalf("Could not connect to database: %v", err)
	}
	pgDB, err := db.DB()
	if err != nil {
		log.Fatalf("Could not get database instance: %v", err)
	}
	if appConfig.Env != "production" {
		pgDB.SetMaxIdleConns(5)
		pgDB.SetMaxOpenConns(10)
		pgDB.SetConnMaxLifetime(30 * time.Minute)
	} else {
		pgDB.SetMaxIdleConns(20)
		pgDB.SetMaxOpenConns(200)
		pgDB.SetConnMaxLifetime(time.Hour)
	}

	err = db.AutoMigrate(&model.Candidate{}, &model.EventLogEntry{}, &model.RoleProfile{})
	if err != nil {
		log.Fatal("migration failed: ", err)
	}
	return db
}
