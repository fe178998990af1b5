package main

import (
	"context"
	"crypto/rand"
	"encoding/hex"
	"errors"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gofiber/contrib/swagger"
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/gofiber/fiber/v2/middleware/recover"

	"github.com/jdrojas/repuestos-lan/internal/application/auth"
	"github.com/jdrojas/repuestos-lan/internal/application/backup"
	"github.com/jdrojas/repuestos-lan/internal/application/events"
	"github.com/jdrojas/repuestos-lan/internal/application/inventory"
	"github.com/jdrojas/repuestos-lan/internal/application/report"
	"github.com/jdrojas/repuestos-lan/internal/application/syncstate"
	"github.com/jdrojas/repuestos-lan/internal/domain"
	infrapdf "github.com/jdrojas/repuestos-lan/internal/infrastructure/pdf"
	"github.com/jdrojas/repuestos-lan/internal/infrastructure/sqlite"
	httpRouter "github.com/jdrojas/repuestos-lan/internal/interfaces/http"
	"github.com/jdrojas/repuestos-lan/pkg/config"
	"github.com/jdrojas/repuestos-lan/pkg/logger"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		panic("cargar configuración: " + err.Error())
	}

	log := logger.New(logger.Config{
		Env:   cfg.App.Env,
		Level: cfg.Log.Level,
		Dir:   cfg.Log.Dir,
	})
	log.Info().
		Str("env", cfg.App.Env).
		Str("app", cfg.App.Name).
		Str("db", cfg.DB.Path).
		Msg("iniciando servidor de inventario")

	db, err := sqlite.Open(cfg.DB.Path)
	if err != nil {
		log.Fatal().Err(err).Msg("abrir base SQLite")
	}
	defer db.Close()

	if err := sqlite.Migrate(db.SQL()); err != nil {
		log.Fatal().Err(err).Msg("migraciones")
	}

	tracker := syncstate.NewTracker()
	recorder := events.NewRecorder(sqlite.NewEventRepository(db), log)

	itemRepo := sqlite.NewItemRepository(db)
	movRepo := sqlite.NewMovementRepository(db)
	txRunner := sqlite.NewTxRunner(db)

	itemUC := inventory.NewItemUseCase(itemRepo, txRunner, tracker, recorder)
	movementUC := inventory.NewMovementUseCase(txRunner, movRepo, tracker, recorder)

	// Sin JWT_SECRET las sesiones administrativas no sobreviven reinicios,
	// pero el servidor sigue siendo usable sin configurar nada.
	jwtSecret := cfg.JWT.Secret
	if jwtSecret == "" {
		jwtSecret = randomSecret()
		log.Warn().Msg("JWT_SECRET no configurado; se generó un secreto efímero")
	}

	authUC := auth.NewUseCase(sqlite.NewCredentialRepository(db), recorder, auth.JWTConfig{
		Secret:     jwtSecret,
		ExpMinutes: cfg.JWT.Expiration,
		Issuer:     cfg.JWT.Issuer,
	})
	if err := authUC.Bootstrap(cfg.Auth.APIKey, cfg.Auth.MasterKey); err != nil {
		log.Fatal().Err(err).Msg("sembrar credenciales")
	}
	if err := authUC.VerifyAPIKey(""); errors.Is(err, domain.ErrNotConfigured) {
		log.Warn().Msg("sin clave compartida sembrada: la API rechazará todo con 403 hasta configurar AUTH_API_KEY")
	}

	store := sqlite.NewBackupStore(db, cfg.Backup.Dir)
	backupUC := backup.NewUseCase(store, tracker, recorder, cfg.Backup.MaxSnapshots)

	schedCtx, stopScheduler := context.WithCancel(context.Background())
	defer stopScheduler()
	scheduler := backup.NewScheduler(backupUC, time.Duration(cfg.Backup.IntervalHours)*time.Hour, log)
	go scheduler.Run(schedCtx)

	reportUC := report.NewUseCase(itemRepo, infrapdf.NewStockReportGenerator())

	app := fiber.New(fiber.Config{
		AppName:      cfg.App.Name,
		ReadTimeout:  time.Second * 10,
		WriteTimeout: time.Second * 10,
		IdleTimeout:  time.Second * 60,
	})
	app.Use(recover.New())
	app.Use(cors.New())

	// Swagger UI en local: http://localhost:<port>/docs
	app.Use(swagger.New(swagger.Config{
		BasePath: "/",
		FilePath: "./docs/swagger.json",
		Path:     "docs",
		Title:    "Repuestos LAN API",
	}))

	app.Get("/health", func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{"status": "ok", "service": cfg.App.Name})
	})

	httpRouter.Router(app, httpRouter.RouterDeps{
		ItemUC:     itemUC,
		MovementUC: movementUC,
		BackupUC:   backupUC,
		AuthUC:     authUC,
		ReportUC:   reportUC,
		Events:     recorder,
		Tracker:    tracker,
		Log:        log,
		JWTSecret:  jwtSecret,
	})

	go func() {
		if err := app.Listen(cfg.HTTP.Addr()); err != nil {
			log.Error().Err(err).Msg("servidor HTTP finalizado")
		}
	}()
	log.Info().Str("addr", cfg.HTTP.Addr()).Msg("escuchando en la LAN")

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info().Msg("señal de apagado recibida, cerrando servidor...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := app.ShutdownWithContext(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("apagado del servidor")
	}
	stopScheduler()

	log.Info().Msg("aplicación detenida")
}

// randomSecret genera un secreto HS256 de proceso.
func randomSecret() string {
	b := make([]byte, 32)
	if _, err := rand.Read(b); err != nil {
		panic("generar secreto JWT: " + err.Error())
	}
	return hex.EncodeToString(b)
}
