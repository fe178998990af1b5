package http

import (
	"github.com/gofiber/fiber/v2"

	"github.com/jdrojas/repuestos-lan/internal/application/auth"
	"github.com/jdrojas/repuestos-lan/internal/application/backup"
	"github.com/jdrojas/repuestos-lan/internal/application/events"
	"github.com/jdrojas/repuestos-lan/internal/application/inventory"
	"github.com/jdrojas/repuestos-lan/internal/application/report"
	"github.com/jdrojas/repuestos-lan/internal/application/syncstate"
	"github.com/jdrojas/repuestos-lan/pkg/logger"
)

// RouterDeps dependencias para el router.
type RouterDeps struct {
	ItemUC     *inventory.ItemUseCase
	MovementUC *inventory.MovementUseCase
	BackupUC   *backup.UseCase
	AuthUC     *auth.UseCase
	ReportUC   *report.UseCase
	Events     *events.Recorder
	Tracker    *syncstate.Tracker
	Log        *logger.Logger
	JWTSecret  string
}

// Router registra las rutas de la API.
//
// El orden de registro es parte del contrato de seguridad: las rutas de
// rotación de claves se registran antes del grupo protegido por clave
// compartida, de modo que exigen solo el token de administración. Así un
// operador puede rotar una clave compartida perdida sin conocerla.
func Router(app *fiber.App, deps RouterDeps) {
	app.Use(ClientPresenceMiddleware(deps.Tracker))

	// Sincronización (público): latido y marcador de última actualización.
	syncHandler := NewSyncHandler(deps.Tracker)
	app.Get("/ping", syncHandler.Ping)
	app.Get("/last_update", syncHandler.LastUpdate)

	// Desbloqueo administrativo (público: la clave maestra es la credencial).
	authHandler := NewAuthHandler(deps.AuthUC)
	app.Post("/auth/unlock", authHandler.Unlock)

	// Rotación de claves (solo token de administración).
	keys := app.Group("/auth", AdminMiddleware(deps.JWTSecret))
	keys.Put("/api_key", authHandler.RotateAPIKey)
	keys.Put("/master_key", authHandler.RotateMasterKey)

	// Rutas protegidas (requieren la clave compartida de la LAN).
	protected := app.Group("/", APIKeyMiddleware(deps.AuthUC, deps.Log))

	// Catálogo de repuestos (protegido).
	itemHandler := NewItemHandler(deps.ItemUC, deps.Tracker)
	protected.Get("/items", itemHandler.List)
	protected.Post("/items", itemHandler.Create)
	protected.Get("/items/:id", itemHandler.GetByID)
	protected.Put("/items/:id", itemHandler.Update)
	protected.Delete("/items/:id", itemHandler.Delete)

	// Ventas y devoluciones (protegido).
	movementHandler := NewMovementHandler(deps.MovementUC)
	protected.Post("/sell", movementHandler.Sell)
	protected.Post("/return", movementHandler.Return)
	protected.Get("/movements", movementHandler.List)

	// Respaldos (protegido).
	backupHandler := NewBackupHandler(deps.BackupUC)
	protected.Post("/backup", backupHandler.Create)
	protected.Get("/list_backups", backupHandler.List)
	protected.Get("/download_backup/:name", backupHandler.Download)

	// Reportes (protegido).
	reportHandler := NewReportHandler(deps.ReportUC)
	protected.Get("/reports/inventory.pdf", reportHandler.InventoryPDF)

	// Administración (clave compartida + token de administración).
	admin := protected.Group("/admin", AdminMiddleware(deps.JWTSecret))
	adminHandler := NewAdminHandler(deps.ItemUC, deps.BackupUC, deps.Events, deps.Tracker)
	admin.Post("/restore", backupHandler.Restore)
	admin.Delete("/items", adminHandler.PurgeItems)
	admin.Get("/events", adminHandler.Events)
	admin.Get("/clients", adminHandler.Clients)
	admin.Get("/status", adminHandler.Status)
}
