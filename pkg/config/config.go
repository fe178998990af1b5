package config

import (
	"fmt"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/spf13/viper"
)

// Config agrupa la configuración de la aplicación (lectura vía Viper desde env y opcionalmente archivo).
type Config struct {
	App    AppConfig
	HTTP   HTTPConfig
	DB     DBConfig
	Backup BackupConfig
	Log    LogConfig
	JWT    JWTConfig
	Auth   AuthConfig
}

// AppConfig configuración general de la aplicación.
type AppConfig struct {
	Env  string // development, staging, production
	Name string
}

// HTTPConfig configuración del servidor HTTP.
type HTTPConfig struct {
	Host string
	Port int
}

// Addr devuelve la dirección de escucha (host:port).
func (c HTTPConfig) Addr() string {
	return fmt.Sprintf("%s:%d", c.Host, c.Port)
}

// DBConfig configuración de la base SQLite (archivo único propiedad del servidor).
type DBConfig struct {
	Path string
}

// BackupConfig configuración del módulo de respaldos.
// IntervalHours define la cadencia del respaldo automático (además del respaldo al iniciar).
// MaxSnapshots limita cuántos backup_*.db se conservan; 0 = sin límite.
type BackupConfig struct {
	Dir           string
	IntervalHours int
	MaxSnapshots  int
}

// LogConfig configuración de logging. Dir vacío desactiva el archivo de log.
type LogConfig struct {
	Dir   string
	Level string
}

// JWTConfig configuración de los tokens de administración.
type JWTConfig struct {
	Secret     string
	Expiration int // minutos
	Issuer     string
}

// AuthConfig claves de arranque. Solo se siembran si la base aún no tiene credenciales.
type AuthConfig struct {
	APIKey    string
	MasterKey string
}

// Load lee la configuración desde variables de entorno (y opcionalmente desde archivo).
// Las env vars tienen prioridad. Nombres esperados: APP_ENV, HTTP_PORT, DB_PATH, JWT_SECRET, etc.
func Load() (*Config, error) {
	v := viper.New()

	// Opcional: archivo de configuración (.env o config.env)
	v.SetConfigName(".env")
	v.SetConfigType("env")
	v.AddConfigPath(".")
	_ = v.ReadInConfig() // ignoramos error si no existe

	// También intenta config.env
	v.SetConfigName("config")
	v.AddConfigPath(".")
	v.AddConfigPath("./config")
	_ = v.ReadInConfig() // ignoramos error si no existe

	// Bind de variables de entorno (Viper las lee automáticamente si AutomaticEnv está activo)
	v.AutomaticEnv()
	// Permite usar APP_ENV, DB_PATH, JWT_SECRET, etc.
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))

	cfg := &Config{
		App: AppConfig{
			Env:  getString(v, "APP_ENV", "development"),
			Name: getString(v, "APP_NAME", "repuestos-lan"),
		},
		HTTP: HTTPConfig{
			Host: getString(v, "HTTP_HOST", "0.0.0.0"),
			Port: getInt(v, "HTTP_PORT", 5000),
		},
		DB: DBConfig{
			Path: getString(v, "DB_PATH", "server_data.db"),
		},
		Backup: BackupConfig{
			Dir:           getString(v, "BACKUP_DIR", "backups"),
			IntervalHours: getInt(v, "BACKUP_INTERVAL_HOURS", 24),
			MaxSnapshots:  getInt(v, "BACKUP_MAX_SNAPSHOTS", 0),
		},
		Log: LogConfig{
			Dir:   getString(v, "LOG_DIR", "logs"),
			Level: getString(v, "LOG_LEVEL", "info"),
		},
		JWT: JWTConfig{
			Secret:     getString(v, "JWT_SECRET", ""),
			Expiration: getInt(v, "JWT_EXPIRATION_MINUTES", 30),
			Issuer:     getString(v, "JWT_ISSUER", "repuestos-lan"),
		},
		Auth: AuthConfig{
			APIKey:    getString(v, "AUTH_API_KEY", ""),
			MasterKey: getString(v, "AUTH_MASTER_KEY", ""),
		},
	}

	if cfg.DB.Path == "" {
		return nil, fmt.Errorf("config: DB_PATH no puede estar vacío")
	}
	cfg.DB.Path = filepath.Clean(cfg.DB.Path)

	return cfg, nil
}

func getString(v *viper.Viper, key, def string) string {
	if v.IsSet(key) {
		return v.GetString(key)
	}
	return def
}

func getInt(v *viper.Viper, key string, def int) int {
	if v.IsSet(key) {
		switch v.Get(key).(type) {
		case int:
			return v.GetInt(key)
		case string:
			n, _ := strconv.Atoi(v.GetString(key))
			return n
		default:
			return v.GetInt(key)
		}
	}
	return def
}
