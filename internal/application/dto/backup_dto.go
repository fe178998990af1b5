package dto

// BackupResponse confirmación de un respaldo creado.
// LocalCopy es la ruta relativa del archivo dentro del directorio de respaldos.
type BackupResponse struct {
	OK        bool   `json:"ok"`
	Name      string `json:"name"`
	LocalCopy string `json:"local_copy"`
	Size      int64  `json:"size"`
	CreatedAt string `json:"created_at"`
}

// BackupInfo un respaldo disponible.
type BackupInfo struct {
	Name      string `json:"name"`
	Size      int64  `json:"size"`
	CreatedAt string `json:"created_at"`
}

// BackupListResponse respaldos disponibles, del más reciente al más antiguo.
type BackupListResponse struct {
	Backups []BackupInfo `json:"backups"`
}

// RestoreRequest entrada para restaurar la base desde un respaldo.
type RestoreRequest struct {
	Name string `json:"name" validate:"required"`
}

// RestoreResponse resultado de una restauración.
// PreRestore es el nombre de la copia de seguridad tomada antes de reemplazar la base.
type RestoreResponse struct {
	OK         bool   `json:"ok"`
	Restored   string `json:"restored"`
	PreRestore string `json:"pre_restore"`
	LastUpdate string `json:"last_update"`
}
