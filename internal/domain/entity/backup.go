package entity

import "time"

// Backup describe un respaldo de la base en el directorio de respaldos.
// Name sigue el patrón backup_YYYYMMDDHHMMSS.db (o pre_restore_* para las
// copias de seguridad previas a una restauración).
type Backup struct {
	Name      string
	Size      int64
	CreatedAt time.Time
}
