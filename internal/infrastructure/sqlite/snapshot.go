package sqlite

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"regexp"
	"sort"
	"strings"
	"time"

	"github.com/jdrojas/repuestos-lan/internal/application/backup"
	"github.com/jdrojas/repuestos-lan/internal/domain"
	"github.com/jdrojas/repuestos-lan/internal/domain/entity"
)

var _ backup.Store = (*BackupStore)(nil)

// backupNameRe nombres válidos de respaldo. Solo se aceptan los que genera
// el propio servidor; cualquier otra cosa (rutas, escapes) se rechaza.
var backupNameRe = regexp.MustCompile(`^(backup|pre_restore)_([0-9]{14})\.db$`)

// Los 16 bytes iniciales de todo archivo SQLite.
var sqliteHeader = []byte("SQLite format 3\x00")

// BackupStore implementación de backup.Store: instantáneas íntegras vía
// VACUUM INTO sobre un directorio plano de archivos .db.
type BackupStore struct {
	db  *DB
	dir string
}

// NewBackupStore construye el almacén de respaldos sobre dir.
func NewBackupStore(db *DB, dir string) *BackupStore {
	return &BackupStore{db: db, dir: dir}
}

// Snapshot escribe una copia íntegra y compactada de la base en el
// directorio de respaldos. VACUUM INTO copia una vista consistente aunque
// haya escrituras concurrentes.
func (s *BackupStore) Snapshot(prefix string) (*entity.Backup, error) {
	if err := os.MkdirAll(s.dir, 0o755); err != nil {
		return nil, fmt.Errorf("crear directorio de respaldos: %w", err)
	}
	now := time.Now().UTC()
	name := fmt.Sprintf("%s_%s.db", prefix, now.Format("20060102150405"))
	dest := filepath.Join(s.dir, name)

	// VACUUM INTO falla si el destino existe (dos respaldos en el mismo segundo).
	_ = os.Remove(dest)

	// VACUUM INTO no admite parámetros; la ruta va como literal escapado.
	query := fmt.Sprintf("VACUUM INTO '%s'", strings.ReplaceAll(dest, "'", "''"))
	if _, err := s.db.ExecContext(context.Background(), query); err != nil {
		return nil, fmt.Errorf("vacuum into: %w", err)
	}

	info, err := os.Stat(dest)
	if err != nil {
		return nil, fmt.Errorf("stat respaldo: %w", err)
	}
	return &entity.Backup{Name: name, Size: info.Size(), CreatedAt: now}, nil
}

// List devuelve los respaldos del directorio, el más reciente primero.
func (s *BackupStore) List() ([]*entity.Backup, error) {
	entries, err := os.ReadDir(s.dir)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("leer directorio de respaldos: %w", err)
	}
	var list []*entity.Backup
	for _, e := range entries {
		if e.IsDir() || !backupNameRe.MatchString(e.Name()) {
			continue
		}
		info, err := e.Info()
		if err != nil {
			continue
		}
		list = append(list, &entity.Backup{
			Name:      e.Name(),
			Size:      info.Size(),
			CreatedAt: backupCreatedAt(e.Name(), info.ModTime().UTC()),
		})
	}
	sort.Slice(list, func(i, j int) bool {
		if !list[i].CreatedAt.Equal(list[j].CreatedAt) {
			return list[i].CreatedAt.After(list[j].CreatedAt)
		}
		return list[i].Name > list[j].Name
	})
	return list, nil
}

// Restore reemplaza la base activa por el respaldo indicado. Antes de tocar
// nada valida la cabecera SQLite del archivo y toma una copia pre_restore
// para poder volver atrás. Tras el reemplazo corre las migraciones por si el
// respaldo viene de un esquema anterior.
func (s *BackupStore) Restore(name string) (string, error) {
	src, err := s.Resolve(name)
	if err != nil {
		return "", err
	}
	if err := checkSQLiteFile(src); err != nil {
		return "", err
	}
	pre, err := s.Snapshot(backup.PrefixPreRestore)
	if err != nil {
		return "", fmt.Errorf("copia previa a restaurar: %w", err)
	}
	if err := s.db.Replace(src); err != nil {
		return "", err
	}
	if err := Migrate(s.db.SQL()); err != nil {
		return "", err
	}
	return pre.Name, nil
}

// Prune elimina respaldos automáticos viejos dejando como máximo max. Las
// copias pre_restore no se tocan: son la red de seguridad de restauraciones.
func (s *BackupStore) Prune(max int) (int, error) {
	if max <= 0 {
		return 0, nil
	}
	list, err := s.List()
	if err != nil {
		return 0, err
	}
	var autos []*entity.Backup
	for _, b := range list {
		if strings.HasPrefix(b.Name, backup.PrefixBackup+"_") {
			autos = append(autos, b)
		}
	}
	removed := 0
	for i := max; i < len(autos); i++ {
		if err := os.Remove(filepath.Join(s.dir, autos[i].Name)); err != nil {
			return removed, fmt.Errorf("podar respaldo: %w", err)
		}
		removed++
	}
	return removed, nil
}

// Resolve devuelve la ruta de un respaldo existente. El nombre se valida
// contra el patrón propio del servidor, así que no hay forma de escapar del
// directorio de respaldos.
func (s *BackupStore) Resolve(name string) (string, error) {
	if !backupNameRe.MatchString(name) {
		return "", fmt.Errorf("%w: nombre de respaldo inválido", domain.ErrInvalidInput)
	}
	path := filepath.Join(s.dir, name)
	if _, err := os.Stat(path); err != nil {
		if os.IsNotExist(err) {
			return "", domain.ErrNotFound
		}
		return "", fmt.Errorf("stat respaldo: %w", err)
	}
	return path, nil
}

// backupCreatedAt deriva el instante de creación del nombre del archivo.
func backupCreatedAt(name string, fallback time.Time) time.Time {
	m := backupNameRe.FindStringSubmatch(name)
	if m == nil {
		return fallback
	}
	ts, err := time.ParseInLocation("20060102150405", m[2], time.UTC)
	if err != nil {
		return fallback
	}
	return ts
}

// checkSQLiteFile valida la cabecera del archivo antes de aceptarlo como base.
func checkSQLiteFile(path string) error {
	f, err := os.Open(path)
	if err != nil {
		return fmt.Errorf("abrir respaldo: %w", err)
	}
	defer f.Close()
	header := make([]byte, len(sqliteHeader))
	if _, err := io.ReadFull(f, header); err != nil {
		return fmt.Errorf("%w: el archivo no es una base SQLite", domain.ErrInvalidInput)
	}
	if !bytes.Equal(header, sqliteHeader) {
		return fmt.Errorf("%w: el archivo no es una base SQLite", domain.ErrInvalidInput)
	}
	return nil
}
