// Package sqlite implementa la persistencia del servidor sobre un único
// archivo SQLite. El archivo es la unidad de respaldo y restauración: se
// copia entero y se reemplaza entero.
package sqlite

import (
	"context"
	"database/sql"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sync"

	_ "modernc.org/sqlite"
)

// Querier operaciones comunes a DB y *sql.Tx. Los repositorios trabajan
// contra esta interfaz para servir igual dentro o fuera de una transacción.
type Querier interface {
	ExecContext(ctx context.Context, query string, args ...any) (sql.Result, error)
	QueryContext(ctx context.Context, query string, args ...any) (*sql.Rows, error)
	QueryRowContext(ctx context.Context, query string, args ...any) *sql.Row
}

var (
	_ Querier = (*DB)(nil)
	_ Querier = (*sql.Tx)(nil)
)

// DB envuelve la conexión al archivo de datos. El RWMutex deja que una
// restauración cierre y reemplace el archivo sin carreras: las consultas
// toman el candado de lectura y Replace el de escritura.
type DB struct {
	mu   sync.RWMutex
	sdb  *sql.DB
	path string
}

// Open abre (o crea) el archivo de datos con WAL, claves foráneas y
// busy_timeout activados, y verifica la conexión.
func Open(path string) (*DB, error) {
	sdb, err := open(path)
	if err != nil {
		return nil, err
	}
	return &DB{sdb: sdb, path: path}, nil
}

func open(path string) (*sql.DB, error) {
	if dir := filepath.Dir(path); dir != "." && dir != "" {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return nil, fmt.Errorf("crear directorio de datos: %w", err)
		}
	}
	dsn := fmt.Sprintf("file:%s?_pragma=busy_timeout(5000)&_pragma=journal_mode(WAL)&_pragma=foreign_keys(1)&_txlock=immediate", path)
	sdb, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, fmt.Errorf("abrir base de datos: %w", err)
	}
	// Una sola conexión: evita SQLITE_BUSY entre escritores concurrentes.
	sdb.SetMaxOpenConns(1)
	if err := sdb.Ping(); err != nil {
		sdb.Close()
		return nil, fmt.Errorf("ping base de datos: %w", err)
	}
	return sdb, nil
}

// Path devuelve la ruta del archivo de datos.
func (db *DB) Path() string {
	return db.path
}

// SQL expone el *sql.DB subyacente, pensado para las migraciones al arranque.
func (db *DB) SQL() *sql.DB {
	db.mu.RLock()
	defer db.mu.RUnlock()
	return db.sdb
}

// ExecContext ejecuta una sentencia fuera de transacción.
func (db *DB) ExecContext(ctx context.Context, query string, args ...any) (sql.Result, error) {
	db.mu.RLock()
	defer db.mu.RUnlock()
	return db.sdb.ExecContext(ctx, query, args...)
}

// QueryContext ejecuta una consulta fuera de transacción.
func (db *DB) QueryContext(ctx context.Context, query string, args ...any) (*sql.Rows, error) {
	db.mu.RLock()
	defer db.mu.RUnlock()
	return db.sdb.QueryContext(ctx, query, args...)
}

// QueryRowContext ejecuta una consulta de una sola fila fuera de transacción.
func (db *DB) QueryRowContext(ctx context.Context, query string, args ...any) *sql.Row {
	db.mu.RLock()
	defer db.mu.RUnlock()
	return db.sdb.QueryRowContext(ctx, query, args...)
}

// WithTx ejecuta fn dentro de una transacción: Commit si fn retorna nil,
// Rollback si no. El candado de lectura se mantiene durante toda la
// transacción para que una restauración no cierre la base a mitad de camino.
func (db *DB) WithTx(ctx context.Context, fn func(tx *sql.Tx) error) error {
	db.mu.RLock()
	defer db.mu.RUnlock()
	tx, err := db.sdb.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin transaction: %w", err)
	}
	defer func() { _ = tx.Rollback() }()
	if err := fn(tx); err != nil {
		return err
	}
	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit transaction: %w", err)
	}
	return nil
}

// Replace sustituye el archivo de datos por src y reabre la conexión.
// Toda consulta queda bloqueada mientras dura el reemplazo.
func (db *DB) Replace(src string) error {
	db.mu.Lock()
	defer db.mu.Unlock()

	if err := db.sdb.Close(); err != nil {
		return fmt.Errorf("cerrar base de datos: %w", err)
	}
	// Los archivos WAL/SHM pertenecen a la base que se descarta.
	_ = os.Remove(db.path + "-wal")
	_ = os.Remove(db.path + "-shm")

	if err := copyFile(src, db.path); err != nil {
		// Reabrir la base anterior para no dejar el servidor sin persistencia.
		if sdb, openErr := open(db.path); openErr == nil {
			db.sdb = sdb
		}
		return err
	}

	sdb, err := open(db.path)
	if err != nil {
		return err
	}
	db.sdb = sdb
	return nil
}

// Close cierra la conexión al archivo de datos.
func (db *DB) Close() error {
	db.mu.Lock()
	defer db.mu.Unlock()
	return db.sdb.Close()
}

// copyFile copia src sobre dst de forma atómica: escribe a un temporal en el
// mismo directorio y renombra al final, para que un corte a mitad de copia
// nunca deje un dst corrupto.
func copyFile(src, dst string) error {
	in, err := os.Open(src)
	if err != nil {
		return fmt.Errorf("abrir origen: %w", err)
	}
	defer in.Close()

	tmp, err := os.CreateTemp(filepath.Dir(dst), ".replace-*")
	if err != nil {
		return fmt.Errorf("crear temporal: %w", err)
	}
	defer func() {
		tmp.Close()
		os.Remove(tmp.Name())
	}()

	if _, err := io.Copy(tmp, in); err != nil {
		return fmt.Errorf("copiar datos: %w", err)
	}
	if err := tmp.Sync(); err != nil {
		return fmt.Errorf("sync temporal: %w", err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("cerrar temporal: %w", err)
	}
	if err := os.Rename(tmp.Name(), dst); err != nil {
		return fmt.Errorf("renombrar sobre destino: %w", err)
	}
	return nil
}
