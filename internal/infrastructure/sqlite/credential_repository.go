package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/jdrojas/repuestos-lan/internal/domain/repository"
)

var _ repository.CredentialRepository = (*CredentialRepo)(nil)

// CredentialRepo implementación del puerto CredentialRepository sobre la
// tabla meta. Las claves viajan ya digeridas (hash); aquí solo se guardan.
type CredentialRepo struct {
	q Querier
}

// NewCredentialRepository construye el adaptador de persistencia de credenciales.
func NewCredentialRepository(q Querier) *CredentialRepo {
	return &CredentialRepo{q: q}
}

// Get devuelve el valor de una clave, o "" si no existe.
func (r *CredentialRepo) Get(key string) (string, error) {
	var v string
	err := r.q.QueryRowContext(context.Background(),
		`SELECT v FROM meta WHERE k = ?`, key).Scan(&v)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return "", nil
		}
		return "", fmt.Errorf("get meta: %w", err)
	}
	return v, nil
}

// Set guarda o reemplaza el valor de una clave.
func (r *CredentialRepo) Set(key, value string) error {
	_, err := r.q.ExecContext(context.Background(),
		`INSERT INTO meta (k, v) VALUES (?, ?) ON CONFLICT(k) DO UPDATE SET v = excluded.v`,
		key, value,
	)
	if err != nil {
		return fmt.Errorf("set meta: %w", err)
	}
	return nil
}
