// Package auth implementa el candado de acceso del servidor: la clave
// compartida que presentan los clientes de la LAN y la clave maestra que
// desbloquea las operaciones administrativas. Ninguna clave se guarda en
// claro: la compartida como SHA-256 y la maestra como hash bcrypt.
package auth

import (
	"crypto/sha256"
	"crypto/subtle"
	"encoding/hex"
	"strings"
	"time"

	"golang.org/x/crypto/bcrypt"

	"github.com/jdrojas/repuestos-lan/internal/application/dto"
	"github.com/jdrojas/repuestos-lan/internal/domain"
	"github.com/jdrojas/repuestos-lan/internal/domain/entity"
	"github.com/jdrojas/repuestos-lan/internal/domain/repository"
	"github.com/jdrojas/repuestos-lan/pkg/jwt"
)

// Largo mínimo aceptado al rotar cualquiera de las dos claves.
const minKeyLength = 8

// JWTConfig configuración para generación de tokens administrativos.
type JWTConfig struct {
	Secret     string
	ExpMinutes int
	Issuer     string
}

// Auditor registra operaciones en la bitácora del servidor.
type Auditor interface {
	Record(actor, action, detail string)
}

// UseCase casos de uso del candado de acceso: verificación de la clave
// compartida, desbloqueo con clave maestra y rotación de ambas claves.
type UseCase struct {
	creds   repository.CredentialRepository
	auditor Auditor
	jwtCfg  JWTConfig
}

// NewUseCase construye el caso de uso de auth.
func NewUseCase(creds repository.CredentialRepository, auditor Auditor, jwtCfg JWTConfig) *UseCase {
	return &UseCase{creds: creds, auditor: auditor, jwtCfg: jwtCfg}
}

// Bootstrap siembra las claves desde la configuración solo si aún no existen
// en la BD. Una clave ya rotada nunca se pisa con la del entorno.
func (uc *UseCase) Bootstrap(apiKey, masterKey string) error {
	stored, err := uc.creds.Get(repository.MetaAPIKeySHA256)
	if err != nil {
		return err
	}
	if stored == "" && apiKey != "" {
		if err := uc.creds.Set(repository.MetaAPIKeySHA256, hashAPIKey(apiKey)); err != nil {
			return err
		}
	}
	stored, err = uc.creds.Get(repository.MetaMasterKeyBcrypt)
	if err != nil {
		return err
	}
	if stored == "" && masterKey != "" {
		hash, err := bcrypt.GenerateFromPassword([]byte(masterKey), bcrypt.DefaultCost)
		if err != nil {
			return err
		}
		if err := uc.creds.Set(repository.MetaMasterKeyBcrypt, string(hash)); err != nil {
			return err
		}
	}
	return nil
}

// VerifyAPIKey valida la clave compartida que presenta un cliente.
// Devuelve ErrNotConfigured si el servidor aún no tiene clave, y
// ErrUnauthorized si la presentada no coincide.
func (uc *UseCase) VerifyAPIKey(presented string) error {
	stored, err := uc.creds.Get(repository.MetaAPIKeySHA256)
	if err != nil {
		return err
	}
	if stored == "" {
		return domain.ErrNotConfigured
	}
	if presented == "" {
		return domain.ErrUnauthorized
	}
	if subtle.ConstantTimeCompare([]byte(hashAPIKey(presented)), []byte(stored)) != 1 {
		return domain.ErrUnauthorized
	}
	return nil
}

// Unlock verifica la clave maestra y emite un JWT administrativo a nombre
// del operador. El desbloqueo queda en la bitácora.
func (uc *UseCase) Unlock(in dto.UnlockRequest) (*dto.UnlockResponse, error) {
	operator := strings.TrimSpace(in.Operator)
	if operator == "" || in.MasterKey == "" {
		return nil, domain.ErrInvalidInput
	}
	stored, err := uc.creds.Get(repository.MetaMasterKeyBcrypt)
	if err != nil {
		return nil, err
	}
	if stored == "" {
		return nil, domain.ErrNotConfigured
	}
	if err := bcrypt.CompareHashAndPassword([]byte(stored), []byte(in.MasterKey)); err != nil {
		return nil, domain.ErrUnauthorized
	}
	token, err := jwt.Generate(uc.jwtCfg.Secret, operator, uc.jwtCfg.Issuer, uc.jwtCfg.ExpMinutes)
	if err != nil {
		return nil, err
	}
	expiresAt := time.Now().UTC().Add(time.Duration(uc.jwtCfg.ExpMinutes) * time.Minute)
	uc.auditor.Record(operator, entity.EventUnlock, "sesion administrativa abierta")
	return &dto.UnlockResponse{
		Token:     token,
		Operator:  operator,
		ExpiresAt: domain.FormatTime(expiresAt),
	}, nil
}

// RotateAPIKey reemplaza la clave compartida. Los clientes con la clave
// anterior quedan fuera en su siguiente petición.
func (uc *UseCase) RotateAPIKey(in dto.RotateAPIKeyRequest, actor string) error {
	if len(in.NewKey) < minKeyLength {
		return domain.ErrInvalidInput
	}
	if err := uc.creds.Set(repository.MetaAPIKeySHA256, hashAPIKey(in.NewKey)); err != nil {
		return err
	}
	uc.auditor.Record(actor, entity.EventAPIKeyRotated, "clave compartida rotada")
	return nil
}

// RotateMasterKey reemplaza la clave maestra previa verificación de la actual.
func (uc *UseCase) RotateMasterKey(in dto.RotateMasterKeyRequest, actor string) error {
	stored, err := uc.creds.Get(repository.MetaMasterKeyBcrypt)
	if err != nil {
		return err
	}
	if stored == "" {
		return domain.ErrNotConfigured
	}
	if err := bcrypt.CompareHashAndPassword([]byte(stored), []byte(in.CurrentKey)); err != nil {
		return domain.ErrUnauthorized
	}
	if len(in.NewKey) < minKeyLength {
		return domain.ErrInvalidInput
	}
	hash, err := bcrypt.GenerateFromPassword([]byte(in.NewKey), bcrypt.DefaultCost)
	if err != nil {
		return err
	}
	if err := uc.creds.Set(repository.MetaMasterKeyBcrypt, string(hash)); err != nil {
		return err
	}
	uc.auditor.Record(actor, entity.EventMasterKeyRotated, "clave maestra rotada")
	return nil
}

func hashAPIKey(key string) string {
	sum := sha256.Sum256([]byte(key))
	return hex.EncodeToString(sum[:])
}
