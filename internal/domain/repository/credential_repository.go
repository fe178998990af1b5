package repository

// Claves reservadas de la tabla meta. Nunca se guardan claves en claro:
// la clave compartida como SHA-256 y la clave maestra como hash bcrypt.
const (
	MetaAPIKeySHA256    = "api_key_sha256"
	MetaMasterKeyBcrypt = "master_key_bcrypt"
)

// CredentialRepository define el puerto de persistencia clave/valor de la tabla meta.
type CredentialRepository interface {
	Get(key string) (string, error) // "" si la clave no existe
	Set(key, value string) error
}
