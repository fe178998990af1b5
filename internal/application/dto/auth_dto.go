package dto

// UnlockRequest entrada para desbloquear la administración con la clave maestra.
// Operator es el nombre de quien opera; queda en el token y en la auditoría.
type UnlockRequest struct {
	MasterKey string `json:"master_key" validate:"required"`
	Operator  string `json:"operator" validate:"required"`
}

// UnlockResponse token de administración emitido.
type UnlockResponse struct {
	Token     string `json:"token"`
	Operator  string `json:"operator"`
	ExpiresAt string `json:"expires_at"`
}

// RotateAPIKeyRequest entrada para reemplazar la clave compartida de la LAN.
type RotateAPIKeyRequest struct {
	NewKey string `json:"new_key" validate:"required,min=8"`
}

// RotateMasterKeyRequest entrada para reemplazar la clave maestra.
// Exige la clave actual además del token de administración.
type RotateMasterKeyRequest struct {
	CurrentKey string `json:"current_key" validate:"required"`
	NewKey     string `json:"new_key" validate:"required,min=8"`
}
