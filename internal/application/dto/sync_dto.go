package dto

// PingResponse latido del servidor. Los clientes lo usan para marcar presencia
// (cabecera X-CLIENT-ID) y conocer la hora del servidor.
type PingResponse struct {
	OK         bool   `json:"ok"`
	ServerTime string `json:"server_time"`
	LastUpdate string `json:"last_update"`
}

// LastUpdateResponse marcador global de última modificación del inventario.
type LastUpdateResponse struct {
	LastUpdate string `json:"last_update"`
}

// ClientInfo un cliente visto recientemente en la LAN.
type ClientInfo struct {
	ClientID   string `json:"client_id"`
	LastSeen   string `json:"last_seen"`
	SecondsAgo int64  `json:"seconds_ago"`
}

// ClientListResponse clientes con su último ping.
type ClientListResponse struct {
	Clients []ClientInfo `json:"clients"`
}

// StatusResponse resumen operativo del servidor para el panel de administración.
type StatusResponse struct {
	Status        string `json:"status"`
	Items         int64  `json:"items"`
	LastUpdate    string `json:"last_update"`
	ActiveClients int    `json:"active_clients"`
	Backups       int    `json:"backups"`
	UptimeSeconds int64  `json:"uptime_seconds"`
}
