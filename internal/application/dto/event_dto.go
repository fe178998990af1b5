package dto

// EventResponse una entrada de la bitácora de auditoría.
type EventResponse struct {
	ID     string `json:"id"`
	At     string `json:"at"`
	Actor  string `json:"actor"`
	Action string `json:"action"`
	Detail string `json:"detail"`
}

// EventListResponse eventos recientes, del más nuevo al más antiguo.
type EventListResponse struct {
	Events []EventResponse `json:"events"`
}
