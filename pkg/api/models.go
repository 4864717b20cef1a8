package api

type HealthResponse struct {
	Status string `json:"status"`
	Terms  int    `json:"terms"`
}
