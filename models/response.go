package models

type Response struct {
	Success bool        `json:"success"`
	Message string      `json:"message"`
	Data    interface{} `json:"data,omitempty"`
}

type ErrorResponse struct {
	Success bool   `json:"success"`
	Message string `json:"message"`
	Error   string `json:"error,omitempty"`
}

type DeviceTokenRequest struct {
	DeviceID string `json:"device_id" binding:"required"`
}

type DeviceTokenResponse struct {
	Token     string `json:"token"`
	ExpiresAt int64  `json:"expires_at"`
}

type HealthResponse struct {
	Status      string      `json:"status"`
	Storage     string      `json:"storage"`
	Persistence interface{} `json:"persistence"`
}
