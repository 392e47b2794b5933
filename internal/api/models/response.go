package models

// ErrorResponse is the body of every error reply
type ErrorResponse struct {
	Error string `json:"error" example:"Invalid username or password"`
	Code  string `json:"code" example:"INVALID_CREDENTIALS"`
}

// MessageResponse carries a human-readable confirmation
type MessageResponse struct {
	Message string `json:"message" example:"User registered successfully"`
}

// LoginResponse represents a successful login
type LoginResponse struct {
	Token        string `json:"token"`
	RefreshToken string `json:"refreshToken"`
}

// TokenResponse represents a refreshed access token
type TokenResponse struct {
	Token string `json:"token"`
}

// HealthResponse represents service health
type HealthResponse struct {
	Status    string            `json:"status" example:"healthy"`
	Timestamp int64             `json:"timestamp" example:"1640995200"`
	Version   string            `json:"version" example:"1.0.0"`
	Checks    map[string]string `json:"checks"`
}
