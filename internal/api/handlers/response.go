package handlers

// ErrorResponse is the body of every failed request
type ErrorResponse struct {
	Error string `json:"error" example:"stream not found: cam-1"`
}

// SuccessResponse acknowledges requests that return no resource
type SuccessResponse struct {
	Message string `json:"message" example:"Stream stopped successfully"`
}
