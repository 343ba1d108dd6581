package models

// SourceCheckRequest for checking a video source before using it
type SourceCheckRequest struct {
	URL string `json:"url" binding:"required"`
}

// SourceCheckResponse for video source check result
type SourceCheckResponse struct {
	Valid       bool    `json:"valid"`
	Message     string  `json:"message"`
	Thumbnail   string  `json:"thumbnail,omitempty"`    // Base64 JPEG data URL
	Width       int     `json:"width,omitempty"`        // Frame width
	Height      int     `json:"height,omitempty"`       // Frame height
	FPS         float64 `json:"fps,omitempty"`          // Nominal source FPS
	ErrorDetail string  `json:"error_detail,omitempty"` // Detailed error if validation fails
}
