package types

// PredictRequest is the JSON body accepted by POST /predict. Exactly one of
// ImageBase64 or ImageURL must be set. Multipart uploads use the
// "image_file" form field instead.
type PredictRequest struct {
	// Base64 encoded image bytes (JPEG, PNG or GIF). A data URI prefix is accepted.
	// example: iVBORw0KGgoAAAANSUhEUgAAAAEAAAABCAYAAAAfFcSJAAAADUlEQVR42mP8z8BQDwAEhQGAhKmMIQAAAABJRU5ErkJggg==
	ImageBase64 string `json:"image_base64,omitempty"`
	// URL to fetch the image from.
	// example: https://example.com/cat.jpg
	ImageURL string `json:"image_url,omitempty" example:"https://example.com/cat.jpg"`
}

// GenerateRequest is the JSON body accepted by POST /generate.
type GenerateRequest struct {
	// Prompt text to complete.
	// example: Write a haiku about the ocean.
	Prompt string `json:"prompt" example:"Write a haiku about the ocean."`
}

// PredictResponse wraps the normalized records of a prediction.
type PredictResponse struct {
	// Identifier of this prediction, useful for correlating logs.
	// example: 3f1c0a57-8c4e-4f4c-9a52-0b6a9a7e1d2c
	ID string `json:"id" example:"3f1c0a57-8c4e-4f4c-9a52-0b6a9a7e1d2c"`
	// Loader identity that served the request.
	// example: yolo
	Loader string `json:"loader" example:"yolo"`
	// Task kind that served the request.
	// example: detector
	Task string `json:"task" example:"detector"`
	// Normalized records (detections, classifications or generations).
	Result []Record `json:"result" swaggertype:"array,object"`
}

// HealthResponse is returned by GET /test.
type HealthResponse struct {
	// example: true
	Status bool `json:"status" example:"true"`
	// Optional detail when unhealthy.
	Error string `json:"error,omitempty"`
}

// ErrorResponse is a consistent JSON error payload.
type ErrorResponse struct {
	// Error message.
	// example: invalid JSON body
	Error string `json:"error" example:"invalid JSON body"`
	// HTTP status code.
	// example: 400
	Code int `json:"code" example:"400"`
}

// StatusResponse is returned by GET /status.
type StatusResponse struct {
	// Configured loader identity.
	// example: yolo
	Loader string `json:"loader" example:"yolo"`
	// Configured task kind.
	// example: detector
	Task string `json:"task" example:"detector"`
	// Resolved model file path.
	// example: /srv/models/best.onnx
	ModelPath string `json:"model_path" example:"/srv/models/best.onnx"`
	// Model lifecycle state: idle, loading, ready or error.
	// example: ready
	State string `json:"state" example:"ready"`
	// Whether the model handle is cached.
	// example: true
	Loaded bool `json:"loaded" example:"true"`
	// Number of successful model loads in this process (0 or 1).
	// example: 1
	LoadsTotal uint64 `json:"loads_total" example:"1"`
	// Square model input size in pixels.
	// example: 640
	InputSize int `json:"input_size" example:"640"`
	// Registered (loader, task) pairs.
	// example: ["yolo/detector","yolo/classifier"]
	Runners []string `json:"runners"`
	// Last error observed while loading or predicting.
	LastError string `json:"last_error,omitempty"`
	// Uptime of the server in seconds.
	// example: 3600
	UptimeSeconds int64 `json:"uptime_seconds" example:"3600"`
	// Server time in unix seconds.
	// example: 1700000000
	ServerTimeUnix int64 `json:"server_time_unix" example:"1700000000"`
}
