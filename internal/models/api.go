package models

// ErrorResponse is the fixed error body shape for every terminal fault:
// 401, 429, 400, 502 and the generic 500. Detail is a string for those;
// validation faults (422) carry a []FieldError instead.
type ErrorResponse struct {
	Detail any `json:"detail"`
}

// FieldError describes one invalid field in a 422 response.
type FieldError struct {
	Field   string `json:"field"`
	Message string `json:"message"`
}

// StatusResponse is the acknowledgment body for the webhook and broadcast
// endpoints.
type StatusResponse struct {
	Status string `json:"status"`
}

// HealthResponse is the liveness probe body.
type HealthResponse struct {
	Status string `json:"status"`
}

// DiagnosticsResponse is the store diagnostics body.
type DiagnosticsResponse struct {
	Message string `json:"message"`
}
