package dto

// ErrorResponse cuerpo de error HTTP de los middlewares.
type ErrorResponse struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}
