package common

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

// APIResponse is the success envelope
type APIResponse struct {
	StatusCode int         `json:"statusCode"`
	Success    bool        `json:"success"`
	Message    string      `json:"message"`
	Data       interface{} `json:"data"`
	Meta       *Meta       `json:"meta,omitempty"`
}

// APIError is the failure envelope. Errors is always present.
type APIError struct {
	StatusCode int      `json:"statusCode"`
	Success    bool     `json:"success"`
	Message    string   `json:"message"`
	Errors     []string `json:"errors"`
}

// Meta pagination metadata
type Meta struct {
	Page       int   `json:"page"`
	Limit      int   `json:"limit"`
	Total      int64 `json:"total"`
	TotalPages int   `json:"totalPages"`
}

// NewMeta builds pagination metadata
func NewMeta(page, limit int, total int64) *Meta {
	return &Meta{Page: page, Limit: limit, Total: total, TotalPages: TotalPages(total, limit)}
}

// TotalPages returns ceil(total/limit)
func TotalPages(total int64, limit int) int {
	if limit <= 0 {
		return 0
	}
	return int((total + int64(limit) - 1) / int64(limit))
}

// SuccessResponse writes a 200 envelope
func SuccessResponse(c *gin.Context, message string, data interface{}) {
	c.JSON(http.StatusOK, APIResponse{
		StatusCode: http.StatusOK,
		Success:    true,
		Message:    message,
		Data:       data,
	})
}

// CreatedResponse writes a 201 envelope
func CreatedResponse(c *gin.Context, message string, data interface{}) {
	c.JSON(http.StatusCreated, APIResponse{
		StatusCode: http.StatusCreated,
		Success:    true,
		Message:    message,
		Data:       data,
	})
}

// PaginatedResponse writes a 200 envelope with pagination meta
func PaginatedResponse(c *gin.Context, message string, data interface{}, meta *Meta) {
	c.JSON(http.StatusOK, APIResponse{
		StatusCode: http.StatusOK,
		Success:    true,
		Message:    message,
		Data:       data,
		Meta:       meta,
	})
}

// ErrorResponse writes a failure envelope. Details of err are only exposed for client errors.
func ErrorResponse(c *gin.Context, status int, message string, err error) {
	details := []string{}
	if err != nil {
		_ = c.Error(err)
		if status < http.StatusInternalServerError && err.Error() != message {
			details = append(details, err.Error())
		}
	}

	c.JSON(status, APIError{
		StatusCode: status,
		Success:    false,
		Message:    message,
		Errors:     details,
	})
}

// HandleError maps err with StatusFor and writes the failure envelope
func HandleError(c *gin.Context, err error) {
	status := StatusFor(err)
	message := err.Error()
	if status == http.StatusInternalServerError {
		message = "internal server error"
	}
	ErrorResponse(c, status, message, err)
}
