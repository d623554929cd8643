package utils

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

// CorrelationIDKey is the gin context key holding the request's correlation
// id. Error envelopes echo it so a client report can be matched to the logs.
const CorrelationIDKey = "correlation_id"

// ResponseData is the JSON envelope every endpoint answers with.
type ResponseData struct {
	Status        int         `json:"status"`
	Message       string      `json:"message"`
	Data          interface{} `json:"data,omitempty"`
	Error         string      `json:"error,omitempty"`
	CorrelationID string      `json:"correlationId,omitempty"`
}

// Success answers 200 with data.
func Success(c *gin.Context, message string, data interface{}) {
	c.JSON(http.StatusOK, ResponseData{
		Status:  http.StatusOK,
		Message: message,
		Data:    data,
	})
}

// Created answers 201 with the new resource.
func Created(c *gin.Context, message string, data interface{}) {
	c.JSON(http.StatusCreated, ResponseData{
		Status:  http.StatusCreated,
		Message: message,
		Data:    data,
	})
}

// Error answers statusCode with a user-safe message and the correlation id,
// when the request carries one.
func Error(c *gin.Context, statusCode int, errorMessage string) {
	c.JSON(statusCode, ResponseData{
		Status:        statusCode,
		Message:       "An error occurred",
		Error:         errorMessage,
		CorrelationID: c.GetString(CorrelationIDKey),
	})
}

func BadRequest(c *gin.Context, errorMessage string) {
	Error(c, http.StatusBadRequest, errorMessage)
}

func Unauthorized(c *gin.Context, errorMessage string) {
	Error(c, http.StatusUnauthorized, errorMessage)
}

func Forbidden(c *gin.Context, errorMessage string) {
	Error(c, http.StatusForbidden, errorMessage)
}

func NotFound(c *gin.Context, errorMessage string) {
	Error(c, http.StatusNotFound, errorMessage)
}

// TooManyRequests is sent by the submission rate limiter.
func TooManyRequests(c *gin.Context, errorMessage string) {
	Error(c, http.StatusTooManyRequests, errorMessage)
}

// BadGateway reports a failed call to the analysis model.
func BadGateway(c *gin.Context, errorMessage string) {
	Error(c, http.StatusBadGateway, errorMessage)
}

// InternalServerError never carries internal detail; the correlation id is
// what links the client to the logged cause.
func InternalServerError(c *gin.Context, errorMessage string) {
	Error(c, http.StatusInternalServerError, errorMessage)
}
