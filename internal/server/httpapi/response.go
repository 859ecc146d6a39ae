// Package httpapi exposes the server over HTTP: gin handlers, middleware,
// cookie handling, and the uniform error envelope.
package httpapi

import (
	"github.com/gin-gonic/gin"
)

// Machine-readable error codes carried in the error envelope.
const (
	codeValidation   = "VALIDATION_ERROR"
	codeUnauthorized = "UNAUTHORIZED"
	codeForbidden    = "FORBIDDEN"
	codeNotFound     = "NOT_FOUND"
	codeConflict     = "CONFLICT"
	codeInternal     = "INTERNAL_ERROR"
)

type errorBody struct {
	Message string `json:"message"`
	Code    string `json:"code"`
}

// respondError writes the uniform envelope {"error":{"message":...,"code":...}}
// and aborts the handler chain.
func respondError(c *gin.Context, status int, message, code string) {
	c.AbortWithStatusJSON(status, gin.H{"error": errorBody{Message: message, Code: code}})
}
