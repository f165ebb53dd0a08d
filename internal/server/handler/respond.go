// Package handler implements the JSON API operations.
//
// Every response is a single JSON object carrying either an "error" string or
// a field named after the operation. Transport status stays 200 even for
// validation and race failures so clients watch exactly one error channel.
package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

// Fail renders the uniform error envelope.
func Fail(c *gin.Context, msg string) {
	c.JSON(http.StatusOK, gin.H{"error": msg})
}

// OK renders a successful result under its operation name.
func OK(c *gin.Context, op string, result any) {
	c.JSON(http.StatusOK, gin.H{op: result})
}
