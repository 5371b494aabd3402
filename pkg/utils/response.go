package utils

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

// SuccessResponse sends {success, data} with status 200
func SuccessResponse(c *gin.Context, data interface{}) {
	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"data":    data,
	})
}

// CreatedResponse sends {success, message, data} with status 201
func CreatedResponse(c *gin.Context, message string, data interface{}) {
	c.JSON(http.StatusCreated, gin.H{
		"success": true,
		"message": message,
		"data":    data,
	})
}

// CountResponse sends {success, count}
func CountResponse(c *gin.Context, count int64) {
	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"count":   count,
	})
}

// ListResponse sends {success, count, data} where count is len(data)
func ListResponse[T any](c *gin.Context, items []T) {
	if items == nil {
		items = []T{}
	}
	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"count":   len(items),
		"data":    items,
	})
}

// ErrorResponse sends {success: false, message}
func ErrorResponse(c *gin.Context, statusCode int, message string) {
	c.JSON(statusCode, gin.H{
		"success": false,
		"message": message,
	})
}

// MessageResponse sends a simple message response
func MessageResponse(c *gin.Context, message string) {
	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"message": message,
	})
}
