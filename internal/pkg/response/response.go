package response

import "github.com/gin-gonic/gin"

// Every endpoint answers with the same envelope: {"success": true,
// "data": ...} or {"success": false, "error": {code, message}}.

func Success(c *gin.Context, statusCode int, data interface{}) {
	c.JSON(statusCode, gin.H{
		"success": true,
		"data":    data,
	})
}

// Paginated wraps a list payload together with the total row count so
// clients can render page controls without a second request.
func Paginated(c *gin.Context, statusCode int, key string, items interface{}, total int64) {
	c.JSON(statusCode, gin.H{
		"success": true,
		"data": gin.H{
			key:     items,
			"total": total,
		},
	})
}

func Error(c *gin.Context, statusCode int, code string, message string) {
	c.JSON(statusCode, gin.H{
		"success": false,
		"error": gin.H{
			"code":    code,
			"message": message,
		},
	})
}

// ErrorWithDetails attaches a machine-readable details value, used for
// per-field validation errors.
func ErrorWithDetails(c *gin.Context, statusCode int, code string, message string, details any) {
	c.JSON(statusCode, gin.H{
		"success": false,
		"error": gin.H{
			"code":    code,
			"message": message,
			"details": details,
		},
	})
}
