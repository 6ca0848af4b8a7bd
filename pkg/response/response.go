package response

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

// ErrorBody is the uniform error envelope returned by the gateway.
// The backend's own error bodies are passed through untouched; this
// envelope covers failures that happen inside the gateway itself.
type ErrorBody struct {
	Detail string `json:"detail"`
	Error  string `json:"error,omitempty"`
}

// BackendUnreachable reports that the backend could not be reached.
// The caller never sees a stack trace, only the short transport message.
func BackendUnreachable(c *gin.Context, err error) {
	body := ErrorBody{Detail: "Failed to connect to backend"}
	if err != nil {
		body.Error = err.Error()
	}
	c.JSON(http.StatusInternalServerError, body)
}

// InvalidBackendResponse reports that the backend returned unparsable JSON.
func InvalidBackendResponse(c *gin.Context) {
	c.JSON(http.StatusInternalServerError, ErrorBody{Detail: "Invalid response from backend"})
}

// Detail writes an error envelope with the given status and message.
func Detail(c *gin.Context, status int, detail string) {
	c.JSON(status, ErrorBody{Detail: detail})
}

// NotFound reports an unknown gateway route.
func NotFound(c *gin.Context, detail string) {
	Detail(c, http.StatusNotFound, detail)
}
