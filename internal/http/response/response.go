package response

import (
	"github.com/gin-gonic/gin"
	"net/http"
)

type APIError struct {
	Message string `json:"message"`
	Code    string `json:"code,omitempty"`
}

type ErrorEnvelope struct {
	Error APIError `json:"error"`
}

func RespondError(c *gin.Context, status int, code string, err error) {
	msg := "unknown error"
	if err != nil {
		msg = err.Error()
	}
	c.JSON(status, ErrorEnvelope{
		Error: APIError{
			Message: msg,
			Code:    code,
		},
	})
}

func RespondOK(c *gin.Context, payload any) {
	c.JSON(http.StatusOK, payload)
}

// DependentResource mirrors domain.DependentResource without importing the
// domain package here, keeping response a leaf package.
type DependentResource struct {
	Type string `json:"type"`
	ID   uint   `json:"id"`
}

// RespondDependencyViolation writes the 409 envelope spec.md §6 requires
// for a non-cascading delete with existing dependents.
func RespondDependencyViolation(c *gin.Context, dependents []DependentResource) {
	c.JSON(http.StatusConflict, gin.H{
		"error":               "dependency_violation",
		"message":             "resource has dependents; pass ?cascade=true to delete them",
		"dependent_resources": dependents,
	})
}
