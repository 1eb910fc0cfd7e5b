package httpx

import (
	"net/http"
	"strconv"

	"so101builder/internal/apperrors"

	"github.com/gin-gonic/gin"
)

// StatusFor maps an error code to the HTTP status handlers reply with.
func StatusFor(err error) int {
	switch apperrors.GetCode(err) {
	case apperrors.CodeNotFound:
		return http.StatusNotFound
	case apperrors.CodeValidation, apperrors.CodeInvalidInput:
		return http.StatusBadRequest
	case apperrors.CodeExternalService:
		return http.StatusServiceUnavailable
	default:
		return http.StatusInternalServerError
	}
}

func Error(c *gin.Context, err error) {
	body := gin.H{
		"error": err.Error(),
		"code":  apperrors.GetCode(err),
	}
	if details := apperrors.GetDetails(err); details != nil {
		body["details"] = details
	}
	c.JSON(StatusFor(err), body)
}

// IntParam reads a positive integer path parameter.
func IntParam(c *gin.Context, name string) (int, error) {
	v, err := strconv.Atoi(c.Param(name))
	if err != nil || v <= 0 {
		return 0, apperrors.InvalidInput("invalid " + name)
	}
	return v, nil
}
