package httpapi

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/lewtec/realtor/internal/apperrors"
)

type errorResponse struct {
	Code        string `json:"code"`
	Description string `json:"description"`
}

func statusOf(kind apperrors.Kind) int {
	switch kind {
	case apperrors.KindInvalidIdentifier, apperrors.KindInvalidPayload,
		apperrors.KindInvalidImageData, apperrors.KindMalformedEncoding:
		return http.StatusBadRequest
	case apperrors.KindNotFound:
		return http.StatusNotFound
	default:
		return http.StatusInternalServerError
	}
}

// writeError aborts the request with the structured error body. Server side
// failures keep their detail out of the response; the request logger
// records it.
func writeError(c *gin.Context, err error) {
	kind := apperrors.KindOf(err)
	resp := errorResponse{Code: kind.Code()}
	if kind.Clientside() {
		resp.Description = err.Error()
	}
	_ = c.Error(err)
	c.AbortWithStatusJSON(statusOf(kind), resp)
}
