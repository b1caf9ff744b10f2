package httpapi

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/lewtec/realtor/internal/apperrors"
	"github.com/lewtec/realtor/internal/codec"
	"github.com/lewtec/realtor/internal/domain"
)

// createListingRequest is the body of POST /realtor_objects. Images are
// base64 encoded.
type createListingRequest struct {
	Name          string   `json:"name" binding:"required"`
	Phone         string   `json:"phone" binding:"required"`
	FullName      string   `json:"fullName" binding:"required"`
	MetroStation  string   `json:"metroStation" binding:"required"`
	MetroDistance *float64 `json:"metroDistance" binding:"required,gte=0"`
	Images        []string `json:"images"`
}

func (r *createListingRequest) listing() domain.NewListing {
	return domain.NewListing{
		Name:               r.Name,
		Phone:              r.Phone,
		ContactFullName:    r.FullName,
		TransitStationName: r.MetroStation,
		TransitDistance:    *r.MetroDistance,
	}
}

type createdResponse struct {
	ID uuid.UUID `json:"id"`
}

type summaryResponse struct {
	ID            uuid.UUID `json:"id"`
	Name          string    `json:"name"`
	MetroStation  string    `json:"metroStation"`
	MetroDistance float64   `json:"metroDistance"`
	Thumbnails    []string  `json:"thumbnails"`
}

type detailResponse struct {
	ID            uuid.UUID `json:"id"`
	Name          string    `json:"name"`
	Phone         string    `json:"phone"`
	FullName      string    `json:"fullName"`
	MetroStation  string    `json:"metroStation"`
	MetroDistance float64   `json:"metroDistance"`
	Images        []string  `json:"images"`
}

// POST /realtor_objects
func (h *Handler) CreateListing(c *gin.Context) {
	var req createListingRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		writeError(c, apperrors.New(apperrors.KindInvalidPayload, "decode request", err))
		return
	}

	id, err := h.svc.CreateListingEncoded(c.Request.Context(), req.listing(), req.Images)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, createdResponse{ID: id})
}

// GET /realtor_objects
func (h *Handler) ListSummaries(c *gin.Context) {
	summaries, err := h.svc.ListSummaries(c.Request.Context())
	if err != nil {
		writeError(c, err)
		return
	}

	resp := make([]summaryResponse, 0, len(summaries))
	for _, s := range summaries {
		resp = append(resp, summaryResponse{
			ID:            s.ID,
			Name:          s.Name,
			MetroStation:  s.TransitStationName,
			MetroDistance: s.TransitDistance,
			Thumbnails:    codec.EncodeAll(s.Thumbnails),
		})
	}
	c.JSON(http.StatusOK, resp)
}

// GET /realtor_objects/:id
func (h *Handler) GetDetail(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		writeError(c, apperrors.New(apperrors.KindInvalidIdentifier, "parse id", err))
		return
	}

	detail, err := h.svc.GetDetail(c.Request.Context(), id)
	if err != nil {
		writeError(c, err)
		return
	}

	c.JSON(http.StatusOK, detailResponse{
		ID:            detail.ID,
		Name:          detail.Name,
		Phone:         detail.Phone,
		FullName:      detail.ContactFullName,
		MetroStation:  detail.TransitStationName,
		MetroDistance: detail.TransitDistance,
		Images:        codec.EncodeAll(detail.Originals()),
	})
}
