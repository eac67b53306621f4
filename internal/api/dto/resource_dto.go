package dto

import (
	"time"

	"github.com/spec-kit/access-control-api/internal/domain"
)

// ResourceResponse mirrors a protected resource.
type ResourceResponse struct {
	ID          string    `json:"id"`
	Name        string    `json:"name"`
	Description string    `json:"description"`
	Tier        string    `json:"tier"`
	CreatedAt   time.Time `json:"created_at"`
}

// NewResourceResponses maps domain resources onto the wire shape.
func NewResourceResponses(resources []domain.Resource) []ResourceResponse {
	out := make([]ResourceResponse, 0, len(resources))
	for _, res := range resources {
		out = append(out, ResourceResponse{
			ID:          res.ID,
			Name:        res.Name,
			Description: res.Description,
			Tier:        string(res.Tier),
			CreatedAt:   res.CreatedAt,
		})
	}
	return out
}
