package domain

import "time"

// ResourceTier separates generally accessible resources from admin-only ones.
type ResourceTier string

const (
	TierGeneral ResourceTier = "general"
	TierAdmin   ResourceTier = "admin"
)

// Resource is a protected item served through the tiered endpoints.
type Resource struct {
	ID          string
	Name        string
	Description string
	Tier        ResourceTier
	CreatedAt   time.Time
}
