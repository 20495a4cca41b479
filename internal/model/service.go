package model

// Service is a bookable offering with a fixed duration.
type Service struct {
	Base
	Name            string  `db:"name" json:"name"`
	Description     string  `db:"description" json:"description"`
	DurationMinutes int     `db:"duration_minutes" json:"duration_minutes"`
	Price           Money  `db:"price" json:"price"`
	Active          bool    `db:"active" json:"active"`
}

const DefaultServiceDuration = 60

type CreateServiceRequest struct {
	Name            string  `json:"name" binding:"required,max=100"`
	Description     string  `json:"description"`
	DurationMinutes int     `json:"duration_minutes" binding:"omitempty,gt=0"`
	Price           Money  `json:"price" binding:"gte=0"`
	Active          *bool   `json:"active"`
}

type UpdateServiceRequest struct {
	Name            *string  `json:"name" binding:"omitempty,max=100"`
	Description     *string  `json:"description"`
	DurationMinutes *int     `json:"duration_minutes" binding:"omitempty,gt=0"`
	Price           *Money   `json:"price" binding:"omitempty,gte=0"`
	Active          *bool    `json:"active"`
}

// ServiceFilters narrows catalog listings.
type ServiceFilters struct {
	ActiveOnly bool
}
