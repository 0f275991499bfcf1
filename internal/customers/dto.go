package customers

import (
	"github.com/google/uuid"
	"github.com/loftmebel/loft-backend/pkg/db/models"
)

// ProfileDTO is the customer-facing profile payload.
type ProfileDTO struct {
	CustomerID uuid.UUID  `json:"customer_id"`
	Email      string     `json:"email"`
	FirstName  string     `json:"first_name"`
	LastName   string     `json:"last_name"`
	Phone      *string    `json:"phone,omitempty"`
	Address    *string    `json:"address,omitempty"`
	CityID     *uuid.UUID `json:"city_id,omitempty"`
	CityName   *string    `json:"city_name,omitempty"`
}

// RegionDTO lists a delivery region with its cities.
type RegionDTO struct {
	ID     uuid.UUID `json:"id"`
	Name   string    `json:"name"`
	Cities []CityDTO `json:"cities"`
}

// CityDTO is a single deliverable city.
type CityDTO struct {
	ID   uuid.UUID `json:"id"`
	Name string    `json:"name"`
}

func toProfileDTO(customer models.Customer) ProfileDTO {
	dto := ProfileDTO{
		CustomerID: customer.ID,
		Phone:      customer.Phone,
		Address:    customer.Address,
		CityID:     customer.CityID,
	}
	if customer.User != nil {
		dto.Email = customer.User.Email
		dto.FirstName = customer.User.FirstName
		dto.LastName = customer.User.LastName
	}
	if customer.City != nil {
		dto.CityName = &customer.City.Name
	}
	return dto
}

func toRegionDTO(region models.Region) RegionDTO {
	cities := make([]CityDTO, 0, len(region.Cities))
	for _, city := range region.Cities {
		cities = append(cities, CityDTO{ID: city.ID, Name: city.Name})
	}
	return RegionDTO{ID: region.ID, Name: region.Name, Cities: cities}
}
