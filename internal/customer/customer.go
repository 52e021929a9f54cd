package customer

import (
	"time"

	customerDatamodel "github.com/frahmantamala/pos-platform/internal/core/datamodel/customer"
)

type Customer struct {
	ID            int64     `json:"id"`
	Name          string    `json:"name"`
	Phone         *string   `json:"phone,omitempty"`
	Email         string    `json:"email,omitempty"`
	Notes         string    `json:"notes,omitempty"`
	LoyaltyPoints int64     `json:"loyaltyPoints"`
	CreatedAt     time.Time `json:"createdAt"`
	UpdatedAt     time.Time `json:"updatedAt"`
}

func FromDataModel(c *customerDatamodel.Customer) *Customer {
	return &Customer{
		ID:            c.ID,
		Name:          c.Name,
		Phone:         c.Phone,
		Email:         c.Email,
		Notes:         c.Notes,
		LoyaltyPoints: c.LoyaltyPoints,
		CreatedAt:     c.CreatedAt,
		UpdatedAt:     c.UpdatedAt,
	}
}
