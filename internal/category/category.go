package category

import (
	"time"

	categoryDatamodel "github.com/frahmantamala/pos-platform/internal/core/datamodel/category"
)

// Category groups products for the catalogue and reports. Products may link
// several categories; only active ones accept new links.
type Category struct {
	ID          int64     `json:"id"`
	Name        string    `json:"name"`
	Description string    `json:"description"`
	IsActive    bool      `json:"isActive"`
	CreatedAt   time.Time `json:"createdAt"`
	UpdatedAt   time.Time `json:"updatedAt"`
}

func newCategory(dto CreateCategoryDTO, now time.Time) *Category {
	return &Category{
		Name:        dto.Name,
		Description: dto.Description,
		IsActive:    true,
		CreatedAt:   now,
		UpdatedAt:   now,
	}
}

// deactivate reports whether the category changed.
func (c *Category) deactivate(now time.Time) bool {
	if !c.IsActive {
		return false
	}
	c.IsActive = false
	c.UpdatedAt = now
	return true
}

func (c *Category) toRow() *categoryDatamodel.Category {
	return &categoryDatamodel.Category{
		ID:          c.ID,
		Name:        c.Name,
		Description: c.Description,
		IsActive:    c.IsActive,
		CreatedAt:   c.CreatedAt,
		UpdatedAt:   c.UpdatedAt,
	}
}

func fromRow(row *categoryDatamodel.Category) *Category {
	c := Category(*row)
	return &c
}
