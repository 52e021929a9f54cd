package customer

import "time"

type Customer struct {
	ID            int64     `gorm:"primaryKey"`
	Name          string    `gorm:"column:name"`
	Phone         *string   `gorm:"column:phone;uniqueIndex"`
	Email         string    `gorm:"column:email"`
	Notes         string    `gorm:"column:notes"`
	LoyaltyPoints int64     `gorm:"column:loyalty_points;not null;default:0"`
	CreatedAt     time.Time `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt     time.Time `gorm:"column:updated_at;autoUpdateTime"`
}

func (Customer) TableName() string {
	return "customers"
}
