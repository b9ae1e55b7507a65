package models

import (
	"time"
)

// Location is a single map-pinned post. JSON names follow the browser client.
type Location struct {
	ID          string    `gorm:"primaryKey;size:32" json:"id"`
	Name        string    `gorm:"size:800;not null" json:"name"`
	Description string    `gorm:"type:text;not null" json:"description"`
	Latitude    float64   `gorm:"not null;index:idx_locations_lat" json:"latitude"`
	Longitude   float64   `gorm:"not null" json:"longitude"`
	ImageURL    *string   `gorm:"column:image_url;size:1024" json:"imageUrl"`
	ImageKey    string    `gorm:"size:64" json:"-"`
	Handle      string    `gorm:"size:32;not null" json:"handle"`
	ReportCount int       `gorm:"not null;default:0;index" json:"reportCount"`
	CreatedAt   time.Time `gorm:"index" json:"createdAt"`
}

func (Location) TableName() string {
	return "locations"
}
