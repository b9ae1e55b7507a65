package models

import "time"

// Comment is a reply on a Location. LocationID is not a foreign key: comments
// may reference hidden or never-created locations.
type Comment struct {
	ID         string    `gorm:"primaryKey;size:32" json:"id"`
	LocationID string    `gorm:"size:32;not null;index:idx_comments_location_created,priority:1" json:"locationId"`
	Handle     string    `gorm:"size:32;not null" json:"handle"`
	Comment    string    `gorm:"type:text;not null" json:"comment"`
	CreatedAt  time.Time `gorm:"index:idx_comments_location_created,priority:2" json:"createdAt"`
}

func (Comment) TableName() string {
	return "comments"
}
