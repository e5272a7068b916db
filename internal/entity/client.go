package entity

import (
	"time"
)

// Client is a customer record with a colored tag for quick filtering.
type Client struct {
	ID         string     `json:"id" gorm:"primaryKey;type:uuid"`
	UserID     string     `json:"user_id" gorm:"type:uuid;not null;index"`
	FullName   string     `json:"full_name" gorm:"size:160;not null"`
	Phone      string     `json:"phone" gorm:"size:32"`
	SocialLink string     `json:"social_link" gorm:"size:255"`
	Address    string     `json:"address" gorm:"size:255"`
	BirthDate  *time.Time `json:"birth_date" gorm:"type:date"`
	TagName    string     `json:"tag_name" gorm:"size:64"`
	TagColor   string     `json:"tag_color" gorm:"size:16"`
	CreatedAt  time.Time  `json:"created_at"`
	UpdatedAt  time.Time  `json:"updated_at"`
}

func (Client) TableName() string {
	return "ws_clients"
}
