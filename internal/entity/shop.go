package entity

import (
	"database/sql/driver"
	"encoding/json"
	"fmt"
	"time"
)

// JSONMap stores a string map as a JSON column.
type JSONMap map[string]string

// Value implements driver.Valuer.
func (m JSONMap) Value() (driver.Value, error) {
	if m == nil {
		return "{}", nil
	}
	b, err := json.Marshal(m)
	if err != nil {
		return nil, err
	}
	return string(b), nil
}

// Scan implements sql.Scanner.
func (m *JSONMap) Scan(value interface{}) error {
	if value == nil {
		*m = JSONMap{}
		return nil
	}
	var data []byte
	switch v := value.(type) {
	case []byte:
		data = v
	case string:
		data = []byte(v)
	default:
		return fmt.Errorf("unsupported type for JSONMap: %T", value)
	}
	if len(data) == 0 {
		*m = JSONMap{}
		return nil
	}
	return json.Unmarshal(data, m)
}

// Shop is the per-owner workshop profile. One row per user.
type Shop struct {
	ID             string    `json:"id" gorm:"primaryKey;type:uuid"`
	UserID         string    `json:"user_id" gorm:"type:uuid;not null;uniqueIndex"`
	Name           string    `json:"name" gorm:"size:128"`
	Category       string    `json:"category" gorm:"size:64"`
	SocialNetworks JSONMap   `json:"social_networks" gorm:"type:text"`
	Owner          string    `json:"owner" gorm:"size:128"`
	CreatedAt      time.Time `json:"created_at"`
	UpdatedAt      time.Time `json:"updated_at"`
}

func (Shop) TableName() string {
	return "ws_shops"
}
