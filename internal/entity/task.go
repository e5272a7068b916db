package entity

import (
	"time"
)

// Task priorities.
const (
	TaskPriorityLow    = "низкая"
	TaskPriorityMedium = "средняя"
	TaskPriorityHigh   = "высокая"
)

// Task statuses, kept in sync with the Completed flag.
const (
	TaskStatusActive = "активная"
	TaskStatusDone   = "завершена"
)

// KnownTaskPriority reports whether p is one of the task priorities.
func KnownTaskPriority(p string) bool {
	return p == TaskPriorityLow || p == TaskPriorityMedium || p == TaskPriorityHigh
}

// Task is a planner entry with an ordered checklist.
type Task struct {
	ID          string    `json:"id" gorm:"primaryKey;type:uuid"`
	UserID      string    `json:"user_id" gorm:"type:uuid;not null;index"`
	Title       string    `json:"title" gorm:"size:200;not null"`
	StartDate   time.Time `json:"start_date" gorm:"type:date;not null"`
	EndDate     time.Time `json:"end_date" gorm:"type:date;not null"`
	Description string    `json:"description" gorm:"type:text"`
	Tag         string    `json:"tag" gorm:"size:64"`
	Priority    string    `json:"priority" gorm:"size:16;not null"`
	Status      string    `json:"status" gorm:"size:16;not null"`
	Completed   bool      `json:"completed" gorm:"not null;default:false"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`

	Checklist []TaskChecklistItem `json:"checklist,omitempty" gorm:"foreignKey:TaskID"`
}

func (Task) TableName() string {
	return "ws_tasks"
}

// TaskChecklistItem is one checklist entry, ordered by OrderIndex.
type TaskChecklistItem struct {
	ID         string    `json:"id" gorm:"primaryKey;type:uuid"`
	TaskID     string    `json:"task_id" gorm:"type:uuid;not null;index"`
	Title      string    `json:"title" gorm:"size:200;not null"`
	Completed  bool      `json:"completed" gorm:"not null;default:false"`
	OrderIndex int       `json:"order_index" gorm:"not null;default:0"`
	CreatedAt  time.Time `json:"created_at"`
}

func (TaskChecklistItem) TableName() string {
	return "ws_task_checklist_items"
}
