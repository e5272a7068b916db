package repository

import (
	"errors"
	"time"

	"github.com/Pavel0504/crm-master-owl/internal/apperr"
	"github.com/Pavel0504/crm-master-owl/internal/entity"
	"gorm.io/gorm"
)

type TaskRepository struct {
	db *gorm.DB
}

func NewTaskRepository(db *gorm.DB) *TaskRepository {
	return &TaskRepository{db: db}
}

// DB returns the underlying handle for transactions.
func (r *TaskRepository) DB() *gorm.DB {
	return r.db
}

// Create inserts the task together with its checklist rows.
func (r *TaskRepository) Create(t *entity.Task) error {
	return r.db.Create(t).Error
}

func (r *TaskRepository) GetByID(userID, id string) (*entity.Task, error) {
	var t entity.Task
	err := r.db.Preload("Checklist", func(db *gorm.DB) *gorm.DB {
		return db.Order("order_index ASC")
	}).Where("id = ? AND user_id = ?", id, userID).First(&t).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, apperr.ErrNotFound
	}
	return &t, err
}

func (r *TaskRepository) Update(t *entity.Task) error {
	return r.db.Save(t).Error
}

func (r *TaskRepository) Delete(userID, id string) error {
	return r.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("task_id = ?", id).Delete(&entity.TaskChecklistItem{}).Error; err != nil {
			return err
		}
		return tx.Where("id = ? AND user_id = ?", id, userID).Delete(&entity.Task{}).Error
	})
}

func (r *TaskRepository) List(userID string) ([]entity.Task, error) {
	var tasks []entity.Task
	err := r.db.Preload("Checklist", func(db *gorm.DB) *gorm.DB {
		return db.Order("order_index ASC")
	}).Where("user_id = ?", userID).Order("created_at DESC").Find(&tasks).Error
	return tasks, err
}

// ListByDateRange returns tasks overlapping [from, to], for the week
// calendar.
func (r *TaskRepository) ListByDateRange(userID string, from, to time.Time) ([]entity.Task, error) {
	var tasks []entity.Task
	err := r.db.Preload("Checklist", func(db *gorm.DB) *gorm.DB {
		return db.Order("order_index ASC")
	}).Where("user_id = ? AND start_date <= ? AND end_date >= ?", userID, to, from).
		Order("end_date ASC").Find(&tasks).Error
	return tasks, err
}

// ListIncompleteEndingBy returns incomplete tasks ending in [from, to],
// for the deadline scan.
func (r *TaskRepository) ListIncompleteEndingBy(userID string, from, to time.Time) ([]entity.Task, error) {
	var tasks []entity.Task
	err := r.db.
		Where("user_id = ? AND completed = ? AND end_date >= ? AND end_date <= ?",
			userID, false, from, to).
		Find(&tasks).Error
	return tasks, err
}

// ReplaceChecklist swaps the checklist rows for a task.
func (r *TaskRepository) ReplaceChecklist(tx *gorm.DB, taskID string, items []entity.TaskChecklistItem) error {
	if err := tx.Where("task_id = ?", taskID).Delete(&entity.TaskChecklistItem{}).Error; err != nil {
		return err
	}
	for i := range items {
		if err := tx.Create(&items[i]).Error; err != nil {
			return err
		}
	}
	return nil
}

func (r *TaskRepository) GetChecklistItem(id string) (*entity.TaskChecklistItem, error) {
	var item entity.TaskChecklistItem
	err := r.db.Where("id = ?", id).First(&item).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, apperr.ErrNotFound
	}
	return &item, err
}

func (r *TaskRepository) UpdateChecklistItem(item *entity.TaskChecklistItem) error {
	return r.db.Save(item).Error
}

// CountOpenChecklistItems counts unfinished checklist rows of a task.
func (r *TaskRepository) CountOpenChecklistItems(taskID string) (int64, error) {
	var n int64
	err := r.db.Model(&entity.TaskChecklistItem{}).
		Where("task_id = ? AND completed = ?", taskID, false).Count(&n).Error
	return n, err
}
