package service

import (
	"fmt"
	"time"

	"github.com/Pavel0504/crm-master-owl/internal/apperr"
	"github.com/Pavel0504/crm-master-owl/internal/entity"
	"github.com/Pavel0504/crm-master-owl/internal/repository"
	"github.com/google/uuid"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

// TaskService manages planner tasks. Task status, the Completed flag and
// checklist completion move together: ticking the last checklist item
// completes the task, unticking any item reopens it.
type TaskService struct {
	tasks  *repository.TaskRepository
	logger *zap.Logger
}

func NewTaskService(tasks *repository.TaskRepository, logger *zap.Logger) *TaskService {
	return &TaskService{tasks: tasks, logger: logger}
}

type ChecklistItemRequest struct {
	Title     string `json:"title" binding:"required"`
	Completed bool   `json:"completed"`
}

type TaskRequest struct {
	Title       string                 `json:"title" binding:"required"`
	StartDate   time.Time              `json:"start_date" binding:"required"`
	EndDate     time.Time              `json:"end_date" binding:"required"`
	Description string                 `json:"description"`
	Tag         string                 `json:"tag"`
	Priority    string                 `json:"priority"`
	Checklist   []ChecklistItemRequest `json:"checklist"`
}

func (s *TaskService) validate(req TaskRequest) error {
	if req.EndDate.Before(req.StartDate) {
		return apperr.Validation("end_date", "дата окончания раньше даты начала")
	}
	if req.Priority != "" && !entity.KnownTaskPriority(req.Priority) {
		return apperr.Validation("priority", "неизвестный приоритет")
	}
	return nil
}

func buildChecklist(taskID string, items []ChecklistItemRequest) []entity.TaskChecklistItem {
	out := make([]entity.TaskChecklistItem, 0, len(items))
	for i, item := range items {
		out = append(out, entity.TaskChecklistItem{
			ID:         uuid.New().String(),
			TaskID:     taskID,
			Title:      item.Title,
			Completed:  item.Completed,
			OrderIndex: i,
		})
	}
	return out
}

func checklistDone(items []entity.TaskChecklistItem) bool {
	if len(items) == 0 {
		return false
	}
	for _, item := range items {
		if !item.Completed {
			return false
		}
	}
	return true
}

func (s *TaskService) Create(userID string, req TaskRequest) (*entity.Task, error) {
	if err := s.validate(req); err != nil {
		return nil, err
	}
	priority := req.Priority
	if priority == "" {
		priority = entity.TaskPriorityMedium
	}
	t := &entity.Task{
		ID:          uuid.New().String(),
		UserID:      userID,
		Title:       req.Title,
		StartDate:   req.StartDate,
		EndDate:     req.EndDate,
		Description: req.Description,
		Tag:         req.Tag,
		Priority:    priority,
		Status:      entity.TaskStatusActive,
	}
	t.Checklist = buildChecklist(t.ID, req.Checklist)
	if checklistDone(t.Checklist) {
		t.Completed = true
		t.Status = entity.TaskStatusDone
	}
	if err := s.tasks.Create(t); err != nil {
		return nil, fmt.Errorf("создание задачи: %w", err)
	}
	s.logger.Info("task created", zap.String("task_id", t.ID), zap.String("user_id", userID))
	return t, nil
}

func (s *TaskService) Get(userID, id string) (*entity.Task, error) {
	return s.tasks.GetByID(userID, id)
}

func (s *TaskService) List(userID string) ([]entity.Task, error) {
	return s.tasks.List(userID)
}

// ListRange returns tasks overlapping [from, to], for the calendar view.
func (s *TaskService) ListRange(userID string, from, to time.Time) ([]entity.Task, error) {
	if to.Before(from) {
		return nil, apperr.Validation("to", "конец периода раньше начала")
	}
	return s.tasks.ListByDateRange(userID, from, to)
}

// Update replaces the task fields and its whole checklist, then derives
// completion from the new checklist state.
func (s *TaskService) Update(userID, id string, req TaskRequest) (*entity.Task, error) {
	if err := s.validate(req); err != nil {
		return nil, err
	}
	t, err := s.tasks.GetByID(userID, id)
	if err != nil {
		return nil, err
	}
	t.Title = req.Title
	t.StartDate = req.StartDate
	t.EndDate = req.EndDate
	t.Description = req.Description
	t.Tag = req.Tag
	if req.Priority != "" {
		t.Priority = req.Priority
	}
	items := buildChecklist(t.ID, req.Checklist)
	t.Completed = checklistDone(items)
	if t.Completed {
		t.Status = entity.TaskStatusDone
	} else {
		t.Status = entity.TaskStatusActive
	}
	err = s.tasks.DB().Transaction(func(tx *gorm.DB) error {
		if err := s.tasks.ReplaceChecklist(tx, t.ID, items); err != nil {
			return err
		}
		t.Checklist = nil
		return tx.Save(t).Error
	})
	if err != nil {
		return nil, fmt.Errorf("обновление задачи: %w", err)
	}
	return s.tasks.GetByID(userID, id)
}

// SetCompleted toggles the whole task. Marking it done also ticks every
// checklist item; reopening unticks nothing.
func (s *TaskService) SetCompleted(userID, id string, completed bool) (*entity.Task, error) {
	t, err := s.tasks.GetByID(userID, id)
	if err != nil {
		return nil, err
	}
	t.Completed = completed
	if completed {
		t.Status = entity.TaskStatusDone
	} else {
		t.Status = entity.TaskStatusActive
	}
	err = s.tasks.DB().Transaction(func(tx *gorm.DB) error {
		if completed {
			if err := tx.Model(&entity.TaskChecklistItem{}).
				Where("task_id = ?", t.ID).
				Update("completed", true).Error; err != nil {
				return err
			}
		}
		t.Checklist = nil
		return tx.Save(t).Error
	})
	if err != nil {
		return nil, fmt.Errorf("изменение статуса задачи: %w", err)
	}
	return s.tasks.GetByID(userID, id)
}

// SetChecklistItem ticks one checklist entry and syncs the parent task:
// the task completes when its last open item closes and reopens when a
// completed item is unticked.
func (s *TaskService) SetChecklistItem(userID, itemID string, completed bool) (*entity.Task, error) {
	item, err := s.tasks.GetChecklistItem(itemID)
	if err != nil {
		return nil, err
	}
	t, err := s.tasks.GetByID(userID, item.TaskID)
	if err != nil {
		return nil, err
	}
	item.Completed = completed
	if err := s.tasks.UpdateChecklistItem(item); err != nil {
		return nil, fmt.Errorf("обновление пункта чеклиста: %w", err)
	}
	open, err := s.tasks.CountOpenChecklistItems(t.ID)
	if err != nil {
		return nil, err
	}
	done := open == 0
	if done != t.Completed {
		t.Completed = done
		if done {
			t.Status = entity.TaskStatusDone
		} else {
			t.Status = entity.TaskStatusActive
		}
		t.Checklist = nil
		if err := s.tasks.Update(t); err != nil {
			return nil, fmt.Errorf("синхронизация задачи: %w", err)
		}
	}
	return s.tasks.GetByID(userID, t.ID)
}

func (s *TaskService) Delete(userID, id string) error {
	if _, err := s.tasks.GetByID(userID, id); err != nil {
		return err
	}
	return s.tasks.Delete(userID, id)
}
