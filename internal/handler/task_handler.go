package handler

import (
	"github.com/Pavel0504/crm-master-owl/internal/service"
	"github.com/gin-gonic/gin"
)

type TaskHandler struct {
	svc *service.TaskService
}

func NewTaskHandler(svc *service.TaskService) *TaskHandler {
	return &TaskHandler{svc: svc}
}

// List returns all tasks, or the ones overlapping [from, to] when the
// calendar view passes a range.
func (h *TaskHandler) List(c *gin.Context) {
	from, err := QueryDate(c, "from")
	if err != nil {
		HandleError(c, err)
		return
	}
	to, err := QueryDate(c, "to")
	if err != nil {
		HandleError(c, err)
		return
	}
	userID := GetUserID(c)
	if from != nil && to != nil {
		tasks, err := h.svc.ListRange(userID, *from, *to)
		if err != nil {
			HandleError(c, err)
			return
		}
		Success(c, tasks)
		return
	}
	tasks, err := h.svc.List(userID)
	if err != nil {
		HandleError(c, err)
		return
	}
	Success(c, tasks)
}

func (h *TaskHandler) Create(c *gin.Context) {
	var req service.TaskRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		BadRequest(c, "некорректное тело запроса: "+err.Error())
		return
	}
	task, err := h.svc.Create(GetUserID(c), req)
	if err != nil {
		HandleError(c, err)
		return
	}
	Created(c, task)
}

func (h *TaskHandler) Get(c *gin.Context) {
	task, err := h.svc.Get(GetUserID(c), c.Param("id"))
	if err != nil {
		HandleError(c, err)
		return
	}
	Success(c, task)
}

func (h *TaskHandler) Update(c *gin.Context) {
	var req service.TaskRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		BadRequest(c, "некорректное тело запроса: "+err.Error())
		return
	}
	task, err := h.svc.Update(GetUserID(c), c.Param("id"), req)
	if err != nil {
		HandleError(c, err)
		return
	}
	Success(c, task)
}

type completedRequest struct {
	Completed bool `json:"completed"`
}

// Complete toggles the whole task.
func (h *TaskHandler) Complete(c *gin.Context) {
	var req completedRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		BadRequest(c, "некорректное тело запроса: "+err.Error())
		return
	}
	task, err := h.svc.SetCompleted(GetUserID(c), c.Param("id"), req.Completed)
	if err != nil {
		HandleError(c, err)
		return
	}
	Success(c, task)
}

// CompleteChecklistItem toggles one checklist entry and returns the
// synced task.
func (h *TaskHandler) CompleteChecklistItem(c *gin.Context) {
	var req completedRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		BadRequest(c, "некорректное тело запроса: "+err.Error())
		return
	}
	task, err := h.svc.SetChecklistItem(GetUserID(c), c.Param("itemId"), req.Completed)
	if err != nil {
		HandleError(c, err)
		return
	}
	Success(c, task)
}

func (h *TaskHandler) Delete(c *gin.Context) {
	if err := h.svc.Delete(GetUserID(c), c.Param("id")); err != nil {
		HandleError(c, err)
		return
	}
	Success(c, nil)
}
