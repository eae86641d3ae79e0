package server

import (
	"errors"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/sandeepkv93/studytime/internal/model"
	"github.com/sandeepkv93/studytime/internal/storage"
)

type createRequest struct {
	ID              string         `json:"id"`
	Title           string         `json:"title"`
	Description     string         `json:"description"`
	Due             string         `json:"due"`
	Priority        model.Priority `json:"priority"`
	Completed       bool           `json:"completed"`
	DurationMinutes int            `json:"durationMinutes"`
}

func (s *Server) handleHealth(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"ok": true})
}

func (s *Server) handleList(c *gin.Context) {
	tasks, err := s.repo.ListTasks(c.Request.Context(), storage.TaskListFilter{})
	if err != nil {
		s.fail(c, http.StatusInternalServerError, err)
		return
	}
	c.JSON(http.StatusOK, tasks)
}

func (s *Server) handleCreate(c *gin.Context) {
	var req createRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		s.fail(c, http.StatusBadRequest, err)
		return
	}
	in := model.NewTaskInput{
		Title:           req.Title,
		Description:     req.Description,
		Due:             req.Due,
		Priority:        req.Priority,
		DurationMinutes: req.DurationMinutes,
	}
	if err := in.Validate(); err != nil {
		s.fail(c, http.StatusUnprocessableEntity, err)
		return
	}

	id := strings.TrimSpace(req.ID)
	if id == "" {
		id = s.newID()
	} else if _, err := s.repo.GetTask(c.Request.Context(), id); err == nil {
		c.JSON(http.StatusConflict, gin.H{"error": "task already exists"})
		return
	}

	task := model.NewTask(in, id, s.now())
	task.Completed = req.Completed
	if err := s.repo.CreateTask(c.Request.Context(), task); err != nil {
		s.fail(c, http.StatusInternalServerError, err)
		return
	}
	c.JSON(http.StatusCreated, task)
}

func (s *Server) handlePatch(c *gin.Context) {
	var patch model.TaskPatch
	if err := c.ShouldBindJSON(&patch); err != nil {
		s.fail(c, http.StatusBadRequest, err)
		return
	}
	if err := patch.Validate(); err != nil {
		s.fail(c, http.StatusUnprocessableEntity, err)
		return
	}

	ctx := c.Request.Context()
	task, err := s.repo.GetTask(ctx, c.Param("id"))
	if err != nil {
		s.failLookup(c, err)
		return
	}
	task = patch.Apply(task).Touch(s.now())
	if err := s.repo.UpdateTask(ctx, task); err != nil {
		s.failLookup(c, err)
		return
	}
	c.JSON(http.StatusOK, task)
}

func (s *Server) handleDelete(c *gin.Context) {
	if err := s.repo.DeleteTask(c.Request.Context(), c.Param("id")); err != nil {
		s.failLookup(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"ok": true})
}

func (s *Server) failLookup(c *gin.Context, err error) {
	if errors.Is(err, storage.ErrNotFound) {
		c.JSON(http.StatusNotFound, gin.H{"error": "task not found"})
		return
	}
	s.fail(c, http.StatusInternalServerError, err)
}

func (s *Server) fail(c *gin.Context, status int, err error) {
	if status >= http.StatusInternalServerError {
		s.logger.Printf("server=error method=%s path=%s error=%q", c.Request.Method, c.FullPath(), err)
		c.JSON(status, gin.H{"error": "internal error"})
		return
	}
	c.JSON(status, gin.H{"error": err.Error()})
}
