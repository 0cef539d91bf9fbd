package httpapi

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/julianstephens/taskmaster/internal/constants"
	"github.com/julianstephens/taskmaster/internal/engine"
	"github.com/julianstephens/taskmaster/internal/models"
	"github.com/julianstephens/taskmaster/internal/taskstore"
)

func ok(c *gin.Context, status int, data interface{}) {
	c.JSON(status, gin.H{
		"success": true,
		"data":    data,
	})
}

func fail(c *gin.Context, err error) {
	status := http.StatusInternalServerError
	switch {
	case errors.Is(err, models.ErrInvalid):
		status = http.StatusBadRequest
	case errors.Is(err, taskstore.ErrNotFound):
		status = http.StatusNotFound
	}
	c.JSON(status, gin.H{
		"success": false,
		"error":   err.Error(),
	})
}

func badRequest(c *gin.Context, err error) {
	c.JSON(http.StatusBadRequest, gin.H{
		"success": false,
		"error":   err.Error(),
	})
}

func (s *Server) handleHealth(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"status":        "healthy",
		"service":       constants.AppName,
		"version":       constants.Version,
		"lastResetDate": s.engine.LastResetDate(),
	})
}

func (s *Server) handleListDaily(c *gin.Context) {
	ok(c, http.StatusOK, s.engine.DailyTasks(c.Request.Context()))
}

func (s *Server) handleAddDaily(c *gin.Context) {
	var t models.Task
	if err := c.ShouldBindJSON(&t); err != nil {
		badRequest(c, err)
		return
	}
	saved, err := s.engine.AddDailyTask(c.Request.Context(), t)
	if err != nil {
		fail(c, err)
		return
	}
	ok(c, http.StatusCreated, saved)
}

func (s *Server) handleListPlanned(c *gin.Context) {
	ok(c, http.StatusOK, s.engine.PlannedTasks())
}

func (s *Server) handleAddPlanned(c *gin.Context) {
	var t models.PlannedTask
	if err := c.ShouldBindJSON(&t); err != nil {
		badRequest(c, err)
		return
	}
	saved, err := s.engine.AddPlannedTask(c.Request.Context(), t)
	if err != nil {
		fail(c, err)
		return
	}
	ok(c, http.StatusCreated, saved)
}

func (s *Server) handleListFree(c *gin.Context) {
	ok(c, http.StatusOK, s.engine.FreeTasks())
}

func (s *Server) handleAddFree(c *gin.Context) {
	var t models.Task
	if err := c.ShouldBindJSON(&t); err != nil {
		badRequest(c, err)
		return
	}
	saved, err := s.engine.AddFreeTask(c.Request.Context(), t)
	if err != nil {
		fail(c, err)
		return
	}
	ok(c, http.StatusCreated, saved)
}

func (s *Server) handleUpdateTask(c *gin.Context) {
	kind, err := models.ParseKind(c.Param("kind"))
	if err != nil {
		fail(c, err)
		return
	}
	var t models.Task
	if err := c.ShouldBindJSON(&t); err != nil {
		badRequest(c, err)
		return
	}
	t.ID = c.Param("id")
	if err := s.engine.UpdateTask(c.Request.Context(), kind, t); err != nil {
		fail(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

func (s *Server) handleToggleTask(c *gin.Context) {
	kind, err := models.ParseKind(c.Param("kind"))
	if err != nil {
		fail(c, err)
		return
	}
	if err := s.engine.ToggleCompletion(c.Request.Context(), c.Param("id"), kind); err != nil {
		fail(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

func (s *Server) handleDeleteTask(c *gin.Context) {
	kind, err := models.ParseKind(c.Param("kind"))
	if err != nil {
		fail(c, err)
		return
	}
	if err := s.engine.DeleteTask(c.Request.Context(), c.Param("id"), kind); err != nil {
		fail(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

func (s *Server) handleReset(c *gin.Context) {
	if err := s.engine.ResetCompletedTasks(c.Request.Context()); err != nil {
		fail(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

func (s *Server) handleListReminders(c *gin.Context) {
	filter, err := models.ParseReminderFilter(c.Query("filter"))
	if err != nil {
		fail(c, err)
		return
	}
	ok(c, http.StatusOK, s.engine.Reminders(filter))
}

func (s *Server) handleAddReminder(c *gin.Context) {
	var r models.Reminder
	if err := c.ShouldBindJSON(&r); err != nil {
		badRequest(c, err)
		return
	}
	saved, err := s.engine.AddReminder(c.Request.Context(), r)
	if err != nil {
		fail(c, err)
		return
	}
	ok(c, http.StatusCreated, saved)
}

func (s *Server) handleDeleteReminder(c *gin.Context) {
	if err := s.engine.DeleteReminder(c.Request.Context(), c.Param("id")); err != nil {
		fail(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

func (s *Server) handleListProjects(c *gin.Context) {
	projects := s.engine.Projects()
	out := make([]engine.ProjectSummary, 0, len(projects))
	for _, p := range projects {
		out = append(out, s.engine.Summarize(p))
	}
	ok(c, http.StatusOK, out)
}

func (s *Server) handleAddProject(c *gin.Context) {
	var p models.Project
	if err := c.ShouldBindJSON(&p); err != nil {
		badRequest(c, err)
		return
	}
	id, err := s.engine.AddProject(c.Request.Context(), p)
	if err != nil {
		fail(c, err)
		return
	}
	saved, err := s.engine.GetProject(id)
	if err != nil {
		fail(c, err)
		return
	}
	ok(c, http.StatusCreated, s.engine.Summarize(saved))
}

func (s *Server) handleGetProject(c *gin.Context) {
	p, err := s.engine.GetProject(c.Param("id"))
	if err != nil {
		fail(c, err)
		return
	}
	ok(c, http.StatusOK, s.engine.Summarize(p))
}

func (s *Server) handleUpdateProject(c *gin.Context) {
	var p models.Project
	if err := c.ShouldBindJSON(&p); err != nil {
		badRequest(c, err)
		return
	}
	p.ID = c.Param("id")
	if err := s.engine.UpdateProject(c.Request.Context(), p); err != nil {
		fail(c, err)
		return
	}
	saved, err := s.engine.GetProject(p.ID)
	if err != nil {
		fail(c, err)
		return
	}
	ok(c, http.StatusOK, s.engine.Summarize(saved))
}

func (s *Server) handleDeleteProject(c *gin.Context) {
	if err := s.engine.DeleteProject(c.Request.Context(), c.Param("id")); err != nil {
		fail(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

func (s *Server) handleAddProjectTask(c *gin.Context) {
	var t models.PlannedTask
	if err := c.ShouldBindJSON(&t); err != nil {
		badRequest(c, err)
		return
	}
	saved, err := s.engine.AddTaskToProject(c.Request.Context(), c.Param("id"), t)
	if err != nil {
		fail(c, err)
		return
	}
	ok(c, http.StatusCreated, saved)
}

func (s *Server) handleUpdateProjectTask(c *gin.Context) {
	var t models.PlannedTask
	if err := c.ShouldBindJSON(&t); err != nil {
		badRequest(c, err)
		return
	}
	t.ID = c.Param("taskId")
	if err := s.engine.UpdateTaskInProject(c.Request.Context(), c.Param("id"), t); err != nil {
		fail(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

func (s *Server) handleDeleteProjectTask(c *gin.Context) {
	if err := s.engine.DeleteTaskFromProject(c.Request.Context(), c.Param("id"), c.Param("taskId")); err != nil {
		fail(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

func (s *Server) handleStats(c *gin.Context) {
	ctx := c.Request.Context()
	ok(c, http.StatusOK, gin.H{
		"days":       s.engine.CompletionStats(ctx),
		"weeklyRate": s.engine.WeeklyRate(ctx),
	})
}

func (s *Server) handleHistory(c *gin.Context) {
	ok(c, http.StatusOK, s.engine.History())
}
