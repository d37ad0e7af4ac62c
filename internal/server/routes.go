package server

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/alexanderramin/intake/internal/domain"
	"github.com/alexanderramin/intake/internal/session"
)

type chatRequest struct {
	Message *string `json:"message" binding:"required"`
}

type chatResponse struct {
	SessionID string `json:"session_id"`
	Response  string `json:"response"`
	Completed bool   `json:"completed"`
}

type sessionResponse struct {
	SessionID    string        `json:"session_id"`
	Data         *domain.State `json:"data"`
	NextQuestion *string       `json:"next_question"`
}

func registerRoutes(router *gin.Engine, opts Options) {
	router.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})
	if opts.Metrics != nil {
		router.GET("/metrics", gin.WrapH(opts.Metrics))
	}

	router.POST("/sessions", handleCreate(opts.Sessions))
	router.POST("/sessions/:id/chat", handleChat(opts.Sessions))
	router.GET("/sessions/:id", handleGet(opts.Sessions))
	router.DELETE("/sessions/:id", handleDelete(opts.Sessions))
}

func handleCreate(sessions Sessions) gin.HandlerFunc {
	return func(c *gin.Context) {
		snap, err := sessions.Create(c.Request.Context())
		if err != nil {
			writeError(c, err)
			return
		}
		c.JSON(http.StatusCreated, toSessionResponse(snap))
	}
}

func handleChat(sessions Sessions) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req chatRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"detail": "request body must be JSON with a message field"})
			return
		}
		id := c.Param("id")
		reply, err := sessions.Chat(c.Request.Context(), id, *req.Message)
		if err != nil {
			writeError(c, err)
			return
		}
		c.JSON(http.StatusOK, chatResponse{
			SessionID: id,
			Response:  reply.Text,
			Completed: reply.Completed(),
		})
	}
}

func handleGet(sessions Sessions) gin.HandlerFunc {
	return func(c *gin.Context) {
		snap, err := sessions.Get(c.Request.Context(), c.Param("id"))
		if err != nil {
			writeError(c, err)
			return
		}
		c.JSON(http.StatusOK, toSessionResponse(snap))
	}
}

func handleDelete(sessions Sessions) gin.HandlerFunc {
	return func(c *gin.Context) {
		if err := sessions.Delete(c.Request.Context(), c.Param("id")); err != nil {
			writeError(c, err)
			return
		}
		c.JSON(http.StatusOK, gin.H{"detail": "Session deleted"})
	}
}

func toSessionResponse(snap session.Snapshot) sessionResponse {
	resp := sessionResponse{SessionID: snap.SessionID, Data: snap.Document}
	if snap.NextQuestion != "" {
		q := snap.NextQuestion
		resp.NextQuestion = &q
	}
	return resp
}

func writeError(c *gin.Context, err error) {
	if errors.Is(err, session.ErrSessionNotFound) {
		c.JSON(http.StatusNotFound, gin.H{"detail": "Session not found"})
		return
	}
	_ = c.Error(err)
	c.JSON(http.StatusInternalServerError, gin.H{"detail": "internal error"})
}
