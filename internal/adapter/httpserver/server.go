// Package httpserver exposes the command handler over HTTP for chat platforms.
package httpserver

import (
	"context"
	"crypto/subtle"
	"errors"
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"spreedly-bot/internal/adapter/slack"
	"spreedly-bot/internal/domain/model"
	"spreedly-bot/internal/domain/ports"
	"spreedly-bot/internal/usecase"
)

const (
	requestIDHeader    = "X-Request-ID"
	commandTokenHeader = "X-Command-Token"
	requestIDKey       = "request_id"
)

// CommandRunner executes one chat command.
type CommandRunner interface {
	Handle(ctx context.Context, req usecase.CommandRequest) model.DisplayPayload
}

// Server is the bot's HTTP endpoint.
type Server struct {
	runner CommandRunner
	logger ports.Logger
	secret string
	router *gin.Engine
	http   *http.Server
}

// commandBody accepts both Slack slash-command forms and plain JSON.
type commandBody struct {
	Text     string `form:"text" json:"text"`
	User     string `form:"user_name" json:"user"`
	Token    string `form:"token" json:"token"`
	Channel  string `form:"channel_name" json:"channel"`
	TeamName string `form:"team_domain" json:"team"`
}

// New builds the server. An empty secret disables the shared-token check.
func New(addr, secret string, runner CommandRunner, logger ports.Logger) *Server {
	router := gin.New()
	router.Use(gin.Recovery())

	s := &Server{
		runner: runner,
		logger: logger,
		secret: secret,
		router: router,
		http: &http.Server{
			Addr:              addr,
			Handler:           router,
			ReadHeaderTimeout: 10 * time.Second,
		},
	}

	router.Use(s.requestID, s.accessLog)
	router.GET("/healthz", s.handleHealth)
	router.POST("/commands", s.handleCommand)

	return s
}

// Handler returns the underlying http.Handler.
func (s *Server) Handler() http.Handler {
	return s.router
}

// ListenAndServe blocks serving requests until Shutdown is called.
func (s *Server) ListenAndServe() error {
	if err := s.http.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}

// Shutdown gracefully stops the server.
func (s *Server) Shutdown(ctx context.Context) error {
	return s.http.Shutdown(ctx)
}

func (s *Server) requestID(c *gin.Context) {
	id := strings.TrimSpace(c.GetHeader(requestIDHeader))
	if id == "" {
		id = uuid.New().String()
	}
	c.Set(requestIDKey, id)
	c.Header(requestIDHeader, id)
	c.Next()
}

func (s *Server) accessLog(c *gin.Context) {
	start := time.Now()
	c.Next()
	s.logger.Info(c.Request.Context(), "http request",
		"request_id", c.GetString(requestIDKey),
		"method", c.Request.Method,
		"path", c.Request.URL.Path,
		"status", c.Writer.Status(),
		"duration", time.Since(start))
}

func (s *Server) handleHealth(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}

func (s *Server) handleCommand(c *gin.Context) {
	var body commandBody
	if err := c.ShouldBind(&body); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid command body"})
		return
	}

	if !s.authorized(c, body.Token) {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "unauthorized"})
		return
	}

	payload := s.runner.Handle(c.Request.Context(), usecase.CommandRequest{
		Text:      body.Text,
		Actor:     body.User,
		RequestID: c.GetString(requestIDKey),
	})

	c.JSON(http.StatusOK, slack.Render(payload))
}

func (s *Server) authorized(c *gin.Context, bodyToken string) bool {
	if s.secret == "" {
		return true
	}
	token := c.GetHeader(commandTokenHeader)
	if token == "" {
		token = bodyToken
	}
	return subtle.ConstantTimeCompare([]byte(token), []byte(s.secret)) == 1
}
