package http

import (
	"context"
	"net/http"

	"mcq-practice-service/internal/app"
	"mcq-practice-service/internal/domain"
	"github.com/gin-gonic/gin"
)

// CatalogReader lists the selectable subjects and generating models.
type CatalogReader interface {
	ListSubjects(ctx context.Context) ([]domain.CatalogEntry, error)
	ListModels(ctx context.Context) ([]domain.CatalogEntry, error)
}

// Server exposes the REST surface (question retrieval, rating submission,
// catalog) and the websocket endpoint driving interactive quiz sessions.
type Server struct {
	router    *gin.Engine
	questions app.QuestionRepository
	ratings   app.RatingRecorder
	catalog   CatalogReader
	ws        *WSHandler
}

func NewServer(questions app.QuestionRepository, ratings app.RatingRecorder, catalog CatalogReader, service *app.QuizService) *Server {
	router := gin.New()
	s := &Server{
		router:    router,
		questions: questions,
		ratings:   ratings,
		catalog:   catalog,
		ws:        NewWSHandler(service),
	}
	s.registerMiddleware()
	s.registerRoutes()
	return s
}

// Handler returns the root handler for embedding in an http.Server.
func (s *Server) Handler() http.Handler {
	return s.router
}

func (s *Server) registerRoutes() {
	api := s.router.Group("/api")
	api.GET("/health", s.handleHealth)
	api.GET("/mcqs", s.handleGetMCQs)
	api.POST("/ratings", s.handleSubmitRating)
	api.GET("/subjects", s.handleListSubjects)
	api.GET("/models", s.handleListModels)

	s.router.GET("/ws", gin.WrapF(s.ws.ServeWS))
}
