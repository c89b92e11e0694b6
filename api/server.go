package api

import (
	"github.com/banachtech/riskif/ifunc"
	"github.com/gin-gonic/gin"
	"golang.org/x/time/rate"
)

// Server serves HTTP requests for the influence-function service.
type Server struct {
	engine  *ifunc.Engine
	limiter *rate.Limiter
	router  *gin.Engine
}

// NewServer creates a new HTTP server and sets up routing.
func NewServer() *Server {
	server := &Server{
		engine:  ifunc.NewEngine(nil),
		limiter: rate.NewLimiter(rate.Limit(20), 40),
	}
	server.setupRouter()
	return server
}

func (server *Server) setupRouter() {
	router := gin.Default()

	authRoutes := router.Group("/v1").Use(server.authentication, server.throttle)
	authRoutes.POST("/if", server.influence)
	authRoutes.GET("/estimators", server.estimators)
	server.router = router
}

// Start runs the HTTP server on a specific address.
func (server *Server) Start(address string) error {
	return server.router.Run(address)
}

func errorResponse(err error) gin.H {
	return gin.H{"error": err.Error()}
}
