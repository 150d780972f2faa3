package http

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"questline.io/questline/internal/config"
	"questline.io/questline/pkg/log"
)

// Server wires the gamification API handlers to their store.
type Server struct {
	store         Store
	sessionCookie string
}

func newServer(store Store, sessionCookie string) *Server {
	return &Server{store: store, sessionCookie: sessionCookie}
}

func (s *Server) router(rateLimitPerMinute int) *gin.Engine {
	router := gin.Default()
	router.Use(gin.Recovery())
	router.GET("/hello", func(ctx *gin.Context) {
		ctx.JSONP(http.StatusOK, map[string]interface{}{
			"hello": "world",
		})
	})

	api := router.Group("/api")
	if rateLimitPerMinute > 0 {
		api.Use(rateLimit(rateLimitPerMinute))
	}
	api.POST("/webhook/form", s.completeChallenge)
	api.GET("/awards/:id", s.awardStatus)
	api.GET("/awards/:id/detail", s.awardDetail)
	api.POST("/awards/:id", s.redeemAward)
	api.GET("/admin/verify-award", s.verifyAward)
	return router
}

// NewServer builds the router from global config and serves it. Blocks.
func NewServer() {
	s := newServer(NewStore(), config.Global.HTTP.SessionCookie)
	router := s.router(config.Global.HTTP.RateLimitPerMinute)
	addr := config.Global.HTTP.ListenAddr
	if addr == "" {
		addr = ":8080"
	}
	if err := router.Run(addr); err != nil {
		log.Fatal(err)
	}
}
