package http

import (
	"github.com/gin-gonic/gin"

	"github.com/example/post-service/internal/service"
	"github.com/example/post-service/internal/transport/http/handlers"
)

type Router = *gin.Engine

func NewRouter(svc *service.PostService) Router {
	if mode := gin.Mode(); mode == "" {
		gin.SetMode(gin.ReleaseMode)
	}
	r := gin.New()
	r.Use(gin.Recovery())

	h := handlers.NewPostHandler(svc)

	r.POST("/posts", h.CreatePost)
	r.GET("/posts", h.GetAllPosts)
	r.GET("/posts/search", h.Search)
	r.GET("/posts/:id", h.GetPost)
	r.PUT("/posts/:id", h.UpdatePost)
	r.PUT("/posts/:id/approve", h.ApprovePost)
	r.DELETE("/posts/:id", h.DeletePost)
	r.GET("/posts/user/:userId", h.GetPostsByUserID)

	return r
}
