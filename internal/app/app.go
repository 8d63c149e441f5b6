package app

import (
	"context"
	"fmt"
	"log"
	"time"

	"github.com/example/post-service/internal/cache"
	"github.com/example/post-service/internal/config"
	"github.com/example/post-service/internal/db"
	"github.com/example/post-service/internal/models"
	"github.com/example/post-service/internal/repository"
	"github.com/example/post-service/internal/search"
	"github.com/example/post-service/internal/service"
	"github.com/example/post-service/internal/transport/http"
	"github.com/example/post-service/internal/userclient"
)

type Application struct {
	Config *config.Config
	DB     *db.Database
	Cache  *cache.RedisClient
	Search *search.Elastic
	Router http.Router
}

func Initialize() (*Application, error) {
	cfg := config.Load()

	database, err := db.Connect(cfg)
	if err != nil {
		return nil, fmt.Errorf("db connect: %w", err)
	}

	if err := database.AutoMigrate(&models.Post{}, &models.ActivityLog{}); err != nil {
		return nil, fmt.Errorf("db migrate: %w", err)
	}

	redisClient, err := cache.NewRedisClient(cfg)
	if err != nil {
		return nil, fmt.Errorf("redis: %w", err)
	}

	es, err := search.NewElastic(cfg)
	if err != nil {
		return nil, fmt.Errorf("elasticsearch: %w", err)
	}
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := es.EnsurePostsIndex(ctx); err != nil {
		return nil, fmt.Errorf("ensure ES index: %w", err)
	}

	svc := service.NewPostService(
		repository.NewPostRepository(database),
		userclient.New(cfg),
		redisClient,
		es,
	)
	r := http.NewRouter(svc)

	return &Application{
		Config: cfg,
		DB:     database,
		Cache:  redisClient,
		Search: es,
		Router: r,
	}, nil
}

func (a *Application) Close() {
	if a.DB != nil {
		if err := a.DB.Close(); err != nil {
			log.Printf("db close error: %v", err)
		}
	}
	if a.Cache != nil {
		_ = a.Cache.Close()
	}
}
