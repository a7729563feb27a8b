package main

import (
	"context"
	"log"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/go-redis/redis/v8"
	"github.com/joho/godotenv"
	"gorm.io/gorm"

	"github.com/VetAgendaServices01/vet-scheduler/internal/config"
	dbpkg "github.com/VetAgendaServices01/vet-scheduler/internal/db"
	infraRepo "github.com/VetAgendaServices01/vet-scheduler/internal/infra/repository"
	"github.com/VetAgendaServices01/vet-scheduler/internal/routes"
	ucSchedule "github.com/VetAgendaServices01/vet-scheduler/internal/usecase/schedule"
)

func main() {

	_ = godotenv.Load()

	cfg := config.Load()
	db := dbpkg.NewDB(cfg)

	rdb := newRedis(cfg)

	r := gin.Default()

	r.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})

	routes.RegisterRoutes(r, db, rdb, cfg)

	startSweeper(cfg, db)

	log.Printf("Server running on %s", cfg.Addr())
	if err := r.Run(cfg.Addr()); err != nil {
		log.Fatalf("failed to start server: %v", err)
	}
}

func newRedis(cfg *config.Config) *redis.Client {
	opts, err := redis.ParseURL(cfg.RedisURL)
	if err != nil {
		log.Fatalf("invalid REDIS_URL: %v", err)
	}
	return redis.NewClient(opts)
}

// startSweeper roda a varredura de slots vencidos em background, além
// do gatilho externo em POST /internal/sweep.
func startSweeper(cfg *config.Config, db *gorm.DB) {
	repo := infraRepo.NewScheduleGormRepository(db)
	sweepUC := ucSchedule.NewSweepExpiredSlots(repo)

	go func() {
		ticker := time.NewTicker(cfg.SweepInterval)
		defer ticker.Stop()

		for range ticker.C {
			ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)

			if n, err := sweepUC.Execute(ctx, nil); err != nil {
				log.Println("sweep error:", err)
			} else if n > 0 {
				log.Printf("sweep: %d expired slots removed", n)
			}

			cancel()
		}
	}()
}
