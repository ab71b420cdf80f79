package main

import (
	"context"
	"go-parking-facility/config"
	"go-parking-facility/internal/cache"
	"go-parking-facility/internal/database"
	"go-parking-facility/internal/handler"
	"go-parking-facility/internal/repository"
	"go-parking-facility/internal/service"
	"go-parking-facility/internal/worker"
	"log"

	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

func main() {
	// .env 不存在時沿用環境變數
	_ = godotenv.Load()

	cfg := config.LoadConfig()

	pool, err := database.InitDatabase(&cfg.Database)
	if err != nil {
		log.Fatalf("Failed to initialize database: %v", err)
	}
	defer pool.Close()

	if err := database.RunMigrations(pool, "migrations"); err != nil {
		log.Fatalf("Failed to run migrations: %v", err)
	}

	rdb, err := database.InitRedis(&cfg.Redis)
	if err != nil {
		log.Fatalf("Failed to initialize redis: %v", err)
	}
	defer rdb.Close()

	// Repositories
	txManager := repository.NewPgxTxManager(pool)
	branchRepo := repository.NewBranchRepository(pool)
	ticketRepo := repository.NewTicketRepository(pool)
	chargeRepo := repository.NewChargeRepository(pool)
	subscriptionRepo := repository.NewSubscriptionRepository(pool)
	rateRepo := repository.NewRateRepository(pool)

	// 佔用計數器與准入守衛
	counterStore := cache.NewRedisCounterStore(rdb)
	guard := cache.NewCapacityGuard(counterStore)

	// Services
	rateResolver := service.NewRateResolver(rateRepo)
	calculator := service.NewChargeCalculator(rateResolver)
	ticketService := service.NewTicketService(
		txManager, ticketRepo, branchRepo, subscriptionRepo, chargeRepo, guard, calculator)
	branchService := service.NewBranchService(branchRepo)
	subscriptionService := service.NewSubscriptionService(subscriptionRepo, rateRepo)

	// 佔用對帳：啟動先跑一次校正漂移，之後定期執行
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	reconcileWorker := worker.NewReconcileWorker(branchRepo, ticketRepo, guard, worker.ReconcileWorkerConfig{
		Interval:      cfg.Occupancy.ReconcileInterval,
		WarnRatio:     cfg.Occupancy.WarnRatio,
		CriticalRatio: cfg.Occupancy.CriticalRatio,
	})
	reconcileWorker.RunOnce(ctx)
	if err := reconcileWorker.Start(ctx); err != nil {
		log.Fatalf("Failed to start reconcile worker: %v", err)
	}

	router := gin.Default()
	router.GET("/ping", func(c *gin.Context) {
		c.JSON(200, gin.H{
			"message": "pong",
		})
	})
	router.GET("/metrics", gin.WrapH(promhttp.Handler()))

	handler.NewTicketHandler(ticketService).RegisterRoutes(router)
	handler.NewBranchHandler(branchService).RegisterRoutes(router)
	handler.NewSubscriptionHandler(subscriptionService).RegisterRoutes(router)
	handler.NewRateHandler(rateRepo).RegisterRoutes(router)

	if err := router.Run(":" + cfg.Server.Port); err != nil {
		log.Fatalf("Failed to run server: %v", err)
	}
}
