package main

import (
	"context"
	"errors"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"

	"dininghub/internal/auth"
	"dininghub/internal/scraper"
	"dininghub/internal/store"
	"dininghub/pkg/utils"
)

func main() {
	_ = godotenv.Load()

	// missing store config is fatal: refuse to run rather than degrade
	cfg, err := utils.LoadStoreConfig()
	if err != nil {
		log.Fatalf("store config: %v", err)
	}

	st := store.NewSupabase(cfg)
	runner := scraper.NewRunner(st, scraper.DefaultHalls())

	router := gin.Default()
	_ = router.SetTrustedProxies([]string{"127.0.0.1"})

	router.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})

	tokenSvc := auth.TokenService{Secret: []byte(cfg.ServiceKey)}
	protected := router.Group("/")
	protected.Use(auth.RequireServiceToken(tokenSvc))

	// the scheduler hits this on a cron; it takes no parameters
	protected.POST("/scrape-menus", func(c *gin.Context) {
		ctx, cancel := context.WithTimeout(c.Request.Context(), 5*time.Minute)
		defer cancel()

		sum := runner.Run(ctx)
		c.JSON(http.StatusOK, sum)
	})

	httpSrv := &http.Server{
		Addr:    ":8080",
		Handler: router,
	}

	errCh := make(chan error, 1)
	go func() {
		log.Println("HTTP API server listening on :8080")
		if err := httpSrv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
	}()

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)

	select {
	case sig := <-sigCh:
		log.Printf("shutdown signal received: %s", sig)
	case err := <-errCh:
		log.Printf("server error: %v", err)
	}

	log.Println("shutting down server")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := httpSrv.Shutdown(shutdownCtx); err != nil {
		log.Printf("http shutdown error: %v", err)
	}
	log.Println("server stopped")
}
