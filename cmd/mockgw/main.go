package main

import (
	"context"
	"flag"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"ditto-go/internal/audit"
	"ditto-go/internal/limits"
	"ditto-go/internal/middleware"
	"ditto-go/internal/routers"
	"ditto-go/internal/shared"
	"ditto-go/internal/usage"
	"ditto-go/internal/vkeys"

	"github.com/joho/godotenv"
	"github.com/labstack/echo/v4"
	emw "github.com/labstack/echo/v4/middleware"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"

	"github.com/manifold-inc/manifold-sdk/lib/eflag"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

func main() {
	_ = godotenv.Load()

	// Flags / ENV Variables
	listen := flag.String("listen", ":8080", "Listen address")
	dbPath := flag.String("db", "", "Audit log sqlite path")
	redisAddr := flag.String("redis-addr", "", "Redis host:port for the shared usage ledger")
	metricsAPIKey := flag.String("metrics-api-key", "", "Metrics api key")
	vkTokens := flag.String("vk-tokens", "", "Comma separated virtual key tokens to seed")
	adminTokens := flag.String("admin-tokens", "", "Comma separated admin tokens")
	models := flag.String("models", "", "Comma separated model ids to serve")
	rpm := flag.Uint("rpm", 0, "Requests per minute for seeded keys, 0 for unlimited")
	tpm := flag.Uint("tpm", 0, "Tokens per minute for seeded keys, 0 for unlimited")
	debug := flag.Bool("debug", false, "Debug enabled")

	err := eflag.SetFlagsFromEnvironment()
	if err != nil {
		panic(err)
	}
	flag.Parse()

	// Audit store init
	var auditStore *audit.Store
	if *dbPath != "" {
		auditStore, err = audit.Open(*dbPath)
		if err != nil {
			panic(fmt.Sprintf("failed initializing audit store: %s", err))
		}
	}

	// Usage ledger init, redis backed when an address is given
	var ledger usage.Ledger = usage.NewMemoryLedger()
	var redisClient *redis.Client
	if *redisAddr != "" {
		redisClient = redis.NewClient(&redis.Options{
			Addr:     *redisAddr,
			Password: "",
			DB:       0,
		})
		if err := redisClient.Ping(context.Background()).Err(); err != nil {
			panic(fmt.Sprintf("failed ping to redis db: %s", err))
		}
		ledger = usage.NewRedisLedger(redisClient)
	}

	defer func() {
		if redisClient != nil {
			_ = redisClient.Close()
		}
		if auditStore != nil {
			_ = auditStore.Close()
		}
	}()

	var logger *zap.Logger
	if !*debug {
		logger, err = zap.NewProduction()
		if err != nil {
			panic("Failed init logger")
		}
	}
	if *debug {
		logger, err = zap.NewDevelopment()
		if err != nil {
			panic("Failed init logger")
		}
	}
	log := logger.Sugar()

	keys := vkeys.NewStore(shared.SplitCSV(*vkTokens), shared.Limits{RPM: uint32(*rpm), TPM: uint32(*tpm)})
	limiter := limits.NewRateLimiter()

	e := echo.New()
	e.GET(("/ping"), func(c echo.Context) error {
		return c.String(200, "")
	})
	e.GET("/metrics", echo.WrapHandler(promhttp.Handler()), func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			if *metricsAPIKey == "" {
				return next(c)
			}
			apiKey, ok := shared.ExtractVirtualKey(c)
			if !ok {
				return c.String(401, "Missing or invalid API key")
			}
			if apiKey != *metricsAPIKey {
				return c.String(401, "Unauthorized API key")
			}
			return next(c)
		}
	})
	base := e.Group("")
	base.Use(emw.CORS())
	base.Use(middleware.NewRecoverMiddleware(log))
	base.Use(middleware.NewTrackMiddleware(log))

	// Register routes
	err = routers.RegisterCompatRoutes(base, routers.CompatConfig{
		Keys:    keys,
		Limiter: limiter,
		Audit:   auditStore,
		Usage:   ledger,
		Models:  shared.SplitCSV(*models),
		Log:     log,
	})
	if err != nil {
		panic(err)
	}
	err = routers.RegisterAdminRoutes(base, routers.AdminConfig{
		Keys:   keys,
		Audit:  auditStore,
		Usage:  ledger,
		Tokens: shared.SplitCSV(*adminTokens),
		Log:    log,
	})
	if err != nil {
		panic(err)
	}

	go func() {
		if err := e.Start(*listen); err != nil && err != http.ErrServerClosed {
			e.Logger.Fatal("shutting down the server")
		}
	}()
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()
	// Wait for interrupt signal to gracefully shut down the server.
	<-ctx.Done()

	ctx, cancel := context.WithTimeout(context.Background(), shared.DefaultShutdownTimeout)
	defer cancel()
	if err := e.Shutdown(ctx); err != nil {
		e.Logger.Fatal(err)
	}
}
