package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	mysqldriver "github.com/go-sql-driver/mysql"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	goredis "github.com/redis/go-redis/v9"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
	"github.com/vidora/vidora-backend/internal/config"
	"github.com/vidora/vidora-backend/internal/handler"
	"github.com/vidora/vidora-backend/internal/middleware"
	"github.com/vidora/vidora-backend/internal/migration"
	"github.com/vidora/vidora-backend/internal/repository"
	"github.com/vidora/vidora-backend/internal/routes"
	"github.com/vidora/vidora-backend/internal/service"
	"github.com/vidora/vidora-backend/internal/validation"
	pkgcache "github.com/vidora/vidora-backend/pkg/cache"
	pkges "github.com/vidora/vidora-backend/pkg/elasticsearch"
	"github.com/vidora/vidora-backend/pkg/jwt"
	pkglogger "github.com/vidora/vidora-backend/pkg/logger"
	pkgmongo "github.com/vidora/vidora-backend/pkg/mongo"
	pkgredis "github.com/vidora/vidora-backend/pkg/redis"
	pkgstorage "github.com/vidora/vidora-backend/pkg/storage"
	"gorm.io/driver/mysql"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"
)

// @title           Vidora API
// @version         1.0
// @description     Video sharing backend: videos, comments, likes and dislikes, subscriptions, playlists and tweets.
//
// @host            localhost:8080
// @BasePath        /api/v1
//
// @securityDefinitions.apikey BearerAuth
// @in header
// @name Authorization
// @description JWT Authorization header using the Bearer scheme. Example: "Bearer {token}"

// getConfigPath returns config file path based on APP_ENV environment variable
func getConfigPath() string {
	env := os.Getenv("APP_ENV")
	if env == "" {
		env = "local"
	}
	return fmt.Sprintf("configs/config.%s.yaml", env)
}

func main() {
	dotenvFiles := config.LoadDotEnv()

	env := os.Getenv("APP_ENV")
	if env == "" {
		env = "local"
	}
	pkglogger.InitStructured(env)
	pkglogger.Info("APP_ENV=%s, loaded env files: %v", env, dotenvFiles)

	configPath := getConfigPath()
	cfg, err := config.Load(configPath)
	if err != nil {
		pkglogger.GetLogger().Fatal().Err(err).Str("path", configPath).Msg("failed to load config")
	}
	config.LogResolved(cfg)

	if err := validation.Register(); err != nil {
		pkglogger.GetLogger().Fatal().Err(err).Msg("failed to register validators")
	}

	db, err := initDB(cfg)
	if err != nil {
		pkglogger.GetLogger().Fatal().Err(err).Str("driver", cfg.Database.Driver).Msg("failed to connect to database")
	}
	if err := migration.Run(db); err != nil {
		pkglogger.GetLogger().Fatal().Err(err).Msg("migration failed")
	}
	if sqlDB, err := db.DB(); err == nil {
		if err := middleware.RegisterDBStats(sqlDB, cfg.Database.DBName); err != nil {
			pkglogger.Warn("DB stats collector not registered: %v", err)
		}
	}

	// Redis backs the caches and the rate limiter; both degrade to no-ops without it
	redisClient, err := pkgredis.Connect(context.Background(), pkgredis.Options{
		Host:     cfg.Redis.Host,
		Port:     cfg.Redis.Port,
		Password: cfg.Redis.Password,
		DB:       cfg.Redis.DB,
		PoolSize: cfg.Redis.PoolSize,
	})
	if err != nil {
		pkglogger.Warn("Failed to connect to Redis: %v (continuing without Redis)", err)
		redisClient = nil
	} else {
		pkglogger.Info("Connected to Redis")
	}

	var cacheService pkgcache.Service
	if redisClient != nil {
		cacheService = pkgcache.NewService(redisClient)
	}

	var videoSearch service.VideoSearcher
	if cfg.Elasticsearch.Enabled && len(cfg.Elasticsearch.Addresses) > 0 {
		esClient, esErr := pkges.Connect(context.Background(), pkges.Config{
			Addresses: cfg.Elasticsearch.Addresses,
			Username:  cfg.Elasticsearch.Username,
			Password:  cfg.Elasticsearch.Password,
		})
		if esErr != nil {
			pkglogger.Warn("Elasticsearch connection failed: %v (search falls back to SQL)", esErr)
		} else {
			videoSearch = service.NewSearchService(context.Background(), esClient, cfg.Elasticsearch.Index)
		}
	}

	var s3Client *pkgstorage.S3Client
	if cfg.Storage.Enabled && cfg.Storage.Bucket != "" {
		var s3Err error
		s3Client, s3Err = pkgstorage.NewS3Client(pkgstorage.S3Config{
			Endpoint:        cfg.Storage.Endpoint,
			Region:          cfg.Storage.Region,
			AccessKeyID:     cfg.Storage.AccessKeyID,
			SecretAccessKey: cfg.Storage.SecretAccessKey,
			Bucket:          cfg.Storage.Bucket,
			CDNURL:          cfg.Storage.CDNURL,
			BasePath:        cfg.Storage.BasePath,
			ForcePathStyle:  cfg.Storage.ForcePathStyle,
		})
		if s3Err != nil {
			pkglogger.Warn("S3 storage init failed: %v (uploads disabled)", s3Err)
			s3Client = nil
		} else {
			pkglogger.Info("Connected to S3 storage")
		}
	}
	media := service.NewMediaService(s3Client)

	// Repositories
	userRepo := repository.NewUserRepository(db)
	videoRepo := repository.NewVideoRepository(db)
	commentRepo := repository.NewCommentRepository(db)
	tweetRepo := repository.NewTweetRepository(db)
	subRepo := repository.NewSubscriptionRepository(db)
	playlistRepo := repository.NewPlaylistRepository(db)
	historyRepo := repository.NewHistoryRepository(db)

	reactionStore, mongoClient := initReactionStore(cfg, db)
	if mongoClient != nil {
		defer func() { _ = mongoClient.Close() }()
	}

	jwtManager := jwt.NewManager(cfg.JWT.Secret, cfg.JWT.RefreshSecret, cfg.JWT.ExpiresIn, cfg.JWT.RefreshIn)

	// Services
	authService := service.NewAuthService(userRepo, jwtManager, media)
	userService := service.NewUserService(userRepo, subRepo, historyRepo, media, cacheService)
	videoService := service.NewVideoService(service.VideoServiceDeps{
		Videos:    videoRepo,
		Comments:  commentRepo,
		Playlists: playlistRepo,
		History:   historyRepo,
		Reactions: reactionStore,
		Tx:        repository.NewTransactor(db),
		Media:     media,
		Search:    videoSearch,
		Cache:     cacheService,
	})
	commentService := service.NewCommentService(commentRepo, videoRepo, reactionStore)
	tweetService := service.NewTweetService(tweetRepo, userRepo, reactionStore)
	reactionService := service.NewReactionService(reactionStore, service.NewTargetChecker(videoRepo, commentRepo, tweetRepo))
	subscriptionService := service.NewSubscriptionService(subRepo, userRepo, cacheService)
	playlistService := service.NewPlaylistService(playlistRepo, videoRepo, userRepo)
	dashboardService := service.NewDashboardService(videoRepo, subRepo, reactionStore)

	if !cfg.IsDevelopment() {
		gin.SetMode(gin.ReleaseMode)
	}
	router := gin.New()
	router.Use(gin.Recovery())
	router.MaxMultipartMemory = 32 << 20

	router.Use(cors.New(cors.Config{
		AllowOrigins:     cfg.AllowedOrigins(),
		AllowHeaders:     []string{"Origin", "Content-Type", "Accept", "Authorization", "X-Request-ID"},
		AllowCredentials: true,
		AllowMethods:     []string{"GET", "POST", "PATCH", "DELETE", "OPTIONS"},
		ExposeHeaders:    []string{"X-Request-ID", "X-RateLimit-Remaining"},
		MaxAge:           12 * time.Hour,
	}))
	router.Use(middleware.SecurityHeaders())
	router.Use(middleware.InputSanitizer())
	router.Use(middleware.Metrics())
	router.Use(middleware.RequestLogger())
	router.Use(middleware.Recovery())
	router.Use(middleware.BodyLimit(int64(cfg.Server.MaxUploadMB) << 20))

	if redisClient != nil && !cfg.IsDevelopment() {
		rl := middleware.DefaultRateLimitConfig()
		rl.RequestsPerMinute = cfg.RateLimit.RequestsPerMinute
		router.Use(middleware.RateLimit(redisClient, rl))
	}

	router.GET("/metrics", gin.WrapH(promhttp.Handler()))
	router.GET("/health", healthHandler(db, redisClient))
	router.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))

	routes.Setup(router, &routes.Handlers{
		Auth:         handler.NewAuthHandler(authService, cfg),
		User:         handler.NewUserHandler(userService),
		Video:        handler.NewVideoHandler(videoService),
		Comment:      handler.NewCommentHandler(commentService),
		Tweet:        handler.NewTweetHandler(tweetService),
		Reaction:     handler.NewReactionHandler(reactionService),
		Subscription: handler.NewSubscriptionHandler(subscriptionService),
		Playlist:     handler.NewPlaylistHandler(playlistService),
		Dashboard:    handler.NewDashboardHandler(dashboardService),
	}, jwtManager, middleware.RateLimitPerUser(redisClient, cfg.RateLimit.ReactionsPerMinute))

	srv := &http.Server{
		Addr:         fmt.Sprintf(":%d", cfg.Server.Port),
		Handler:      router,
		ReadTimeout:  time.Duration(cfg.Server.ReadTimeout) * time.Second,
		WriteTimeout: time.Duration(cfg.Server.WriteTimeout) * time.Second,
	}

	go func() {
		pkglogger.Info("Server listening on %s", srv.Addr)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			pkglogger.GetLogger().Fatal().Err(err).Msg("server failed")
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	pkglogger.Info("Shutting down server...")
	ctx, cancel := context.WithTimeout(context.Background(), time.Duration(cfg.Server.ShutdownTimeout)*time.Second)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil {
		pkglogger.Error("Server forced to shutdown: %v", err)
	}
	if redisClient != nil {
		_ = redisClient.Close()
	}
	pkglogger.Info("Server exited")
}

// initReactionStore picks the Reaction Store named by reaction.store
func initReactionStore(cfg *config.Config, db *gorm.DB) (repository.ReactionStore, *pkgmongo.Client) {
	if cfg.Reaction.Store != "mongo" {
		return repository.NewReactionRepository(db), nil
	}

	client, err := pkgmongo.NewClient(cfg.Mongo.URI, cfg.Mongo.Database)
	if err != nil {
		pkglogger.GetLogger().Fatal().Err(err).Msg("reaction.store=mongo but MongoDB is unreachable")
	}
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := repository.EnsureReactionIndexes(ctx, client.Database()); err != nil {
		pkglogger.GetLogger().Fatal().Err(err).Msg("failed to create reaction indexes")
	}
	pkglogger.Info("Reactions stored in MongoDB database %s", cfg.Mongo.Database)
	return repository.NewMongoReactionRepository(client.Database()), client
}

func initDB(cfg *config.Config) (*gorm.DB, error) {
	gormCfg := &gorm.Config{
		Logger:         gormlogger.Default.LogMode(gormLogLevel(cfg.Database.LogLevel)),
		TranslateError: true,
	}

	var dialector gorm.Dialector
	switch cfg.Database.Driver {
	case "sqlite":
		dialector = sqlite.Open(cfg.Database.SQLitePath)
	default:
		mysqlCfg, err := mysqldriver.ParseDSN(cfg.Database.GetDSN())
		if err != nil {
			return nil, fmt.Errorf("parse DSN: %w", err)
		}
		dialector = mysql.Open(mysqlCfg.FormatDSN())
	}

	db, err := gorm.Open(dialector, gormCfg)
	if err != nil {
		return nil, err
	}

	sqlDB, err := db.DB()
	if err != nil {
		return nil, err
	}
	sqlDB.SetMaxIdleConns(cfg.Database.MaxIdleConns)
	sqlDB.SetMaxOpenConns(cfg.Database.MaxOpenConns)
	sqlDB.SetConnMaxLifetime(time.Duration(cfg.Database.ConnMaxLifetime) * time.Second)
	if cfg.Database.Driver == "sqlite" {
		sqlDB.SetMaxOpenConns(1)
	}

	return db, nil
}

func gormLogLevel(level string) gormlogger.LogLevel {
	switch level {
	case "silent":
		return gormlogger.Silent
	case "error":
		return gormlogger.Error
	case "info":
		return gormlogger.Info
	default:
		return gormlogger.Warn
	}
}

func healthHandler(db *gorm.DB, redisClient *goredis.Client) gin.HandlerFunc {
	return func(c *gin.Context) {
		ctx, cancel := context.WithTimeout(c.Request.Context(), 2*time.Second)
		defer cancel()

		status := http.StatusOK
		checks := gin.H{"database": "ok"}
		if sqlDB, err := db.DB(); err != nil || sqlDB.PingContext(ctx) != nil {
			checks["database"] = "unavailable"
			status = http.StatusServiceUnavailable
		}
		if redisClient != nil {
			checks["redis"] = "ok"
			if err := redisClient.Ping(ctx).Err(); err != nil {
				checks["redis"] = "unavailable"
			}
		}

		c.JSON(status, gin.H{
			"status":  http.StatusText(status),
			"service": "vidora-backend",
			"checks":  checks,
			"time":    time.Now().Unix(),
		})
	}
}
