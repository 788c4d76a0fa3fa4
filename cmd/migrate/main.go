package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"time"

	"github.com/vidora/vidora-backend/internal/config"
	"github.com/vidora/vidora-backend/internal/domain"
	"github.com/vidora/vidora-backend/internal/migration"
	"github.com/vidora/vidora-backend/internal/repository"
	"github.com/vidora/vidora-backend/internal/service"
	pkges "github.com/vidora/vidora-backend/pkg/elasticsearch"
	pkglogger "github.com/vidora/vidora-backend/pkg/logger"
	pkgmongo "github.com/vidora/vidora-backend/pkg/mongo"
	"gorm.io/driver/mysql"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"
)

const reindexBatchSize = 500

func main() {
	configPath := flag.String("config", "", "config file path (default configs/config.<APP_ENV>.yaml)")
	dryRun := flag.Bool("dry-run", false, "list the tables that would be migrated without executing")
	verify := flag.Bool("verify", false, "print row counts per table after migrating")
	reindex := flag.Bool("reindex", false, "rebuild the Elasticsearch video index from the database")
	verbose := flag.Bool("verbose", false, "verbose SQL logging")
	flag.Parse()

	config.LoadDotEnv()
	env := os.Getenv("APP_ENV")
	if env == "" {
		env = "local"
	}
	pkglogger.InitStructured(env)
	log := pkglogger.GetLogger()

	if *configPath == "" {
		*configPath = fmt.Sprintf("configs/config.%s.yaml", env)
	}
	cfg, err := config.Load(*configPath)
	if err != nil {
		log.Fatal().Err(err).Msg("failed to load config")
	}

	if *dryRun {
		for _, model := range migration.Models() {
			log.Info().Str("model", fmt.Sprintf("%T", model)).Msg("[dry-run] would migrate")
		}
		return
	}

	logLevel := gormlogger.Warn
	if *verbose {
		logLevel = gormlogger.Info
	}
	db, err := openDB(cfg, logLevel)
	if err != nil {
		log.Fatal().Err(err).Msg("failed to connect to database")
	}

	start := time.Now()
	if err := migration.Run(db); err != nil {
		log.Fatal().Err(err).Msg("migration failed")
	}
	log.Info().Dur("took", time.Since(start)).Msg("schema migrated")

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Minute)
	defer cancel()

	if cfg.Mongo.Enabled {
		client, err := pkgmongo.NewClient(cfg.Mongo.URI, cfg.Mongo.Database)
		if err != nil {
			log.Fatal().Err(err).Msg("failed to connect to MongoDB")
		}
		if err := repository.EnsureReactionIndexes(ctx, client.Database()); err != nil {
			log.Fatal().Err(err).Msg("failed to create reaction indexes")
		}
		_ = client.Close()
		log.Info().Str("database", cfg.Mongo.Database).Msg("mongo reaction indexes ensured")
	}

	if *reindex {
		if err := runReindex(ctx, cfg, db); err != nil {
			log.Fatal().Err(err).Msg("reindex failed")
		}
	}

	if *verify {
		runVerify(db)
	}
}

func openDB(cfg *config.Config, level gormlogger.LogLevel) (*gorm.DB, error) {
	var dialector gorm.Dialector
	if cfg.Database.Driver == "sqlite" {
		dialector = sqlite.Open(cfg.Database.SQLitePath)
	} else {
		dialector = mysql.Open(cfg.Database.GetDSN())
	}
	return gorm.Open(dialector, &gorm.Config{
		Logger:         gormlogger.Default.LogMode(level),
		TranslateError: true,
	})
}

// runReindex pushes every video, drafts included, into the search index
func runReindex(ctx context.Context, cfg *config.Config, db *gorm.DB) error {
	if len(cfg.Elasticsearch.Addresses) == 0 {
		return fmt.Errorf("elasticsearch.addresses is empty")
	}
	esClient, err := pkges.Connect(ctx, pkges.Config{
		Addresses: cfg.Elasticsearch.Addresses,
		Username:  cfg.Elasticsearch.Username,
		Password:  cfg.Elasticsearch.Password,
	})
	if err != nil {
		return err
	}
	search := service.NewSearchService(ctx, esClient, cfg.Elasticsearch.Index)
	videos := repository.NewVideoRepository(db)

	var indexed int64
	for offset := 0; ; offset += reindexBatchSize {
		batch, total, err := videos.List(ctx, domain.VideoFilter{
			IncludePrivate: true,
			SortColumn:     "id",
			Offset:         offset,
			Limit:          reindexBatchSize,
		})
		if err != nil {
			return fmt.Errorf("list videos at offset %d: %w", offset, err)
		}
		if err := search.Reindex(ctx, batch); err != nil {
			return fmt.Errorf("bulk index at offset %d: %w", offset, err)
		}
		indexed += int64(len(batch))
		if len(batch) < reindexBatchSize || indexed >= total {
			break
		}
	}
	pkglogger.GetLogger().Info().Int64("videos", indexed).Msg("search index rebuilt")
	return nil
}

func runVerify(db *gorm.DB) {
	for _, model := range migration.Models() {
		var count int64
		if err := db.Model(model).Count(&count).Error; err != nil {
			pkglogger.GetLogger().Error().Err(err).Str("model", fmt.Sprintf("%T", model)).Msg("count failed")
			continue
		}
		pkglogger.GetLogger().Info().Str("model", fmt.Sprintf("%T", model)).Int64("rows", count).Msg("verify")
	}
}
