package main

import (
	"context"
	"database/sql"
	"fmt"
	"os"

	"aptitest/cmd/seed_catalog/internal/seedmodels"
	"aptitest/internal/config"
	"aptitest/internal/database"
	"aptitest/internal/logger"

	"github.com/jmoiron/sqlx"
	"go.uber.org/zap"
	"gopkg.in/yaml.v3"
)

const defaultSeedFilePath = "configs/seed_data/catalog.yaml"

func main() {
	ctx := context.Background()
	cfg, err := config.LoadConfig()
	if err != nil {
		fmt.Printf("Failed to load configuration: %v\n", err)
		os.Exit(1)
	}

	if err := logger.Initialize(cfg.Logger); err != nil {
		fmt.Printf("Failed to initialize logger: %v\n", err)
		os.Exit(1)
	}
	defer logger.Sync()
	log := logger.Get()

	seedFilePath := defaultSeedFilePath
	if len(os.Args) > 1 {
		seedFilePath = os.Args[1]
	}

	log.Info("Starting catalog seeding", zap.String("path", seedFilePath))
	db, err := database.NewSQLXOracleDB(cfg.GetDSN())
	if err != nil {
		log.Fatal("Failed to connect to Oracle database", zap.Error(err))
	}
	defer db.Close()

	raw, err := os.ReadFile(seedFilePath)
	if err != nil {
		log.Fatal("Failed to read seed file", zap.String("path", seedFilePath), zap.Error(err))
	}
	var catalog seedmodels.SeedCatalog
	if err := yaml.Unmarshal(raw, &catalog); err != nil {
		log.Fatal("Failed to unmarshal seed data", zap.Error(err))
	}
	log.Info("Seed data loaded",
		zap.Int("attributes", len(catalog.Attributes)),
		zap.Int("questions", len(catalog.Questions)),
		zap.Int("targets", len(catalog.Targets)))

	if err := seedCatalog(ctx, db, log, &catalog); err != nil {
		log.Fatal("Catalog seeding failed", zap.Error(err))
	}
	log.Info("Catalog seeding completed")
}

// seedCatalog loads the whole catalog in one transaction so a partial
// catalog can never be observed by a running session.
func seedCatalog(ctx context.Context, db *sqlx.DB, log *zap.Logger, catalog *seedmodels.SeedCatalog) (err error) {
	tx, err := db.BeginTxx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer func() {
		if p := recover(); p != nil {
			_ = tx.Rollback()
			panic(p)
		} else if err != nil {
			if rbErr := tx.Rollback(); rbErr != nil {
				log.Error("Failed to rollback transaction", zap.Error(rbErr))
			}
		} else {
			if cErr := tx.Commit(); cErr != nil {
				err = cErr
			}
		}
	}()

	for _, a := range catalog.Attributes {
		_, err = tx.ExecContext(ctx,
			`INSERT INTO scoring_attributes (code, stage, name, total_possible) VALUES (:1, :2, :3, :4)`,
			a.Code, a.Stage, a.Name, a.TotalPossible)
		if err != nil {
			return fmt.Errorf("failed to insert attribute %s: %w", a.Code, err)
		}
	}

	for _, q := range catalog.Questions {
		_, err = tx.ExecContext(ctx,
			`INSERT INTO questions (code, filename, stage, attr1, attr2, attr3, stage_order, seq_order, time_limit_sec, active)
			VALUES (:1, :2, :3, :4, :5, :6, :7, :8, :9, 1)`,
			q.Code, q.Filename, q.Stage, q.Attr1, q.Attr2, q.Attr3, q.StageOrder, q.SeqOrder, q.TimeLimitSec)
		if err != nil {
			return fmt.Errorf("failed to insert question %s: %w", q.Code, err)
		}
		for _, content := range q.Contents {
			_, err = tx.ExecContext(ctx,
				`INSERT INTO question_contents (question_code, locale, body) VALUES (:1, :2, :3)`,
				q.Code, content.Locale, content.Body)
			if err != nil {
				return fmt.Errorf("failed to insert content for %s (%s): %w", q.Code, content.Locale, err)
			}
		}
	}

	for _, t := range catalog.Targets {
		_, err = tx.ExecContext(ctx,
			`INSERT INTO recommendation_targets (code, name, kind) VALUES (:1, :2, :3)`,
			t.Code, t.Name, t.Kind)
		if err != nil {
			return fmt.Errorf("failed to insert target %s: %w", t.Code, err)
		}
		if len(t.Attrs) == 0 {
			continue
		}
		attrs := [3]sql.NullString{}
		for i, code := range t.Attrs {
			if i >= len(attrs) {
				return fmt.Errorf("target %s maps more than %d attributes", t.Code, len(attrs))
			}
			attrs[i] = sql.NullString{String: code, Valid: true}
		}
		_, err = tx.ExecContext(ctx,
			`INSERT INTO target_attribute_maps (target_code, attr1, attr2, attr3) VALUES (:1, :2, :3, :4)`,
			t.Code, attrs[0].String, attrs[1], attrs[2])
		if err != nil {
			return fmt.Errorf("failed to insert attribute map for %s: %w", t.Code, err)
		}
	}

	for _, qt := range catalog.QuestionTargets {
		_, err = tx.ExecContext(ctx,
			`INSERT INTO question_target_maps (question_code, target_code) VALUES (:1, :2)`,
			qt.QuestionCode, qt.TargetCode)
		if err != nil {
			return fmt.Errorf("failed to insert question target map %s -> %s: %w", qt.QuestionCode, qt.TargetCode, err)
		}
	}
	return nil
}
