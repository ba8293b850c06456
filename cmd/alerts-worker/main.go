package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/google/uuid"

	"github.com/asha-care/platform/pkg/alerts"
	"github.com/asha-care/platform/pkg/common/config"
	"github.com/asha-care/platform/pkg/common/database"
	"github.com/asha-care/platform/pkg/common/kafka"
	"github.com/asha-care/platform/pkg/common/logger"
	"github.com/asha-care/platform/pkg/common/models"
	"github.com/asha-care/platform/pkg/patients"
	"github.com/asha-care/platform/pkg/records"
)

// The alerts worker re-classifies records written through sync. The sync path
// merges fields without running the rule engine, so it publishes record.synced
// events and this worker computes risk_level and risk_factors asynchronously.
func main() {
	logger.Init()
	cfg := config.Load()

	db, err := database.GetPostgres()
	if err != nil {
		logger.Log.WithError(err).Fatal("failed to connect to postgres")
	}

	thresholds, err := alerts.LoadThresholds(cfg.AlertRulesPath)
	if err != nil {
		logger.Log.WithError(err).Warn("falling back to default alert thresholds")
	}
	engine := alerts.NewEngine(thresholds)

	recordRepo := records.NewRepository(db)
	patientRepo := patients.NewRepository(db)
	// nil publisher: re-classification must not feed new events back into the topic
	recordService := records.NewService(recordRepo, patientRepo, engine, nil)

	consumer := kafka.NewConsumer(cfg.KafkaRecordsTopic, cfg.KafkaGroupID+"-alerts")
	defer consumer.Close()

	ctx, cancel := context.WithCancel(context.Background())
	go func() {
		quit := make(chan os.Signal, 1)
		signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
		<-quit
		logger.Log.Info("Shutting down alerts worker...")
		cancel()
	}()

	logger.Log.WithField("topic", cfg.KafkaRecordsTopic).Info("Alerts worker consuming")
	err = consumer.Consume(ctx, func(ctx context.Context, event models.Event) error {
		raw, ok := event.Data["record_id"].(string)
		if !ok {
			logger.Log.WithField("event_id", event.ID).Warn("event without record_id, skipping")
			return nil
		}
		recordID, err := uuid.Parse(raw)
		if err != nil {
			logger.Log.WithField("record_id", raw).Warn("unparsable record_id, skipping")
			return nil
		}

		rec, err := recordService.Classify(ctx, recordID)
		if err != nil {
			if err == records.ErrRecordNotFound {
				logger.Log.WithField("record_id", raw).Warn("record vanished before classification")
				return nil
			}
			return err
		}
		logger.Log.WithFields(map[string]interface{}{
			"record_id":  rec.ID.String(),
			"risk_level": rec.RiskLevel,
		}).Info("record classified")
		return nil
	})
	if err != nil && err != context.Canceled {
		logger.Log.WithError(err).Error("alerts worker stopped with error")
	}

	database.ClosePostgres()
	logger.Log.Info("Alerts worker stopped")
}
