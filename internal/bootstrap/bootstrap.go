// Package bootstrap wires the configured preset, rules and storage into a batch service.
package bootstrap

import (
	"fmt"
	"log/slog"
	"path"

	"github.com/maauso/framenorm/internal/background"
	"github.com/maauso/framenorm/internal/batch"
	"github.com/maauso/framenorm/internal/batch/id"
	"github.com/maauso/framenorm/internal/config"
	"github.com/maauso/framenorm/internal/media"
	"github.com/maauso/framenorm/internal/preset"
	"github.com/maauso/framenorm/internal/storage"
)

// Dependencies holds everything a run needs.
type Dependencies struct {
	Preset  preset.Preset
	Service *batch.Service
}

// NewDependencies resolves the preset and background rule and builds the
// batch service writing into dest. Nothing is written until the service runs.
func NewDependencies(cfg *config.Config, dest string, logger *slog.Logger) (*Dependencies, error) {
	p, err := preset.Lookup(cfg.Preset)
	if err != nil {
		return nil, err
	}

	if cfg.RulesFile != "" {
		rule, err := background.LoadFile(cfg.RulesFile)
		if err != nil {
			return nil, fmt.Errorf("load background rules: %w", err)
		}
		p = p.WithRule(rule)
		logger.Info("background rules loaded",
			slog.String("rules_file", cfg.RulesFile),
		)
	}

	logger.Debug("preset resolved",
		slog.String("preset", p.Name),
		slog.Int("crop_top", p.Geometry.CropTop),
		slog.String("target", p.Geometry.Target.String()),
		slog.String("fallback", p.Fallback),
	)

	runID := id.Generate()
	processor := media.NewImagingProcessor(p.Geometry)

	svc := batch.NewService(
		processor,
		p.Rule,
		storageOpener(cfg, dest, runID, logger),
		batch.WithLogger(logger),
		batch.WithRunID(runID),
	)

	return &Dependencies{
		Preset:  p,
		Service: svc,
	}, nil
}

// storageOpener returns the Opener for the configured storage backend.
func storageOpener(cfg *config.Config, dest, runID string, logger *slog.Logger) batch.Opener {
	return func() (storage.Storage, error) {
		if cfg.S3Enabled() {
			s3Cfg := storage.S3Config{
				Bucket:          cfg.S3Bucket,
				Region:          cfg.S3Region,
				Endpoint:        cfg.S3Endpoint,
				Prefix:          path.Join(cfg.S3Prefix, runID),
				AccessKeyID:     cfg.AWSAccessKeyID,
				SecretAccessKey: cfg.AWSSecretAccessKey,
			}
			s3Store, err := storage.NewS3Storage(dest, s3Cfg)
			if err != nil {
				return nil, fmt.Errorf("create S3 storage: %w", err)
			}
			logger.Info("S3 publishing configured",
				slog.String("bucket", cfg.S3Bucket),
				slog.String("region", cfg.S3Region),
				slog.String("prefix", s3Cfg.Prefix),
			)
			return s3Store, nil
		}

		localStore, err := storage.NewLocalStorage(dest)
		if err != nil {
			return nil, fmt.Errorf("create local storage: %w", err)
		}
		return localStore, nil
	}
}
