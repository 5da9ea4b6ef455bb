// Package jobs holds the concrete jobs the scheduler runs.
package jobs

import (
	"context"

	"github.com/wonny/oracle/internal/pipeline"
	"github.com/wonny/oracle/pkg/logger"
)

// ScanJob runs the full watchlist pipeline after market close.
type ScanJob struct {
	pipeline *pipeline.Pipeline
	schedule string
	logger   *logger.Logger
}

// NewScanJob creates a scan job with its cron schedule.
func NewScanJob(p *pipeline.Pipeline, schedule string, log *logger.Logger) *ScanJob {
	return &ScanJob{
		pipeline: p,
		schedule: schedule,
		logger:   log,
	}
}

func (j *ScanJob) Name() string {
	return "daily_scan"
}

func (j *ScanJob) Schedule() string {
	return j.schedule
}

// Run executes one batch. A no-results run succeeds; only persistence
// failures propagate into the job history.
func (j *ScanJob) Run(ctx context.Context) error {
	report, err := j.pipeline.Run(ctx)
	if err != nil {
		return err
	}

	if report.NoResults {
		j.logger.Warn("Scheduled scan completed with no results")
		return nil
	}

	j.logger.WithFields(map[string]interface{}{
		"scored": len(report.Results()),
		"opened": len(report.Opened),
		"closed": len(report.Closed),
	}).Info("Scheduled scan completed")
	return nil
}
