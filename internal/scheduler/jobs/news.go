package jobs

import (
	"context"
	"fmt"

	"github.com/wonny/oracle/internal/pipeline"
	"github.com/wonny/oracle/pkg/logger"
)

// NewsJob refreshes the news corpus between scans so ad-hoc analysis works
// from a recent bias.
type NewsJob struct {
	pipeline *pipeline.Pipeline
	schedule string
	logger   *logger.Logger
}

// NewNewsJob creates a news refresh job with its cron schedule.
func NewNewsJob(p *pipeline.Pipeline, schedule string, log *logger.Logger) *NewsJob {
	return &NewsJob{
		pipeline: p,
		schedule: schedule,
		logger:   log,
	}
}

func (j *NewsJob) Name() string {
	return "news_refresh"
}

func (j *NewsJob) Schedule() string {
	return j.schedule
}

func (j *NewsJob) Run(ctx context.Context) error {
	report, err := j.pipeline.RefreshNews(ctx)
	if err != nil {
		return err
	}
	if len(report.Errors) == len(report.Categories) && len(report.Categories) > 0 {
		return fmt.Errorf("all %d news categories failed", len(report.Errors))
	}
	return nil
}
