package commands

import (
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/wonny/oracle/internal/scheduler"
	"github.com/wonny/oracle/internal/scheduler/jobs"
)

var schedulerCmd = &cobra.Command{
	Use:   "scheduler",
	Short: "Manage the cron scheduler",
	Long: `Runs the scheduler daemon without the API server, or inspects its jobs.

Subcommands:
  start   - run the scheduler until interrupted
  list    - list registered jobs
  run     - run one job immediately
  status  - show per-job execution statistics

Example:
  go run ./cmd/oracle scheduler start
  go run ./cmd/oracle scheduler run daily_scan`,
}

var (
	schedulerStartCmd = &cobra.Command{
		Use:   "start",
		Short: "Run the scheduler daemon",
		Long: `Starts the scheduler and blocks until interrupted.

Registered jobs:
- daily_scan: full watchlist scan and portfolio update (weekdays post-close)
- news_refresh: periodic news corpus refresh`,
		RunE: runSchedulerDaemon,
	}

	schedulerListCmd = &cobra.Command{
		Use:   "list",
		Short: "List registered jobs",
		RunE:  listSchedulerJobs,
	}

	schedulerRunCmd = &cobra.Command{
		Use:   "run [job_name]",
		Short: "Run one job immediately",
		Args:  cobra.ExactArgs(1),
		RunE:  runSchedulerJob,
	}

	schedulerStatusCmd = &cobra.Command{
		Use:   "status",
		Short: "Show per-job execution statistics",
		RunE:  showSchedulerStatus,
	}
)

func init() {
	rootCmd.AddCommand(schedulerCmd)
	schedulerCmd.AddCommand(schedulerStartCmd)
	schedulerCmd.AddCommand(schedulerListCmd)
	schedulerCmd.AddCommand(schedulerRunCmd)
	schedulerCmd.AddCommand(schedulerStatusCmd)
}

// buildScheduler registers the standard job set against a fresh dependency
// graph. The caller owns d.Close().
func buildScheduler(d *deps) (*scheduler.Scheduler, error) {
	sched := scheduler.New(d.Logger)

	if err := sched.AddJob(jobs.NewScanJob(d.Pipeline, d.Config.ScanSchedule, d.Logger)); err != nil {
		return nil, fmt.Errorf("failed to register scan job: %w", err)
	}
	if err := sched.AddJob(jobs.NewNewsJob(d.Pipeline, d.Config.NewsSchedule, d.Logger)); err != nil {
		return nil, fmt.Errorf("failed to register news job: %w", err)
	}
	return sched, nil
}

func runSchedulerDaemon(cmd *cobra.Command, args []string) error {
	d, err := initDeps()
	if err != nil {
		return err
	}
	defer d.Close()

	sched, err := buildScheduler(d)
	if err != nil {
		return err
	}

	sched.Start()

	fmt.Println("Scheduler started")
	fmt.Println("\nRegistered jobs:")
	for _, name := range sched.Jobs() {
		fmt.Printf("  - %s\n", name)
	}
	fmt.Println("\nPress Ctrl+C to stop")

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, os.Interrupt, syscall.SIGTERM)
	<-quit

	fmt.Println("\nShutting down scheduler...")
	sched.Stop()
	fmt.Println("Scheduler stopped")

	return nil
}

func listSchedulerJobs(cmd *cobra.Command, args []string) error {
	d, err := initDeps()
	if err != nil {
		return err
	}
	defer d.Close()

	sched, err := buildScheduler(d)
	if err != nil {
		return err
	}

	fmt.Println("Registered jobs:")
	for _, name := range sched.Jobs() {
		fmt.Printf("  - %s\n", name)
	}
	return nil
}

func runSchedulerJob(cmd *cobra.Command, args []string) error {
	d, err := initDeps()
	if err != nil {
		return err
	}
	defer d.Close()

	// Run the job in-process and wait for it, unlike the scheduler's
	// fire-and-forget trigger.
	jobSet := []scheduler.Job{
		jobs.NewScanJob(d.Pipeline, d.Config.ScanSchedule, d.Logger),
		jobs.NewNewsJob(d.Pipeline, d.Config.NewsSchedule, d.Logger),
	}
	for _, job := range jobSet {
		if job.Name() != args[0] {
			continue
		}
		fmt.Printf("Running job: %s\n", job.Name())
		if err := job.Run(cmd.Context()); err != nil {
			return fmt.Errorf("run job: %w", err)
		}
		fmt.Println("Job finished")
		return nil
	}
	return fmt.Errorf("job %s not found", args[0])
}

func showSchedulerStatus(cmd *cobra.Command, args []string) error {
	d, err := initDeps()
	if err != nil {
		return err
	}
	defer d.Close()

	sched, err := buildScheduler(d)
	if err != nil {
		return err
	}

	fmt.Println("Job statistics:")
	fmt.Println()
	for name, stat := range sched.Stats() {
		fmt.Printf("%s\n", name)
		fmt.Printf("   Schedule: %s\n", stat.Schedule)
		fmt.Printf("   Total Runs: %d\n", stat.TotalRuns)
		fmt.Printf("   Success: %d (%.1f%%)\n", stat.SuccessCount, stat.SuccessRate*100)
		fmt.Printf("   Failures: %d\n", stat.FailureCount)
		if stat.LastRun != nil {
			fmt.Printf("   Last Run: %s\n", stat.LastRun.Format("2006-01-02 15:04:05"))
		}
		if stat.LastError != "" {
			fmt.Printf("   Last Error: %s\n", stat.LastError)
		}
		fmt.Println()
	}
	return nil
}
