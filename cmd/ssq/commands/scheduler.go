package commands

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/wonny/ssq/internal/scheduler"
	"github.com/wonny/ssq/internal/scheduler/jobs"
)

// drawLocation is the timezone draw times are announced in
var drawLocation = time.FixedZone("CST", 8*60*60)

// schedulerCmd represents the scheduler command
var schedulerCmd = &cobra.Command{
	Use:   "scheduler",
	Short: "Scheduler management",
	Long: `Starts the scheduler or runs its jobs.

Subcommands:
  start   - start the scheduler
  list    - list registered jobs
  run     - run a job immediately

Example:
  go run ./cmd/ssq scheduler start
  go run ./cmd/ssq scheduler run draw_refresh`,
}

var (
	schedulerStartCmd = &cobra.Command{
		Use:   "start",
		Short: "Start the scheduler",
		Long: `Starts the scheduler with every job registered.

Registered jobs:
- draw_refresh: Sun/Tue/Thu 21:30 CST (collect → store → pipeline run)

Stop with Ctrl+C.`,
		RunE: runScheduler,
	}

	schedulerListCmd = &cobra.Command{
		Use:   "list",
		Short: "List registered jobs",
		RunE:  listJobs,
	}

	schedulerRunCmd = &cobra.Command{
		Use:   "run [job_name]",
		Short: "Run a job immediately",
		Args:  cobra.ExactArgs(1),
		RunE:  runJob,
	}

	refreshSchedule string
)

func init() {
	rootCmd.AddCommand(schedulerCmd)
	schedulerCmd.AddCommand(schedulerStartCmd)
	schedulerCmd.AddCommand(schedulerListCmd)
	schedulerCmd.AddCommand(schedulerRunCmd)

	schedulerCmd.PersistentFlags().StringVar(&refreshSchedule, "schedule", jobs.DefaultRefreshSchedule, "draw_refresh cron expression (with seconds)")
}

func runScheduler(cmd *cobra.Command, args []string) error {
	a, sched, err := initScheduler(cmd)
	if err != nil {
		return fmt.Errorf("init scheduler: %w", err)
	}
	defer a.Close()

	sched.Start()

	fmt.Println("\n✅ Scheduler started successfully")
	fmt.Println("\nRegistered jobs:")
	for _, jobName := range sched.GetAllJobs() {
		next, _ := sched.NextRun(jobName)
		fmt.Printf("  - %s (next: %s)\n", jobName, next.In(drawLocation).Format("2006-01-02 15:04:05"))
	}
	fmt.Println("\nPress Ctrl+C to stop")

	<-cmd.Context().Done()

	fmt.Println("\nShutting down scheduler...")
	sched.Stop()
	fmt.Println("Scheduler stopped")

	return nil
}

func listJobs(cmd *cobra.Command, args []string) error {
	a, sched, err := initScheduler(cmd)
	if err != nil {
		return fmt.Errorf("init scheduler: %w", err)
	}
	defer a.Close()

	fmt.Println("Registered jobs:")
	for jobName, stat := range sched.GetJobStats() {
		fmt.Printf("  - %s [%s]\n", jobName, stat.Schedule)
		if next, err := sched.NextRun(jobName); err == nil && !next.IsZero() {
			fmt.Printf("      next run: %s\n", next.Format("2006-01-02 15:04:05 MST"))
		}
	}

	return nil
}

func runJob(cmd *cobra.Command, args []string) error {
	jobName := args[0]

	a, sched, err := initScheduler(cmd)
	if err != nil {
		return fmt.Errorf("init scheduler: %w", err)
	}
	defer a.Close()

	fmt.Printf("Running job: %s\n", jobName)

	result, err := sched.RunJob(jobName)
	if err != nil {
		return fmt.Errorf("run job: %w", err)
	}
	if !result.Success {
		return fmt.Errorf("job %s failed: %s", jobName, result.Error)
	}

	fmt.Printf("\n✅ Job %s completed in %.2fs (%d attempt(s))\n", jobName, result.Duration.Seconds(), result.Attempts)
	return nil
}

func initScheduler(cmd *cobra.Command) (*app, *scheduler.Scheduler, error) {
	a, err := newApp(cmd.Context())
	if err != nil {
		return nil, nil, err
	}

	var sink jobs.DrawSink
	if a.drawRepo != nil {
		sink = a.drawRepo
	}

	sched := scheduler.New(a.log, scheduler.WithLocation(drawLocation))
	refresh := jobs.NewRefreshJob(a.collector, sink, a.orchestrator(), a.strategy, a.strategyYAML, a.cfg.Collector.RecentSize, a.log).
		WithSchedule(refreshSchedule)
	if err := sched.AddJob(refresh); err != nil {
		a.Close()
		return nil, nil, err
	}

	return a, sched, nil
}
