package commands

import (
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/wonny/screener/internal/scheduler"
	"github.com/wonny/screener/internal/scheduler/jobs"
)

var schedulerRunNow bool

var schedulerCmd = &cobra.Command{
	Use:   "scheduler",
	Short: "Start the screening scheduler",
	Long: `Runs the daily screening job on its cron schedule. Use --run-now
to also trigger the job immediately on startup.`,
	RunE: runScheduler,
}

func runScheduler(cmd *cobra.Command, args []string) error {
	d, err := buildDeps(true)
	if err != nil {
		return err
	}
	defer d.close()

	sched := scheduler.New(d.log)

	job := jobs.NewScreeningJob(d.scan, d.repo, d.naver, d.cfg, d.log)
	if err := sched.AddJob(job); err != nil {
		return err
	}

	sched.Start()

	if schedulerRunNow {
		if err := sched.RunNow(job.Name()); err != nil {
			d.log.WithError(err).Error("immediate run failed to start")
		}
	}

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	sig := <-quit
	d.log.WithField("signal", sig.String()).Info("shutdown signal received")

	sched.Stop()
	return nil
}

func init() {
	schedulerCmd.Flags().BoolVar(&schedulerRunNow, "run-now", false, "trigger the screening job immediately")

	rootCmd.AddCommand(schedulerCmd)
}
