package cmd

import (
	"context"
	"fmt"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/rustyeddy/swing/config"
	"github.com/rustyeddy/swing/scan"
	"github.com/spf13/cobra"
)

var scheduleCmd = &cobra.Command{
	Use:   "schedule",
	Short: "Run the daily scan on a cron schedule",
	Long: `Schedule runs the scan every time schedule.scan_cron fires and prints the
report. The cron spec has a leading seconds field.

Example:
  swing schedule -c swing.yaml --now`,
	RunE: runSchedule,
}

var (
	schedCron string
	schedNow  bool
)

func init() {
	rootCmd.AddCommand(scheduleCmd)

	scheduleCmd.Flags().StringVar(&schedCron, "cron", "", "cron spec overriding schedule.scan_cron")
	scheduleCmd.Flags().BoolVar(&schedNow, "now", false, "run one scan immediately on start")
}

func runSchedule(cmd *cobra.Command, args []string) error {
	cfg, err := config.LoadFromFile(cfgPath)
	if err != nil {
		return err
	}
	spec := cfg.Schedule.ScanCron
	if schedCron != "" {
		spec = schedCron
	}
	if spec == "" {
		return fmt.Errorf("schedule.scan_cron is required")
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	sched := scan.NewScheduler(ctx, func(ctx context.Context) (scan.Report, error) {
		return scanOnce(ctx, cfg, time.Time{})
	}, os.Stdout)
	if err := sched.Register(spec); err != nil {
		return err
	}
	sched.Start()
	defer sched.Stop()

	if schedNow {
		go sched.RunNow()
	}

	log.Printf("[INFO] swing scheduler is running (%s). Press Ctrl+C to stop.", spec)

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
	<-sigCh

	log.Println("[INFO] shutdown signal received, stopping...")
	cancel()
	return nil
}
