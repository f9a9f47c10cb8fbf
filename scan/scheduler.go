package scan

import (
	"context"
	"fmt"
	"io"
	"log"

	"github.com/robfig/cron/v3"
)

// ScanFunc loads fresh data and produces a report.
type ScanFunc func(ctx context.Context) (Report, error)

// Scheduler runs the scan on a cron schedule and prints each report.
type Scheduler struct {
	Cron *cron.Cron
	Scan ScanFunc
	Out  io.Writer
	Ctx  context.Context
}

func NewScheduler(ctx context.Context, scan ScanFunc, out io.Writer) *Scheduler {
	return &Scheduler{
		Cron: cron.New(cron.WithSeconds()),
		Scan: scan,
		Out:  out,
		Ctx:  ctx,
	}
}

// Register adds the scan job. spec has a leading seconds field, e.g.
// "0 30 16 * * 1-5" for 16:30 on weekdays.
func (s *Scheduler) Register(spec string) error {
	if _, err := s.Cron.AddFunc(spec, s.RunNow); err != nil {
		return fmt.Errorf("register scan %q: %w", spec, err)
	}
	return nil
}

func (s *Scheduler) Start() {
	s.Cron.Start()
	log.Println("[INFO] scheduler started")
}

// Stop stops the scheduler and waits for a running scan to finish.
func (s *Scheduler) Stop() {
	<-s.Cron.Stop().Done()
	log.Println("[INFO] scheduler stopped")
}

// RunNow executes the scan immediately.
func (s *Scheduler) RunNow() {
	log.Println("[INFO] running scan")
	rep, err := s.Scan(s.Ctx)
	if err != nil {
		log.Printf("[ERROR] scan: %v", err)
		return
	}
	Print(s.Out, rep)
	log.Printf("[INFO] scan done: %d entries, %d exits", len(rep.Entries), len(rep.Exits))
}
