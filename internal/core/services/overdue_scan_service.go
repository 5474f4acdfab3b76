package services

import (
	"context"
	"fmt"
	"log"
	"time"

	"library-api/internal/adapters/events"

	"github.com/robfig/cron/v3"
)

// DefaultOverdueScanSchedule runs the scan every day at 08:30
const DefaultOverdueScanSchedule = "30 8 * * *"

// OverdueScanService periodically reports overdue loans.
// It only reads loans; returning or extending stays with LoanService.
type OverdueScanService struct {
	loans     LoanService
	publisher events.Publisher
	cron      *cron.Cron
	timeout   time.Duration
}

// NewOverdueScanService schedules the scan with a standard 5-field cron expression
func NewOverdueScanService(loans LoanService, publisher events.Publisher, schedule string, loc *time.Location) (*OverdueScanService, error) {
	if publisher == nil {
		publisher = events.NopPublisher{}
	}
	if schedule == "" {
		schedule = DefaultOverdueScanSchedule
	}
	if loc == nil {
		loc = time.Local
	}

	s := &OverdueScanService{
		loans:     loans,
		publisher: publisher,
		cron:      cron.New(cron.WithLocation(loc)),
		timeout:   time.Minute,
	}

	if _, err := s.cron.AddFunc(schedule, s.run); err != nil {
		return nil, fmt.Errorf("invalid overdue scan schedule %q: %w", schedule, err)
	}
	return s, nil
}

// Start launches the scheduler
func (s *OverdueScanService) Start() {
	s.cron.Start()
	log.Println("🚀 OverdueScanService started")
}

// Stop waits for a running scan to finish
func (s *OverdueScanService) Stop() {
	<-s.cron.Stop().Done()
	log.Println("🛑 OverdueScanService stopped")
}

func (s *OverdueScanService) run() {
	ctx, cancel := context.WithTimeout(context.Background(), s.timeout)
	defer cancel()

	if _, err := s.Scan(ctx); err != nil {
		log.Printf("❌ Overdue scan failed: %v", err)
	}
}

// Scan publishes a loan.overdue event per overdue loan and returns how many were found.
// Publish failures are logged and do not stop the scan.
func (s *OverdueScanService) Scan(ctx context.Context) (int, error) {
	overdue, err := s.loans.ListOverdue(ctx)
	if err != nil {
		return 0, err
	}

	today := s.loans.Today()
	for _, loan := range overdue {
		if err := s.publisher.Publish(ctx, events.LoanOverdue, NewLoanEvent(loan, today)); err != nil {
			log.Printf("⚠️ Failed to publish overdue event for loan %d: %v", loan.ID, err)
		}
	}

	log.Printf("✅ Overdue scan: %d overdue loan(s) on %s", len(overdue), today)
	return len(overdue), nil
}
