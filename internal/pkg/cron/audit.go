package cron

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/stclare-edu/dtr-backend-go/internal/service/audit"
)

// AuditJobs runs the periodic integrity sweep. The sweep only reports,
// repair stays a deliberate operator action.
type AuditJobs struct {
	auditService audit.Service
}

func NewAuditJobs(auditService audit.Service) *AuditJobs {
	return &AuditJobs{
		auditService: auditService,
	}
}

func (j *AuditJobs) RegisterJobs(scheduler *Scheduler) {
	scheduler.AddJob("orphan_record_sweep", 1*time.Hour, j.SweepOrphanedRecords)
}

func (j *AuditJobs) SweepOrphanedRecords(ctx context.Context) error {
	orphans, err := j.auditService.FindOrphans(ctx)
	if err != nil {
		return fmt.Errorf("failed to sweep orphaned records: %w", err)
	}

	if len(orphans) == 0 {
		slog.Debug("Cron: No orphaned time records found")
		return nil
	}

	for _, orphan := range orphans {
		slog.Warn("Cron: Orphaned time record detected",
			"record_id", orphan.ID,
			"employee_id", orphan.EmployeeID,
			"date", orphan.Date,
			"is_paid", orphan.IsPaid)
	}

	slog.Warn("Cron: Orphaned time records found", "count", len(orphans))
	return nil
}
