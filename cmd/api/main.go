package main

import (
	"fmt"
	"net/http"

	"github.com/stclare-edu/dtr-backend-go/internal/config"
	"github.com/stclare-edu/dtr-backend-go/internal/domain/payroll"
	appHTTP "github.com/stclare-edu/dtr-backend-go/internal/handler/http"
	"github.com/stclare-edu/dtr-backend-go/internal/pkg/clock"
	"github.com/stclare-edu/dtr-backend-go/internal/pkg/cron"
	"github.com/stclare-edu/dtr-backend-go/internal/pkg/database"
	"github.com/stclare-edu/dtr-backend-go/internal/repository/postgresql"
	auditService "github.com/stclare-edu/dtr-backend-go/internal/service/audit"
	payrollService "github.com/stclare-edu/dtr-backend-go/internal/service/payroll"
	timerecordService "github.com/stclare-edu/dtr-backend-go/internal/service/timerecord"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		fmt.Println("Error loading config:", err)
		return
	}

	dsn := cfg.DatabaseURL()
	db, err := database.NewPostgreSQLDB(dsn)
	if err != nil {
		fmt.Println("Error connecting to database:", err)
		return
	}

	timeRecordRepo := postgresql.NewTimeRecordRepository(db)
	payrollRepo := postgresql.NewPayrollRepository(db)
	employeeRepo := postgresql.NewEmployeeRepository(db)

	clk := clock.System()
	timeRecordSvc := timerecordService.NewTimeRecordService(timeRecordRepo, clk)
	payrollSvc := payrollService.NewPayrollService(
		payrollRepo,
		timeRecordRepo,
		employeeRepo,
		payroll.FlatRate(cfg.Payroll.TaxRate),
		clk,
	)
	auditSvc := auditService.NewAuditService(timeRecordRepo)

	timeRecordHandler := appHTTP.NewTimeRecordHandler(timeRecordSvc)
	payrollHandler := appHTTP.NewPayrollHandler(payrollSvc)
	auditHandler := appHTTP.NewAuditHandler(auditSvc)

	scheduler := cron.NewScheduler()
	cron.NewAuditJobs(auditSvc).RegisterJobs(scheduler)
	scheduler.Start()
	defer scheduler.Stop()

	router := appHTTP.NewRouter(
		cfg,
		timeRecordHandler,
		payrollHandler,
		auditHandler,
	)

	port := fmt.Sprintf(":%d", cfg.App.Port)
	fmt.Printf("Server running at http://localhost%s\n", port)
	if err := http.ListenAndServe(port, router); err != nil {
		fmt.Println("Server error:", err)
	}
}
