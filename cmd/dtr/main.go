package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"text/tabwriter"

	"github.com/stclare-edu/dtr-backend-go/internal/config"
	"github.com/stclare-edu/dtr-backend-go/internal/pkg/database"
	"github.com/stclare-edu/dtr-backend-go/internal/repository/postgresql"
	auditService "github.com/stclare-edu/dtr-backend-go/internal/service/audit"
)

func main() {
	if len(os.Args) < 2 {
		usage()
		os.Exit(2)
	}

	switch os.Args[1] {
	case "check-orphaned":
		fix := flag.NewFlagSet("check-orphaned", flag.ExitOnError)
		repair := fix.Bool("fix", false, "detach orphaned records instead of only reporting them")
		_ = fix.Parse(os.Args[2:])

		if err := checkOrphaned(context.Background(), *repair); err != nil {
			fmt.Fprintln(os.Stderr, "Error:", err)
			os.Exit(1)
		}
	default:
		usage()
		os.Exit(2)
	}
}

func usage() {
	fmt.Fprintln(os.Stderr, "Usage: dtr check-orphaned [--fix]")
}

func checkOrphaned(ctx context.Context, repair bool) error {
	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}

	db, err := database.NewPostgreSQLDB(cfg.DatabaseURL())
	if err != nil {
		return fmt.Errorf("failed to connect to database: %w", err)
	}
	defer db.Close()

	svc := auditService.NewAuditService(postgresql.NewTimeRecordRepository(db))

	orphans, err := svc.FindOrphans(ctx)
	if err != nil {
		return err
	}

	if len(orphans) == 0 {
		fmt.Println("No orphaned time records found.")
		return nil
	}

	w := tabwriter.NewWriter(os.Stdout, 0, 4, 2, ' ', 0)
	fmt.Fprintln(w, "RECORD ID\tEMPLOYEE ID\tDATE\tSTATUS\tHOURS\tOVERTIME\tPAID")
	for _, o := range orphans {
		fmt.Fprintf(w, "%s\t%s\t%s\t%s\t%.2f\t%.2f\t%t\n",
			o.ID, o.EmployeeID, o.Date, o.Status, o.HoursWorked, o.OvertimeHours, o.IsPaid)
	}
	if err := w.Flush(); err != nil {
		return err
	}
	fmt.Printf("%d orphaned time record(s) found.\n", len(orphans))

	if !repair {
		return nil
	}

	result, err := svc.Repair(ctx, nil)
	if err != nil {
		return err
	}
	fmt.Printf("%d orphaned time record(s) detached.\n", result.Repaired)
	return nil
}
