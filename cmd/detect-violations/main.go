// detect-violations runs the violation detection passes once and exits.
// Meant to be scheduled (Cloud Scheduler / cron) alongside the API server.
//
// Usage (from backend directory):
//   DB_USER=... DB_PASSWORD=... DB_HOST=... DB_PORT=... DB_NAME=... go run ./cmd/detect-violations
//   go run ./cmd/detect-violations -pass attendance -since 2026-08-30T00:00:00Z
package main

import (
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"os"
	"time"

	"github.com/daycrew/attendance_backend/config"
	"github.com/daycrew/attendance_backend/workflow"
)

func main() {
	pass := flag.String("pass", "comprehensive", "detection pass: attendance | location | patterns | comprehensive")
	sinceFlag := flag.String("since", "", "only consider data on or after this RFC3339 moment")
	flag.Parse()

	var since *time.Time
	if *sinceFlag != "" {
		t, err := time.Parse(time.RFC3339, *sinceFlag)
		if err != nil {
			fmt.Fprintf(os.Stderr, "invalid -since value: %v\n", err)
			os.Exit(2)
		}
		since = &t
	}

	config.ConnectDatabaseWithRetry()
	db := config.GetDB()
	if db == nil {
		fmt.Fprintln(os.Stderr, "database not initialized (config.GetDB returned nil). Set DB_* env vars.")
		os.Exit(1)
	}

	ctx := context.Background()
	detector := workflow.NewDetector(db, config.GetLogger())

	var (
		result interface{}
		err    error
	)
	switch *pass {
	case "attendance":
		result, err = detector.DetectAttendanceViolations(ctx, since)
	case "location":
		result, err = detector.DetectLocationViolations(ctx, since)
	case "patterns":
		result, err = detector.DetectPatternViolations(ctx, since)
	case "comprehensive":
		result, err = detector.RunComprehensiveDetection(ctx)
	default:
		fmt.Fprintf(os.Stderr, "unknown pass %q\n", *pass)
		os.Exit(2)
	}
	if err != nil {
		fmt.Fprintf(os.Stderr, "detection failed: %v\n", err)
		os.Exit(1)
	}

	out, _ := json.MarshalIndent(result, "", "  ")
	fmt.Println(string(out))
}
