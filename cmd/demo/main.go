// Command demo walks through a sample class: enrollment, four days of
// marking, then every report printed to stdout.
package main

import (
	"fmt"
	"log"
	"os"
	"strings"

	"attendance-tracker/config"
	"attendance-tracker/logger"
	"attendance-tracker/report"
	"attendance-tracker/tracker"
)

func main() {
	logr, err := logger.New(&config.Config{
		Env: config.EnvDevelopment,
		Log: config.LogConfig{Level: "info", Format: "console"},
	})
	if err != nil {
		log.Fatalf("failed to init logger: %v", err)
	}
	defer logr.Sync() //nolint:errcheck

	store := tracker.New("Computer Science 101", tracker.WithLogger(logr))

	banner("Adding Students and Marking Attendance")
	tracker.SeedDemo(store)
	logr.Sync() //nolint:errcheck

	out := os.Stdout
	steps := []func() error{
		func() error { return report.WriteSheet(out, store.Sheet()) },
		func() error {
			rec, err := store.StudentRecord("S003")
			if err != nil {
				return err
			}
			return report.WriteStudentRecord(out, rec)
		},
		func() error { return report.WriteDateRecord(out, store.DateRecord(tracker.DemoDates[2])) },
		func() error { return report.WriteSummary(out, store.Summary()) },
	}
	for _, step := range steps {
		if err := step(); err != nil {
			log.Fatalf("report failed: %v", err)
		}
	}
}

func banner(title string) {
	line := strings.Repeat("=", 50)
	fmt.Printf("%s\n   %s\n%s\n", line, title, line)
}
