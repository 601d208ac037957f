package main

import (
	"bytes"
	"io"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/erazemk/lostfound/internal/config"
)

// run executes the CLI against dbPath and returns its output.
func run(t *testing.T, dbPath string, args ...string) (string, error) {
	t.Helper()

	a := &app{logOut: io.Discard}
	root := newRootCmd(a)
	var out bytes.Buffer
	root.SetOut(&out)
	root.SetErr(&out)
	root.SetArgs(append([]string{"--env", filepath.Join(t.TempDir(), "absent.env"), "--db", dbPath}, args...))

	err := root.Execute()
	a.close()
	return out.String(), err
}

func clearEnv(t *testing.T) {
	t.Helper()
	for _, key := range []string{config.EnvDB, config.EnvLog, config.EnvMinScore,
		config.EnvHighMatchThreshold, config.EnvReminderDays, config.EnvUrgentReminderDays} {
		t.Setenv(key, "")
	}
}

func TestCLIMatchFlow(t *testing.T) {
	clearEnv(t)
	dbPath := filepath.Join(t.TempDir(), "lostfound.sqlite3")

	steps := []struct {
		args []string
		want string
	}{
		{[]string{"user", "add", "--student-id", "20230001", "--name", "Owner"}, "User 1 created"},
		{[]string{"user", "add", "--student-id", "20230002", "--name", "Finder"}, "User 2 created"},
		{[]string{"found", "--user", "2", "--name", "钱包", "--category", "钱包", "--location", "图书馆一楼",
			"--time", "2025-03-10 12:00", "--color", "黑色"}, "0 match(es)"},
		{[]string{"lost", "--user", "1", "--name", "钱包", "--category", "钱包", "--location", "图书馆一楼",
			"--time", "2025-03-10 08:00", "--color", "黑色"}, "1 match(es), 1 new, 2 notification(s)"},
		{[]string{"matches", "1"}, "score=90.0"},
		{[]string{"rematch", "1"}, "1 match(es), 0 new, 0 notification(s)"},
		{[]string{"notifications", "--user", "1"}, "1 unread"},
		{[]string{"read", "1", "--user", "1"}, "Notification 1 marked read"},
		{[]string{"notifications", "--user", "1", "--unread"}, "0 unread"},
		{[]string{"announce", "Closed", "Office closed on Friday."}, "sent to 2 user(s)"},
		{[]string{"resolve", "lost", "1", "--user", "1"}, "lost report 1 resolved"},
		{[]string{"sweep"}, "First sweep"},
		{[]string{"sweep"}, "Previous sweep: "},
	}

	for _, step := range steps {
		out, err := run(t, dbPath, step.args...)
		if err != nil {
			t.Fatalf("%v: %v", step.args, err)
		}
		if !strings.Contains(out, step.want) {
			t.Errorf("%v: expected output to contain %q, got %q", step.args, step.want, out)
		}
	}
}

func TestCLIErrors(t *testing.T) {
	clearEnv(t)
	dbPath := filepath.Join(t.TempDir(), "lostfound.sqlite3")

	tests := []struct {
		name string
		args []string
	}{
		{"missing category", []string{"lost", "--name", "钱包", "--location", "图书馆"}},
		{"bad id", []string{"matches", "abc"}},
		{"unknown lost report", []string{"rematch", "99"}},
		{"unknown kind", []string{"resolve", "stolen", "1", "--user", "1"}},
		{"bad time", []string{"found", "--name", "伞", "--category", "伞", "--location", "食堂", "--time", "yesterday"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := run(t, dbPath, tt.args...); err == nil {
				t.Errorf("expected error for %v", tt.args)
			}
		})
	}
}

func TestParseTime(t *testing.T) {
	now := time.Date(2025, 3, 10, 12, 0, 0, 0, time.UTC)

	got, err := parseTime("", now)
	if err != nil || !got.Equal(now) {
		t.Errorf("expected now for empty value, got %v, %v", got, err)
	}

	got, err = parseTime("2025-03-09T08:30:00+08:00", now)
	if err != nil {
		t.Fatalf("parseTime: %v", err)
	}
	if want := time.Date(2025, 3, 9, 0, 30, 0, 0, time.UTC); !got.Equal(want) {
		t.Errorf("expected %v, got %v", want, got)
	}

	got, err = parseTime("2025-03-09", now)
	if err != nil {
		t.Fatalf("parseTime: %v", err)
	}
	if got.Day() != 9 || got.Hour() != 0 {
		t.Errorf("expected midnight on the 9th, got %v", got)
	}
}
