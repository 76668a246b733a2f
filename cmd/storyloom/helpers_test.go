package main

import (
	"strings"
	"testing"
)

func TestFormatBytes(t *testing.T) {
	cases := []struct {
		in   int64
		want string
	}{
		{0, "0 B"},
		{512, "512 B"},
		{1024, "1.0 KiB"},
		{1536, "1.5 KiB"},
		{5 << 20, "5.0 MiB"},
		{3 << 30, "3.0 GiB"},
	}
	for _, tc := range cases {
		if got := formatBytes(tc.in); got != tc.want {
			t.Errorf("formatBytes(%d) = %q, want %q", tc.in, got, tc.want)
		}
	}
}

func TestRenderTable(t *testing.T) {
	rendered := renderTable(
		[]string{"Job", "Scenes"},
		[][]string{{"job-1", "8"}, {"job-2"}},
	)
	if !strings.Contains(rendered, "job-1") || !strings.Contains(rendered, "job-2") {
		t.Fatalf("expected both rows rendered:\n%s", rendered)
	}
	if !strings.Contains(rendered, "Job") {
		t.Fatalf("expected header rendered:\n%s", rendered)
	}
}

func TestRenderTableEmptyHeaders(t *testing.T) {
	if got := renderTable(nil, nil); got != "" {
		t.Fatalf("expected empty render, got %q", got)
	}
}

func TestNumericColumnDetection(t *testing.T) {
	rows := [][]string{
		{"job-1", "8", ""},
		{"job-2", "12", "complete"},
	}
	if numericColumn(rows, 0) {
		t.Error("job ids should not read as numeric")
	}
	if !numericColumn(rows, 1) {
		t.Error("scene counts should read as numeric")
	}
	if numericColumn(rows, 2) {
		t.Error("mixed blank/text column should not read as numeric")
	}
	if numericColumn(nil, 0) {
		t.Error("empty table has no numeric columns")
	}
}
