package service

import (
	"bytes"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/opencampus/admission-backend/internal/model"
)

func TestNormalizeHeader(t *testing.T) {
	cases := map[string]string{
		"Applicant No":   "applicantno",
		"applicant_no":   "applicantno",
		"APPLICANT-NO":   "applicantno",
		"  First Name  ": "firstname",
		"Score":          "score",
	}
	for in, want := range cases {
		if got := normalizeHeader(in); got != want {
			t.Errorf("normalizeHeader(%q) = %q, want %q", in, got, want)
		}
	}
}

func TestColumnIndexes(t *testing.T) {
	idx := columnIndexes([]string{"Identifier", "First Name", "Last Name", "Exam Score", "Notes"})

	if got := idx["applicant_no"]; got != 0 {
		t.Errorf("applicant_no index = %d, want 0", got)
	}
	if got := idx["first_name"]; got != 1 {
		t.Errorf("first_name index = %d, want 1", got)
	}
	if got := idx["score"]; got != 3 {
		t.Errorf("score index = %d, want 3", got)
	}
	if _, ok := idx["outcome"]; ok {
		t.Error("outcome should not be recognized in this header")
	}
}

func TestParseRosterFileCSV(t *testing.T) {
	var buf bytes.Buffer
	buf.Write(utf8BOM) // Excel-style export prefix
	buf.WriteString("Applicant No,First Name,Last Name,Score\n")
	buf.WriteString("APP-0001,Budi,Santoso,7\n")
	buf.WriteString(",,,\n") // blank row is skipped
	buf.WriteString("APP-0002,Siti,Aminah,9\n")

	rows, err := parseRosterFile("upload.csv", &buf)
	if err != nil {
		t.Fatalf("parseRosterFile: %v", err)
	}
	if len(rows) != 2 {
		t.Fatalf("got %d rows, want 2", len(rows))
	}

	first := rows[0]
	if first.applicantNo != "APP-0001" || first.firstName != "Budi" || first.score != "7" {
		t.Errorf("unexpected first row: %+v", first)
	}
	if first.line != 2 {
		t.Errorf("first data row line = %d, want 2", first.line)
	}
	// The blank row between data rows still counts toward line numbers.
	if rows[1].line != 4 {
		t.Errorf("second data row line = %d, want 4", rows[1].line)
	}
}

func TestParseRosterFileOutcomeColumn(t *testing.T) {
	csvData := "identifier,result\nAPP-0001,completed\nAPP-0002,cancelled\n"

	rows, err := parseRosterFile("enrollment.CSV", strings.NewReader(csvData))
	if err != nil {
		t.Fatalf("parseRosterFile: %v", err)
	}
	if len(rows) != 2 {
		t.Fatalf("got %d rows, want 2", len(rows))
	}
	if rows[0].outcome != "completed" || rows[1].outcome != "cancelled" {
		t.Errorf("unexpected outcomes: %q, %q", rows[0].outcome, rows[1].outcome)
	}
}

func TestParseRosterFileMissingColumns(t *testing.T) {
	cases := []struct {
		name string
		data string
	}{
		{"no applicant column", "First Name,Score\nBudi,7\n"},
		{"no score or outcome", "Applicant No,First Name\nAPP-0001,Budi\n"},
		{"empty file", ""},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := parseRosterFile("upload.csv", strings.NewReader(tc.data))
			if !errors.Is(err, ErrMissingColumns) {
				t.Errorf("got %v, want ErrMissingColumns", err)
			}
		})
	}
}

func TestParseRosterFileUnsupportedType(t *testing.T) {
	_, err := parseRosterFile("roster.pdf", strings.NewReader("data"))
	if !errors.Is(err, ErrUnsupportedFileType) {
		t.Errorf("got %v, want ErrUnsupportedFileType", err)
	}
}

func TestCrosscheckName(t *testing.T) {
	applicant := &model.Applicant{FirstName: "Budi", LastName: "Santoso"}

	if err := crosscheckName(applicant, rosterRow{firstName: "budi", lastName: "SANTOSO"}); err != nil {
		t.Errorf("case-insensitive match rejected: %v", err)
	}
	if err := crosscheckName(applicant, rosterRow{}); err != nil {
		t.Errorf("empty name cells rejected: %v", err)
	}
	if err := crosscheckName(applicant, rosterRow{firstName: "Siti"}); err == nil {
		t.Error("mismatched first name accepted")
	}
	if err := crosscheckName(applicant, rosterRow{lastName: "Aminah"}); err == nil {
		t.Error("mismatched last name accepted")
	}
}

func TestExportFilename(t *testing.T) {
	schedule := &model.Schedule{
		Kind: model.ScheduleKindExam,
		Date: time.Date(2026, 4, 1, 0, 0, 0, 0, time.UTC),
	}
	if got := exportFilename(schedule, "csv"); got != "roster_exam_2026-04-01.csv" {
		t.Errorf("exportFilename = %q", got)
	}

	schedule.Kind = model.ScheduleKindEnrollment
	if got := exportFilename(schedule, "xlsx"); got != "roster_enrollment_2026-04-01.xlsx" {
		t.Errorf("exportFilename = %q", got)
	}
}

func TestOutcomeHeaderAndValue(t *testing.T) {
	if got := outcomeHeader(model.ScheduleKindExam); got != "Score" {
		t.Errorf("exam header = %q, want Score", got)
	}
	if got := outcomeHeader(model.ScheduleKindEnrollment); got != "Outcome" {
		t.Errorf("enrollment header = %q, want Outcome", got)
	}

	score := 8
	entry := model.RosterEntry{ExamScore: &score, Status: model.AssignmentStatusPending}
	if got := outcomeValue(model.ScheduleKindExam, entry); got != "8" {
		t.Errorf("exam value = %q, want 8", got)
	}
	entry.ExamScore = nil
	if got := outcomeValue(model.ScheduleKindExam, entry); got != "" {
		t.Errorf("unscored exam value = %q, want empty", got)
	}
	if got := outcomeValue(model.ScheduleKindEnrollment, entry); got != "PENDING" {
		t.Errorf("enrollment value = %q, want PENDING", got)
	}
}
