package service

import (
	"bytes"
	"context"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/opencampus/admission-backend/internal/model"
	"github.com/opencampus/admission-backend/internal/notify"
	"github.com/opencampus/admission-backend/internal/repository"
	"github.com/rs/zerolog"
	"github.com/xuri/excelize/v2"
)

// Import errors surfaced to handlers.
var (
	ErrUnsupportedFileType = errors.New("unsupported file type, expected .csv or .xlsx")
	ErrMissingColumns      = errors.New("file is missing required columns")
)

// utf8BOM prefixes CSV exports so spreadsheet applications detect UTF-8.
var utf8BOM = []byte{0xEF, 0xBB, 0xBF}

// RosterImportResult summarizes a bulk upload. Row numbers are 1-based and
// include the header row, matching what the uploader sees in their editor.
type RosterImportResult struct {
	Processed int          `json:"processed"`
	Succeeded int          `json:"succeeded"`
	Skipped   []SkippedRow `json:"skipped"`
}

// SkippedRow reports one row a bulk upload could not apply.
type SkippedRow struct {
	Row    int    `json:"row"`
	Reason string `json:"reason"`
}

// rosterRow is one parsed upload row.
type rosterRow struct {
	line        int
	applicantNo string
	firstName   string
	lastName    string
	score       string
	outcome     string
}

// RosterService handles bulk roster uploads and downloads.
type RosterService struct {
	pool           *pgxpool.Pool
	scheduleRepo   *repository.ScheduleRepository
	assignmentRepo *repository.AssignmentRepository
	applicantRepo  *repository.ApplicantRepository
	historyRepo    *repository.StatusHistoryRepository
	ledger         *repository.CapacityLedger
	notifier       notify.Gateway
	log            zerolog.Logger
}

// NewRosterService creates a new RosterService.
func NewRosterService(
	pool *pgxpool.Pool,
	scheduleRepo *repository.ScheduleRepository,
	assignmentRepo *repository.AssignmentRepository,
	applicantRepo *repository.ApplicantRepository,
	historyRepo *repository.StatusHistoryRepository,
	ledger *repository.CapacityLedger,
	notifier notify.Gateway,
	log zerolog.Logger,
) *RosterService {
	return &RosterService{
		pool:           pool,
		scheduleRepo:   scheduleRepo,
		assignmentRepo: assignmentRepo,
		applicantRepo:  applicantRepo,
		historyRepo:    historyRepo,
		ledger:         ledger,
		notifier:       notifier,
		log:            log.With().Str("component", "roster_service").Logger(),
	}
}

// ImportRoster applies a bulk upload to a schedule's roster. For exam
// schedules rows carry a numeric score (1-9); for enrollment schedules an
// outcome (completed/cancelled). Rows are processed sequentially inside one
// transaction: a failing row is recorded and skipped, not fatal, but the
// batch commits only once at the end.
func (s *RosterService) ImportRoster(ctx context.Context, actor model.Actor, scheduleID uuid.UUID, filename string, file io.Reader) (*RosterImportResult, error) {
	if !actor.Can(model.PermissionRosterImport) {
		return nil, ErrPermissionDenied
	}

	schedule, err := s.scheduleRepo.GetByID(ctx, scheduleID)
	if err != nil {
		return nil, fmt.Errorf("get schedule: %w", err)
	}

	rows, err := parseRosterFile(filename, file)
	if err != nil {
		return nil, err
	}

	tx, err := s.pool.Begin(ctx)
	if err != nil {
		return nil, fmt.Errorf("begin tx: %w", err)
	}
	defer tx.Rollback(ctx)

	result := &RosterImportResult{}
	var completed, cancelled []int // applicant IDs to notify after commit

	for _, row := range rows {
		result.Processed++

		applicantID, err := s.applyRow(ctx, tx, schedule, row, actor.ID)
		if err != nil {
			result.Skipped = append(result.Skipped, SkippedRow{Row: row.line, Reason: err.Error()})
			continue
		}
		result.Succeeded++

		if schedule.Kind == model.ScheduleKindEnrollment {
			if row.outcome == "cancelled" {
				cancelled = append(cancelled, applicantID)
			} else {
				completed = append(completed, applicantID)
			}
		}
	}

	if err := tx.Commit(ctx); err != nil {
		return nil, fmt.Errorf("commit: %w", err)
	}

	for _, id := range completed {
		s.notifyOutcome(ctx, notify.KindEnrollmentCompleted, id)
	}
	for _, id := range cancelled {
		s.notifyOutcome(ctx, notify.KindEnrollmentCancelled, id)
	}

	return result, nil
}

// applyRow resolves and applies one upload row inside the batch transaction.
// Returns the applicant ID on success.
func (s *RosterService) applyRow(ctx context.Context, tx pgx.Tx, schedule *model.Schedule, row rosterRow, actorID int) (int, error) {
	if row.applicantNo == "" {
		return 0, errors.New("missing applicant number")
	}

	assignment, err := s.assignmentRepo.GetByScheduleAndApplicantNo(ctx, tx, schedule.ID, row.applicantNo)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return 0, fmt.Errorf("applicant %s is not on this roster", row.applicantNo)
		}
		return 0, fmt.Errorf("resolve assignment: %w", err)
	}
	if assignment.Status.Terminal() {
		return 0, fmt.Errorf("applicant %s already processed", row.applicantNo)
	}

	applicant, err := s.applicantRepo.GetByIDTx(ctx, tx, assignment.ApplicantID)
	if err != nil {
		return 0, fmt.Errorf("get applicant: %w", err)
	}
	if err := crosscheckName(applicant, row); err != nil {
		return 0, err
	}

	switch schedule.Kind {
	case model.ScheduleKindExam:
		score, err := strconv.Atoi(strings.TrimSpace(row.score))
		if err != nil || score < 1 || score > 9 {
			return 0, fmt.Errorf("invalid score %q, expected 1-9", row.score)
		}
		if err := s.applicantRepo.SetExamScoreTx(ctx, tx, applicant.ID, score); err != nil {
			return 0, fmt.Errorf("set score: %w", err)
		}
		if err := s.assignmentRepo.UpdateStatusTx(ctx, tx, assignment.ID, model.AssignmentStatusCompleted); err != nil {
			return 0, fmt.Errorf("complete assignment: %w", err)
		}
		desc := fmt.Sprintf("Exam score %d posted", score)
		if err := s.historyRepo.AppendTx(ctx, tx, applicant.ID, model.StatusExamCompleted, desc, &actorID); err != nil {
			return 0, fmt.Errorf("append history: %w", err)
		}

	case model.ScheduleKindEnrollment:
		switch strings.ToLower(strings.TrimSpace(row.outcome)) {
		case "completed":
			if err := s.assignmentRepo.UpdateStatusTx(ctx, tx, assignment.ID, model.AssignmentStatusCompleted); err != nil {
				return 0, fmt.Errorf("complete assignment: %w", err)
			}
			if err := s.applicantRepo.UpdateStatusTx(ctx, tx, applicant.ID, model.StatusEnrolled); err != nil {
				return 0, fmt.Errorf("update applicant status: %w", err)
			}
			if err := s.historyRepo.AppendTx(ctx, tx, applicant.ID, model.StatusEnrolled, "Enrollment completed", &actorID); err != nil {
				return 0, fmt.Errorf("append history: %w", err)
			}
		case "cancelled":
			if err := s.assignmentRepo.UpdateStatusTx(ctx, tx, assignment.ID, model.AssignmentStatusCancelled); err != nil {
				return 0, fmt.Errorf("cancel assignment: %w", err)
			}
			if schedule.CourseID != nil {
				if err := s.ledger.Release(ctx, tx, *schedule.CourseID); err != nil {
					return 0, fmt.Errorf("release course slot: %w", err)
				}
			}
			if err := s.historyRepo.AppendTx(ctx, tx, applicant.ID, applicant.Status, "Enrollment cancelled", &actorID); err != nil {
				return 0, fmt.Errorf("append history: %w", err)
			}
		default:
			return 0, fmt.Errorf("invalid outcome %q, expected completed or cancelled", row.outcome)
		}
	}

	return applicant.ID, nil
}

// ExportRosterCSV renders a schedule's full roster as UTF-8 CSV with a BOM
// for spreadsheet compatibility.
func (s *RosterService) ExportRosterCSV(ctx context.Context, actor model.Actor, scheduleID uuid.UUID) ([]byte, string, error) {
	if !actor.Can(model.PermissionRosterExport) {
		return nil, "", ErrPermissionDenied
	}

	schedule, roster, err := s.loadRoster(ctx, scheduleID)
	if err != nil {
		return nil, "", err
	}

	var buf bytes.Buffer
	buf.Write(utf8BOM)
	w := csv.NewWriter(&buf)

	header := []string{"Identifier", "First Name", "Last Name", outcomeHeader(schedule.Kind)}
	if err := w.Write(header); err != nil {
		return nil, "", err
	}
	for _, entry := range roster {
		if err := w.Write([]string{entry.ApplicantNo, entry.FirstName, entry.LastName, outcomeValue(schedule.Kind, entry)}); err != nil {
			return nil, "", err
		}
	}
	w.Flush()
	if err := w.Error(); err != nil {
		return nil, "", err
	}

	return buf.Bytes(), exportFilename(schedule, "csv"), nil
}

// ExportRosterXLSX renders a schedule's full roster as an XLSX workbook with
// a styled header row.
func (s *RosterService) ExportRosterXLSX(ctx context.Context, actor model.Actor, scheduleID uuid.UUID) ([]byte, string, error) {
	if !actor.Can(model.PermissionRosterExport) {
		return nil, "", ErrPermissionDenied
	}

	schedule, roster, err := s.loadRoster(ctx, scheduleID)
	if err != nil {
		return nil, "", err
	}

	f := excelize.NewFile()
	defer f.Close()
	sheet := f.GetSheetName(0)

	headerStyle, err := f.NewStyle(&excelize.Style{
		Font: &excelize.Font{Bold: true},
		Fill: excelize.Fill{Type: "pattern", Color: []string{"DDDDDD"}, Pattern: 1},
	})
	if err != nil {
		return nil, "", err
	}

	header := []interface{}{"Identifier", "First Name", "Last Name", outcomeHeader(schedule.Kind)}
	if err := f.SetSheetRow(sheet, "A1", &header); err != nil {
		return nil, "", err
	}
	if err := f.SetCellStyle(sheet, "A1", "D1", headerStyle); err != nil {
		return nil, "", err
	}

	for i, entry := range roster {
		cell := fmt.Sprintf("A%d", i+2)
		values := []interface{}{entry.ApplicantNo, entry.FirstName, entry.LastName, outcomeValue(schedule.Kind, entry)}
		if err := f.SetSheetRow(sheet, cell, &values); err != nil {
			return nil, "", err
		}
	}

	var buf bytes.Buffer
	if err := f.Write(&buf); err != nil {
		return nil, "", err
	}
	return buf.Bytes(), exportFilename(schedule, "xlsx"), nil
}

func (s *RosterService) loadRoster(ctx context.Context, scheduleID uuid.UUID) (*model.Schedule, []model.RosterEntry, error) {
	schedule, err := s.scheduleRepo.GetByID(ctx, scheduleID)
	if err != nil {
		return nil, nil, fmt.Errorf("get schedule: %w", err)
	}
	roster, err := s.assignmentRepo.ListBySchedule(ctx, scheduleID)
	if err != nil {
		return nil, nil, fmt.Errorf("list roster: %w", err)
	}
	return schedule, roster, nil
}

func (s *RosterService) notifyOutcome(ctx context.Context, kind notify.Kind, applicantID int) {
	applicant, err := s.applicantRepo.GetByID(ctx, applicantID)
	if err != nil {
		s.log.Error().Err(err).Int("applicant_id", applicantID).Msg("load applicant for outcome notification")
		return
	}
	msg := notify.Message{Kind: kind, ApplicantID: applicantID, Email: applicant.Email}
	if err := s.notifier.Send(ctx, msg); err != nil {
		s.log.Error().Err(err).Int("applicant_id", applicantID).Msg("enqueue outcome notification")
	}
}

func outcomeHeader(kind model.ScheduleKind) string {
	if kind == model.ScheduleKindExam {
		return "Score"
	}
	return "Outcome"
}

func outcomeValue(kind model.ScheduleKind, entry model.RosterEntry) string {
	if kind == model.ScheduleKindExam {
		if entry.ExamScore != nil {
			return strconv.Itoa(*entry.ExamScore)
		}
		return ""
	}
	return string(entry.Status)
}

func exportFilename(schedule *model.Schedule, ext string) string {
	return fmt.Sprintf("roster_%s_%s.%s",
		strings.ToLower(string(schedule.Kind)), schedule.Date.Format("2006-01-02"), ext)
}

// crosscheckName rejects a row whose optional name columns disagree with the
// applicant on record. Used only as a human safeguard against misaligned
// spreadsheets; empty name cells pass.
func crosscheckName(applicant *model.Applicant, row rosterRow) error {
	if row.firstName != "" && !strings.EqualFold(strings.TrimSpace(row.firstName), applicant.FirstName) {
		return fmt.Errorf("first name %q does not match record %q", row.firstName, applicant.FirstName)
	}
	if row.lastName != "" && !strings.EqualFold(strings.TrimSpace(row.lastName), applicant.LastName) {
		return fmt.Errorf("last name %q does not match record %q", row.lastName, applicant.LastName)
	}
	return nil
}

// normalizeHeader canonicalizes a column header: lowercase with spaces,
// underscores and dashes removed, so "Applicant No", "applicant_no" and
// "APPLICANT-NO" all match.
func normalizeHeader(h string) string {
	h = strings.ToLower(strings.TrimSpace(h))
	return strings.Map(func(r rune) rune {
		switch r {
		case ' ', '_', '-':
			return -1
		}
		return r
	}, h)
}

// columnIndexes maps recognized header names to their column positions.
func columnIndexes(header []string) map[string]int {
	aliases := map[string]string{
		"applicantno":     "applicant_no",
		"applicantnumber": "applicant_no",
		"identifier":      "applicant_no",
		"no":              "applicant_no",
		"firstname":       "first_name",
		"lastname":        "last_name",
		"score":           "score",
		"examscore":       "score",
		"outcome":         "outcome",
		"result":          "outcome",
		"status":          "outcome",
	}

	idx := make(map[string]int)
	for i, h := range header {
		if canonical, ok := aliases[normalizeHeader(h)]; ok {
			if _, seen := idx[canonical]; !seen {
				idx[canonical] = i
			}
		}
	}
	return idx
}

// parseRosterFile reads a CSV or XLSX upload into rows. The header row is
// matched case/space/underscore-insensitively; at minimum an applicant number
// column and a score or outcome column must be present.
func parseRosterFile(filename string, file io.Reader) ([]rosterRow, error) {
	var records [][]string
	var err error

	switch {
	case strings.HasSuffix(strings.ToLower(filename), ".csv"):
		records, err = readCSV(file)
	case strings.HasSuffix(strings.ToLower(filename), ".xlsx"):
		records, err = readXLSX(file)
	default:
		return nil, ErrUnsupportedFileType
	}
	if err != nil {
		return nil, err
	}
	if len(records) == 0 {
		return nil, ErrMissingColumns
	}

	idx := columnIndexes(records[0])
	_, hasNo := idx["applicant_no"]
	_, hasScore := idx["score"]
	_, hasOutcome := idx["outcome"]
	if !hasNo || (!hasScore && !hasOutcome) {
		return nil, ErrMissingColumns
	}

	cell := func(record []string, name string) string {
		i, ok := idx[name]
		if !ok || i >= len(record) {
			return ""
		}
		return strings.TrimSpace(record[i])
	}

	rows := make([]rosterRow, 0, len(records)-1)
	for i, record := range records[1:] {
		if isBlankRecord(record) {
			continue
		}
		rows = append(rows, rosterRow{
			line:        i + 2, // 1-based, after the header row
			applicantNo: cell(record, "applicant_no"),
			firstName:   cell(record, "first_name"),
			lastName:    cell(record, "last_name"),
			score:       cell(record, "score"),
			outcome:     cell(record, "outcome"),
		})
	}
	return rows, nil
}

func readCSV(file io.Reader) ([][]string, error) {
	data, err := io.ReadAll(file)
	if err != nil {
		return nil, err
	}
	data = bytes.TrimPrefix(data, utf8BOM)

	r := csv.NewReader(bytes.NewReader(data))
	r.FieldsPerRecord = -1
	records, err := r.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("parse csv: %w", err)
	}
	return records, nil
}

func readXLSX(file io.Reader) ([][]string, error) {
	f, err := excelize.OpenReader(file)
	if err != nil {
		return nil, fmt.Errorf("open xlsx: %w", err)
	}
	defer f.Close()

	sheet := f.GetSheetName(0)
	rows, err := f.GetRows(sheet)
	if err != nil {
		return nil, fmt.Errorf("read xlsx: %w", err)
	}
	return rows, nil
}

func isBlankRecord(record []string) bool {
	for _, v := range record {
		if strings.TrimSpace(v) != "" {
			return false
		}
	}
	return true
}
