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

	"go.uber.org/zap"

	"github.com/pfe-platform/defense-api/internal/dto"
	appErrors "github.com/pfe-platform/defense-api/pkg/errors"
)

// ImportKind names a bulk-importable resource.
type ImportKind string

const (
	ImportProfessors ImportKind = "professors"
	ImportStudents   ImportKind = "students"
	ImportRooms      ImportKind = "rooms"
)

var importHeaders = map[ImportKind][]string{
	ImportProfessors: {"full_name", "email", "department"},
	ImportStudents:   {"full_name", "email", "student_number", "program"},
	ImportRooms:      {"name", "capacity", "building", "floor"},
}

// ImportService ingests CSV files for directory resources. Rows are
// applied independently; a bad row is reported and skipped, never
// aborting the file.
type ImportService struct {
	professors *ProfessorService
	students   *StudentService
	rooms      *RoomService
	logger     *zap.Logger
}

// NewImportService constructs an ImportService.
func NewImportService(professors *ProfessorService, students *StudentService, rooms *RoomService, logger *zap.Logger) *ImportService {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &ImportService{professors: professors, students: students, rooms: rooms, logger: logger}
}

// ParseImportKind validates the :type path parameter.
func ParseImportKind(raw string) (ImportKind, error) {
	kind := ImportKind(strings.ToLower(strings.TrimSpace(raw)))
	if _, ok := importHeaders[kind]; !ok {
		return "", appErrors.Clone(appErrors.ErrValidation, fmt.Sprintf("unknown import type %q", raw))
	}
	return kind, nil
}

// Template returns a CSV template with the expected header row.
func (s *ImportService) Template(kind ImportKind) ([]byte, error) {
	headers, ok := importHeaders[kind]
	if !ok {
		return nil, appErrors.Clone(appErrors.ErrValidation, fmt.Sprintf("unknown import type %q", kind))
	}
	var buf bytes.Buffer
	writer := csv.NewWriter(&buf)
	if err := writer.Write(headers); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to render template")
	}
	writer.Flush()
	return buf.Bytes(), nil
}

// Import reads the CSV stream and creates one record per row.
func (s *ImportService) Import(ctx context.Context, kind ImportKind, file io.Reader) (*dto.ImportSummary, error) {
	expected, ok := importHeaders[kind]
	if !ok {
		return nil, appErrors.Clone(appErrors.ErrValidation, fmt.Sprintf("unknown import type %q", kind))
	}

	reader := csv.NewReader(file)
	reader.TrimLeadingSpace = true

	header, err := reader.Read()
	if err != nil {
		return nil, appErrors.Clone(appErrors.ErrValidation, "file is empty or not valid CSV")
	}
	if err := matchHeader(header, expected); err != nil {
		return nil, err
	}

	summary := &dto.ImportSummary{}
	row := 1
	for {
		record, err := reader.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		row++
		if err != nil {
			summary.Skipped++
			summary.Errors = append(summary.Errors, dto.ImportRowError{Row: row, Message: "malformed CSV row"})
			continue
		}
		if err := s.applyRow(ctx, kind, record); err != nil {
			summary.Skipped++
			summary.Errors = append(summary.Errors, dto.ImportRowError{Row: row, Message: appErrors.FromError(err).Message})
			continue
		}
		summary.Imported++
	}
	return summary, nil
}

func (s *ImportService) applyRow(ctx context.Context, kind ImportKind, record []string) error {
	switch kind {
	case ImportProfessors:
		if len(record) < 3 {
			return appErrors.Clone(appErrors.ErrValidation, "expected 3 columns")
		}
		_, err := s.professors.Create(ctx, dto.CreateProfessorRequest{
			FullName:   strings.TrimSpace(record[0]),
			Email:      strings.TrimSpace(record[1]),
			Department: strings.TrimSpace(record[2]),
		})
		return err
	case ImportStudents:
		if len(record) < 4 {
			return appErrors.Clone(appErrors.ErrValidation, "expected 4 columns")
		}
		_, err := s.students.Create(ctx, dto.CreateStudentRequest{
			FullName:      strings.TrimSpace(record[0]),
			Email:         strings.TrimSpace(record[1]),
			StudentNumber: strings.TrimSpace(record[2]),
			Program:       strings.TrimSpace(record[3]),
		})
		return err
	case ImportRooms:
		if len(record) < 4 {
			return appErrors.Clone(appErrors.ErrValidation, "expected 4 columns")
		}
		capacity, err := strconv.Atoi(strings.TrimSpace(record[1]))
		if err != nil {
			return appErrors.Clone(appErrors.ErrValidation, "capacity must be a number")
		}
		floor, err := strconv.Atoi(strings.TrimSpace(record[3]))
		if err != nil {
			return appErrors.Clone(appErrors.ErrValidation, "floor must be a number")
		}
		_, err = s.rooms.Create(ctx, dto.CreateRoomRequest{
			Name:     strings.TrimSpace(record[0]),
			Capacity: capacity,
			Building: strings.TrimSpace(record[2]),
			Floor:    floor,
		})
		return err
	default:
		return appErrors.Clone(appErrors.ErrValidation, fmt.Sprintf("unknown import type %q", kind))
	}
}

func matchHeader(got, want []string) error {
	if len(got) < len(want) {
		return appErrors.Clone(appErrors.ErrValidation, fmt.Sprintf("expected header %s", strings.Join(want, ",")))
	}
	for i, name := range want {
		if !strings.EqualFold(strings.TrimSpace(got[i]), name) {
			return appErrors.Clone(appErrors.ErrValidation, fmt.Sprintf("expected header %s", strings.Join(want, ",")))
		}
	}
	return nil
}
