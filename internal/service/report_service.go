package service

import (
	"bytes"
	"context"
	"fmt"

	"github.com/xuri/excelize/v2"

	"peerflow/internal/csvexport"
	"peerflow/internal/domain"
	"peerflow/internal/port"
)

// exportPageSize bounds each repository page while streaming an export.
const exportPageSize = 500

// ReportService produces editorial exports of the submission pipeline.
type ReportService interface {
	ExportSubmissionsCSV(ctx context.Context, role domain.UserRole) ([]byte, error)
	ExportSubmissionsXLSX(ctx context.Context, role domain.UserRole) ([]byte, error)
}

type reportService struct {
	subRepo port.SubmissionRepository
}

// NewReportService creates a new ReportService implementation.
func NewReportService(subRepo port.SubmissionRepository) ReportService {
	return &reportService{subRepo: subRepo}
}

func (s *reportService) collect(ctx context.Context) ([]domain.Submission, error) {
	var all []domain.Submission
	for offset := 0; ; offset += exportPageSize {
		page, total, err := s.subRepo.ListAll(ctx, offset, exportPageSize)
		if err != nil {
			return nil, err
		}
		all = append(all, page...)
		if len(all) >= total || len(page) == 0 {
			return all, nil
		}
	}
}

func (s *reportService) ExportSubmissionsCSV(ctx context.Context, role domain.UserRole) ([]byte, error) {
	if role != domain.RoleAdmin && role != domain.RoleEditor {
		return nil, domain.ErrForbidden
	}

	subs, err := s.collect(ctx)
	if err != nil {
		return nil, err
	}

	var buf bytes.Buffer
	buf.Write(csvexport.BOM)
	w := csvexport.NewWriter(&buf)
	if err := w.WriteHeader(); err != nil {
		return nil, fmt.Errorf("reportService.ExportSubmissionsCSV: %w", err)
	}
	if err := w.WriteSubmissions(subs); err != nil {
		return nil, fmt.Errorf("reportService.ExportSubmissionsCSV: %w", err)
	}
	w.Flush()
	if err := w.Error(); err != nil {
		return nil, fmt.Errorf("reportService.ExportSubmissionsCSV: %w", err)
	}
	return buf.Bytes(), nil
}

func (s *reportService) ExportSubmissionsXLSX(ctx context.Context, role domain.UserRole) ([]byte, error) {
	if role != domain.RoleAdmin && role != domain.RoleEditor {
		return nil, domain.ErrForbidden
	}

	subs, err := s.collect(ctx)
	if err != nil {
		return nil, err
	}

	f := excelize.NewFile()
	defer f.Close()

	const sheet = "Submissions"
	f.SetSheetName("Sheet1", sheet)

	header := make([]interface{}, 0)
	for _, col := range csvexport.Columns() {
		header = append(header, col)
	}
	if err := f.SetSheetRow(sheet, "A1", &header); err != nil {
		return nil, fmt.Errorf("reportService.ExportSubmissionsXLSX: %w", err)
	}

	for i := range subs {
		values := csvexport.SubmissionRow(&subs[i])
		row := make([]interface{}, 0, len(values))
		for _, v := range values {
			row = append(row, v)
		}
		cell, err := excelize.CoordinatesToCellName(1, i+2)
		if err != nil {
			return nil, fmt.Errorf("reportService.ExportSubmissionsXLSX: %w", err)
		}
		if err := f.SetSheetRow(sheet, cell, &row); err != nil {
			return nil, fmt.Errorf("reportService.ExportSubmissionsXLSX: %w", err)
		}
	}

	var buf bytes.Buffer
	if err := f.Write(&buf); err != nil {
		return nil, fmt.Errorf("reportService.ExportSubmissionsXLSX: %w", err)
	}
	return buf.Bytes(), nil
}
