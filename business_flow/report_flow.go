package businessflow

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/taskdesk/taskdesk/app/dto"
	"github.com/taskdesk/taskdesk/app/services"
	"github.com/taskdesk/taskdesk/models"
	"github.com/taskdesk/taskdesk/repository"
	"github.com/taskdesk/taskdesk/utils"
	"github.com/xuri/excelize/v2"
)

// ReportFlow provides use cases for issuance-volume reporting. A report
// walks the counter rows for a date range and exports one workbook row per
// (prefix, date) pair; the counter value is the number of identifiers
// issued that day.
type ReportFlow interface {
	GenerateReport(ctx context.Context, req *dto.GenerateReportRequest, metadata *ClientMetadata) (*dto.GenerateReportResponse, error)
	ListReports(ctx context.Context, req *dto.ListReportsRequest) (*dto.ListReportsResponse, error)
}

// ReportFlowImpl implements ReportFlow
type ReportFlowImpl struct {
	reportRepo  repository.ReportRepository
	counterRepo repository.SequenceCounterRepository
	userRepo    repository.UserRepository
	idGen       services.IDGenerator
	outputDir   string
}

func NewReportFlow(
	reportRepo repository.ReportRepository,
	counterRepo repository.SequenceCounterRepository,
	userRepo repository.UserRepository,
	idGen services.IDGenerator,
	outputDir string,
) ReportFlow {
	return &ReportFlowImpl{
		reportRepo:  reportRepo,
		counterRepo: counterRepo,
		userRepo:    userRepo,
		idGen:       idGen,
		outputDir:   outputDir,
	}
}

func (f *ReportFlowImpl) GenerateReport(ctx context.Context, req *dto.GenerateReportRequest, metadata *ClientMetadata) (*dto.GenerateReportResponse, error) {
	requester, err := getUser(ctx, f.userRepo, req.RequesterID)
	if err != nil {
		return nil, err
	}
	if requester.Role == models.UserRoleMember {
		return nil, NewBusinessError("REPORT_ACCESS_DENIED", "Only managers and admins may generate reports", nil)
	}

	from, err := time.Parse(utils.DateStampLayout, req.FromDate)
	if err != nil {
		return nil, NewBusinessError("INVALID_DATE", "from_date must be YYYYMMDD", err)
	}
	to, err := time.Parse(utils.DateStampLayout, req.ToDate)
	if err != nil {
		return nil, NewBusinessError("INVALID_DATE", "to_date must be YYYYMMDD", err)
	}
	if from.After(to) {
		return nil, ErrInvalidReportRange
	}

	filter := models.SequenceCounterFilter{
		DateAfter:  &req.FromDate,
		DateBefore: &req.ToDate,
	}
	rows, err := f.counterRepo.ByFilter(ctx, filter, "date ASC, prefix ASC", 0, 0)
	if err != nil {
		return nil, NewBusinessError("COUNTER_QUERY_FAILED", "Failed to query issuance counters", err)
	}

	// ID assigned before the entity is made durable
	id, err := f.idGen.Generate(ctx, models.PrefixReport)
	if err != nil {
		return nil, NewBusinessError("ID_ALLOCATION_FAILED", "Failed to allocate report ID", err)
	}

	filePath, err := f.writeWorkbook(id, req.FromDate, req.ToDate, rows)
	if err != nil {
		return nil, err
	}

	report := models.Report{
		ID:          id,
		RequesterID: requester.ID,
		Kind:        models.ReportKindIssuanceVolume,
		FromDate:    req.FromDate,
		ToDate:      req.ToDate,
		FilePath:    filePath,
	}

	if err := f.reportRepo.Save(ctx, &report); err != nil {
		// The workbook is orphaned on disk; remove it so reruns stay clean.
		_ = os.Remove(filePath)
		return nil, NewBusinessError("REPORT_CREATE_FAILED", "Failed to save report", err)
	}

	return &dto.GenerateReportResponse{
		Message: "Report generated successfully",
		Report:  toReportDTO(report),
	}, nil
}

func (f *ReportFlowImpl) ListReports(ctx context.Context, req *dto.ListReportsRequest) (*dto.ListReportsResponse, error) {
	requester, err := getUser(ctx, f.userRepo, req.RequesterID)
	if err != nil {
		return nil, err
	}

	page, pageSize := req.Page, req.PageSize
	if page == 0 {
		page = 1
	}
	if pageSize == 0 {
		pageSize = 20
	}
	limit, offset, err := validatePagination(page, pageSize)
	if err != nil {
		return nil, err
	}

	filter := models.ReportFilter{RequesterID: &requester.ID}

	rows, err := f.reportRepo.ByFilter(ctx, filter, "id DESC", limit, offset)
	if err != nil {
		return nil, NewBusinessError("REPORT_LIST_FAILED", "Failed to list reports", err)
	}

	total, err := f.reportRepo.Count(ctx, filter)
	if err != nil {
		return nil, NewBusinessError("REPORT_COUNT_FAILED", "Failed to count reports", err)
	}

	out := make([]dto.ReportDTO, 0, len(rows))
	for _, r := range rows {
		out = append(out, toReportDTO(*r))
	}

	return &dto.ListReportsResponse{
		Message:    "Reports retrieved successfully",
		Reports:    out,
		Pagination: dto.PaginationDTO{Page: page, PageSize: pageSize, Total: total},
	}, nil
}

// writeWorkbook renders the counter rows into an xlsx file under outputDir
// and returns the stored path.
func (f *ReportFlowImpl) writeWorkbook(reportID, fromDate, toDate string, rows []*models.SequenceCounter) (string, error) {
	xl := excelize.NewFile()
	defer func() { _ = xl.Close() }()

	sheet := "issuance"
	xl.SetSheetName(xl.GetSheetName(0), sheet)

	header := []string{"date", "prefix", "issued"}
	_ = xl.SetSheetRow(sheet, "A1", &header)

	var totalIssued int64
	for i, row := range rows {
		record := []any{row.Date, row.Prefix, row.Sequence}
		cellRef, _ := excelize.CoordinatesToCellName(1, i+2)
		_ = xl.SetSheetRow(sheet, cellRef, &record)
		totalIssued += int64(row.Sequence)
	}

	totalRef, _ := excelize.CoordinatesToCellName(1, len(rows)+2)
	totalRow := []any{"total", "", totalIssued}
	_ = xl.SetSheetRow(sheet, totalRef, &totalRow)

	if err := os.MkdirAll(f.outputDir, 0o755); err != nil {
		return "", NewBusinessError("REPORT_WRITE_FAILED", "Failed to create report directory", err)
	}

	filePath := filepath.Join(f.outputDir, fmt.Sprintf("%s_issuance_%s_%s.xlsx", reportID, fromDate, toDate))
	if err := xl.SaveAs(filePath); err != nil {
		return "", NewBusinessError("REPORT_WRITE_FAILED", "Failed to write report workbook", err)
	}
	return filePath, nil
}

func toReportDTO(r models.Report) dto.ReportDTO {
	return dto.ReportDTO{
		ID:        r.ID,
		Kind:      r.Kind,
		FromDate:  r.FromDate,
		ToDate:    r.ToDate,
		FilePath:  r.FilePath,
		CreatedAt: r.CreatedAt.Format(time.RFC3339),
	}
}
