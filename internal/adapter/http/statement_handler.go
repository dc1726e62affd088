package httpapi

import (
	"encoding/csv"
	"fmt"
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/rahulpatwa/paisavest-backend/internal/domain"
	"github.com/rahulpatwa/paisavest-backend/internal/logger"
	"github.com/xuri/excelize/v2"
)

// StatementHandler exposes the passbook: the paginated ledger and its
// CSV/XLSX downloads
type StatementHandler struct {
	LedgerRepo      domain.LedgerRepository
	DefaultPageSize int
}

// NewStatementHandler creates a new StatementHandler instance
func NewStatementHandler(ledgerRepo domain.LedgerRepository, defaultPageSize int) *StatementHandler {
	if defaultPageSize <= 0 {
		defaultPageSize = 20
	}
	return &StatementHandler{
		LedgerRepo:      ledgerRepo,
		DefaultPageSize: defaultPageSize,
	}
}

// List returns one page of the user's ledger, newest first
func (h *StatementHandler) List(c *gin.Context) {
	user, ok := CurrentUser(c)
	if !ok {
		Fail(c, http.StatusUnauthorized, CodeAuth, "not authenticated")
		return
	}

	page, _ := strconv.Atoi(c.DefaultQuery("page", "1"))
	if page < 1 {
		page = 1
	}
	pageSize, _ := strconv.Atoi(c.DefaultQuery("page_size", strconv.Itoa(h.DefaultPageSize)))
	if pageSize < 1 || pageSize > 100 {
		pageSize = h.DefaultPageSize
	}

	entries, err := h.LedgerRepo.ListByUser(c.Request.Context(), user.ID, pageSize, (page-1)*pageSize)
	if err != nil {
		FailFromError(c, err)
		return
	}

	total, err := h.LedgerRepo.CountByUser(c.Request.Context(), user.ID)
	if err != nil {
		FailFromError(c, err)
		return
	}

	out := make([]gin.H, 0, len(entries))
	for _, entry := range entries {
		out = append(out, entryJSON(entry))
	}

	Success(c, gin.H{
		"entries":   out,
		"page":      page,
		"page_size": pageSize,
		"total":     total,
	})
}

var statementHeaders = []string{"Date", "Type", "Amount", "Description", "Status"}

func statementRow(entry *domain.LedgerEntry) []string {
	return []string{
		entry.CreatedAt.Format("2006-01-02 15:04:05"),
		string(entry.Kind),
		entry.Amount.StringFixed(2),
		entry.Description,
		string(entry.Status),
	}
}

// ExportCSV streams the full ledger as a CSV download
func (h *StatementHandler) ExportCSV(c *gin.Context) {
	user, ok := CurrentUser(c)
	if !ok {
		Fail(c, http.StatusUnauthorized, CodeAuth, "not authenticated")
		return
	}

	entries, err := h.LedgerRepo.ListByUser(c.Request.Context(), user.ID, 0, 0)
	if err != nil {
		FailFromError(c, err)
		return
	}

	c.Header("Content-Type", "text/csv; charset=utf-8")
	c.Header("Content-Disposition", fmt.Sprintf("attachment; filename=\"statement_%s.csv\"",
		time.Now().Format("20060102")))

	writer := csv.NewWriter(c.Writer)
	writer.Write(statementHeaders)
	for _, entry := range entries {
		writer.Write(statementRow(entry))
	}
	writer.Flush()

	// headers are already sent, so a broken download can only be logged
	if err := writer.Error(); err != nil {
		logger.Error("statement csv export failed", err, logger.Fields{
			"user_id": user.ID.String(),
		})
	}
}

// ExportXLSX writes the full ledger as an Excel download
func (h *StatementHandler) ExportXLSX(c *gin.Context) {
	user, ok := CurrentUser(c)
	if !ok {
		Fail(c, http.StatusUnauthorized, CodeAuth, "not authenticated")
		return
	}

	entries, err := h.LedgerRepo.ListByUser(c.Request.Context(), user.ID, 0, 0)
	if err != nil {
		FailFromError(c, err)
		return
	}

	f := excelize.NewFile()
	sheetName := "Statement"
	index, err := f.NewSheet(sheetName)
	if err != nil {
		Fail(c, http.StatusInternalServerError, CodeServerErr, "failed to create sheet")
		return
	}
	f.SetActiveSheet(index)
	f.DeleteSheet("Sheet1")

	for i, header := range statementHeaders {
		cell := fmt.Sprintf("%c1", 'A'+i)
		f.SetCellValue(sheetName, cell, header)
	}

	for idx, entry := range entries {
		row := idx + 2
		for col, value := range statementRow(entry) {
			cell := fmt.Sprintf("%c%d", 'A'+col, row)
			f.SetCellValue(sheetName, cell, value)
		}
	}

	f.SetColWidth(sheetName, "A", "A", 20)
	f.SetColWidth(sheetName, "B", "B", 20)
	f.SetColWidth(sheetName, "C", "C", 12)
	f.SetColWidth(sheetName, "D", "D", 30)
	f.SetColWidth(sheetName, "E", "E", 12)

	c.Header("Content-Type", "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet")
	c.Header("Content-Disposition", fmt.Sprintf("attachment; filename=\"statement_%s.xlsx\"",
		time.Now().Format("20060102")))

	if err := f.Write(c.Writer); err != nil {
		Fail(c, http.StatusInternalServerError, CodeServerErr, "failed to export")
	}
}
