package http

import (
	"bytes"
	"fmt"
	"net/http"
	"strconv"

	"github.com/avrm/opsdash/internal/core"
	"github.com/avrm/opsdash/internal/export"
	applog "github.com/avrm/opsdash/internal/log"
)

func (s *Server) handleListSources(w http.ResponseWriter, r *http.Request) {
	sources, err := s.deps.Expenses.Sources(r.Context())
	if err != nil {
		writeError(w, r, applog.ComponentExpense, applog.OpList, err)
		return
	}
	OK(sources).Write(w)
}

// handleCreateSource accepts {name, description, isRecurring}.
func (s *Server) handleCreateSource(w http.ResponseWriter, r *http.Request) {
	src, err := parseSource(w, r)
	if err != nil {
		writeError(w, r, applog.ComponentExpense, applog.OpValidate, err)
		return
	}
	created, err := s.deps.Expenses.CreateSource(r.Context(), src)
	if err != nil {
		writeError(w, r, applog.ComponentExpense, applog.OpCreate, err)
		return
	}
	OK(created).Write(w)
}

func parseSource(w http.ResponseWriter, r *http.Request) (core.ExpenseSource, error) {
	body, err := ParseJSONBody(w, r)
	if err != nil {
		return core.ExpenseSource{}, err
	}
	name, err := body.String("name")
	if err != nil {
		return core.ExpenseSource{}, err
	}
	if name == "" {
		return core.ExpenseSource{}, core.NewValidationError("Name is required")
	}
	description, err := body.String("description")
	if err != nil {
		return core.ExpenseSource{}, err
	}
	recurring, err := body.BoolOr("isRecurring", true)
	if err != nil {
		return core.ExpenseSource{}, err
	}
	return core.ExpenseSource{
		Name:        name,
		Description: description,
		IsRecurring: recurring,
		IsActive:    true,
	}, nil
}

func (s *Server) handleExpenseSummary(w http.ResponseWriter, r *http.Request) {
	months, err := parseMonthsParam(r, s.deps.Config.ExpenseWindowMonths)
	if err != nil {
		writeError(w, r, applog.ComponentExpense, applog.OpValidate, err)
		return
	}
	summary, err := s.deps.Expenses.Summary(r.Context(), months)
	if err != nil {
		writeError(w, r, applog.ComponentExpense, applog.OpRead, err)
		return
	}
	OK(summary).Write(w)
}

// handleUpsertExpense accepts {sourceId, month, amount, notes}.
func (s *Server) handleUpsertExpense(w http.ResponseWriter, r *http.Request) {
	entry, err := parseExpenseEntry(w, r)
	if err != nil {
		writeError(w, r, applog.ComponentExpense, applog.OpValidate, err)
		return
	}
	saved, err := s.deps.Expenses.UpsertEntry(r.Context(), entry)
	if err != nil {
		writeError(w, r, applog.ComponentExpense, applog.OpUpsert, err)
		return
	}

	fields := applog.NewFields().WithExpenseEntry(saved.SourceID, saved.Month.String(), saved.Amount.String())
	applog.FromContext(r.Context()).InfoContext(r.Context(), "expense entry saved", fields.ToSlice()...)
	OK(saved).Write(w)
}

func parseExpenseEntry(w http.ResponseWriter, r *http.Request) (core.ExpenseEntry, error) {
	body, err := ParseJSONBody(w, r)
	if err != nil {
		return core.ExpenseEntry{}, err
	}
	sourceID, err := body.Int64("sourceId")
	if err != nil {
		return core.ExpenseEntry{}, err
	}
	month, err := body.Month("month")
	if err != nil {
		return core.ExpenseEntry{}, err
	}
	amount, err := body.Amount("amount")
	if err != nil {
		return core.ExpenseEntry{}, err
	}
	notes, err := body.String("notes")
	if err != nil {
		return core.ExpenseEntry{}, err
	}
	return core.ExpenseEntry{SourceID: sourceID, Month: month, Amount: amount, Notes: notes}, nil
}

// handleExportExpenses streams the expense window as an XLSX workbook.
func (s *Server) handleExportExpenses(w http.ResponseWriter, r *http.Request) {
	months, err := parseMonthsParam(r, s.deps.Config.ExpenseWindowMonths)
	if err != nil {
		writeError(w, r, applog.ComponentExport, applog.OpValidate, err)
		return
	}
	summary, err := s.deps.Expenses.Summary(r.Context(), months)
	if err != nil {
		writeError(w, r, applog.ComponentExport, applog.OpRead, err)
		return
	}

	var buf bytes.Buffer
	if err := export.WriteExpenses(&buf, summary); err != nil {
		writeError(w, r, applog.ComponentExport, applog.OpExport, fmt.Errorf("build workbook: %w", err))
		return
	}
	w.Header().Set("Content-Type", export.ContentType)
	w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=%q", export.Filename(summary)))
	w.Header().Set("Content-Length", strconv.Itoa(buf.Len()))
	w.WriteHeader(http.StatusOK)
	_, _ = buf.WriteTo(w)
}
