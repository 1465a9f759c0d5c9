package service

import (
	"time"

	"go-erp-ws/internal/model"
	"go-erp-ws/internal/repository"
	"go-erp-ws/pkg/apperr"
	"go-erp-ws/pkg/validator"

	"github.com/shopspring/decimal"
)

// FinancialSummary aggregates the ledger over a date range.
type FinancialSummary struct {
	Income   decimal.Decimal `json:"income"`
	Expenses decimal.Decimal `json:"expenses"`
	Balance  decimal.Decimal `json:"balance"`
}

// ProfitLossReport is the per-category breakdown plus the net result.
type ProfitLossReport struct {
	StartDate  time.Time                  `json:"start_date"`
	EndDate    time.Time                  `json:"end_date"`
	Categories []repository.CategoryTotal `json:"categories"`
	Summary    FinancialSummary           `json:"summary"`
}

type FinanceService interface {
	AddTransaction(req *model.Transaction, actor string) (*model.Transaction, error)
	GetTransactions(filter repository.TransactionFilter) ([]model.Transaction, error)
	GetFinancialSummary(startDate, endDate time.Time) (*FinancialSummary, error)
	GetProfitLoss(startDate, endDate time.Time) (*ProfitLossReport, error)
}

type financeService struct {
	txRepo repository.TransactionRepository
}

func NewFinanceService(txRepo repository.TransactionRepository) FinanceService {
	return &financeService{txRepo: txRepo}
}

// AddTransaction is a pure append. The only business validation is that the
// amount is a positive finite number and the type is known.
func (s *financeService) AddTransaction(req *model.Transaction, actor string) (*model.Transaction, error) {
	if err := validator.Check(req); err != nil {
		return nil, err
	}
	if !req.Type.IsValid() {
		return nil, apperr.Validationf("unknown transaction type '%s'", req.Type)
	}
	if !req.Amount.IsPositive() {
		return nil, apperr.Validationf("amount must be a positive number")
	}
	if req.Date.IsZero() {
		req.Date = time.Now()
	}
	req.CreatedBy = actor
	req.UpdatedBy = actor

	if err := s.txRepo.Create(req); err != nil {
		return nil, apperr.Persistence("create transaction", err)
	}
	return req, nil
}

func (s *financeService) GetTransactions(filter repository.TransactionFilter) ([]model.Transaction, error) {
	return s.txRepo.FindAll(filter)
}

func (s *financeService) GetFinancialSummary(startDate, endDate time.Time) (*FinancialSummary, error) {
	income, expenses, err := s.txRepo.GetFinancialSummary(startDate, endDate)
	if err != nil {
		return nil, apperr.Persistence("financial summary", err)
	}
	return &FinancialSummary{
		Income:   income,
		Expenses: expenses,
		Balance:  income.Sub(expenses),
	}, nil
}

func (s *financeService) GetProfitLoss(startDate, endDate time.Time) (*ProfitLossReport, error) {
	summary, err := s.GetFinancialSummary(startDate, endDate)
	if err != nil {
		return nil, err
	}
	categories, err := s.txRepo.GetCategoryBreakdown(startDate, endDate)
	if err != nil {
		return nil, apperr.Persistence("category breakdown", err)
	}
	return &ProfitLossReport{
		StartDate:  startDate,
		EndDate:    endDate,
		Categories: categories,
		Summary:    *summary,
	}, nil
}
