package repository

import (
	"time"

	"go-erp-ws/internal/model"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

type TransactionRepository interface {
	Create(transaction *model.Transaction) error
	FindAll(filter TransactionFilter) ([]model.Transaction, error)
	GetFinancialSummary(startDate, endDate time.Time) (income, expenses decimal.Decimal, err error)
	GetCategoryBreakdown(startDate, endDate time.Time) ([]CategoryTotal, error)
}

type TransactionFilter struct {
	Type      model.TransactionType
	Category  string
	StartDate *time.Time
	EndDate   *time.Time
}

type CategoryTotal struct {
	Category string          `json:"category"`
	Type     string          `json:"type"`
	Total    decimal.Decimal `json:"total"`
}

type transactionRepo struct {
	db *gorm.DB
}

func NewTransactionRepo(db *gorm.DB) TransactionRepository {
	return &transactionRepo{db}
}

func (r *transactionRepo) Create(transaction *model.Transaction) error {
	return r.db.Create(transaction).Error
}

func (r *transactionRepo) FindAll(filter TransactionFilter) ([]model.Transaction, error) {
	q := r.db.Model(&model.Transaction{})
	if filter.Type != "" {
		q = q.Where("type = ?", filter.Type)
	}
	if filter.Category != "" {
		q = q.Where("category = ?", filter.Category)
	}
	if filter.StartDate != nil {
		q = q.Where("date >= ?", *filter.StartDate)
	}
	if filter.EndDate != nil {
		q = q.Where("date <= ?", *filter.EndDate)
	}

	var transactions []model.Transaction
	err := q.Order("date DESC").Find(&transactions).Error
	return transactions, err
}

func (r *transactionRepo) GetFinancialSummary(startDate, endDate time.Time) (decimal.Decimal, decimal.Decimal, error) {
	income, err := r.sumByType(model.TxIncome, startDate, endDate)
	if err != nil {
		return decimal.Zero, decimal.Zero, err
	}

	expenses, err := r.sumByType(model.TxExpense, startDate, endDate)
	if err != nil {
		return decimal.Zero, decimal.Zero, err
	}

	return income, expenses, nil
}

func (r *transactionRepo) sumByType(txType model.TransactionType, startDate, endDate time.Time) (decimal.Decimal, error) {
	var total decimal.Decimal
	row := r.db.Model(&model.Transaction{}).
		Where("type = ? AND date BETWEEN ? AND ?", txType, startDate, endDate).
		Select("COALESCE(SUM(amount), 0)").
		Row()
	if err := row.Scan(&total); err != nil {
		return decimal.Zero, err
	}
	return total, nil
}

func (r *transactionRepo) GetCategoryBreakdown(startDate, endDate time.Time) ([]CategoryTotal, error) {
	rows, err := r.db.Model(&model.Transaction{}).
		Select("category, type, COALESCE(SUM(amount), 0) as total").
		Where("date BETWEEN ? AND ?", startDate, endDate).
		Group("category, type").
		Order("category ASC").
		Rows()
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var results []CategoryTotal
	for rows.Next() {
		var ct CategoryTotal
		if err := rows.Scan(&ct.Category, &ct.Type, &ct.Total); err != nil {
			return nil, err
		}
		results = append(results, ct)
	}
	return results, nil
}
