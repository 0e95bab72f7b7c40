package refdata

import (
	"context"
	"strings"

	"gorm.io/gorm"

	"github.com/bigappletaxi/fleetops-backend/pkg/db/models"
)

// BankAccountInput carries the raw bank fields from a workbook row.
type BankAccountInput struct {
	BankName      string
	AccountNumber string
	RoutingNumber string
	AccountType   string
	AccountStatus string
	AddressID     *int64
	ActorUserID   int64
}

// BankService resolves bank accounts keyed by (bank_name, account_number).
type BankService interface {
	LookupByAccountNumber(ctx context.Context, tx *gorm.DB, accountNumber string) (*models.BankAccount, error)
	LookupOrCreate(ctx context.Context, tx *gorm.DB, input BankAccountInput) (*models.BankAccount, error)
	Upsert(ctx context.Context, tx *gorm.DB, input BankAccountInput) (*models.BankAccount, bool, error)
}

type bankService struct{}

// NewBankService returns the shared bank account service.
func NewBankService() BankService {
	return bankService{}
}

func (bankService) LookupByAccountNumber(ctx context.Context, tx *gorm.DB, accountNumber string) (*models.BankAccount, error) {
	accountNumber = strings.TrimSpace(accountNumber)
	if accountNumber == "" {
		return nil, nil
	}

	var existing models.BankAccount
	err := tx.WithContext(ctx).Where("bank_account_number = ?", accountNumber).First(&existing).Error
	if err == gorm.ErrRecordNotFound {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &existing, nil
}

func (s bankService) LookupOrCreate(ctx context.Context, tx *gorm.DB, input BankAccountInput) (*models.BankAccount, error) {
	account, _, err := s.upsert(ctx, tx, input, false)
	return account, err
}

// Upsert creates or refreshes the account for its natural key and reports
// whether a row was created.
func (s bankService) Upsert(ctx context.Context, tx *gorm.DB, input BankAccountInput) (*models.BankAccount, bool, error) {
	return s.upsert(ctx, tx, input, true)
}

func (bankService) upsert(ctx context.Context, tx *gorm.DB, input BankAccountInput, updateExisting bool) (*models.BankAccount, bool, error) {
	bankName := strings.TrimSpace(input.BankName)
	accountNumber := strings.TrimSpace(input.AccountNumber)
	if bankName == "" || accountNumber == "" {
		return nil, false, nil
	}

	var existing models.BankAccount
	err := tx.WithContext(ctx).
		Where("bank_name = ? AND bank_account_number = ?", bankName, accountNumber).
		First(&existing).Error
	if err == nil {
		if !updateExisting {
			return &existing, false, nil
		}
		existing.BankRoutingNumber = coalesce(optional(input.RoutingNumber), existing.BankRoutingNumber)
		existing.AccountType = coalesce(optional(input.AccountType), existing.AccountType)
		existing.AccountStatus = coalesce(optional(input.AccountStatus), existing.AccountStatus)
		if input.AddressID != nil {
			existing.AddressID = input.AddressID
		}
		existing.ModifiedBy = &input.ActorUserID
		if err := tx.WithContext(ctx).Save(&existing).Error; err != nil {
			return nil, false, err
		}
		return &existing, false, nil
	}
	if err != gorm.ErrRecordNotFound {
		return nil, false, err
	}

	account := models.BankAccount{
		BankName:          bankName,
		BankAccountNumber: accountNumber,
		BankRoutingNumber: optional(input.RoutingNumber),
		AccountType:       optional(input.AccountType),
		AccountStatus:     optional(input.AccountStatus),
		AddressID:         input.AddressID,
		Audit:             models.Audit{CreatedBy: input.ActorUserID},
	}
	if err := tx.WithContext(ctx).Create(&account).Error; err != nil {
		return nil, false, err
	}
	return &account, true, nil
}

func coalesce(next, current *string) *string {
	if next != nil {
		return next
	}
	return current
}
