package services

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/SscSPs/mfrs_ledger_app/internal/apperrors"
	"github.com/SscSPs/mfrs_ledger_app/internal/core/domain"
	portsrepo "github.com/SscSPs/mfrs_ledger_app/internal/core/ports/repositories"
	portssvc "github.com/SscSPs/mfrs_ledger_app/internal/core/ports/services"
	"github.com/SscSPs/mfrs_ledger_app/internal/dto"
)

// accountService implements the AccountSvcFacade interface
type accountService struct {
	BaseService
	accountRepo portsrepo.AccountRepositoryFacade
	auditLog    portsrepo.AuditLogWriter
}

// AccountServiceOption is a functional option for configuring the account service
type AccountServiceOption func(*accountService)

// WithAccountAuditLog records account creation and deactivation in the audit log.
func WithAccountAuditLog(w portsrepo.AuditLogWriter) AccountServiceOption {
	return func(s *accountService) {
		s.auditLog = w
	}
}

// WithAccountClock overrides the time source.
func WithAccountClock(now func() time.Time) AccountServiceOption {
	return func(s *accountService) {
		s.now = now
	}
}

// NewAccountService creates a new account service with the provided options
func NewAccountService(repo portsrepo.AccountRepositoryFacade, options ...AccountServiceOption) portssvc.AccountSvcFacade {
	svc := &accountService{
		accountRepo: repo,
	}

	for _, option := range options {
		option(svc)
	}

	return svc
}

// Ensure accountService implements the AccountSvcFacade interface
var _ portssvc.AccountSvcFacade = (*accountService)(nil)

func (s *accountService) CreateAccount(ctx context.Context, tenantID string, req dto.CreateAccountRequest, userID string) (*domain.Account, error) {
	code := strings.TrimSpace(req.Code)
	name := strings.TrimSpace(req.Name)
	if code == "" || name == "" {
		return nil, apperrors.InvalidArgument("account code and name are required")
	}
	if !req.AccountType.IsValid() {
		return nil, apperrors.InvalidArgument(fmt.Sprintf("invalid account type %q", req.AccountType))
	}

	if req.ParentAccountID != nil && *req.ParentAccountID != "" {
		if _, err := s.accountRepo.FindAccountByID(ctx, tenantID, *req.ParentAccountID); err != nil {
			if errors.Is(err, apperrors.ErrNotFound) {
				return nil, apperrors.InvalidArgument(fmt.Sprintf("parent account %s not found", *req.ParentAccountID))
			}
			s.LogError(ctx, err, "Failed to look up parent account",
				slog.String("parent_account_id", *req.ParentAccountID))
			return nil, err
		}
	}

	now := s.Now()
	account := domain.Account{
		AccountID:       uuid.NewString(),
		TenantID:        tenantID,
		Code:            code,
		Name:            name,
		AccountType:     req.AccountType,
		SubType:         req.SubType,
		ParentAccountID: req.ParentAccountID,
		IsActive:        true,
		AuditFields:     domain.NewAuditFields(userID, now),
	}

	if err := s.accountRepo.SaveAccount(ctx, account); err != nil {
		s.LogError(ctx, err, "Failed to save account in repository",
			slog.String("account_id", account.AccountID),
			slog.String("code", code))
		return nil, err
	}

	s.appendAudit(ctx, tenantID, domain.AuditAccountCreated, account.AccountID, userID, map[string]any{
		"account_id": account.AccountID,
		"code":       code,
	})
	s.LogInfo(ctx, "Account created successfully", slog.String("account_id", account.AccountID))
	return &account, nil
}

func (s *accountService) GetAccountByID(ctx context.Context, tenantID, accountID string) (*domain.Account, error) {
	account, err := s.accountRepo.FindAccountByID(ctx, tenantID, accountID)
	if err != nil {
		if !errors.Is(err, apperrors.ErrNotFound) {
			s.LogError(ctx, err, "Failed to find account by ID in repository", slog.String("account_id", accountID))
		}
		return nil, err
	}
	return account, nil
}

func (s *accountService) ListAccounts(ctx context.Context, tenantID string, includeInactive bool) ([]domain.Account, error) {
	accounts, err := s.accountRepo.ListAccounts(ctx, tenantID, includeInactive)
	if err != nil {
		s.LogError(ctx, err, "Failed to list accounts from repository")
		return nil, err
	}
	return accounts, nil
}

func (s *accountService) DeactivateAccount(ctx context.Context, tenantID, accountID, userID string) error {
	if err := s.accountRepo.DeactivateAccount(ctx, tenantID, accountID, userID, s.Now()); err != nil {
		if !errors.Is(err, apperrors.ErrNotFound) {
			s.LogError(ctx, err, "Failed to deactivate account", slog.String("account_id", accountID))
		}
		return err
	}

	s.appendAudit(ctx, tenantID, domain.AuditAccountDeactivated, accountID, userID, map[string]any{
		"account_id": accountID,
	})
	s.LogInfo(ctx, "Account deactivated", slog.String("account_id", accountID))
	return nil
}

func (s *accountService) appendAudit(ctx context.Context, tenantID, event, entityID, userID string, payload map[string]any) {
	if s.auditLog == nil {
		return
	}
	err := s.auditLog.AppendAuditLog(ctx, domain.AuditLog{
		AuditLogID: uuid.NewString(),
		TenantID:   tenantID,
		EventType:  event,
		EntityID:   entityID,
		UserID:     userID,
		Payload:    payload,
		CreatedAt:  s.Now(),
	})
	if err != nil {
		s.LogError(ctx, err, "Failed to write audit log", slog.String("event_type", event))
		s.Metrics.BestEffortWriteFailed("audit")
	}
}
