package usecase

import (
	"context"
	"errors"
	"time"

	"golang.org/x/crypto/bcrypt"

	"github.com/relaypoint/relaypoint/internal/domain"
)

// TokenIssuer mints authentication tokens for accounts.
type TokenIssuer interface {
	Generate(account *domain.Account) (string, error)
}

// AccountUseCase handles registration, authentication, and admin
// account management.
type AccountUseCase struct {
	accountRepo AccountRepository
	idGen       IDGenerator
	tokens      TokenIssuer
}

// NewAccountUseCase creates a new AccountUseCase.
func NewAccountUseCase(accountRepo AccountRepository, idGen IDGenerator, tokens TokenIssuer) *AccountUseCase {
	return &AccountUseCase{
		accountRepo: accountRepo,
		idGen:       idGen,
		tokens:      tokens,
	}
}

// RegisterInput describes a self-service registration.
type RegisterInput struct {
	Email    string
	Name     string
	Password string
	Phone    string
	Address  string
}

// Register creates a regular user account with a zero balance.
func (uc *AccountUseCase) Register(ctx context.Context, input RegisterInput) (*domain.Account, error) {
	return uc.create(ctx, input, domain.RoleUser)
}

// CreateShop creates a partner shop account. Admin only.
func (uc *AccountUseCase) CreateShop(ctx context.Context, input RegisterInput, actor *domain.Account) (*domain.Account, error) {
	if !actor.Role.CanManageAccounts() {
		return nil, domain.ErrForbidden
	}

	return uc.create(ctx, input, domain.RoleShop)
}

func (uc *AccountUseCase) create(ctx context.Context, input RegisterInput, role domain.Role) (*domain.Account, error) {
	if err := domain.ValidateEmail(input.Email); err != nil {
		return nil, err
	}

	if err := domain.ValidatePassword(input.Password); err != nil {
		return nil, err
	}

	existing, err := uc.accountRepo.GetByEmail(ctx, input.Email)
	if err == nil && existing != nil {
		return nil, domain.ErrDuplicateEmail
	} else if err != nil && !errors.Is(err, domain.ErrAccountNotFound) {
		return nil, err
	}

	hashed, err := hashPassword(input.Password)
	if err != nil {
		return nil, err
	}

	now := time.Now().UTC()

	account := &domain.Account{
		ID:             uc.idGen.Generate(),
		Email:          input.Email,
		Name:           input.Name,
		Phone:          input.Phone,
		Address:        input.Address,
		HashedPassword: hashed,
		Role:           role,
		CreatedAt:      now,
		UpdatedAt:      now,
	}

	if err := uc.accountRepo.Create(ctx, account); err != nil {
		return nil, err
	}

	account.HashedPassword = ""
	return account, nil
}

// LoginInput carries credentials.
type LoginInput struct {
	Email    string
	Password string
}

// Login verifies credentials and returns the account with a signed
// token.
func (uc *AccountUseCase) Login(ctx context.Context, input LoginInput) (*domain.Account, string, error) {
	account, err := uc.accountRepo.GetByEmail(ctx, input.Email)
	if err != nil {
		return nil, "", domain.ErrUnauthorized
	}

	if err := verifyPassword(account.HashedPassword, input.Password); err != nil {
		return nil, "", domain.ErrUnauthorized
	}

	token, err := uc.tokens.Generate(account)
	if err != nil {
		return nil, "", err
	}

	account.HashedPassword = ""
	return account, token, nil
}

// Get retrieves an account by ID.
func (uc *AccountUseCase) Get(ctx context.Context, id string) (*domain.Account, error) {
	account, err := uc.accountRepo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	account.HashedPassword = ""
	return account, nil
}

// ListInput selects a page of accounts, optionally by role.
type ListInput struct {
	Role   domain.Role
	Limit  int
	Offset int
}

// List returns accounts. Admin only.
func (uc *AccountUseCase) List(ctx context.Context, input ListInput, actor *domain.Account) ([]*domain.Account, error) {
	if !actor.Role.CanManageAccounts() {
		return nil, domain.ErrForbidden
	}

	limit, offset := domain.ValidatePagination(input.Limit, input.Offset)

	var (
		accounts []*domain.Account
		err      error
	)

	if input.Role != "" {
		accounts, err = uc.accountRepo.ListByRole(ctx, input.Role, limit, offset)
	} else {
		accounts, err = uc.accountRepo.List(ctx, limit, offset)
	}
	if err != nil {
		return nil, err
	}

	for _, account := range accounts {
		account.HashedPassword = ""
	}

	return accounts, nil
}

// AccountSummary is an account with its activity counts, for the admin
// listing.
type AccountSummary struct {
	Account  *domain.Account
	Packages int64
	Entries  int64
}

// ListWithCounts returns accounts annotated with package and ledger
// entry counts. Admin only.
func (uc *AccountUseCase) ListWithCounts(ctx context.Context, input ListInput, actor *domain.Account) ([]*AccountSummary, error) {
	accounts, err := uc.List(ctx, input, actor)
	if err != nil {
		return nil, err
	}

	ids := make([]string, len(accounts))
	for i, account := range accounts {
		ids[i] = account.ID
	}

	counts, err := uc.accountRepo.CountsByAccount(ctx, ids)
	if err != nil {
		return nil, err
	}

	summaries := make([]*AccountSummary, len(accounts))
	for i, account := range accounts {
		summaries[i] = &AccountSummary{
			Account:  account,
			Packages: counts[account.ID].Packages,
			Entries:  counts[account.ID].Entries,
		}
	}

	return summaries, nil
}

// UpdateInput describes an admin account edit. Nil fields are
// unchanged.
type UpdateInput struct {
	Email   *string
	Name    *string
	Phone   *string
	Address *string
}

// Update edits an account's profile fields. Admin only; a changed
// email is re-checked for uniqueness.
func (uc *AccountUseCase) Update(ctx context.Context, id string, input UpdateInput, actor *domain.Account) (*domain.Account, error) {
	if !actor.Role.CanManageAccounts() {
		return nil, domain.ErrForbidden
	}

	account, err := uc.accountRepo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	if input.Email != nil && *input.Email != account.Email {
		if err := domain.ValidateEmail(*input.Email); err != nil {
			return nil, err
		}

		existing, err := uc.accountRepo.GetByEmail(ctx, *input.Email)
		if err == nil && existing != nil && existing.ID != account.ID {
			return nil, domain.ErrDuplicateEmail
		} else if err != nil && !errors.Is(err, domain.ErrAccountNotFound) {
			return nil, err
		}

		account.Email = *input.Email
	}

	if input.Name != nil {
		account.Name = *input.Name
	}

	if input.Phone != nil {
		account.Phone = *input.Phone
	}

	if input.Address != nil {
		account.Address = *input.Address
	}

	account.UpdatedAt = time.Now().UTC()

	if err := uc.accountRepo.Update(ctx, account); err != nil {
		return nil, err
	}

	account.HashedPassword = ""
	return account, nil
}

// Delete removes a non-admin account. Admin only; admin accounts are
// protected.
func (uc *AccountUseCase) Delete(ctx context.Context, id string, actor *domain.Account) error {
	if !actor.Role.CanManageAccounts() {
		return domain.ErrForbidden
	}

	account, err := uc.accountRepo.GetByID(ctx, id)
	if err != nil {
		return err
	}

	if !account.Deletable() {
		return domain.ErrAccountProtected
	}

	return uc.accountRepo.Delete(ctx, id)
}

func hashPassword(password string) (string, error) {
	hashed, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return "", err
	}

	return string(hashed), nil
}

func verifyPassword(hashed, password string) error {
	return bcrypt.CompareHashAndPassword([]byte(hashed), []byte(password))
}
