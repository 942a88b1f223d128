package app

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"

	"campus-quiz-service/internal/domain"
	"campus-quiz-service/internal/validate"
)

// StudentInput is the registration payload for a student account.
type StudentInput struct {
	Name         string `json:"name" validate:"required,min=1,max=50"`
	Email        string `json:"email" validate:"required,email,min=5,max=100"`
	Password     string `json:"password" validate:"required,min=5,max=50"`
	EnrollmentNo string `json:"enrollmentNo" validate:"required,min=10,max=12"`
	Branch       string `json:"branch" validate:"required"`
	Year         int    `json:"year" validate:"required"`
}

// TeacherInput is the registration payload for a teacher account.
type TeacherInput struct {
	Name     string `json:"name" validate:"required,min=1,max=50"`
	Email    string `json:"email" validate:"required,email,min=5,max=100"`
	Password string `json:"password" validate:"required,min=5,max=50"`
}

// LoginInput is the shared login payload.
type LoginInput struct {
	Email    string `json:"email" validate:"required,email,min=5,max=100"`
	Password string `json:"password" validate:"required,min=5,max=50"`
}

// TokenIssuer mints a time-boxed credential for an account.
type TokenIssuer interface {
	Issue(acct domain.Account) (string, error)
	TTL() time.Duration
}

// Credentials couples a registered or logged-in account with its token.
type Credentials struct {
	Account domain.Account
	Token   string
	TTL     time.Duration
}

// AccountService registers and authenticates students and teachers.
type AccountService struct {
	accounts AccountRepository
	issuer   TokenIssuer
	cost     int
	now      func() time.Time
	newID    func() string
}

func NewAccountService(accounts AccountRepository, issuer TokenIssuer) *AccountService {
	return &AccountService{
		accounts: accounts,
		issuer:   issuer,
		cost:     bcrypt.DefaultCost,
		now:      time.Now,
		newID:    uuid.NewString,
	}
}

// RegisterStudent creates a student account and returns it with a fresh token.
// Duplicate emails and enrollment numbers are rejected with a conflict.
func (s *AccountService) RegisterStudent(ctx context.Context, in StudentInput) (Credentials, error) {
	if err := validate.Struct(in); err != nil {
		return Credentials{}, err
	}
	if err := s.ensureEmailFree(ctx, domain.RoleStudent, in.Email); err != nil {
		return Credentials{}, err
	}
	if _, err := s.accounts.AccountByEnrollmentNo(ctx, in.EnrollmentNo); err == nil {
		return Credentials{}, domain.NewConflictError("enrollmentNo", "the enrollment no already exists")
	} else if !errors.Is(err, domain.ErrNotFound) {
		return Credentials{}, domain.NewPersistenceError("check enrollment", err)
	}

	acct := domain.Account{
		ID:           s.newID(),
		Name:         in.Name,
		Email:        in.Email,
		Role:         domain.RoleStudent,
		EnrollmentNo: in.EnrollmentNo,
		Branch:       in.Branch,
		Year:         in.Year,
		CreatedAt:    s.now(),
	}
	return s.register(ctx, acct, in.Password)
}

// RegisterTeacher creates a teacher account and returns it with a fresh token.
func (s *AccountService) RegisterTeacher(ctx context.Context, in TeacherInput) (Credentials, error) {
	if err := validate.Struct(in); err != nil {
		return Credentials{}, err
	}
	if err := s.ensureEmailFree(ctx, domain.RoleTeacher, in.Email); err != nil {
		return Credentials{}, err
	}

	acct := domain.Account{
		ID:        s.newID(),
		Name:      in.Name,
		Email:     in.Email,
		Role:      domain.RoleTeacher,
		CreatedAt: s.now(),
	}
	return s.register(ctx, acct, in.Password)
}

// Login verifies the password for the account registered under (role, email)
// and returns a fresh token. A missing account and a wrong password produce
// the same response, as the reference login did.
func (s *AccountService) Login(ctx context.Context, role domain.Role, in LoginInput) (Credentials, error) {
	if err := validate.Struct(in); err != nil {
		return Credentials{}, err
	}
	acct, err := s.accounts.AccountByEmail(ctx, role, in.Email)
	if errors.Is(err, domain.ErrNotFound) {
		return Credentials{}, domain.NewValidationError("email", "email or password is invalid")
	}
	if err != nil {
		return Credentials{}, domain.NewPersistenceError("find account", err)
	}
	if bcrypt.CompareHashAndPassword([]byte(acct.PasswordHash), []byte(in.Password)) != nil {
		return Credentials{}, domain.NewValidationError("email", "email or password is invalid")
	}
	return s.issue(acct)
}

// Profile returns the account behind a verified credential.
func (s *AccountService) Profile(ctx context.Context, accountID string) (domain.Account, error) {
	acct, err := s.accounts.AccountByID(ctx, accountID)
	if errors.Is(err, domain.ErrNotFound) {
		return domain.Account{}, domain.NewNotFoundError("account")
	}
	if err != nil {
		return domain.Account{}, domain.NewPersistenceError("find account", err)
	}
	return acct, nil
}

func (s *AccountService) ensureEmailFree(ctx context.Context, role domain.Role, email string) error {
	if _, err := s.accounts.AccountByEmail(ctx, role, email); err == nil {
		return domain.NewConflictError("email", "the email already exists")
	} else if !errors.Is(err, domain.ErrNotFound) {
		return domain.NewPersistenceError("check email", err)
	}
	return nil
}

func (s *AccountService) register(ctx context.Context, acct domain.Account, password string) (Credentials, error) {
	hash, err := bcrypt.GenerateFromPassword([]byte(password), s.cost)
	if err != nil {
		return Credentials{}, domain.NewPersistenceError("hash password", err)
	}
	acct.PasswordHash = string(hash)
	if err := s.accounts.InsertAccount(ctx, acct); err != nil {
		return Credentials{}, domain.NewPersistenceError("insert account", err)
	}
	return s.issue(acct)
}

func (s *AccountService) issue(acct domain.Account) (Credentials, error) {
	token, err := s.issuer.Issue(acct)
	if err != nil {
		return Credentials{}, domain.NewPersistenceError("issue token", err)
	}
	return Credentials{Account: acct, Token: token, TTL: s.issuer.TTL()}, nil
}
