// Package companies manages tenant accounts and their profile.
package companies

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"

	"github.com/mamadbah2/wagebook/internal/domain/models"
	"github.com/mamadbah2/wagebook/internal/repository"
)

var (
	// ErrCompanyNotFound is returned when the company does not exist.
	ErrCompanyNotFound = errors.New("company not found")
	// ErrEmailTaken is returned when another company already uses the email.
	ErrEmailTaken = errors.New("email already registered")
)

// Repository is the storage the service needs.
type Repository interface {
	Create(ctx context.Context, company *models.Company) error
	FindByID(ctx context.Context, id primitive.ObjectID) (models.Company, error)
	FindByEmail(ctx context.Context, email string) (models.Company, error)
	Update(ctx context.Context, company models.Company) error
}

// Service implements company registration and profile management.
type Service struct {
	repo   Repository
	logger *zap.Logger
	now    func() time.Time
	cost   int
}

// NewService wires a new company service instance.
func NewService(repo Repository, logger *zap.Logger) *Service {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Service{repo: repo, logger: logger, now: time.Now, cost: bcrypt.DefaultCost}
}

// Register creates a company with a hashed password.
func (s *Service) Register(ctx context.Context, req models.RegisterCompanyRequest) (models.Company, error) {
	email := strings.ToLower(strings.TrimSpace(req.Email))

	_, err := s.repo.FindByEmail(ctx, email)
	switch {
	case err == nil:
		return models.Company{}, ErrEmailTaken
	case !errors.Is(err, repository.ErrNotFound):
		return models.Company{}, fmt.Errorf("lookup company email: %w", err)
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(req.Password), s.cost)
	if err != nil {
		return models.Company{}, fmt.Errorf("hash password: %w", err)
	}

	now := s.now().UTC()
	company := models.Company{
		CompanyName:  strings.TrimSpace(req.CompanyName),
		Email:        email,
		PasswordHash: string(hash),
		Phone:        strings.TrimSpace(req.Phone),
		Address:      strings.TrimSpace(req.Address),
		CreatedAt:    now,
		UpdatedAt:    now,
	}
	if err := s.repo.Create(ctx, &company); err != nil {
		// A concurrent registration can still trip the unique index.
		if errors.Is(err, repository.ErrDuplicate) {
			return models.Company{}, ErrEmailTaken
		}
		return models.Company{}, fmt.Errorf("create company: %w", err)
	}

	s.logger.Info("company registered", zap.String("company_id", company.ID.Hex()))
	return company, nil
}

// CheckPassword reports whether password matches the company's hash.
func CheckPassword(company models.Company, password string) bool {
	return bcrypt.CompareHashAndPassword([]byte(company.PasswordHash), []byte(password)) == nil
}

// Profile loads the calling company.
func (s *Service) Profile(ctx context.Context, id primitive.ObjectID) (models.Company, error) {
	company, err := s.repo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return models.Company{}, ErrCompanyNotFound
		}
		return models.Company{}, fmt.Errorf("load company: %w", err)
	}
	return company, nil
}

// UpdateProfile applies the non-nil fields of req.
func (s *Service) UpdateProfile(ctx context.Context, id primitive.ObjectID, req models.UpdateCompanyRequest) (models.Company, error) {
	company, err := s.Profile(ctx, id)
	if err != nil {
		return models.Company{}, err
	}

	if req.CompanyName != nil {
		if name := strings.TrimSpace(*req.CompanyName); name != "" {
			company.CompanyName = name
		}
	}
	if req.Phone != nil {
		company.Phone = strings.TrimSpace(*req.Phone)
	}
	if req.Address != nil {
		company.Address = strings.TrimSpace(*req.Address)
	}
	if req.Logo != nil {
		company.Logo = strings.TrimSpace(*req.Logo)
	}
	company.UpdatedAt = s.now().UTC()

	if err := s.repo.Update(ctx, company); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return models.Company{}, ErrCompanyNotFound
		}
		return models.Company{}, fmt.Errorf("update company: %w", err)
	}
	return company, nil
}
