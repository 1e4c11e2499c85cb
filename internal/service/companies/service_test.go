package companies

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"golang.org/x/crypto/bcrypt"

	"github.com/mamadbah2/wagebook/internal/domain/models"
	"github.com/mamadbah2/wagebook/internal/repository"
)

type memRepo struct {
	byID map[primitive.ObjectID]models.Company
}

func newMemRepo() *memRepo {
	return &memRepo{byID: map[primitive.ObjectID]models.Company{}}
}

func (m *memRepo) Create(_ context.Context, c *models.Company) error {
	for _, existing := range m.byID {
		if existing.Email == c.Email {
			return repository.ErrDuplicate
		}
	}
	c.ID = primitive.NewObjectID()
	m.byID[c.ID] = *c
	return nil
}

func (m *memRepo) FindByID(_ context.Context, id primitive.ObjectID) (models.Company, error) {
	c, ok := m.byID[id]
	if !ok {
		return models.Company{}, repository.ErrNotFound
	}
	return c, nil
}

func (m *memRepo) FindByEmail(_ context.Context, email string) (models.Company, error) {
	for _, c := range m.byID {
		if c.Email == email {
			return c, nil
		}
	}
	return models.Company{}, repository.ErrNotFound
}

func (m *memRepo) Update(_ context.Context, c models.Company) error {
	if _, ok := m.byID[c.ID]; !ok {
		return repository.ErrNotFound
	}
	m.byID[c.ID] = c
	return nil
}

func newTestService(repo Repository) *Service {
	svc := NewService(repo, nil)
	svc.cost = bcrypt.MinCost
	svc.now = func() time.Time { return time.Date(2025, 3, 14, 9, 30, 0, 0, time.UTC) }
	return svc
}

func TestRegister(t *testing.T) {
	svc := newTestService(newMemRepo())

	company, err := svc.Register(context.Background(), models.RegisterCompanyRequest{
		CompanyName: " Sunrise Garments ",
		Email:       "Owner@Sunrise.test",
		Password:    "correct horse",
	})
	require.NoError(t, err)

	assert.False(t, company.ID.IsZero())
	assert.Equal(t, "Sunrise Garments", company.CompanyName)
	assert.Equal(t, "owner@sunrise.test", company.Email)
	assert.NotEqual(t, "correct horse", company.PasswordHash)
	assert.True(t, CheckPassword(company, "correct horse"))
	assert.False(t, CheckPassword(company, "wrong"))

	_, err = svc.Register(context.Background(), models.RegisterCompanyRequest{
		CompanyName: "Other",
		Email:       "OWNER@sunrise.test",
		Password:    "12345678",
	})
	assert.ErrorIs(t, err, ErrEmailTaken)
}

func TestProfileAndUpdate(t *testing.T) {
	svc := newTestService(newMemRepo())
	company, err := svc.Register(context.Background(), models.RegisterCompanyRequest{CompanyName: "Acme", Email: "a@acme.test", Password: "12345678"})
	require.NoError(t, err)

	_, err = svc.Profile(context.Background(), primitive.NewObjectID())
	assert.ErrorIs(t, err, ErrCompanyNotFound)

	name, logo, blank := "Acme Textiles", "uploads/acme.png", "  "
	updated, err := svc.UpdateProfile(context.Background(), company.ID, models.UpdateCompanyRequest{CompanyName: &name, Logo: &logo})
	require.NoError(t, err)
	assert.Equal(t, "Acme Textiles", updated.CompanyName)
	assert.Equal(t, "uploads/acme.png", updated.Logo)

	updated, err = svc.UpdateProfile(context.Background(), company.ID, models.UpdateCompanyRequest{CompanyName: &blank})
	require.NoError(t, err)
	assert.Equal(t, "Acme Textiles", updated.CompanyName, "blank names are ignored")

	loaded, err := svc.Profile(context.Background(), company.ID)
	require.NoError(t, err)
	assert.Equal(t, "uploads/acme.png", loaded.Logo)
}
