package mongodb

import (
	"context"
	"fmt"
	"strings"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"

	"github.com/mamadbah2/wagebook/internal/domain/models"
	"github.com/mamadbah2/wagebook/internal/repository"
)

// CompanyRepository persists companies.
type CompanyRepository struct {
	coll *mongo.Collection
}

// Create inserts company and assigns its ID.
func (r *CompanyRepository) Create(ctx context.Context, company *models.Company) error {
	if company.ID.IsZero() {
		company.ID = primitive.NewObjectID()
	}
	company.Email = strings.ToLower(strings.TrimSpace(company.Email))

	if _, err := r.coll.InsertOne(ctx, company); err != nil {
		return fmt.Errorf("failed to insert company: %w", translate(err))
	}
	return nil
}

// FindByID loads a company.
func (r *CompanyRepository) FindByID(ctx context.Context, id primitive.ObjectID) (models.Company, error) {
	return r.findOne(ctx, bson.M{"_id": id})
}

// FindByEmail loads a company by its login email, case-insensitively.
func (r *CompanyRepository) FindByEmail(ctx context.Context, email string) (models.Company, error) {
	return r.findOne(ctx, bson.M{"email": strings.ToLower(strings.TrimSpace(email))})
}

func (r *CompanyRepository) findOne(ctx context.Context, filter bson.M) (models.Company, error) {
	var company models.Company
	if err := r.coll.FindOne(ctx, filter).Decode(&company); err != nil {
		return models.Company{}, translate(err)
	}
	return company, nil
}

// Update replaces the stored company.
func (r *CompanyRepository) Update(ctx context.Context, company models.Company) error {
	res, err := r.coll.ReplaceOne(ctx, bson.M{"_id": company.ID}, company)
	if err != nil {
		return fmt.Errorf("failed to update company: %w", translate(err))
	}
	if res.MatchedCount == 0 {
		return repository.ErrNotFound
	}
	return nil
}

// List returns every company.
func (r *CompanyRepository) List(ctx context.Context) ([]models.Company, error) {
	cur, err := r.coll.Find(ctx, bson.M{})
	if err != nil {
		return nil, fmt.Errorf("failed to list companies: %w", err)
	}
	var companies []models.Company
	if err := cur.All(ctx, &companies); err != nil {
		return nil, fmt.Errorf("failed to decode companies: %w", err)
	}
	return companies, nil
}
