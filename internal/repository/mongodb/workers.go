package mongodb

import (
	"context"
	"fmt"
	"regexp"
	"strings"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/mamadbah2/wagebook/internal/domain/models"
	"github.com/mamadbah2/wagebook/internal/repository"
)

// WorkerRepository persists workers. Every query is scoped to an owner.
type WorkerRepository struct {
	coll *mongo.Collection
}

// Create inserts worker and assigns its ID.
func (r *WorkerRepository) Create(ctx context.Context, worker *models.Worker) error {
	if worker.ID.IsZero() {
		worker.ID = primitive.NewObjectID()
	}
	if worker.WorkHistory == nil {
		worker.WorkHistory = []models.DailyWork{}
	}
	if _, err := r.coll.InsertOne(ctx, worker); err != nil {
		return fmt.Errorf("failed to insert worker: %w", translate(err))
	}
	return nil
}

// listFilter matches the owner's active workers whose name contains search.
func listFilter(owner primitive.ObjectID, search string) bson.M {
	filter := bson.M{"owner": owner, "isActive": true}
	if search = strings.TrimSpace(search); search != "" {
		filter["name"] = primitive.Regex{Pattern: regexp.QuoteMeta(search), Options: "i"}
	}
	return filter
}

// List returns one page of the owner's active workers, newest first, and the
// total number of matches.
func (r *WorkerRepository) List(ctx context.Context, owner primitive.ObjectID, search string, page, limit int) ([]models.Worker, int64, error) {
	filter := listFilter(owner, search)

	total, err := r.coll.CountDocuments(ctx, filter)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to count workers: %w", err)
	}

	opts := options.Find().
		SetSort(bson.D{{Key: "createdAt", Value: -1}}).
		SetSkip(int64((page - 1) * limit)).
		SetLimit(int64(limit))
	cur, err := r.coll.Find(ctx, filter, opts)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to list workers: %w", err)
	}
	workers := []models.Worker{}
	if err := cur.All(ctx, &workers); err != nil {
		return nil, 0, fmt.Errorf("failed to decode workers: %w", err)
	}
	return workers, total, nil
}

// ListAll returns every worker of owner sorted by name.
func (r *WorkerRepository) ListAll(ctx context.Context, owner primitive.ObjectID) ([]models.Worker, error) {
	opts := options.Find().SetSort(bson.D{{Key: "name", Value: 1}})
	cur, err := r.coll.Find(ctx, bson.M{"owner": owner}, opts)
	if err != nil {
		return nil, fmt.Errorf("failed to list workers: %w", err)
	}
	var workers []models.Worker
	if err := cur.All(ctx, &workers); err != nil {
		return nil, fmt.Errorf("failed to decode workers: %w", err)
	}
	return workers, nil
}

// FindOwned loads a worker that belongs to owner.
func (r *WorkerRepository) FindOwned(ctx context.Context, owner, id primitive.ObjectID) (models.Worker, error) {
	var worker models.Worker
	if err := r.coll.FindOne(ctx, bson.M{"_id": id, "owner": owner}).Decode(&worker); err != nil {
		return models.Worker{}, translate(err)
	}
	return worker, nil
}

// AppendDailyWork pushes day onto the worker's history and returns the
// updated worker.
func (r *WorkerRepository) AppendDailyWork(ctx context.Context, owner, id primitive.ObjectID, day models.DailyWork) (models.Worker, error) {
	if day.ID.IsZero() {
		day.ID = primitive.NewObjectID()
	}
	update := bson.M{
		"$push": bson.M{"workHistory": day},
		"$set":  bson.M{"updatedAt": time.Now().UTC()},
	}
	opts := options.FindOneAndUpdate().SetReturnDocument(options.After)

	var worker models.Worker
	err := r.coll.FindOneAndUpdate(ctx, bson.M{"_id": id, "owner": owner}, update, opts).Decode(&worker)
	if err != nil {
		return models.Worker{}, translate(err)
	}
	return worker, nil
}

// Update sets the changed profile fields of a worker that belongs to owner
// and returns the updated worker. The work history is not touched, so days
// appended concurrently are kept.
func (r *WorkerRepository) Update(ctx context.Context, owner, id primitive.ObjectID, changes models.WorkerChanges, at time.Time) (models.Worker, error) {
	opts := options.FindOneAndUpdate().SetReturnDocument(options.After)

	var worker models.Worker
	err := r.coll.FindOneAndUpdate(ctx, bson.M{"_id": id, "owner": owner}, workerUpdate(changes, at), opts).Decode(&worker)
	if err != nil {
		return models.Worker{}, translate(err)
	}
	return worker, nil
}

func workerUpdate(changes models.WorkerChanges, at time.Time) bson.M {
	set := bson.M{"updatedAt": at}
	if changes.Name != nil {
		set["name"] = *changes.Name
	}
	if changes.Phone != nil {
		set["phone"] = *changes.Phone
	}
	if changes.Email != nil {
		set["email"] = *changes.Email
	}
	if changes.Address != nil {
		set["address"] = *changes.Address
	}
	if changes.IsActive != nil {
		set["isActive"] = *changes.IsActive
	}
	return bson.M{"$set": set}
}

// Delete removes a worker that belongs to owner.
func (r *WorkerRepository) Delete(ctx context.Context, owner, id primitive.ObjectID) error {
	res, err := r.coll.DeleteOne(ctx, bson.M{"_id": id, "owner": owner})
	if err != nil {
		return fmt.Errorf("failed to delete worker: %w", err)
	}
	if res.DeletedCount == 0 {
		return repository.ErrNotFound
	}
	return nil
}
