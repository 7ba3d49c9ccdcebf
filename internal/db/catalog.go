package ledger

import (
	"context"
	"errors"
	"fmt"
	"time"

	config "github.com/glkeru/loyalty/ledgersync/internal/config"
	model "github.com/glkeru/loyalty/ledgersync/internal/models"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// Каталог: категории и варианты списания
type CatalogDB struct {
	mgo        *mongo.Client
	categories *mongo.Collection
	options    *mongo.Collection
}

func NewCatalogDB(ctx context.Context, cfg config.MongoConfig) (*CatalogDB, error) {
	ctx, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()

	opts := options.Client().ApplyURI("mongodb://" + cfg.Addr)
	client, err := mongo.Connect(ctx, opts)
	if err != nil {
		return nil, mongoError(err)
	}
	err = client.Ping(ctx, nil)
	if err != nil {
		client.Disconnect(context.Background())
		return nil, mongoError(err)
	}
	db := client.Database(cfg.Database)

	return &CatalogDB{client, db.Collection("categories"), db.Collection("options")}, nil
}

func (r *CatalogDB) Close(ctx context.Context) error {
	return r.mgo.Disconnect(ctx)
}

// Категории по приоритету
func (r *CatalogDB) ListCategories(ctx context.Context) ([]model.Category, error) {
	opts := options.Find().SetSort(bson.D{{Key: "priority", Value: 1}})
	result, err := r.categories.Find(ctx, bson.M{}, opts)
	if err != nil {
		return nil, mongoError(err)
	}
	defer result.Close(ctx)

	categories := []model.Category{}
	for result.Next(ctx) {
		var category model.Category
		err := result.Decode(&category)
		if err != nil {
			return nil, err
		}
		categories = append(categories, category)
	}
	return categories, mongoError(result.Err())
}

func (r *CatalogDB) ListOptions(ctx context.Context) ([]model.RedemptionOption, error) {
	opts := options.Find().SetSort(bson.D{{Key: "cost", Value: 1}})
	result, err := r.options.Find(ctx, bson.M{}, opts)
	if err != nil {
		return nil, mongoError(err)
	}
	defer result.Close(ctx)

	list := []model.RedemptionOption{}
	for result.Next(ctx) {
		var option model.RedemptionOption
		err := result.Decode(&option)
		if err != nil {
			return nil, err
		}
		list = append(list, option)
	}
	return list, mongoError(result.Err())
}

func (r *CatalogDB) GetOption(ctx context.Context, id string) (option model.RedemptionOption, err error) {
	err = r.options.FindOne(ctx, bson.M{"id": id}).Decode(&option)
	if err != nil {
		return model.RedemptionOption{}, mongoError(err)
	}
	return option, nil
}

// Создать/обновить вариант списания
func (r *CatalogDB) SaveOption(ctx context.Context, option model.RedemptionOption) error {
	_, err := r.options.ReplaceOne(ctx, bson.M{"id": option.ID}, option, options.Replace().SetUpsert(true))
	return mongoError(err)
}

func (r *CatalogDB) SaveCategory(ctx context.Context, category model.Category) error {
	_, err := r.categories.ReplaceOne(ctx, bson.M{"id": category.ID}, category, options.Replace().SetUpsert(true))
	return mongoError(err)
}

func mongoError(err error) error {
	switch {
	case err == nil:
		return nil
	case errors.Is(err, mongo.ErrNoDocuments):
		return fmt.Errorf("%w: %w", model.ErrNotFound, err)
	case mongo.IsTimeout(err):
		return fmt.Errorf("%w: %w", model.ErrTimeout, err)
	case mongo.IsNetworkError(err):
		return fmt.Errorf("%w: %w", model.ErrNetwork, err)
	case mongo.IsDuplicateKeyError(err):
		return fmt.Errorf("%w: %w", model.ErrConflict, err)
	}
	return err
}
