package settings

import (
	"context"
	"errors"
	"time"

	"go-analytics/internal/database"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

type SettingsRepository interface {
	GetByType(ctx context.Context, sType SettingsType) (*Settings, error)
	Upsert(ctx context.Context, settings *Settings) error
}

type SettingsRepositoryImpl struct {
	Collection *mongo.Collection
}

func NewSettingsRepository(mongodb *database.MongodbDB) SettingsRepository {
	return &SettingsRepositoryImpl{
		Collection: mongodb.DB.Collection("settings"),
	}
}

func (r *SettingsRepositoryImpl) GetByType(ctx context.Context, sType SettingsType) (*Settings, error) {
	var settings Settings
	err := r.Collection.FindOne(ctx, bson.M{"type": sType}).Decode(&settings)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, nil
		}
		return nil, err
	}
	return &settings, nil
}

func (r *SettingsRepositoryImpl) Upsert(ctx context.Context, settings *Settings) error {
	filter := bson.M{"type": settings.Type}
	update := bson.M{
		"$set":         bson.M{"catalog": settings.Catalog, "updated_at": settings.UpdatedAt},
		"$setOnInsert": bson.M{"created_at": settings.UpdatedAt},
	}
	opts := options.Update().SetUpsert(true)
	_, err := r.Collection.UpdateOne(ctx, filter, update, opts)
	return err
}

// UserSettingsRepository stores the per-user settings documents.
type UserSettingsRepository interface {
	Get(ctx context.Context, userID string) (*UserSettings, error)
	// Patch sets the given keys; an empty value removes the key. Last writer wins.
	Patch(ctx context.Context, userID string, values map[string]string) error
	EnsureIndexes(ctx context.Context) error
}

type UserSettingsRepositoryImpl struct {
	Collection *mongo.Collection
}

func NewUserSettingsRepository(mongodb *database.MongodbDB) UserSettingsRepository {
	return &UserSettingsRepositoryImpl{
		Collection: mongodb.DB.Collection("user_settings"),
	}
}

func (r *UserSettingsRepositoryImpl) Get(ctx context.Context, userID string) (*UserSettings, error) {
	var settings UserSettings
	err := r.Collection.FindOne(ctx, bson.M{"user_id": userID}).Decode(&settings)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return &UserSettings{UserID: userID, Values: map[string]string{}}, nil
		}
		return nil, err
	}
	if settings.Values == nil {
		settings.Values = map[string]string{}
	}
	return &settings, nil
}

func (r *UserSettingsRepositoryImpl) Patch(ctx context.Context, userID string, values map[string]string) error {
	set := bson.M{"updated_at": time.Now()}
	unset := bson.M{}
	for k, v := range values {
		if v == "" {
			unset["values."+k] = ""
			continue
		}
		set["values."+k] = v
	}

	update := bson.M{"$set": set}
	if len(unset) > 0 {
		update["$unset"] = unset
	}
	opts := options.Update().SetUpsert(true)
	_, err := r.Collection.UpdateOne(ctx, bson.M{"user_id": userID}, update, opts)
	return err
}

func (r *UserSettingsRepositoryImpl) EnsureIndexes(ctx context.Context) error {
	_, err := r.Collection.Indexes().CreateOne(ctx, mongo.IndexModel{
		Keys:    bson.D{{Key: "user_id", Value: 1}},
		Options: options.Index().SetName("idx_user_id").SetUnique(true),
	})
	return err
}
