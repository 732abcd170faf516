package repository

import (
	"context"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/mdpad/mdpad/internal/document"
)

// MongoRepo implements Repository on a MongoDB collection. Single-document
// operations are atomic in Mongo, which is all the service relies on:
// racing updates to one record are serialized by the store, last write
// observed wins.
type MongoRepo struct {
	col *mongo.Collection
}

// NewMongoRepo wraps the collection and ensures the unique indexes on "id"
// and "slug" (each independently resolves to at most one document).
func NewMongoRepo(col *mongo.Collection) *MongoRepo {
	models := []mongo.IndexModel{
		{Keys: bson.D{{Key: "id", Value: 1}}, Options: options.Index().SetUnique(true)},
		{Keys: bson.D{{Key: "slug", Value: 1}}, Options: options.Index().SetUnique(true)},
	}
	col.Indexes().CreateMany(context.Background(), models)
	return &MongoRepo{col: col}
}

func filter(ref document.Ref) bson.M {
	if ref.Kind == document.BySlug {
		return bson.M{"slug": ref.Value}
	}
	return bson.M{"id": ref.Value}
}

func (m *MongoRepo) Create(ctx context.Context, doc *document.Document) error {
	now := time.Now().UTC()
	doc.CreatedAt = now
	doc.UpdatedAt = now
	_, err := m.col.InsertOne(ctx, doc)
	return err
}

func (m *MongoRepo) Get(ctx context.Context, ref document.Ref) (*document.Document, error) {
	var d document.Document
	if err := m.col.FindOne(ctx, filter(ref)).Decode(&d); err != nil {
		if err == mongo.ErrNoDocuments {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return &d, nil
}

// View increments view_count with $inc in a single FindOneAndUpdate, so
// concurrent reads never lose increments.
func (m *MongoRepo) View(ctx context.Context, ref document.Ref) (*document.Document, error) {
	opts := options.FindOneAndUpdate().SetReturnDocument(options.After)
	var d document.Document
	err := m.col.FindOneAndUpdate(ctx, filter(ref), bson.M{"$inc": bson.M{"view_count": 1}}, opts).Decode(&d)
	if err != nil {
		if err == mongo.ErrNoDocuments {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return &d, nil
}

func (m *MongoRepo) GetEditKey(ctx context.Context, ref document.Ref) (string, error) {
	opts := options.FindOne().SetProjection(bson.M{"edit_key": 1})
	var d document.Document
	if err := m.col.FindOne(ctx, filter(ref), opts).Decode(&d); err != nil {
		if err == mongo.ErrNoDocuments {
			return "", ErrNotFound
		}
		return "", err
	}
	return d.EditKey, nil
}

func (m *MongoRepo) Update(ctx context.Context, ref document.Ref, title, content *string) (*document.Document, error) {
	set := bson.M{"updated_at": time.Now().UTC()}
	if title != nil {
		set["title"] = *title
	}
	if content != nil {
		set["content"] = *content
	}
	opts := options.FindOneAndUpdate().SetReturnDocument(options.After)
	var d document.Document
	err := m.col.FindOneAndUpdate(ctx, filter(ref), bson.M{"$set": set}, opts).Decode(&d)
	if err != nil {
		if err == mongo.ErrNoDocuments {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return &d, nil
}
