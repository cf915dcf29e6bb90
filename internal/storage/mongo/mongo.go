package mongo

import (
	"context"
	"errors"
	"fmt"
	"net/url"
	"time"

	"github.com/radahn42/chronicles/internal/domain/models"
	"github.com/radahn42/chronicles/internal/storage"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
	"go.mongodb.org/mongo-driver/mongo/readpref"
)

type Storage struct {
	client *mongo.Client
	db     *mongo.Database
}

// New connects to the deployment behind uri using the Stable API v1 and
// verifies the connection with a ping.
func New(ctx context.Context, uri, database string, timeout time.Duration) (*Storage, error) {
	const op = "storage.mongo.New"

	serverAPI := options.ServerAPI(options.ServerAPIVersion1).
		SetStrict(true).
		SetDeprecationErrors(true)

	opts := options.Client().
		ApplyURI(uri).
		SetServerAPIOptions(serverAPI)
	if timeout > 0 {
		opts.SetTimeout(timeout)
	}

	client, err := mongo.Connect(ctx, opts)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	if err := client.Database("admin").RunCommand(ctx, bson.D{{Key: "ping", Value: 1}}).Err(); err != nil {
		_ = client.Disconnect(context.Background())
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	return &Storage{
		client: client,
		db:     client.Database(database),
	}, nil
}

// ConnectionURI injects credentials into base. Credentials already present
// in base are kept when user is empty.
func ConnectionURI(base, user, password string) (string, error) {
	const op = "storage.mongo.ConnectionURI"

	if base == "" {
		return "", fmt.Errorf("%s: empty uri", op)
	}

	u, err := url.Parse(base)
	if err != nil {
		return "", fmt.Errorf("%s: %w", op, err)
	}
	if u.Scheme != "mongodb" && u.Scheme != "mongodb+srv" {
		return "", fmt.Errorf("%s: unsupported scheme %q", op, u.Scheme)
	}

	if user != "" {
		u.User = url.UserPassword(user, password)
	}

	return u.String(), nil
}

func (s *Storage) Find(ctx context.Context, collection string, query models.Query) ([]models.Document, error) {
	const op = "storage.mongo.Find"

	filter := bson.M{}
	for field, value := range query.Filter {
		if field == models.IDField {
			id, ok := value.(string)
			if !ok {
				return nil, fmt.Errorf("%s: %w", op, storage.ErrInvalidID)
			}
			oid, err := objectID(id)
			if err != nil {
				return nil, fmt.Errorf("%s: %w", op, err)
			}
			value = oid
		}
		filter[field] = value
	}

	opts := options.Find()
	if query.SortField != "" {
		direction := 1
		if query.SortDesc {
			direction = -1
		}
		opts.SetSort(bson.D{{Key: query.SortField, Value: direction}})
	}
	if query.Limit > 0 {
		opts.SetLimit(query.Limit)
	}

	cursor, err := s.db.Collection(collection).Find(ctx, filter, opts)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	var raw []bson.M
	if err := cursor.All(ctx, &raw); err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	docs := make([]models.Document, 0, len(raw))
	for _, m := range raw {
		docs = append(docs, toDocument(m))
	}

	return docs, nil
}

func (s *Storage) FindOne(ctx context.Context, collection, id string) (models.Document, error) {
	const op = "storage.mongo.FindOne"

	oid, err := objectID(id)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	var m bson.M
	err = s.db.Collection(collection).FindOne(ctx, bson.M{models.IDField: oid}).Decode(&m)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, fmt.Errorf("%s: %w", op, storage.ErrNotFound)
		}
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	return toDocument(m), nil
}

func (s *Storage) InsertOne(ctx context.Context, collection string, doc models.Document) (models.InsertResult, error) {
	const op = "storage.mongo.InsertOne"

	stored := make(bson.M, len(doc))
	for k, v := range doc {
		stored[k] = v
	}
	if id, ok := stored[models.IDField].(string); ok {
		if oid, err := primitive.ObjectIDFromHex(id); err == nil {
			stored[models.IDField] = oid
		}
	}

	res, err := s.db.Collection(collection).InsertOne(ctx, stored)
	if err != nil {
		if mongo.IsDuplicateKeyError(err) {
			return models.InsertResult{}, fmt.Errorf("%s: %w", op, storage.ErrAlreadyExists)
		}
		return models.InsertResult{}, fmt.Errorf("%s: %w", op, err)
	}

	return models.InsertResult{
		Acknowledged: true,
		InsertedID:   idString(res.InsertedID),
	}, nil
}

func (s *Storage) UpdateOne(ctx context.Context, collection, id string, fields models.Document) (models.UpdateResult, error) {
	const op = "storage.mongo.UpdateOne"

	oid, err := objectID(id)
	if err != nil {
		return models.UpdateResult{}, fmt.Errorf("%s: %w", op, err)
	}
	filter := bson.M{models.IDField: oid}

	set := make(bson.M, len(fields))
	for k, v := range fields {
		if k == models.IDField {
			continue
		}
		set[k] = v
	}

	// An empty $set is rejected by the server.
	if len(set) == 0 {
		matched, err := s.db.Collection(collection).CountDocuments(ctx, filter)
		if err != nil {
			return models.UpdateResult{}, fmt.Errorf("%s: %w", op, err)
		}
		return models.UpdateResult{Acknowledged: true, MatchedCount: matched}, nil
	}

	res, err := s.db.Collection(collection).UpdateOne(ctx, filter, bson.M{"$set": set})
	if err != nil {
		return models.UpdateResult{}, fmt.Errorf("%s: %w", op, err)
	}

	result := models.UpdateResult{
		Acknowledged:  true,
		MatchedCount:  res.MatchedCount,
		ModifiedCount: res.ModifiedCount,
		UpsertedCount: res.UpsertedCount,
	}
	if res.UpsertedID != nil {
		upserted := idString(res.UpsertedID)
		result.UpsertedID = &upserted
	}

	return result, nil
}

func (s *Storage) DeleteOne(ctx context.Context, collection, id string) (models.DeleteResult, error) {
	const op = "storage.mongo.DeleteOne"

	oid, err := objectID(id)
	if err != nil {
		return models.DeleteResult{}, fmt.Errorf("%s: %w", op, err)
	}

	res, err := s.db.Collection(collection).DeleteOne(ctx, bson.M{models.IDField: oid})
	if err != nil {
		return models.DeleteResult{}, fmt.Errorf("%s: %w", op, err)
	}

	return models.DeleteResult{Acknowledged: true, DeletedCount: res.DeletedCount}, nil
}

func (s *Storage) Ping(ctx context.Context) error {
	return s.client.Ping(ctx, readpref.Primary())
}

func (s *Storage) Close() error {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	return s.client.Disconnect(ctx)
}

var _ storage.DocumentStore = (*Storage)(nil)
