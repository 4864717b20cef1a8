package mongo

import (
	"context"
	"fmt"

	"github.com/gofrs/uuid"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

const termsCollection = "terms"

type term struct {
	ID   uuid.UUID `bson:"_id"`
	Text string    `bson:"text"`
}

type Store struct {
	client *mongo.Client
	dbName string
}

func New(ctx context.Context, conf *Config) (*Store, error) {
	client, err := mongo.Connect(ctx, conf.Options())
	if err != nil {
		return nil, err
	}

	s := Store{client: client, dbName: conf.DBName}
	if err := s.createCollection(ctx, termsCollection); err != nil {
		client.Disconnect(ctx)
		return nil, err
	}

	return &s, nil
}

func (s *Store) Ping(ctx context.Context) error {
	return s.client.Ping(ctx, nil)
}

func (s *Store) Close(ctx context.Context) {
	s.client.Disconnect(ctx)
}

func (s *Store) String() string {
	return "mongo " + s.dbName + "." + termsCollection
}

// AddTerms upserts terms into the collection. The document ID is a UUIDv5 of
// the term text, so adding a stored term again is a no-op.
func (s *Store) AddTerms(ctx context.Context, terms []string) error {
	models := make([]mongo.WriteModel, 0, len(terms))
	for _, text := range terms {
		if text == "" {
			continue
		}
		doc := term{ID: termID(text), Text: text}
		models = append(models, mongo.NewReplaceOneModel().
			SetFilter(bson.M{"_id": doc.ID}).
			SetReplacement(doc).
			SetUpsert(true))
	}
	if len(models) == 0 {
		return nil
	}

	coll := s.client.Database(s.dbName).Collection(termsCollection)
	_, err := coll.BulkWrite(ctx, models, options.BulkWrite().SetOrdered(false))
	return err
}

// Terms returns every stored term ordered by text.
func (s *Store) Terms(ctx context.Context) ([]string, error) {
	coll := s.client.Database(s.dbName).Collection(termsCollection)
	opts := options.Find().SetSort(bson.D{{Key: "text", Value: 1}})

	cur, err := coll.Find(ctx, bson.M{}, opts)
	if err != nil {
		return nil, err
	}

	var docs []term
	if err := cur.All(ctx, &docs); err != nil {
		return nil, err
	}

	terms := make([]string, 0, len(docs))
	for _, d := range docs {
		terms = append(terms, d.Text)
	}
	return terms, nil
}

func termID(text string) uuid.UUID {
	return uuid.NewV5(uuid.NamespaceOID, text)
}

// createCollection creates a collection with the given name in the database if it doesn't already exist.
func (s *Store) createCollection(ctx context.Context, collName string) error {
	collExists, err := collectionExists(ctx, s.client.Database(s.dbName), collName)
	if err != nil {
		return err
	}

	if !collExists {
		err := s.client.Database(s.dbName).CreateCollection(ctx, collName)
		if err != nil {
			return err
		}
	}

	return nil
}

// collectionExists checks if a collection with the given name exists in the database.
func collectionExists(ctx context.Context, db *mongo.Database, collName string) (bool, error) {
	names, err := db.ListCollectionNames(ctx, bson.D{})
	if err != nil {
		return false, fmt.Errorf("failed to list collection names: %w", err)
	}

	for _, name := range names {
		if name == collName {
			return true, nil
		}
	}

	return false, nil
}
