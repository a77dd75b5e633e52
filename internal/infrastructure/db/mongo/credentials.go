package mongo

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

const (
	opTimeout             = 10 * time.Second
	credentialsCollection = "credentials"
)

type Config struct {
	URI      string
	Database string
	Profile  string
}

// Open connects to cfg.URI and returns a store over cfg.Database once the
// server has answered a ping.
func Open(ctx context.Context, cfg Config) (*CredentialStore, error) {
	opts := options.Client().
		ApplyURI(cfg.URI).
		SetAppName("stationery-admin").
		SetServerSelectionTimeout(opTimeout).
		SetTimeout(opTimeout)
	client, err := mongo.Connect(ctx, opts)
	if err != nil {
		return nil, fmt.Errorf("mongo %s: %w", cfg.Database, err)
	}
	s := NewCredentialStore(client.Database(cfg.Database), cfg.Profile)
	if err := s.Ping(ctx); err != nil {
		_ = s.Close()
		return nil, fmt.Errorf("mongo %s: %w", cfg.Database, err)
	}
	return s, nil
}

// CredentialStore keeps one document per stored value in the credentials
// collection, keyed by "<profile>:<key>".
type CredentialStore struct {
	coll    *mongo.Collection
	profile string
}

func NewCredentialStore(db *mongo.Database, profile string) *CredentialStore {
	return &CredentialStore{coll: db.Collection(credentialsCollection), profile: profile}
}

type credentialDoc struct {
	ID        string `bson:"_id"`
	Profile   string `bson:"profile"`
	Key       string `bson:"key"`
	Value     string `bson:"value"`
	UpdatedAt int64  `bson:"updated_at"`
}

func (s *CredentialStore) Get(ctx context.Context, key string) (string, error) {
	var doc credentialDoc
	err := s.coll.FindOne(ctx, bson.M{"_id": s.id(key)}).Decode(&doc)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return "", nil
	}
	if err != nil {
		return "", fmt.Errorf("find credential %s: %w", key, err)
	}
	return doc.Value, nil
}

func (s *CredentialStore) Set(ctx context.Context, key, value string) error {
	doc := credentialDoc{
		ID:        s.id(key),
		Profile:   s.profile,
		Key:       key,
		Value:     value,
		UpdatedAt: time.Now().UTC().Unix(),
	}
	_, err := s.coll.ReplaceOne(ctx, bson.M{"_id": doc.ID}, doc, options.Replace().SetUpsert(true))
	if err != nil {
		return fmt.Errorf("upsert credential %s: %w", key, err)
	}
	return nil
}

func (s *CredentialStore) Delete(ctx context.Context, keys ...string) error {
	if len(keys) == 0 {
		return nil
	}
	ids := make([]string, len(keys))
	for i, k := range keys {
		ids[i] = s.id(k)
	}
	if _, err := s.coll.DeleteMany(ctx, bson.M{"_id": bson.M{"$in": ids}}); err != nil {
		return fmt.Errorf("delete credentials: %w", err)
	}
	return nil
}

// Ping checks both the server and that the database answers commands.
func (s *CredentialStore) Ping(ctx context.Context) error {
	if err := s.coll.Database().Client().Ping(ctx, nil); err != nil {
		return err
	}
	return s.coll.Database().RunCommand(ctx, bson.D{{Key: "ping", Value: 1}}).Err()
}

func (s *CredentialStore) Close() error {
	ctx, cancel := context.WithTimeout(context.Background(), opTimeout)
	defer cancel()
	return s.coll.Database().Client().Disconnect(ctx)
}

func (s *CredentialStore) id(key string) string {
	return s.profile + ":" + key
}
