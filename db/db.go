package db

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"recipesplusplus/credential"
)

// Collection names.
const (
	Ingredients = "ingredients"
	Recipes     = "recipes"
	Units       = "units"
	Users       = "users"
)

// AuthOIDC selects token authentication backed by a credential.Cell.
const AuthOIDC = "MONGODB-OIDC"

type Options struct {
	URI           string
	Database      string
	AuthMechanism string
	// Credential supplies tokens when AuthMechanism is AuthOIDC.
	Credential *credential.Cell
}

type Database struct {
	Client *mongo.Client

	IngredientCollection *mongo.Collection
	RecipeCollection     *mongo.Collection
	UnitCollection       *mongo.Collection
	UserCollection       *mongo.Collection
}

// Connect opens the client, pings the deployment and resolves collections.
func Connect(ctx context.Context, o Options) (*Database, error) {
	serverAPI := options.ServerAPI(options.ServerAPIVersion1)
	opts := options.Client().ApplyURI(o.URI).SetServerAPIOptions(serverAPI)

	if o.AuthMechanism == AuthOIDC {
		if o.Credential == nil {
			return nil, fmt.Errorf("%s requires a credential", AuthOIDC)
		}
		opts.SetAuth(options.Credential{
			AuthMechanism:       AuthOIDC,
			OIDCMachineCallback: o.Credential.OIDCCallback,
		})
	}

	client, err := mongo.Connect(ctx, opts)
	if err != nil {
		return nil, fmt.Errorf("connect mongo: %w", err)
	}

	pingCtx, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()
	if err := client.Database("admin").RunCommand(pingCtx, bson.D{{Key: "ping", Value: 1}}).Err(); err != nil {
		_ = client.Disconnect(context.Background())
		return nil, fmt.Errorf("ping mongo: %w", err)
	}
	slog.Info("connected to mongo", "database", o.Database)

	d := client.Database(o.Database)
	return &Database{
		Client:               client,
		IngredientCollection: d.Collection(Ingredients),
		RecipeCollection:     d.Collection(Recipes),
		UnitCollection:       d.Collection(Units),
		UserCollection:       d.Collection(Users),
	}, nil
}

// EnsureIndexes creates a unique index on id in every collection, so two
// writers picking the same id cannot both succeed.
func (d *Database) EnsureIndexes(ctx context.Context) error {
	model := mongo.IndexModel{
		Keys:    bson.D{{Key: "id", Value: 1}},
		Options: options.Index().SetUnique(true).SetName("id_unique"),
	}

	for _, c := range []*mongo.Collection{
		d.IngredientCollection,
		d.RecipeCollection,
		d.UnitCollection,
		d.UserCollection,
	} {
		if _, err := c.Indexes().CreateOne(ctx, model); err != nil {
			return fmt.Errorf("create index on %s: %w", c.Name(), err)
		}
	}
	return nil
}

// Ping reports whether the deployment is reachable.
func (d *Database) Ping(ctx context.Context) error {
	return d.Client.Ping(ctx, nil)
}

func (d *Database) Disconnect(ctx context.Context) error {
	return d.Client.Disconnect(ctx)
}
