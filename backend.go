package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"recipesplusplus/config"
	"recipesplusplus/credential"
	"recipesplusplus/db"
	"recipesplusplus/home"
	"recipesplusplus/ids"
	"recipesplusplus/models"
	"recipesplusplus/mq"
	"recipesplusplus/rdx"
	"recipesplusplus/routes"
	"recipesplusplus/store"
)

const tokenIssuer = "recipesplusplus"

// backend is everything that talks to the outside world.
type backend struct {
	database  *db.Database
	cache     *rdx.Cache
	refresher *credential.Refresher
	services  routes.Services
}

// credentialSource picks where store tokens come from. A token file wins
// over a signing key.
func credentialSource(cfg *config.Config) (credential.Source, error) {
	switch {
	case cfg.TokenFile != "":
		return credential.FileSource{Path: cfg.TokenFile}, nil
	case cfg.TokenSigningKey != "":
		return credential.SignedSource{
			Key:      []byte(cfg.TokenSigningKey),
			Issuer:   tokenIssuer,
			Subject:  tokenIssuer + "-api",
			Audience: cfg.MongoDatabase,
			// Outlive one refresh interval so a late tick never leaves a
			// stale token in use.
			TTL: 2 * cfg.TokenRefresh,
		}, nil
	default:
		return nil, errors.New("TOKEN_FILE or TOKEN_SIGNING_KEY is required for " + db.AuthOIDC)
	}
}

func openBackend(ctx context.Context, cfg *config.Config) (*backend, error) {
	b := &backend{}

	var cell *credential.Cell
	if cfg.AuthMechanism == db.AuthOIDC {
		src, err := credentialSource(cfg)
		if err != nil {
			return nil, err
		}
		cell = &credential.Cell{}
		b.refresher = &credential.Refresher{Source: src, Cell: cell, Interval: cfg.TokenRefresh}
		if err := b.refresher.Refresh(ctx); err != nil {
			return nil, err
		}
	}

	database, err := db.Connect(ctx, db.Options{
		URI:           cfg.MongoURI,
		Database:      cfg.MongoDatabase,
		AuthMechanism: cfg.AuthMechanism,
		Credential:    cell,
	})
	if err != nil {
		return nil, err
	}
	b.database = database

	if err := database.EnsureIndexes(ctx); err != nil {
		_ = database.Disconnect(context.Background())
		return nil, err
	}

	checks := map[string]home.Check{"mongo": database.Ping}

	if cfg.RedisAddr != "" {
		cache, err := rdx.Connect(ctx, cfg.RedisAddr, cfg.RedisPassword, cfg.RedisDB)
		if err != nil {
			slog.Warn("redis unavailable, serving without cache", "addr", cfg.RedisAddr, "error", err)
		} else {
			b.cache = cache
			checks["redis"] = func(ctx context.Context) error {
				return cache.Conn.Ping(ctx).Err()
			}
		}
	}

	b.services = routes.Services{
		Ingredients: cached(store.NewMongo[models.Ingredient](database.IngredientCollection), b.cache, cfg.CacheTTL),
		Recipes:     cached(store.NewMongo[models.Recipe](database.RecipeCollection), b.cache, cfg.CacheTTL),
		Units:       cached(store.NewMongo[models.Unit](database.UnitCollection), b.cache, cfg.CacheTTL),
		Users:       store.NewMongo[models.User](database.UserCollection),
		IDs:         ids.NewAllocator(),
		Events:      mq.NewHub(),
		Checks:      checks,
	}
	return b, nil
}

// cached puts the redis read-through cache in front of c when redis is up.
func cached[T any](c store.Collection[T], cache *rdx.Cache, ttl time.Duration) store.Collection[T] {
	if cache == nil {
		return c
	}
	return store.NewCached(c, cache, ttl)
}

func (b *backend) Close(ctx context.Context) error {
	var errs []error
	if b.cache != nil {
		if err := b.cache.Close(); err != nil {
			errs = append(errs, fmt.Errorf("close redis: %w", err))
		}
	}
	if err := b.database.Disconnect(ctx); err != nil {
		errs = append(errs, fmt.Errorf("disconnect mongo: %w", err))
	}
	return errors.Join(errs...)
}
