package runtime

import (
	"context"
	"errors"
	"os"
	"testing"

	"github.com/SethRoll3/AcercateSys-sub001/internal/pkg/config"
	mongopkg "github.com/SethRoll3/AcercateSys-sub001/internal/pkg/db/mongo"
	redispkg "github.com/SethRoll3/AcercateSys-sub001/internal/pkg/db/redis"
)

const testConfigPath = "../../../configs/config.yaml"

func withConnectionStubs(t *testing.T, mongoErr, redisErr error) {
	t.Helper()
	origMongo := connectMongoDB
	origRedis := connectRedisDB
	t.Cleanup(func() {
		connectMongoDB = origMongo
		connectRedisDB = origRedis
	})

	connectMongoDB = func(ctx context.Context, cfg config.MongoConfig) (*mongopkg.MongoClient, error) {
		if mongoErr != nil {
			return nil, mongoErr
		}
		return &mongopkg.MongoClient{}, nil
	}
	connectRedisDB = func(ctx context.Context, cfg config.RedisConfig) (*redispkg.RedisClient, error) {
		if redisErr != nil {
			return nil, redisErr
		}
		return &redispkg.RedisClient{}, nil
	}

	prev := os.Getenv("CONFIG_PATH")
	_ = os.Setenv("CONFIG_PATH", testConfigPath)
	t.Cleanup(func() { _ = os.Setenv("CONFIG_PATH", prev) })
}

func TestNewSuccessWithStubs(t *testing.T) {
	ctx := context.Background()
	withConnectionStubs(t, nil, nil)

	app, err := New(ctx)
	if err != nil {
		t.Fatalf("expected New to succeed with stubs, got error: %v", err)
	}
	if app.Cfg == nil {
		t.Fatalf("expected app config to be loaded")
	}
	if app.MongoClient == nil {
		t.Fatalf("expected app mongo client to be initialized")
	}
	if app.RedisClient == nil {
		t.Fatalf("expected app redis client to be initialized")
	}
}

func TestNewConfigError(t *testing.T) {
	ctx := context.Background()

	prev := os.Getenv("CONFIG_PATH")
	_ = os.Setenv("CONFIG_PATH", "does/not/exist.yaml")
	defer os.Setenv("CONFIG_PATH", prev)

	if _, err := New(ctx); err == nil {
		t.Fatal("expected error from New due to missing config, got nil")
	}
}

func TestNewMongoError(t *testing.T) {
	ctx := context.Background()
	withConnectionStubs(t, errors.New("mongo failed"), nil)

	if _, err := New(ctx); err == nil {
		t.Fatal("expected error when mongo connect fails")
	}
}

func TestNewRedisError(t *testing.T) {
	ctx := context.Background()
	withConnectionStubs(t, nil, errors.New("redis failed"))

	if _, err := New(ctx); err == nil {
		t.Fatal("expected error when redis connect fails")
	}
}

func TestShutdownWithNilResources(t *testing.T) {
	ctx := context.Background()
	app := &App{}

	// Must not panic when nothing was ever connected.
	app.Shutdown(ctx)
}
