//go:build integration

// Package testutil starts the MongoDB container used by integration tests.
package testutil

import (
	"context"
	"fmt"
	"os"

	"github.com/testcontainers/testcontainers-go"
	"github.com/testcontainers/testcontainers-go/modules/mongodb"
)

const (
	// MongoImageEnv overrides the MongoDB image, e.g. to pin the version used in production.
	MongoImageEnv = "KANDYPACK_TEST_MONGO_IMAGE"

	defaultMongoImage = "mongo:7.0"
)

// MongoDBContainer wraps a MongoDB testcontainer.
type MongoDBContainer struct {
	Container testcontainers.Container
	URI       string
}

// MongoImage returns the image integration tests run against.
func MongoImage() string {
	if image := os.Getenv(MongoImageEnv); image != "" {
		return image
	}
	return defaultMongoImage
}

// SetupMongoDB starts a dedicated MongoDB container. Packages that only need a
// database per test should use RunWithMongoDB and DatabaseName instead.
func SetupMongoDB(ctx context.Context) (*MongoDBContainer, error) {
	image := MongoImage()
	container, err := mongodb.Run(ctx, image)
	if err != nil {
		return nil, fmt.Errorf("start %s container: %w", image, err)
	}

	uri, err := container.ConnectionString(ctx)
	if err != nil {
		_ = container.Terminate(ctx)
		return nil, fmt.Errorf("mongodb connection string: %w", err)
	}

	return &MongoDBContainer{Container: container, URI: uri}, nil
}

// Cleanup terminates the MongoDB container.
func (m *MongoDBContainer) Cleanup(ctx context.Context) error {
	if m == nil || m.Container == nil {
		return nil
	}
	if err := m.Container.Terminate(ctx); err != nil {
		return fmt.Errorf("terminate mongodb container: %w", err)
	}
	return nil
}
