//go:build integration

package testutil

import (
	"context"
	"fmt"
	"os"
	"strings"
	"sync"
	"sync/atomic"
	"testing"
)

// MongoDB limits database names to 63 bytes.
const maxDBNameLength = 63

var (
	shared    *MongoDBContainer
	sharedErr error
	sharedMu  sync.Mutex
	dbSeq     atomic.Uint64
)

// RunWithMongoDB starts one MongoDB container for the whole package, runs m
// and terminates the container. Use it from TestMain:
//
//	func TestMain(m *testing.M) {
//		os.Exit(testutil.RunWithMongoDB(m))
//	}
func RunWithMongoDB(m *testing.M) int {
	ctx := context.Background()

	sharedMu.Lock()
	shared, sharedErr = SetupMongoDB(ctx)
	sharedMu.Unlock()
	if sharedErr != nil {
		fmt.Fprintf(os.Stderr, "integration tests need docker: %v\n", sharedErr)
		return 1
	}

	code := m.Run()

	if err := shared.Cleanup(ctx); err != nil {
		fmt.Fprintf(os.Stderr, "warning: %v\n", err)
	}
	return code
}

// SharedMongoURI returns the URI of the container started by RunWithMongoDB.
func SharedMongoURI() string {
	sharedMu.Lock()
	defer sharedMu.Unlock()

	if shared == nil {
		panic("testutil: shared MongoDB container not started; call RunWithMongoDB from TestMain")
	}
	return shared.URI
}

// DatabaseName returns a database name unique to t, so tests sharing the
// container never see each other's collections.
func DatabaseName(t testing.TB) string {
	suffix := fmt.Sprintf("_%d_%d", os.Getpid(), dbSeq.Add(1))

	name := strings.Map(func(r rune) rune {
		switch {
		case r >= 'a' && r <= 'z', r >= 'A' && r <= 'Z', r >= '0' && r <= '9':
			return r
		default:
			return '_'
		}
	}, t.Name())

	if limit := maxDBNameLength - len(suffix); len(name) > limit {
		name = name[:limit]
	}
	return name + suffix
}
