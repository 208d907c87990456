//go:build integration

package http

import (
	"os"
	"testing"

	"github.com/guttosm/kandypack-dispatch/internal/testutil"
)

func TestMain(m *testing.M) {
	os.Exit(testutil.RunWithMongoDB(m))
}
