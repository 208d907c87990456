//go:build integration

package app

import (
	"os"
	"testing"

	"github.com/guttosm/kandypack-dispatch/internal/testutil"
)

func TestMain(m *testing.M) {
	os.Exit(testutil.RunWithMongoDB(m))
}
