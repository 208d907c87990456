// Package middleware provides HTTP middleware components for the dispatch service.
package middleware

import (
	"github.com/gin-contrib/gzip"
	"github.com/gin-gonic/gin"
)

// uncompressedPaths skips gzip where it buys nothing or where the handler
// negotiates encoding itself (promhttp gzips /metrics on its own).
var uncompressedPaths = []string{"/metrics", "/healthz", "/readyz"}

// Compression returns a middleware that gzips responses for clients that accept it.
func Compression() gin.HandlerFunc {
	return gzip.Gzip(gzip.DefaultCompression, gzip.WithExcludedPaths(uncompressedPaths))
}
