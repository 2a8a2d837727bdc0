// Package codegen derives short codes from URLs.
//
// A code is the configured prefix followed by the first BodyLength characters of
// the unpadded URL-safe base64 encoding of the SHA-256 digest of the URL. Retry
// attempts salt the URL with the attempt number, so a collision between two
// different URLs can be escaped without any counter or random source.
package codegen

import (
	"crypto/sha256"
	"encoding/base64"
	"strconv"
)

// BodyLength is the number of encoded digest characters in a short code.
const BodyLength = 8

// Generator derives deterministic short codes. It is safe for concurrent use.
type Generator struct {
	prefix string
}

// New returns a Generator that prepends prefix to every code.
func New(prefix string) *Generator {
	return &Generator{prefix: prefix}
}

// Prefix returns the prefix prepended to generated codes.
func (g *Generator) Prefix() string {
	return g.prefix
}

// Generate returns the short code for url at the given retry attempt.
// The same url and attempt always yield the same code.
func (g *Generator) Generate(url string, attempt int) string {
	input := url
	if attempt > 0 {
		input = url + strconv.Itoa(attempt)
	}

	sum := sha256.Sum256([]byte(input))
	body := base64.RawURLEncoding.EncodeToString(sum[:])[:BodyLength]

	return g.prefix + body
}
