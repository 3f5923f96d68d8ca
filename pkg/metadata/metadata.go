// Package metadata provides content digests for rendered feed documents.
package metadata

import (
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"fmt"
	"regexp"
)

// Digest verification errors.
var (
	ErrEmptyDigest    = errors.New("no digest supplied")
	ErrDigestMismatch = errors.New("digest mismatch")
)

// Metadata describes a rendered feed blob.
type Metadata struct {
	Hash string
	Size int
}

// updatedRegex matches the document-level generation timestamp of an Atom feed.
var updatedRegex = regexp.MustCompile(`(?m)^\s*<updated>[^<]*</updated>\n?`)

// Extract removes volatile generation timestamps so two runs over the same
// inventory produce the same stable content.
func Extract(content []byte) []byte {
	return updatedRegex.ReplaceAll(content, nil)
}

// CalculateHash computes the SHA-256 hash of the stable content.
func CalculateHash(content []byte) string {
	hash := sha256.Sum256(Extract(content))

	return hex.EncodeToString(hash[:])
}

// Describe builds the metadata for a rendered blob.
func Describe(content []byte) Metadata {
	return Metadata{
		Hash: CalculateHash(content),
		Size: len(content),
	}
}

// Verify checks if the content matches the expected digest.
func Verify(content []byte, expected string) (bool, error) {
	if expected == "" {
		return false, ErrEmptyDigest
	}

	calculated := CalculateHash(content)
	if calculated != expected {
		return false, fmt.Errorf("%w: expected %s, got %s", ErrDigestMismatch, expected, calculated)
	}

	return true, nil
}
