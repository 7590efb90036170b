// Package fileio provides the content primitives used for duplicate
// detection: streaming 64-bit hashes and byte-for-byte comparison.
package fileio

import (
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/cespare/xxhash/v2"
)

// bufferSize is the read size used for hashing and comparison.
const bufferSize = 4096

// Hasher computes content hashes and compares file contents.
type Hasher interface {
	// Hash returns the hash of the first limit bytes of the file at path.
	// A limit of 0 hashes the whole file.
	Hash(path string, limit int64) (uint64, error)
	// Equal reports whether two files have identical content.
	Equal(a, b string) (bool, error)
}

// XXHasher hashes with 64-bit xxHash.
type XXHasher struct{}

// Hash implements Hasher.
func (XXHasher) Hash(path string, limit int64) (uint64, error) {
	return HashFile(path, limit)
}

// Equal implements Hasher.
func (XXHasher) Equal(a, b string) (bool, error) {
	return CompareFiles(a, b)
}

// HashFile returns the xxHash digest of the first limit bytes of the file at
// path, or of the whole file when limit is 0.
func HashFile(path string, limit int64) (sum uint64, err error) {
	defer func() {
		if err != nil {
			err = fmt.Errorf("hashing file `%s`: %w", path, err)
		}
	}()

	var file *os.File
	if file, err = os.Open(path); err != nil {
		return 0, err
	}
	defer func() { err = errors.Join(err, file.Close()) }()

	var r io.Reader = file
	if limit > 0 {
		r = io.LimitReader(file, limit)
	}

	digest := xxhash.New()
	buf := make([]byte, bufferSize)
	if _, err = io.CopyBuffer(digest, r, buf); err != nil {
		return 0, fmt.Errorf("reading contents: %w", err)
	}
	return digest.Sum64(), nil
}
