// Package digest names the content hash functions a scan can use.
package digest

import (
	"crypto/md5"
	"crypto/sha1"
	"crypto/sha256"
	"crypto/sha512"
	"encoding/hex"
	"fmt"
	"hash"
	"io"
	"sort"
	"strings"

	"github.com/cespare/xxhash/v2"
)

// DefaultName is the algorithm used when none is configured.
const DefaultName = "md5"

// Algorithm is a named hash constructor.
type Algorithm struct {
	Name string
	Bits int
	// Cryptographic is false for fast checksums whose collisions are easy
	// to produce. Scans using them always verify content byte by byte.
	Cryptographic bool
	New           func() hash.Hash
}

var algorithms = map[string]*Algorithm{
	"md5":    {Name: "md5", Bits: 128, Cryptographic: true, New: md5.New},
	"sha1":   {Name: "sha1", Bits: 160, Cryptographic: true, New: sha1.New},
	"sha256": {Name: "sha256", Bits: 256, Cryptographic: true, New: sha256.New},
	"sha512": {Name: "sha512", Bits: 512, Cryptographic: true, New: sha512.New},
	"xxh64":  {Name: "xxh64", Bits: 64, Cryptographic: false, New: func() hash.Hash { return xxhash.New() }},
}

// Lookup returns the algorithm registered under name. Names are case-insensitive.
func Lookup(name string) (*Algorithm, error) {
	if name == "" {
		name = DefaultName
	}
	alg, ok := algorithms[strings.ToLower(name)]
	if !ok {
		return nil, fmt.Errorf("unknown hash algorithm %q (supported: %s)", name, strings.Join(Names(), ", "))
	}
	return alg, nil
}

// Default returns the md5 algorithm.
func Default() *Algorithm {
	return algorithms[DefaultName]
}

// Names lists the registered algorithms in sorted order.
func Names() []string {
	names := make([]string, 0, len(algorithms))
	for name := range algorithms {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Sum reads r to the end and returns the lowercase hex digest.
// buf is used for copying; a nil buf lets io.CopyBuffer allocate one.
func (a *Algorithm) Sum(r io.Reader, buf []byte) (string, error) {
	h := a.New()
	if _, err := io.CopyBuffer(h, r, buf); err != nil {
		return "", err
	}
	return hex.EncodeToString(h.Sum(nil)), nil
}

func (a *Algorithm) String() string { return a.Name }
