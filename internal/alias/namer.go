package alias

import (
	"crypto/rand"
	"strconv"
	"sync/atomic"
)

const (
	// DefaultPrefix is the reserved prefix of generated alias names.
	DefaultPrefix = "__TypeMacroAlias"
	// DefaultSuffixLength is the number of random characters after the prefix.
	DefaultSuffixLength = 12

	alphanumeric = "ABCDEFGHIJKLMNOPQRSTUVWXYZabcdefghijklmnopqrstuvwxyz0123456789"
	// largest multiple of len(alphanumeric) that fits in a byte
	unbiasedLimit = 248
)

// Namer produces alias names.
type Namer interface {
	Name() string
}

// RandomNamer produces a reserved prefix followed by a random alphanumeric
// suffix. It holds no mutable state and is safe for concurrent use.
type RandomNamer struct {
	Prefix string
	Length int
}

// NewRandomNamer creates a RandomNamer. Zero values select the defaults.
func NewRandomNamer(prefix string, length int) *RandomNamer {
	if prefix == "" {
		prefix = DefaultPrefix
	}
	if length <= 0 {
		length = DefaultSuffixLength
	}

	return &RandomNamer{Prefix: prefix, Length: length}
}

// Name returns a fresh name.
func (n *RandomNamer) Name() string {
	out := make([]byte, 0, n.Length)

	var buf [32]byte
	for len(out) < n.Length {
		rand.Read(buf[:])

		for _, b := range buf {
			if b >= unbiasedLimit {
				continue
			}
			out = append(out, alphanumeric[int(b)%len(alphanumeric)])
			if len(out) == n.Length {
				break
			}
		}
	}

	return n.Prefix + string(out)
}

// SequenceNamer produces prefix1, prefix2, ... It is meant for
// reproducible output such as golden files and tests.
type SequenceNamer struct {
	Prefix string
	n      atomic.Int64
}

// NewSequenceNamer creates a SequenceNamer.
func NewSequenceNamer(prefix string) *SequenceNamer {
	return &SequenceNamer{Prefix: prefix}
}

// Name returns the next name in the sequence.
func (n *SequenceNamer) Name() string {
	return n.Prefix + strconv.FormatInt(n.n.Add(1), 10)
}
