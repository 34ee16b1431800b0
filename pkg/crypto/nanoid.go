package crypto

import (
	"crypto/rand"
	"errors"
	"math/bits"
)

const (
	defaultAlphabet = "ABCDEFGHIJKLMNOPQRSTUVWXYZabcdefghijklmnopqrstuvwxyz0123456789_-"
	defaultIDSize   = 21
	minAlphabetSize = 2
	maxAlphabetSize = 256
)

var (
	ErrAlphabetTooShort    = errors.New("alphabet must contain at least 2 characters")
	ErrAlphabetTooLong     = errors.New("alphabet must contain no more than 256 characters")
	ErrAlphabetNotASCII    = errors.New("alphabet must contain only ASCII characters")
	ErrAlphabetHasRepeated = errors.New("alphabet must not repeat characters")
)

// NanoIDGenerator produces short random ids. Used for request ids.
type NanoIDGenerator struct {
	alphabet string
	mask     byte
	size     int
}

// NewNanoID builds a generator for ids of the given size over alphabet. An
// empty alphabet or non-positive size selects the defaults.
func NewNanoID(alphabet string, size int) (*NanoIDGenerator, error) {
	if alphabet == "" {
		alphabet = defaultAlphabet
	}
	if size <= 0 {
		size = defaultIDSize
	}

	if len(alphabet) < minAlphabetSize {
		return nil, ErrAlphabetTooShort
	}
	if len(alphabet) > maxAlphabetSize {
		return nil, ErrAlphabetTooLong
	}

	seen := make(map[byte]bool, len(alphabet))
	for i := 0; i < len(alphabet); i++ {
		if alphabet[i] > 127 {
			return nil, ErrAlphabetNotASCII
		}
		if seen[alphabet[i]] {
			return nil, ErrAlphabetHasRepeated
		}
		seen[alphabet[i]] = true
	}

	return &NanoIDGenerator{
		alphabet: alphabet,
		mask:     byte(1<<bits.Len(uint(len(alphabet)-1)) - 1),
		size:     size,
	}, nil
}

// Generate returns a new id. Bytes that fall outside the alphabet after
// masking are discarded so every character is equally likely.
func (n *NanoIDGenerator) Generate() (string, error) {
	id := make([]byte, 0, n.size)
	buf := make([]byte, n.size*2)

	for len(id) < n.size {
		if _, err := rand.Read(buf); err != nil {
			return "", err
		}
		for _, b := range buf {
			idx := int(b & n.mask)
			if idx < len(n.alphabet) {
				id = append(id, n.alphabet[idx])
				if len(id) == n.size {
					break
				}
			}
		}
	}

	return string(id), nil
}

// MustGenerate is Generate for callers that cannot return an error, such as
// middleware id generators. It panics if the system random source fails.
func (n *NanoIDGenerator) MustGenerate() string {
	id, err := n.Generate()
	if err != nil {
		panic(err)
	}
	return id
}
