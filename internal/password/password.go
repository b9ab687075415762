package password

import (
	crand "crypto/rand"
	"encoding/binary"
	"errors"
	"fmt"
	"math/rand/v2"
)

// MinLength is the shortest length that can hold one character per class.
const MinLength = 4

// Character classes.
const (
	Lowercase = "abcdefghijklmnopqrstuvwxyz"
	Uppercase = "ABCDEFGHIJKLMNOPQRSTUVWXYZ"
	Digits    = "0123456789"
	Symbols   = "!\"#$%&'()*+,-./:;<=>?@[\\]^_`{|}~"
)

// Classes lists the character classes in draw order.
var Classes = []string{Lowercase, Uppercase, Digits, Symbols}

var all = Lowercase + Uppercase + Digits + Symbols

// ErrTooShort is returned by Validate for lengths below MinLength.
var ErrTooShort = errors.New("password length should be at least 4 characters")

// Validate checks a requested length at the caller boundary.
func Validate(length int) error {
	if length < MinLength {
		return fmt.Errorf("%w, got %d", ErrTooShort, length)
	}
	return nil
}

// Source yields uniform integers in [0, n).
type Source interface {
	IntN(n int) int
}

// Generator builds passwords from a random Source.
type Generator struct {
	src Source
}

// New returns a Generator that draws from src.
func New(src Source) *Generator {
	return &Generator{src: src}
}

// NewSecure returns a Generator backed by ChaCha8 seeded from crypto/rand.
func NewSecure() (*Generator, error) {
	var seed [32]byte
	if _, err := crand.Read(seed[:]); err != nil {
		return nil, fmt.Errorf("seed random source: %w", err)
	}
	return New(rand.New(rand.NewChaCha8(seed))), nil
}

// NewSeeded returns a deterministic Generator, useful for tests.
func NewSeeded(seed uint64) *Generator {
	var b [32]byte
	binary.LittleEndian.PutUint64(b[:], seed)
	return New(rand.New(rand.NewChaCha8(b)))
}

// Generate returns a password of length characters. Lengths below
// MinLength still yield the four mandatory characters.
func (g *Generator) Generate(length int) string {
	size := max(length, MinLength)
	chars := make([]byte, 0, size)
	for _, class := range Classes {
		chars = append(chars, g.pick(class))
	}
	for i := MinLength; i < length; i++ {
		chars = append(chars, g.pick(all))
	}
	g.shuffle(chars)
	return string(chars)
}

func (g *Generator) pick(set string) byte {
	return set[g.src.IntN(len(set))]
}

// shuffle is an in-place Fisher-Yates shuffle.
func (g *Generator) shuffle(b []byte) {
	for i := len(b) - 1; i > 0; i-- {
		j := g.src.IntN(i + 1)
		b[i], b[j] = b[j], b[i]
	}
}

// Generate returns a password from the global math/rand/v2 source, which
// is seeded randomly by the runtime.
func Generate(length int) string {
	return New(globalSource{}).Generate(length)
}

type globalSource struct{}

func (globalSource) IntN(n int) int {
	return rand.IntN(n)
}

// Classify reports which character classes appear in s.
func Classify(s string) (lower, upper, digit, symbol bool) {
	for i := 0; i < len(s); i++ {
		c := s[i]
		switch {
		case c >= 'a' && c <= 'z':
			lower = true
		case c >= 'A' && c <= 'Z':
			upper = true
		case c >= '0' && c <= '9':
			digit = true
		default:
			for j := 0; j < len(Symbols); j++ {
				if Symbols[j] == c {
					symbol = true
					break
				}
			}
		}
	}
	return lower, upper, digit, symbol
}
