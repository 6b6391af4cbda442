package auth

import (
	"context"
	"crypto/rand"
	"fmt"
	"math/big"
	"regexp"
	"strings"

	"github.com/samber/lo"
)

var ErrRotationImpossible = fmt.Errorf("token space too small to rotate")

// TokenGenerator issues session tokens of a fixed length drawn from a configured alphabet.
type TokenGenerator struct {
	chars  []rune
	length int
	max    *big.Int
}

// NewTokenGenerator validates the alphabet and length once, so New never fails on config.
func NewTokenGenerator(chars string, length int) (*TokenGenerator, error) {
	alphabet := []rune(chars)
	if length < 1 {
		return nil, fmt.Errorf("token length must be positive, got %d", length)
	}
	if len(alphabet) == 0 {
		return nil, fmt.Errorf("token alphabet is empty")
	}
	if dup := lo.FindDuplicates(alphabet); len(dup) > 0 {
		return nil, fmt.Errorf("token alphabet has duplicate characters %q", string(dup))
	}
	return &TokenGenerator{
		chars:  alphabet,
		length: length,
		max:    big.NewInt(int64(len(alphabet))),
	}, nil
}

// New draws every character uniformly from the alphabet using crypto/rand.
func (g *TokenGenerator) New() (string, error) {
	out := make([]rune, g.length)
	for i := range out {
		n, err := rand.Int(rand.Reader, g.max)
		if err != nil {
			return "", fmt.Errorf("token generation failed: %w", err)
		}
		out[i] = g.chars[n.Int64()]
	}
	return string(out), nil
}

// Rotate returns a fresh token that differs from previous. A one-character
// alphabet has a single possible token at any length, so it can never rotate.
// Collisions are retried until ctx is done.
func (g *TokenGenerator) Rotate(ctx context.Context, previous string) (string, error) {
	if len(g.chars) == 1 {
		return "", ErrRotationImpossible
	}
	for {
		if err := ctx.Err(); err != nil {
			return "", fmt.Errorf("token rotation aborted: %w", err)
		}
		token, err := g.New()
		if err != nil {
			return "", err
		}
		if token != previous {
			return token, nil
		}
	}
}

// Pattern matches exactly the tokens this generator can produce.
func (g *TokenGenerator) Pattern() *regexp.Regexp {
	class := lo.Map(g.chars, func(r rune, _ int) string {
		// QuoteMeta leaves '-' alone but it is a range inside a class
		if r == '-' {
			return `\-`
		}
		return regexp.QuoteMeta(string(r))
	})
	return regexp.MustCompile(fmt.Sprintf("^[%s]{%d}$", strings.Join(class, ""), g.length))
}
