package utils

import (
	"math/rand"
)

const tokenCharset = "0123456789abcdefghijklmnopqrstuvwxyz"
const tokenSuffixLen = 4

// TokenGenerator mints the short single-use codes participants relay over SMS.
// The default implementation uses math/rand on purpose: this is demo code and
// the tokens are not meant to be guessing-resistant. Swap in a crypto/rand
// implementation before using this anywhere real.
type TokenGenerator interface {
	VerificationToken() string
	ResetToken() string
}

type randomTokenGenerator struct {
	rng *rand.Rand
}

// NewTokenGenerator returns a TokenGenerator seeded from src. Pass a fixed
// source in tests to make token values predictable.
func NewTokenGenerator(src rand.Source) TokenGenerator {
	return &randomTokenGenerator{rng: rand.New(src)}
}

func (g *randomTokenGenerator) suffix() string {
	b := make([]byte, tokenSuffixLen)
	for i := range b {
		b[i] = tokenCharset[g.rng.Intn(len(tokenCharset))]
	}
	return string(b)
}

// VerificationToken returns a fresh "v-xxxx" code.
func (g *randomTokenGenerator) VerificationToken() string {
	return "v-" + g.suffix()
}

// ResetToken returns a fresh "p-xxxx" code.
func (g *randomTokenGenerator) ResetToken() string {
	return "p-" + g.suffix()
}
