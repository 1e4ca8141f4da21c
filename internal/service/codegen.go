package service

import (
	"context"
	"crypto/rand"
	"fmt"
	"io"
	"math/big"

	"go.uber.org/zap"
)

const (
	ShortCodeLength    = 6
	ShortCodeAlphabet  = "ABCDEFGHIJKLMNOPQRSTUVWXYZabcdefghijklmnopqrstuvwxyz0123456789"
	DefaultMaxAttempts = 10
)

var alphabetSize = big.NewInt(int64(len(ShortCodeAlphabet)))

// CodeAllocator draws random short codes until it finds one the store does not hold.
type CodeAllocator struct {
	checker CodeChecker
	random  io.Reader
	logger  *zap.Logger
}

func NewCodeAllocator(checker CodeChecker, logger *zap.Logger) *CodeAllocator {
	return &CodeAllocator{
		checker: checker,
		random:  rand.Reader,
		logger:  logger,
	}
}

// Generate returns a code whose characters are drawn independently and uniformly from ShortCodeAlphabet.
func (a *CodeAllocator) Generate() (string, error) {
	code := make([]byte, ShortCodeLength)
	for i := range code {
		n, err := rand.Int(a.random, alphabetSize)
		if err != nil {
			return "", fmt.Errorf("read random: %w", err)
		}
		code[i] = ShortCodeAlphabet[n.Int64()]
	}
	return string(code), nil
}

// Allocate tries up to maxAttempts candidates and returns the first free one.
// It returns ErrMaxRetriesExceeded when every candidate was taken. Nothing is persisted.
func (a *CodeAllocator) Allocate(ctx context.Context, maxAttempts int) (string, error) {
	if maxAttempts <= 0 {
		maxAttempts = DefaultMaxAttempts
	}

	for attempt := 1; attempt <= maxAttempts; attempt++ {
		code, err := a.Generate()
		if err != nil {
			return "", err
		}

		exists, err := a.checker.ShortCodeExists(ctx, code)
		if err != nil {
			return "", storageError("check short code", err)
		}

		if !exists {
			return code, nil
		}

		a.logger.Debug("Short code collision",
			zap.String("shortCode", code),
			zap.Int("attempt", attempt))
	}

	a.logger.Error("Failed to generate unique short code after max attempts",
		zap.Int("maxAttempts", maxAttempts))
	return "", ErrMaxRetriesExceeded
}
