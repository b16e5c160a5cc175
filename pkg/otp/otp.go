package otp

import (
	"crypto/rand"
	"errors"
	"fmt"
	"math/big"
	"strings"

	"golang.org/x/crypto/bcrypt"
)

const (
	DefaultLength = 6
	MinLength     = 4
	MaxLength     = 10
)

var (
	// ErrInvalidLength возвращается при недопустимой длине кода
	ErrInvalidLength = errors.New("otp: invalid code length")

	// ErrGenerate возвращается при ошибке генерации или хеширования кода
	ErrGenerate = errors.New("otp: failed to generate code")
)

// Generator генерирует числовые одноразовые коды и хранит их только в виде bcrypt-хеша
type Generator struct {
	length int
	cost   int
}

// NewGenerator создает генератор. cost = 0 означает bcrypt.DefaultCost.
func NewGenerator(length, cost int) (*Generator, error) {
	if length < MinLength || length > MaxLength {
		return nil, fmt.Errorf("%w: %d", ErrInvalidLength, length)
	}
	if cost == 0 {
		cost = bcrypt.DefaultCost
	}
	if cost < bcrypt.MinCost || cost > bcrypt.MaxCost {
		return nil, fmt.Errorf("otp: invalid bcrypt cost %d", cost)
	}
	return &Generator{length: length, cost: cost}, nil
}

// Length длина генерируемых кодов
func (g *Generator) Length() int {
	return g.length
}

// Generate возвращает открытый код и его хеш
func (g *Generator) Generate() (code string, hash string, err error) {
	code, err = GenerateCode(g.length)
	if err != nil {
		return "", "", err
	}

	h, err := bcrypt.GenerateFromPassword([]byte(code), g.cost)
	if err != nil {
		return "", "", fmt.Errorf("%w: hash: %v", ErrGenerate, err)
	}

	return code, string(h), nil
}

// Verify сравнивает присланный код с хешем
func (g *Generator) Verify(hash, code string) bool {
	code = strings.TrimSpace(code)
	if len(code) != g.length || hash == "" {
		return false
	}
	return bcrypt.CompareHashAndPassword([]byte(hash), []byte(code)) == nil
}

// GenerateCode возвращает числовой код заданной длины из crypto/rand
func GenerateCode(length int) (string, error) {
	if length < MinLength || length > MaxLength {
		return "", fmt.Errorf("%w: %d", ErrInvalidLength, length)
	}

	var b strings.Builder
	b.Grow(length)
	for i := 0; i < length; i++ {
		n, err := rand.Int(rand.Reader, big.NewInt(10))
		if err != nil {
			return "", fmt.Errorf("%w: %v", ErrGenerate, err)
		}
		b.WriteByte(byte('0' + n.Int64()))
	}
	return b.String(), nil
}
