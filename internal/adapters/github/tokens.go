package github

import (
	"strings"
	"sync/atomic"
)

// TokenPool hands out API tokens round robin. Safe for concurrent use
// An empty pool yields "" and requests go out unauthenticated
type TokenPool struct {
	tokens []string
	cur    atomic.Uint64
}

// NewTokenPool builds a pool from tokens, dropping blanks
func NewTokenPool(tokens ...string) *TokenPool {
	p := &TokenPool{}
	for _, t := range tokens {
		if t = strings.TrimSpace(t); t != "" {
			p.tokens = append(p.tokens, t)
		}
	}
	return p
}

// ParseTokenPool builds a pool from a comma separated list
func ParseTokenPool(csv string) *TokenPool {
	return NewTokenPool(strings.Split(csv, ",")...)
}

// Next returns the next token in rotation
func (p *TokenPool) Next() string {
	if p == nil || len(p.tokens) == 0 {
		return ""
	}
	n := p.cur.Add(1) - 1
	return p.tokens[n%uint64(len(p.tokens))]
}

// Len reports how many tokens are in rotation
func (p *TokenPool) Len() int {
	if p == nil {
		return 0
	}
	return len(p.tokens)
}
