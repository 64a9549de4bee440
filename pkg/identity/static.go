package identity

import (
	"context"
	"sync"
)

// StaticVerifier resolves tokens from an in-memory table. Tokens mapped to an
// error fail with that error; unknown tokens fail with ErrInvalidToken.
type StaticVerifier struct {
	mu     sync.Mutex
	tokens map[string]*Identity
	errs   map[string]error
	calls  int
}

// NewStaticVerifier returns a verifier that knows the given tokens.
func NewStaticVerifier(tokens map[string]*Identity) *StaticVerifier {
	if tokens == nil {
		tokens = map[string]*Identity{}
	}
	return &StaticVerifier{tokens: tokens, errs: map[string]error{}}
}

// FailWith makes token fail verification with err.
func (v *StaticVerifier) FailWith(token string, err error) {
	v.mu.Lock()
	defer v.mu.Unlock()
	v.errs[token] = err
}

// Calls is the number of verifications that reached the table.
func (v *StaticVerifier) Calls() int {
	v.mu.Lock()
	defer v.mu.Unlock()
	return v.calls
}

func (v *StaticVerifier) Verify(_ context.Context, rawToken string) (*Identity, error) {
	if rawToken == "" {
		return nil, ErrUnauthenticated
	}
	v.mu.Lock()
	defer v.mu.Unlock()
	v.calls++
	if err, ok := v.errs[rawToken]; ok {
		return nil, err
	}
	id, ok := v.tokens[rawToken]
	if !ok {
		return nil, ErrInvalidToken
	}
	cp := *id
	return &cp, nil
}
