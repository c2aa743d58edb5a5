package auth

import (
	"net/http"

	pkgauth "github.com/emre/coursehub/internal/pkg/auth"
)

// AccessPolicy decides whether a request may proceed. The default policy
// permits everything; stricter policies can be swapped in through config
// without touching the domain operations.
type AccessPolicy interface {
	// Authorize inspects the request and returns nil when it may proceed.
	Authorize(r *http.Request) error
}

// AllowAll permits every request. This mirrors the open API the system
// currently exposes.
type AllowAll struct{}

// NewAllowAll creates the permissive default policy
func NewAllowAll() *AllowAll {
	return &AllowAll{}
}

// Authorize always permits the request
func (*AllowAll) Authorize(*http.Request) error {
	return nil
}

// BearerPolicy requires a valid signed bearer token on every request
type BearerPolicy struct {
	verifier *pkgauth.TokenVerifier
}

// NewBearerPolicy creates a token-checking policy
func NewBearerPolicy(verifier *pkgauth.TokenVerifier) *BearerPolicy {
	return &BearerPolicy{verifier: verifier}
}

// Authorize validates the Authorization header
func (p *BearerPolicy) Authorize(r *http.Request) error {
	token, err := pkgauth.ExtractBearerToken(r.Header.Get("Authorization"))
	if err != nil {
		return err
	}

	_, err = p.verifier.Validate(token)
	return err
}
