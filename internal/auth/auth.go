// Package auth binds external Google identities to locally issued secrets and
// verifies those secrets on later requests.
package auth

import (
	"context"
	"crypto/rand"
	"crypto/subtle"
	"encoding/hex"
	"errors"
	"fmt"
	"regexp"

	"golang.org/x/crypto/argon2"

	"github.com/pulseboard/heartbeat/internal/server/db"
)

// ErrBadCredential is returned when a supplied secret does not match the
// stored hash (or no credential exists). Clients should drop any cached
// credential and re-bind.
var ErrBadCredential = errors.New("authentication failed: invalid id or secret")

// argon2id parameters for secret hashing.
const (
	hashTime    = 1
	hashMemory  = 64 * 1024
	hashThreads = 4
	hashLen     = 32
)

// TokenInfo is what the identity provider reports about a bearer token.
type TokenInfo struct {
	Subject       string
	Email         string
	EmailVerified bool
	Audience      string
}

// TokenVerifier resolves a bearer token to a verified identity. The production
// implementation calls Google's tokeninfo endpoint; tests substitute a stub.
type TokenVerifier interface {
	VerifyToken(ctx context.Context, accessToken string) (*TokenInfo, error)
}

// CredentialStore is the credential slice of the SQLite store.
type CredentialStore interface {
	GetCredential(subjectID string) (*db.Credential, error)
	UpsertCredential(c *db.Credential) error
}

// Config carries the identity policy. Passed in at construction rather than
// read from ambient globals.
type Config struct {
	RequireAuth  bool
	ClientID     string
	EmailPattern *regexp.Regexp
}

// Binding is the one-time result of a successful identity exchange. The
// plaintext secret is shown to the client exactly once and never persisted.
type Binding struct {
	SubjectID string `json:"id"`
	Secret    string `json:"secret"`
}

// Authenticator implements the credential-binding scheme.
type Authenticator struct {
	cfg      Config
	creds    CredentialStore
	verifier TokenVerifier
}

// New creates an Authenticator.
func New(cfg Config, creds CredentialStore, verifier TokenVerifier) *Authenticator {
	return &Authenticator{cfg: cfg, creds: creds, verifier: verifier}
}

// RequireAuth reports whether read/mutate operations must pass Verify.
func (a *Authenticator) RequireAuth() bool {
	return a.cfg.RequireAuth
}

// Bind verifies an external bearer token and issues a fresh salt and secret
// for its subject. The credential row is upserted, so re-authenticating
// silently rotates the secret.
func (a *Authenticator) Bind(ctx context.Context, accessToken string) (*Binding, error) {
	info, err := a.verifier.VerifyToken(ctx, accessToken)
	if err != nil {
		return nil, fmt.Errorf("oauth: %w", err)
	}
	if info.Audience != a.cfg.ClientID {
		return nil, errors.New("oauth: invalid audience")
	}
	if !info.EmailVerified {
		return nil, errors.New("oauth: email not verified")
	}
	if a.cfg.EmailPattern != nil && !a.cfg.EmailPattern.MatchString(info.Email) {
		return nil, errors.New("oauth: bad email")
	}

	salt, err := randomHex(16)
	if err != nil {
		return nil, err
	}
	secret, err := randomHex(32)
	if err != nil {
		return nil, err
	}

	cred := &db.Credential{
		SubjectID:  info.Subject,
		Salt:       salt,
		SecretHash: hashSecret(salt, secret),
	}
	if err := a.creds.UpsertCredential(cred); err != nil {
		return nil, fmt.Errorf("bind credential: %w", err)
	}

	return &Binding{SubjectID: info.Subject, Secret: secret}, nil
}

// Verify checks a supplied plaintext secret against the stored hash in
// constant time.
func (a *Authenticator) Verify(subjectID, secret string) error {
	cred, err := a.creds.GetCredential(subjectID)
	if err != nil {
		return fmt.Errorf("verify credential: %w", err)
	}
	if cred == nil {
		return ErrBadCredential
	}
	supplied := hashSecret(cred.Salt, secret)
	if subtle.ConstantTimeCompare([]byte(supplied), []byte(cred.SecretHash)) != 1 {
		return ErrBadCredential
	}
	return nil
}

func hashSecret(salt, secret string) string {
	digest := argon2.IDKey([]byte(secret), []byte(salt), hashTime, hashMemory, hashThreads, hashLen)
	return hex.EncodeToString(digest)
}

func randomHex(n int) (string, error) {
	buf := make([]byte, n)
	if _, err := rand.Read(buf); err != nil {
		return "", fmt.Errorf("read random: %w", err)
	}
	return hex.EncodeToString(buf), nil
}
