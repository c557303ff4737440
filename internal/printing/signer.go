package printing

import (
	"crypto/ed25519"
	"crypto/x509"
	"encoding/pem"
	"errors"
	"fmt"
)

// ChallengeSigner produces detached Ed25519 signatures over opaque challenge
// bytes for the certificate-authenticated print channel. The bridge presents
// a challenge, this side signs it, nothing more — the handshake around it is
// the bridge's concern.
type ChallengeSigner struct {
	key ed25519.PrivateKey
}

// NewChallengeSigner parses a PKCS#8 PEM-encoded Ed25519 private key.
func NewChallengeSigner(pemBytes []byte) (*ChallengeSigner, error) {
	block, _ := pem.Decode(pemBytes)
	if block == nil {
		return nil, errors.New("no PEM block in signing key")
	}
	parsed, err := x509.ParsePKCS8PrivateKey(block.Bytes)
	if err != nil {
		return nil, fmt.Errorf("parsing signing key: %w", err)
	}
	key, ok := parsed.(ed25519.PrivateKey)
	if !ok {
		return nil, fmt.Errorf("signing key is %T, want ed25519", parsed)
	}
	return &ChallengeSigner{key: key}, nil
}

// Sign returns the detached signature over the challenge.
func (s *ChallengeSigner) Sign(challenge []byte) []byte {
	return ed25519.Sign(s.key, challenge)
}

// Public returns the verifying key, handed to bridges at pairing time.
func (s *ChallengeSigner) Public() ed25519.PublicKey {
	return s.key.Public().(ed25519.PublicKey)
}
