// Package signature verifies GitHub webhook signatures. The digest is
// computed over the body bytes exactly as received; re-encoding a parsed
// payload can change the bytes and break verification.
package signature

import (
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"
	"strings"

	"github.com/genflow/prbridge/internal/fault"
)

// Prefix is the scheme tag GitHub puts in front of the hex digest.
const Prefix = "sha256="

// Compute returns the signature header value for body under secret.
func Compute(body []byte, secret string) string {
	mac := hmac.New(sha256.New, []byte(secret))
	mac.Write(body)
	return Prefix + hex.EncodeToString(mac.Sum(nil))
}

// Verify checks a provided sha256=<hex> signature against the body and
// secret. The comparison is constant-time. Failures carry an opaque reason:
// neither the secret nor the computed digest is echoed back.
func Verify(body []byte, provided, secret string) error {
	if !strings.HasPrefix(provided, Prefix) {
		return fault.New(fault.KindSignature, "invalid webhook signature")
	}

	sig, err := hex.DecodeString(strings.TrimPrefix(provided, Prefix))
	if err != nil {
		return fault.New(fault.KindSignature, "invalid webhook signature")
	}

	mac := hmac.New(sha256.New, []byte(secret))
	mac.Write(body)
	if !hmac.Equal(sig, mac.Sum(nil)) {
		return fault.New(fault.KindSignature, "invalid webhook signature")
	}

	return nil
}

// Policy enforces when a signature is required. In permissive mode (local
// development) an absent header is accepted, but a header that is present
// is always verified.
type Policy struct {
	Secret     string
	Permissive bool
}

// Check applies the policy to a request body and its signature header.
func (p Policy) Check(body []byte, header string) error {
	if header == "" {
		if p.Permissive {
			return nil
		}
		return fault.New(fault.KindSignature, "webhook signature required")
	}
	return Verify(body, header, p.Secret)
}
