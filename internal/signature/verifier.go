package signature

import (
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"

	"github.com/alimikegami/pi-callback-service/pkg/errs"
)

type Result int

const (
	ResultAuthenticated Result = iota
	// ResultUnconfigured means no secret is set and verification was skipped.
	// This is an explicit insecure fallback for non-production deployments,
	// distinct from a successful verification.
	ResultUnconfigured
)

type Verifier struct {
	secret string
}

func CreateVerifier(secret string) *Verifier {
	return &Verifier{secret: secret}
}

// Verify checks the hex-encoded HMAC-SHA256 of the raw request body against
// the signature header. The comparison is constant time so the position of
// the first differing byte is not observable; length alone is not treated as
// secret-sensitive.
func (v *Verifier) Verify(rawBody []byte, header string) (Result, error) {
	if v.secret == "" {
		return ResultUnconfigured, nil
	}

	if header == "" {
		return 0, errs.ErrMissingSignature
	}

	provided, err := hex.DecodeString(header)
	if err != nil || len(provided) != sha256.Size {
		return 0, errs.ErrInvalidSignature
	}

	mac := hmac.New(sha256.New, []byte(v.secret))
	mac.Write(rawBody)

	if !hmac.Equal(provided, mac.Sum(nil)) {
		return 0, errs.ErrInvalidSignature
	}

	return ResultAuthenticated, nil
}
