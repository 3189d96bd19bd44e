// Package checksum computes content digests over a canonical serialization of
// metric payloads. Equal logical content always produces equal digests, no
// matter how the transport ordered keys or formatted numbers, which is what
// makes the digests usable for both redundant-write detection and corruption
// checks.
package checksum

import (
	"bytes"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"strings"
)

// Version tags the canonical serialization rules used to produce a digest.
// Bump it if the canonicalization ever changes; digests with a different
// version prefix are never compared byte-for-byte.
const Version = "v1"

// MismatchError reports a disagreement between a stored digest and a freshly
// computed one.
type MismatchError struct {
	Stored   string
	Computed string
}

func (e *MismatchError) Error() string {
	return fmt.Sprintf("checksum mismatch: stored %s, computed %s", e.Stored, e.Computed)
}

// Canonical returns the canonical JSON serialization of payload: object keys
// sorted, compact separators, numbers normalized, nulls preserved. The payload
// must be JSON-serializable.
func Canonical(payload any) ([]byte, error) {
	// Round-trip through generic values so that struct field order, map key
	// order, and number formatting from the transport cannot leak into the
	// digest. encoding/json marshals map keys in sorted order.
	raw, err := json.Marshal(payload)
	if err != nil {
		return nil, fmt.Errorf("failed to serialize payload: %w", err)
	}

	var generic any
	if err := json.Unmarshal(raw, &generic); err != nil {
		return nil, fmt.Errorf("failed to normalize payload: %w", err)
	}

	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetEscapeHTML(false)
	if err := enc.Encode(generic); err != nil {
		return nil, fmt.Errorf("failed to canonicalize payload: %w", err)
	}
	return bytes.TrimRight(buf.Bytes(), "\n"), nil
}

// Compute returns the versioned digest of payload.
func Compute(payload any) (string, error) {
	canonical, err := Canonical(payload)
	if err != nil {
		return "", err
	}
	sum := sha256.Sum256(canonical)
	return Version + ":" + hex.EncodeToString(sum[:]), nil
}

// NeedsRewrite reports whether a row with existing digest must be rewritten
// to hold content with the fresh digest. An empty or differently-versioned
// existing digest always needs a rewrite.
func NeedsRewrite(existing, fresh string) bool {
	if existing == "" {
		return true
	}
	if !strings.HasPrefix(existing, Version+":") {
		return true
	}
	return existing != fresh
}

// Verify recomputes the digest of payload and compares it against the one
// recorded at write time. A disagreement is returned as a *MismatchError and
// is never repaired here; the caller decides what to do with a corrupt row.
func Verify(payload any, stored string) error {
	computed, err := Compute(payload)
	if err != nil {
		return err
	}
	if computed != stored {
		return &MismatchError{Stored: stored, Computed: computed}
	}
	return nil
}
