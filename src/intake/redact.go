package intake

import (
	"crypto/sha256"
	"encoding/hex"
	"net"
)

// maxSignatureLen caps the stored client descriptor.
const maxSignatureLen = 180

// Fingerprint derives a one-way identifier from a submitter network address.
// The same address always yields the same fingerprint, so coarse abuse-rate
// correlation stays possible, but the address itself is never stored or
// recoverable. Returns "" when no address is available.
func Fingerprint(remoteAddr string) string {
	if remoteAddr == "" {
		return ""
	}
	// Strip the ephemeral port when present so a client keeps a stable
	// fingerprint across connections.
	if host, _, err := net.SplitHostPort(remoteAddr); err == nil {
		remoteAddr = host
	}
	sum := sha256.Sum256([]byte(remoteAddr))
	return hex.EncodeToString(sum[:])[:16]
}

// ClientSignature truncates a caller-supplied client descriptor (typically
// the User-Agent) to its stored size. Diagnostic metadata, kept verbatim.
func ClientSignature(s string) string {
	runes := []rune(s)
	if len(runes) > maxSignatureLen {
		return string(runes[:maxSignatureLen])
	}
	return s
}
