package trace

import (
	"crypto/sha256"
	"encoding/hex"
	"fmt"
)

// DomainTicks separates trace digests from any other hash of the same bytes.
const DomainTicks = "lti/trace/v1"

// hashWithDomain computes SHA256(domain + 0x00 + data) as hex.
func hashWithDomain(domain string, data []byte) string {
	h := sha256.New()
	h.Write([]byte(domain))
	h.Write([]byte{0x00})
	h.Write(data)
	return hex.EncodeToString(h.Sum(nil))
}

// Digest identifies a tick sequence by content. Two runs of a deterministic
// machine over the same inputs have the same digest; the scenario name and
// run id do not take part.
func Digest(ticks []Tick) (string, error) {
	data, err := MarshalCanonical(ticks)
	if err != nil {
		return "", fmt.Errorf("digest: %w", err)
	}
	return hashWithDomain(DomainTicks, data), nil
}

// MustDigest is like Digest but panics on error.
func MustDigest(ticks []Tick) string {
	d, err := Digest(ticks)
	if err != nil {
		panic(err)
	}
	return d
}
