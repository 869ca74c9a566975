package report

import (
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"fmt"
)

// DomainSummary prefixes summary fingerprints. The version suffix allows a
// later change of encoding.
const DomainSummary = "winrule/summary/v1"

// hashWithDomain computes SHA256(domain + 0x00 + data).
// The null byte keeps the domain and data boundary unambiguous.
func hashWithDomain(domain string, data []byte) string {
	h := sha256.New()
	h.Write([]byte(domain))
	h.Write([]byte{0x00})
	h.Write(data)
	return hex.EncodeToString(h.Sum(nil))
}

// Fingerprint identifies what a configuration compiled to. Two loads of an
// unchanged file have the same fingerprint; the load ID does not take part.
func Fingerprint(s *Summary) (string, error) {
	c := *s
	c.LoadID = ""
	data, err := json.Marshal(&c)
	if err != nil {
		return "", fmt.Errorf("fingerprinting summary: %w", err)
	}
	return hashWithDomain(DomainSummary, data), nil
}
