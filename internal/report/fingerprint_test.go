package report

import (
	"crypto/sha256"
	"encoding/hex"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestHashWithDomain(t *testing.T) {
	sum := sha256.Sum256([]byte("d\x00data"))
	assert.Equal(t, hex.EncodeToString(sum[:]), hashWithDomain("d", []byte("data")))

	// The separator keeps "ab"+"c" and "a"+"bc" apart.
	assert.NotEqual(t, hashWithDomain("ab", []byte("c")), hashWithDomain("a", []byte("bc")))
}

func TestFingerprintIgnoresLoadID(t *testing.T) {
	const src = `rules: [{match: "focused", opacity: 0.5}]`
	a := Summarize(compile(t, src))
	b := Summarize(compile(t, src))
	b.LoadID = "another-load"

	fa, err := Fingerprint(a)
	require.NoError(t, err)
	fb, err := Fingerprint(b)
	require.NoError(t, err)
	assert.Equal(t, fa, fb)
	assert.Len(t, fa, 64)
	assert.NotEqual(t, "another-load", a.LoadID, "fingerprinting leaves the summary untouched")
}

func TestFingerprintChangesWithContent(t *testing.T) {
	a := Summarize(compile(t, `rules: [{match: "focused", opacity: 0.5}]`))
	b := Summarize(compile(t, `rules: [{match: "focused", opacity: 0.6}]`))

	fa, err := Fingerprint(a)
	require.NoError(t, err)
	fb, err := Fingerprint(b)
	require.NoError(t, err)
	assert.NotEqual(t, fa, fb)
}
