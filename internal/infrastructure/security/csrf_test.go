package security

import (
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestIssueAndVerify(t *testing.T) {
	csrf, err := NewCSRF("secret", time.Hour)
	require.NoError(t, err)

	token := csrf.Issue(ScopeFiles, "radio1")
	assert.NoError(t, csrf.Verify(token, ScopeFiles, "radio1"))

	assert.ErrorIs(t, csrf.Verify(token, ScopeFiles, "radio2"), ErrTokenInvalid)
	assert.ErrorIs(t, csrf.Verify(token, "other", "radio1"), ErrTokenInvalid)
}

func TestVerifyRejectsTampering(t *testing.T) {
	csrf, err := NewCSRF("secret", time.Hour)
	require.NoError(t, err)
	token := csrf.Issue(ScopeFiles, "radio1")
	parts := strings.Split(token, ".")

	tests := map[string]string{
		"empty":        "",
		"two parts":    parts[0] + "." + parts[1],
		"bad nonce":    "nonce." + parts[1] + "." + parts[2],
		"bad expiry":   parts[0] + ".soon." + parts[2],
		"later expiry": parts[0] + "." + parts[1] + "9." + parts[2],
		"flipped mac":  parts[0] + "." + parts[1] + "." + strings.Repeat("0", len(parts[2])),
	}
	for name, bad := range tests {
		t.Run(name, func(t *testing.T) {
			assert.Error(t, csrf.Verify(bad, ScopeFiles, "radio1"))
		})
	}
}

func TestVerifyExpiry(t *testing.T) {
	csrf, err := NewCSRF("secret", time.Minute)
	require.NoError(t, err)
	now := time.Now()
	csrf.now = func() time.Time { return now }

	token := csrf.Issue(ScopeFiles, "radio1")
	csrf.now = func() time.Time { return now.Add(2 * time.Minute) }
	assert.ErrorIs(t, csrf.Verify(token, ScopeFiles, "radio1"), ErrTokenExpired)
}

func TestSecretsAreIndependent(t *testing.T) {
	a, err := NewCSRF("", time.Hour)
	require.NoError(t, err)
	b, err := NewCSRF("", time.Hour)
	require.NoError(t, err)

	assert.ErrorIs(t, b.Verify(a.Issue(ScopeFiles, "radio1"), ScopeFiles, "radio1"), ErrTokenInvalid)

	long, err := NewCSRF(strings.Repeat("k", 100), time.Hour)
	require.NoError(t, err)
	assert.NoError(t, long.Verify(long.Issue(ScopeFiles, "x"), ScopeFiles, "x"))
}
