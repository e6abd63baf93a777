package security

import (
	"crypto/rand"
	"crypto/subtle"
	"encoding/hex"
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/GriffinCanCode/stationfiles/internal/shared/id"
	"golang.org/x/crypto/blake2b"
)

// ScopeFiles is the token scope for file manager mutations
const ScopeFiles = "files"

var (
	ErrTokenMalformed = errors.New("csrf token malformed")
	ErrTokenInvalid   = errors.New("csrf token invalid")
	ErrTokenExpired   = errors.New("csrf token expired")
)

// CSRF issues and verifies stateless tokens of the form
// <nonce>.<expiry-unix>.<hex mac>, bound to a scope and a station.
type CSRF struct {
	secret []byte
	ttl    time.Duration
	now    func() time.Time
}

// NewCSRF creates a token service. An empty secret is replaced by random bytes,
// which invalidates tokens across restarts.
func NewCSRF(secret string, ttl time.Duration) (*CSRF, error) {
	key := []byte(secret)
	if len(key) == 0 {
		key = make([]byte, 32)
		if _, err := rand.Read(key); err != nil {
			return nil, fmt.Errorf("generate csrf secret: %w", err)
		}
	}
	if len(key) > blake2b.Size {
		sum := blake2b.Sum256(key)
		key = sum[:]
	}
	if ttl <= 0 {
		ttl = time.Hour
	}
	return &CSRF{secret: key, ttl: ttl, now: time.Now}, nil
}

// Issue returns a fresh token for scope and station
func (c *CSRF) Issue(scope, station string) string {
	nonce := id.NewNonce().String()
	expiry := strconv.FormatInt(c.now().Add(c.ttl).Unix(), 10)
	return nonce + "." + expiry + "." + c.mac(scope, station, nonce, expiry)
}

// Verify checks token against scope and station
func (c *CSRF) Verify(token, scope, station string) error {
	parts := strings.Split(token, ".")
	if len(parts) != 3 || !id.IsValid(parts[0]) {
		return ErrTokenMalformed
	}
	nonce, expiry, sig := parts[0], parts[1], parts[2]

	unix, err := strconv.ParseInt(expiry, 10, 64)
	if err != nil {
		return ErrTokenMalformed
	}

	want := c.mac(scope, station, nonce, expiry)
	if subtle.ConstantTimeCompare([]byte(sig), []byte(want)) != 1 {
		return ErrTokenInvalid
	}
	if c.now().After(time.Unix(unix, 0)) {
		return ErrTokenExpired
	}
	return nil
}

func (c *CSRF) mac(scope, station, nonce, expiry string) string {
	h, err := blake2b.New256(c.secret)
	if err != nil {
		// Key length is bounded in NewCSRF
		panic(err)
	}
	h.Write([]byte(scope + "|" + station + "|" + nonce + "|" + expiry))
	return hex.EncodeToString(h.Sum(nil))
}
