package auth

import (
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"net/url"
	"sort"
	"strconv"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const testBotToken = "123456:ABC-DEF1234ghIkl-zyx57W2v1u123ew11"

// signInitData builds a credential the way the issuing platform would.
func signInitData(t *testing.T, botToken string, fields map[string]string) string {
	t.Helper()

	keys := make([]string, 0, len(fields))
	for k := range fields {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	parts := make([]string, 0, len(keys))
	for _, k := range keys {
		parts = append(parts, k+"="+fields[k])
	}
	checkString := strings.Join(parts, "\n")

	secret := sha256.Sum256([]byte(botToken))
	mac := hmac.New(sha256.New, secret[:])
	mac.Write([]byte(checkString))
	hash := hex.EncodeToString(mac.Sum(nil))

	values := url.Values{}
	for k, v := range fields {
		values.Set(k, v)
	}
	values.Set("hash", hash)
	return values.Encode()
}

func validFields(authDate time.Time) map[string]string {
	return map[string]string{
		"auth_date": strconv.FormatInt(authDate.Unix(), 10),
		"query_id":  "AAH9mZlRAAAAAP2ZmVGdH9Ym",
		"user":      `{"id":67890,"first_name":"Bear","last_name":"Tester","username":"beartester","language_code":"en"}`,
	}
}

func TestVerifyInitData_Valid(t *testing.T) {
	now := time.Now()
	initData := signInitData(t, testBotToken, validFields(now))

	user, err := VerifyInitData(initData, testBotToken, time.Hour, now)
	require.NoError(t, err)
	assert.Equal(t, int64(67890), user.ID)
	assert.Equal(t, "67890", user.TelegramID())
	assert.Equal(t, "beartester", user.Username)
}

func TestVerifyInitData_MissingHash(t *testing.T) {
	now := time.Now()
	fields := validFields(now)

	values := url.Values{}
	for k, v := range fields {
		values.Set(k, v)
	}

	_, err := VerifyInitData(values.Encode(), testBotToken, time.Hour, now)
	assert.ErrorIs(t, err, ErrMissingSignature)
}

func TestVerifyInitData_SingleByteMutation(t *testing.T) {
	now := time.Now()
	initData := signInitData(t, testBotToken, validFields(now))

	// Flip one byte at a time across the payload; every mutation must be
	// rejected, and never with anything weaker than a signature error.
	for i := 0; i < len(initData); i++ {
		mutated := []byte(initData)
		if mutated[i] == 'a' {
			mutated[i] = 'b'
		} else {
			mutated[i] = 'a'
		}
		if string(mutated) == initData {
			continue
		}

		_, err := VerifyInitData(string(mutated), testBotToken, time.Hour, now)
		assert.Error(t, err, fmt.Sprintf("mutation at byte %d accepted", i))
	}
}

func TestVerifyInitData_WrongToken(t *testing.T) {
	now := time.Now()
	initData := signInitData(t, testBotToken, validFields(now))

	_, err := VerifyInitData(initData, "999999:other-token", time.Hour, now)
	assert.ErrorIs(t, err, ErrSignatureMismatch)
}

func TestVerifyInitData_Expired(t *testing.T) {
	now := time.Now()

	tests := []struct {
		name     string
		authDate time.Time
		maxAge   time.Duration
	}{
		{"older than max age", now.Add(-2 * time.Hour), time.Hour},
		{"future beyond max age", now.Add(2 * time.Hour), time.Hour},
		{"server-side ceiling", now.Add(-25 * time.Hour), 86400 * time.Second},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			initData := signInitData(t, testBotToken, validFields(tt.authDate))
			_, err := VerifyInitData(initData, testBotToken, tt.maxAge, now)
			assert.ErrorIs(t, err, ErrExpired)
		})
	}
}

func TestVerifyInitData_ExpiryCheckedAfterSignature(t *testing.T) {
	// An expired but unsigned payload must fail on the signature, not the
	// age: expiry is only decided for authentic credentials.
	now := time.Now()
	fields := validFields(now.Add(-48 * time.Hour))
	initData := signInitData(t, "999999:other-token", fields)

	_, err := VerifyInitData(initData, testBotToken, time.Hour, now)
	assert.ErrorIs(t, err, ErrSignatureMismatch)
}

func TestVerifyInitData_MissingAuthDate(t *testing.T) {
	now := time.Now()
	fields := validFields(now)
	delete(fields, "auth_date")
	initData := signInitData(t, testBotToken, fields)

	_, err := VerifyInitData(initData, testBotToken, time.Hour, now)
	assert.ErrorIs(t, err, ErrExpired)
}

func TestVerifyInitData_MissingUser(t *testing.T) {
	now := time.Now()
	fields := validFields(now)
	delete(fields, "user")
	initData := signInitData(t, testBotToken, fields)

	_, err := VerifyInitData(initData, testBotToken, time.Hour, now)
	assert.ErrorIs(t, err, ErrMissingUser)
}

func TestVerifyInitData_InvalidUser(t *testing.T) {
	now := time.Now()

	tests := []struct {
		name string
		user string
	}{
		{"not json", "not-json"},
		{"missing id", `{"first_name":"Bear"}`},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			fields := validFields(now)
			fields["user"] = tt.user
			initData := signInitData(t, testBotToken, fields)

			_, err := VerifyInitData(initData, testBotToken, time.Hour, now)
			assert.ErrorIs(t, err, ErrInvalidUser)
		})
	}
}

func TestVerifyInitData_Deterministic(t *testing.T) {
	now := time.Now()
	initData := signInitData(t, testBotToken, validFields(now))

	first, err := VerifyInitData(initData, testBotToken, time.Hour, now)
	require.NoError(t, err)
	second, err := VerifyInitData(initData, testBotToken, time.Hour, now)
	require.NoError(t, err)
	assert.Equal(t, first, second)
}
