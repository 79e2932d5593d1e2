package auth

import (
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"errors"
	"net/url"
	"sort"
	"strconv"
	"strings"
	"time"
)

// Verification failures. Every failure is fatal to the request; callers must
// not fall through to any weaker identity source.
var (
	ErrMissingSignature  = errors.New("missing hash in init data")
	ErrSignatureMismatch = errors.New("invalid init data signature")
	ErrExpired           = errors.New("init data expired")
	ErrMissingUser       = errors.New("no user data in init data")
	ErrInvalidUser       = errors.New("invalid user data")
)

// TelegramUser is the user payload embedded in signed init data.
type TelegramUser struct {
	ID           int64  `json:"id"`
	FirstName    string `json:"first_name"`
	LastName     string `json:"last_name"`
	Username     string `json:"username"`
	LanguageCode string `json:"language_code"`
}

// TelegramID returns the external identity as the stable string the rest of
// the system keys on.
func (u *TelegramUser) TelegramID() string {
	return strconv.FormatInt(u.ID, 10)
}

// VerifyInitData authenticates a Telegram WebApp initData credential and
// returns the embedded user. This is the sole trust boundary between the
// client and the ledger: every component downstream trusts its output
// unconditionally.
//
// The signature is an HMAC-SHA256 over the check string (remaining key=value
// pairs, sorted by key, joined by newline) keyed with SHA-256(botToken).
// auth_date is compared against maxAge using the server clock only.
func VerifyInitData(initData, botToken string, maxAge time.Duration, now time.Time) (*TelegramUser, error) {
	values, err := url.ParseQuery(initData)
	if err != nil {
		return nil, ErrSignatureMismatch
	}

	hash := values.Get("hash")
	if hash == "" {
		return nil, ErrMissingSignature
	}
	values.Del("hash")

	keys := make([]string, 0, len(values))
	for key := range values {
		keys = append(keys, key)
	}
	sort.Strings(keys)

	parts := make([]string, 0, len(keys))
	for _, key := range keys {
		parts = append(parts, key+"="+values.Get(key))
	}
	dataCheckString := strings.Join(parts, "\n")

	secret := sha256.Sum256([]byte(botToken))
	mac := hmac.New(sha256.New, secret[:])
	mac.Write([]byte(dataCheckString))
	calculated := hex.EncodeToString(mac.Sum(nil))

	if !hmac.Equal([]byte(calculated), []byte(hash)) {
		return nil, ErrSignatureMismatch
	}

	authDate, err := strconv.ParseInt(values.Get("auth_date"), 10, 64)
	if err != nil || authDate == 0 {
		return nil, ErrExpired
	}
	age := now.Unix() - authDate
	if age < 0 {
		age = -age
	}
	if time.Duration(age)*time.Second > maxAge {
		return nil, ErrExpired
	}

	userJSON := values.Get("user")
	if userJSON == "" {
		return nil, ErrMissingUser
	}

	var user TelegramUser
	if err := json.Unmarshal([]byte(userJSON), &user); err != nil {
		return nil, ErrInvalidUser
	}
	if user.ID == 0 {
		return nil, ErrInvalidUser
	}

	return &user, nil
}
