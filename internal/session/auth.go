package session

import (
	"crypto/subtle"
	"encoding/base64"
	"errors"
	"fmt"

	"github.com/pquerna/otp/totp"
	"github.com/skip2/go-qrcode"
	"golang.org/x/crypto/bcrypt"
)

// ErrBadCredentials is returned for a wrong password or TOTP code.
// Callers must not distinguish the two in their responses.
var ErrBadCredentials = errors.New("invalid credentials")

// Authenticator verifies the single admin identity. The password is
// checked against a bcrypt hash when one is configured, otherwise
// against the plain configured password in constant time. An optional
// TOTP secret enables a second factor.
type Authenticator struct {
	passwordHash string
	password     string
	totpSecret   string
	issuer       string
	account      string
}

// AuthConfig carries the admin credential settings.
type AuthConfig struct {
	Password     string
	PasswordHash string
	TOTPSecret   string
	Issuer       string
	Account      string
}

// NewAuthenticator builds the verifier. At least one of Password and
// PasswordHash must be set.
func NewAuthenticator(cfg AuthConfig) (*Authenticator, error) {
	if cfg.Password == "" && cfg.PasswordHash == "" {
		return nil, errors.New("no admin password configured")
	}
	issuer := cfg.Issuer
	if issuer == "" {
		issuer = "Aerogrid"
	}
	account := cfg.Account
	if account == "" {
		account = "admin"
	}
	return &Authenticator{
		passwordHash: cfg.PasswordHash,
		password:     cfg.Password,
		totpSecret:   cfg.TOTPSecret,
		issuer:       issuer,
		account:      account,
	}, nil
}

// TwoFactorEnabled reports whether a TOTP code is required to log in.
func (a *Authenticator) TwoFactorEnabled() bool { return a.totpSecret != "" }

// Verify checks the password and, when 2FA is enabled, the TOTP code.
// Any mismatch yields ErrBadCredentials.
func (a *Authenticator) Verify(password, code string) error {
	if a.passwordHash != "" {
		if bcrypt.CompareHashAndPassword([]byte(a.passwordHash), []byte(password)) != nil {
			return ErrBadCredentials
		}
	} else if subtle.ConstantTimeCompare([]byte(a.password), []byte(password)) != 1 {
		return ErrBadCredentials
	}

	if a.totpSecret != "" && !totp.Validate(code, a.totpSecret) {
		return ErrBadCredentials
	}
	return nil
}

// SetupTOTP generates a fresh TOTP secret together with a base64 PNG
// QR code for enrollment. The caller is responsible for putting the
// secret into the environment; until then 2FA stays disabled.
func (a *Authenticator) SetupTOTP() (secret, qrBase64 string, err error) {
	key, err := totp.Generate(totp.GenerateOpts{
		Issuer:      a.issuer,
		AccountName: a.account,
	})
	if err != nil {
		return "", "", fmt.Errorf("totp generate: %w", err)
	}

	qrPNG, err := qrcode.Encode(key.URL(), qrcode.Medium, 256)
	if err != nil {
		return "", "", fmt.Errorf("qr code: %w", err)
	}
	return key.Secret(), base64.StdEncoding.EncodeToString(qrPNG), nil
}
