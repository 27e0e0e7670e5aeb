package utils

import (
	"github.com/pquerna/otp"
	"github.com/pquerna/otp/totp"
)

// totpIssuer is the issuer shown in authenticator apps.
const totpIssuer = "HomeReach"

// NewTOTPSecret generates a fresh TOTP secret for the given account email
// and returns the base32 secret together with the otpauth:// provisioning
// URL for QR display.
func NewTOTPSecret(email string) (secret, url string, err error) {
	key, err := totp.Generate(totp.GenerateOpts{
		Issuer:      totpIssuer,
		AccountName: email,
		Algorithm:   otp.AlgorithmSHA1,
	})
	if err != nil {
		return "", "", err
	}
	return key.Secret(), key.URL(), nil
}

// VerifyTOTP checks a 6-digit code against the stored secret.  An empty
// secret never validates.
func VerifyTOTP(secret, code string) bool {
	if secret == "" {
		return false
	}
	return totp.Validate(code, secret)
}
