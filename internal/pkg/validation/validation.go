package validation

import (
	"regexp"
	"unicode"
)

var emailRe = regexp.MustCompile(`^[^\s@]+@[^\s@]+\.[^\s@]+$`)

// Fullname: letters, spaces, hyphens, apostrophes only.
var fullnameRe = regexp.MustCompile(`^[A-Za-z\s\-']+$`)

// Wallet transfer reference: 0x-prefixed 32-byte hash, as returned by the
// browser wallet after the send call.
var txHashRe = regexp.MustCompile(`^0x[0-9a-fA-F]{64}$`)

// Bank transfer reference: the UTR printed on the UPI receipt,
// 6-22 uppercase alphanumerics.
var utrRe = regexp.MustCompile(`^[A-Z0-9]{6,22}$`)

// UPI virtual payment address, e.g. founder@okhdfcbank.
var upiRe = regexp.MustCompile(`^[a-zA-Z0-9.\-_]{2,}@[a-zA-Z]{2,}$`)

// Wallet address: 0x-prefixed 20-byte hex.
var walletAddrRe = regexp.MustCompile(`^0x[0-9a-fA-F]{40}$`)

func IsValidEmail(email string) bool {
	return emailRe.MatchString(email)
}

// IsValidPassword requires:
// - at least 8 characters
// - contains at least one letter
// - contains at least one number
// - contains at least one special character
func IsValidPassword(password string) bool {
	if len(password) < 8 {
		return false
	}
	hasLetter, hasDigit, hasSpecial := false, false, false
	for _, r := range password {
		switch {
		case unicode.IsLetter(r):
			hasLetter = true
		case unicode.IsDigit(r):
			hasDigit = true
		case unicode.IsPunct(r) || unicode.IsSymbol(r):
			hasSpecial = true
		}
	}
	return hasLetter && hasDigit && hasSpecial
}

func IsValidFullname(fullname string) bool {
	return fullname != "" && fullnameRe.MatchString(fullname)
}

func IsValidTxHash(ref string) bool {
	return txHashRe.MatchString(ref)
}

func IsValidUTR(ref string) bool {
	return utrRe.MatchString(ref)
}

func IsValidUpiID(id string) bool {
	return upiRe.MatchString(id)
}

func IsValidWalletAddress(addr string) bool {
	return walletAddrRe.MatchString(addr)
}
