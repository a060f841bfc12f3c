package data

import "golang.org/x/text/unicode/norm"

// Normalize returns the NFC normal form of s.
//
// Canonically equivalent strings (e.g. precomposed vs. decomposed
// accents) must compare equal and hash equally, otherwise a memo key
// built from user text would miss on a byte-different spelling of the
// same string.
func Normalize(s string) string {
	if norm.NFC.IsNormalString(s) {
		return s
	}
	return norm.NFC.String(s)
}
