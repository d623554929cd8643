package pipeline

import (
	"crypto/rand"
	"io"
)

const (
	caseIDLength   = 8
	caseIDAlphabet = "ABCDEFGHIJKLMNOPQRSTUVWXYZ0123456789"
	// Largest multiple of 36 that fits in a byte; bytes at or above it are
	// discarded so every symbol is equally likely.
	caseIDByteLimit = 252
)

// NewCaseID returns an 8-character upper-case token, uniform over [A-Z0-9].
func NewCaseID() string {
	id, err := caseIDFrom(rand.Reader)
	if err != nil {
		// crypto/rand.Reader does not fail on supported platforms.
		panic(err)
	}
	return id
}

func caseIDFrom(r io.Reader) (string, error) {
	id := make([]byte, 0, caseIDLength)
	buf := make([]byte, caseIDLength*2)
	for len(id) < caseIDLength {
		if _, err := io.ReadFull(r, buf); err != nil {
			return "", err
		}
		for _, b := range buf {
			if b >= caseIDByteLimit {
				continue
			}
			id = append(id, caseIDAlphabet[int(b)%len(caseIDAlphabet)])
			if len(id) == caseIDLength {
				break
			}
		}
	}
	return string(id), nil
}
