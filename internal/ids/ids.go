// Package ids generates the identifier formats used across the collections.
package ids

import (
	"crypto/rand"
	"fmt"
	"time"
)

const suffixChars = "ABCDEFGHIJKLMNOPQRSTUVWXYZ0123456789"

// Suffix returns n random uppercase alphanumeric characters.
func Suffix(n int) string {
	b := make([]byte, n)
	rand.Read(b)
	for i := range b {
		b[i] = suffixChars[int(b[i])%len(suffixChars)]
	}
	return string(b)
}

// NewOrderID returns an id like ORD-20250114-7KQ2MX. Uniqueness rests on the
// random suffix; collisions are accepted as negligible and not checked.
func NewOrderID() string {
	return "ORD-" + time.Now().Format("20060102") + "-" + Suffix(6)
}

// NewCustomerID returns an id like CUST-20250114-7KQ2MX.
func NewCustomerID() string {
	return "CUST-" + time.Now().Format("20060102") + "-" + Suffix(6)
}

// NewUserID returns the sequential staff id USER-NNN.
func NewUserID(seq int) string {
	return fmt.Sprintf("USER-%03d", seq)
}
