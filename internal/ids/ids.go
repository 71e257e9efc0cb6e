package ids

import (
	"crypto/rand"
	"math/big"

	"github.com/google/uuid"
	"github.com/segmentio/ksuid"
)

const referralAlphabet = "ABCDEFGHJKLMNPQRSTUVWXYZ23456789"

// New returns a time-ordered unique id (27 chars, second precision timestamp
// followed by a random payload).
func New() string {
	return ksuid.New().String()
}

func NewLeadID() string {
	return "lead_" + New()
}

func NewOrderID() string {
	return "order_" + New()
}

func NewUUID() string {
	return uuid.NewString()
}

// NewReferralCode returns prefix + "-" + n characters drawn from an alphabet
// without easily confused glyphs.
func NewReferralCode(prefix string, n int) (string, error) {
	buf := make([]byte, n)
	max := big.NewInt(int64(len(referralAlphabet)))
	for i := range buf {
		idx, err := rand.Int(rand.Reader, max)
		if err != nil {
			return "", err
		}
		buf[i] = referralAlphabet[idx.Int64()]
	}
	return prefix + "-" + string(buf), nil
}
