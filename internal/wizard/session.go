package wizard

import (
	"crypto/rand"
	"fmt"
	"math/big"
	"sync"
	"time"

	"cluborder/internal/domain"
)

// session is one buyer's in-flight order. All access goes through its
// mutex; handlers are the single logical writer but HTTP requests may race.
type session struct {
	mu      sync.Mutex
	id      string
	step    domain.Step
	draft   domain.Draft
	notify  domain.NotifyStatus
	touched time.Time
}

func newSession(referencePrefix string, now time.Time) (*session, error) {
	suffix, err := randomSuffix(4)
	if err != nil {
		return nil, fmt.Errorf("order id suffix: %w", err)
	}
	return &session{
		step:   domain.StepLogin,
		notify: domain.NotifyIdle,
		draft: domain.Draft{
			Extras:     make(map[string]bool),
			ExtraSizes: make(map[string]string),
			OrderID:    fmt.Sprintf("%s%s-%s", referencePrefix, now.Format("2006-01-02"), suffix),
			CreatedAt:  now,
		},
	}, nil
}

const suffixAlphabet = "0123456789ABCDEFGHIJKLMNOPQRSTUVWXYZ"

func randomSuffix(n int) (string, error) {
	out := make([]byte, n)
	limit := big.NewInt(int64(len(suffixAlphabet)))
	for i := range out {
		idx, err := rand.Int(rand.Reader, limit)
		if err != nil {
			return "", err
		}
		out[i] = suffixAlphabet[idx.Int64()]
	}
	return string(out), nil
}

// randomReference draws the 4-digit payment reference from [1000, 9999].
func randomReference() (string, error) {
	n, err := rand.Int(rand.Reader, big.NewInt(9000))
	if err != nil {
		return "", err
	}
	return fmt.Sprintf("%d", 1000+n.Int64()), nil
}
