// Package ledger is the verification stub: it produces records shaped
// like blockchain attestations without any chain behind them. The hash
// is real SHA-256, the transaction id and block number are random, and
// nothing here provides an integrity guarantee beyond "looks like a
// hash". Because the digest input embeds the current time, attesting
// the same payload at two different instants yields two different
// hashes.
package ledger

import (
	"crypto/rand"
	"crypto/sha256"
	"encoding/binary"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"strconv"
	"time"

	"github.com/jonboulle/clockwork"
)

type Attestation struct {
	Hash          string    `json:"hash"`
	TransactionID string    `json:"transactionId"`
	BlockNumber   int64     `json:"blockNumber"`
	Verified      bool      `json:"verified"`
	Timestamp     time.Time `json:"timestamp"`
}

type Ledger struct {
	clock clockwork.Clock
}

type Option func(*Ledger)

func WithClock(c clockwork.Clock) Option {
	return func(l *Ledger) { l.clock = c }
}

func New(opts ...Option) *Ledger {
	l := &Ledger{clock: clockwork.NewRealClock()}
	for _, opt := range opts {
		opt(l)
	}
	return l
}

// Attest hashes recordID + JSON(payload) + current unix millis and
// pairs it with fabricated transaction metadata.
func (l *Ledger) Attest(recordID string, payload any) (Attestation, error) {
	body, err := json.Marshal(payload)
	if err != nil {
		return Attestation{}, fmt.Errorf("error encoding payload: %w", err)
	}

	now := l.clock.Now().UTC()
	digest := sha256.Sum256([]byte(recordID + string(body) + strconv.FormatInt(now.UnixMilli(), 10)))

	txID, blockNumber, err := randomChainRef()
	if err != nil {
		return Attestation{}, err
	}

	return Attestation{
		Hash:          hex.EncodeToString(digest[:]),
		TransactionID: txID,
		BlockNumber:   blockNumber,
		Verified:      true,
		Timestamp:     now,
	}, nil
}

func randomChainRef() (string, int64, error) {
	var buf [40]byte
	if _, err := rand.Read(buf[:]); err != nil {
		return "", 0, fmt.Errorf("error generating transaction id: %w", err)
	}
	txID := "0x" + hex.EncodeToString(buf[:32])
	blockNumber := int64(binary.BigEndian.Uint64(buf[32:]) % 10_000_000)
	return txID, blockNumber, nil
}
