package ledger

import (
	"testing"
	"time"

	"github.com/jonboulle/clockwork"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var testInstant = time.Date(2026, 8, 20, 12, 0, 0, 0, time.UTC)

func TestAttest_Shape(t *testing.T) {
	l := New(WithClock(clockwork.NewFakeClockAt(testInstant)))

	att, err := l.Attest("report-1", map[string]string{"status": "verified"})
	require.NoError(t, err)

	assert.Len(t, att.Hash, 64, "sha256 hex digest")
	assert.True(t, att.Verified)
	assert.Len(t, att.TransactionID, 66, "0x + 32 random bytes hex")
	assert.Equal(t, "0x", att.TransactionID[:2])
	assert.GreaterOrEqual(t, att.BlockNumber, int64(0))
	assert.Less(t, att.BlockNumber, int64(10_000_000))
	assert.Equal(t, testInstant, att.Timestamp)
}

func TestAttest_SameInstantSameHash(t *testing.T) {
	// The digest input is recordID + JSON(payload) + unix millis, so
	// with a frozen clock the hash is reproducible.
	l := New(WithClock(clockwork.NewFakeClockAt(testInstant)))

	first, err := l.Attest("report-1", map[string]int{"n": 1})
	require.NoError(t, err)
	second, err := l.Attest("report-1", map[string]int{"n": 1})
	require.NoError(t, err)

	assert.Equal(t, first.Hash, second.Hash)
	// Transaction ids are random regardless of the clock.
	assert.NotEqual(t, first.TransactionID, second.TransactionID)
}

func TestAttest_NotIdempotentAcrossTime(t *testing.T) {
	clock := clockwork.NewFakeClockAt(testInstant)
	l := New(WithClock(clock))

	first, err := l.Attest("report-1", map[string]int{"n": 1})
	require.NoError(t, err)

	clock.Advance(time.Millisecond)

	second, err := l.Attest("report-1", map[string]int{"n": 1})
	require.NoError(t, err)

	assert.NotEqual(t, first.Hash, second.Hash,
		"identical inputs at different instants must produce different hashes")
}

func TestAttest_DistinctRecords(t *testing.T) {
	l := New(WithClock(clockwork.NewFakeClockAt(testInstant)))

	a, err := l.Attest("report-1", nil)
	require.NoError(t, err)
	b, err := l.Attest("report-2", nil)
	require.NoError(t, err)

	assert.NotEqual(t, a.Hash, b.Hash)
}

func TestAttest_UnencodablePayload(t *testing.T) {
	l := New()

	_, err := l.Attest("report-1", func() {})
	assert.Error(t, err)
}
