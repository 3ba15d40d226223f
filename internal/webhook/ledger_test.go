package webhook

import (
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBoltLedger_FirstAndRepeat(t *testing.T) {
	path := filepath.Join(t.TempDir(), "events.db")

	ledger, err := NewBoltLedger(path)
	require.NoError(t, err)
	defer ledger.Close()

	first, err := ledger.MarkProcessed("evt_1")
	require.NoError(t, err)
	assert.True(t, first)

	again, err := ledger.MarkProcessed("evt_1")
	require.NoError(t, err)
	assert.False(t, again)

	other, err := ledger.MarkProcessed("evt_2")
	require.NoError(t, err)
	assert.True(t, other)
}

func TestBoltLedger_SurvivesReopen(t *testing.T) {
	path := filepath.Join(t.TempDir(), "events.db")

	ledger, err := NewBoltLedger(path)
	require.NoError(t, err)
	_, err = ledger.MarkProcessed("evt_1")
	require.NoError(t, err)
	require.NoError(t, ledger.Close())

	reopened, err := NewBoltLedger(path)
	require.NoError(t, err)
	defer reopened.Close()

	first, err := reopened.MarkProcessed("evt_1")
	require.NoError(t, err)
	assert.False(t, first, "de-duplication must survive restarts")
}

func TestMemoryLedger(t *testing.T) {
	ledger := NewMemoryLedger()
	defer ledger.Close()

	first, err := ledger.MarkProcessed("evt_1")
	require.NoError(t, err)
	assert.True(t, first)

	again, err := ledger.MarkProcessed("evt_1")
	require.NoError(t, err)
	assert.False(t, again)
}
