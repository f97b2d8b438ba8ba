package kv

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSealOpenTTL(t *testing.T) {
	now := time.Unix(1_700_000_000, 0)

	raw, err := sealTTL([]byte("v"), 0, now)
	require.NoError(t, err)
	assert.Equal(t, []byte("v"), raw)

	sealed, err := sealTTL([]byte("session"), time.Minute, now)
	require.NoError(t, err)

	v, live, err := openTTL(sealed, now.Add(59*time.Second))
	require.NoError(t, err)
	assert.True(t, live)
	assert.Equal(t, []byte("session"), v)

	_, live, err = openTTL(sealed, now.Add(time.Minute))
	require.NoError(t, err)
	assert.False(t, live)

	_, _, err = openTTL(append(append([]byte{}, ttlPrefix...), '{'), now)
	assert.Error(t, err)
}
