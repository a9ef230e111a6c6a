package snowflake

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func TestGenerateIsIncreasing(t *testing.T) {
	Init(7)
	prev, prevAt := Generate()
	for i := 0; i < 1000; i++ {
		id, at := Generate()
		require.Greater(t, id, prev)
		require.False(t, at.Before(prevAt))
		prev, prevAt = id, at
	}
}

func TestInitFallsBackOnBadMachineID(t *testing.T) {
	Init(5000)
	id, at := Generate()
	require.NotZero(t, id)
	require.False(t, at.IsZero())
}

func TestGenerateTimeFollowsID(t *testing.T) {
	Init(3)
	before := time.Now().Add(-time.Millisecond)
	id1, t1 := Generate()
	id2, t2 := Generate()
	require.Greater(t, id2, id1)
	require.False(t, t2.Before(t1))
	require.True(t, t1.After(before))
}
