package starmap

import (
	"testing"

	"github.com/greenm01/ec4x/ids"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func lineMap() *StarMap {
	m := New()
	for i := ids.SystemId(1); i <= 4; i++ {
		m.AddSystem(System{ID: i})
	}
	m.AddLane(1, 2)
	m.AddLane(2, 3)
	m.AddLane(3, 4)
	return m
}

func TestShortestPathAlongChain(t *testing.T) {
	m := lineMap()
	path, ok := m.ShortestPath(1, 4)
	require.True(t, ok)
	assert.Equal(t, []ids.SystemId{1, 2, 3, 4}, path)
}

func TestHopDistance(t *testing.T) {
	m := lineMap()
	d, ok := m.HopDistance(1, 4)
	require.True(t, ok)
	assert.Equal(t, 3, d)

	d0, ok0 := m.HopDistance(2, 2)
	require.True(t, ok0)
	assert.Equal(t, 0, d0)
}

func TestUnreachableSystemIsAbsentNotError(t *testing.T) {
	m := New()
	m.AddSystem(System{ID: 1})
	m.AddSystem(System{ID: 2})
	// no lane between them
	_, ok := m.ShortestPath(1, 2)
	assert.False(t, ok)

	_, ok2 := m.ShortestPath(1, 99)
	assert.False(t, ok2, "unknown system must not panic")
}

func TestLanesAreSymmetric(t *testing.T) {
	m := New()
	m.AddSystem(System{ID: 1})
	m.AddSystem(System{ID: 2})
	m.AddLane(1, 2)
	assert.Contains(t, m.Neighbors(2), ids.SystemId(1))
}
