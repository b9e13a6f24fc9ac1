package core

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestNewIDUniqueness(t *testing.T) {
	const numIDs = 10000

	ids := make(map[ID]bool, numIDs)
	for i := 0; i < numIDs; i++ {
		id := NewID()
		assert.False(t, id.IsEmpty())
		assert.False(t, ids[id], "duplicate ID %s", id)
		ids[id] = true
	}
	assert.Len(t, ids, numIDs)
}

func TestNewIDIsTimeOrdered(t *testing.T) {
	prev := NewID()
	for i := 0; i < 100; i++ {
		next := NewID()
		assert.Less(t, prev.String(), next.String())
		prev = next
	}
}

func TestParseID(t *testing.T) {
	id := NewReportID()
	parsed, ok := ParseID("  " + id.String() + " ")
	assert.True(t, ok)
	assert.Equal(t, ID(id), parsed)

	_, ok = ParseID("not-a-uuid")
	assert.False(t, ok)

	assert.True(t, ID("").IsEmpty())
	assert.Equal(t, "abc", ReportID("abc").String())
}
