package process

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestNewIOPriorityPacksClassAndLevel(t *testing.T) {
	p := NewIOPriority(IOPriorityClassBestEffort, 4)
	assert.Equal(t, IOPriorityClassBestEffort, p.Class())
	assert.Equal(t, 4, p.Level())
	assert.Equal(t, "B4", p.String())
}

func TestIOPriorityRealtimeString(t *testing.T) {
	p := NewIOPriority(IOPriorityClassRealtime, 7)
	assert.Equal(t, "R7", p.String())
	assert.True(t, p.IsRealtime())
}

func TestIOPriorityIdleString(t *testing.T) {
	p := NewIOPriority(IOPriorityClassIdle, 0)
	assert.Equal(t, "id", p.String())
	assert.False(t, p.IsRealtime())
}

func TestIOPriorityNoneString(t *testing.T) {
	assert.Equal(t, "none", IOPriorityNone.String())
	assert.False(t, IOPriorityNone.IsRealtime())
}
