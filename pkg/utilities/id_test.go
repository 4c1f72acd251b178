package utilities

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestNewKSUID_Unique(t *testing.T) {
	assert.NotEqual(t, NewKSUID(), NewKSUID())
	assert.Len(t, NewKSUID(), 27)
}

func TestNewRequestID(t *testing.T) {
	a := NewRequestID()
	b := NewRequestID()
	assert.NotEmpty(t, a)
	assert.NotEqual(t, a, b)
}

func TestNewRequestID_BadNodeEnvFallsBack(t *testing.T) {
	t.Setenv("SNOWFLAKE_NODE", "not-a-number")
	assert.NotEmpty(t, NewRequestID())
}
