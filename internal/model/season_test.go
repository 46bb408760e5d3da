package model

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestClamp(t *testing.T) {
	assert.Equal(t, 0, Clamp(-3))
	assert.Equal(t, 42, Clamp(42))
	assert.Equal(t, 100, Clamp(140))
}

func TestCloneIsIndependent(t *testing.T) {
	a := RatingSet{1: 10}
	b := a.Clone()
	b[1] = 20
	b[2] = 30
	assert.Equal(t, RatingSet{1: 10}, a)
}
