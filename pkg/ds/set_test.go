package ds

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestSetOperations(t *testing.T) {
	s := NewOrderedSet[string]()

	s = s.Add("user:u1").Add("author:a1").Add("topic:sports")
	assert.True(t, s.Has("user:u1"))
	assert.True(t, s.Has("author:a1"))
	assert.True(t, s.Has("topic:sports"))
	assert.Equal(t, 3, s.Size())

	// duplicates are ignored
	s.Add("user:u1")
	assert.Equal(t, 3, s.Size())

	s = s.Remove("author:a1")
	assert.False(t, s.Has("author:a1"))
	assert.Equal(t, []string{"user:u1", "topic:sports"}, s.Keys())

	s.RemoveBatch([]string{"user:u1", "missing"})
	assert.Equal(t, []string{"topic:sports"}, s.Keys())
}

func TestReAddKeepsPosition(t *testing.T) {
	s := NewOrderedSet[int]()
	s.Add(3).Add(1).Add(2).Add(3)
	assert.Equal(t, []int{3, 1, 2}, s.Keys())

	s.Remove(3).Add(3)
	assert.Equal(t, []int{1, 2, 3}, s.Keys())
}

func TestKeysIsACopy(t *testing.T) {
	s := NewOrderedSet[string]()
	s.Add("a").Add("b")

	keys := s.Keys()
	s.Remove("a")
	assert.Equal(t, []string{"a", "b"}, keys)
}

func TestClear(t *testing.T) {
	s := NewOrderedSet[int]()
	s.Add(1).Add(2)
	s.Clear()

	assert.Equal(t, 0, s.Size())
	assert.Empty(t, s.Keys())
	assert.False(t, s.Has(1))

	s.Add(5)
	assert.Equal(t, []int{5}, s.Keys())
}
