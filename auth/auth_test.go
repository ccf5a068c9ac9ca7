package auth

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestStoreValidate(t *testing.T) {
	store := NewStore()
	store.Add("alice", "secret")
	assert.False(t, store.Empty())
	assert.True(t, store.Validate("alice", "secret"))
	assert.False(t, store.Validate("alice", "wrong"))
	assert.False(t, store.Validate("bob", "secret"))
}

func TestStoreAdd(t *testing.T) {
	store := NewStore()
	assert.True(t, store.Empty())
	store.Add("bob", "hunter2")
	assert.False(t, store.Empty())
	assert.True(t, store.Validate("bob", "hunter2"))
}

func TestNilStore(t *testing.T) {
	var store *Store
	assert.True(t, store.Empty())
	assert.False(t, store.Validate("anyone", "anything"))
}
