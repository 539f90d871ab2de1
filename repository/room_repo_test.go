package repository

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestJoin_ValidatesRoomKey(t *testing.T) {
	repo := NewInMemoryRoomRepo()

	for _, key := range []string{"", "12345", "1234567", "12345a", "abcdef", "12 456"} {
		_, err := repo.Join("alice", key)
		require.ErrorIs(t, err, ErrInvalidRoomKey, "key %q", key)
	}

	created, err := repo.Join("alice", "123456")
	require.NoError(t, err)
	require.True(t, created)
}

func TestJoin_CreatedReflectsPriorExistence(t *testing.T) {
	req := require.New(t)
	repo := NewInMemoryRoomRepo()

	created, err := repo.Join("alice", "123456")
	req.NoError(err)
	req.True(created)

	// A second join of an existing key is never a creation, regardless of
	// what the caller intended.
	created, err = repo.Join("bob", "123456")
	req.NoError(err)
	req.False(created)
	req.Equal([]string{"alice", "bob"}, repo.Members("123456"))
}

func TestMembership_IsBidirectional(t *testing.T) {
	req := require.New(t)
	repo := NewInMemoryRoomRepo()

	_, err := repo.Join("alice", "111111")
	req.NoError(err)
	_, err = repo.Join("alice", "222222")
	req.NoError(err)

	req.True(repo.IsMember("alice", "111111"))
	req.Equal([]string{"111111", "222222"}, repo.RoomsOf("alice"))

	repo.Leave("alice", "111111")
	req.False(repo.IsMember("alice", "111111"))
	req.Equal([]string{"222222"}, repo.RoomsOf("alice"))
}

func TestLeave_DeletesEmptyRoomAndIsIdempotent(t *testing.T) {
	req := require.New(t)
	repo := NewInMemoryRoomRepo()

	_, err := repo.Join("alice", "999999")
	req.NoError(err)

	deleted := repo.Leave("alice", "999999")
	req.True(deleted)
	req.False(repo.Exists("999999"))

	// Leaving again never errors and reports nothing deleted.
	deleted = repo.Leave("alice", "999999")
	req.False(deleted)

	// The freed key behaves as brand new.
	created, err := repo.Join("bob", "999999")
	req.NoError(err)
	req.True(created)
}

func TestLeave_KeepsRoomWithRemainingMembers(t *testing.T) {
	req := require.New(t)
	repo := NewInMemoryRoomRepo()

	_, _ = repo.Join("alice", "123456")
	_, _ = repo.Join("bob", "123456")

	deleted := repo.Leave("alice", "123456")
	req.False(deleted)
	req.Equal([]string{"bob"}, repo.Members("123456"))
	req.Equal(1, repo.MemberCount("123456"))
}

func TestLeaveAll_ReportsSurvivingRooms(t *testing.T) {
	req := require.New(t)
	repo := NewInMemoryRoomRepo()

	_, _ = repo.Join("alice", "111111") // alice alone, will vanish
	_, _ = repo.Join("alice", "222222") // shared with bob, survives
	_, _ = repo.Join("bob", "222222")

	affected := repo.LeaveAll("alice")

	req.Equal([]string{"222222"}, affected)
	req.False(repo.Exists("111111"))
	req.True(repo.Exists("222222"))
	req.Empty(repo.RoomsOf("alice"))
}
