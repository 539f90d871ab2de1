package repository

import (
	"errors"
	"regexp"
	"sync"
)

var ErrInvalidRoomKey = errors.New("invalid room key format")

var roomKeyPattern = regexp.MustCompile(`^[0-9]{6}$`)

// RoomRepository tracks ephemeral room membership. Rooms come into existence
// on the first join of a key and are deleted the instant the last member
// leaves; both directions of the membership relation live under one mutex so
// they are never observed half-updated.
type RoomRepository interface {
	// Join adds the identity to the room, creating it if needed. The returned
	// flag reports whether the room existed before this call, independent of
	// any create intent the caller declared.
	Join(identity, roomKey string) (created bool, err error)
	// Leave removes the identity from the room; true if the room was deleted
	// as a result. Leaving a room you are not in is a no-op.
	Leave(identity, roomKey string) (deleted bool)
	// LeaveAll removes the identity from every room it belongs to and
	// returns the keys of rooms that still have members afterwards.
	LeaveAll(identity string) (affected []string)
	Members(roomKey string) []string
	MemberCount(roomKey string) int
	IsMember(identity, roomKey string) bool
	RoomsOf(identity string) []string
	Exists(roomKey string) bool
}

type InMemoryRoomRepo struct {
	mu      sync.RWMutex
	members map[string]map[string]struct{} // roomKey -> identities
	rooms   map[string]map[string]struct{} // identity -> roomKeys
}

func NewInMemoryRoomRepo() *InMemoryRoomRepo {
	return &InMemoryRoomRepo{
		members: make(map[string]map[string]struct{}),
		rooms:   make(map[string]map[string]struct{}),
	}
}

func (r *InMemoryRoomRepo) Join(identity, roomKey string) (bool, error) {
	if !roomKeyPattern.MatchString(roomKey) {
		return false, ErrInvalidRoomKey
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	_, existed := r.members[roomKey]
	if !existed {
		r.members[roomKey] = make(map[string]struct{})
	}
	r.members[roomKey][identity] = struct{}{}

	if _, ok := r.rooms[identity]; !ok {
		r.rooms[identity] = make(map[string]struct{})
	}
	r.rooms[identity][roomKey] = struct{}{}

	return !existed, nil
}

func (r *InMemoryRoomRepo) Leave(identity, roomKey string) bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.leaveLocked(identity, roomKey)
}

func (r *InMemoryRoomRepo) leaveLocked(identity, roomKey string) bool {
	if set, ok := r.rooms[identity]; ok {
		delete(set, roomKey)
		if len(set) == 0 {
			delete(r.rooms, identity)
		}
	}

	members, ok := r.members[roomKey]
	if !ok {
		return false
	}
	delete(members, identity)
	if len(members) == 0 {
		delete(r.members, roomKey)
		return true
	}
	return false
}

func (r *InMemoryRoomRepo) LeaveAll(identity string) []string {
	r.mu.Lock()
	defer r.mu.Unlock()

	keys := make([]string, 0, len(r.rooms[identity]))
	for key := range r.rooms[identity] {
		keys = append(keys, key)
	}

	var affected []string
	for _, key := range keys {
		if deleted := r.leaveLocked(identity, key); !deleted {
			affected = append(affected, key)
		}
	}
	return affected
}

func (r *InMemoryRoomRepo) Members(roomKey string) []string {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return sortedKeys(r.members[roomKey])
}

func (r *InMemoryRoomRepo) MemberCount(roomKey string) int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.members[roomKey])
}

func (r *InMemoryRoomRepo) IsMember(identity, roomKey string) bool {
	r.mu.RLock()
	defer r.mu.RUnlock()
	_, ok := r.members[roomKey][identity]
	return ok
}

func (r *InMemoryRoomRepo) RoomsOf(identity string) []string {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return sortedKeys(r.rooms[identity])
}

func (r *InMemoryRoomRepo) Exists(roomKey string) bool {
	r.mu.RLock()
	defer r.mu.RUnlock()
	_, ok := r.members[roomKey]
	return ok
}
