package repository

import (
	"errors"
	"sort"
	"sync"
)

var (
	ErrSelfRequest      = errors.New("cannot send a friend request to yourself")
	ErrAlreadyFriends   = errors.New("already friends with this user")
	ErrDuplicateRequest = errors.New("friend request already sent")
	ErrNoSuchRequest    = errors.New("no pending friend request from this user")
)

// FriendRepository holds the symmetric friendship edges and the directed
// pending-request edges. Friendships are a distinct edge set so that an
// unfriend operation can be added later without touching presence.
type FriendRepository interface {
	Ensure(identity string)
	SendRequest(requester, target string) error
	AcceptRequest(accepter, requester string) error
	RejectRequest(rejecter, requester string)
	FriendsOf(identity string) []string
	AreFriends(a, b string) bool
	PendingIncoming(identity string) []string
	PendingOutgoing(identity string) []string
	PendingCount(identity string) int
}

type InMemoryFriendRepo struct {
	mu       sync.RWMutex
	friends  map[string]map[string]struct{}
	incoming map[string]map[string]struct{}
	outgoing map[string]map[string]struct{}
}

func NewInMemoryFriendRepo() *InMemoryFriendRepo {
	return &InMemoryFriendRepo{
		friends:  make(map[string]map[string]struct{}),
		incoming: make(map[string]map[string]struct{}),
		outgoing: make(map[string]map[string]struct{}),
	}
}

// Ensure creates empty edge sets for a first-seen identity. Idempotent.
func (r *InMemoryFriendRepo) Ensure(identity string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.ensureLocked(identity)
}

func (r *InMemoryFriendRepo) ensureLocked(identity string) {
	if _, ok := r.friends[identity]; !ok {
		r.friends[identity] = make(map[string]struct{})
	}
	if _, ok := r.incoming[identity]; !ok {
		r.incoming[identity] = make(map[string]struct{})
	}
	if _, ok := r.outgoing[identity]; !ok {
		r.outgoing[identity] = make(map[string]struct{})
	}
}

func (r *InMemoryFriendRepo) SendRequest(requester, target string) error {
	if requester == target {
		return ErrSelfRequest
	}

	r.mu.Lock()
	defer r.mu.Unlock()
	r.ensureLocked(requester)
	r.ensureLocked(target)

	if _, ok := r.friends[requester][target]; ok {
		return ErrAlreadyFriends
	}
	if _, ok := r.outgoing[requester][target]; ok {
		return ErrDuplicateRequest
	}

	r.incoming[target][requester] = struct{}{}
	r.outgoing[requester][target] = struct{}{}
	return nil
}

func (r *InMemoryFriendRepo) AcceptRequest(accepter, requester string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.ensureLocked(accepter)
	r.ensureLocked(requester)

	if _, ok := r.incoming[accepter][requester]; !ok {
		return ErrNoSuchRequest
	}

	delete(r.incoming[accepter], requester)
	delete(r.outgoing[requester], accepter)
	r.friends[accepter][requester] = struct{}{}
	r.friends[requester][accepter] = struct{}{}
	return nil
}

// RejectRequest drops the pending edge in both directions. Rejecting a
// request that no longer exists is a no-op.
func (r *InMemoryFriendRepo) RejectRequest(rejecter, requester string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.ensureLocked(rejecter)
	r.ensureLocked(requester)

	delete(r.incoming[rejecter], requester)
	delete(r.outgoing[requester], rejecter)
}

func (r *InMemoryFriendRepo) FriendsOf(identity string) []string {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return sortedKeys(r.friends[identity])
}

func (r *InMemoryFriendRepo) AreFriends(a, b string) bool {
	r.mu.RLock()
	defer r.mu.RUnlock()
	_, ok := r.friends[a][b]
	return ok
}

func (r *InMemoryFriendRepo) PendingIncoming(identity string) []string {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return sortedKeys(r.incoming[identity])
}

func (r *InMemoryFriendRepo) PendingOutgoing(identity string) []string {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return sortedKeys(r.outgoing[identity])
}

func (r *InMemoryFriendRepo) PendingCount(identity string) int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.incoming[identity])
}

func sortedKeys(set map[string]struct{}) []string {
	out := make([]string, 0, len(set))
	for k := range set {
		out = append(out, k)
	}
	sort.Strings(out)
	return out
}
