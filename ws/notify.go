package ws

import "github.com/samber/lo"

// Snapshot fan-out. Whenever the friend graph or room registry mutates, the
// affected connections get a fresh view rather than a delta; the client
// renders whatever the latest snapshot says.

// sendFriendsList pushes the identity's online friends. Offline friends are
// filtered out here because the list doubles as presence display.
func (h *Hub) sendFriendsList(identity string) {
	c := h.online(identity)
	if c == nil {
		return
	}

	online := lo.Filter(h.friends.FriendsOf(identity), func(friend string, _ int) bool {
		return h.IsOnline(friend)
	})
	c.push(friendsList{Type: "friendsList", Friends: online})
}

func (h *Hub) sendPendingRequests(identity string) {
	c := h.online(identity)
	if c == nil {
		return
	}

	incoming := h.friends.PendingIncoming(identity)
	c.push(pendingRequests{
		Type:         "pendingRequests",
		Incoming:     incoming,
		Sent:         h.friends.PendingOutgoing(identity),
		RequestCount: len(incoming),
	})
}

func (h *Hub) sendRoomList(identity string) {
	c := h.online(identity)
	if c == nil {
		return
	}

	rooms := lo.Map(h.rooms.RoomsOf(identity), func(key string, _ int) roomSummary {
		return roomSummary{Key: key, MemberCount: h.rooms.MemberCount(key)}
	})
	c.push(roomList{Type: "roomList", Rooms: rooms})
}

// notifyRoomMembers refreshes the room list of everyone currently in the
// room, so member counts stay accurate after a join, leave, or disconnect.
func (h *Hub) notifyRoomMembers(roomKey string) {
	for _, member := range h.rooms.Members(roomKey) {
		h.sendRoomList(member)
	}
}
