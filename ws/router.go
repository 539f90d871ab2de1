package ws

import (
	"errors"
	"log"

	"chathub-backend/repository"
)

// dispatch routes one inbound event. It runs only on the hub goroutine;
// authorization and validation checks always precede any mutation, so a
// rejected event leaves no partial state behind.
func (h *Hub) dispatch(env envelope) {
	c := env.client

	if c.identity == "" && env.event.Type != evtRegister {
		c.push(authError{Type: "authError", Error: "Not authenticated"})
		c.closeSend()
		return
	}

	switch env.event.Type {
	case evtRegister:
		h.handleRegister(c, env.event)
	case evtMessage:
		h.handleMessage(c, env)
	case evtTyping:
		h.handleTyping(c, env)
	case evtJoinRoom:
		h.handleJoinRoom(c, env.event)
	case evtLeaveRoom:
		h.handleLeaveRoom(c, env.event)
	case evtSendFriendRequest:
		h.handleSendFriendRequest(c, env.event)
	case evtAcceptFriendRequest:
		h.handleAcceptFriendRequest(c, env.event)
	case evtRejectFriendRequest:
		h.handleRejectFriendRequest(c, env.event)
	case evtGetFriendsList:
		h.sendFriendsList(c.identity)
	case evtGetPendingRequests:
		h.sendPendingRequests(c.identity)
	default:
		log.Printf("Client %s sent unknown event type %q", c.connID, env.event.Type)
	}
}

func (h *Hub) handleRegister(c *Client, evt Event) {
	if evt.SessionID == "" {
		c.push(authError{Type: "authError", Error: "Session ID required"})
		c.closeSend()
		return
	}

	identity, username, err := h.auth.ValidateSession(evt.SessionID)
	if err != nil {
		c.push(authError{Type: "authError", Error: "Invalid or expired session"})
		c.closeSend()
		return
	}

	c.identity = identity
	c.username = username
	h.bind(c)
	h.friends.Ensure(identity)

	c.push(authSuccess{Type: "authSuccess", UserID: identity, Username: username})

	h.sendFriendsList(identity)
	h.sendPendingRequests(identity)
	h.sendRoomList(identity)

	// Friends see this identity come online.
	for _, friend := range h.friends.FriendsOf(identity) {
		h.sendFriendsList(friend)
	}
}

// handleMessage applies the three-way routing policy: room fan-out, direct
// friend delivery, or broadcast to online friends. The raw frame is relayed
// untouched.
func (h *Hub) handleMessage(c *Client, env envelope) {
	switch {
	case env.event.RoomKey != "":
		// Non-members do not get to speak into a room; dropped silently.
		if !h.rooms.IsMember(c.identity, env.event.RoomKey) {
			return
		}
		h.relayToRoom(c.identity, env.event.RoomKey, env.raw)

	case env.event.To != "":
		if !h.friends.AreFriends(c.identity, env.event.To) {
			c.push(messageError{
				Type:       "messageError",
				Error:      "You can only send messages to friends",
				TargetUser: env.event.To,
			})
			return
		}
		// Offline target: silent drop, no store-and-forward.
		if target := h.online(env.event.To); target != nil {
			target.pushRaw(env.raw)
		}

	default:
		h.relayToFriends(c.identity, env.raw)
	}
}

// handleTyping mirrors message routing but a typing signal to a non-friend
// is ignored without an error; there is nothing to report for a transient
// marker.
func (h *Hub) handleTyping(c *Client, env envelope) {
	switch {
	case env.event.RoomKey != "":
		if !h.rooms.IsMember(c.identity, env.event.RoomKey) {
			return
		}
		h.relayToRoom(c.identity, env.event.RoomKey, env.raw)

	case env.event.To != "":
		if !h.friends.AreFriends(c.identity, env.event.To) {
			return
		}
		if target := h.online(env.event.To); target != nil {
			target.pushRaw(env.raw)
		}

	default:
		h.relayToFriends(c.identity, env.raw)
	}
}

func (h *Hub) relayToRoom(sender, roomKey string, raw []byte) {
	for _, member := range h.rooms.Members(roomKey) {
		if member == sender {
			continue
		}
		if cl := h.online(member); cl != nil {
			cl.pushRaw(raw)
		}
	}
}

func (h *Hub) relayToFriends(sender string, raw []byte) {
	for _, friend := range h.friends.FriendsOf(sender) {
		if cl := h.online(friend); cl != nil {
			cl.pushRaw(raw)
		}
	}
}

func (h *Hub) handleJoinRoom(c *Client, evt Event) {
	// Whether the room existed at call time decides isCreated; the client's
	// isCreating flag only shapes its own UI and is not consulted here.
	created, err := h.rooms.Join(c.identity, evt.RoomKey)
	if err != nil {
		log.Printf("User %s failed to join room %q: %v", c.identity, evt.RoomKey, err)
		c.push(roomJoined{Type: "roomJoined", RoomKey: evt.RoomKey, Success: false, Error: "Invalid room key format"})
		return
	}

	log.Printf("User %s joined room %s (created=%v)", c.identity, evt.RoomKey, created)
	c.push(roomJoined{Type: "roomJoined", RoomKey: evt.RoomKey, Success: true, IsCreated: created})
	h.notifyRoomMembers(evt.RoomKey)
}

func (h *Hub) handleLeaveRoom(c *Client, evt Event) {
	h.rooms.Leave(c.identity, evt.RoomKey)
	log.Printf("User %s left room %s", c.identity, evt.RoomKey)

	c.push(roomLeft{Type: "roomLeft", RoomKey: evt.RoomKey})
	h.sendRoomList(c.identity)
	h.notifyRoomMembers(evt.RoomKey)
}

func (h *Hub) handleSendFriendRequest(c *Client, evt Event) {
	target := evt.TargetUserID

	if err := h.friends.SendRequest(c.identity, target); err != nil {
		c.push(friendRequestResult{Type: "friendRequestResult", Success: false, Error: requestErrorText(err)})
		return
	}

	c.push(friendRequestResult{Type: "friendRequestResult", Success: true, Message: "Friend request sent successfully"})

	if cl := h.online(target); cl != nil {
		cl.push(newFriendRequest{
			Type:         "newFriendRequest",
			From:         c.identity,
			RequestCount: h.friends.PendingCount(target),
		})
	}
	log.Printf("Friend request sent from %s to %s", c.identity, target)
}

func (h *Hub) handleAcceptFriendRequest(c *Client, evt Event) {
	requester := evt.RequesterID

	if err := h.friends.AcceptRequest(c.identity, requester); err != nil {
		c.push(friendRequestResult{Type: "friendRequestResult", Success: false, Error: requestErrorText(err)})
		return
	}

	c.push(friendRequestAccepted{
		Type:         "friendRequestAccepted",
		FriendID:     requester,
		RequestCount: h.friends.PendingCount(c.identity),
	})
	h.sendFriendsList(c.identity)
	h.sendPendingRequests(c.identity)

	if cl := h.online(requester); cl != nil {
		cl.push(friendRequestAccepted{Type: "friendRequestAccepted", FriendID: c.identity})
		h.sendFriendsList(requester)
		h.sendPendingRequests(requester)
	}
	log.Printf("Friend request accepted: %s and %s are now friends", requester, c.identity)
}

func (h *Hub) handleRejectFriendRequest(c *Client, evt Event) {
	requester := evt.RejectRequesterID

	h.friends.RejectRequest(c.identity, requester)

	c.push(friendRequestRejected{
		Type:         "friendRequestRejected",
		RequesterID:  requester,
		RequestCount: h.friends.PendingCount(c.identity),
	})
	h.sendPendingRequests(c.identity)

	if cl := h.online(requester); cl != nil {
		cl.push(friendRequestRejected{Type: "friendRequestRejected", RejectedBy: c.identity})
		h.sendPendingRequests(requester)
	}
	log.Printf("Friend request rejected: %s -> %s", requester, c.identity)
}

func requestErrorText(err error) string {
	switch {
	case errors.Is(err, repository.ErrSelfRequest):
		return "You cannot send a friend request to yourself"
	case errors.Is(err, repository.ErrAlreadyFriends):
		return "Already friends with this user"
	case errors.Is(err, repository.ErrDuplicateRequest):
		return "Friend request already sent"
	case errors.Is(err, repository.ErrNoSuchRequest):
		return "No pending friend request from this user"
	default:
		return err.Error()
	}
}
