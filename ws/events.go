package ws

// Event is the inbound wire shape. Every event carries a type discriminator;
// the remaining fields are populated per type. Message and typing payloads
// are relayed verbatim from the raw frame, so the body stays opaque to the
// hub (encryption is the caller's concern).
type Event struct {
	Type      string `json:"type"`
	SessionID string `json:"sessionId,omitempty"`

	// message / typing
	From      string `json:"from,omitempty"`
	To        string `json:"to,omitempty"`
	RoomKey   string `json:"roomKey,omitempty"`
	Body      string `json:"body,omitempty"`
	Timestamp int64  `json:"timestamp,omitempty"`
	IsTyping  bool   `json:"isTyping,omitempty"`

	// joinRoom / leaveRoom
	UserID     string `json:"userId,omitempty"`
	IsCreating bool   `json:"isCreating,omitempty"`

	// friend operations
	TargetUserID      string `json:"targetUserId,omitempty"`
	RequesterID       string `json:"requesterId,omitempty"`
	RejectRequesterID string `json:"rejectRequesterId,omitempty"`
}

const (
	evtRegister            = "register"
	evtMessage             = "message"
	evtTyping              = "typing"
	evtJoinRoom            = "joinRoom"
	evtLeaveRoom           = "leaveRoom"
	evtSendFriendRequest   = "sendFriendRequest"
	evtAcceptFriendRequest = "acceptFriendRequest"
	evtRejectFriendRequest = "rejectFriendRequest"
	evtGetFriendsList      = "getFriendsList"
	evtGetPendingRequests  = "getPendingRequests"
)

type authSuccess struct {
	Type     string `json:"type"`
	UserID   string `json:"userId"`
	Username string `json:"username"`
}

type authError struct {
	Type  string `json:"type"`
	Error string `json:"error"`
}

type messageError struct {
	Type       string `json:"type"`
	Error      string `json:"error"`
	TargetUser string `json:"targetUser"`
}

type roomJoined struct {
	Type      string `json:"type"`
	RoomKey   string `json:"roomKey"`
	Success   bool   `json:"success"`
	IsCreated bool   `json:"isCreated"`
	Error     string `json:"error,omitempty"`
}

type roomLeft struct {
	Type    string `json:"type"`
	RoomKey string `json:"roomKey"`
}

type roomSummary struct {
	Key         string `json:"key"`
	MemberCount int    `json:"memberCount"`
}

type roomList struct {
	Type  string        `json:"type"`
	Rooms []roomSummary `json:"rooms"`
}

type friendsList struct {
	Type    string   `json:"type"`
	Friends []string `json:"friends"`
}

type pendingRequests struct {
	Type         string   `json:"type"`
	Incoming     []string `json:"incoming"`
	Sent         []string `json:"sent"`
	RequestCount int      `json:"requestCount"`
}

type newFriendRequest struct {
	Type         string `json:"type"`
	From         string `json:"from"`
	RequestCount int    `json:"requestCount"`
}

type friendRequestAccepted struct {
	Type         string `json:"type"`
	FriendID     string `json:"friendId"`
	RequestCount int    `json:"requestCount,omitempty"`
}

type friendRequestRejected struct {
	Type         string `json:"type"`
	RequesterID  string `json:"requesterId,omitempty"`
	RejectedBy   string `json:"rejectedBy,omitempty"`
	RequestCount int    `json:"requestCount,omitempty"`
}

type friendRequestResult struct {
	Type    string `json:"type"`
	Success bool   `json:"success"`
	Message string `json:"message,omitempty"`
	Error   string `json:"error,omitempty"`
}
