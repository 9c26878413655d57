package relay

// Event names on the wire, client to server.
const (
	EventLogin          = "login"
	EventTyping         = "typing"
	EventPrivateChat    = "privateChat"
	EventJoinRoom       = "joinRoom"
	EventChatMessage    = "chatMessage"
	EventPrivateMessage = "privateMessage"
)

// Event names on the wire, server to client.
const (
	EventLoginError       = "loginError"
	EventUserJoined       = "userJoined"
	EventUserLeft         = "userLeft"
	EventUserCount        = "userCount"
	EventPrivateChatError = "privateChatError"
	EventMessageHistory   = "messageHistory"
)
