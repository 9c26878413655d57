package relay

// Message is a stored room message, in the shape the client renders and the
// history replay returns.
type Message struct {
	User     string `json:"user"`
	Message  string `json:"message"`
	IsImage  bool   `json:"isImage"`
	FileType string `json:"fileType"`
	FileUrl  string `json:"fileUrl"`
}

// PrivateMessage is the payload delivered for direct messages and private
// chat system notices.
type PrivateMessage struct {
	Message  string `json:"message"`
	Sender   string `json:"sender"`
	IsImage  bool   `json:"isImage"`
	FileType string `json:"fileType"`
	FileUrl  string `json:"fileUrl"`
}

// TypingNotice is relayed to a room or a private peer while a user types.
type TypingNotice struct {
	Username string `json:"username"`
	IsTyping bool   `json:"isTyping"`
}

// ChatPayload is the inbound chatMessage event body. Media fields default to
// their zero values when the client omits them.
type ChatPayload struct {
	Message  string `json:"message"`
	IsImage  bool   `json:"isImage"`
	FileType string `json:"fileType"`
	FileUrl  string `json:"fileUrl"`
}

// PrivatePayload is the inbound privateMessage event body.
type PrivatePayload struct {
	Message   string `json:"message"`
	Recipient string `json:"recipient"`
	IsImage   bool   `json:"isImage"`
	FileType  string `json:"fileType"`
	FileUrl   string `json:"fileUrl"`
}
