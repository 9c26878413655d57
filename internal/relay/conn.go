package relay

// Conn is the relay's view of one client connection. The transport owns the
// connection lifecycle; the relay only pushes named events at it. Send is
// best-effort and must not block.
type Conn interface {
	ID() string
	Send(event string, data any) bool
}
