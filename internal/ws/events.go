package ws

import "encoding/json"

// Envelope is the JSON frame exchanged with clients: a named event plus its
// payload. Payloads are decoded into their typed structures per event name at
// ingress; unknown events are ignored.
type Envelope struct {
	Event string          `json:"event"`
	Data  json.RawMessage `json:"data"`
}

func encodeEvent(event string, data any) ([]byte, error) {
	raw, err := json.Marshal(data)
	if err != nil {
		return nil, err
	}
	return json.Marshal(Envelope{Event: event, Data: raw})
}
