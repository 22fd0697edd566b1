package aivet

import (
	"bytes"
	"encoding/json"
)

// StreamEvent is one decoded item from an SSE chat-completion stream: either a
// content delta or the terminal [DONE] marker.
type StreamEvent struct {
	Content string
	Done    bool
}

// streamDecoder incrementally reassembles `data: {...}` frames from a byte
// stream. Bytes are buffered until a full line is available, so frames and
// multi-byte characters split across read boundaries are handled by carrying
// the residual between feeds.
type streamDecoder struct {
	buf []byte
}

type deltaFrame struct {
	Choices []struct {
		Delta struct {
			Content string `json:"content"`
		} `json:"delta"`
	} `json:"choices"`
}

// feed appends a chunk and returns the events completed by it, in arrival order.
func (d *streamDecoder) feed(p []byte) []StreamEvent {
	d.buf = append(d.buf, p...)

	var events []StreamEvent
	for {
		nl := bytes.IndexByte(d.buf, '\n')
		if nl < 0 {
			break
		}
		line := d.buf[:nl]
		rest := d.buf[nl+1:]
		line = bytes.TrimSuffix(line, []byte("\r"))

		ev, ok, incomplete := decodeLine(line)
		if incomplete && bytes.IndexByte(rest, '\n') < 0 {
			// Possibly a frame split mid-payload; wait for more bytes
			// before giving up on this line.
			break
		}
		d.buf = rest
		if ok {
			events = append(events, ev)
			if ev.Done {
				break
			}
		}
	}
	return events
}

// flush drains whatever remains in the buffer at end of stream. Malformed
// trailing frames are dropped at this point since no more bytes will arrive.
func (d *streamDecoder) flush() []StreamEvent {
	var events []StreamEvent
	for _, raw := range bytes.Split(d.buf, []byte("\n")) {
		line := bytes.TrimSuffix(raw, []byte("\r"))
		if ev, ok, _ := decodeLine(line); ok {
			events = append(events, ev)
		}
	}
	d.buf = nil
	return events
}

func decodeLine(line []byte) (ev StreamEvent, ok bool, incomplete bool) {
	trimmed := bytes.TrimSpace(line)
	if len(trimmed) == 0 || trimmed[0] == ':' {
		return StreamEvent{}, false, false
	}
	if !bytes.HasPrefix(line, []byte("data: ")) {
		return StreamEvent{}, false, false
	}
	payload := bytes.TrimSpace(line[6:])
	if string(payload) == "[DONE]" {
		return StreamEvent{Done: true}, true, false
	}

	var frame deltaFrame
	if err := json.Unmarshal(payload, &frame); err != nil {
		return StreamEvent{}, false, true
	}
	if len(frame.Choices) == 0 || frame.Choices[0].Delta.Content == "" {
		return StreamEvent{}, false, false
	}
	return StreamEvent{Content: frame.Choices[0].Delta.Content}, true, false
}
