// Package sse provides low-level Server-Sent Events frame parsing: reading
// an io.Reader byte stream chunked as "data: <payload>\n\n" and splitting it
// into discrete Events. It has no opinion about what the payload means —
// see pkg/codec for the SSE binding that interprets each Event's data as a
// JSON-RPC response.
package sse

import (
	"bufio"
	"io"
	"strings"
)

// Event is one parsed Server-Sent Event.
type Event struct {
	ID    string
	Event string
	Data  []byte
}

// Reader incrementally parses Events off an underlying byte stream.
type Reader struct {
	r *bufio.Reader
}

// NewReader wraps r for event-at-a-time reading.
func NewReader(r io.Reader) *Reader {
	return &Reader{r: bufio.NewReader(r)}
}

// ReadEvent reads and returns the next complete event, blocking until the
// blank line that terminates it arrives. It returns io.EOF (or the
// underlying read error) once the stream is exhausted.
func (rd *Reader) ReadEvent() (*Event, error) {
	event := &Event{}
	var data strings.Builder
	inEvent := false

	for {
		line, err := rd.r.ReadString('\n')
		if err != nil {
			return nil, err
		}
		line = strings.TrimRight(line, "\n\r")

		if line == "" {
			if inEvent {
				event.Data = []byte(data.String())
				return event, nil
			}
			continue
		}

		inEvent = true

		switch {
		case strings.HasPrefix(line, "id:"):
			event.ID = strings.TrimSpace(line[len("id:"):])
		case strings.HasPrefix(line, "event:"):
			event.Event = strings.TrimSpace(line[len("event:"):])
		case strings.HasPrefix(line, "data:"):
			chunk := strings.TrimPrefix(strings.TrimPrefix(line, "data:"), " ")
			if data.Len() > 0 {
				data.WriteString("\n")
			}
			data.WriteString(chunk)
		case strings.HasPrefix(line, ":"):
			// comment / keep-alive, ignore
		}
	}
}
