//go:generate go run golang.org/x/tools/cmd/stringer -type=EventType -output=event_string.go
package scheduler

type EventType uint8

const (
	// PPUHBlank fires when the visible portion of a scanline
	// ends and the HBlank period begins.
	PPUHBlank EventType = iota
	// PPUEndLine fires at the end of the HBlank period and
	// advances VCOUNT to the next scanline.
	PPUEndLine
)

const eventTypes = 2

type Event struct {
	cycle     uint64
	eventType EventType
	next      *Event
	handler   func()
}
