/*
Copyright 2018-2026 the hufftree-go authors
Licensed under the Apache License, Version 2.0 (the "License");
you may not use this file except in compliance with the License.
you may obtain a copy of the License at

                http://www.apache.org/licenses/LICENSE-2.0

Unless required by applicable law or agreed to in writing, software
distributed under the License is distributed on an "AS IS" BASIS,
WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
See the License for the specific language governing permissions and
limitations under the License.
*/

package hufftree

import (
	"fmt"
	"time"
)

const (
	EVT_COMPRESSION_START   = 0 // Compression starts
	EVT_DECOMPRESSION_START = 1 // Decompression starts
	EVT_AFTER_FREQUENCIES   = 2 // Frequency scan ends
	EVT_AFTER_HEADER        = 3 // Tree header encoding/decoding ends
	EVT_COMPRESSION_END     = 4 // Compression ends
	EVT_DECOMPRESSION_END   = 5 // Decompression ends
)

// Event a compression/decompression event
type Event struct {
	eventType int
	size      int64
	eventTime time.Time
	msg       string
}

// NewEventFromString creates a new Event instance that wraps a message
func NewEventFromString(evtType int, msg string, evtTime time.Time) *Event {
	if evtTime.IsZero() {
		evtTime = time.Now()
	}

	return &Event{eventType: evtType, size: 0, msg: msg, eventTime: evtTime}
}

// NewEvent creates a new Event instance with size info
func NewEvent(evtType int, size int64, evtTime time.Time) *Event {
	if evtTime.IsZero() {
		evtTime = time.Now()
	}

	return &Event{eventType: evtType, size: size, eventTime: evtTime}
}

// Type returns the type info
func (this *Event) Type() int {
	return this.eventType
}

// Time returns the time info
func (this *Event) Time() time.Time {
	return this.eventTime
}

// Size returns the size info
func (this *Event) Size() int64 {
	return this.size
}

// String returns a string representation of this event.
// If the event wraps a message, the message is returned.
// Otherwise a string is built from the fields.
func (this *Event) String() string {
	if len(this.msg) > 0 {
		return this.msg
	}

	t := ""

	switch this.eventType {
	case EVT_COMPRESSION_START:
		t = "COMPRESSION_START"

	case EVT_DECOMPRESSION_START:
		t = "DECOMPRESSION_START"

	case EVT_AFTER_FREQUENCIES:
		t = "AFTER_FREQUENCIES"

	case EVT_AFTER_HEADER:
		t = "AFTER_HEADER"

	case EVT_COMPRESSION_END:
		t = "COMPRESSION_END"

	case EVT_DECOMPRESSION_END:
		t = "DECOMPRESSION_END"
	}

	return fmt.Sprintf("{ \"type\":\"%s\", \"size\":%d, \"time\":%d }", t, this.size,
		this.eventTime.UnixNano()/1000000)
}

// Listener is an interface implemented by event processors
type Listener interface {
	// ProcessEvent is the method called whenever a Listener receives an event.
	ProcessEvent(evt *Event)
}
