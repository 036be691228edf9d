package player

import (
	"encoding/json"
	"errors"

	"github.com/aurora-stream/aurora/log"
	"github.com/aurora-stream/aurora/media"
)

// Observed properties. The ids are echoed back in property-change events.
var observed = []string{"time-pos", "duration", "pause"}

// dispatch drains the event queue until the connection closes.
func (m *MPV) dispatch() {
	for {
		select {
		case <-m.ipc.events.ready:
			for _, msg := range m.ipc.events.drain() {
				m.handle(msg)
			}
		case <-m.ipc.done:
			for _, msg := range m.ipc.events.drain() {
				m.handle(msg)
			}
			return
		}
	}
}

func (m *MPV) handle(msg ipcMessage) {
	if msg.Event == "file-loaded" {
		if d, err := m.floatProperty("duration"); err == nil {
			m.setDuration(d)
		}
	}

	for _, ev := range m.translate(msg) {
		m.Handlers.Emit(ev)
	}
}

// translate updates the cached element state from an mpv event and returns the
// media events it stands for.
func (m *MPV) translate(msg ipcMessage) []media.Event {
	switch msg.Event {
	case "property-change":
		return m.propertyChanged(msg.Name, msg.Data)

	case "file-loaded":
		return []media.Event{{Type: media.LoadedMetadata, Duration: m.Duration()}}

	case "end-file":
		switch msg.Reason {
		case "eof":
			m.mu.Lock()
			m.paused = true
			m.mu.Unlock()
			return []media.Event{{Type: media.Ended}}
		case "error":
			reason := msg.FileError
			if reason == "" {
				reason = "unknown error"
			}
			return []media.Event{{Type: media.Error, Err: errors.New(reason)}}
		}
		// stop, quit and redirect come from replacing or closing the source.
		return nil
	}
	return nil
}

func (m *MPV) propertyChanged(name string, data json.RawMessage) []media.Event {
	// Unavailable properties are reported as null.
	if len(data) == 0 || string(data) == "null" {
		return nil
	}

	switch name {
	case "time-pos":
		var pos float64
		if err := json.Unmarshal(data, &pos); err != nil {
			return nil
		}
		m.mu.Lock()
		m.current = pos
		m.mu.Unlock()
		return []media.Event{{Type: media.TimeUpdate, Time: pos}}

	case "duration":
		var d float64
		if err := json.Unmarshal(data, &d); err == nil {
			m.setDuration(d)
		}
		return nil

	case "pause":
		var paused bool
		if err := json.Unmarshal(data, &paused); err != nil {
			return nil
		}
		m.mu.Lock()
		changed := m.paused != paused
		m.paused = paused
		m.mu.Unlock()

		if !changed {
			return nil
		}
		if paused {
			return []media.Event{{Type: media.Pause}}
		}
		return []media.Event{{Type: media.Play}}
	}

	log.WithField("property", name).Debug("unhandled mpv property")
	return nil
}

func (m *MPV) setDuration(d float64) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.duration = d
}
