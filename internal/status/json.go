package status

import (
	"encoding/json"
	"time"
)

// statusEventJSON is the lifecycle event payload carrying a full status
// snapshot, published to the system MQTT topic.
type statusEventJSON struct {
	System systemInner `json:"system"`
}

type systemInner struct {
	Timestamp     string     `json:"timestamp"`
	Event         string     `json:"event"`
	Reason        string     `json:"reason,omitempty"`
	UptimeSeconds int64      `json:"uptime_seconds"`
	Pins          []pinJSON  `json:"pins"`
	Counts        countsJSON `json:"event_counts"`
	MQTT          mqttJSON   `json:"mqtt"`
	Config        configJSON `json:"config"`
}

type pinJSON struct {
	Pin   int    `json:"pin"`
	Name  string `json:"name,omitempty"`
	Level string `json:"level"`
}

type countsJSON struct {
	Change      int `json:"change"`
	Rising      int `json:"rising"`
	Falling     int `json:"falling"`
	SinglePress int `json:"single_press"`
	DoublePress int `json:"double_press"`
	LongPress   int `json:"long_press"`
}

type mqttJSON struct {
	Connected bool   `json:"connected"`
	Broker    string `json:"broker"`
}

type configJSON struct {
	PollMs   int64  `json:"poll_ms"`
	Broker   string `json:"broker"`
	HTTPAddr string `json:"http_addr"`
	Backend  string `json:"backend"`
}

// FormatStatusEvent renders a lifecycle event (STARTUP, SHUTDOWN) with a
// full status snapshot attached.
func FormatStatusEvent(snap Snapshot, event, reason string) []byte {
	pins := make([]pinJSON, 0, len(snap.Pins))
	for _, p := range snap.Pins {
		pins = append(pins, pinJSON{Pin: p.Pin, Name: p.Name, Level: p.Level.String()})
	}

	payload := statusEventJSON{
		System: systemInner{
			Timestamp:     snap.Now.UTC().Format(time.RFC3339),
			Event:         event,
			Reason:        reason,
			UptimeSeconds: int64(snap.Uptime().Truncate(time.Second).Seconds()),
			Pins:          pins,
			Counts: countsJSON{
				Change:      snap.Counts.Change,
				Rising:      snap.Counts.Rising,
				Falling:     snap.Counts.Falling,
				SinglePress: snap.Counts.SinglePress,
				DoublePress: snap.Counts.DoublePress,
				LongPress:   snap.Counts.LongPress,
			},
			MQTT: mqttJSON{Connected: snap.MQTTConnected, Broker: snap.Config.Broker},
			Config: configJSON{
				PollMs:   snap.Config.Poll.Milliseconds(),
				Broker:   snap.Config.Broker,
				HTTPAddr: snap.Config.HTTPAddr,
				Backend:  snap.Config.Backend,
			},
		},
	}

	data, _ := json.Marshal(payload)
	return data
}
