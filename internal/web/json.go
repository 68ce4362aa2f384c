package web

import (
	"encoding/json"
	"time"

	"github.com/sweeney/pinwatch/internal/status"
)

// StatusJSON is the JSON representation of the daemon status.
type StatusJSON struct {
	Status StatusInner `json:"status"`
}

// StatusInner contains the status details.
type StatusInner struct {
	Pins          []PinJSON  `json:"pins"`
	UptimeSeconds int64      `json:"uptime_seconds"`
	StartTime     string     `json:"start_time"`
	Timestamp     string     `json:"timestamp"`
	MQTT          MQTTStatus `json:"mqtt"`
	Counts        CountsJSON `json:"event_counts"`
	Config        ConfigJSON `json:"config"`
}

// PinJSON is the JSON representation of one monitored pin.
type PinJSON struct {
	Pin   int    `json:"pin"`
	Name  string `json:"name,omitempty"`
	Level string `json:"level"`
}

// MQTTStatus reports MQTT connection state.
type MQTTStatus struct {
	Connected bool   `json:"connected"`
	Broker    string `json:"broker"`
}

// CountsJSON is the JSON representation of event counts.
type CountsJSON struct {
	Change      int `json:"change"`
	Rising      int `json:"rising"`
	Falling     int `json:"falling"`
	SinglePress int `json:"single_press"`
	DoublePress int `json:"double_press"`
	LongPress   int `json:"long_press"`
}

// ConfigJSON is the JSON representation of daemon config.
type ConfigJSON struct {
	PollMs   int64  `json:"poll_ms"`
	Broker   string `json:"broker"`
	HTTPAddr string `json:"http_addr"`
	Backend  string `json:"backend"`
}

// FormatJSON renders a status snapshot for the /index.json endpoint.
func FormatJSON(snap status.Snapshot) []byte {
	pins := make([]PinJSON, 0, len(snap.Pins))
	for _, p := range snap.Pins {
		pins = append(pins, PinJSON{Pin: p.Pin, Name: p.Name, Level: p.Level.String()})
	}

	sj := StatusJSON{
		Status: StatusInner{
			Pins:          pins,
			UptimeSeconds: int64(snap.Uptime().Truncate(time.Second).Seconds()),
			StartTime:     snap.StartTime.UTC().Format(time.RFC3339),
			Timestamp:     snap.Now.UTC().Format(time.RFC3339),
			MQTT:          MQTTStatus{Connected: snap.MQTTConnected, Broker: snap.Config.Broker},
			Counts: CountsJSON{
				Change:      snap.Counts.Change,
				Rising:      snap.Counts.Rising,
				Falling:     snap.Counts.Falling,
				SinglePress: snap.Counts.SinglePress,
				DoublePress: snap.Counts.DoublePress,
				LongPress:   snap.Counts.LongPress,
			},
			Config: ConfigJSON{
				PollMs:   snap.Config.Poll.Milliseconds(),
				Broker:   snap.Config.Broker,
				HTTPAddr: snap.Config.HTTPAddr,
				Backend:  snap.Config.Backend,
			},
		},
	}

	data, _ := json.MarshalIndent(sj, "", "  ")
	return data
}
