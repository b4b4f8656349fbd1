package amqp

import (
	"encoding/json"
	"time"

	"desmatamento/internal/core"
)

// DatasetLoadedMessage announces that a dashboard process loaded its dataset.
// Fallback loads carry the reason so operators notice broken inputs.
type DatasetLoadedMessage struct {
	Source            string    `json:"source"`
	Fallback          bool      `json:"fallback"`
	FallbackReason    string    `json:"fallback_reason,omitempty"`
	DeforestationRows int       `json:"deforestation_rows"`
	EconomicRows      int       `json:"economic_rows"`
	FirstYear         int       `json:"first_year,omitempty"`
	LastYear          int       `json:"last_year,omitempty"`
	LoadedAt          time.Time `json:"loaded_at"`
	Timestamp         time.Time `json:"timestamp"`
}

func NewDatasetLoadedMessage(ds core.Dataset) *DatasetLoadedMessage {
	first, last := yearSpan(ds)
	return &DatasetLoadedMessage{
		Source:            ds.Source,
		Fallback:          ds.Fallback,
		FallbackReason:    ds.FallbackReason,
		DeforestationRows: len(ds.Deforestation),
		EconomicRows:      len(ds.Economic),
		FirstYear:         first,
		LastYear:          last,
		LoadedAt:          ds.LoadedAt,
		Timestamp:         time.Now(),
	}
}

func (m *DatasetLoadedMessage) ToJSON() ([]byte, error) {
	return json.Marshal(m)
}

func DatasetLoadedMessageFromJSON(data []byte) (*DatasetLoadedMessage, error) {
	var msg DatasetLoadedMessage
	if err := json.Unmarshal(data, &msg); err != nil {
		return nil, err
	}
	return &msg, nil
}

func yearSpan(ds core.Dataset) (int, int) {
	first, last := 0, 0
	see := func(y int) {
		if first == 0 || y < first {
			first = y
		}
		if y > last {
			last = y
		}
	}
	for _, r := range ds.Deforestation {
		see(r.Year)
	}
	for _, r := range ds.Economic {
		see(r.Year)
	}
	return first, last
}
