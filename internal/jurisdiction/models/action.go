package models

import "encoding/json"

// Action is an immutable descriptor of a category of behaviour that rules
// regulate (for example "harassment"). Identity is GUID.
type Action struct {
	GUID     string          `json:"guid"`
	Metadata json.RawMessage `json:"metadata,omitempty"`
}
