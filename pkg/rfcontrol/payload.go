package rfcontrol

import "strings"

// Payload is the body of a POST /command request. It is either a raw hex
// code or a symbolic command, never both.
type Payload interface {
	isPayload()
}

type (
	HexPayload struct {
		Hex string `json:"hex"`
	}

	NamedPayload struct {
		Command string `json:"command,omitempty"`
		Key     string `json:"key,omitempty"`
	}
)

func (p HexPayload) isPayload()   {}
func (p NamedPayload) isPayload() {}

// NewPayload picks the payload shape from optional arguments. Empty strings
// are treated as absent. A hex value wins over command and key.
func NewPayload(command, key, hex string) Payload {
	if hex != "" {
		return HexPayload{Hex: hex}
	}
	return NamedPayload{Command: command, Key: key}
}

// NormalizeHex strips the spaces used to group hex codes for readability.
func NormalizeHex(s string) string {
	return strings.ReplaceAll(s, " ", "")
}
