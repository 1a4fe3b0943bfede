package body

import (
	"fmt"
	"strings"
)

type Kind int

const (
	// Dynamic bodies are integrated, damped and resolved normally.
	Dynamic Kind = iota
	// Static bodies have infinite mass and never move.
	Static
	// Sensor bodies take part in grab queries but never in collisions.
	Sensor
	// PlayerControlled bodies skip global damping; an intent controller drives them.
	PlayerControlled
)

var kindNames = map[Kind]string{
	Dynamic:          "dynamic",
	Static:           "static",
	Sensor:           "sensor",
	PlayerControlled: "player",
}

func (k Kind) String() string {
	if s, ok := kindNames[k]; ok {
		return s
	}
	return fmt.Sprintf("kind(%d)", int(k))
}

func ParseKind(s string) (Kind, error) {
	name := strings.ToLower(strings.TrimSpace(s))
	if name == "" {
		return Dynamic, nil
	}
	for k, n := range kindNames {
		if n == name {
			return k, nil
		}
	}
	return Dynamic, fmt.Errorf("body: unknown kind %q", s)
}

// Handle is a stable index of a body inside a world.
type Handle int

// NoHandle marks the absence of a body.
const NoHandle Handle = -1

func (h Handle) Valid() bool { return h >= 0 }
