package utils

import (
	"fmt"
	"strings"

	"github.com/google/uuid"
)

// visitorNames is the pool of display names cycled through on spawn
var visitorNames = []string{
	"Outa", "Hana", "Kiri", "Sute", "Rin", "Bou", "Chiyo", "Gen",
	"Haku", "Ine", "Jiro", "Kame", "Lin", "Mame", "Nobo", "Sen",
}

// GenerateVisitorID creates a short, human-readable visitor id.
// Format: visitor-{sequence}-{8charHexUUID}
//
// Example: "visitor-7-a3f8e2b1"
func GenerateVisitorID(sequence int) string {
	return fmt.Sprintf("visitor-%d-%s", sequence, shortUUID())
}

// VisitorName returns a display name for the given spawn sequence number
func VisitorName(sequence int) string {
	base := visitorNames[sequence%len(visitorNames)]
	round := sequence / len(visitorNames)
	if round == 0 {
		return base
	}
	return fmt.Sprintf("%s %d", base, round+1)
}

// shortUUID creates an 8-character hex string from a UUID. Compact but unique
// enough within one simulation run.
func shortUUID() string {
	id := uuid.New()
	return strings.ReplaceAll(id.String(), "-", "")[:8]
}
