package model

// Markers used by the report and the TUI.
// Single-width characters keep terminal columns aligned.
const (
	IconHead     = "¹" // first fragment of the chain
	IconTail     = "¶" // last fragment of the chain
	IconLink     = "→" // overlap with the next fragment holds
	IconBroken   = "✗" // overlap with the next fragment fails
	IconExcluded = "◆" // fragment left out of the chain
	IconOK       = " "
)
