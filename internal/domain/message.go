package domain

// Action is one user-selectable button attached to an outgoing message.
// Data comes back verbatim when the button is pressed.
type Action struct {
	Label string
	Data  string
}
