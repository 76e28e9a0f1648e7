package models

// ConnectionState is the observed lifecycle of the push channel.
type ConnectionState int

const (
	Disconnected ConnectionState = iota
	Connected
	ConnectionError
)

func (s ConnectionState) String() string {
	switch s {
	case Connected:
		return "connected"
	case ConnectionError:
		return "error"
	default:
		return "disconnected"
	}
}

// MarshalText renders the state by name so it reads well in JSON views.
func (s ConnectionState) MarshalText() ([]byte, error) {
	return []byte(s.String()), nil
}
