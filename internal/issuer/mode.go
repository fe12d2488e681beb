package issuer

// Mode selects which class of key signs a token.
type Mode int

const (
	ModeNormal Mode = iota
	ModeForceExpired
)

func (m Mode) String() string {
	switch m {
	case ModeNormal:
		return "normal"
	case ModeForceExpired:
		return "expired"
	default:
		return "unknown"
	}
}
