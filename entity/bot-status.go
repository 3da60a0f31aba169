package entity

// BotStatus is the process-wide on/off switch, persisted across restarts.
type BotStatus string

const (
	BotActive  BotStatus = "active"
	BotStopped BotStatus = "stopped"
)

// Valid reports whether s is one of the two known states.
func (s BotStatus) Valid() bool {
	return s == BotActive || s == BotStopped
}
