package recording

type Status int

const (
	StatusIdle = Status(iota)
	StatusRecording
	StatusStopping
)

func (s Status) String() string {
	switch s {
	case StatusIdle:
		return "idle"
	case StatusRecording:
		return "recording"
	case StatusStopping:
		return "stopping"
	default:
		return "unknown"
	}
}
