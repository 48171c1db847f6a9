package repository

// Mode is the data-source state of the topic repository.
//
// The lifecycle is strictly one-way: a repository starts in ModeProbing,
// moves to ModeRemote or ModeLocal after the first probe, and may only ever
// move from ModeRemote to ModeLocal. There is no recovery path back to
// remote within a process lifetime; a restart probes again.
type Mode int32

const (
	// ModeProbing means the remote service has not been probed yet.
	ModeProbing Mode = iota

	// ModeRemote means the remote service answered the probe and every
	// operation goes to it first.
	ModeRemote

	// ModeLocal means the repository works off the local cache only, either
	// because the probe failed or because a remote operation failed later.
	ModeLocal
)

func (m Mode) String() string {
	switch m {
	case ModeProbing:
		return "probing"
	case ModeRemote:
		return "remote"
	case ModeLocal:
		return "local"
	default:
		return "unknown"
	}
}
