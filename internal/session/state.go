package session

// State is the client-side view of the session. It is never verified with
// the server: a stale token still reads as Authenticated until a request
// comes back 401 and clears it.
type State int

const (
	Unauthenticated State = iota
	Authenticated
)

func (s State) String() string {
	switch s {
	case Authenticated:
		return "authenticated"
	default:
		return "unauthenticated"
	}
}

// StateOf derives the session state from token presence.
func StateOf(store TokenStore) State {
	if store == nil {
		return Unauthenticated
	}
	if _, ok := store.Get(); ok {
		return Authenticated
	}
	return Unauthenticated
}
