package auth

// Identity is the authenticated caller, threaded explicitly through service
// calls instead of being looked up from ambient session state.
type Identity struct {
	UserID uint64
	Device string
}
