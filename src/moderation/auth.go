package moderation

// Allowlist is the static set of moderator identities, fixed for the process
// lifetime. An empty allow-list authorizes every caller.
type Allowlist map[string]struct{}

func NewAllowlist(ids []string) Allowlist {
	al := make(Allowlist, len(ids))
	for _, id := range ids {
		if id != "" {
			al[id] = struct{}{}
		}
	}
	return al
}

func (al Allowlist) Authorized(callerID string) bool {
	if len(al) == 0 {
		return true
	}
	_, ok := al[callerID]
	return ok
}
