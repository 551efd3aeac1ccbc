package core

import "pkt.systems/netskin/schema"

// LocateGraphicalUser picks the local graphical user that should receive
// per-user branding. Three-tier fallback, each tier deterministic:
//
//  1. active, local, graphical sessions whose user owns a live
//     desktop-shell process: prefer the one bound to primarySeat, else the
//     first candidate in input order,
//  2. the owner of the longest-running desktop-shell process (shellOwners
//     is ordered earliest start first),
//  3. the first user with a live per-user bus socket.
//
// Returns ("", false) when every tier is empty. That is the normal "no
// local GUI user" case on headless or SSH-only hosts, not a failure.
func LocateGraphicalUser(sessions []schema.Session, shellOwners, busOwners []string, primarySeat string) (string, bool) {
	shellUsers := make(map[string]bool, len(shellOwners))
	for _, owner := range shellOwners {
		shellUsers[owner] = true
	}

	first := ""
	for _, session := range sessions {
		if !session.Active || session.Remote || !session.Type.Graphical() {
			continue
		}
		if session.User == "" || !shellUsers[session.User] {
			continue
		}
		if session.Seat == primarySeat {
			return session.User, true
		}
		if first == "" {
			first = session.User
		}
	}
	if first != "" {
		return first, true
	}

	if len(shellOwners) > 0 {
		return shellOwners[0], true
	}
	if len(busOwners) > 0 {
		return busOwners[0], true
	}
	return "", false
}
