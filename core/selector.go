package core

import (
	"sort"

	"pkt.systems/netskin/schema"
)

// SelectAuthoritative picks the single connection that represents "the
// current network" from a snapshot of connections and the default-route
// device. Strict priority order:
//
//  1. an active VPN connection,
//  2. the active connection bound to the default-route device,
//  3. any active connection.
//
// Ties break by lexical order of connection name, so the result is stable
// regardless of the enumeration order of the underlying query tool. Returns
// ("", false) when nothing is active; callers treat that as "unknown
// network" and resolve the fallback artifact, not as an error.
func SelectAuthoritative(conns []schema.Connection, defaultRouteDevice string) (string, bool) {
	active := make([]schema.Connection, 0, len(conns))
	for _, conn := range conns {
		if conn.Active && conn.Name != "" {
			active = append(active, conn)
		}
	}
	if len(active) == 0 {
		return "", false
	}
	sort.Slice(active, func(i, j int) bool { return active[i].Name < active[j].Name })

	for _, conn := range active {
		if conn.Type == schema.ConnectionVPN {
			return conn.Name, true
		}
	}
	if defaultRouteDevice != "" {
		for _, conn := range active {
			if conn.Device == defaultRouteDevice {
				return conn.Name, true
			}
		}
	}
	return active[0].Name, true
}
