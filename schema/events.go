package schema

// TriggerStatus is the status field of a network-event notification.
type TriggerStatus string

const (
	// StatusUp signals a connection came up.
	StatusUp TriggerStatus = "up"
	// StatusDown signals a connection went down.
	StatusDown TriggerStatus = "down"
	// StatusVPNUp signals a VPN connection came up.
	StatusVPNUp TriggerStatus = "vpn-up"
	// StatusVPNDown signals a VPN connection went down.
	StatusVPNDown TriggerStatus = "vpn-down"
)

// Decisive reports whether the status should trigger re-evaluation. Every
// other status is silently dropped by the trigger gate.
func (s TriggerStatus) Decisive() bool {
	switch s {
	case StatusUp, StatusDown, StatusVPNUp, StatusVPNDown:
		return true
	}
	return false
}

// TriggerEvent is one network-state notification as delivered by the host's
// network-event notifier (the dispatcher hook or the monitor stream).
type TriggerEvent struct {
	Interface string
	Status    TriggerStatus
}
