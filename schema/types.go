package schema

import "strings"

// ArtifactRef is an opaque locator for a visual asset (a file path or URI).
// The core never interprets its content, it only passes it through to the
// apply collaborators.
type ArtifactRef string

// ConnectionType classifies a NetworkManager connection for selection purposes.
type ConnectionType string

const (
	// ConnectionVPN marks VPN-class connections (vpn, wireguard).
	ConnectionVPN ConnectionType = "vpn"
	// ConnectionOther marks every non-VPN connection.
	ConnectionOther ConnectionType = "other"
)

// Connection is a read snapshot of one NetworkManager connection. Names are
// unique per NetworkManager configuration and may contain spaces and
// punctuation. Snapshots are taken fresh every decision cycle and never
// cached across cycles.
type Connection struct {
	Name   string
	Type   ConnectionType
	Device string
	Active bool
}

// SessionType classifies a login session.
type SessionType string

const (
	// SessionWayland is a graphical Wayland session.
	SessionWayland SessionType = "wayland"
	// SessionX11 is a graphical X11 session.
	SessionX11 SessionType = "x11"
	// SessionOther covers tty, ssh and every other session type.
	SessionOther SessionType = "other"
)

// Graphical reports whether the session type can host desktop branding.
func (t SessionType) Graphical() bool {
	return t == SessionWayland || t == SessionX11
}

// Session is a read-only snapshot of one logind session.
type Session struct {
	ID     string
	User   string
	Type   SessionType
	Active bool
	Remote bool
	Seat   string
}

// ContextID identifies a branding target: a local graphical user session
// ("user:<name>") or the system login greeter ("greeter").
type ContextID string

// GreeterContext is the fixed context id for the login greeter.
const GreeterContext ContextID = "greeter"

const userContextPrefix = "user:"

// UserContext builds the context id for a user-session target.
func UserContext(userName string) ContextID {
	return ContextID(userContextPrefix + userName)
}

// UserName returns the user name for a user-session context id, or "" when
// the id does not name a user session.
func (id ContextID) UserName() string {
	if !strings.HasPrefix(string(id), userContextPrefix) {
		return ""
	}
	return strings.TrimPrefix(string(id), userContextPrefix)
}

// Decision records one applied (context, connection, artifact) triple. The
// store retains at most one Decision per context; structural equality of all
// three fields decides whether a fresh apply is skippable.
type Decision struct {
	Context    ContextID   `json:"context"`
	Connection string      `json:"connection"`
	Artifact   ArtifactRef `json:"artifact"`
}

// Equal reports structural equality of all three fields.
func (d Decision) Equal(other Decision) bool {
	return d == other
}
