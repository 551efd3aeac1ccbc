package core

import (
	"testing"

	"pkt.systems/netskin/schema"
)

func TestSelectAuthoritativeVPNWins(t *testing.T) {
	conns := []schema.Connection{
		{Name: "Corp-Wired", Type: schema.ConnectionOther, Device: "eth0", Active: true},
		{Name: "OfficeVPN", Type: schema.ConnectionVPN, Device: "tun0", Active: true},
	}
	// VPN precedence holds regardless of the default-route device.
	for _, device := range []string{"tun0", "eth0", ""} {
		name, ok := SelectAuthoritative(conns, device)
		if !ok || name != "OfficeVPN" {
			t.Fatalf("device %q: expected OfficeVPN, got %q ok=%v", device, name, ok)
		}
	}
}

func TestSelectAuthoritativeVPNTieBreakLexical(t *testing.T) {
	conns := []schema.Connection{
		{Name: "zeta-vpn", Type: schema.ConnectionVPN, Active: true},
		{Name: "alpha-vpn", Type: schema.ConnectionVPN, Active: true},
	}
	name, ok := SelectAuthoritative(conns, "")
	if !ok || name != "alpha-vpn" {
		t.Fatalf("expected alpha-vpn, got %q ok=%v", name, ok)
	}
}

func TestSelectAuthoritativeInactiveVPNIgnored(t *testing.T) {
	conns := []schema.Connection{
		{Name: "OfficeVPN", Type: schema.ConnectionVPN, Device: "tun0", Active: false},
		{Name: "HomeWifi", Type: schema.ConnectionOther, Device: "wlan0", Active: true},
	}
	name, ok := SelectAuthoritative(conns, "wlan0")
	if !ok || name != "HomeWifi" {
		t.Fatalf("expected HomeWifi, got %q ok=%v", name, ok)
	}
}

func TestSelectAuthoritativeDefaultRouteMatch(t *testing.T) {
	conns := []schema.Connection{
		{Name: "Corp-Wired", Type: schema.ConnectionOther, Device: "eth0", Active: true},
		{Name: "HomeWifi", Type: schema.ConnectionOther, Device: "wlan0", Active: true},
	}
	name, ok := SelectAuthoritative(conns, "wlan0")
	if !ok || name != "HomeWifi" {
		t.Fatalf("expected HomeWifi, got %q ok=%v", name, ok)
	}
}

func TestSelectAuthoritativeFirstActiveLexical(t *testing.T) {
	conns := []schema.Connection{
		{Name: "Wired B", Type: schema.ConnectionOther, Device: "eth1", Active: true},
		{Name: "Wired A", Type: schema.ConnectionOther, Device: "eth0", Active: true},
	}
	// No VPN and no matching route device: lexically first active wins.
	name, ok := SelectAuthoritative(conns, "ppp0")
	if !ok || name != "Wired A" {
		t.Fatalf("expected Wired A, got %q ok=%v", name, ok)
	}
	name, ok = SelectAuthoritative(conns, "")
	if !ok || name != "Wired A" {
		t.Fatalf("expected Wired A without route device, got %q ok=%v", name, ok)
	}
}

func TestSelectAuthoritativeNoneActive(t *testing.T) {
	conns := []schema.Connection{
		{Name: "Corp-Wired", Type: schema.ConnectionOther, Device: "eth0", Active: false},
	}
	if name, ok := SelectAuthoritative(conns, "eth0"); ok {
		t.Fatalf("expected no selection, got %q", name)
	}
	if name, ok := SelectAuthoritative(nil, ""); ok {
		t.Fatalf("expected no selection for empty set, got %q", name)
	}
}
