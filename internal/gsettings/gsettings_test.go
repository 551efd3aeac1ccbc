package gsettings

import "testing"

func TestArtifactURI(t *testing.T) {
	if got := ArtifactURI("/usr/share/netskin/office.png"); got != "file:///usr/share/netskin/office.png" {
		t.Fatalf("unexpected uri: %s", got)
	}
	if got := ArtifactURI("https://cdn.example.com/brand.png"); got != "https://cdn.example.com/brand.png" {
		t.Fatalf("expected non-path artifact to pass through, got %s", got)
	}
}
