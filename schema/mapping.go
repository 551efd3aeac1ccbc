package schema

// Mapping resolves a connection name to an artifact. It is built once at
// startup from configuration and is immutable for the process lifetime; a
// daemon restart is required to pick up changes.
type Mapping struct {
	entries  map[string]ArtifactRef
	fallback ArtifactRef
}

// NewMapping builds a mapping from exact-match entries and a fallback
// artifact. The fallback is mandatory: it covers unmapped connections and the
// no-active-connection case.
func NewMapping(entries map[string]ArtifactRef, fallback ArtifactRef) (Mapping, error) {
	if fallback == "" {
		return Mapping{}, ErrMissingFallback
	}
	copied := make(map[string]ArtifactRef, len(entries))
	for name, artifact := range entries {
		if name == "" || artifact == "" {
			continue
		}
		copied[name] = artifact
	}
	return Mapping{entries: copied, fallback: fallback}, nil
}

// Resolve returns the artifact for a connection name. Lookup is exact and
// case-sensitive; an empty or unmatched name resolves to the fallback.
func (m Mapping) Resolve(name string) ArtifactRef {
	if name != "" {
		if artifact, ok := m.entries[name]; ok {
			return artifact
		}
	}
	return m.fallback
}

// Fallback returns the fallback artifact.
func (m Mapping) Fallback() ArtifactRef {
	return m.fallback
}

// Len returns the number of exact-match entries.
func (m Mapping) Len() int {
	return len(m.entries)
}
