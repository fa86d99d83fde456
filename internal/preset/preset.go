// Package preset holds the simulated client/identity configurations and
// the registry that tracks which one is active.
package preset

// Preset is a pre-declared simulated identity. Instances handed out by
// the registry are value copies; callers never share mutable state.
type Preset struct {
	Name              string
	ClientID          string
	RedirectURI       string // exact match, no wildcards
	Subject           string
	Scopes            []string
	TokenTTLSeconds   int64
	SigningKeyID      string
	Email             string
	FullName          string
	PreferredUsername string
	Groups            []string
	CustomClaims      map[string]any
}

// Clone returns a deep copy, used when snapshotting a preset into an
// authorization code so later activations can't mutate issued flows.
func (p Preset) Clone() Preset {
	out := p
	if p.Scopes != nil {
		out.Scopes = append([]string(nil), p.Scopes...)
	}
	if p.Groups != nil {
		out.Groups = append([]string(nil), p.Groups...)
	}
	if p.CustomClaims != nil {
		out.CustomClaims = make(map[string]any, len(p.CustomClaims))
		for k, v := range p.CustomClaims {
			out.CustomClaims[k] = v
		}
	}
	return out
}
