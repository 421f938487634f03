package asidecache

import "time"

// Policy maps namespaces to expiry durations, encoding the freshness-vs-load
// tradeoff per category (short TTL for volatile data like prices, long TTL
// for near-static catalogs). Loaded once at startup; immutable afterwards.
type Policy struct {
	def  time.Duration
	ttls map[string]time.Duration
}

// NewPolicy builds a policy table. def is used for unregistered namespaces;
// def <= 0 falls back to DefaultTTL. Namespaces are lowercased to match key
// normalization. The map is copied, so later mutation of the argument does
// not leak into the policy.
func NewPolicy(def time.Duration, ttls map[string]time.Duration) *Policy {
	p := &Policy{def: def, ttls: make(map[string]time.Duration, len(ttls))}
	if p.def <= 0 {
		p.def = DefaultTTL
	}
	for ns, d := range ttls {
		if d > 0 {
			p.ttls[normNS(ns)] = d
		}
	}
	return p
}

// TTLFor returns the expiry for a namespace, or the policy default when the
// namespace is unregistered.
func (p *Policy) TTLFor(namespace string) time.Duration {
	if p == nil {
		return DefaultTTL
	}
	if d, ok := p.ttls[normNS(namespace)]; ok {
		return d
	}
	return p.def
}
