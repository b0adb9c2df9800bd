// Package geo resolves a request IP to a coarse location. Resolution is a
// best-effort analytics signal: implementations never block on slow lookups
// and never return an error, so a failed lookup can never fail a tracking
// call. The default resolver reports everything as unknown; a real provider
// (MaxMind, ipinfo, ...) slots in behind the same interface.
package geo

// Location is a coarse geographic classification of an IP address
type Location struct {
	Country string
	City    string
	Region  string
}

// Unknown is the location reported when resolution is unavailable. Its
// fields are empty so unresolved events store NULL and stay out of the
// location breakdowns.
var Unknown = Location{}

// Resolver maps an IP address to a coarse location
type Resolver interface {
	Resolve(ip string) Location
}

type unknownResolver struct{}

// NewUnknownResolver returns a resolver that classifies every IP as unknown
func NewUnknownResolver() Resolver {
	return unknownResolver{}
}

func (unknownResolver) Resolve(string) Location {
	return Unknown
}
