package pipeline

import "github.com/google/uuid"

// IdentityMap maps a normalized natural key (customer email) to the
// persisted surrogate identifier. It is scoped to a single run: the customer
// loader populates it for every processed row, created or pre-existing, and
// the order transformer reads it to resolve cross-entity references. It is
// never persisted; existing customers are re-resolved from the store on the
// next run.
type IdentityMap map[string]uuid.UUID

// Resolve returns the identifier registered for the key.
func (m IdentityMap) Resolve(key string) (uuid.UUID, bool) {
	id, ok := m[key]
	return id, ok
}

// Register records the identifier for a natural key.
func (m IdentityMap) Register(key string, id uuid.UUID) {
	m[key] = id
}
