// api/model/neo4j/relationships.go
package ta_neo4j

// Relationship Types
const (
	// RelMemberOf links a user to their team
	RelMemberOf = "MEMBER_OF"

	// RelHasRole links a user to an assigned role; the relationship carries the
	// assignment's revoked flag and validity window
	RelHasRole = "HAS_ROLE"
)
