// api/model/neo4j/nodes.go
package ta_neo4j

// Node Labels
const (
	// LabelUser represents a dashboard user
	LabelUser = "User"

	// LabelRole represents a role that carries permission grants
	LabelRole = "Role"

	// LabelTeam represents a team users can belong to
	LabelTeam = "Team"
)
