package catalog

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLookup(t *testing.T) {
	p, ok := Lookup(AuditRead)
	require.True(t, ok)
	assert.Equal(t, "View Audit Logs", p.Label)
	assert.Equal(t, CategoryAudit, p.Category)

	_, ok = Lookup("report.export")
	assert.False(t, ok)
	assert.False(t, IsKnown(""))
	assert.True(t, IsKnown(TeamDelete))
}

func TestGrouped(t *testing.T) {
	groups := Grouped()
	require.Len(t, groups, 4)
	assert.Equal(t, CategoryUser, groups[0].Name)
	assert.Equal(t, CategoryRole, groups[1].Name)
	assert.Equal(t, CategoryTeam, groups[2].Name)
	assert.Equal(t, CategoryAudit, groups[3].Name)
	assert.Len(t, groups[0].Permissions, 5)
	assert.Len(t, groups[3].Permissions, 1)

	total := 0
	for _, g := range groups {
		total += len(g.Permissions)
	}
	assert.Equal(t, len(Keys()), total)
}

func TestAllReturnsCopy(t *testing.T) {
	all := All()
	all[0].Label = "changed"
	p, _ := Lookup(all[0].Key)
	assert.Equal(t, "Create Users", p.Label)
}
