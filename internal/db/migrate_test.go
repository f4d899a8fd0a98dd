package db

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestSchemaDeclaresStorageGuards(t *testing.T) {
	s := Schema()
	for _, table := range []string{"users", "hunting_grounds", "memberships", "map_points", "reservations"} {
		assert.Contains(t, s, "CREATE TABLE IF NOT EXISTS "+table+" (")
	}
	assert.Contains(t, s, "EXCLUDE USING gist")
	assert.Contains(t, s, "WHERE (status = 'active' AND map_point_id IS NOT NULL)")
	assert.Contains(t, s, "UNIQUE (ground_id, user_id)")
	assert.Contains(t, s, "UNIQUE (ground_id, email)")
	assert.Equal(t, 5, strings.Count(s, "ON DELETE CASCADE"))
}
