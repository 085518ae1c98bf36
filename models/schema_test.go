package models

import (
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm/schema"
)

// Deleting a project removes its instances, their submissions and the
// assessments of those submissions. Every foreign key AutoMigrate creates has
// to carry ON DELETE CASCADE for that to hold.
func TestParentDeletesCascadeToChildren(t *testing.T) {
	cache := &sync.Map{}
	parents := map[string]string{}

	for _, model := range All() {
		s, err := schema.Parse(model, cache, schema.NamingStrategy{})
		require.NoError(t, err)

		for name, rel := range s.Relationships.Relations {
			if rel.JoinTable != nil {
				continue
			}
			constraint := rel.ParseConstraint()
			if constraint == nil {
				continue
			}
			assert.Equal(t, "CASCADE", constraint.OnDelete, "%s.%s (%s)", s.Name, name, constraint.Name)
			parents[constraint.Schema.Table] = constraint.ReferenceSchema.Table
		}
	}

	assert.Equal(t, map[string]string{
		"user_projects":       "projects",
		"project_submissions": "user_projects",
		"project_assessments": "project_submissions",
	}, parents)
}
