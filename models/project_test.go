package models

import (
	"testing"

	"github.com/rpupo63/learning-projects-backend/errs"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/datatypes"
	"gorm.io/gorm/schema"
)

func validProject() Project {
	return Project{
		Title:       "Build a Todo API",
		Slug:        "build-a-todo-api",
		Description: "CRUD over HTTP with persistence",
	}
}

func TestProjectNormalize(t *testing.T) {
	p := validProject()
	p.Normalize()
	assert.Equal(t, DifficultyIntermediate, p.Difficulty)
	assert.NotNil(t, p.LearningOutcomes)
	assert.NotNil(t, p.Prerequisites)
	assert.NotNil(t, p.Guidelines)
	assert.NotNil(t, p.Resources)
}

func TestProjectValidate(t *testing.T) {
	negative := -3
	tests := []struct {
		name  string
		edit  func(p *Project)
		field string
	}{
		{name: "missing title", edit: func(p *Project) { p.Title = "" }, field: "title"},
		{name: "missing slug", edit: func(p *Project) { p.Slug = "" }, field: "slug"},
		{name: "bad slug", edit: func(p *Project) { p.Slug = "todo api!" }, field: "slug"},
		{name: "missing description", edit: func(p *Project) { p.Description = "  " }, field: "description"},
		{name: "bad difficulty", edit: func(p *Project) { p.Difficulty = "legendary" }, field: "difficulty_level"},
		{name: "negative duration", edit: func(p *Project) { p.EstimatedDurationHours = &negative }, field: "estimated_duration_hours"},
		{name: "resource without url", edit: func(p *Project) {
			p.Resources = datatypes.JSONSlice[Resource]{{Title: "Docs"}}
		}, field: "resources"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p := validProject()
			p.Normalize()
			tt.edit(&p)
			err := p.Validate()
			require.Error(t, err)
			var apiErr *errs.ApiErr
			require.ErrorAs(t, err, &apiErr)
			assert.Equal(t, tt.field, apiErr.Field)
		})
	}

	p := validProject()
	p.Resources = datatypes.JSONSlice[Resource]{{Title: " Go docs ", URL: "https://go.dev/doc"}}
	require.NoError(t, p.BeforeSave(nil))
	assert.Equal(t, "Go docs", p.Resources[0].Title)
}

func TestProjectTagValidate(t *testing.T) {
	tag := ProjectTag{Name: " Python ", Slug: "python"}
	require.NoError(t, tag.Validate())
	assert.Equal(t, "Python", tag.Name)

	assert.True(t, errs.IsMissingRequiredFieldError((&ProjectTag{Slug: "x"}).Validate()))
	assert.True(t, errs.IsInvalidFieldError((&ProjectTag{Name: "C++", Slug: "c++"}).Validate()))
}

func TestModelColumns(t *testing.T) {
	cols := ModelColumns(&Project{}, schema.NamingStrategy{})
	assert.Contains(t, cols, "difficulty_level")
	assert.Contains(t, cols, "ai_generation_prompt")
	assert.Contains(t, cols, "learning_outcomes")
	assert.NotContains(t, cols, "tags")

	cols = ModelColumns(&UserProject{}, schema.NamingStrategy{})
	assert.Contains(t, cols, "repository_url")
	assert.Contains(t, cols, "user_id")
	assert.NotContains(t, cols, "project")
	assert.NotContains(t, cols, "submissions")
}

func TestFindColumnMismatches(t *testing.T) {
	got := findColumnMismatches([]string{"id", "title", "legacy_b", "legacy_a"}, []string{"id", "title"})
	assert.Equal(t, []string{"legacy_a", "legacy_b"}, got)
	assert.Empty(t, findColumnMismatches([]string{"id"}, []string{"id", "title"}))
}
