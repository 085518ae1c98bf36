package services_test

import (
	"context"
	"testing"

	"github.com/rpupo63/learning-projects-backend/database/dbtest"
	"github.com/rpupo63/learning-projects-backend/errs"
	"github.com/rpupo63/learning-projects-backend/models"
	"github.com/rpupo63/learning-projects-backend/services"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// Updates answer with the row they wrote even when plain reads are served by a
// replica that has not caught up.
func TestUpdatesReturnTheWrittenRowWithALaggingReplica(t *testing.T) {
	f := newFixture(t)
	lagging := dbtest.OpenLaggingReplica(t)
	ctx := context.Background()

	instance := f.enroll(t, "Chat Server")
	sub, _, err := f.progress.Submit(ctx, instance.ID, services.SubmissionInput{})
	require.NoError(t, err)

	catalog := services.NewCatalogService(lagging)
	progress := services.NewProgressService(lagging)

	_, err = progress.GetInstance(ctx, instance.ID)
	require.True(t, errs.IsNotFound(err), "reads outside a transaction go to the replica")

	archived, err := progress.UpdateInstance(ctx, instance.ID, services.InstancePatch{
		Status:        ptr(models.StatusArchived),
		RepositoryURL: ptr("https://github.com/example/chat"),
	})
	require.NoError(t, err)
	assert.Equal(t, models.StatusArchived, archived.Status)
	require.NotNil(t, archived.Project)
	assert.Equal(t, "chat-server", archived.Project.Slug)

	edited, err := progress.UpdateSubmission(ctx, sub.ID, services.SubmissionPatch{Notes: ptr("now with tests")})
	require.NoError(t, err)
	assert.Equal(t, "now with tests", *edited.SubmissionNotes)

	updated, err := catalog.UpdateProject(ctx, instance.ProjectID, services.ProjectInput{
		Title:       "Chat Server",
		Description: "Rooms and presence",
	})
	require.NoError(t, err)
	assert.Equal(t, "Rooms and presence", updated.Description)

	published, err := catalog.PublishProject(ctx, instance.ProjectID, true)
	require.NoError(t, err)
	assert.True(t, published.IsPublished)
}
