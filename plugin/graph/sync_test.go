package graph

import (
	"context"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/screenplot/screenplot/store"
	teststore "github.com/screenplot/screenplot/store/test"
)

func TestSync(t *testing.T) {
	ctx := context.Background()
	ts := teststore.NewTestingStore(ctx, t)
	engine := NewEngine(ts)

	script, err := ts.CreateScript(ctx, &store.Script{Title: "Pilot"})
	require.NoError(t, err)
	scene, err := ts.CreateScene(ctx, &store.Scene{ScriptID: script.ID, Heading: "INT. OFFICE - DAY", Location: "OFFICE"})
	require.NoError(t, err)
	character, err := ts.CreateCharacter(ctx, &store.Character{ScriptID: script.ID, Name: "SARAH"})
	require.NoError(t, err)
	require.NoError(t, ts.UpsertSceneCharacter(ctx, &store.SceneCharacter{SceneID: scene.ID, CharacterID: character.ID}))
	_, err = ts.CreateLocation(ctx, &store.Location{ScriptID: script.ID, Name: "OFFICE"})
	require.NoError(t, err)

	result, err := engine.Sync(ctx, script.ID)
	require.NoError(t, err)
	// Script, scene, character and location nodes.
	require.Equal(t, 4, result.NodesCreated)
	// HAS_SCENE, APPEARS_IN and LOCATED_AT.
	require.Equal(t, 3, result.EdgesCreated)

	sceneNode, err := engine.SceneNode(ctx, scene.ID)
	require.NoError(t, err)
	require.NotNil(t, sceneNode)
	require.Equal(t, scene.Heading, sceneNode.Label)

	// A second run changes nothing.
	again, err := engine.Sync(ctx, script.ID)
	require.NoError(t, err)
	require.Zero(t, again.NodesCreated)
	require.Zero(t, again.EdgesCreated)

	// Relational edits flow into the mirrored node on resync.
	newHeading := "INT. OFFICE - NIGHT"
	require.NoError(t, ts.UpdateScene(ctx, &store.UpdateScene{ID: scene.ID, Heading: &newHeading}))
	_, err = engine.Sync(ctx, script.ID)
	require.NoError(t, err)
	sceneNode, err = engine.SceneNode(ctx, scene.ID)
	require.NoError(t, err)
	require.Equal(t, newHeading, sceneNode.Label)
}
