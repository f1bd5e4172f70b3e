package test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/screenplot/screenplot/store"
)

func TestNodeStore(t *testing.T) {
	ctx := context.Background()
	ts := NewTestingStore(ctx, t)

	props := store.Properties{}
	props.Set("importance", store.NumberValue(0.9))
	props.Set("alias", store.StringValue("the detective"))

	node, err := ts.CreateNode(ctx, &store.Node{
		Type:  store.NodeTypeCharacter,
		Label: "SARAH",
		Props: props,
	})
	require.NoError(t, err)
	require.NotEmpty(t, node.ID)
	require.NotZero(t, node.CreatedTs)

	fetched, err := ts.GetNode(ctx, node.ID)
	require.NoError(t, err)
	require.NotNil(t, fetched)
	require.Equal(t, "SARAH", fetched.Label)
	importance, ok := fetched.Props.Get("importance")
	require.True(t, ok)
	require.Equal(t, 0.9, importance.Num)
	require.Equal(t, "the detective", fetched.Props.GetString("alias"))

	newLabel := "SARAH CONNOR"
	updated, err := ts.UpdateNode(ctx, &store.UpdateNode{ID: node.ID, Label: &newLabel})
	require.NoError(t, err)
	require.Equal(t, newLabel, updated.Label)
	// Untouched fields survive a partial update.
	require.Equal(t, "the detective", updated.Props.GetString("alias"))

	missing, err := ts.GetNode(ctx, "no-such-node")
	require.NoError(t, err)
	require.Nil(t, missing)

	require.NoError(t, ts.DeleteNode(ctx, node.ID))
	gone, err := ts.GetNode(ctx, node.ID)
	require.NoError(t, err)
	require.Nil(t, gone)
}

func TestFindNodes(t *testing.T) {
	ctx := context.Background()
	ts := NewTestingStore(ctx, t)

	for _, label := range []string{"SARAH", "SAM", "DETECTIVE MILLER"} {
		_, err := ts.CreateNode(ctx, &store.Node{Type: store.NodeTypeCharacter, Label: label})
		require.NoError(t, err)
	}
	_, err := ts.CreateNode(ctx, &store.Node{Type: store.NodeTypeLocation, Label: "SARAH'S APARTMENT"})
	require.NoError(t, err)

	characterType := store.NodeTypeCharacter
	characters, err := ts.FindNodes(ctx, &store.FindNode{Type: &characterType})
	require.NoError(t, err)
	require.Len(t, characters, 3)

	pattern := "SA%"
	matched, err := ts.FindNodes(ctx, &store.FindNode{Type: &characterType, LabelPattern: &pattern})
	require.NoError(t, err)
	require.Len(t, matched, 2)

	limit := 1
	limited, err := ts.FindNodes(ctx, &store.FindNode{Limit: &limit})
	require.NoError(t, err)
	require.Len(t, limited, 1)
}

func TestFindNodeByEntity(t *testing.T) {
	ctx := context.Background()
	ts := NewTestingStore(ctx, t)

	script, err := ts.CreateScript(ctx, &store.Script{Title: "Cold Open"})
	require.NoError(t, err)
	scene, err := ts.CreateScene(ctx, &store.Scene{ScriptID: script.ID, Heading: "INT. OFFICE - DAY"})
	require.NoError(t, err)

	entityID := store.EntityID(scene.ID)
	node, err := ts.CreateNode(ctx, &store.Node{
		Type:     store.NodeTypeScene,
		EntityID: &entityID,
		Label:    scene.Heading,
	})
	require.NoError(t, err)

	sceneType := store.NodeTypeScene
	found, err := ts.FindNodes(ctx, &store.FindNode{Type: &sceneType, EntityID: &entityID})
	require.NoError(t, err)
	require.Len(t, found, 1)
	require.Equal(t, node.ID, found[0].ID)

	resolved, err := ts.ResolveEntity(ctx, found[0])
	require.NoError(t, err)
	require.NotNil(t, resolved)
	require.Equal(t, scene.ID, resolved.ID)
}

func TestDanglingEntityReference(t *testing.T) {
	ctx := context.Background()
	ts := NewTestingStore(ctx, t)

	entityID := store.EntityID(424242)
	node, err := ts.CreateNode(ctx, &store.Node{Type: store.NodeTypeScene, EntityID: &entityID, Label: "ghost"})
	require.NoError(t, err)

	// A weak reference to a deleted row resolves to nothing, not an error.
	resolved, err := ts.ResolveEntity(ctx, node)
	require.NoError(t, err)
	require.Nil(t, resolved)
}

func TestMalformedPropertiesDegradeToEmpty(t *testing.T) {
	ctx := context.Background()
	ts := NewTestingStore(ctx, t)

	from, err := ts.CreateNode(ctx, &store.Node{Type: store.NodeTypeScene, Label: "from"})
	require.NoError(t, err)
	to, err := ts.CreateNode(ctx, &store.Node{Type: store.NodeTypeScene, Label: "to"})
	require.NoError(t, err)

	db := ts.GetDriver().GetDB()
	nodeStmt := "INSERT INTO nodes (id, node_type, label, properties) VALUES (?, ?, ?, ?)"
	edgeStmt := "INSERT INTO edges (id, from_node_id, to_node_id, edge_type, properties) VALUES (?, ?, ?, ?, ?)"
	if ts.Profile().Driver == "postgres" {
		nodeStmt = "INSERT INTO nodes (id, node_type, label, properties) VALUES ($1, $2, $3, $4)"
		edgeStmt = "INSERT INTO edges (id, from_node_id, to_node_id, edge_type, properties) VALUES ($1, $2, $3, $4, $5)"
	}
	_, err = db.ExecContext(ctx, nodeStmt, "corrupt-node", string(store.NodeTypeScene), "CORRUPT", "{not json")
	require.NoError(t, err)
	_, err = db.ExecContext(ctx, edgeStmt, "corrupt-edge", from.ID, to.ID, string(store.EdgeTypeFollows), "[broken")
	require.NoError(t, err)

	// A malformed properties column is logged and read as an empty bag,
	// never surfaced as an error.
	node, err := ts.GetNode(ctx, "corrupt-node")
	require.NoError(t, err)
	require.NotNil(t, node)
	require.Empty(t, node.Props)

	edge, err := ts.GetEdge(ctx, "corrupt-edge")
	require.NoError(t, err)
	require.NotNil(t, edge)
	require.Empty(t, edge.Props)
}
