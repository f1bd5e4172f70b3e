package sequence

import (
	"context"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/screenplot/screenplot/plugin/graph"
	"github.com/screenplot/screenplot/store"
	teststore "github.com/screenplot/screenplot/store/test"
)

type fixture struct {
	ts     *store.Store
	engine *graph.Engine
	svc    *Service
	script *store.Script
}

func newFixture(ctx context.Context, t *testing.T) *fixture {
	t.Helper()
	ts := teststore.NewTestingStore(ctx, t)
	engine := graph.NewEngine(ts)
	script, err := ts.CreateScript(ctx, &store.Script{Title: "Pilot"})
	require.NoError(t, err)
	return &fixture{
		ts:     ts,
		engine: engine,
		svc:    NewService(ts, engine),
		script: script,
	}
}

func (f *fixture) addScene(ctx context.Context, t *testing.T, heading, timeOfDay, content string, cast ...string) *store.Scene {
	t.Helper()
	scene, err := f.ts.CreateScene(ctx, &store.Scene{
		ScriptID:  f.script.ID,
		Heading:   heading,
		TimeOfDay: timeOfDay,
		Content:   content,
	})
	require.NoError(t, err)
	for _, name := range cast {
		character := f.character(ctx, t, name)
		require.NoError(t, f.ts.UpsertSceneCharacter(ctx, &store.SceneCharacter{
			SceneID:     scene.ID,
			CharacterID: character.ID,
		}))
	}
	return scene
}

func (f *fixture) character(ctx context.Context, t *testing.T, name string) *store.Character {
	t.Helper()
	existing, err := f.ts.ListCharacters(ctx, &store.FindCharacter{ScriptID: &f.script.ID, Name: &name})
	require.NoError(t, err)
	if len(existing) > 0 {
		return existing[0]
	}
	character, err := f.ts.CreateCharacter(ctx, &store.Character{ScriptID: f.script.ID, Name: name})
	require.NoError(t, err)
	return character
}

func TestEnsureScriptOrderAssignsByCreation(t *testing.T) {
	ctx := context.Background()
	f := newFixture(ctx, t)
	first := f.addScene(ctx, t, "INT. A - DAY", "", "")
	second := f.addScene(ctx, t, "INT. B - DAY", "", "")
	third := f.addScene(ctx, t, "INT. C - DAY", "", "")

	scenes, err := f.svc.EnsureScriptOrder(ctx, f.script.ID)
	require.NoError(t, err)
	require.Len(t, scenes, 3)

	orders := map[int32]int32{}
	for _, scene := range scenes {
		require.NotNil(t, scene.ScriptOrder)
		orders[scene.ID] = *scene.ScriptOrder
	}
	require.Equal(t, int32(1), orders[first.ID])
	require.Equal(t, int32(2), orders[second.ID])
	require.Equal(t, int32(3), orders[third.ID])

	// A second run leaves an already dense sequence untouched.
	again, err := f.svc.EnsureScriptOrder(ctx, f.script.ID)
	require.NoError(t, err)
	for _, scene := range again {
		require.Equal(t, orders[scene.ID], *scene.ScriptOrder)
	}
}

func TestAnalyzeDetectsCharacterIntroduction(t *testing.T) {
	ctx := context.Background()
	f := newFixture(ctx, t)
	f.addScene(ctx, t, "INT. STREET - DAY", "DAY", "Crowd noise.")
	intro := f.addScene(ctx, t, "INT. BAR - NIGHT", "NIGHT", "SARAH enters.", "SARAH")
	f.addScene(ctx, t, "EXT. PARK - DAY", "DAY", "Empty swings.")
	f.addScene(ctx, t, "INT. STATION - DAY", "DAY", "Phones ring.")
	reuse := f.addScene(ctx, t, "INT. BAR - NIGHT", "NIGHT", "SARAH waits alone.", "SARAH")

	deps, err := f.svc.AnalyzeLogicalDependencies(ctx, f.script.ID)
	require.NoError(t, err)

	var found *store.SceneDependency
	for _, dep := range deps {
		if dep.Type == store.DependencyTypeRequires {
			found = dep
		}
	}
	require.NotNil(t, found)
	require.Equal(t, reuse.ID, found.FromSceneID)
	require.Equal(t, intro.ID, found.ToSceneID)
	require.Equal(t, 0.8, found.Strength)
	require.Contains(t, found.Description, "SARAH")
}

func TestAnalyzeDetectsBackReference(t *testing.T) {
	ctx := context.Background()
	f := newFixture(ctx, t)
	earlier := f.addScene(ctx, t, "INT. BAR - NIGHT", "NIGHT", "SARAH and TOM argue.", "SARAH", "TOM")
	f.addScene(ctx, t, "EXT. PARK - DAY", "DAY", "Unrelated scene.")
	later := f.addScene(ctx, t, "INT. DINER - DAY", "DAY", "SARAH: Remember when we argued at the bar?", "SARAH")

	deps, err := f.svc.AnalyzeLogicalDependencies(ctx, f.script.ID)
	require.NoError(t, err)

	var found *store.SceneDependency
	for _, dep := range deps {
		if dep.Type == store.DependencyTypeReferences && dep.FromSceneID == later.ID {
			found = dep
		}
	}
	require.NotNil(t, found)
	require.Equal(t, earlier.ID, found.ToSceneID)
	require.Equal(t, 0.6, found.Strength)
}

func TestAnalyzeDetectsContinuation(t *testing.T) {
	ctx := context.Background()

	tests := []struct {
		name            string
		firstHeading    string
		secondHeading   string
		sharedCharacter bool
		want            bool
	}{
		{"explicit continuous heading", "INT. KITCHEN - DAY", "INT. KITCHEN - CONTINUOUS", false, true},
		{"same location shared cast", "INT. OFFICE - DAY", "INT. OFFICE - NIGHT", true, true},
		{"same location no shared cast", "INT. GARAGE - DAY", "INT. GARAGE - NIGHT", false, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := newFixture(ctx, t)
			var cast []string
			if tt.sharedCharacter {
				cast = []string{"ALICE"}
			}
			first := f.addScene(ctx, t, tt.firstHeading, "", "Action.", cast...)
			second := f.addScene(ctx, t, tt.secondHeading, "", "More action.", cast...)

			deps, err := f.svc.AnalyzeLogicalDependencies(ctx, f.script.ID)
			require.NoError(t, err)

			var found *store.SceneDependency
			for _, dep := range deps {
				if dep.Type == store.DependencyTypeContinues {
					found = dep
				}
			}
			if !tt.want {
				require.Nil(t, found)
				return
			}
			require.NotNil(t, found)
			require.Equal(t, second.ID, found.FromSceneID)
			require.Equal(t, first.ID, found.ToSceneID)
			require.Equal(t, 0.9, found.Strength)
		})
	}
}

func TestLogicalOrderRespectsDependencies(t *testing.T) {
	ctx := context.Background()
	f := newFixture(ctx, t)
	s1 := f.addScene(ctx, t, "INT. A - DAY", "", "")
	s2 := f.addScene(ctx, t, "INT. B - DAY", "", "")
	s3 := f.addScene(ctx, t, "INT. C - DAY", "", "")
	_, err := f.svc.EnsureScriptOrder(ctx, f.script.ID)
	require.NoError(t, err)

	// The first scene requires the third: the third must come before it.
	_, err = f.ts.UpsertSceneDependency(ctx, &store.SceneDependency{
		FromSceneID: s1.ID,
		ToSceneID:   s3.ID,
		Type:        store.DependencyTypeRequires,
		Strength:    0.8,
	})
	require.NoError(t, err)

	ordered, err := f.svc.GetLogicalOrder(ctx, f.script.ID)
	require.NoError(t, err)
	require.Equal(t, []int32{s2.ID, s3.ID, s1.ID}, sceneIDs(ordered))
	for i, scene := range ordered {
		require.Equal(t, int32(i+1), *scene.LogicalOrder)
	}
}

func TestLogicalOrderIgnoresWeakDependencies(t *testing.T) {
	ctx := context.Background()
	f := newFixture(ctx, t)
	s1 := f.addScene(ctx, t, "INT. A - DAY", "", "")
	s2 := f.addScene(ctx, t, "INT. B - DAY", "", "")
	_, err := f.svc.EnsureScriptOrder(ctx, f.script.ID)
	require.NoError(t, err)

	// Below the strength threshold the dependency does not constrain.
	_, err = f.ts.UpsertSceneDependency(ctx, &store.SceneDependency{
		FromSceneID: s1.ID,
		ToSceneID:   s2.ID,
		Type:        store.DependencyTypeReferences,
		Strength:    0.6,
	})
	require.NoError(t, err)

	ordered, err := f.svc.GetLogicalOrder(ctx, f.script.ID)
	require.NoError(t, err)
	require.Equal(t, []int32{s1.ID, s2.ID}, sceneIDs(ordered))
}

func TestLogicalOrderCycleFallsBackToScriptOrder(t *testing.T) {
	ctx := context.Background()
	f := newFixture(ctx, t)
	s1 := f.addScene(ctx, t, "INT. A - DAY", "", "")
	s2 := f.addScene(ctx, t, "INT. B - DAY", "", "")
	_, err := f.svc.EnsureScriptOrder(ctx, f.script.ID)
	require.NoError(t, err)

	for _, pair := range [][2]int32{{s1.ID, s2.ID}, {s2.ID, s1.ID}} {
		_, err = f.ts.UpsertSceneDependency(ctx, &store.SceneDependency{
			FromSceneID: pair[0],
			ToSceneID:   pair[1],
			Type:        store.DependencyTypeRequires,
			Strength:    0.9,
		})
		require.NoError(t, err)
	}

	ordered, err := f.svc.GetLogicalOrder(ctx, f.script.ID)
	require.NoError(t, err)
	require.Equal(t, []int32{s1.ID, s2.ID}, sceneIDs(ordered))
}

func TestContinuationOrdering(t *testing.T) {
	ctx := context.Background()
	f := newFixture(ctx, t)
	s1 := f.addScene(ctx, t, "INT. KITCHEN - DAY", "DAY", "ALICE cooks.", "ALICE")
	s2 := f.addScene(ctx, t, "INT. KITCHEN - CONTINUOUS", "", "ALICE plates the food.", "ALICE")

	_, err := f.svc.AnalyzeLogicalDependencies(ctx, f.script.ID)
	require.NoError(t, err)

	ordered, err := f.svc.GetLogicalOrder(ctx, f.script.ID)
	require.NoError(t, err)
	require.Equal(t, []int32{s1.ID, s2.ID}, sceneIDs(ordered))
}

func TestTemporalOrderFlashback(t *testing.T) {
	ctx := context.Background()
	f := newFixture(ctx, t)
	s1 := f.addScene(ctx, t, "INT. OFFICE - DAY", "DAY", "Present day work.")
	s2 := f.addScene(ctx, t, "INT. SCHOOLYARD - DAY (FLASHBACK)", "DAY", "Twenty years earlier.")
	s3 := f.addScene(ctx, t, "INT. OFFICE - NIGHT", "NIGHT", "Work continues.")

	ordered, err := f.svc.InferTemporalOrder(ctx, f.script.ID)
	require.NoError(t, err)
	// The flashback jumps to the front of story time.
	require.Equal(t, []int32{s2.ID, s1.ID, s3.ID}, sceneIDs(ordered))
	require.Equal(t, int32(1), *ordered[0].TemporalOrder)
}

func TestTemporalOrderTimeOfDayTiebreak(t *testing.T) {
	night := temporalScoreOf(&store.Scene{Heading: "INT. A - NIGHT", TimeOfDay: "NIGHT", ScriptOrder: orderPtr(1)})
	dawn := temporalScoreOf(&store.Scene{Heading: "INT. A - DAWN", TimeOfDay: "DAWN", ScriptOrder: orderPtr(1)})
	require.Greater(t, night, dawn)

	flashforward := temporalScoreOf(&store.Scene{Heading: "INT. A - DAY", Content: "FLASH FORWARD to the trial.", ScriptOrder: orderPtr(1)})
	plain := temporalScoreOf(&store.Scene{Heading: "INT. A - DAY", ScriptOrder: orderPtr(5)})
	require.Greater(t, flashforward, plain)
}

func TestSequencingMirrorsFollowsEdges(t *testing.T) {
	ctx := context.Background()
	f := newFixture(ctx, t)
	s1 := f.addScene(ctx, t, "INT. A - DAY", "", "")
	s2 := f.addScene(ctx, t, "INT. B - DAY", "", "")
	_, err := f.engine.Sync(ctx, f.script.ID)
	require.NoError(t, err)

	_, err = f.svc.GetLogicalOrder(ctx, f.script.ID)
	require.NoError(t, err)

	followsType := store.EdgeTypeFollows
	edges, err := f.ts.FindEdges(ctx, &store.FindEdge{Type: &followsType})
	require.NoError(t, err)
	require.Len(t, edges, 1)
	require.Equal(t, string(store.OrderTypeLogical), edges[0].Props.GetString("order_type"))

	node1, err := f.engine.SceneNode(ctx, s1.ID)
	require.NoError(t, err)
	node2, err := f.engine.SceneNode(ctx, s2.ID)
	require.NoError(t, err)
	require.Equal(t, node1.ID, edges[0].FromNodeID)
	require.Equal(t, node2.ID, edges[0].ToNodeID)

	// Recomputing replaces rather than accumulates.
	_, err = f.svc.GetLogicalOrder(ctx, f.script.ID)
	require.NoError(t, err)
	edges, err = f.ts.FindEdges(ctx, &store.FindEdge{Type: &followsType})
	require.NoError(t, err)
	require.Len(t, edges, 1)

	// The temporal mirror lives alongside the logical one.
	_, err = f.svc.InferTemporalOrder(ctx, f.script.ID)
	require.NoError(t, err)
	edges, err = f.ts.FindEdges(ctx, &store.FindEdge{Type: &followsType})
	require.NoError(t, err)
	require.Len(t, edges, 2)
}

func TestValidateOrderingConsistency(t *testing.T) {
	ctx := context.Background()
	f := newFixture(ctx, t)
	s1 := f.addScene(ctx, t, "INT. A - DAY", "", "")
	s2 := f.addScene(ctx, t, "INT. B - DAY", "", "")
	_, err := f.svc.EnsureScriptOrder(ctx, f.script.ID)
	require.NoError(t, err)

	report, err := f.svc.ValidateOrderingConsistency(ctx, f.script.ID)
	require.NoError(t, err)
	require.True(t, report.Valid)
	require.Empty(t, report.Conflicts)

	// s1 requires s2 but the logical order puts s1 first.
	_, err = f.ts.UpsertSceneDependency(ctx, &store.SceneDependency{
		FromSceneID: s1.ID,
		ToSceneID:   s2.ID,
		Type:        store.DependencyTypeRequires,
		Strength:    0.8,
	})
	require.NoError(t, err)
	one, two := int32(1), int32(2)
	require.NoError(t, f.ts.UpdateSceneOrders(ctx, []*store.UpdateSceneOrder{
		{SceneID: s1.ID, Type: store.OrderTypeLogical, Value: &one},
		{SceneID: s2.ID, Type: store.OrderTypeLogical, Value: &two},
	}))

	report, err = f.svc.ValidateOrderingConsistency(ctx, f.script.ID)
	require.NoError(t, err)
	require.False(t, report.Valid)
	require.Len(t, report.Conflicts, 1)
	require.Equal(t, ConflictDependencyViolation, report.Conflicts[0].Type)
	require.Equal(t, s1.ID, report.Conflicts[0].SceneID)
	require.Equal(t, s2.ID, report.Conflicts[0].OtherSceneID)
}

func TestValidateDetectsDuplicateAndMissingOrders(t *testing.T) {
	ctx := context.Background()
	f := newFixture(ctx, t)
	s1 := f.addScene(ctx, t, "INT. A - DAY", "", "")
	s2 := f.addScene(ctx, t, "INT. B - DAY", "", "")
	s3 := f.addScene(ctx, t, "INT. C - DAY", "", "")

	one := int32(1)
	require.NoError(t, f.ts.UpdateSceneOrders(ctx, []*store.UpdateSceneOrder{
		{SceneID: s1.ID, Type: store.OrderTypeScript, Value: &one},
		{SceneID: s2.ID, Type: store.OrderTypeScript, Value: &one},
	}))

	report, err := f.svc.ValidateOrderingConsistency(ctx, f.script.ID)
	require.NoError(t, err)
	require.False(t, report.Valid)

	types := map[ConflictType]int{}
	for _, conflict := range report.Conflicts {
		types[conflict.Type]++
	}
	require.Equal(t, 1, types[ConflictMissingScriptOrder])
	require.Equal(t, 1, types[ConflictDuplicateOrder])
	_ = s3
}

func sceneIDs(scenes []*store.Scene) []int32 {
	ids := make([]int32, 0, len(scenes))
	for _, scene := range scenes {
		ids = append(ids, scene.ID)
	}
	return ids
}

func orderPtr(v int32) *int32 {
	return &v
}
