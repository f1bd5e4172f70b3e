package sequence

import (
	"context"
	"fmt"
	"sort"
	"strings"

	"github.com/screenplot/screenplot/store"
)

var backReferenceMarkers = []string{
	"earlier",
	"before",
	"previously",
	"remember when",
}

var continuationMarkers = []string{
	"CONTINUOUS",
	"MOMENTS LATER",
}

// AnalyzeLogicalDependencies scans the script for character
// introductions, back-references and scene continuations, and persists
// the detected dependencies. Re-running the analysis is idempotent;
// already recorded (from, to, type) triples are kept as stored.
func (s *Service) AnalyzeLogicalDependencies(ctx context.Context, scriptID int32) ([]*store.SceneDependency, error) {
	scenes, err := s.EnsureScriptOrder(ctx, scriptID)
	if err != nil {
		return nil, err
	}
	if len(scenes) < 2 {
		return nil, nil
	}
	sort.SliceStable(scenes, func(i, j int) bool {
		return *scenes[i].ScriptOrder < *scenes[j].ScriptOrder
	})

	casts, err := s.sceneCasts(ctx, scriptID, scenes)
	if err != nil {
		return nil, err
	}

	detected := s.detectIntroductions(scenes, casts)
	detected = append(detected, s.detectBackReferences(scenes, casts)...)
	detected = append(detected, s.detectContinuations(scenes, casts)...)

	results := make([]*store.SceneDependency, 0, len(detected))
	for _, dep := range detected {
		stored, err := s.store.UpsertSceneDependency(ctx, dep)
		if err != nil {
			return nil, err
		}
		results = append(results, stored)
	}
	return results, nil
}

type sceneCast struct {
	characterIDs map[int32]bool
	names        map[int32]string
}

// sceneCasts loads the character sets of every scene in one pass.
func (s *Service) sceneCasts(ctx context.Context, scriptID int32, scenes []*store.Scene) (map[int32]*sceneCast, error) {
	links, err := s.store.ListSceneCharacters(ctx, &store.FindSceneCharacter{ScriptID: &scriptID})
	if err != nil {
		return nil, err
	}
	casts := make(map[int32]*sceneCast, len(scenes))
	for _, scene := range scenes {
		casts[scene.ID] = &sceneCast{
			characterIDs: make(map[int32]bool),
			names:        make(map[int32]string),
		}
	}
	for _, link := range links {
		cast, ok := casts[link.SceneID]
		if !ok {
			continue
		}
		cast.characterIDs[link.CharacterID] = true
		cast.names[link.CharacterID] = link.Name
	}
	return casts, nil
}

// detectIntroductions links every scene that features a character back to
// the scene that introduced that character.
func (s *Service) detectIntroductions(scenes []*store.Scene, casts map[int32]*sceneCast) []*store.SceneDependency {
	introducedIn := make(map[int32]*store.Scene)
	var deps []*store.SceneDependency
	for _, scene := range scenes {
		cast := casts[scene.ID]
		ids := sortedCharacterIDs(cast)
		for _, characterID := range ids {
			intro, seen := introducedIn[characterID]
			if !seen {
				introducedIn[characterID] = scene
				continue
			}
			deps = append(deps, &store.SceneDependency{
				FromSceneID: scene.ID,
				ToSceneID:   intro.ID,
				Type:        store.DependencyTypeRequires,
				Strength:    0.8,
				Description: fmt.Sprintf("requires introduction of %s", cast.names[characterID]),
			})
		}
	}
	return deps
}

// detectBackReferences links scenes whose content carries a temporal
// back-reference to earlier scenes sharing at least one character.
func (s *Service) detectBackReferences(scenes []*store.Scene, casts map[int32]*sceneCast) []*store.SceneDependency {
	var deps []*store.SceneDependency
	for j, later := range scenes {
		content := strings.ToLower(later.Content)
		if !containsAny(content, backReferenceMarkers) {
			continue
		}
		for _, earlier := range scenes[:j] {
			if !sharesCharacter(casts[later.ID], casts[earlier.ID]) {
				continue
			}
			deps = append(deps, &store.SceneDependency{
				FromSceneID: later.ID,
				ToSceneID:   earlier.ID,
				Type:        store.DependencyTypeReferences,
				Strength:    0.6,
				Description: "references earlier events",
			})
		}
	}
	return deps
}

// detectContinuations links consecutive scenes that explicitly continue
// the action, or that stay in the same location with an overlapping cast.
func (s *Service) detectContinuations(scenes []*store.Scene, casts map[int32]*sceneCast) []*store.SceneDependency {
	var deps []*store.SceneDependency
	for i := 1; i < len(scenes); i++ {
		prev, curr := scenes[i-1], scenes[i]

		explicit := containsAny(strings.ToUpper(curr.Heading), continuationMarkers)
		sameSetting := false
		if !explicit {
			prevLoc, currLoc := sceneLocation(prev), sceneLocation(curr)
			sameSetting = prevLoc != "" && prevLoc == currLoc && sharesCharacter(casts[curr.ID], casts[prev.ID])
		}
		if !explicit && !sameSetting {
			continue
		}
		deps = append(deps, &store.SceneDependency{
			FromSceneID: curr.ID,
			ToSceneID:   prev.ID,
			Type:        store.DependencyTypeContinues,
			Strength:    0.9,
			Description: "continues directly from the previous scene",
		})
	}
	return deps
}

func sharesCharacter(a, b *sceneCast) bool {
	if a == nil || b == nil {
		return false
	}
	for id := range a.characterIDs {
		if b.characterIDs[id] {
			return true
		}
	}
	return false
}

func sortedCharacterIDs(cast *sceneCast) []int32 {
	ids := make([]int32, 0, len(cast.characterIDs))
	for id := range cast.characterIDs {
		ids = append(ids, id)
	}
	sort.Slice(ids, func(i, j int) bool { return ids[i] < ids[j] })
	return ids
}

// sceneLocation resolves the scene's setting, preferring the explicit
// location field and falling back to parsing the heading. A heading like
// "INT. OFFICE - DAY" yields "OFFICE".
func sceneLocation(scene *store.Scene) string {
	if scene.Location != "" {
		return strings.ToUpper(strings.TrimSpace(scene.Location))
	}
	heading := strings.ToUpper(strings.TrimSpace(scene.Heading))
	for _, prefix := range []string{"INT./EXT.", "INT/EXT.", "I/E.", "INT.", "EXT."} {
		if strings.HasPrefix(heading, prefix) {
			heading = strings.TrimSpace(strings.TrimPrefix(heading, prefix))
			break
		}
	}
	if idx := strings.Index(heading, " - "); idx >= 0 {
		heading = heading[:idx]
	}
	return strings.TrimSpace(heading)
}
