package sequence

import (
	"context"
	"sort"
	"strings"

	"github.com/screenplot/screenplot/store"
)

// Scoring offsets for temporal inference. Flashback and flashforward
// markers dominate every other signal; time-of-day keywords only break
// ties between scenes with the same script position.
const (
	scriptOrderWeight  = 100
	flashbackOffset    = -10000
	flashforwardOffset = 10000
)

var flashbackMarkers = []string{
	"FLASHBACK",
	"YEARS EARLIER",
	"YEARS AGO",
	"EARLIER THAT",
}

var flashforwardMarkers = []string{
	"FLASH FORWARD",
	"FLASHFORWARD",
	"FLASH-FORWARD",
	"YEARS LATER",
}

// timeOfDayRanks nudge a scene's score within its script slot so that a
// dawn scene sorts before a night scene at the same position. Longer
// keywords come first so "MIDNIGHT" wins over "NIGHT" and "NIGHT" over
// "DAY" when matching against headings.
var timeOfDayRanks = []struct {
	keyword string
	rank    int
}{
	{"MIDNIGHT", 3},
	{"AFTERNOON", 1},
	{"MORNING", -2},
	{"SUNRISE", -3},
	{"SUNSET", 2},
	{"EVENING", 2},
	{"NIGHT", 3},
	{"DAWN", -3},
	{"DUSK", 2},
	{"NOON", -1},
	{"DAY", -1},
}

type temporalScore struct {
	scene *store.Scene
	score int
}

// InferTemporalOrder assigns story-time positions to every scene of the
// script using heading and content heuristics, then persists the result
// and mirrors it as FOLLOWS edges in the graph.
func (s *Service) InferTemporalOrder(ctx context.Context, scriptID int32) ([]*store.Scene, error) {
	scenes, err := s.EnsureScriptOrder(ctx, scriptID)
	if err != nil {
		return nil, err
	}
	if len(scenes) == 0 {
		return scenes, nil
	}

	scored := make([]temporalScore, 0, len(scenes))
	for _, scene := range scenes {
		scored = append(scored, temporalScore{scene: scene, score: temporalScoreOf(scene)})
	}
	sort.SliceStable(scored, func(i, j int) bool {
		if scored[i].score != scored[j].score {
			return scored[i].score < scored[j].score
		}
		return *scored[i].scene.ScriptOrder < *scored[j].scene.ScriptOrder
	})

	ordered := make([]*store.Scene, 0, len(scored))
	updates := make([]*store.UpdateSceneOrder, 0, len(scored))
	for i, entry := range scored {
		order := int32(i + 1)
		entry.scene.TemporalOrder = &order
		ordered = append(ordered, entry.scene)
		updates = append(updates, &store.UpdateSceneOrder{
			SceneID: entry.scene.ID,
			Type:    store.OrderTypeTemporal,
			Value:   &order,
		})
	}
	if err := s.store.UpdateSceneOrders(ctx, updates); err != nil {
		return nil, err
	}
	if err := s.mirrorFollows(ctx, ordered, store.OrderTypeTemporal); err != nil {
		return nil, err
	}
	return ordered, nil
}

func temporalScoreOf(scene *store.Scene) int {
	score := int(*scene.ScriptOrder) * scriptOrderWeight

	heading := strings.ToUpper(scene.Heading)
	content := strings.ToUpper(scene.Content)
	if containsAny(heading, flashbackMarkers) || containsAny(content, flashbackMarkers) {
		score += flashbackOffset
	}
	if containsAny(heading, flashforwardMarkers) || containsAny(content, flashforwardMarkers) {
		score += flashforwardOffset
	}

	timeOfDay := strings.ToUpper(strings.TrimSpace(scene.TimeOfDay))
	for _, entry := range timeOfDayRanks {
		if timeOfDay == entry.keyword || (timeOfDay == "" && strings.Contains(heading, entry.keyword)) {
			score += entry.rank
			break
		}
	}
	return score
}

func containsAny(text string, markers []string) bool {
	for _, marker := range markers {
		if strings.Contains(text, marker) {
			return true
		}
	}
	return false
}
