package judging

import (
	"sort"

	"github.com/abrezinsky/hackjudge/internal/models"
)

// RankDemo ranks teams by demo score, highest first. Equal scores keep their
// input order, so tie order depends on how the caller fetched the teams.
func RankDemo(teams []models.Team) []models.Standing {
	sorted := make([]models.Team, len(teams))
	copy(sorted, teams)
	sort.SliceStable(sorted, func(i, j int) bool {
		return sorted[i].DemoScore > sorted[j].DemoScore
	})

	standings := make([]models.Standing, len(sorted))
	for i, t := range sorted {
		standings[i] = models.Standing{
			TeamID:     t.ID,
			TeamName:   t.Name,
			Score:      t.DemoScore,
			Rank:       i + 1,
			TotalTeams: len(sorted),
			Judged:     t.DemoScoreConfidence,
		}
	}
	return standings
}

// RankPitching ranks teams by the mean overall score of their results.
// Teams without results are left out of the ranking entirely.
func RankPitching(teams []models.Team, results []models.Result) []models.Standing {
	sums := make(map[int]float64)
	counts := make(map[int]int)
	for _, r := range results {
		sums[r.TeamID] += r.OverallScore
		counts[r.TeamID]++
	}

	var standings []models.Standing
	for _, t := range teams {
		n := counts[t.ID]
		if n == 0 {
			continue
		}
		standings = append(standings, models.Standing{
			TeamID:   t.ID,
			TeamName: t.Name,
			Score:    sums[t.ID] / float64(n),
			Judged:   n,
		})
	}

	sort.SliceStable(standings, func(i, j int) bool {
		return standings[i].Score > standings[j].Score
	})
	for i := range standings {
		standings[i].Rank = i + 1
		standings[i].TotalTeams = len(standings)
	}
	return standings
}

// Rank dispatches to the regime that matches the event type.
func Rank(eventType string, teams []models.Team, results []models.Result) []models.Standing {
	if IsDemoEvent(eventType) {
		return RankDemo(teams)
	}
	return RankPitching(teams, results)
}
