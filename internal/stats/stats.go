// Package stats derives aggregate numbers from a project list.
package stats

import (
	"sort"
	"time"

	"github.com/garnizeh/weboff/pkg/models"
)

// TopN is how many technologies the ranking keeps.
const TopN = 10

// Compute counts active and inactive projects and ranks skill names by how many projects use
// them. Ties keep the order in which the names were first seen.
func Compute(projects []models.Project, now time.Time) models.Stats {
	active := 0
	for _, p := range projects {
		if p.IsActive {
			active++
		}
	}

	return models.Stats{
		Total:           len(projects),
		Active:          active,
		Inactive:        len(projects) - active,
		TopTechnologies: TopTechnologies(projects, TopN),
		LastUpdated:     now.UTC(),
	}
}

// TopTechnologies tallies one hit per project-skill pairing and returns at most n entries,
// most used first.
func TopTechnologies(projects []models.Project, n int) []models.TechCount {
	index := map[string]int{}
	var tally []models.TechCount
	for _, p := range projects {
		for _, s := range p.Skills {
			i, ok := index[s.Name]
			if !ok {
				i = len(tally)
				index[s.Name] = i
				tally = append(tally, models.TechCount{Tech: s.Name})
			}
			tally[i].Count++
		}
	}

	sort.SliceStable(tally, func(a, b int) bool { return tally[a].Count > tally[b].Count })

	if n >= 0 && len(tally) > n {
		tally = tally[:n]
	}
	if tally == nil {
		tally = []models.TechCount{}
	}
	return tally
}
