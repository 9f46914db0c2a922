package main

import (
	"context"
	"fmt"
	"log/slog"
	"math/rand"
	"strconv"

	"bookit/internal/models"
	"bookit/internal/service"
)

var (
	theatreNames = []string{"Grand", "Royal", "Globe", "Lyceum", "Apollo", "Majestic", "Empire", "Palace"}
	places       = []string{"Downtown", "Old Town", "Riverside", "Harbour", "Uptown", "West End"}
	showNames    = []string{"Hamlet", "Macbeth", "The Seagull", "Cats", "Les Miserables", "Swan Lake", "Carmen", "Tosca"}
	ratings      = []string{"G", "PG", "PG-13", "R"}
	tagSets      = []string{"drama", "comedy", "musical", "ballet", "opera", "drama,classic", "family"}
)

// TheatrePlan is one theatre and the shows it will own.
type TheatrePlan struct {
	Theatre models.Theatre
	Shows   []models.Show
}

// BuildPlan generates n theatres with 1..maxShows shows each.
func BuildPlan(rng *rand.Rand, n, maxShows int) []TheatrePlan {
	if maxShows < 1 {
		maxShows = 1
	}
	plan := make([]TheatrePlan, 0, n)
	for i := 0; i < n; i++ {
		tp := TheatrePlan{
			Theatre: models.Theatre{
				Name:     fmt.Sprintf("%s Theatre %d", theatreNames[rng.Intn(len(theatreNames))], i+1),
				Place:    places[rng.Intn(len(places))],
				Capacity: strconv.Itoa((rng.Intn(19) + 2) * 50),
			},
		}

		for j := rng.Intn(maxShows) + 1; j > 0; j-- {
			show := models.Show{
				Name:        showNames[rng.Intn(len(showNames))],
				Tags:        tagSets[rng.Intn(len(tagSets))],
				TicketPrice: generateTicketPrice(rng),
			}
			// примерно каждое четвертое шоу без рейтинга
			if rng.Intn(4) != 0 {
				rating := ratings[rng.Intn(len(ratings))]
				show.Rating = &rating
			}
			tp.Shows = append(tp.Shows, show)
		}
		plan = append(plan, tp)
	}
	return plan
}

func generateTicketPrice(rng *rand.Rand) int {
	return 10 + rng.Intn(19)*5
}

type Seeder struct {
	theatres service.TheatreStore
	shows    service.ShowStore
}

func NewSeeder(theatres service.TheatreStore, shows service.ShowStore) *Seeder {
	return &Seeder{theatres: theatres, shows: shows}
}

// Apply stores the plan and returns how many theatres and shows were created.
func (s *Seeder) Apply(ctx context.Context, plan []TheatrePlan) (int, int, error) {
	theatres, shows := 0, 0
	for _, tp := range plan {
		theatre := tp.Theatre
		if err := s.theatres.Create(ctx, &theatre); err != nil {
			return theatres, shows, fmt.Errorf("failed to create theatre %q: %w", theatre.Name, err)
		}
		theatres++

		for _, sh := range tp.Shows {
			sh.TheatreID = theatre.ID
			if err := s.shows.Create(ctx, &sh); err != nil {
				return theatres, shows, fmt.Errorf("failed to create show %q: %w", sh.Name, err)
			}
			shows++
		}
		slog.Info("Generated theatre", "theatre_id", theatre.ID, "name", theatre.Name, "shows", len(tp.Shows))
	}
	return theatres, shows, nil
}
