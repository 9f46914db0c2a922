package service

import (
	"context"
	"testing"

	apperrors "bookit/internal/errors"
	"bookit/internal/models"
	"bookit/internal/service/servicetest"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func strPtr(s string) *string { return &s }
func intPtr(i int) *int       { return &i }

type fixture struct {
	theatres *TheatreService
	shows    *ShowService
	pub      *servicetest.Publisher
	purger   *servicetest.Purger
}

func newFixture() *fixture {
	theatreStore := servicetest.NewTheatres()
	showStore := servicetest.NewShows(theatreStore)
	pub := &servicetest.Publisher{}
	purger := &servicetest.Purger{}
	return &fixture{
		theatres: NewTheatreService(theatreStore, pub, purger),
		shows:    NewShowService(showStore, pub, purger),
		pub:      pub,
		purger:   purger,
	}
}

func (f *fixture) createTheatre(t *testing.T, name string) *models.Theatre {
	t.Helper()
	th, err := f.theatres.Create(context.Background(), &models.CreateTheatreRequest{
		Name: name, Place: "Downtown", Capacity: "200",
	})
	require.NoError(t, err)
	return th
}

func TestTheatreCreateThenGet(t *testing.T) {
	f := newFixture()
	ctx := context.Background()

	created := f.createTheatre(t, "Grand")
	assert.NotEmpty(t, created.ID)

	got, err := f.theatres.Get(ctx, created.ID)
	require.NoError(t, err)
	assert.Equal(t, created, got)
	assert.Equal(t, "200", got.Capacity)

	assert.Equal(t, 1, f.purger.Calls)
	assert.Equal(t, []string{models.EventTheatreCreated}, f.pub.Subjects)
}

func TestTheatreGetMissing(t *testing.T) {
	f := newFixture()
	_, err := f.theatres.Get(context.Background(), "nope")
	assert.ErrorIs(t, err, apperrors.ErrNotFound)
}

func TestTheatreUpdate(t *testing.T) {
	f := newFixture()
	ctx := context.Background()
	th := f.createTheatre(t, "Grand")

	t.Run("empty patch returns record unchanged", func(t *testing.T) {
		got, err := f.theatres.Update(ctx, th.ID, &models.UpdateTheatreRequest{})
		require.NoError(t, err)
		assert.Equal(t, th, got)
	})

	t.Run("field survives a later patch without it", func(t *testing.T) {
		_, err := f.theatres.Update(ctx, th.ID, &models.UpdateTheatreRequest{Name: strPtr("Royal")})
		require.NoError(t, err)
		got, err := f.theatres.Update(ctx, th.ID, &models.UpdateTheatreRequest{Place: strPtr("Uptown")})
		require.NoError(t, err)

		assert.Equal(t, "Royal", got.Name)
		assert.Equal(t, "Uptown", got.Place)
	})

	t.Run("missing theatre", func(t *testing.T) {
		_, err := f.theatres.Update(ctx, "nope", &models.UpdateTheatreRequest{Name: strPtr("X")})
		assert.ErrorIs(t, err, apperrors.ErrNotFound)
	})
}

func TestTheatreDelete(t *testing.T) {
	f := newFixture()
	ctx := context.Background()

	t.Run("unknown id is a no-op success", func(t *testing.T) {
		before := len(f.pub.Subjects)
		require.NoError(t, f.theatres.Delete(ctx, "unknown-id"))
		assert.Len(t, f.pub.Subjects, before)
	})

	t.Run("theatre with shows is restricted", func(t *testing.T) {
		th := f.createTheatre(t, "Busy")
		_, err := f.shows.Create(ctx, th.ID, &models.CreateShowRequest{Name: "Hamlet", Tags: "drama", TicketPrice: intPtr(10)})
		require.NoError(t, err)

		err = f.theatres.Delete(ctx, th.ID)
		assert.ErrorIs(t, err, apperrors.ErrConflict)
	})

	t.Run("empty theatre is removed", func(t *testing.T) {
		th := f.createTheatre(t, "Quiet")
		require.NoError(t, f.theatres.Delete(ctx, th.ID))

		_, err := f.theatres.Get(ctx, th.ID)
		assert.ErrorIs(t, err, apperrors.ErrNotFound)
	})
}

func TestShowCreateUsesPathTheatre(t *testing.T) {
	f := newFixture()
	ctx := context.Background()
	th := f.createTheatre(t, "Grand")

	show, err := f.shows.Create(ctx, th.ID, &models.CreateShowRequest{
		Name: "Hamlet", Rating: strPtr("PG"), Tags: "drama", TicketPrice: intPtr(40),
	})
	require.NoError(t, err)
	assert.Equal(t, th.ID, show.TheatreID)
	assert.Equal(t, 40, show.TicketPrice)

	_, err = f.shows.Create(ctx, "missing", &models.CreateShowRequest{Name: "Lost", Tags: "x", TicketPrice: intPtr(1)})
	assert.ErrorIs(t, err, apperrors.ErrConflict)
}

func TestShowListFiltersByTheatre(t *testing.T) {
	f := newFixture()
	ctx := context.Background()
	a := f.createTheatre(t, "A")
	b := f.createTheatre(t, "B")

	for _, tid := range []string{a.ID, a.ID, b.ID} {
		_, err := f.shows.Create(ctx, tid, &models.CreateShowRequest{Name: "S", Tags: "t", TicketPrice: intPtr(5)})
		require.NoError(t, err)
	}

	all, err := f.shows.List(ctx, "")
	require.NoError(t, err)
	assert.Len(t, all, 3)

	onlyA, err := f.shows.List(ctx, a.ID)
	require.NoError(t, err)
	assert.Len(t, onlyA, 2)
	for _, s := range onlyA {
		assert.Equal(t, a.ID, s.TheatreID)
	}
}

func TestShowUpdate(t *testing.T) {
	f := newFixture()
	ctx := context.Background()
	a := f.createTheatre(t, "A")
	b := f.createTheatre(t, "B")
	show, err := f.shows.Create(ctx, a.ID, &models.CreateShowRequest{Name: "Hamlet", Tags: "drama", TicketPrice: intPtr(40)})
	require.NoError(t, err)

	t.Run("reassign to existing theatre", func(t *testing.T) {
		got, err := f.shows.Update(ctx, show.ID, &models.UpdateShowRequest{TheatreID: strPtr(b.ID), TicketPrice: intPtr(0)})
		require.NoError(t, err)
		assert.Equal(t, b.ID, got.TheatreID)
		assert.Equal(t, 0, got.TicketPrice)
		assert.Equal(t, "Hamlet", got.Name)
	})

	t.Run("reassign to missing theatre conflicts", func(t *testing.T) {
		_, err := f.shows.Update(ctx, show.ID, &models.UpdateShowRequest{TheatreID: strPtr("ghost")})
		assert.ErrorIs(t, err, apperrors.ErrConflict)

		got, err := f.shows.Get(ctx, show.ID)
		require.NoError(t, err)
		assert.Equal(t, b.ID, got.TheatreID)
	})

	t.Run("missing show", func(t *testing.T) {
		_, err := f.shows.Update(ctx, "nope", &models.UpdateShowRequest{Name: strPtr("X")})
		assert.ErrorIs(t, err, apperrors.ErrNotFound)
	})
}

func TestShowDelete(t *testing.T) {
	f := newFixture()
	ctx := context.Background()
	th := f.createTheatre(t, "A")
	show, err := f.shows.Create(ctx, th.ID, &models.CreateShowRequest{Name: "S", Tags: "t", TicketPrice: intPtr(5)})
	require.NoError(t, err)

	require.NoError(t, f.shows.Delete(ctx, show.ID))
	require.NoError(t, f.shows.Delete(ctx, show.ID))

	_, err = f.shows.Get(ctx, show.ID)
	assert.ErrorIs(t, err, apperrors.ErrNotFound)
	assert.Equal(t, models.EventShowDeleted, f.pub.Subjects[len(f.pub.Subjects)-1])
}
