// Package servicetest provides in-memory stores for exercising services and
// handlers without PostgreSQL.
package servicetest

import (
	"context"
	"fmt"
	"sync"

	apperrors "bookit/internal/errors"
	"bookit/internal/models"
)

type Users struct {
	mu    sync.Mutex
	seq   int
	Users []models.User
}

func (f *Users) Create(_ context.Context, user *models.User) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.seq++
	user.ID = fmt.Sprintf("u%d", f.seq)
	f.Users = append(f.Users, *user)
	return nil
}

func (f *Users) GetByUsername(_ context.Context, username string) (*models.User, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, u := range f.Users {
		if u.Username == username {
			u := u
			return &u, nil
		}
	}
	return nil, apperrors.ErrNotFound
}

type Theatres struct {
	// ListErr, when set, is returned by List.
	ListErr error

	mu       sync.Mutex
	seq      int
	theatres map[string]models.Theatre
	shows    *Shows
}

func NewTheatres() *Theatres {
	return &Theatres{theatres: map[string]models.Theatre{}}
}

func (f *Theatres) exists(id string) bool {
	f.mu.Lock()
	defer f.mu.Unlock()
	_, ok := f.theatres[id]
	return ok
}

func (f *Theatres) Create(_ context.Context, t *models.Theatre) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.seq++
	t.ID = fmt.Sprintf("t%d", f.seq)
	f.theatres[t.ID] = *t
	return nil
}

func (f *Theatres) List(_ context.Context) ([]models.Theatre, error) {
	if f.ListErr != nil {
		return nil, f.ListErr
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	out := []models.Theatre{}
	for _, t := range f.theatres {
		out = append(out, t)
	}
	return out, nil
}

func (f *Theatres) GetByID(_ context.Context, id string) (*models.Theatre, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	t, ok := f.theatres[id]
	if !ok {
		return nil, apperrors.ErrNotFound
	}
	return &t, nil
}

func (f *Theatres) Update(_ context.Context, t *models.Theatre) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if _, ok := f.theatres[t.ID]; !ok {
		return apperrors.ErrNotFound
	}
	f.theatres[t.ID] = *t
	return nil
}

func (f *Theatres) Delete(_ context.Context, id string) (bool, error) {
	if f.shows != nil && f.shows.ownedBy(id) {
		return false, apperrors.ErrConflict
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	if _, ok := f.theatres[id]; !ok {
		return false, nil
	}
	delete(f.theatres, id)
	return true, nil
}

// Shows enforces the theatre foreign key like the real schema.
type Shows struct {
	mu       sync.Mutex
	seq      int
	shows    map[string]models.Show
	theatres *Theatres
}

func NewShows(theatres *Theatres) *Shows {
	f := &Shows{shows: map[string]models.Show{}, theatres: theatres}
	theatres.shows = f
	return f
}

func (f *Shows) ownedBy(theatreID string) bool {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, s := range f.shows {
		if s.TheatreID == theatreID {
			return true
		}
	}
	return false
}

func (f *Shows) Create(_ context.Context, s *models.Show) error {
	if !f.theatres.exists(s.TheatreID) {
		return apperrors.ErrConflict
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	f.seq++
	s.ID = fmt.Sprintf("s%d", f.seq)
	f.shows[s.ID] = *s
	return nil
}

func (f *Shows) List(_ context.Context, theatreID string) ([]models.Show, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	out := []models.Show{}
	for _, s := range f.shows {
		if theatreID == "" || s.TheatreID == theatreID {
			out = append(out, s)
		}
	}
	return out, nil
}

func (f *Shows) GetByID(_ context.Context, id string) (*models.Show, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	s, ok := f.shows[id]
	if !ok {
		return nil, apperrors.ErrNotFound
	}
	return &s, nil
}

func (f *Shows) Update(_ context.Context, s *models.Show) error {
	if !f.theatres.exists(s.TheatreID) {
		return apperrors.ErrConflict
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	if _, ok := f.shows[s.ID]; !ok {
		return apperrors.ErrNotFound
	}
	f.shows[s.ID] = *s
	return nil
}

func (f *Shows) Delete(_ context.Context, id string) (bool, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if _, ok := f.shows[id]; !ok {
		return false, nil
	}
	delete(f.shows, id)
	return true, nil
}

type Publisher struct {
	mu       sync.Mutex
	Subjects []string
	Payloads []any
}

func (p *Publisher) Publish(subject string, data any) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.Subjects = append(p.Subjects, subject)
	p.Payloads = append(p.Payloads, data)
	return nil
}

type Purger struct {
	Calls int
}

func (c *Purger) PurgeAll(context.Context) (int, error) {
	c.Calls++
	return 0, nil
}
