package play

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/mcoot/musicbingo/internal/model"
	"github.com/mcoot/musicbingo/internal/storage/memory"
	"github.com/mcoot/musicbingo/internal/testutil"
)

// slowStorage delays session reads the way a networked store would,
// widening the window between reading a session and writing it back
type slowStorage struct {
	*memory.Storage
	delay time.Duration
	reads chan struct{}
}

func (s *slowStorage) GetSession(ctx context.Context, id model.SessionID) (*model.PlaySession, error) {
	select {
	case s.reads <- struct{}{}:
	default:
	}
	time.Sleep(s.delay)
	return s.Storage.GetSession(ctx, id)
}

func (s *ControllerSuite) slowController() (*Controller, *slowStorage) {
	store := &slowStorage{Storage: s.storage, delay: 2 * time.Millisecond, reads: make(chan struct{}, 1)}
	c := NewController(store, s.clock, testutil.NopLogger())
	return c, store
}

func (s *ControllerSuite) TestConcurrentTogglesAreAllKept() {
	c, _ := s.slowController()
	session := s.start()

	var wg sync.WaitGroup
	for i := 0; i < 10; i++ {
		wg.Add(1)
		go func(artist string) {
			defer wg.Done()
			_, _, err := c.ToggleArtist(s.ctx, session.ID, artist)
			s.NoError(err)
		}(fmt.Sprintf("Artist %02d", i))
	}
	wg.Wait()

	stored, err := c.GetSession(s.ctx, session.ID)
	s.Require().NoError(err)
	s.Len(stored.Called, 10)
	s.Zero(c.locks.len())
}

func (s *ControllerSuite) TestConcurrentExclusionTogglesAreAllKept() {
	c, _ := s.slowController()
	session := s.start()

	var wg sync.WaitGroup
	for n := 1; n <= 8; n++ {
		wg.Add(1)
		go func(number int) {
			defer wg.Done()
			_, _, err := c.ToggleExcluded(s.ctx, session.ID, number)
			s.NoError(err)
		}(n)
	}
	wg.Wait()

	stored, err := c.GetSession(s.ctx, session.ID)
	s.Require().NoError(err)
	s.Equal([]int{1, 2, 3, 4, 5, 6, 7, 8}, stored.Excluded)
}

func (s *ControllerSuite) TestEndSessionWaitsForInFlightToggle() {
	c, store := s.slowController()
	session := s.start()

	done := make(chan error, 1)
	go func() {
		_, _, err := c.ToggleArtist(s.ctx, session.ID, "Artist 00")
		done <- err
	}()
	<-store.reads

	s.Require().NoError(c.EndSession(s.ctx, session.ID))
	s.Require().NoError(<-done)

	_, err := s.storage.GetSession(s.ctx, session.ID)
	s.ErrorIs(err, model.ErrSessionNotFound)
}

func (s *ControllerSuite) TestUpdatesAfterEndFail() {
	session := s.start()
	s.Require().NoError(s.controller.EndSession(s.ctx, session.ID))

	_, _, err := s.controller.ToggleArtist(s.ctx, session.ID, "Artist 00")
	s.ErrorIs(err, model.ErrSessionNotFound)
	_, _, err = s.controller.ToggleExcluded(s.ctx, session.ID, 1)
	s.ErrorIs(err, model.ErrSessionNotFound)
	s.Zero(s.controller.locks.len())
}
