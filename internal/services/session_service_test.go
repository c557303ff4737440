package services

import (
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/fffffranco2-lgtm/drink-cost-calculator-sub000/internal/models"
)

func TestSessionOpenCreatesWhenNoneActive(t *testing.T) {
	repo := newFakeSessionRepo()
	svc := NewSessionService(repo, nil)

	session, err := svc.Open()
	require.NoError(t, err)
	assert.NotEmpty(t, session.Code)
	assert.True(t, session.IsOpen())
	assert.Equal(t, 1, repo.openCount())
}

func TestSessionOpenIsIdempotent(t *testing.T) {
	repo := newFakeSessionRepo()
	svc := NewSessionService(repo, nil)

	first, err := svc.Open()
	require.NoError(t, err)
	second, err := svc.Open()
	require.NoError(t, err)

	assert.Equal(t, first.ID, second.ID)
	assert.Equal(t, first.Code, second.Code)
	assert.Equal(t, 1, repo.openCount())
}

func TestSessionOpenRetriesCodeCollision(t *testing.T) {
	repo := newFakeSessionRepo()
	repo.dupOnNextInserts = 2
	svc := NewSessionService(repo, nil)

	session, err := svc.Open()
	require.NoError(t, err)
	assert.True(t, session.IsOpen())
	assert.Equal(t, 1, repo.openCount())
}

func TestSessionOpenConcurrentCallersShareOneSession(t *testing.T) {
	repo := newFakeSessionRepo()
	svc := NewSessionService(repo, nil)

	type result struct {
		session *models.OrderSession
		err     error
	}

	const callers = 16
	results := make([]result, callers)
	var wg sync.WaitGroup
	for i := 0; i < callers; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			session, err := svc.Open()
			results[i] = result{session: session, err: err}
		}(i)
	}
	wg.Wait()

	require.Equal(t, 1, repo.openCount(), "the open-session slot admits exactly one winner")
	for _, r := range results {
		require.NoError(t, r.err)
		require.NotNil(t, r.session)
		assert.Equal(t, results[0].session.Code, r.session.Code, "every caller must observe the same session")
	}
}

func TestSessionCloseStampsActiveSession(t *testing.T) {
	repo := newFakeSessionRepo()
	svc := NewSessionService(repo, nil)

	opened, err := svc.Open()
	require.NoError(t, err)

	closed, err := svc.Close()
	require.NoError(t, err)
	require.NotNil(t, closed)
	assert.Equal(t, opened.ID, closed.ID)
	assert.NotNil(t, closed.ClosedAt)
	assert.Equal(t, 0, repo.openCount())

	// Closed sessions stay on record; a new open starts a fresh one.
	reopened, err := svc.Open()
	require.NoError(t, err)
	assert.NotEqual(t, opened.ID, reopened.ID)
}

func TestSessionCloseWithNoneActiveIsNoOp(t *testing.T) {
	repo := newFakeSessionRepo()
	svc := NewSessionService(repo, nil)

	session, err := svc.Close()
	require.NoError(t, err)
	assert.Nil(t, session)
}
