package vote

import (
	"sync"
	"testing"

	"argot/internal/identity"
	"argot/internal/models"
	"argot/internal/testutil"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

func approvedWord(t *testing.T, g *gorm.DB) *models.Word {
	t.Helper()
	w := models.Word{Term: "yeet", Definition: "to throw with force", Status: models.StatusApproved}
	require.NoError(t, g.Create(&w).Error)
	return &w
}

func pendingWord(t *testing.T, g *gorm.DB) *models.Word {
	t.Helper()
	w := models.Word{Term: "sus", Definition: "suspicious", Status: models.StatusPending}
	require.NoError(t, g.Create(&w).Error)
	return &w
}

func wordComment(t *testing.T, g *gorm.DB, wordID uint) *models.Comment {
	t.Helper()
	c := models.Comment{WordID: wordID, Author: "Anonymous", Body: "heard this one yesterday"}
	require.NoError(t, g.Create(&c).Error)
	return &c
}

func accountVoter(t *testing.T, g *gorm.DB, name string) identity.Identity {
	t.Helper()
	u := models.User{Username: name, Email: name + "@example.com", Password: "x"}
	require.NoError(t, g.Create(&u).Error)
	return identity.Identity{UserID: u.ID, Token: uuid.NewString()}
}

func anonVoter() identity.Identity {
	return identity.Identity{Token: uuid.NewString()}
}

func wordScore(t *testing.T, g *gorm.DB, id uint) int {
	t.Helper()
	var w models.Word
	require.NoError(t, g.First(&w, id).Error)
	return w.Score
}

func ledgerRows(t *testing.T, g *gorm.DB, kind models.Kind, id uint) []models.Vote {
	t.Helper()
	var rows []models.Vote
	col := "word_id"
	if kind == models.KindComment {
		col = "comment_id"
	}
	require.NoError(t, g.Where(col+" = ?", id).Find(&rows).Error)
	return rows
}

func TestToggleCreatesVote(t *testing.T) {
	g := testutil.SetupTestDB(t)
	s := NewService(g)
	w := approvedWord(t, g)

	score, outcome, err := s.Toggle(models.KindWord, w.ID, anonVoter(), ActionLike)
	require.NoError(t, err)
	assert.Equal(t, 1, score)
	assert.Equal(t, AppliedLiked, outcome)

	rows := ledgerRows(t, g, models.KindWord, w.ID)
	require.Len(t, rows, 1)
	assert.Equal(t, 1, rows[0].Value)
	assert.Nil(t, rows[0].UserID)
	assert.Equal(t, 1, wordScore(t, g, w.ID))
}

func TestToggleOffLaw(t *testing.T) {
	g := testutil.SetupTestDB(t)
	s := NewService(g)
	w := approvedWord(t, g)
	voter := anonVoter()

	_, _, err := s.Toggle(models.KindWord, w.ID, voter, ActionLike)
	require.NoError(t, err)

	score, outcome, err := s.Toggle(models.KindWord, w.ID, voter, ActionLike)
	require.NoError(t, err)
	assert.Equal(t, 0, score)
	assert.Equal(t, AppliedNone, outcome)
	assert.Empty(t, ledgerRows(t, g, models.KindWord, w.ID))
	assert.Equal(t, 0, wordScore(t, g, w.ID))
}

func TestSwitchLaw(t *testing.T) {
	g := testutil.SetupTestDB(t)
	s := NewService(g)
	w := approvedWord(t, g)
	voter := anonVoter()

	score, _, err := s.Toggle(models.KindWord, w.ID, voter, ActionLike)
	require.NoError(t, err)
	require.Equal(t, 1, score)

	score, outcome, err := s.Toggle(models.KindWord, w.ID, voter, ActionDislike)
	require.NoError(t, err)
	assert.Equal(t, -1, score, "the swing crosses zero, so the score moves by 2")
	assert.Equal(t, AppliedDisliked, outcome)

	rows := ledgerRows(t, g, models.KindWord, w.ID)
	require.Len(t, rows, 1)
	assert.Equal(t, -1, rows[0].Value)
}

func TestGateLaw(t *testing.T) {
	g := testutil.SetupTestDB(t)
	s := NewService(g)
	w := pendingWord(t, g)

	_, _, err := s.Toggle(models.KindWord, w.ID, anonVoter(), ActionLike)
	assert.ErrorIs(t, err, ErrNotVotable)
	assert.Empty(t, ledgerRows(t, g, models.KindWord, w.ID))
	assert.Equal(t, 0, wordScore(t, g, w.ID))
}

func TestToggleUnknownTarget(t *testing.T) {
	g := testutil.SetupTestDB(t)
	s := NewService(g)

	_, _, err := s.Toggle(models.KindWord, 9999, anonVoter(), ActionLike)
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestToggleInvalidAction(t *testing.T) {
	g := testutil.SetupTestDB(t)
	s := NewService(g)
	w := approvedWord(t, g)

	_, err := ParseAction("upvote")
	assert.ErrorIs(t, err, ErrInvalidAction)

	_, _, err = s.Toggle(models.KindWord, w.ID, anonVoter(), Action("upvote"))
	assert.ErrorIs(t, err, ErrInvalidAction)
	assert.Empty(t, ledgerRows(t, g, models.KindWord, w.ID))
}

func TestCommentsAlwaysVotable(t *testing.T) {
	g := testutil.SetupTestDB(t)
	s := NewService(g)
	w := approvedWord(t, g)
	cm := wordComment(t, g, w.ID)

	score, outcome, err := s.Toggle(models.KindComment, cm.ID, anonVoter(), ActionDislike)
	require.NoError(t, err)
	assert.Equal(t, -1, score)
	assert.Equal(t, AppliedDisliked, outcome)

	var got models.Comment
	require.NoError(t, g.First(&got, cm.ID).Error)
	assert.Equal(t, -1, got.Score)
	assert.Equal(t, 0, wordScore(t, g, w.ID), "comment votes never touch the word score")
}

// The worked sequence: A likes, B dislikes, A repeats (clearing the like).
func TestWorkedScenario(t *testing.T) {
	g := testutil.SetupTestDB(t)
	s := NewService(g)
	w := approvedWord(t, g)
	voterA := anonVoter()
	voterB := anonVoter()

	score, _, err := s.Toggle(models.KindWord, w.ID, voterA, ActionLike)
	require.NoError(t, err)
	assert.Equal(t, 1, score)

	score, _, err = s.Toggle(models.KindWord, w.ID, voterB, ActionDislike)
	require.NoError(t, err)
	assert.Equal(t, 0, score)

	score, outcome, err := s.Toggle(models.KindWord, w.ID, voterA, ActionLike)
	require.NoError(t, err)
	assert.Equal(t, -1, score)
	assert.Equal(t, AppliedNone, outcome)

	rows := ledgerRows(t, g, models.KindWord, w.ID)
	require.Len(t, rows, 1)
	assert.Equal(t, -1, rows[0].Value)

	ledgerSum, err := s.RecomputeScore(models.KindWord, w.ID)
	require.NoError(t, err)
	assert.Equal(t, wordScore(t, g, w.ID), ledgerSum)
}

// N distinct voters liking the same fresh item concurrently must land on
// exactly N, with exactly N ledger rows, regardless of interleaving.
func TestConcurrentDistinctVoters(t *testing.T) {
	g := testutil.SetupTestDB(t)
	s := NewService(g)
	w := approvedWord(t, g)

	const voters = 12
	var wg sync.WaitGroup
	errs := make(chan error, voters)

	for i := 0; i < voters; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, _, err := s.Toggle(models.KindWord, w.ID, anonVoter(), ActionLike)
			errs <- err
		}()
	}
	wg.Wait()
	close(errs)

	for err := range errs {
		require.NoError(t, err)
	}

	assert.Equal(t, voters, wordScore(t, g, w.ID))
	assert.Len(t, ledgerRows(t, g, models.KindWord, w.ID), voters)

	ledgerSum, err := s.RecomputeScore(models.KindWord, w.ID)
	require.NoError(t, err)
	assert.Equal(t, voters, ledgerSum)
}

// One voter hammering the toggle concurrently serializes on the item's row
// lock; whatever order wins, the score must equal the ledger sum afterwards
// and at most one row may survive.
func TestConcurrentSameVoterKeepsInvariant(t *testing.T) {
	g := testutil.SetupTestDB(t)
	s := NewService(g)
	w := approvedWord(t, g)
	voter := anonVoter()

	const attempts = 8
	var wg sync.WaitGroup
	for i := 0; i < attempts; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, _, _ = s.Toggle(models.KindWord, w.ID, voter, ActionLike)
		}()
	}
	wg.Wait()

	rows := ledgerRows(t, g, models.KindWord, w.ID)
	assert.LessOrEqual(t, len(rows), 1)

	ledgerSum, err := s.RecomputeScore(models.KindWord, w.ID)
	require.NoError(t, err)
	assert.Equal(t, wordScore(t, g, w.ID), ledgerSum)
}

func TestAccountClaimsStrayAnonymousRow(t *testing.T) {
	g := testutil.SetupTestDB(t)
	s := NewService(g)
	w := approvedWord(t, g)

	anon := anonVoter()
	_, _, err := s.Toggle(models.KindWord, w.ID, anon, ActionLike)
	require.NoError(t, err)

	// Same browser session, now logged in: the stray anonymous row is
	// claimed inside the toggle rather than duplicated.
	logged := accountVoter(t, g, "greta")
	logged.Token = anon.Token

	score, outcome, err := s.Toggle(models.KindWord, w.ID, logged, ActionDislike)
	require.NoError(t, err)
	assert.Equal(t, -1, score)
	assert.Equal(t, AppliedDisliked, outcome)

	rows := ledgerRows(t, g, models.KindWord, w.ID)
	require.Len(t, rows, 1)
	require.NotNil(t, rows[0].UserID)
	assert.Equal(t, logged.UserID, *rows[0].UserID)
	assert.Equal(t, -1, rows[0].Value)
	assert.Nil(t, rows[0].SessionToken, "a claimed row sheds its session token")
}

func TestAccountRowsCarryNoToken(t *testing.T) {
	g := testutil.SetupTestDB(t)
	s := NewService(g)
	w := approvedWord(t, g)
	logged := accountVoter(t, g, "oktay")

	_, _, err := s.Toggle(models.KindWord, w.ID, logged, ActionLike)
	require.NoError(t, err)

	rows := ledgerRows(t, g, models.KindWord, w.ID)
	require.Len(t, rows, 1)
	require.NotNil(t, rows[0].UserID)
	assert.Nil(t, rows[0].SessionToken)
}

func TestUserActionsBatch(t *testing.T) {
	g := testutil.SetupTestDB(t)
	s := NewService(g)
	w1 := approvedWord(t, g)
	w2 := approvedWord(t, g)
	w3 := approvedWord(t, g)
	voter := anonVoter()

	_, _, err := s.Toggle(models.KindWord, w1.ID, voter, ActionLike)
	require.NoError(t, err)
	_, _, err = s.Toggle(models.KindWord, w2.ID, voter, ActionDislike)
	require.NoError(t, err)

	actions, err := s.UserActions(models.KindWord, []uint{w1.ID, w2.ID, w3.ID}, voter)
	require.NoError(t, err)
	assert.Equal(t, ActionLike, actions[w1.ID])
	assert.Equal(t, ActionDislike, actions[w2.ID])
	_, voted := actions[w3.ID]
	assert.False(t, voted)

	// Another identity sees nothing.
	actions, err = s.UserActions(models.KindWord, []uint{w1.ID, w2.ID}, anonVoter())
	require.NoError(t, err)
	assert.Empty(t, actions)

	actions, err = s.UserActions(models.KindWord, nil, voter)
	require.NoError(t, err)
	assert.Empty(t, actions)
}
