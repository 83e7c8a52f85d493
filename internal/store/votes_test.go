package store

import (
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/agentryleigh/decoherence-log/backend/internal/models"
)

func TestCast_FirstVote(t *testing.T) {
	db := newTestDB(t)
	ledger := NewVoteLedger(db)
	author := createTestUser(t, db, "ryleigh")
	voter := createTestUser(t, db, "okabe")
	post := createTestPost(t, db, author, "sighting", "time")

	result, err := ledger.Cast(voter.ID, post.ID, models.VoteProton)
	require.NoError(t, err)
	assert.Equal(t, VoteApplied, result)

	got, err := NewPostStore(db).Get(post.ID)
	require.NoError(t, err)
	assert.Equal(t, 1, got.Protons)
	assert.Zero(t, got.Electrons)
	assert.Zero(t, got.Neutrons)

	vote, err := ledger.Get(voter.ID, post.ID)
	require.NoError(t, err)
	assert.Equal(t, models.VoteProton, vote.Kind)
}

func TestCast_SameKindIsUnchanged(t *testing.T) {
	db := newTestDB(t)
	ledger := NewVoteLedger(db)
	author := createTestUser(t, db, "ryleigh")
	voter := createTestUser(t, db, "okabe")
	post := createTestPost(t, db, author, "sighting", "time")

	_, err := ledger.Cast(voter.ID, post.ID, models.VoteNeutron)
	require.NoError(t, err)

	result, err := ledger.Cast(voter.ID, post.ID, models.VoteNeutron)
	require.NoError(t, err)
	assert.Equal(t, VoteUnchanged, result)

	// Idempotent, not a toggle-off: the counter holds.
	got, err := NewPostStore(db).Get(post.ID)
	require.NoError(t, err)
	assert.Equal(t, 1, got.Neutrons)
}

func TestCast_SwitchMovesOneUnit(t *testing.T) {
	db := newTestDB(t)
	ledger := NewVoteLedger(db)
	author := createTestUser(t, db, "ryleigh")
	voter := createTestUser(t, db, "okabe")
	post := createTestPost(t, db, author, "sighting", "time")

	_, err := ledger.Cast(voter.ID, post.ID, models.VoteProton)
	require.NoError(t, err)

	result, err := ledger.Cast(voter.ID, post.ID, models.VoteElectron)
	require.NoError(t, err)
	assert.Equal(t, VoteApplied, result)

	got, err := NewPostStore(db).Get(post.ID)
	require.NoError(t, err)
	assert.Zero(t, got.Protons)
	assert.Equal(t, 1, got.Electrons)

	vote, err := ledger.Get(voter.ID, post.ID)
	require.NoError(t, err)
	assert.Equal(t, models.VoteElectron, vote.Kind)
}

func TestCast_OneRowPerUserPerPost(t *testing.T) {
	db := newTestDB(t)
	ledger := NewVoteLedger(db)
	author := createTestUser(t, db, "ryleigh")
	voter := createTestUser(t, db, "okabe")
	post := createTestPost(t, db, author, "sighting", "time")

	sequence := []string{
		models.VoteProton, models.VoteElectron, models.VoteElectron,
		models.VoteNeutron, models.VoteProton, models.VoteProton,
	}
	for _, kind := range sequence {
		_, err := ledger.Cast(voter.ID, post.ID, kind)
		require.NoError(t, err)
	}

	var count int64
	db.Model(&models.Vote{}).Where("user_id = ? AND post_id = ?", voter.ID, post.ID).Count(&count)
	assert.EqualValues(t, 1, count)

	// The stored kind matches the last applied cast.
	vote, err := ledger.Get(voter.ID, post.ID)
	require.NoError(t, err)
	assert.Equal(t, models.VoteProton, vote.Kind)
}

func TestCast_CounterConservation(t *testing.T) {
	db := newTestDB(t)
	ledger := NewVoteLedger(db)
	author := createTestUser(t, db, "ryleigh")
	post := createTestPost(t, db, author, "sighting", "time")

	kinds := []string{models.VoteProton, models.VoteElectron, models.VoteNeutron}
	const voters = 7
	for i := 0; i < voters; i++ {
		voter := createTestUser(t, db, fmt.Sprintf("witness%d", i))
		// Each voter casts three times, switching around.
		for j := 0; j < 3; j++ {
			_, err := ledger.Cast(voter.ID, post.ID, kinds[(i+j)%len(kinds)])
			require.NoError(t, err)
		}
	}

	got, err := NewPostStore(db).Get(post.ID)
	require.NoError(t, err)
	assert.Equal(t, voters, got.Protons+got.Electrons+got.Neutrons,
		"switching must never double-count or lose a unit")

	var rows int64
	db.Model(&models.Vote{}).Where("post_id = ?", post.ID).Count(&rows)
	assert.EqualValues(t, voters, rows)
}

func TestCast_InvalidKind(t *testing.T) {
	db := newTestDB(t)
	ledger := NewVoteLedger(db)
	author := createTestUser(t, db, "ryleigh")
	post := createTestPost(t, db, author, "sighting", "time")

	_, err := ledger.Cast(author.ID, post.ID, "quark")
	assert.ErrorIs(t, err, ErrInvalidKind)
}

func TestCast_UnknownPost(t *testing.T) {
	db := newTestDB(t)
	voter := createTestUser(t, db, "okabe")

	_, err := NewVoteLedger(db).Cast(voter.ID, 9999, models.VoteProton)
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestGetVote_NotFound(t *testing.T) {
	db := newTestDB(t)

	_, err := NewVoteLedger(db).Get(1, 1)
	assert.ErrorIs(t, err, ErrNotFound)
}
