package store

import (
	"errors"
	"fmt"

	"gorm.io/gorm"

	"github.com/agentryleigh/decoherence-log/backend/internal/models"
)

// VoteResult reports what Cast did with the request.
type VoteResult string

const (
	// VoteApplied means the ledger recorded a new vote or switched an
	// existing one.
	VoteApplied VoteResult = "applied"
	// VoteUnchanged means the user had already cast the same kind; the
	// reaction is idempotent, not a toggle-off.
	VoteUnchanged VoteResult = "unchanged"
)

// VoteLedger enforces at-most-one-active-vote-per-user-per-post and keeps
// the post counters in step with the vote rows.
type VoteLedger struct {
	db *gorm.DB
}

func NewVoteLedger(db *gorm.DB) *VoteLedger {
	return &VoteLedger{db: db}
}

func counterColumn(kind string) string {
	switch kind {
	case models.VoteProton:
		return "protons"
	case models.VoteElectron:
		return "electrons"
	default:
		return "neutrons"
	}
}

// Cast records a particle reaction. The whole read-decide-write sequence
// runs in one transaction; the switch path updates the vote row with a
// guard on its previous kind, so two racing switches for the same user
// cannot both land. The loser gets ErrConflict and should retry.
func (l *VoteLedger) Cast(userID, postID uint, kind string) (VoteResult, error) {
	if !models.ValidVoteKind(kind) {
		return "", ErrInvalidKind
	}

	result := VoteApplied
	err := l.db.Transaction(func(tx *gorm.DB) error {
		var post models.Post
		if err := tx.First(&post, postID).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return ErrNotFound
			}
			return fmt.Errorf("load post: %w", err)
		}

		var existing models.Vote
		err := tx.Where("user_id = ? AND post_id = ?", userID, postID).First(&existing).Error
		switch {
		case errors.Is(err, gorm.ErrRecordNotFound):
			vote := models.Vote{UserID: userID, PostID: postID, Kind: kind}
			if err := tx.Create(&vote).Error; err != nil {
				if errors.Is(err, gorm.ErrDuplicatedKey) {
					// Another request inserted this user's vote first.
					return ErrConflict
				}
				return fmt.Errorf("insert vote: %w", err)
			}
			return l.bump(tx, postID, kind, +1)

		case err != nil:
			return fmt.Errorf("load vote: %w", err)

		case existing.Kind == kind:
			result = VoteUnchanged
			return nil

		default:
			res := tx.Model(&models.Vote{}).
				Where("user_id = ? AND post_id = ? AND kind = ?", userID, postID, existing.Kind).
				Update("kind", kind)
			if res.Error != nil {
				return fmt.Errorf("switch vote: %w", res.Error)
			}
			if res.RowsAffected == 0 {
				return ErrConflict
			}
			if err := l.bump(tx, postID, existing.Kind, -1); err != nil {
				return err
			}
			return l.bump(tx, postID, kind, +1)
		}
	})
	if err != nil {
		return "", err
	}
	return result, nil
}

func (l *VoteLedger) bump(tx *gorm.DB, postID uint, kind string, delta int) error {
	column := counterColumn(kind)
	err := tx.Model(&models.Post{}).
		Where("id = ?", postID).
		UpdateColumn(column, gorm.Expr(column+" + ?", delta)).Error
	if err != nil {
		return fmt.Errorf("update %s counter: %w", column, err)
	}
	return nil
}

// Get returns the active vote for a (user, post) pair, or ErrNotFound.
func (l *VoteLedger) Get(userID, postID uint) (*models.Vote, error) {
	var vote models.Vote
	err := l.db.Where("user_id = ? AND post_id = ?", userID, postID).First(&vote).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("get vote: %w", err)
	}
	return &vote, nil
}
