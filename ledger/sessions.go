package ledger

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/rustyeddy/tradelog/internal/common"
	"github.com/rustyeddy/tradelog/journal"
)

const defaultCurrency = "USD"

// CreateSession opens the user's next numbered session, dated today, and
// makes it the only active one.
func (s *Service) CreateSession(ctx context.Context, userID int64, initialCapital float64, currency string) (*journal.Session, error) {
	if err := common.Positive("initial capital", initialCapital); err != nil {
		return nil, err
	}

	unlock := s.locks.Lock(userKey(userID))
	defer unlock()

	var out *journal.Session
	err := s.store.InTx(ctx, func(repo journal.Repository) error {
		if _, err := repo.GetUser(ctx, userID); err != nil {
			return err
		}
		cur, err := sessionCurrency(ctx, repo, userID, currency)
		if err != nil {
			return err
		}
		n, err := repo.NextSessionNumber(ctx, userID)
		if err != nil {
			return err
		}
		if err := repo.DeactivateSessions(ctx, userID); err != nil {
			return err
		}
		out, err = repo.CreateSession(ctx, &journal.Session{
			UserID:         userID,
			SessionNumber:  n,
			Date:           s.now().Format(journal.DateLayout),
			InitialCapital: initialCapital,
			Currency:       cur,
			IsActive:       true,
		})
		return err
	})
	if err != nil {
		return nil, fmt.Errorf("create session: %w", err)
	}

	s.log.Info(ctx, "session created", "user_id", userID, "number", out.SessionNumber,
		"capital", out.InitialCapital)
	return out, nil
}

func sessionCurrency(ctx context.Context, repo journal.Repository, userID int64, currency string) (string, error) {
	if c := strings.ToUpper(strings.TrimSpace(currency)); c != "" {
		return c, nil
	}
	st, err := repo.GetSettings(ctx, userID)
	switch {
	case errors.Is(err, common.ErrNotFound):
		return defaultCurrency, nil
	case err != nil:
		return "", err
	case st.Currency == "":
		return defaultCurrency, nil
	}
	return st.Currency, nil
}

// SwitchActiveSession activates the session with the given number and
// deactivates the rest. It does nothing when that session is already the
// only active one.
func (s *Service) SwitchActiveSession(ctx context.Context, userID int64, number int) (*journal.Session, error) {
	unlock := s.locks.Lock(userKey(userID))
	defer unlock()

	var out *journal.Session
	err := s.store.InTx(ctx, func(repo journal.Repository) error {
		found, err := repo.FindSessionsByNumber(ctx, userID, number)
		if err != nil {
			return err
		}
		switch len(found) {
		case 0:
			return fmt.Errorf("session number %d: %w", number, common.ErrNotFound)
		case 1:
		default:
			return fmt.Errorf("%d sessions numbered %d: %w", len(found), number, common.ErrDataIntegrity)
		}
		target := found[0]

		active, err := repo.ListActiveSessions(ctx, userID)
		if err != nil {
			return err
		}
		if len(active) == 1 && active[0].ID == target.ID {
			out = &target
			return nil
		}

		if err := repo.DeactivateSessions(ctx, userID); err != nil {
			return err
		}
		on := true
		out, err = repo.UpdateSession(ctx, target.ID, journal.SessionPatch{IsActive: &on})
		return err
	})
	if err != nil {
		return nil, fmt.Errorf("switch session: %w", err)
	}

	s.log.Info(ctx, "active session switched", "user_id", userID, "number", number)
	return out, nil
}

// UpdateSession applies a patch to a session owned by userID. A new
// payout reprices the session's won trades and rebalances its chain.
func (s *Service) UpdateSession(ctx context.Context, userID, sessionID int64, p journal.SessionPatch) (*journal.Session, error) {
	unlockUser := s.locks.Lock(userKey(userID))
	defer unlockUser()
	unlock := s.locks.Lock(chainKey(userID, &sessionID))
	defer unlock()

	var out *journal.Session
	err := s.store.InTx(ctx, func(repo journal.Repository) error {
		if _, err := ownedSession(ctx, repo, userID, sessionID); err != nil {
			return err
		}
		if p.IsActive != nil && *p.IsActive {
			if err := repo.DeactivateSessions(ctx, userID); err != nil {
				return err
			}
		}
		var err error
		if out, err = repo.UpdateSession(ctx, sessionID, p); err != nil {
			return err
		}
		if p.PayoutPercent == nil {
			return nil
		}
		if err := reprice(ctx, repo, out); err != nil {
			return err
		}
		out, err = repo.GetSession(ctx, sessionID)
		return err
	})
	if err != nil {
		return nil, fmt.Errorf("update session: %w", err)
	}
	return out, nil
}

// Sessions lists the user's sessions, newest first.
func (s *Service) Sessions(ctx context.Context, userID int64) ([]journal.Session, error) {
	return s.store.ListSessions(ctx, userID)
}

func (s *Service) ActiveSession(ctx context.Context, userID int64) (*journal.Session, error) {
	return s.store.GetActiveSession(ctx, userID)
}

func (s *Service) Session(ctx context.Context, userID, sessionID int64) (*journal.Session, error) {
	return ownedSession(ctx, s.store, userID, sessionID)
}

// ownedSession hides sessions of other users behind ErrNotFound.
func ownedSession(ctx context.Context, repo journal.Repository, userID, sessionID int64) (*journal.Session, error) {
	sess, err := repo.GetSession(ctx, sessionID)
	if err != nil {
		return nil, err
	}
	if sess.UserID != userID {
		return nil, fmt.Errorf("session %d: %w", sessionID, common.ErrNotFound)
	}
	return sess, nil
}
