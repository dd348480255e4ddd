package out

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"timebox/internal/modules/timer/domain"
	timerout "timebox/internal/modules/timer/port/out"
	apperrors "timebox/internal/platform/errors"
	"timebox/internal/platform/kv"
)

const DefaultHistoryLimit = 100

// SQLiteSessionStore keeps the snapshot under current_session and the newest-first
// history under session_history.
type SQLiteSessionStore struct {
	kv    *kv.Store
	limit int
}

func NewSQLiteSessionStore(store *kv.Store, historyLimit int) timerout.SessionStore {
	if historyLimit <= 0 {
		historyLimit = DefaultHistoryLimit
	}
	return &SQLiteSessionStore{kv: store, limit: historyLimit}
}

func (s *SQLiteSessionStore) WriteSnapshot(ctx context.Context, snapshot domain.Snapshot) error {
	payload, err := json.Marshal(snapshot)
	if err != nil {
		return fmt.Errorf("marshal snapshot: %w", err)
	}
	if _, err := s.kv.PutSeq(ctx, kv.KeyCurrentSession, payload, snapshot.Seq); err != nil {
		return fmt.Errorf("write snapshot: %w", err)
	}
	return nil
}

func (s *SQLiteSessionStore) ReplaceSnapshot(ctx context.Context, snapshot domain.Snapshot) error {
	payload, err := json.Marshal(snapshot)
	if err != nil {
		return fmt.Errorf("marshal snapshot: %w", err)
	}
	return s.kv.Update(ctx, func(tx *kv.Tx) error {
		if err := tx.Delete(kv.KeyCurrentSession); err != nil {
			return err
		}
		return tx.PutSeq(kv.KeyCurrentSession, payload, snapshot.Seq)
	})
}

func (s *SQLiteSessionStore) ReadSnapshot(ctx context.Context) (domain.Snapshot, error) {
	payload, err := s.kv.Get(ctx, kv.KeyCurrentSession)
	if err != nil {
		if errors.Is(err, apperrors.ErrNotFound) {
			return domain.Snapshot{}, apperrors.ErrNoActiveSession
		}
		return domain.Snapshot{}, err
	}
	snapshot := domain.Snapshot{}
	if err := json.Unmarshal(payload, &snapshot); err != nil {
		return domain.Snapshot{}, fmt.Errorf("%w: %v", apperrors.ErrCorruptSnapshot, err)
	}
	if err := snapshot.Validate(); err != nil {
		return domain.Snapshot{}, err
	}
	return snapshot, nil
}

func (s *SQLiteSessionStore) DeleteSnapshot(ctx context.Context) error {
	return s.kv.Delete(ctx, kv.KeyCurrentSession)
}

func (s *SQLiteSessionStore) AppendHistory(ctx context.Context, session domain.Session) error {
	return s.kv.Update(ctx, func(tx *kv.Tx) error {
		return s.prepend(tx, session)
	})
}

func (s *SQLiteSessionStore) CommitTerminal(ctx context.Context, session domain.Session) error {
	if !session.Terminal() {
		return fmt.Errorf("%w: session %s has no end time", apperrors.ErrInvalidInput, session.ID)
	}
	return s.kv.Update(ctx, func(tx *kv.Tx) error {
		if err := s.prepend(tx, session); err != nil {
			return err
		}
		return tx.Delete(kv.KeyCurrentSession)
	})
}

func (s *SQLiteSessionStore) ReadHistory(ctx context.Context) ([]domain.Session, error) {
	payload, err := s.kv.Get(ctx, kv.KeySessionHistory)
	if err != nil {
		if errors.Is(err, apperrors.ErrNotFound) {
			return []domain.Session{}, nil
		}
		return nil, err
	}
	return decodeHistory(payload)
}

func (s *SQLiteSessionStore) prepend(tx *kv.Tx, session domain.Session) error {
	history := []domain.Session{}
	payload, err := tx.Get(kv.KeySessionHistory)
	switch {
	case errors.Is(err, apperrors.ErrNotFound):
	case err != nil:
		return err
	default:
		history, err = decodeHistory(payload)
		if err != nil {
			return err
		}
	}

	next := make([]domain.Session, 0, len(history)+1)
	next = append(next, session)
	next = append(next, history...)
	if len(next) > s.limit {
		next = next[:s.limit]
	}
	encoded, err := json.Marshal(next)
	if err != nil {
		return fmt.Errorf("marshal history: %w", err)
	}
	return tx.Put(kv.KeySessionHistory, encoded)
}

func decodeHistory(payload []byte) ([]domain.Session, error) {
	history := []domain.Session{}
	if err := json.Unmarshal(payload, &history); err != nil {
		return nil, fmt.Errorf("decode history: %w", err)
	}
	return history, nil
}
