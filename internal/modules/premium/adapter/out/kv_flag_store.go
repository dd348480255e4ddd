package out

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"time"

	"timebox/internal/modules/premium/domain"
	premiumout "timebox/internal/modules/premium/port/out"
	apperrors "timebox/internal/platform/errors"
	"timebox/internal/platform/kv"
)

type KVFlagStore struct {
	kv *kv.Store
}

func NewKVFlagStore(store *kv.Store) premiumout.FlagStore {
	return &KVFlagStore{kv: store}
}

func (s *KVFlagStore) LoadStatus(ctx context.Context) (domain.Status, error) {
	status := domain.Status{}
	err := s.kv.Update(ctx, func(tx *kv.Tx) error {
		raw, err := tx.Get(kv.KeyIsPro)
		if err != nil {
			return err
		}
		isPro, err := strconv.ParseBool(string(raw))
		if err != nil {
			return fmt.Errorf("decode %s: %w", kv.KeyIsPro, err)
		}
		status.IsPro = isPro

		raw, err = tx.Get(kv.KeyPurchaseDate)
		switch {
		case errors.Is(err, apperrors.ErrNotFound):
		case err != nil:
			return err
		default:
			at, err := time.Parse(time.RFC3339, string(raw))
			if err != nil {
				return fmt.Errorf("decode %s: %w", kv.KeyPurchaseDate, err)
			}
			status.PurchaseDate = &at
		}

		raw, err = tx.Get(kv.KeyProductID)
		switch {
		case errors.Is(err, apperrors.ErrNotFound):
		case err != nil:
			return err
		default:
			status.ProductID = string(raw)
		}
		return nil
	})
	if err != nil {
		return domain.Status{}, err
	}
	return status, nil
}

// SaveStatus writes the flag and its metadata together.
func (s *KVFlagStore) SaveStatus(ctx context.Context, status domain.Status) error {
	return s.kv.Update(ctx, func(tx *kv.Tx) error {
		if err := tx.Put(kv.KeyIsPro, []byte(strconv.FormatBool(status.IsPro))); err != nil {
			return err
		}
		if status.PurchaseDate != nil {
			if err := tx.Put(kv.KeyPurchaseDate, []byte(status.PurchaseDate.UTC().Format(time.RFC3339))); err != nil {
				return err
			}
		}
		if status.ProductID != "" {
			if err := tx.Put(kv.KeyProductID, []byte(status.ProductID)); err != nil {
				return err
			}
		}
		return nil
	})
}
