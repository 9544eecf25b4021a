package sqlstore

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/goliatone/go-easyjob/core"
	repository "github.com/goliatone/go-repository-bun"
	"github.com/google/uuid"
	"github.com/uptrace/bun"
)

// DefaultNamespace holds the slots of a single-session process.
const DefaultNamespace = "default"

// CredentialStore keeps the token slots in easyjob_credentials, one row per
// (namespace, slot).
type CredentialStore struct {
	db        *bun.DB
	repo      repository.Repository[*credentialRecord]
	namespace string
}

func NewCredentialStore(db *bun.DB, namespace string) (*CredentialStore, error) {
	if db == nil {
		return nil, fmt.Errorf("sqlstore: bun db is required")
	}
	repo := repository.NewRepository[*credentialRecord](db, credentialHandlers())
	if validator, ok := repo.(repository.Validator); ok {
		if err := validator.Validate(); err != nil {
			return nil, fmt.Errorf("sqlstore: invalid credential repository wiring: %w", err)
		}
	}
	return &CredentialStore{
		db:        db,
		repo:      repo,
		namespace: normalizeNamespace(namespace),
	}, nil
}

func (s *CredentialStore) Namespace() string {
	if s == nil {
		return ""
	}
	return s.namespace
}

func (s *CredentialStore) Get(ctx context.Context, slot core.TokenSlot) (string, bool, error) {
	if s == nil || s.repo == nil {
		return "", false, fmt.Errorf("sqlstore: credential store is not configured")
	}
	slotName, err := normalizeSlot(slot)
	if err != nil {
		return "", false, err
	}
	records, _, err := s.repo.List(ctx,
		repository.SelectBy("namespace", "=", s.namespace),
		repository.SelectBy("slot", "=", slotName),
		repository.SelectPaginate(1, 0),
	)
	if err != nil {
		return "", false, err
	}
	if len(records) == 0 || records[0] == nil || records[0].Value == "" {
		return "", false, nil
	}
	return records[0].Value, true, nil
}

func (s *CredentialStore) Set(ctx context.Context, slot core.TokenSlot, value string) error {
	if s == nil || s.db == nil {
		return fmt.Errorf("sqlstore: credential store is not configured")
	}
	slotName, err := normalizeSlot(slot)
	if err != nil {
		return err
	}
	now := time.Now().UTC()

	return s.db.RunInTx(ctx, nil, func(ctx context.Context, tx bun.Tx) error {
		record, err := findCredentialTx(ctx, tx, s.namespace, slotName)
		if err != nil {
			return err
		}
		if record == nil {
			record = &credentialRecord{
				ID:        uuid.NewString(),
				Namespace: s.namespace,
				Slot:      slotName,
				Value:     value,
				CreatedAt: now,
				UpdatedAt: now,
			}
			_, insertErr := tx.NewInsert().Model(record).Exec(ctx)
			return insertErr
		}
		_, updateErr := tx.NewUpdate().
			Model((*credentialRecord)(nil)).
			Set("value = ?", value).
			Set("updated_at = ?", now).
			Where("id = ?", record.ID).
			Exec(ctx)
		return updateErr
	})
}

// Clear removes every slot in the store's namespace.
func (s *CredentialStore) Clear(ctx context.Context) error {
	if s == nil || s.db == nil {
		return fmt.Errorf("sqlstore: credential store is not configured")
	}
	_, err := s.db.NewDelete().
		Model((*credentialRecord)(nil)).
		Where("namespace = ?", s.namespace).
		Exec(ctx)
	return err
}

func findCredentialTx(ctx context.Context, tx bun.Tx, namespace string, slot string) (*credentialRecord, error) {
	record := &credentialRecord{}
	err := tx.NewSelect().
		Model(record).
		Where("?TableAlias.namespace = ?", namespace).
		Where("?TableAlias.slot = ?", slot).
		Limit(1).
		Scan(ctx)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, err
	}
	return record, nil
}

func normalizeNamespace(namespace string) string {
	trimmed := strings.TrimSpace(namespace)
	if trimmed == "" {
		return DefaultNamespace
	}
	return trimmed
}

func normalizeSlot(slot core.TokenSlot) (string, error) {
	trimmed := strings.TrimSpace(string(slot))
	if trimmed == "" {
		return "", fmt.Errorf("sqlstore: credential slot is required")
	}
	return trimmed, nil
}
