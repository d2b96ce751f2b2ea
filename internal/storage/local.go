package storage

import (
	"context"
	"encoding/json"
	"fmt"
	"log"

	"github.com/diewo77/go-shop/internal/models"
	"gorm.io/gorm"
)

// Local keys. They match the keys the browser version of the app used.
const (
	StateKey    = "shop_app_v1"
	GistIDKey   = "shop_app_gist_id"
	TokenKey    = "github_token"
	LastSyncKey = "lastSync"
)

// SyncMeta is the locally remembered sync configuration.
type SyncMeta struct {
	GistID   string
	Token    string
	LastSync string
}

// HasToken reports whether a token is remembered.
func (m SyncMeta) HasToken() bool { return m.Token != "" }

// LocalStore reads and writes the state blob and sync metadata.
type LocalStore struct {
	kv     *KV
	sealer *Sealer
}

// Option configures a LocalStore.
type Option func(*LocalStore)

// WithSealer encrypts the access token at rest.
func WithSealer(s *Sealer) Option {
	return func(ls *LocalStore) { ls.sealer = s }
}

func NewLocalStore(db *gorm.DB, opts ...Option) *LocalStore {
	s := &LocalStore{kv: NewKV(db)}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Load returns the persisted state, or an empty state when nothing usable is stored.
func (s *LocalStore) Load(ctx context.Context) models.State {
	raw, ok, err := s.kv.Get(ctx, StateKey)
	if err != nil {
		log.Printf("storage: read %s: %v; starting empty", StateKey, err)
		return models.EmptyState()
	}
	if !ok || raw == "" {
		return models.EmptyState()
	}
	var st models.State
	if err := json.Unmarshal([]byte(raw), &st); err != nil {
		log.Printf("storage: decode %s: %v; starting empty", StateKey, err)
		return models.EmptyState()
	}
	st.Normalize()
	return st
}

// SaveState overwrites the persisted state.
func (s *LocalStore) SaveState(ctx context.Context, st models.State) error {
	st.Normalize()
	b, err := json.Marshal(st)
	if err != nil {
		return fmt.Errorf("encode state: %w", err)
	}
	if err := s.kv.Set(ctx, StateKey, string(b)); err != nil {
		return fmt.Errorf("write state: %w", err)
	}
	return nil
}

// SyncMeta returns the stored gist id, token and last sync time.
func (s *LocalStore) SyncMeta(ctx context.Context) (SyncMeta, error) {
	var m SyncMeta
	for key, dst := range map[string]*string{
		GistIDKey:   &m.GistID,
		TokenKey:    &m.Token,
		LastSyncKey: &m.LastSync,
	} {
		v, _, err := s.kv.Get(ctx, key)
		if err != nil {
			return SyncMeta{}, fmt.Errorf("read %s: %w", key, err)
		}
		*dst = v
	}
	token, err := s.sealer.Open(m.Token)
	if err != nil {
		// a token sealed under another secret is as good as none
		log.Printf("storage: %s: %v", TokenKey, err)
		token = ""
	}
	m.Token = token
	return m, nil
}

func (s *LocalStore) SetGistID(ctx context.Context, id string) error {
	return s.kv.Set(ctx, GistIDKey, id)
}

func (s *LocalStore) SetToken(ctx context.Context, token string) error {
	sealed, err := s.sealer.Seal(token)
	if err != nil {
		return fmt.Errorf("seal %s: %w", TokenKey, err)
	}
	return s.kv.Set(ctx, TokenKey, sealed)
}

func (s *LocalStore) SetLastSync(ctx context.Context, at string) error {
	return s.kv.Set(ctx, LastSyncKey, at)
}

// ForgetCredentials removes the stored token and gist id. The last sync time is kept.
func (s *LocalStore) ForgetCredentials(ctx context.Context) error {
	if err := s.kv.Delete(ctx, TokenKey); err != nil {
		return err
	}
	return s.kv.Delete(ctx, GistIDKey)
}
