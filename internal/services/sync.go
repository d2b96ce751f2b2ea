package services

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log"
	"strings"
	"sync"
	"time"

	"github.com/diewo77/go-shop/internal/gist"
	"github.com/diewo77/go-shop/internal/models"
	"github.com/diewo77/go-shop/internal/state"
	"github.com/diewo77/go-shop/internal/storage"
)

var (
	ErrSyncInProgress = errors.New("sync already in progress")
	ErrNoToken        = errors.New("access token required")
	ErrNoGistID       = errors.New("gist id required")
	ErrFileNotFound   = errors.New("sync file not found in gist")
	ErrInvalidContent = errors.New("sync file is not valid shop data")
)

// SyncAction names one of the three sync operations.
type SyncAction string

const (
	ActionCreate SyncAction = "create"
	ActionUpdate SyncAction = "update"
	ActionPull   SyncAction = "pull"
)

// SyncPhase is the state of one sync action.
type SyncPhase string

const (
	PhaseIdle    SyncPhase = "idle"
	PhaseSyncing SyncPhase = "syncing"
	PhaseError   SyncPhase = "error"
)

// SyncStatus describes the latest outcome of an action. Code is a translation
// key; Detail is shown verbatim after it.
type SyncStatus struct {
	Action SyncAction
	Phase  SyncPhase
	Code   string
	Detail string
	At     time.Time
}

// RemoteStore is the document store the state is pushed to and pulled from.
type RemoteStore interface {
	Create(ctx context.Context, token string, req gist.CreateRequest) (*gist.Gist, error)
	Update(ctx context.Context, token, id string, files map[string]*gist.File) (*gist.Gist, error)
	Get(ctx context.Context, id, token string) (*gist.Gist, error)
}

// MetaStore remembers the sync configuration on the device.
type MetaStore interface {
	SyncMeta(ctx context.Context) (storage.SyncMeta, error)
	SetGistID(ctx context.Context, id string) error
	SetToken(ctx context.Context, token string) error
	SetLastSync(ctx context.Context, at string) error
	ForgetCredentials(ctx context.Context) error
}

// SyncOptions configures the remote document.
type SyncOptions struct {
	Filename    string
	Description string
	Public      bool
	Timeout     time.Duration
}

// SyncService pushes and pulls the whole state as one file of a gist.
// Each action has its own idle/syncing/error state; an action cannot be
// started again while it is syncing.
type SyncService struct {
	store  *state.Store
	remote RemoteStore
	meta   MetaStore
	opts   SyncOptions
	now    func() time.Time

	mu       sync.Mutex
	statuses map[SyncAction]SyncStatus
	last     SyncStatus
	version  uint64
	synced   uint64
}

func NewSyncService(store *state.Store, remote RemoteStore, meta MetaStore, opts SyncOptions) *SyncService {
	if opts.Filename == "" {
		opts.Filename = "shop_data.json"
	}
	s := &SyncService{
		store:  store,
		remote: remote,
		meta:   meta,
		opts:   opts,
		now:    time.Now,
		statuses: map[SyncAction]SyncStatus{
			ActionCreate: {Action: ActionCreate, Phase: PhaseIdle},
			ActionUpdate: {Action: ActionUpdate, Phase: PhaseIdle},
			ActionPull:   {Action: ActionPull, Phase: PhaseIdle},
		},
	}
	store.Subscribe(func(models.State) {
		s.mu.Lock()
		s.version++
		s.mu.Unlock()
	})
	return s
}

// Filename is the gist file holding the state.
func (s *SyncService) Filename() string { return s.opts.Filename }

// Status returns the state of one action.
func (s *SyncService) Status(a SyncAction) SyncStatus {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.statuses[a]
}

// Last returns the status of the most recently finished or started action.
func (s *SyncService) Last() SyncStatus {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.last
}

// Dirty reports whether the state changed since the last successful sync in this process.
func (s *SyncService) Dirty() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.version != s.synced
}

// Meta returns the stored sync configuration.
func (s *SyncService) Meta(ctx context.Context) (storage.SyncMeta, error) {
	return s.meta.SyncMeta(ctx)
}

// Forget drops the stored token and gist id.
func (s *SyncService) Forget(ctx context.Context) error {
	return s.meta.ForgetCredentials(ctx)
}

// Create uploads the state to a new gist and remembers its id and the token.
// An empty token falls back to the stored one.
func (s *SyncService) Create(ctx context.Context, token string) (string, error) {
	if err := s.begin(ActionCreate); err != nil {
		return "", err
	}
	ctx, cancel := s.requestContext(ctx)
	defer cancel()

	var id string
	err := func() error {
		meta, err := s.meta.SyncMeta(ctx)
		if err != nil {
			return err
		}
		token = pick(token, meta.Token)
		if token == "" {
			return ErrNoToken
		}
		content, version, err := s.snapshot()
		if err != nil {
			return err
		}
		g, err := s.remote.Create(ctx, token, gist.CreateRequest{
			Description: s.opts.Description,
			Public:      s.opts.Public,
			Files:       map[string]*gist.File{s.opts.Filename: {Content: content}},
		})
		if err != nil {
			return err
		}
		id = g.ID
		return s.remember(ctx, id, token, version)
	}()
	s.finish(ActionCreate, "sync_created", id, err)
	return id, err
}

// Update overwrites the sync file of an existing gist. Empty arguments fall
// back to the stored token and gist id.
func (s *SyncService) Update(ctx context.Context, token, gistID string) error {
	if err := s.begin(ActionUpdate); err != nil {
		return err
	}
	ctx, cancel := s.requestContext(ctx)
	defer cancel()

	err := func() error {
		meta, err := s.meta.SyncMeta(ctx)
		if err != nil {
			return err
		}
		token = pick(token, meta.Token)
		gistID = pick(gistID, meta.GistID)
		if token == "" {
			return ErrNoToken
		}
		if gistID == "" {
			return ErrNoGistID
		}
		content, version, err := s.snapshot()
		if err != nil {
			return err
		}
		g, err := s.remote.Update(ctx, token, gistID, map[string]*gist.File{s.opts.Filename: {Content: content}})
		if err != nil {
			return err
		}
		gistID = g.ID
		return s.remember(ctx, gistID, token, version)
	}()
	s.finish(ActionUpdate, "sync_updated", gistID, err)
	return err
}

// Pull downloads the sync file and replaces the whole local state with it.
// Nothing changes locally unless the file is present and decodes.
func (s *SyncService) Pull(ctx context.Context, gistID string) error {
	if err := s.begin(ActionPull); err != nil {
		return err
	}
	ctx, cancel := s.requestContext(ctx)
	defer cancel()

	err := func() error {
		meta, err := s.meta.SyncMeta(ctx)
		if err != nil {
			return err
		}
		gistID = pick(gistID, meta.GistID)
		if gistID == "" {
			return ErrNoGistID
		}
		g, err := s.remote.Get(ctx, gistID, meta.Token)
		if err != nil {
			return err
		}
		f, ok := g.Files[s.opts.Filename]
		if !ok || f == nil || strings.TrimSpace(f.Content) == "" {
			return fmt.Errorf("%w: %s", ErrFileNotFound, s.opts.Filename)
		}
		st, err := decodeState(f.Content)
		if err != nil {
			return err
		}
		if err := s.store.Replace(ctx, st); err != nil {
			return fmt.Errorf("save pulled state: %w", err)
		}
		s.mu.Lock()
		s.synced = s.version
		s.mu.Unlock()
		if err := s.meta.SetGistID(ctx, gistID); err != nil {
			return err
		}
		return s.meta.SetLastSync(ctx, s.now().Format(models.DateLayout))
	}()
	s.finish(ActionPull, "sync_pulled", gistID, err)
	return err
}

func decodeState(content string) (models.State, error) {
	dec := json.NewDecoder(strings.NewReader(content))
	var st *models.State
	if err := dec.Decode(&st); err != nil {
		return models.State{}, fmt.Errorf("%w: %v", ErrInvalidContent, err)
	}
	if st == nil {
		return models.State{}, fmt.Errorf("%w: not an object", ErrInvalidContent)
	}
	if dec.More() {
		return models.State{}, fmt.Errorf("%w: trailing data", ErrInvalidContent)
	}
	st.Normalize()
	return *st, nil
}

// snapshot serializes the current state and returns the change counter it reflects.
func (s *SyncService) snapshot() (string, uint64, error) {
	s.mu.Lock()
	version := s.version
	s.mu.Unlock()
	b, err := json.Marshal(s.store.Get())
	if err != nil {
		return "", 0, fmt.Errorf("encode state: %w", err)
	}
	return string(b), version, nil
}

func (s *SyncService) remember(ctx context.Context, gistID, token string, version uint64) error {
	s.mu.Lock()
	s.synced = version
	s.mu.Unlock()
	if err := s.meta.SetGistID(ctx, gistID); err != nil {
		return err
	}
	if err := s.meta.SetToken(ctx, token); err != nil {
		return err
	}
	return s.meta.SetLastSync(ctx, s.now().Format(models.DateLayout))
}

// requestContext detaches from the caller so a request, once sent, runs to
// completion or timeout even if the browser goes away.
func (s *SyncService) requestContext(ctx context.Context) (context.Context, context.CancelFunc) {
	ctx = context.WithoutCancel(ctx)
	if s.opts.Timeout > 0 {
		return context.WithTimeout(ctx, s.opts.Timeout)
	}
	return context.WithCancel(ctx)
}

func (s *SyncService) begin(a SyncAction) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.statuses[a].Phase == PhaseSyncing {
		return ErrSyncInProgress
	}
	st := SyncStatus{Action: a, Phase: PhaseSyncing, Code: "sync_running_" + string(a), At: s.now()}
	s.statuses[a] = st
	s.last = st
	return nil
}

func (s *SyncService) finish(a SyncAction, okCode, detail string, err error) {
	st := SyncStatus{Action: a, Phase: PhaseIdle, Code: okCode, Detail: detail, At: s.now()}
	if err != nil {
		st.Phase = PhaseError
		st.Code, st.Detail = describeSyncError(err)
		log.Printf("sync %s failed: %v", a, err)
	} else {
		log.Printf("sync %s ok: %s", a, detail)
	}
	s.mu.Lock()
	s.statuses[a] = st
	s.last = st
	s.mu.Unlock()
}

// describeSyncError maps an error to a translation code and a detail string.
func describeSyncError(err error) (code, detail string) {
	var apiErr *gist.APIError
	switch {
	case errors.Is(err, ErrNoToken):
		return "sync_no_token", ""
	case errors.Is(err, ErrNoGistID):
		return "sync_no_gist_id", ""
	case errors.Is(err, ErrFileNotFound):
		return "sync_file_missing", ""
	case errors.Is(err, ErrInvalidContent):
		return "sync_invalid_content", err.Error()
	case errors.As(err, &apiErr):
		return "sync_rejected", apiErr.Error()
	case errors.Is(err, context.DeadlineExceeded):
		return "sync_timeout", ""
	default:
		return "sync_failed", err.Error()
	}
}

func pick(v, fallback string) string {
	if v = strings.TrimSpace(v); v != "" {
		return v
	}
	return fallback
}
