package generations

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"sync"
	"sync/atomic"
	"time"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"go-storefront-proxy/internal/interfaces"
	"go-storefront-proxy/internal/metrics"
	"go-storefront-proxy/internal/models"
	"go-storefront-proxy/internal/utils"
)

// State is the worker lifecycle state
type State string

const (
	StateParsed     State = "parsed"
	StateInstalling State = "installing"
	StateInstalled  State = "installed"
	StateActivated  State = "activated"
	StateRedundant  State = "redundant"
)

var allStates = []string{
	string(StateParsed),
	string(StateInstalling),
	string(StateInstalled),
	string(StateActivated),
	string(StateRedundant),
}

var (
	// ErrInstallFailed is returned when any boot manifest entry cannot be stored
	ErrInstallFailed = errors.New("install failed")
	// ErrNotInstalled is returned by Activate before a successful Install
	ErrNotInstalled = errors.New("worker not installed")
)

// Ensure Manager implements interfaces.BucketResolver
var _ interfaces.BucketResolver = (*Manager)(nil)

// Manager owns the versioned cache buckets. It is the only place bucket names are built.
type Manager struct {
	version  string
	origin   string
	manifest []string
	store    interfaces.BucketStore
	fetcher  interfaces.Fetcher
	logger   *zap.Logger
	now      func() time.Time

	// mu serializes Install and Activate; readers use the atomics
	mu     sync.Mutex
	state  atomic.Value // State
	active atomic.Bool
}

// NewManager creates a manager for one version of the storefront
func NewManager(version, origin string, manifest []string, store interfaces.BucketStore, fetcher interfaces.Fetcher, logger *zap.Logger) *Manager {
	m := &Manager{
		version:  version,
		origin:   strings.TrimSuffix(origin, "/"),
		manifest: manifest,
		store:    store,
		fetcher:  fetcher,
		logger:   logger,
		now:      time.Now,
	}
	m.setState(StateParsed)
	return m
}

// Version returns the generation tag
func (m *Manager) Version() string {
	return m.version
}

// BucketName returns the current bucket name for a role
func (m *Manager) BucketName(role models.Role) string {
	return string(role) + "-" + m.version
}

// CurrentBuckets returns the names of the current generation, one per role
func (m *Manager) CurrentBuckets() []string {
	roles := models.Roles()
	names := make([]string, 0, len(roles))
	for _, role := range roles {
		names = append(names, m.BucketName(role))
	}
	return names
}

// Bucket returns a handle on the current bucket of role
func (m *Manager) Bucket(role models.Role) interfaces.Bucket {
	return &bucket{
		name:   m.BucketName(role),
		role:   role,
		store:  m.store,
		logger: m.logger,
	}
}

// State returns the lifecycle state
func (m *Manager) State() State {
	return m.state.Load().(State)
}

// Active reports whether the worker has claimed its clients
func (m *Manager) Active() bool {
	return m.active.Load()
}

func (m *Manager) setState(state State) {
	m.state.Store(state)
	metrics.SetWorkerState(string(state), allStates)
}

// Install fetches every boot manifest entry and stores them in the app-shell bucket.
// Nothing is stored unless every entry was fetched with a 2xx status.
func (m *Manager) Install(ctx context.Context) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if state := m.State(); state != StateParsed && state != StateRedundant {
		return fmt.Errorf("cannot install from state %s", state)
	}
	m.setState(StateInstalling)

	m.logger.Info("Installing worker",
		zap.String("version", m.version),
		zap.Strings("manifest", m.manifest))

	reqs := make([]*http.Request, len(m.manifest))
	entries := make([]*models.CacheEntry, len(m.manifest))

	g, gctx := errgroup.WithContext(ctx)
	for i, path := range m.manifest {
		i, path := i, path
		g.Go(func() error {
			req, entry, err := m.fetchManifestEntry(gctx, path)
			if err != nil {
				return err
			}
			reqs[i] = req
			entries[i] = entry
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		m.setState(StateRedundant)
		return fmt.Errorf("%w: %w", ErrInstallFailed, err)
	}

	shell := m.BucketName(models.RoleAppShell)
	for i := range reqs {
		if err := m.store.Put(shell, reqs[i], entries[i]); err != nil {
			m.setState(StateRedundant)
			return fmt.Errorf("%w: %w", ErrInstallFailed, err)
		}
	}

	m.setState(StateInstalled)
	m.logger.Info("Worker installed",
		zap.String("bucket", shell),
		zap.Int("entries", len(entries)))
	return nil
}

func (m *Manager) fetchManifestEntry(ctx context.Context, path string) (*http.Request, *models.CacheEntry, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, m.origin+path, nil)
	if err != nil {
		return nil, nil, fmt.Errorf("invalid manifest entry %s: %w", path, err)
	}

	resp, err := m.fetcher.Fetch(ctx, req)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to fetch %s: %w", path, err)
	}

	entry, err := utils.ReadEntry(resp, m.now())
	if err != nil {
		return nil, nil, fmt.Errorf("failed to read %s: %w", path, err)
	}

	if !entry.IsSuccess() {
		return nil, nil, fmt.Errorf("failed to fetch %s: status %d", path, entry.Status)
	}

	return req, entry, nil
}

// Activate deletes every bucket that is not part of the current generation and
// then claims clients, so the worker starts intercepting at once. It returns the
// names of the deleted buckets. Garbage collection failures are reported but do
// not prevent activation.
func (m *Manager) Activate(ctx context.Context) ([]string, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if state := m.State(); state != StateInstalled {
		return nil, fmt.Errorf("%w: state %s", ErrNotInstalled, state)
	}

	deleted, gcErr := m.collectGarbage(ctx)

	m.active.Store(true)
	m.setState(StateActivated)
	m.logger.Info("Worker activated",
		zap.String("version", m.version),
		zap.Strings("deleted", deleted))

	return deleted, gcErr
}

func (m *Manager) collectGarbage(ctx context.Context) ([]string, error) {
	names, err := m.store.Buckets()
	if err != nil {
		return nil, fmt.Errorf("failed to list buckets: %w", err)
	}

	current := make(map[string]struct{}, 3)
	for _, name := range m.CurrentBuckets() {
		current[name] = struct{}{}
	}

	var (
		deleted []string
		errs    []error
	)
	for _, name := range names {
		if _, keep := current[name]; keep {
			continue
		}
		if err := ctx.Err(); err != nil {
			errs = append(errs, err)
			break
		}
		if err := m.store.DeleteBucket(name); err != nil {
			m.logger.Warn("Failed to delete stale bucket", zap.String("bucket", name), zap.Error(err))
			errs = append(errs, fmt.Errorf("failed to delete bucket %s: %w", name, err))
			continue
		}
		metrics.RecordGenerationDeleted()
		deleted = append(deleted, name)
	}

	return deleted, errors.Join(errs...)
}

// Report describes the buckets for the debug endpoint
type Report struct {
	Version string   `json:"version"`
	State   State    `json:"state"`
	Active  bool     `json:"active"`
	Current []string `json:"current"`
	Buckets []string `json:"buckets"`
}

// Inspect lists every existing bucket alongside the current generation
func (m *Manager) Inspect() (Report, error) {
	names, err := m.store.Buckets()
	if err != nil {
		return Report{}, fmt.Errorf("failed to list buckets: %w", err)
	}
	return Report{
		Version: m.version,
		State:   m.State(),
		Active:  m.Active(),
		Current: m.CurrentBuckets(),
		Buckets: names,
	}, nil
}
