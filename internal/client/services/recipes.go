package services

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/dmitrijs2005/recipebook/internal/client/client"
	"github.com/dmitrijs2005/recipebook/internal/client/models"
	"github.com/dmitrijs2005/recipebook/internal/client/repositories/recipes"
	"github.com/dmitrijs2005/recipebook/internal/logging"
)

var (
	ErrEmptyTitle   = errors.New("Title can't be empty")
	ErrNotRetryable = errors.New("recipe is already synced or being synced")
)

// DefaultSyncTimeout bounds every remote call made on behalf of a recipe.
const DefaultSyncTimeout = 10 * time.Second

// Session tells the service who is logged in.
type Session interface {
	State() models.LoginState
}

// RecipeService applies every change locally first and mirrors it to the
// server in the background. Local records never disappear because a remote
// call failed; the failure is recorded on the record instead.
//
// Remote calls for one id never overlap; calls for different ids run
// concurrently.
type RecipeService struct {
	client  client.Client
	repo    recipes.Repository
	session Session
	logger  logging.Logger
	timeout time.Duration
	now     func() time.Time

	// addMu makes id allocation and insert one step.
	addMu sync.Mutex
	locks *keyedMutex
	wg    sync.WaitGroup
}

func NewRecipeService(c client.Client, repo recipes.Repository, session Session, logger logging.Logger, timeout time.Duration) *RecipeService {
	if timeout <= 0 {
		timeout = DefaultSyncTimeout
	}
	return &RecipeService{
		client:  c,
		repo:    repo,
		session: session,
		logger:  logger.With("module", "recipes"),
		timeout: timeout,
		now:     time.Now,
		locks:   newKeyedMutex(),
	}
}

func (s *RecipeService) owner() string {
	switch st := s.session.State().(type) {
	case models.LoginSuccess:
		return st.Username
	case models.LoginEmpty, models.LoginPending, models.LoginFailure:
		return ""
	}
	return ""
}

// Add stores a new recipe as NOT_SYNCED, returns it and starts mirroring it.
func (s *RecipeService) Add(ctx context.Context, title, body string) (*models.Recipe, error) {
	if strings.TrimSpace(title) == "" {
		return nil, ErrEmptyTitle
	}

	s.addMu.Lock()
	id, err := s.repo.NextLocalID(ctx)
	if err != nil {
		s.addMu.Unlock()
		return nil, err
	}
	rec := &models.Recipe{
		ID:         id,
		Title:      title,
		Body:       body,
		Timestamp:  s.now().UnixMilli(),
		Owner:      s.owner(),
		SyncStatus: models.NotSynced,
	}
	err = s.repo.Insert(ctx, rec)
	s.addMu.Unlock()
	if err != nil {
		return nil, err
	}

	s.mirrorPut(id, s.locks.reserve(id))
	return rec, nil
}

// List returns every local recipe, whatever its sync status.
func (s *RecipeService) List(ctx context.Context) ([]models.Recipe, error) {
	return s.repo.GetAll(ctx)
}

func (s *RecipeService) Get(ctx context.Context, id int64) (*models.Recipe, error) {
	return s.repo.GetByID(ctx, id)
}

// Delete removes the recipe locally and then asks the server to delete the
// same id, whatever the local sync status was. A remote failure is only
// logged; the record is already gone locally.
func (s *RecipeService) Delete(ctx context.Context, id int64) error {
	if _, err := s.repo.GetByID(ctx, id); err != nil {
		return err
	}
	if err := s.repo.DeleteByID(ctx, id); err != nil {
		return err
	}

	s.mirrorDelete(id, s.locks.reserve(id))
	return nil
}

// Retry mirrors a NOT_SYNCED or SYNC_ERROR recipe again. It refuses while
// a remote call for the same id is queued or running.
func (s *RecipeService) Retry(ctx context.Context, id int64) error {
	rec, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return err
	}
	if !rec.SyncStatus.Retryable() {
		return ErrNotRetryable
	}

	sl, ok := s.locks.tryReserve(id)
	if !ok {
		return ErrNotRetryable
	}
	s.mirrorPut(id, sl)
	return nil
}

// Recover marks records left SYNCING by an interrupted run as SYNC_ERROR
// so they can be retried. It returns how many records it touched.
func (s *RecipeService) Recover(ctx context.Context) (int, error) {
	list, err := s.repo.GetAll(ctx)
	if err != nil {
		return 0, err
	}

	n := 0
	msg := "Sync was interrupted"
	for _, r := range list {
		if r.SyncStatus != models.Syncing || s.locks.busy(r.ID) {
			continue
		}
		if err := s.repo.UpdateSyncStatus(ctx, r.ID, models.SyncError, r.LastSyncTimestamp, &msg); err != nil {
			return n, err
		}
		n++
	}
	return n, nil
}

// Remote lists recipes as the server sees them.
func (s *RecipeService) Remote(ctx context.Context, all bool) ([]models.Recipe, error) {
	ctx, cancel := context.WithTimeout(ctx, s.timeout)
	defer cancel()
	return s.client.ListRecipes(ctx, all)
}

// Pending reports whether a remote call for id is queued or running.
func (s *RecipeService) Pending(id int64) bool {
	return s.locks.busy(id)
}

// Wait blocks until every started mirror has finished.
func (s *RecipeService) Wait() {
	s.wg.Wait()
}

func (s *RecipeService) mirrorPut(id int64, sl *slot) {
	s.wg.Add(1)
	go func() {
		defer s.wg.Done()
		defer s.locks.release(id, sl)
		sl.Lock()
		defer sl.Unlock()

		s.syncPut(id)
	}()
}

func (s *RecipeService) syncPut(id int64) {
	ctx, cancel := context.WithTimeout(context.Background(), s.timeout)
	defer cancel()

	rec, err := s.repo.GetByID(ctx, id)
	if errors.Is(err, recipes.ErrNotFound) {
		return
	}
	if err != nil {
		s.logger.Error(ctx, "sync: reading recipe failed", "id", id, "error", err)
		return
	}

	if !s.setStatus(ctx, id, models.Syncing, nil, nil) {
		return
	}

	_, err = s.client.PutRecipe(ctx, *rec)
	if err != nil {
		msg := client.ErrorMessage(err)
		s.logger.Warn(ctx, "sync: put failed", "id", id, "error", err)
		s.setStatus(ctx, id, models.SyncError, nil, &msg)
		return
	}

	at := s.now().UnixMilli()
	s.setStatus(ctx, id, models.Synced, &at, nil)
	s.logger.Debug(ctx, "sync: put done", "id", id)
}

// setStatus records a transition. Its context is detached from the remote
// call so an expired timeout can still be written down.
func (s *RecipeService) setStatus(ctx context.Context, id int64, status models.SyncStatus, at *int64, msg *string) bool {
	wctx := context.WithoutCancel(ctx)
	err := s.repo.UpdateSyncStatus(wctx, id, status, at, msg)
	switch {
	case err == nil:
		return true
	case errors.Is(err, recipes.ErrNotFound):
		// Deleted locally while syncing.
		return false
	default:
		s.logger.Error(ctx, "sync: status update failed", "id", id, "status", string(status), "error", err)
		return false
	}
}

func (s *RecipeService) mirrorDelete(id int64, sl *slot) {
	s.wg.Add(1)
	go func() {
		defer s.wg.Done()
		defer s.locks.release(id, sl)
		sl.Lock()
		defer sl.Unlock()

		ctx, cancel := context.WithTimeout(context.Background(), s.timeout)
		defer cancel()

		if err := s.client.DeleteRecipe(ctx, id); err != nil {
			s.logger.Warn(ctx, "sync: remote delete failed", "id", id, "error", fmt.Sprintf("%s: %v", client.ErrorMessage(err), err))
			return
		}
		s.logger.Debug(ctx, "sync: delete done", "id", id)
	}()
}
