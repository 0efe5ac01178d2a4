// Package services contains server-side business logic. This file implements
// SessionService, the token lifecycle manager: it issues, validates, rotates,
// and revokes opaque session handles (JTIs) across the durable token store
// and the fast lookup cache.
package services

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/dmitrijs2005/sessionkeeper/internal/common"
	"github.com/dmitrijs2005/sessionkeeper/internal/dbx"
	"github.com/dmitrijs2005/sessionkeeper/internal/logging"
	"github.com/dmitrijs2005/sessionkeeper/internal/server/auth"
	"github.com/dmitrijs2005/sessionkeeper/internal/server/cache"
	"github.com/dmitrijs2005/sessionkeeper/internal/server/config"
	"github.com/dmitrijs2005/sessionkeeper/internal/server/models"
	"github.com/dmitrijs2005/sessionkeeper/internal/server/repositories/repomanager"
)

// dummyHash is a bcrypt hash verified against when the email lookup misses,
// so a signin for an unknown email costs the same as a wrong password.
const dummyHash = "$2a$10$N9qo8uLOickgx2ZMRZoMyeIjZAgcfl7p92ldGxad68LJZdL17lhWy"

// SessionService orchestrates the session lifecycle. The durable store is
// the source of truth; the cache is an accelerator whose entries expire on
// their own. Rotation and issuance for one user are serialized with a
// per-user mutex so concurrent signins cannot leave two live sessions.
type SessionService struct {
	db          *sql.DB
	repomanager repomanager.RepositoryManager
	cache       cache.Cache
	hasher      auth.PasswordHasher
	logger      logging.Logger
	jwtSecret   []byte
	tokenTTL    time.Duration

	userLocks sync.Map // user ID -> *sync.Mutex
}

// NewSessionService constructs a SessionService from its collaborators and
// server config.
func NewSessionService(db *sql.DB, m repomanager.RepositoryManager, c cache.Cache,
	h auth.PasswordHasher, l logging.Logger, cfg *config.Config) *SessionService {
	return &SessionService{
		db:          db,
		repomanager: m,
		cache:       c,
		hasher:      h,
		logger:      l.With("module", "session_service"),
		jwtSecret:   []byte(cfg.SecretKey),
		tokenTTL:    cfg.AccessTokenValidityDuration,
	}
}

// SignUp creates a user with the given credentials and issues the first
// session. A duplicate email (case-insensitive) yields
// common.ErrorAlreadyExists.
func (s *SessionService) SignUp(ctx context.Context, email, password string) (*models.User, string, error) {
	email = foldEmail(email)

	hash, err := s.hasher.Hash(password)
	if err != nil {
		return nil, "", common.ErrorInternal
	}

	user := &models.User{Email: email, PasswordHash: hash, UserToken: uuid.NewString()}
	repo := s.repomanager.Users(s.db)
	user, err = repo.Create(ctx, user)
	if err != nil {
		if errors.Is(err, common.ErrorAlreadyExists) {
			return nil, "", common.ErrorAlreadyExists
		}
		return nil, "", fmt.Errorf("error creating user: %v", err)
	}

	jti, err := s.issueSession(ctx, user, nil)
	if err != nil {
		return nil, "", err
	}

	return user, jti, nil
}

// SignIn verifies credentials, retires the user's previous active session,
// and issues a new one. Unknown email and wrong password both yield
// common.ErrorInvalidCredentials.
func (s *SessionService) SignIn(ctx context.Context, email, password string) (*models.User, string, error) {
	repo := s.repomanager.Users(s.db)
	user, err := repo.GetByEmail(ctx, foldEmail(email))
	if err != nil {
		if errors.Is(err, common.ErrorNotFound) {
			s.hasher.Verify(dummyHash, password)
			return nil, "", common.ErrorInvalidCredentials
		}
		return nil, "", fmt.Errorf("error searching user: %v", err)
	}
	if !s.hasher.Verify(user.PasswordHash, password) {
		return nil, "", common.ErrorInvalidCredentials
	}

	lock := s.userLock(user.ID)
	lock.Lock()
	defer lock.Unlock()

	superseded, err := s.findActive(ctx, user)
	if err != nil {
		return nil, "", err
	}
	if superseded != nil {
		if err := s.cache.Delete(ctx, superseded.JTI); err != nil {
			return nil, "", fmt.Errorf("error deleting cache entry: %v", err)
		}
	}

	jti, err := s.issueSession(ctx, user, superseded)
	if err != nil {
		return nil, "", err
	}

	return user, jti, nil
}

// Validate resolves a bearer handle to its decoded claims. A cache miss
// yields common.ErrorUnauthorized: the cache is the sole validity oracle,
// the durable store is not consulted here. A signature or decode failure
// yields common.ErrInvalidToken instead, signalling tampering or a key
// mismatch rather than ordinary expiry.
func (s *SessionService) Validate(ctx context.Context, jti string) (*auth.Claims, error) {
	signedToken, err := s.cache.Get(ctx, jti)
	if err != nil {
		if errors.Is(err, common.ErrorNotFound) {
			return nil, common.ErrorUnauthorized
		}
		return nil, fmt.Errorf("error reading cache: %v", err)
	}

	claims, err := auth.ParseToken(signedToken, s.jwtSecret)
	if err != nil {
		return nil, common.ErrInvalidToken
	}

	return claims, nil
}

// SignOut revokes the session behind the bearer handle. An unknown handle
// yields common.ErrorNotSignedIn. A cache-present handle without a durable
// record is tolerated and logged; it reflects the orphan window between the
// two stores.
func (s *SessionService) SignOut(ctx context.Context, jti string) error {
	if _, err := s.cache.Get(ctx, jti); err != nil {
		if errors.Is(err, common.ErrorNotFound) {
			return common.ErrorNotSignedIn
		}
		return fmt.Errorf("error reading cache: %v", err)
	}

	if err := s.cache.Delete(ctx, jti); err != nil {
		return fmt.Errorf("error deleting cache entry: %v", err)
	}

	repo := s.repomanager.Tokens(s.db)
	record, err := repo.FindByJTI(ctx, jti)
	if err != nil {
		if errors.Is(err, common.ErrorNotFound) {
			s.logger.Warn(ctx, "no matching token record for cached handle", "jti", jti)
			return nil
		}
		return fmt.Errorf("error searching token record: %v", err)
	}

	if err := repo.SoftDelete(ctx, record.ID); err != nil {
		return fmt.Errorf("error revoking token record: %v", err)
	}

	return nil
}

// --- helpers below ---

// findActive returns the user's newest live access record, or nil when none
// exists. Absence is the common case for signup and first signin.
func (s *SessionService) findActive(ctx context.Context, user *models.User) (*models.TokenRecord, error) {
	repo := s.repomanager.Tokens(s.db)
	record, err := repo.FindLatestActive(ctx, user.ID, common.TokenTypeAccess)
	if err != nil {
		if errors.Is(err, common.ErrorNotFound) {
			return nil, nil
		}
		return nil, fmt.Errorf("error searching active session: %v", err)
	}
	return record, nil
}

// issueSession mints a fresh handle and signed token, retires the superseded
// record and persists the new one in a single transaction, then populates
// the cache. The durable write commits first: a cache population failure
// surfaces as an error and the record stays behind as an unusable active
// session until the next rotation retires it.
func (s *SessionService) issueSession(ctx context.Context, user *models.User, superseded *models.TokenRecord) (string, error) {
	jti := uuid.NewString()

	signedToken, err := auth.GenerateToken(user.UserToken, jti, s.jwtSecret, s.tokenTTL)
	if err != nil {
		return "", common.ErrorInternal
	}

	expiresAt := time.Now().Add(s.tokenTTL)
	record := &models.TokenRecord{
		UserID:      user.ID,
		JTI:         jti,
		SignedToken: signedToken,
		Type:        common.TokenTypeAccess,
		ExpiresAt:   &expiresAt,
	}

	if err := dbx.WithTx(ctx, s.db, nil, func(ctx context.Context, tx dbx.DBTX) error {
		repoTx := s.repomanager.Tokens(tx)
		if superseded != nil {
			if err := repoTx.SoftDelete(ctx, superseded.ID); err != nil {
				return fmt.Errorf("error retiring token record: %v", err)
			}
		}
		if _, err := repoTx.Create(ctx, record); err != nil {
			return fmt.Errorf("error persisting token record: %v", err)
		}
		return nil
	}); err != nil {
		return "", err
	}

	if err := s.cache.Set(ctx, jti, signedToken, s.tokenTTL); err != nil {
		return "", fmt.Errorf("error populating cache: %v", err)
	}

	return jti, nil
}

func (s *SessionService) userLock(userID string) *sync.Mutex {
	l, _ := s.userLocks.LoadOrStore(userID, &sync.Mutex{})
	return l.(*sync.Mutex)
}

func foldEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}
