// Package account binds every browser session to an anonymous user.
package account

import (
	"context"
	"crypto/sha256"
	"database/sql"
	"encoding/hex"
	"fmt"
	"log/slog"
	"net/http"

	"github.com/alexedwards/scs/v2"
	"github.com/myrjola/homegym/internal/contexthelpers"
	"github.com/myrjola/homegym/internal/errors"
	"github.com/myrjola/homegym/internal/logging"
	"github.com/myrjola/homegym/internal/sqlite"
)

const userIDSessionKey = "user_id"

// Authenticator creates users on first visit and remembers them in the session.
type Authenticator struct {
	db             *sqlite.Database
	sessionManager *scs.SessionManager
	logger         *slog.Logger
}

// New creates an Authenticator. The session manager's LoadAndSave must wrap Middleware.
func New(db *sqlite.Database, sessionManager *scs.SessionManager, logger *slog.Logger) *Authenticator {
	return &Authenticator{db: db, sessionManager: sessionManager, logger: logger}
}

// Middleware authenticates the request as the session's user, creating one when the session has none or the user
// has been removed.
func (a *Authenticator) Middleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		ctx := r.Context()
		userID, err := a.sessionUser(ctx)
		if err != nil {
			a.logger.LogAttrs(ctx, slog.LevelError, "unable to resolve session user", errors.SlogError(err))
			http.Error(w, http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)
			return
		}
		r = contexthelpers.AuthenticateContext(r, userID)

		// Add session information to logging context.
		token := a.sessionManager.Token(r.Context())
		// Hash token with sha256 to avoid leaking it in logs.
		tokenHash := sha256.Sum256([]byte(token))
		ctx = logging.WithAttrs(r.Context(),
			slog.String("session_hash", hex.EncodeToString(tokenHash[:])),
			slog.Int("user_id", userID),
		)
		r = r.WithContext(ctx)

		next.ServeHTTP(w, r)
	})
}

func (a *Authenticator) sessionUser(ctx context.Context) (int, error) {
	userID := a.sessionManager.GetInt(ctx, userIDSessionKey)
	if userID != 0 {
		exists, err := a.userExists(ctx, userID)
		if err != nil {
			return 0, err
		}
		if exists {
			return userID, nil
		}
	}

	userID, err := a.createUser(ctx)
	if err != nil {
		return 0, err
	}
	// The token changes whenever the session gets a new user.
	if err = a.sessionManager.RenewToken(ctx); err != nil {
		return 0, fmt.Errorf("renew session token: %w", err)
	}
	a.sessionManager.Put(ctx, userIDSessionKey, userID)
	a.logger.LogAttrs(ctx, slog.LevelInfo, "created anonymous user", slog.Int("user_id", userID))
	return userID, nil
}

func (a *Authenticator) userExists(ctx context.Context, userID int) (bool, error) {
	var one int
	err := a.db.ReadOnly.QueryRowContext(ctx, `SELECT 1 FROM users WHERE id = ?`, userID).Scan(&one)
	switch {
	case errors.Is(err, sql.ErrNoRows):
		return false, nil
	case err != nil:
		return false, fmt.Errorf("%w: query user: %w", sqlite.ErrPersistenceFailure, err)
	}
	return true, nil
}

func (a *Authenticator) createUser(ctx context.Context) (int, error) {
	var userID int
	if err := a.db.ReadWrite.QueryRowContext(ctx, `INSERT INTO users DEFAULT VALUES RETURNING id`).
		Scan(&userID); err != nil {
		return 0, fmt.Errorf("%w: insert user: %w", sqlite.ErrPersistenceFailure, err)
	}
	return userID, nil
}

// Forget removes the user bound to ctx together with all their data and starts a new session.
func (a *Authenticator) Forget(ctx context.Context) error {
	userID := contexthelpers.AuthenticatedUserID(ctx)
	if _, err := a.db.ReadWrite.ExecContext(ctx, `DELETE FROM users WHERE id = ?`, userID); err != nil {
		return fmt.Errorf("%w: delete user: %w", sqlite.ErrPersistenceFailure, err)
	}
	if err := a.sessionManager.Destroy(ctx); err != nil {
		return fmt.Errorf("destroy session: %w", err)
	}
	a.logger.LogAttrs(ctx, slog.LevelInfo, "forgot user")
	return nil
}
