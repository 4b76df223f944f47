// Package cli implements the Tea Taster terminal client: a small REPL over
// the session store, the local cache, and the backend gateway.
package cli

import (
	"bufio"
	"context"
	"database/sql"
	"fmt"
	"os"
	"sync"
	"time"

	_ "modernc.org/sqlite"

	"github.com/teaisforme/teataster/internal/client/client"
	"github.com/teaisforme/teataster/internal/client/config"
	"github.com/teaisforme/teataster/internal/client/migrations"
	"github.com/teaisforme/teataster/internal/client/repositories/categories"
	"github.com/teaisforme/teataster/internal/client/repositories/notes"
	"github.com/teaisforme/teataster/internal/client/repositories/preferences"
	"github.com/teaisforme/teataster/internal/client/services"
	"github.com/teaisforme/teataster/internal/client/session"
	"github.com/teaisforme/teataster/internal/client/vault"
	"github.com/teaisforme/teataster/internal/logging"
)

type Mode string

const (
	ModeOffline Mode = "offline"
	ModeOnline  Mode = "online"
)

type App struct {
	config       *config.Config
	api          client.Client
	sessions     *session.Store
	auth         *services.AuthService
	synchronizer *services.Synchronizer
	notes        notes.Repository
	categories   categories.Repository
	prefs        preferences.Repository
	log          logging.Logger
	db           *sql.DB
	reader       *bufio.Reader

	modeMu sync.Mutex // the online watcher and the REPL share mode
	mode   Mode
}

func NewApp(ctx context.Context, c *config.Config, log logging.Logger) (*App, error) {
	if err := os.MkdirAll(c.DataDir, 0o700); err != nil {
		return nil, fmt.Errorf("failed to create data dir: %w", err)
	}

	db, err := sql.Open("sqlite", c.DatabasePath())
	if err != nil {
		return nil, fmt.Errorf("failed to open local cache: %w", err)
	}
	if err := migrations.Up(ctx, db); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to migrate local cache: %w", err)
	}

	prefs := preferences.NewSQLiteRepository(db)

	// the stored unlock mode decides the vault posture for a fresh vault;
	// an existing envelope's persisted posture still wins
	savedMode, err := prefs.Get(ctx, preferences.KeyUnlockMode)
	if err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to read preferences: %w", err)
	}
	vaultType, securityType := session.UnlockMode(savedMode).VaultConfig()

	v, err := vault.NewFileVault(c.VaultDir(), vault.Config{
		Type:               vaultType,
		DeviceSecurityType: securityType,
	})
	if err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to open vault: %w", err)
	}

	reader := bufio.NewReader(os.Stdin)
	sessions := session.NewStore(v, vault.DesktopDevice{},
		&terminalNavigator{}, &terminalPasscodeProvider{}, log)

	api := client.NewHTTPClient(c.ServerAddr, sessions)
	notesRepo := notes.NewSQLiteRepository(db)
	categoriesRepo := categories.NewSQLiteRepository(db)
	synchronizer := services.NewSynchronizer(api, notesRepo, categoriesRepo, sessions, log)

	return &App{
		config:       c,
		api:          api,
		sessions:     sessions,
		auth:         services.NewAuthService(api, sessions, synchronizer, log),
		synchronizer: synchronizer,
		notes:        notesRepo,
		categories:   categoriesRepo,
		prefs:        prefs,
		log:          log,
		db:           db,
		reader:       reader,
		mode:         ModeOffline,
	}, nil
}

func (a *App) Run(ctx context.Context) {
	defer a.Close()

	go a.StartOnlineStatusWatcher(ctx, a.config.OnlineCheckInterval)

	a.Root(ctx)
}

func (a *App) Close() {
	if err := a.api.Close(); err != nil {
		a.log.Warn(context.Background(), "failed to close api client", "error", err)
	}
	if err := a.db.Close(); err != nil {
		a.log.Warn(context.Background(), "failed to close local cache", "error", err)
	}
}

func (a *App) setMode(mode Mode) {
	a.modeMu.Lock()
	changed := a.mode != mode
	a.mode = mode
	a.modeMu.Unlock()

	if changed {
		fmt.Printf("Switched to %s mode\n", mode)
	}
}

func (a *App) currentMode() Mode {
	a.modeMu.Lock()
	defer a.modeMu.Unlock()
	return a.mode
}

// StartOnlineStatusWatcher periodically probes the backend and flips the
// online/offline indicator shown in the prompt.
func (a *App) StartOnlineStatusWatcher(ctx context.Context, interval time.Duration) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			pingCtx, cancel := context.WithTimeout(context.Background(), 3*time.Second)
			err := a.api.Ping(pingCtx)
			cancel()

			if err != nil {
				a.setMode(ModeOffline)
			} else {
				a.setMode(ModeOnline)
			}

		case <-ctx.Done():
			return
		}
	}
}

// terminalNavigator is the CLI stand-in for screen navigation: a lock event
// just tells the user how to get back in.
type terminalNavigator struct{}

func (terminalNavigator) ReplaceToLogin() {
	fmt.Println("Session locked. Type 'unlock' or 'login' to continue.")
}

// terminalPasscodeProvider reads the session PIN from the terminal without
// echo.
type terminalPasscodeProvider struct{}

func (terminalPasscodeProvider) RequestPasscode(isSetRequest bool) (string, error) {
	prompt := "Enter session PIN"
	if isSetRequest {
		prompt = "Set a session PIN"
	}
	code, err := GetSecret(prompt, os.Stdout)
	if err != nil {
		return "", err
	}
	return string(code), nil
}
