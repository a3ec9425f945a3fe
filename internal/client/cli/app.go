package cli

import (
	"bufio"
	"context"
	"os"

	"dermascan/internal/client/api"
	"dermascan/internal/client/auth"
	"dermascan/internal/client/config"
	"dermascan/internal/client/services"
	"dermascan/internal/client/storage"
	"dermascan/internal/logging"

	_ "modernc.org/sqlite"
)

// App glues the services together behind the REPL commands.
type App struct {
	config    *config.Config
	log       logging.Logger
	sessions  *services.SessionManager
	history   *services.HistoryService
	inference *api.InferenceClient
	chat      *api.ChatClient
	reader    *bufio.Reader

	// lastDiagnosis seeds the chat assistant; set by analyze.
	lastDiagnosis string
}

func NewApp(ctx context.Context, c *config.Config, log logging.Logger) (*App, error) {
	db, err := storage.Open(ctx, c.DatabasePath)
	if err != nil {
		log.Error(ctx, "error initializing database", "error", err)
		return nil, err
	}

	issuer := auth.NewTokenIssuer(db)

	return &App{
		config:    c,
		log:       log,
		sessions:  services.NewSessionManager(db, issuer, log),
		history:   services.NewHistoryService(db, log),
		inference: api.NewInferenceClient(c.InferenceURL, c.AnalyzeTimeout, log),
		chat:      api.NewChatClient(c.ChatURL, c.ChatAPIKey, c.ChatModel, c.ChatTimeout, log),
		reader:    bufio.NewReader(os.Stdin),
	}, nil
}

// Run restores the session and hands control to the REPL. Blocks until the
// user exits.
func (a *App) Run(ctx context.Context) {
	a.sessions.Subscribe(func(s services.SessionState) {
		if s.ErrorMessage != "" {
			printlnFn("! " + s.ErrorMessage)
			a.sessions.ClearError()
		}
	})

	a.sessions.Initialize(ctx)

	printlnFn("Welcome to dermascan (type 'help' for commands)")
	runREPL(ctx, a, a.status, bufio.NewScanner(os.Stdin))
}

func (a *App) isLoggedIn() bool {
	return a.sessions.State().LoggedIn()
}

// status renders the prompt suffix, e.g. "(ana@x.com)".
func (a *App) status() string {
	s := a.sessions.State()
	if !s.LoggedIn() {
		return ""
	}
	return "(" + s.CurrentUser.OwnerID() + ")"
}

// owner returns the current session's owner key, or "" when logged out.
func (a *App) owner() string {
	s := a.sessions.State()
	if !s.LoggedIn() {
		return ""
	}
	return s.CurrentUser.OwnerID()
}
