package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net"
	"net/http"

	tea "charm.land/bubbletea/v2"
	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"

	"github.com/xonecas/mimir/internal/chatproxy"
	"github.com/xonecas/mimir/internal/config"
	"github.com/xonecas/mimir/internal/content"
	"github.com/xonecas/mimir/internal/logging"
	"github.com/xonecas/mimir/internal/server"
	"github.com/xonecas/mimir/internal/shell"
	"github.com/xonecas/mimir/internal/sidebar"
	"github.com/xonecas/mimir/internal/store"
	"github.com/xonecas/mimir/internal/tui"
)

var (
	configPath string
	debugMode  bool
	noServer   bool
	siteName   string
)

var rootCmd = &cobra.Command{
	Use:   "mimir",
	Short: "Read Mimir lessons in the terminal",
	Long: `Mimir renders the lesson sites with a navigation sidebar, an AI tutor
sidebar and a terminal panel. The chat proxy starts in-process unless
--no-server is given.`,
	RunE:          runTUI,
	SilenceUsage:  true,
	SilenceErrors: true,
}

func init() {
	rootCmd.PersistentFlags().StringVar(&configPath, "config", "", "Path to config.toml (default ~/.config/mimir/config.toml)")
	rootCmd.PersistentFlags().BoolVar(&debugMode, "debug", false, "Enable debug logging")
	rootCmd.Flags().BoolVar(&noServer, "no-server", false, "Do not start the chat proxy")
	rootCmd.Flags().StringVar(&siteName, "site", "", "Site to open (overrides ui.site)")
	rootCmd.AddCommand(serveCmd, resetStateCmd, stateCmd, setKeyCmd)
}

// Execute runs the root command.
func Execute() error {
	rootCmd.Version = version
	return rootCmd.Execute()
}

func runTUI(cmd *cobra.Command, _ []string) error {
	cfg, err := config.Load(configPath)
	if err != nil {
		return fmt.Errorf("error loading config: %w", err)
	}
	dataDir, err := config.EnsureDataDir()
	if err != nil {
		return fmt.Errorf("error creating data dir: %w", err)
	}
	closer, err := logging.Setup(logging.Options{Dir: dataDir, Debug: debugMode})
	if err != nil {
		return fmt.Errorf("error opening log: %w", err)
	}
	defer closeQuietly(closer)

	name := cfg.UI.Site
	if siteName != "" {
		name = siteName
	}
	site, err := content.Load(name)
	if err != nil {
		return fmt.Errorf("%w (available: %v)", err, content.Sites())
	}

	kv, closeKV := openState(cfg)
	defer closeKV()

	ctx, cancel := context.WithCancel(cmd.Context())
	defer cancel()
	if !noServer {
		startServer(ctx, cfg)
	}

	m := tui.New(tui.Options{
		Site:      site,
		Store:     sidebar.New(kv),
		Chat:      chatproxy.NewClient(cfg.Chat.ProxyURL, nil),
		ChatModel: cfg.Chat.Model,
		Shell:     shell.New("", shell.DefaultPolicy()),
		Theme:     cfg.UI.SyntaxThemeOrDefault(),
	})
	defer m.Close()

	p := tea.NewProgram(m, tea.WithContext(ctx), tea.WithFilter(tui.MouseEventFilter))
	if _, err := p.Run(); err != nil && !errors.Is(err, tea.ErrProgramKilled) {
		return fmt.Errorf("error running mimir: %w", err)
	}
	return nil
}

// openState opens the sidebar state database. Failure degrades to an
// in-memory store so the reader still starts.
func openState(cfg *config.Config) (sidebar.KV, func()) {
	path, err := cfg.StorePathOrDefault()
	if err == nil {
		var kv *store.KV
		if kv, err = store.Open(path); err == nil {
			return kv, func() { closeQuietly(kv) }
		}
	}
	log.Warn().Err(err).Msg("sidebar state is not persisted this session")
	return sidebar.NewMemoryKV(), func() {}
}

// newChatHandler builds the proxy handler from config and credentials.
func newChatHandler(cfg *config.Config) *chatproxy.Handler {
	creds, err := config.LoadCredentials()
	if err != nil {
		log.Warn().Err(err).Msg("failed to read credentials")
	}
	return chatproxy.New(chatproxy.Options{
		Endpoint:     cfg.Chat.Endpoint,
		APIKey:       creds.ChatAPIKey(),
		DefaultModel: cfg.Chat.Model,
		Client:       &http.Client{Timeout: cfg.Chat.Timeout()},
	})
}

// startServer runs the chat proxy until ctx ends. An address already in use
// is logged and skipped; another instance is probably serving it.
func startServer(ctx context.Context, cfg *config.Config) {
	ln, err := net.Listen("tcp", cfg.Server.Addr)
	if err != nil {
		log.Warn().Err(err).Str("addr", cfg.Server.Addr).Msg("chat proxy not started")
		return
	}
	chat := newChatHandler(cfg)
	srv := server.New(cfg.Server.Addr, chat)
	go func() {
		defer chat.Close()
		if err := srv.Serve(ctx, ln); err != nil {
			log.Error().Err(err).Msg("chat proxy stopped")
		}
	}()
}

func closeQuietly(c io.Closer) {
	if err := c.Close(); err != nil {
		log.Debug().Err(err).Msg("close failed")
	}
}
