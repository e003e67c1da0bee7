// Package main provides the CLI entrypoint for tuitale.
package main

import (
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"
	"golang.org/x/term"

	"github.com/verte-zerg/tuitale/internal/config"
	"github.com/verte-zerg/tuitale/internal/model"
	progressfile "github.com/verte-zerg/tuitale/internal/progress"
	"github.com/verte-zerg/tuitale/internal/session"
	"github.com/verte-zerg/tuitale/internal/stats"
	"github.com/verte-zerg/tuitale/internal/store"
	"github.com/verte-zerg/tuitale/internal/text"
	"github.com/verte-zerg/tuitale/internal/tui"
)

const (
	defaultLayout      = "qwerty"
	defaultCurveWindow = 20
	fallbackTermWidth  = 80
)

var (
	typeLayout   string
	typeKeyboard bool
	typeProgress string

	statsStory       string
	statsSince       string
	statsLast        int
	statsCurveWindow int
)

func main() {
	rootCmd := newRootCmd()
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	rootCmd := &cobra.Command{
		Use:           "tuitale <story.txt>",
		Short:         "TUI typing trainer for stories",
		Args:          cobra.ExactArgs(1),
		SilenceUsage:  true,
		SilenceErrors: false,
		RunE:          runTypeCmd,
	}

	rootCmd.Flags().StringVar(&typeLayout, "layout", defaultLayout, "keyboard layout for hints (qwerty, dvorak, 3l)")
	rootCmd.Flags().BoolVar(&typeKeyboard, "keyboard", false, "show the keyboard hint widget")
	rootCmd.Flags().StringVar(&typeProgress, "progress", "", "progress file path (default: <story>.progress.json)")

	rootCmd.AddCommand(newConfigCmd())
	rootCmd.AddCommand(newStatsCmd())

	return rootCmd
}

func runTypeCmd(cmd *cobra.Command, args []string) error {
	fileCfg, err := config.LoadConfig(config.DefaultConfigPath())
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}
	applyStringConfig(cmd, "layout", &typeLayout, fileCfg.UI.Layout)
	applyBoolConfig(cmd, "keyboard", &typeKeyboard, fileCfg.UI.Keyboard)

	txt, err := text.Load(args[0])
	if err != nil {
		return fmt.Errorf("failed to load story: %w", err)
	}

	progressPath := typeProgress
	if progressPath == "" {
		progressPath = text.ProgressPath(txt.Path())
	}

	sess, resumed := progressfile.Load(progressPath, txt.Fingerprint(), txt.Runes())
	if !resumed {
		sess = session.New(txt.Runes())
	}

	st, err := store.Open(config.DefaultDBPath())
	if err != nil {
		return fmt.Errorf("failed to open db: %w", err)
	}
	defer func() {
		if cerr := st.Close(); cerr != nil {
			logErrf("failed to close db: %v\n", cerr)
		}
	}()

	cfg := model.Config{
		Layout:       typeLayout,
		ShowKeyboard: typeKeyboard,
		ProgressPath: progressPath,
	}

	uiModel := tui.NewModel(cfg, txt, sess, st)
	program := tea.NewProgram(uiModel, tea.WithAltScreen(), tea.WithReportFocus())
	final, err := program.Run()
	if err != nil {
		return fmt.Errorf("failed to run TUI: %w", err)
	}
	finalModel, ok := final.(*tui.Model)
	if !ok {
		finalModel = uiModel
	}
	if err := progressfile.Save(progressPath, finalModel.Session(), txt.Fingerprint()); err != nil {
		return fmt.Errorf("failed to save progress: %w", err)
	}
	return nil
}

func newConfigCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "config",
		Short: "Create/open config file",
		Args:  cobra.NoArgs,
		RunE:  runConfigCmd,
	}
}

func runConfigCmd(_ *cobra.Command, _ []string) error {
	path := config.DefaultConfigPath()
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}
	if _, err := os.Stat(path); err != nil {
		if !os.IsNotExist(err) {
			return fmt.Errorf("failed to stat config: %w", err)
		}
		if err := os.WriteFile(path, []byte(defaultConfigTemplate()), 0o644); err != nil {
			return fmt.Errorf("failed to write config: %w", err)
		}
	}

	editor := strings.TrimSpace(os.Getenv("EDITOR"))
	if editor == "" {
		editor = "vi"
	}
	parts := strings.Fields(editor)
	if len(parts) == 0 {
		return fmt.Errorf("editor command is empty")
	}
	cmd := exec.Command(parts[0], append(parts[1:], path)...)
	cmd.Stdin = os.Stdin
	cmd.Stdout = os.Stdout
	cmd.Stderr = os.Stderr
	if err := cmd.Run(); err != nil {
		return fmt.Errorf("failed to open editor: %w", err)
	}
	return nil
}

func newStatsCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "stats",
		Short: "Show session stats",
		Args:  cobra.NoArgs,
		RunE:  runStatsCmd,
	}
	cmd.Flags().StringVar(&statsStory, "story", "", "story path substring or fingerprint filter")
	cmd.Flags().StringVar(&statsSince, "since", "", "start date (YYYY-MM-DD)")
	cmd.Flags().IntVar(&statsLast, "last", 0, "limit to last N sessions")
	cmd.Flags().IntVar(&statsCurveWindow, "curve-window", defaultCurveWindow, "moving average window")
	return cmd
}

func runStatsCmd(cmd *cobra.Command, _ []string) error {
	var sinceTime *time.Time
	if statsSince != "" {
		parsed, err := time.ParseInLocation("2006-01-02", statsSince, time.Local)
		if err != nil {
			return fmt.Errorf("invalid --since value: %w", err)
		}
		sinceTime = &parsed
	}

	cfg := model.StatsConfig{
		Story:       statsStory,
		Since:       sinceTime,
		Last:        statsLast,
		CurveWindow: statsCurveWindow,
	}

	st, err := store.Open(config.DefaultDBPath())
	if err != nil {
		return fmt.Errorf("failed to open db: %w", err)
	}
	defer func() {
		if cerr := st.Close(); cerr != nil {
			logErrf("failed to close db: %v\n", cerr)
		}
	}()

	sessions, err := st.ListSessions(cmd.Context(), cfg)
	if err != nil {
		return fmt.Errorf("failed to load sessions: %w", err)
	}
	if cfg.Last > 0 && len(sessions) > cfg.Last {
		sessions = sessions[len(sessions)-cfg.Last:]
	}

	width := terminalWidth()
	out := cmd.OutOrStdout()
	if err := stats.RenderSummary(out, sessions); err != nil {
		return fmt.Errorf("failed to write output: %w", err)
	}
	if err := stats.RenderSessions(out, sessions); err != nil {
		return fmt.Errorf("failed to write output: %w", err)
	}
	if err := stats.RenderCurves(out, sessions, cfg.CurveWindow, width); err != nil {
		return fmt.Errorf("failed to write output: %w", err)
	}
	return nil
}

func terminalWidth() int {
	width, _, err := term.GetSize(int(os.Stdout.Fd()))
	if err != nil || width <= 0 {
		return fallbackTermWidth
	}
	return width
}

func applyStringConfig(cmd *cobra.Command, name string, target, value *string) {
	if value == nil {
		return
	}
	if cmd.Flags().Changed(name) {
		return
	}
	*target = *value
}

func applyBoolConfig(cmd *cobra.Command, name string, target, value *bool) {
	if value == nil {
		return
	}
	if cmd.Flags().Changed(name) {
		return
	}
	*target = *value
}

func defaultConfigTemplate() string {
	return fmt.Sprintf(`# tuitale configuration
# Uncomment a value to enable it. CLI flags override config values.

[ui]
# layout = %q        # Keyboard layout for hints (qwerty, dvorak, 3l)
# keyboard = false        # Show the keyboard hint widget
`,
		defaultLayout,
	)
}

func logErrf(format string, args ...any) {
	if _, err := fmt.Fprintf(os.Stderr, format, args...); err != nil {
		// Best-effort logging to stderr.
		_ = err
	}
}
