package cmd

import (
	"encoding/json"
	"fmt"
	"os"
	"text/tabwriter"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"

	"github.com/bnema/tabtree/internal/cli/model"
	"github.com/bnema/tabtree/internal/cli/styles"
	"github.com/bnema/tabtree/internal/domain/entity"
	"github.com/bnema/tabtree/internal/session"
	"github.com/bnema/tabtree/internal/tree"
)

const defaultSessionsLimit = 20

var (
	sessionsJSON  bool
	sessionsLimit int
	pruneKeep     int
)

var sessionsCmd = &cobra.Command{
	Use:   "sessions",
	Short: "Manage saved tab trees",
	Long: `View and manage saved tab tree sessions.

Hosts save one snapshot per window through the session store. Run
without arguments to open the interactive session browser.`,
	RunE: runSessions,
}

func init() {
	rootCmd.AddCommand(sessionsCmd)
}

func treePolicy() (tree.Policy, error) {
	return GetApp().Config.Tree.Policy()
}

func runSessions(_ *cobra.Command, _ []string) error {
	app := GetApp()

	policy, err := treePolicy()
	if err != nil {
		return err
	}

	m := model.NewSessionsModel(app.Ctx(), app.Theme, model.SessionsModelConfig{
		Repo:   app.Sessions,
		Policy: policy,
		Limit:  defaultSessionsLimit,
	})

	p := tea.NewProgram(m, tea.WithAltScreen())
	_, err = p.Run()
	return err
}

var sessionsListCmd = &cobra.Command{
	Use:   "list",
	Short: "List saved sessions",
	RunE:  runSessionsList,
}

func init() {
	sessionsCmd.AddCommand(sessionsListCmd)
	sessionsListCmd.Flags().BoolVar(&sessionsJSON, "json", false, "output as JSON")
	sessionsListCmd.Flags().IntVar(&sessionsLimit, "limit", defaultSessionsLimit, "maximum sessions to show")
}

func runSessionsList(_ *cobra.Command, _ []string) error {
	app := GetApp()

	summaries, err := app.Sessions.ListSnapshots(app.Ctx(), sessionsLimit)
	if err != nil {
		return fmt.Errorf("list sessions: %w", err)
	}

	if sessionsJSON {
		enc := json.NewEncoder(os.Stdout)
		enc.SetIndent("", "  ")
		return enc.Encode(summaries)
	}

	if len(summaries) == 0 {
		fmt.Println("no saved sessions")
		return nil
	}

	w := tabwriter.NewWriter(os.Stdout, 0, 4, 2, ' ', 0)
	fmt.Fprintln(w, "SESSION\tTABS\tSAVED")
	for _, s := range summaries {
		fmt.Fprintf(w, "%s\t%d\t%s\n", s.Session, s.TabCount, s.SavedAt.Format("2006-01-02 15:04:05"))
	}
	return w.Flush()
}

var sessionsShowCmd = &cobra.Command{
	Use:   "show <session-id>",
	Short: "Render a saved tab tree",
	Args:  cobra.ExactArgs(1),
	RunE:  runSessionsShow,
}

func init() {
	sessionsCmd.AddCommand(sessionsShowCmd)
}

func runSessionsShow(_ *cobra.Command, args []string) error {
	app := GetApp()
	sessionID := entity.SessionID(args[0])

	state, err := app.Sessions.GetSnapshot(app.Ctx(), sessionID)
	if err != nil {
		return fmt.Errorf("load session: %w", err)
	}
	if state == nil {
		return fmt.Errorf("session %s not found", sessionID)
	}

	policy, err := treePolicy()
	if err != nil {
		return err
	}
	tt, err := session.Restore(state, policy)
	if err != nil {
		return fmt.Errorf("restore session: %w", err)
	}

	fmt.Printf("%s (%d tabs, saved %s)\n\n", sessionID, state.CountTabs(), state.SavedAt.Format("2006-01-02 15:04:05"))
	fmt.Print(styles.RenderTree(app.Theme, tt))
	return nil
}

var sessionsDeleteCmd = &cobra.Command{
	Use:   "delete <session-id>",
	Short: "Delete a saved session",
	Args:  cobra.ExactArgs(1),
	RunE: func(_ *cobra.Command, args []string) error {
		app := GetApp()
		if err := app.Sessions.DeleteSnapshot(app.Ctx(), entity.SessionID(args[0])); err != nil {
			return fmt.Errorf("delete session: %w", err)
		}
		fmt.Printf("deleted %s\n", args[0])
		return nil
	},
}

var sessionsPruneCmd = &cobra.Command{
	Use:   "prune",
	Short: "Delete all but the newest sessions",
	RunE: func(_ *cobra.Command, _ []string) error {
		app := GetApp()
		removed, err := app.Sessions.Prune(app.Ctx(), pruneKeep)
		if err != nil {
			return fmt.Errorf("prune sessions: %w", err)
		}
		fmt.Printf("removed %d session(s), kept %d newest\n", removed, pruneKeep)
		return nil
	},
}

func init() {
	sessionsCmd.AddCommand(sessionsDeleteCmd)
	sessionsCmd.AddCommand(sessionsPruneCmd)
	sessionsPruneCmd.Flags().IntVar(&pruneKeep, "keep", 10, "number of newest sessions to keep")
}
