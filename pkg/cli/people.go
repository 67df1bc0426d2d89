package cli

import (
	"fmt"
	"strings"

	"github.com/japaniel/connections/pkg/db"
	"github.com/spf13/cobra"
)

func newListCommand() *cobra.Command {
	var (
		unvisited bool
		companies []int64
	)
	cmd := &cobra.Command{
		Use:   "list",
		Short: "List people",
		Long:  `List stored people ordered by last name, then first name.`,
		Example: `  connections list
  connections list --unvisited --company 3,7`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			cc, cleanup, err := newCommandContext(cmd)
			if err != nil {
				return err
			}
			defer cleanup()

			var people []db.Person
			if unvisited {
				people, err = cc.Store.GetUnvisitedPeople(companies...)
			} else {
				people, err = cc.Store.GetPeopleFiltered(companies...)
			}
			if err != nil {
				return err
			}
			return cc.Out.People(people)
		},
	}
	cmd.Flags().BoolVarP(&unvisited, "unvisited", "u", false, "Only people not visited yet")
	cmd.Flags().Int64SliceVarP(&companies, "company", "c", nil, "Restrict to these company ids")
	return cmd
}

func newShowCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "show <id>",
		Short: "Show one person with their linked titles",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ids, err := parseIDs(args)
			if err != nil {
				return err
			}
			cc, cleanup, err := newCommandContext(cmd)
			if err != nil {
				return err
			}
			defer cleanup()

			p, ok, err := cc.Store.GetPerson(ids[0])
			if err != nil {
				return err
			}
			if !ok {
				return fmt.Errorf("person %d not found", ids[0])
			}
			positions, err := cc.Store.PositionsFor(p.ID)
			if err != nil {
				return err
			}
			return cc.Out.Person(p, positions)
		},
	}
}

func newVisitCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "visit <id>...",
		Short: "Mark people as visited",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runSetVisited(cmd, args, true)
		},
	}
}

func newUnvisitCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "unvisit <id>...",
		Short: "Clear the visited mark",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runSetVisited(cmd, args, false)
		},
	}
}

func runSetVisited(cmd *cobra.Command, args []string, visited bool) error {
	ids, err := parseIDs(args)
	if err != nil {
		return err
	}
	cc, cleanup, err := newCommandContext(cmd)
	if err != nil {
		return err
	}
	defer cleanup()

	if visited {
		err = cc.Store.MarkVisited(ids)
	} else {
		err = cc.Store.UnmarkVisited(ids)
	}
	if err != nil {
		return err
	}
	cc.Logger.Info("visited flag updated", "ids", len(ids), "visited", visited)
	if visited {
		cc.Out.Printf("Marked %d people visited\n", len(ids))
	} else {
		cc.Out.Printf("Marked %d people unvisited\n", len(ids))
	}
	return nil
}

func newDeleteCommand() *cobra.Command {
	var yes bool
	cmd := &cobra.Command{
		Use:   "delete <id>...",
		Short: "Delete people and their title links",
		Long: `Delete people and their title links in one transaction. Companies and
titles are kept.`,
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ids, err := parseIDs(args)
			if err != nil {
				return err
			}
			if !yes {
				return fmt.Errorf("refusing to delete %d people without --yes", len(ids))
			}
			cc, cleanup, err := newCommandContext(cmd)
			if err != nil {
				return err
			}
			defer cleanup()

			if err := cc.Store.DeletePeople(ids); err != nil {
				return err
			}
			cc.Logger.Info("people deleted", "ids", len(ids))
			cc.Out.Printf("Deleted %d people\n", len(ids))
			return nil
		},
	}
	cmd.Flags().BoolVarP(&yes, "yes", "y", false, "Confirm the deletion")
	return cmd
}

func newOpenCommand() *cobra.Command {
	var (
		companies []int64
		limit     int
	)
	cmd := &cobra.Command{
		Use:   "open [id...]",
		Short: "Open profiles in the browser and mark them visited",
		Long: `Open the profile pages of the given people as tabs of one new browser
window, then mark them visited. Without ids, unvisited people of the
--company filter are opened. The connection note is printed so it can be
pasted into the invitation.`,
		Example: `  connections open 12 15 16
  connections open --company 3 --limit 10`,
		RunE: func(cmd *cobra.Command, args []string) error {
			if len(args) == 0 && len(companies) == 0 {
				return fmt.Errorf("give person ids or --company")
			}
			cc, cleanup, err := newCommandContext(cmd)
			if err != nil {
				return err
			}
			defer cleanup()

			ids, err := selectForOpen(cc.Store, args, companies, limit)
			if err != nil {
				return err
			}
			if len(ids) == 0 {
				cc.Out.Printf("Nobody to open\n")
				return nil
			}

			urls, err := cc.Store.PeopleURLs(ids)
			if err != nil {
				return err
			}
			if len(urls) > 0 {
				o, err := getOpenerFactory(cmd.Context())(cc.Config.Browser, cc.Logger)
				if err != nil {
					return err
				}
				o.Open(urls)
			}

			if err := cc.Store.MarkVisited(ids); err != nil {
				return err
			}
			cc.Logger.Info("profiles opened", "people", len(ids), "urls", len(urls))

			note, _, err := cc.Store.GetSetting(db.SettingConnectionNote)
			if err != nil {
				return err
			}
			if cc.Out.json() {
				return cc.Out.JSON(openResult{IDs: ids, URLs: urls, Note: note})
			}
			cc.Out.Printf("Opened %d profiles, marked %d people visited\n", len(urls), len(ids))
			if strings.TrimSpace(note) != "" {
				cc.Out.Printf("Connection note:\n%s\n", note)
			}
			return nil
		},
	}
	cmd.Flags().Int64SliceVarP(&companies, "company", "c", nil, "Open unvisited people of these company ids")
	cmd.Flags().IntVarP(&limit, "limit", "n", 0, "Open at most this many people (0 = no limit)")
	return cmd
}

type openResult struct {
	IDs  []int64  `json:"ids"`
	URLs []string `json:"urls"`
	Note string   `json:"note"`
}

// selectForOpen resolves explicit ids, or unvisited people of companies.
func selectForOpen(store *db.Store, args []string, companies []int64, limit int) ([]int64, error) {
	var ids []int64
	if len(args) > 0 {
		parsed, err := parseIDs(args)
		if err != nil {
			return nil, err
		}
		ids = parsed
	} else {
		people, err := store.GetUnvisitedPeople(companies...)
		if err != nil {
			return nil, err
		}
		for _, p := range people {
			ids = append(ids, p.ID)
		}
	}
	if limit > 0 && len(ids) > limit {
		ids = ids[:limit]
	}
	return ids, nil
}

func newStatsCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "stats",
		Short: "Show how many people have been visited",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			cc, cleanup, err := newCommandContext(cmd)
			if err != nil {
				return err
			}
			defer cleanup()

			st, err := cc.Store.VisitedStats()
			if err != nil {
				return err
			}
			return cc.Out.Stats(st)
		},
	}
}
