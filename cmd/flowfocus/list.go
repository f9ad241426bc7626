package main

import (
	"errors"
	"fmt"
	"os/signal"
	"strconv"
	"strings"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/adanyl0v/flowfocus/internal/config"
	"github.com/adanyl0v/flowfocus/internal/locallist"
	"github.com/adanyl0v/flowfocus/internal/ui"
)

func listCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "list",
		Short: "The offline to-do list kept on this machine",
		Long: `A simple to-do list stored on this machine, no account needed.
Items are addressed by the number shown next to them.`,
	}

	cmd.AddCommand(listShowCmd())
	cmd.AddCommand(listAddCmd())
	cmd.AddCommand(listToggleCmd())
	cmd.AddCommand(listEditCmd())
	cmd.AddCommand(listRemoveCmd())
	cmd.AddCommand(listClearCompletedCmd())
	cmd.AddCommand(listWatchCmd())
	return cmd
}

// localList is an open list store together with what has to be closed
// when the command is done.
type localList struct {
	*locallist.Store
	json  *locallist.JSONFileStorage
	close func() error
}

func (e *env) openList(prompter locallist.Prompter) (*localList, error) {
	var (
		storage locallist.Storage
		list    = &localList{close: func() error { return nil }}
	)
	switch e.cfg.ListStorage {
	case config.ListStorageSQLite:
		sqlite, err := locallist.OpenSQLiteStorage(e.cfg.ListPath)
		if err != nil {
			return nil, err
		}
		storage, list.close = sqlite, sqlite.Close
	default:
		list.json = locallist.NewJSONFileStorage(e.logger, e.cfg.ListPath)
		storage = list.json
	}

	store, err := locallist.New(e.logger, storage, prompter)
	if err != nil {
		_ = list.close()
		return nil, err
	}
	list.Store = store
	return list, nil
}

func listShowCmd() *cobra.Command {
	var flagFilter string

	cmd := &cobra.Command{
		Use:     "show",
		Aliases: []string{"ls"},
		Short:   "Show the list",
		Args:    cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return withList(cmd, func(e *env, list *localList) error {
				return renderList(e, list, flagFilter)
			})
		},
	}

	cmd.Flags().StringVarP(&flagFilter, "filter", "f", locallist.FilterAll, "Show all, active or completed items")
	return cmd
}

func listAddCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "add TEXT",
		Short: "Add an item",
		RunE: func(cmd *cobra.Command, args []string) error {
			return withList(cmd, func(e *env, list *localList) error {
				err := list.Add(strings.Join(args, " "))
				if errors.Is(err, locallist.ErrEmptyText) {
					return reported(err)
				}
				if err != nil {
					return err
				}
				return renderList(e, list, locallist.FilterAll)
			})
		},
	}
}

func listToggleCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "toggle N",
		Short: "Mark an item done or not done",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return withList(cmd, func(e *env, list *localList) error {
				index, err := parseItemNumber(args[0])
				if err != nil {
					return err
				}
				err = list.Toggle(index)
				if err != nil {
					return err
				}
				return renderList(e, list, locallist.FilterAll)
			})
		},
	}
}

func listEditCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "edit N",
		Short: "Change an item's text",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return withList(cmd, func(e *env, list *localList) error {
				index, err := parseItemNumber(args[0])
				if err != nil {
					return err
				}
				changed, err := list.Edit(index)
				if err != nil || !changed {
					return err
				}
				return renderList(e, list, locallist.FilterAll)
			})
		},
	}
}

func listRemoveCmd() *cobra.Command {
	var flagYes bool

	cmd := &cobra.Command{
		Use:     "rm N",
		Aliases: []string{"delete"},
		Short:   "Delete an item",
		Args:    cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			prompter := newLinePrompter(cmd.InOrStdin(), cmd.OutOrStdout())
			prompter.assumeYes = flagYes

			return withListPrompter(cmd, prompter, func(e *env, list *localList) error {
				index, err := parseItemNumber(args[0])
				if err != nil {
					return err
				}
				removed, err := list.Remove(index)
				if err != nil || !removed {
					return err
				}
				return renderList(e, list, locallist.FilterAll)
			})
		},
	}

	cmd.Flags().BoolVarP(&flagYes, "yes", "y", false, "Don't ask for confirmation")
	return cmd
}

func listClearCompletedCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "clear-completed",
		Short: "Delete every completed item",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return withList(cmd, func(e *env, list *localList) error {
				n, err := list.ClearCompleted()
				if err != nil {
					return err
				}
				fmt.Fprintf(e.out, "%s\n", ui.Dim(fmt.Sprintf("Cleared %d completed item(s).", n)))
				return renderList(e, list, locallist.FilterAll)
			})
		},
	}
}

func listWatchCmd() *cobra.Command {
	var flagFilter string

	cmd := &cobra.Command{
		Use:   "watch",
		Short: "Show the list again whenever it changes",
		Long:  "Show the list and redraw it whenever another flowfocus process changes it. Needs the json list storage.",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return withList(cmd, func(e *env, list *localList) error {
				if list.json == nil {
					return fmt.Errorf("watch needs %s list storage, not %s", config.ListStorageJSON, e.cfg.ListStorage)
				}

				ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
				defer stop()

				err := renderList(e, list, flagFilter)
				if err != nil {
					return err
				}
				return list.json.Watch(ctx, func() {
					err := list.Reload()
					if err != nil {
						// A half written file from another editor; the next event fixes it.
						return
					}
					fmt.Fprintln(e.out)
					_ = renderList(e, list, flagFilter)
				})
			})
		},
	}

	cmd.Flags().StringVarP(&flagFilter, "filter", "f", locallist.FilterAll, "Show all, active or completed items")
	return cmd
}

func withList(cmd *cobra.Command, fn func(e *env, list *localList) error) error {
	prompter := newLinePrompter(cmd.InOrStdin(), cmd.OutOrStdout())
	return withListPrompter(cmd, prompter, fn)
}

func withListPrompter(cmd *cobra.Command, prompter locallist.Prompter, fn func(e *env, list *localList) error) error {
	e, err := loadEnv(cmd)
	if err != nil {
		return err
	}
	list, err := e.openList(prompter)
	if err != nil {
		return err
	}
	defer func() { _ = list.close() }()

	return fn(e, list)
}

func renderList(e *env, list *localList, filter string) error {
	entries, err := list.Filter(filter)
	if err != nil {
		return fmt.Errorf("%w: %s", err, filter)
	}
	ui.RenderList(e.out, entries)

	items := list.Items()
	left := 0
	for _, item := range items {
		if !item.Completed {
			left++
		}
	}
	fmt.Fprintln(e.out, ui.Dim(fmt.Sprintf("%d of %d left", left, len(items))))
	return nil
}

// parseItemNumber turns the 1-based number shown to the user into an index.
func parseItemNumber(arg string) (int, error) {
	n, err := strconv.Atoi(strings.TrimSpace(arg))
	if err != nil || n < 1 {
		return 0, fmt.Errorf("not an item number: %s", arg)
	}
	return n - 1, nil
}
