package main

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/adanyl0v/flowfocus/internal/models"
	"github.com/adanyl0v/flowfocus/internal/registry"
	"github.com/adanyl0v/flowfocus/internal/services"
	"github.com/adanyl0v/flowfocus/internal/ui"
)

// Shorter prefixes match too many ids to be useful.
const minTaskIDSuffix = 4

var errAmbiguousTask = errors.New("more than one task matches this id")

func tasksCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:     "tasks",
		Aliases: []string{"task", "t"},
		Short:   "Manage tasks",
	}

	cmd.AddCommand(tasksListCmd())
	cmd.AddCommand(tasksAddCmd())
	cmd.AddCommand(tasksEditCmd())
	cmd.AddCommand(tasksStatusCmd())
	cmd.AddCommand(tasksDeleteCmd())
	cmd.AddCommand(tasksStatsCmd())
	return cmd
}

func tasksListCmd() *cobra.Command {
	var flagStatus, flagCategory string

	cmd := &cobra.Command{
		Use:     "list",
		Aliases: []string{"ls"},
		Short:   "List tasks, newest first",
		Args:    cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if flagStatus != registry.FilterAll && !models.IsValidStatus(flagStatus) {
				return fmt.Errorf("%w: %s", services.ErrInvalidTaskStatus, flagStatus)
			}

			e, err := loadEnv(cmd)
			if err != nil {
				return err
			}
			r, err := e.loggedIn()
			if err != nil {
				return err
			}

			categoryID := registry.FilterAll
			if flagCategory != registry.FilterAll {
				category, err := lookupCategory(cmd.Context(), r.categories(), flagCategory)
				if err != nil {
					return err
				}
				categoryID = category.ID
			}

			tasks := r.tasks()
			err = tasks.Load(cmd.Context())
			if err != nil {
				return reported(err)
			}
			ui.RenderTasks(e.out, tasks.Filter(flagStatus, categoryID))
			return nil
		},
	}

	cmd.Flags().StringVar(&flagStatus, "status", registry.FilterAll, "Filter by status: all, active, paused or completed")
	cmd.Flags().StringVar(&flagCategory, "category", registry.FilterAll, "Filter by category name or id")
	return cmd
}

func tasksAddCmd() *cobra.Command {
	var flagCategory, flagDescription string

	cmd := &cobra.Command{
		Use:   "add TITLE",
		Short: "Create an active task",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			e, err := loadEnv(cmd)
			if err != nil {
				return err
			}
			r, err := e.loggedIn()
			if err != nil {
				return err
			}

			var categoryID string
			if strings.TrimSpace(flagCategory) != "" {
				category, err := lookupCategory(cmd.Context(), r.categories(), flagCategory)
				if err != nil {
					return err
				}
				categoryID = category.ID
			}

			var description *string
			if cmd.Flags().Changed("description") {
				description = &flagDescription
			}

			task, err := r.tasks().Add(cmd.Context(), strings.Join(args, " "), description, categoryID)
			if err != nil {
				return reported(err)
			}
			ui.RenderTasks(e.out, []*models.Task{task})
			return nil
		},
	}

	cmd.Flags().StringVarP(&flagCategory, "category", "c", "", "Category name or id")
	cmd.Flags().StringVarP(&flagDescription, "description", "d", "", "Optional details")
	return cmd
}

func tasksEditCmd() *cobra.Command {
	var flagTitle, flagDescription, flagCategory string

	cmd := &cobra.Command{
		Use:   "edit ID",
		Short: "Change a task's title, description or category",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			e, err := loadEnv(cmd)
			if err != nil {
				return err
			}
			r, err := e.loggedIn()
			if err != nil {
				return err
			}

			var patch models.TaskPatch
			if cmd.Flags().Changed("title") {
				patch.Title = &flagTitle
			}
			if cmd.Flags().Changed("description") {
				patch.Description = &flagDescription
			}
			if cmd.Flags().Changed("category") {
				category, err := lookupCategory(cmd.Context(), r.categories(), flagCategory)
				if err != nil {
					return err
				}
				patch.CategoryID = &category.ID
			}

			tasks := r.tasks()
			task, err := loadTask(cmd.Context(), tasks, args[0])
			if err != nil {
				return err
			}
			_, err = tasks.Update(cmd.Context(), task.ID, patch)
			return reported(err)
		},
	}

	cmd.Flags().StringVar(&flagTitle, "title", "", "New title")
	cmd.Flags().StringVar(&flagDescription, "description", "", "New description, empty to clear")
	cmd.Flags().StringVar(&flagCategory, "category", "", "New category name or id")
	return cmd
}

func tasksStatusCmd() *cobra.Command {
	return &cobra.Command{
		Use:       "status ID active|paused|completed",
		Short:     "Move a task to another status",
		Args:      cobra.ExactArgs(2),
		ValidArgs: []string{models.StatusActive, models.StatusPaused, models.StatusCompleted},
		RunE: func(cmd *cobra.Command, args []string) error {
			e, err := loadEnv(cmd)
			if err != nil {
				return err
			}
			r, err := e.loggedIn()
			if err != nil {
				return err
			}

			tasks := r.tasks()
			task, err := loadTask(cmd.Context(), tasks, args[0])
			if err != nil {
				return err
			}
			_, err = tasks.SetStatus(cmd.Context(), task.ID, strings.ToLower(args[1]))
			return reported(err)
		},
	}
}

func tasksDeleteCmd() *cobra.Command {
	var flagYes bool

	cmd := &cobra.Command{
		Use:     "delete ID",
		Aliases: []string{"rm"},
		Short:   "Delete a task",
		Args:    cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			e, err := loadEnv(cmd)
			if err != nil {
				return err
			}
			r, err := e.loggedIn()
			if err != nil {
				return err
			}

			tasks := r.tasks()
			task, err := loadTask(cmd.Context(), tasks, args[0])
			if err != nil {
				return err
			}

			prompter := newLinePrompter(cmd.InOrStdin(), e.out)
			prompter.assumeYes = flagYes
			if !prompter.Confirm(fmt.Sprintf("Delete %q?", task.Title)) {
				return nil
			}
			return reported(tasks.Delete(cmd.Context(), task.ID))
		},
	}

	cmd.Flags().BoolVarP(&flagYes, "yes", "y", false, "Don't ask for confirmation")
	return cmd
}

func tasksStatsCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "stats",
		Short: "Count tasks by status",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			e, err := loadEnv(cmd)
			if err != nil {
				return err
			}
			r, err := e.loggedIn()
			if err != nil {
				return err
			}

			tasks := r.tasks()
			err = tasks.Load(cmd.Context())
			if err != nil {
				return reported(err)
			}
			ui.RenderStats(e.out, tasks.Counts())
			return nil
		},
	}
}

func lookupCategory(ctx context.Context, categories *registry.CategoryRegistry, nameOrID string) (*models.Category, error) {
	_, err := categories.List(ctx)
	if err != nil {
		return nil, err
	}
	category, err := categories.Lookup(nameOrID)
	if errors.Is(err, services.ErrCategoryNotFound) {
		return nil, fmt.Errorf("%w: %s", err, nameOrID)
	}
	return category, err
}

func loadTask(ctx context.Context, tasks *registry.TaskRegistry, id string) (*models.Task, error) {
	err := tasks.Load(ctx)
	if err != nil {
		return nil, reported(err)
	}
	return findTask(tasks.Tasks(), id)
}

// findTask matches a full id or the short id the list view prints.
func findTask(tasks []*models.Task, id string) (*models.Task, error) {
	id = strings.ToLower(strings.TrimSpace(id))

	var matches []*models.Task
	for _, t := range tasks {
		if t.ID == id {
			return t, nil
		}
		if len(id) >= minTaskIDSuffix && strings.HasSuffix(t.ID, id) {
			matches = append(matches, t)
		}
	}

	switch len(matches) {
	case 0:
		return nil, fmt.Errorf("%w: %s", services.ErrTaskNotFound, id)
	case 1:
		return matches[0], nil
	default:
		return nil, fmt.Errorf("%w: %s", errAmbiguousTask, id)
	}
}
