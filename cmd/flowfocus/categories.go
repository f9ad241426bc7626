package main

import (
	"strings"

	"github.com/spf13/cobra"

	"github.com/adanyl0v/flowfocus/internal/models"
	"github.com/adanyl0v/flowfocus/internal/ui"
)

func categoriesCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:     "categories",
		Aliases: []string{"category", "cat"},
		Short:   "Manage task categories",
	}

	cmd.AddCommand(categoriesListCmd())
	cmd.AddCommand(categoriesAddCmd())
	cmd.AddCommand(categoriesDeleteCmd())
	return cmd
}

func categoriesListCmd() *cobra.Command {
	return &cobra.Command{
		Use:     "list",
		Aliases: []string{"ls"},
		Short:   "List categories, oldest first",
		Args:    cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			e, err := loadEnv(cmd)
			if err != nil {
				return err
			}
			r, err := e.loggedIn()
			if err != nil {
				return err
			}

			categories, err := r.categories().List(cmd.Context())
			if err != nil {
				return err
			}
			ui.RenderCategories(e.out, categories)
			return nil
		},
	}
}

func categoriesAddCmd() *cobra.Command {
	var flagColor string

	palette := make([]string, len(models.CategoryPalette))
	for i, color := range models.CategoryPalette {
		palette[i] = ui.Swatch(color) + " " + color
	}

	cmd := &cobra.Command{
		Use:   "add NAME",
		Short: "Create a category",
		Long:  "Create a category. Suggested colors:\n\n  " + strings.Join(palette, "\n  "),
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

			categories := r.categories()
			categories.OnChange(func(list []*models.Category) {
				ui.RenderCategories(e.out, list)
			})
			_, err = categories.Add(cmd.Context(), strings.Join(args, " "), flagColor)
			return reported(err)
		},
	}

	cmd.Flags().StringVar(&flagColor, "color", models.DefaultCategoryColor, "Color as #rrggbb")
	return cmd
}

func categoriesDeleteCmd() *cobra.Command {
	return &cobra.Command{
		Use:     "delete NAME|ID",
		Aliases: []string{"rm"},
		Short:   "Delete a category no task uses",
		Args:    cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			e, err := loadEnv(cmd)
			if err != nil {
				return err
			}
			r, err := e.loggedIn()
			if err != nil {
				return err
			}

			categories := r.categories()
			category, err := lookupCategory(cmd.Context(), categories, strings.Join(args, " "))
			if err != nil {
				return err
			}

			categories.OnChange(func(list []*models.Category) {
				ui.RenderCategories(e.out, list)
			})
			return reported(categories.Delete(cmd.Context(), category.ID))
		},
	}
}
