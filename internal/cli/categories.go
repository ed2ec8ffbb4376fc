package cli

import (
	"context"
	"errors"
	"fmt"

	"github.com/pennywise/pennywise/pkg/category"
	"github.com/pennywise/pennywise/pkg/client"
	"github.com/pennywise/pennywise/pkg/page"
	"github.com/spf13/cobra"
)

func categoriesCmd(app *App) *cobra.Command {
	cmd := &cobra.Command{
		Use:     "categories",
		Aliases: []string{"category"},
		Short:   "Manage income and expense categories",
	}
	cmd.AddCommand(listCategoriesCmd(app))
	cmd.AddCommand(addCategoryCmd(app))
	cmd.AddCommand(editCategoryCmd(app))
	cmd.AddCommand(deleteCategoryCmd(app))
	return cmd
}

// categoriesPage returns the page listed once, so commands can look records up by name.
func categoriesPage(ctx context.Context, app *App) (*page.CategoriesPage, error) {
	api, err := app.authenticated()
	if err != nil {
		return nil, err
	}
	categories := page.NewCategoriesPage(api)
	if err := categories.List(ctx); err != nil {
		return nil, err
	}
	return categories, nil
}

func listCategoriesCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "List categories",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			categories, err := categoriesPage(cmd.Context(), app)
			if err != nil {
				return err
			}
			records := categories.Records()
			if len(records) == 0 {
				app.println(SubtleStyle.Render("No categories yet. Use 'pennywise categories add' to create one."))
				return nil
			}
			rows := make([][]string, 0, len(records))
			for _, c := range records {
				rows = append(rows, []string{fmt.Sprint(c.Id), c.Name, string(c.Type), orDash(c.Description)})
			}
			return renderTable(app.out, []string{"ID", "Name", "Type", "Description"}, rows)
		},
	}
}

func addCategoryCmd(app *App) *cobra.Command {
	var typeName, description string
	cmd := &cobra.Command{
		Use:   "add <name>",
		Short: "Add a category",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			categories, err := categoriesPage(ctx, app)
			if err != nil {
				return err
			}
			categoryType, err := category.ParseType(typeName)
			if err != nil {
				return err
			}

			editor := categories.OpenEditor(nil)
			editor.Form.Name = args[0]
			editor.Form.Type = categoryType
			editor.Form.Description = description
			if err := categories.Submit(ctx, editor.Form); err != nil {
				return err
			}
			app.println(SuccessStyle.Render(fmt.Sprintf("Added %s category %q", categoryType, args[0])))
			return nil
		},
	}
	cmd.Flags().StringVarP(&typeName, "type", "t", string(category.Expense), "income or expense")
	cmd.Flags().StringVarP(&description, "description", "d", "", "description")
	return cmd
}

func editCategoryCmd(app *App) *cobra.Command {
	var name, typeName, description string
	cmd := &cobra.Command{
		Use:   "edit <id|name>",
		Short: "Rename or change a category",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			categories, err := categoriesPage(ctx, app)
			if err != nil {
				return err
			}
			existing, err := resolveCategory(categories.Records(), args[0])
			if err != nil {
				return err
			}

			editor := categories.OpenEditor(&existing)
			if cmd.Flags().Changed("name") {
				editor.Form.Name = name
			}
			if cmd.Flags().Changed("type") {
				if editor.Form.Type, err = category.ParseType(typeName); err != nil {
					return err
				}
			}
			if cmd.Flags().Changed("description") {
				editor.Form.Description = description
			}
			if err := categories.Submit(ctx, editor.Form); err != nil {
				return err
			}
			app.println(SuccessStyle.Render(fmt.Sprintf("Updated category %q", editor.Form.Name)))
			return nil
		},
	}
	cmd.Flags().StringVarP(&name, "name", "n", "", "new name")
	cmd.Flags().StringVarP(&typeName, "type", "t", "", "income or expense")
	cmd.Flags().StringVarP(&description, "description", "d", "", "new description")
	return cmd
}

func deleteCategoryCmd(app *App) *cobra.Command {
	var assumeYes bool
	cmd := &cobra.Command{
		Use:   "delete <id|name>",
		Short: "Delete a category no transaction or budget uses",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			categories, err := categoriesPage(ctx, app)
			if err != nil {
				return err
			}
			existing, err := resolveCategory(categories.Records(), args[0])
			if err != nil {
				return err
			}

			app.printf("Category %q (%s)\n", existing.Name, existing.Type)
			err = categories.Delete(ctx, existing.Id, app.confirmer(assumeYes))
			if err != nil {
				return deleteError(app, err, "the category is still used by transactions or budgets")
			}
			app.println(SuccessStyle.Render(fmt.Sprintf("Deleted category %q", existing.Name)))
			return nil
		},
	}
	cmd.Flags().BoolVarP(&assumeYes, "yes", "y", false, "skip the confirmation prompt")
	return cmd
}

// deleteError turns a declined confirmation into a notice and explains a conflict.
func deleteError(app *App, err error, conflict string) error {
	switch {
	case errors.Is(err, page.ErrDeleteNotConfirmed):
		app.println("Cancelled")
		return nil
	case conflict != "" && errors.Is(err, client.ErrConflict):
		return fmt.Errorf("%w: %s", err, conflict)
	}
	return err
}
