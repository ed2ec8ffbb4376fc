package cli

import (
	"errors"
	"fmt"
	"strconv"

	"github.com/pennywise/pennywise/pkg/budget"
	"github.com/pennywise/pennywise/pkg/category"
	"github.com/pennywise/pennywise/pkg/client"
	"github.com/pennywise/pennywise/pkg/page"
	"github.com/pennywise/pennywise/pkg/period"
	"github.com/spf13/cobra"
)

func budgetsCmd(app *App) *cobra.Command {
	cmd := &cobra.Command{
		Use:     "budgets",
		Aliases: []string{"budget"},
		Short:   "Set monthly spending limits per category",
	}
	cmd.AddCommand(listBudgetsCmd(app))
	cmd.AddCommand(addBudgetCmd(app))
	cmd.AddCommand(editBudgetCmd(app))
	cmd.AddCommand(deleteBudgetCmd(app))
	return cmd
}

func listBudgetsCmd(app *App) *cobra.Command {
	var categoryRef, month, search, ordering string
	cmd := &cobra.Command{
		Use:   "list",
		Short: "List budgets",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			ctx := cmd.Context()
			api, err := app.authenticated()
			if err != nil {
				return err
			}

			var filter budget.Filter
			if categoryRef != "" {
				categories, err := categoryList(ctx, app)
				if err != nil {
					return err
				}
				c, err := resolveCategory(categories, categoryRef)
				if err != nil {
					return err
				}
				filter.CategoryId = c.Id
			}
			if month != "" {
				if filter.Month, err = period.ParseMonth(month); err != nil {
					return err
				}
			}
			filter.Search = search
			if filter.Ordering, err = budget.ParseOrdering(ordering); err != nil {
				return err
			}

			budgets := page.NewBudgetsPage(api, app.clock)
			budgets.SetFilter(filter)
			if err := budgets.List(ctx); err != nil {
				return err
			}
			records := budgets.Records()
			if len(records) == 0 {
				app.println(SubtleStyle.Render("No budgets found"))
				return nil
			}
			rows := make([][]string, 0, len(records))
			for _, b := range records {
				rows = append(rows, []string{strconv.Itoa(b.Id), b.Month.String(), b.CategoryName, b.Amount.StringFixed(2)})
			}
			return renderTable(app.out, []string{"ID", "Month", "Category", "Amount"}, rows)
		},
	}
	cmd.Flags().StringVarP(&categoryRef, "category", "c", "", "only this category, by id or name")
	cmd.Flags().StringVarP(&month, "month", "m", "", "only this month, YYYY-MM")
	cmd.Flags().StringVarP(&search, "search", "s", "", "text in the category name")
	cmd.Flags().StringVarP(&ordering, "ordering", "o", "", "month, amount or created; prefix - for descending")
	return cmd
}

type budgetFormFlags struct {
	category string
	amount   string
	month    string
}

func (f *budgetFormFlags) bind(cmd *cobra.Command) {
	cmd.Flags().StringVarP(&f.category, "category", "c", "", "category id or name")
	cmd.Flags().StringVarP(&f.amount, "amount", "a", "", "monthly limit, e.g. 400")
	cmd.Flags().StringVarP(&f.month, "month", "m", "", "month, YYYY-MM (default this month)")
}

func (f *budgetFormFlags) apply(cmd *cobra.Command, categories []category.Category, form *page.BudgetForm) error {
	flags := cmd.Flags()
	if flags.Changed("category") {
		c, err := resolveCategory(categories, f.category)
		if err != nil {
			return err
		}
		form.Category = strconv.Itoa(c.Id)
	}
	if flags.Changed("amount") {
		form.Amount = f.amount
	}
	if flags.Changed("month") {
		form.Month = f.month
	}
	return nil
}

func addBudgetCmd(app *App) *cobra.Command {
	var formFlags budgetFormFlags
	cmd := &cobra.Command{
		Use:   "add",
		Short: "Set the budget of a category for a month",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			ctx := cmd.Context()
			api, err := app.authenticated()
			if err != nil {
				return err
			}
			categories, err := categoryList(ctx, app)
			if err != nil {
				return err
			}

			budgets := page.NewBudgetsPage(api, app.clock)
			editor := budgets.OpenEditor(nil)
			if err := formFlags.apply(cmd, categories, &editor.Form); err != nil {
				return err
			}
			if err := budgets.Submit(ctx, editor.Form); err != nil {
				if errors.Is(err, client.ErrConflict) {
					return fmt.Errorf("%w: use 'pennywise budgets edit' to change it", err)
				}
				return err
			}
			app.println(SuccessStyle.Render(fmt.Sprintf("Budget of %s set for %s", editor.Form.Amount, editor.Form.Month)))
			return nil
		},
	}
	formFlags.bind(cmd)
	_ = cmd.MarkFlagRequired("category")
	_ = cmd.MarkFlagRequired("amount")
	return cmd
}

func editBudgetCmd(app *App) *cobra.Command {
	var formFlags budgetFormFlags
	cmd := &cobra.Command{
		Use:   "edit <id>",
		Short: "Change a budget",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			id, err := parseId(args[0])
			if err != nil {
				return err
			}
			api, err := app.authenticated()
			if err != nil {
				return err
			}
			existing, err := api.GetBudget(ctx, id)
			if err != nil {
				return fmt.Errorf("failed to get budget %d: %w", id, err)
			}
			categories, err := categoryList(ctx, app)
			if err != nil {
				return err
			}

			budgets := page.NewBudgetsPage(api, app.clock)
			editor := budgets.OpenEditor(&existing)
			if err := formFlags.apply(cmd, categories, &editor.Form); err != nil {
				return err
			}
			if err := budgets.Submit(ctx, editor.Form); err != nil {
				return err
			}
			app.println(SuccessStyle.Render(fmt.Sprintf("Updated budget %d", id)))
			return nil
		},
	}
	formFlags.bind(cmd)
	return cmd
}

func deleteBudgetCmd(app *App) *cobra.Command {
	var assumeYes bool
	cmd := &cobra.Command{
		Use:   "delete <id>",
		Short: "Delete a budget",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			id, err := parseId(args[0])
			if err != nil {
				return err
			}
			api, err := app.authenticated()
			if err != nil {
				return err
			}
			existing, err := api.GetBudget(ctx, id)
			if err != nil {
				return fmt.Errorf("failed to get budget %d: %w", id, err)
			}

			app.printf("Budget of %s for %s in %s\n", existing.Amount.StringFixed(2), existing.CategoryName, existing.Month)
			budgets := page.NewBudgetsPage(api, app.clock)
			if err := budgets.Delete(ctx, id, app.confirmer(assumeYes)); err != nil {
				return deleteError(app, err, "")
			}
			app.println(SuccessStyle.Render(fmt.Sprintf("Deleted budget %d", id)))
			return nil
		},
	}
	cmd.Flags().BoolVarP(&assumeYes, "yes", "y", false, "skip the confirmation prompt")
	return cmd
}
