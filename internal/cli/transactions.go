package cli

import (
	"context"
	"fmt"
	"strconv"

	"github.com/pennywise/pennywise/pkg/category"
	"github.com/pennywise/pennywise/pkg/page"
	"github.com/pennywise/pennywise/pkg/period"
	"github.com/pennywise/pennywise/pkg/transaction"
	"github.com/spf13/cobra"
)

func transactionsCmd(app *App) *cobra.Command {
	cmd := &cobra.Command{
		Use:     "transactions",
		Aliases: []string{"tx"},
		Short:   "Record and browse income and expenses",
	}
	cmd.AddCommand(listTransactionsCmd(app))
	cmd.AddCommand(addTransactionCmd(app))
	cmd.AddCommand(editTransactionCmd(app))
	cmd.AddCommand(deleteTransactionCmd(app))
	return cmd
}

type transactionFilterFlags struct {
	typeName string
	category string
	month    string
	from     string
	to       string
	search   string
	ordering string
}

func (f *transactionFilterFlags) bind(cmd *cobra.Command) {
	cmd.Flags().StringVarP(&f.typeName, "type", "t", "", "only income or expense")
	cmd.Flags().StringVarP(&f.category, "category", "c", "", "only this category, by id or name")
	cmd.Flags().StringVarP(&f.month, "month", "m", "", "only this month, YYYY-MM")
	cmd.Flags().StringVar(&f.from, "from", "", "first day, YYYY-MM-DD")
	cmd.Flags().StringVar(&f.to, "to", "", "last day, YYYY-MM-DD")
	cmd.Flags().StringVarP(&f.search, "search", "s", "", "text in the description or category name")
	cmd.Flags().StringVarP(&f.ordering, "ordering", "o", "", "date, amount or created; prefix - for descending (default -date)")
}

func (f *transactionFilterFlags) filter(categories []category.Category) (transaction.Filter, error) {
	var filter transaction.Filter
	var err error
	if f.typeName != "" {
		if filter.Type, err = category.ParseType(f.typeName); err != nil {
			return filter, err
		}
	}
	if f.category != "" {
		c, err := resolveCategory(categories, f.category)
		if err != nil {
			return filter, err
		}
		filter.CategoryId = c.Id
	}
	if f.month != "" {
		if filter.Month, err = period.ParseMonth(f.month); err != nil {
			return filter, err
		}
	}
	if f.from != "" {
		if filter.DateFrom, err = period.ParseDate(f.from); err != nil {
			return filter, fmt.Errorf("invalid --from date: %w", err)
		}
	}
	if f.to != "" {
		if filter.DateTo, err = period.ParseDate(f.to); err != nil {
			return filter, fmt.Errorf("invalid --to date: %w", err)
		}
	}
	filter.Search = f.search
	if filter.Ordering, err = transaction.ParseOrdering(f.ordering); err != nil {
		return filter, err
	}
	return filter, nil
}

// categoryList fetches the categories to resolve --category against.
func categoryList(ctx context.Context, app *App) ([]category.Category, error) {
	categories, err := categoriesPage(ctx, app)
	if err != nil {
		return nil, err
	}
	return categories.Records(), nil
}

func listTransactionsCmd(app *App) *cobra.Command {
	var filterFlags transactionFilterFlags
	var pageNumber, pageSize int
	cmd := &cobra.Command{
		Use:   "list",
		Short: "List transactions, newest first",
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
			filter, err := filterFlags.filter(categories)
			if err != nil {
				return err
			}

			transactions := page.NewTransactionsPage(api, app.clock)
			transactions.SetFilter(filter)
			if err := transactions.List(ctx); err != nil {
				return err
			}
			transactions.SetPageSize(pageSize)
			transactions.SetPage(pageNumber - 1)

			total := len(transactions.Records())
			if total == 0 {
				app.println(SubtleStyle.Render("No transactions found"))
				return nil
			}
			rows := make([][]string, 0, transactions.PageSize())
			for _, t := range transactions.Visible() {
				rows = append(rows, []string{
					strconv.Itoa(t.Id),
					t.Date.Format(period.DateLayout),
					t.CategoryName,
					string(t.Type),
					signedAmount(t),
					orDash(t.Description),
				})
			}
			if err := renderTable(app.out, []string{"ID", "Date", "Category", "Type", "Amount", "Description"}, rows); err != nil {
				return err
			}
			app.println(SubtleStyle.Render(fmt.Sprintf("Page %d of %d, %d transactions",
				transactions.CurrentPage()+1, transactions.PageCount(), total)))
			return nil
		},
	}
	filterFlags.bind(cmd)
	cmd.Flags().IntVarP(&pageNumber, "page", "p", 1, "page to show, starting at 1")
	cmd.Flags().IntVar(&pageSize, "page-size", page.DefaultPageSize, "transactions per page")
	return cmd
}

func signedAmount(t transaction.Transaction) string {
	if t.Type == category.Expense {
		return ErrorStyle.Render("-" + t.Amount.StringFixed(2))
	}
	return SuccessStyle.Render("+" + t.Amount.StringFixed(2))
}

type transactionFormFlags struct {
	category    string
	amount      string
	typeName    string
	description string
	date        string
}

func (f *transactionFormFlags) bind(cmd *cobra.Command) {
	cmd.Flags().StringVarP(&f.category, "category", "c", "", "category id or name")
	cmd.Flags().StringVarP(&f.amount, "amount", "a", "", "positive amount, e.g. 12.50")
	cmd.Flags().StringVarP(&f.typeName, "type", "t", "", "income or expense (default: the category's type)")
	cmd.Flags().StringVarP(&f.description, "description", "d", "", "description")
	cmd.Flags().StringVar(&f.date, "date", "", "day of the transaction, YYYY-MM-DD (default today)")
}

// apply copies the flags the user set onto form. The category's type is the default type of a
// new transaction.
func (f *transactionFormFlags) apply(cmd *cobra.Command, categories []category.Category, form *page.TransactionForm) error {
	flags := cmd.Flags()
	if flags.Changed("category") {
		c, err := resolveCategory(categories, f.category)
		if err != nil {
			return err
		}
		form.Category = strconv.Itoa(c.Id)
		if form.Id == 0 && !flags.Changed("type") {
			form.Type = c.Type
		}
	}
	if flags.Changed("amount") {
		form.Amount = f.amount
	}
	if flags.Changed("type") {
		t, err := category.ParseType(f.typeName)
		if err != nil {
			return err
		}
		form.Type = t
	}
	if flags.Changed("description") {
		form.Description = f.description
	}
	if flags.Changed("date") {
		form.Date = f.date
	}
	return nil
}

func addTransactionCmd(app *App) *cobra.Command {
	var formFlags transactionFormFlags
	cmd := &cobra.Command{
		Use:   "add",
		Short: "Record a transaction",
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

			transactions := page.NewTransactionsPage(api, app.clock)
			editor := transactions.OpenEditor(nil)
			if err := formFlags.apply(cmd, categories, &editor.Form); err != nil {
				return err
			}
			if err := transactions.Submit(ctx, editor.Form); err != nil {
				return err
			}
			app.println(SuccessStyle.Render(fmt.Sprintf("Recorded %s of %s on %s", editor.Form.Type, editor.Form.Amount, editor.Form.Date)))
			return nil
		},
	}
	formFlags.bind(cmd)
	_ = cmd.MarkFlagRequired("category")
	_ = cmd.MarkFlagRequired("amount")
	return cmd
}

func editTransactionCmd(app *App) *cobra.Command {
	var formFlags transactionFormFlags
	cmd := &cobra.Command{
		Use:   "edit <id>",
		Short: "Change a transaction",
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
			existing, err := api.GetTransaction(ctx, id)
			if err != nil {
				return fmt.Errorf("failed to get transaction %d: %w", id, err)
			}
			categories, err := categoryList(ctx, app)
			if err != nil {
				return err
			}

			transactions := page.NewTransactionsPage(api, app.clock)
			editor := transactions.OpenEditor(&existing)
			if err := formFlags.apply(cmd, categories, &editor.Form); err != nil {
				return err
			}
			if err := transactions.Submit(ctx, editor.Form); err != nil {
				return err
			}
			app.println(SuccessStyle.Render(fmt.Sprintf("Updated transaction %d", id)))
			return nil
		},
	}
	formFlags.bind(cmd)
	return cmd
}

func deleteTransactionCmd(app *App) *cobra.Command {
	var assumeYes bool
	cmd := &cobra.Command{
		Use:   "delete <id>",
		Short: "Delete a transaction",
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
			existing, err := api.GetTransaction(ctx, id)
			if err != nil {
				return fmt.Errorf("failed to get transaction %d: %w", id, err)
			}

			app.printf("%s %s %s %s\n", existing.Date.Format(period.DateLayout), existing.CategoryName,
				signedAmount(existing), existing.Description)
			transactions := page.NewTransactionsPage(api, app.clock)
			if err := transactions.Delete(ctx, id, app.confirmer(assumeYes)); err != nil {
				return deleteError(app, err, "")
			}
			app.println(SuccessStyle.Render(fmt.Sprintf("Deleted transaction %d", id)))
			return nil
		},
	}
	cmd.Flags().BoolVarP(&assumeYes, "yes", "y", false, "skip the confirmation prompt")
	return cmd
}

func parseId(s string) (int, error) {
	id, err := strconv.Atoi(s)
	if err != nil || id <= 0 {
		return 0, fmt.Errorf("invalid id %q", s)
	}
	return id, nil
}
