package client

import (
	"context"
	"net/http"
	"strconv"

	"github.com/pennywise/pennywise/pkg/budget"
)

func budgetPath(id int) string {
	return "/budgets/" + strconv.Itoa(id) + "/"
}

func (c *Client) ListBudgets(ctx context.Context, filter budget.Filter) ([]budget.Budget, error) {
	var dtos []budget.BudgetDTO
	if err := c.getJSON(ctx, "/budgets/", filter.Query(), &dtos); err != nil {
		return nil, err
	}
	budgets := make([]budget.Budget, 0, len(dtos))
	for _, dto := range dtos {
		b, err := budget.DTOToBudget(dto)
		if err != nil {
			return nil, err
		}
		budgets = append(budgets, b)
	}
	return budgets, nil
}

func (c *Client) GetBudget(ctx context.Context, id int) (budget.Budget, error) {
	var dto budget.BudgetDTO
	if err := c.getJSON(ctx, budgetPath(id), nil, &dto); err != nil {
		return budget.Budget{}, err
	}
	return budget.DTOToBudget(dto)
}

func (c *Client) CreateBudget(ctx context.Context, b budget.Budget) (budget.Budget, error) {
	var dto budget.BudgetDTO
	if err := c.sendJSON(ctx, http.MethodPost, "/budgets/", budget.BudgetToDTO(b), &dto); err != nil {
		return budget.Budget{}, err
	}
	return budget.DTOToBudget(dto)
}

func (c *Client) UpdateBudget(ctx context.Context, b budget.Budget) (budget.Budget, error) {
	var dto budget.BudgetDTO
	if err := c.sendJSON(ctx, http.MethodPut, budgetPath(b.Id), budget.BudgetToDTO(b), &dto); err != nil {
		return budget.Budget{}, err
	}
	return budget.DTOToBudget(dto)
}

func (c *Client) DeleteBudget(ctx context.Context, id int) error {
	return c.sendJSON(ctx, http.MethodDelete, budgetPath(id), nil, nil)
}
