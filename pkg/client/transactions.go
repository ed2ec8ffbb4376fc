package client

import (
	"context"
	"net/http"
	"strconv"

	"github.com/pennywise/pennywise/pkg/transaction"
)

func transactionPath(id int) string {
	return "/transactions/" + strconv.Itoa(id) + "/"
}

func (c *Client) ListTransactions(ctx context.Context, filter transaction.Filter) ([]transaction.Transaction, error) {
	var dtos []transaction.TransactionDTO
	if err := c.getJSON(ctx, "/transactions/", filter.Query(), &dtos); err != nil {
		return nil, err
	}
	transactions := make([]transaction.Transaction, 0, len(dtos))
	for _, dto := range dtos {
		t, err := transaction.DTOToTransaction(dto)
		if err != nil {
			return nil, err
		}
		transactions = append(transactions, t)
	}
	return transactions, nil
}

func (c *Client) GetTransaction(ctx context.Context, id int) (transaction.Transaction, error) {
	var dto transaction.TransactionDTO
	if err := c.getJSON(ctx, transactionPath(id), nil, &dto); err != nil {
		return transaction.Transaction{}, err
	}
	return transaction.DTOToTransaction(dto)
}

func (c *Client) CreateTransaction(ctx context.Context, t transaction.Transaction) (transaction.Transaction, error) {
	var dto transaction.TransactionDTO
	if err := c.sendJSON(ctx, http.MethodPost, "/transactions/", transaction.TransactionToDTO(t), &dto); err != nil {
		return transaction.Transaction{}, err
	}
	return transaction.DTOToTransaction(dto)
}

func (c *Client) UpdateTransaction(ctx context.Context, t transaction.Transaction) (transaction.Transaction, error) {
	var dto transaction.TransactionDTO
	if err := c.sendJSON(ctx, http.MethodPut, transactionPath(t.Id), transaction.TransactionToDTO(t), &dto); err != nil {
		return transaction.Transaction{}, err
	}
	return transaction.DTOToTransaction(dto)
}

func (c *Client) DeleteTransaction(ctx context.Context, id int) error {
	return c.sendJSON(ctx, http.MethodDelete, transactionPath(id), nil, nil)
}
