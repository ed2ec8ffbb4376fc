package client

import (
	"context"
	"net/http"
	"strconv"

	"github.com/pennywise/pennywise/pkg/category"
)

func categoryPath(id int) string {
	return "/categories/" + strconv.Itoa(id) + "/"
}

func (c *Client) ListCategories(ctx context.Context) ([]category.Category, error) {
	var dtos []category.CategoryDTO
	if err := c.getJSON(ctx, "/categories/", nil, &dtos); err != nil {
		return nil, err
	}
	categories := make([]category.Category, 0, len(dtos))
	for _, dto := range dtos {
		categories = append(categories, category.DTOToCategory(dto))
	}
	return categories, nil
}

func (c *Client) GetCategory(ctx context.Context, id int) (category.Category, error) {
	var dto category.CategoryDTO
	if err := c.getJSON(ctx, categoryPath(id), nil, &dto); err != nil {
		return category.Category{}, err
	}
	return category.DTOToCategory(dto), nil
}

func (c *Client) CreateCategory(ctx context.Context, cat category.Category) (category.Category, error) {
	var dto category.CategoryDTO
	if err := c.sendJSON(ctx, http.MethodPost, "/categories/", category.CategoryToDTO(cat), &dto); err != nil {
		return category.Category{}, err
	}
	return category.DTOToCategory(dto), nil
}

func (c *Client) UpdateCategory(ctx context.Context, cat category.Category) (category.Category, error) {
	var dto category.CategoryDTO
	if err := c.sendJSON(ctx, http.MethodPut, categoryPath(cat.Id), category.CategoryToDTO(cat), &dto); err != nil {
		return category.Category{}, err
	}
	return category.DTOToCategory(dto), nil
}

func (c *Client) DeleteCategory(ctx context.Context, id int) error {
	return c.sendJSON(ctx, http.MethodDelete, categoryPath(id), nil, nil)
}
