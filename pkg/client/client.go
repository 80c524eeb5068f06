// Package client is a typed wrapper around the REST API. It attaches the
// stored bearer token to every request and, on an unauthorized response,
// clears the stored credentials and fires the configured hook so the caller
// can force a re-login.
package client

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"time"

	"github.com/google/uuid"
)

// ErrUnauthorized is returned when the server rejects the stored token.
// By the time it is returned the token store has already been cleared.
var ErrUnauthorized = errors.New("unauthorized")

// APIError is a non-2xx response from the server.
type APIError struct {
	StatusCode int
	Message    string
}

func (e *APIError) Error() string {
	return fmt.Sprintf("api error (status %d): %s", e.StatusCode, e.Message)
}

// TokenStore persists the bearer token between requests.
type TokenStore interface {
	Load() (string, error)
	Save(token string) error
	Clear() error
}

// Client talks to the recipe API.
type Client struct {
	baseURL        string
	http           *http.Client
	tokens         TokenStore
	onUnauthorized func()
}

// Option configures a Client.
type Option func(*Client)

// WithHTTPClient overrides the underlying HTTP client.
func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) { c.http = hc }
}

// WithTokenStore sets where the bearer token is kept.
func WithTokenStore(ts TokenStore) Option {
	return func(c *Client) { c.tokens = ts }
}

// WithUnauthorizedHook sets a callback invoked after a 401 response, once
// the stored credentials have been cleared.
func WithUnauthorizedHook(fn func()) Option {
	return func(c *Client) { c.onUnauthorized = fn }
}

// New creates a client for the API at baseURL.
func New(baseURL string, opts ...Option) *Client {
	c := &Client{
		baseURL: baseURL,
		http:    &http.Client{Timeout: 30 * time.Second},
		tokens:  NewMemoryTokenStore(),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Register creates an account and stores the returned token.
func (c *Client) Register(ctx context.Context, name, email, password string) (*AuthResult, error) {
	var out AuthResult
	body := map[string]string{"name": name, "email": email, "password": password}
	if err := c.do(ctx, http.MethodPost, "/api/v1/auth/register", body, &out); err != nil {
		return nil, err
	}
	if err := c.tokens.Save(out.Token); err != nil {
		return nil, err
	}
	return &out, nil
}

// Login authenticates and stores the returned token.
func (c *Client) Login(ctx context.Context, email, password string) (*AuthResult, error) {
	var out AuthResult
	body := map[string]string{"email": email, "password": password}
	if err := c.do(ctx, http.MethodPost, "/api/v1/auth/login", body, &out); err != nil {
		return nil, err
	}
	if err := c.tokens.Save(out.Token); err != nil {
		return nil, err
	}
	return &out, nil
}

// Logout discards the stored token.
func (c *Client) Logout() error {
	return c.tokens.Clear()
}

// ListRecipes returns public recipes, optionally filtered by a search query.
func (c *Client) ListRecipes(ctx context.Context, query string) ([]Recipe, error) {
	path := "/api/v1/recipes"
	if query != "" {
		path += "?q=" + url.QueryEscape(query)
	}
	var out recipeList
	if err := c.do(ctx, http.MethodGet, path, nil, &out); err != nil {
		return nil, err
	}
	return out.Recipes, nil
}

// MyRecipes returns the caller's recipes, private ones included.
func (c *Client) MyRecipes(ctx context.Context) ([]Recipe, error) {
	var out recipeList
	if err := c.do(ctx, http.MethodGet, "/api/v1/recipes/my-recipes", nil, &out); err != nil {
		return nil, err
	}
	return out.Recipes, nil
}

// GetRecipe returns one recipe with its ratings.
func (c *Client) GetRecipe(ctx context.Context, id uuid.UUID) (*Recipe, error) {
	var out Recipe
	if err := c.do(ctx, http.MethodGet, "/api/v1/recipes/"+id.String(), nil, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// CreateRecipe creates a recipe owned by the caller.
func (c *Client) CreateRecipe(ctx context.Context, in CreateRecipeInput) (*Recipe, error) {
	var out Recipe
	if err := c.do(ctx, http.MethodPost, "/api/v1/recipes", in, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// UpdateRecipe applies a partial update to the caller's recipe.
func (c *Client) UpdateRecipe(ctx context.Context, id uuid.UUID, in UpdateRecipeInput) (*Recipe, error) {
	var out Recipe
	if err := c.do(ctx, http.MethodPatch, "/api/v1/recipes/"+id.String(), in, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// DeleteRecipe deletes the caller's recipe.
func (c *Client) DeleteRecipe(ctx context.Context, id uuid.UUID) error {
	return c.do(ctx, http.MethodDelete, "/api/v1/recipes/"+id.String(), nil, nil)
}

// RateRecipe submits or overwrites the caller's rating for a recipe.
func (c *Client) RateRecipe(ctx context.Context, id uuid.UUID, rating int, comment string) (*Rating, error) {
	var out Rating
	body := map[string]interface{}{"rating": rating, "comment": comment}
	if err := c.do(ctx, http.MethodPost, "/api/v1/recipes/"+id.String()+"/rate", body, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (c *Client) do(ctx context.Context, method, path string, body, out interface{}) error {
	var reqBody *bytes.Buffer
	if body != nil {
		data, err := json.Marshal(body)
		if err != nil {
			return err
		}
		reqBody = bytes.NewBuffer(data)
	} else {
		reqBody = &bytes.Buffer{}
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, reqBody)
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", "application/json")

	if token, err := c.tokens.Load(); err == nil && token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode == http.StatusUnauthorized {
		_ = c.tokens.Clear()
		if c.onUnauthorized != nil {
			c.onUnauthorized()
		}
		return ErrUnauthorized
	}

	if resp.StatusCode >= 400 {
		var apiErr struct {
			Error string `json:"error"`
		}
		_ = json.NewDecoder(resp.Body).Decode(&apiErr)
		return &APIError{StatusCode: resp.StatusCode, Message: apiErr.Error}
	}

	if out != nil {
		return json.NewDecoder(resp.Body).Decode(out)
	}
	return nil
}
