package client

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/dmitrijs2005/recipebook/internal/client/models"
	"github.com/dmitrijs2005/recipebook/internal/common"
)

// HTTPClient implements Client against the REST API. It is safe for
// concurrent use; SetToken affects requests started after it returns.
type HTTPClient struct {
	baseURL string
	http    *http.Client

	mu    sync.RWMutex
	token string
}

// NewHTTPClient targets baseURL, e.g. "http://127.0.0.1:8080". timeout
// bounds every request; zero means no client-side limit.
func NewHTTPClient(baseURL string, timeout time.Duration) (*HTTPClient, error) {
	u, err := url.Parse(baseURL)
	if err != nil {
		return nil, fmt.Errorf("invalid server url %q: %w", baseURL, err)
	}
	if u.Scheme != "http" && u.Scheme != "https" {
		return nil, fmt.Errorf("invalid server url %q: scheme must be http or https", baseURL)
	}
	return &HTTPClient{
		baseURL: strings.TrimRight(baseURL, "/"),
		http:    &http.Client{Timeout: timeout},
	}, nil
}

func (c *HTTPClient) SetToken(token string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.token = token
}

func (c *HTTPClient) currentToken() string {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.token
}

type envelope struct {
	Message string          `json:"message"`
	Data    json.RawMessage `json:"data"`
	Error   string          `json:"error"`
}

type recipeDTO struct {
	ID        int64  `json:"id"`
	Title     string `json:"title"`
	Body      string `json:"body"`
	Timestamp int64  `json:"timestamp"`
	Owner     string `json:"owner,omitempty"`
}

func (d recipeDTO) toModel() models.Recipe {
	return models.Recipe{
		ID:        d.ID,
		Title:     d.Title,
		Body:      d.Body,
		Timestamp: d.Timestamp,
		Owner:     d.Owner,
	}
}

func (c *HTTPClient) Login(ctx context.Context, email, password string) (LoginResult, error) {
	var env envelope
	err := c.do(ctx, http.MethodPost, "/users/login", map[string]string{
		"email":    email,
		"password": password,
	}, &env, http.StatusOK)
	if err != nil {
		return LoginResult{}, err
	}

	var data struct {
		Email    string `json:"email"`
		Username string `json:"username"`
		Token    string `json:"token"`
	}
	if err := json.Unmarshal(env.Data, &data); err != nil {
		return LoginResult{}, fmt.Errorf("decode login response: %w", err)
	}
	if data.Token == "" {
		return LoginResult{}, fmt.Errorf("login response carries no token")
	}
	return LoginResult{Email: data.Email, Username: data.Username, Token: data.Token}, nil
}

func (c *HTTPClient) Register(ctx context.Context, name, email, password string) error {
	return c.do(ctx, http.MethodPost, "/users", map[string]string{
		"name":     name,
		"email":    email,
		"password": password,
	}, nil, http.StatusCreated)
}

func (c *HTTPClient) ListRecipes(ctx context.Context, all bool) ([]models.Recipe, error) {
	var dtos []recipeDTO
	path := "/recipes?all=" + strconv.FormatBool(all)
	if err := c.do(ctx, http.MethodGet, path, nil, &dtos, http.StatusOK); err != nil {
		return nil, err
	}
	out := make([]models.Recipe, 0, len(dtos))
	for _, d := range dtos {
		out = append(out, d.toModel())
	}
	return out, nil
}

// PutRecipe stores r under its own id and returns the server's copy.
func (c *HTTPClient) PutRecipe(ctx context.Context, r models.Recipe) (models.Recipe, error) {
	req := struct {
		ID        int64  `json:"id"`
		Title     string `json:"title"`
		Body      string `json:"body"`
		Timestamp int64  `json:"timestamp"`
	}{r.ID, r.Title, r.Body, r.Timestamp}

	var resp struct {
		Message string    `json:"message"`
		Recipe  recipeDTO `json:"recipe"`
	}
	if err := c.do(ctx, http.MethodPost, "/recipes", req, &resp, http.StatusCreated); err != nil {
		return models.Recipe{}, err
	}
	return resp.Recipe.toModel(), nil
}

func (c *HTTPClient) DeleteRecipe(ctx context.Context, id int64) error {
	path := "/recipes/" + strconv.FormatInt(id, 10)
	return c.do(ctx, http.MethodDelete, path, nil, nil, http.StatusNoContent, http.StatusOK)
}

func (c *HTTPClient) Ping(ctx context.Context) error {
	return c.do(ctx, http.MethodGet, "/health", nil, nil, http.StatusOK)
}

// do sends body as JSON and decodes a successful answer into out. A status
// outside want becomes *APIError.
func (c *HTTPClient) do(ctx context.Context, method, path string, body, out any, want ...int) error {
	var rdr io.Reader
	if body != nil {
		buf, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("encode request: %w", err)
		}
		rdr = bytes.NewReader(buf)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, rdr)
	if err != nil {
		return err
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if token := c.currentToken(); token != "" {
		req.Header.Set(common.AuthorizationHeaderName, common.BearerPrefix+token)
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("read response: %w", err)
	}

	for _, s := range want {
		if resp.StatusCode == s {
			if out == nil || len(raw) == 0 {
				return nil
			}
			if err := json.Unmarshal(raw, out); err != nil {
				return fmt.Errorf("decode response: %w", err)
			}
			return nil
		}
	}

	apiErr := &APIError{Status: resp.StatusCode}
	var env envelope
	if json.Unmarshal(raw, &env) == nil {
		apiErr.Message = env.Message
	}
	return apiErr
}
