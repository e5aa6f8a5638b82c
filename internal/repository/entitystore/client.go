// Package entitystore talks to the hosted row store over its REST dialect:
// filter+order+limit reads, single-row inserts and updates that return the
// stored representation.
package entitystore

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/go-resty/resty/v2"
	"go.uber.org/zap"

	"github.com/wolffia-coop/ferntrack/internal/config"
)

// ErrNotFound reports that a referenced row no longer exists.
var ErrNotFound = errors.New("entity not found")

// Error carries a failure surfaced by the store or the transport underneath
// it. The upstream message is preserved verbatim for the user.
type Error struct {
	Op      string
	Status  int
	Message string
}

func (e *Error) Error() string {
	if e.Status > 0 {
		return fmt.Sprintf("entity store %s failed (status %d): %s", e.Op, e.Status, e.Message)
	}
	return fmt.Sprintf("entity store %s failed: %s", e.Op, e.Message)
}

// storeError is the store's error payload shape.
type storeError struct {
	Message string `json:"message"`
	Code    string `json:"code"`
	Details string `json:"details"`
	Hint    string `json:"hint"`
}

// Filter restricts a query to rows matching column <op> value.
type Filter struct {
	Column string
	Op     string
	Value  string
}

// Eq builds an equality filter.
func Eq(column, value string) Filter {
	return Filter{Column: column, Op: "eq", Value: value}
}

// Query describes a read: filters, ordering and an optional row limit.
type Query struct {
	Filters []Filter
	Order   []string // e.g. "cycle_number.asc"
	Limit   int
}

// Client is the low-level REST client shared by the typed repositories.
type Client struct {
	http   *resty.Client
	logger *zap.Logger
}

// NewClient configures the resty transport. Reads are retried with
// exponential backoff; mutating calls never are, since a blind retry of an
// insert could duplicate a row.
func NewClient(cfg config.StoreConfig, logger *zap.Logger) *Client {
	if logger == nil {
		logger = zap.NewNop()
	}

	httpClient := resty.New().
		SetBaseURL(strings.TrimRight(cfg.BaseURL, "/")).
		SetHeader("apikey", cfg.APIKey).
		SetAuthToken(cfg.APIKey).
		SetHeader("Content-Type", "application/json").
		SetTimeout(cfg.Timeout).
		SetRetryCount(cfg.RetryCount).
		SetRetryWaitTime(200 * time.Millisecond).
		SetRetryMaxWaitTime(3 * time.Second).
		AddRetryCondition(func(resp *resty.Response, err error) bool {
			if resp == nil || resp.Request == nil {
				return false
			}
			if resp.Request.Method != http.MethodGet {
				return false
			}
			return err != nil || resp.StatusCode() >= http.StatusInternalServerError
		})

	return &Client{http: httpClient, logger: logger}
}

// Select fetches rows from a table into dest (a pointer to a slice).
func (c *Client) Select(ctx context.Context, table string, q Query, dest any) error {
	apiErr := new(storeError)

	req := c.http.R().
		SetContext(ctx).
		SetResult(dest).
		SetError(apiErr)

	for _, f := range q.Filters {
		req.SetQueryParam(f.Column, f.Op+"."+f.Value)
	}
	if len(q.Order) > 0 {
		req.SetQueryParam("order", strings.Join(q.Order, ","))
	}
	if q.Limit > 0 {
		req.SetQueryParam("limit", strconv.Itoa(q.Limit))
	}

	resp, err := req.Get("/rest/v1/" + table)
	if err != nil {
		return &Error{Op: "select " + table, Message: err.Error()}
	}
	if resp.StatusCode() >= http.StatusBadRequest {
		return c.failure("select "+table, resp, apiErr)
	}

	return nil
}

// Insert writes a single row and decodes the stored representation into dest
// (a pointer to a slice of the row type; the store replies with an array).
func (c *Client) Insert(ctx context.Context, table string, row any, dest any) error {
	apiErr := new(storeError)

	resp, err := c.http.R().
		SetContext(ctx).
		SetHeader("Prefer", "return=representation").
		SetBody(row).
		SetResult(dest).
		SetError(apiErr).
		Post("/rest/v1/" + table)
	if err != nil {
		return &Error{Op: "insert " + table, Message: err.Error()}
	}
	if resp.StatusCode() >= http.StatusBadRequest {
		return c.failure("insert "+table, resp, apiErr)
	}

	return nil
}

// Update patches the row with the given id and decodes the stored
// representation into dest. An empty reply means the id no longer exists.
func (c *Client) Update(ctx context.Context, table, id string, patch any, dest any) error {
	apiErr := new(storeError)

	resp, err := c.http.R().
		SetContext(ctx).
		SetHeader("Prefer", "return=representation").
		SetQueryParam("id", "eq."+id).
		SetBody(patch).
		SetResult(dest).
		SetError(apiErr).
		Patch("/rest/v1/" + table)
	if err != nil {
		return &Error{Op: "update " + table, Message: err.Error()}
	}
	if resp.StatusCode() >= http.StatusBadRequest {
		return c.failure("update "+table, resp, apiErr)
	}

	return nil
}

func (c *Client) failure(op string, resp *resty.Response, apiErr *storeError) error {
	message := ""
	if apiErr != nil {
		message = apiErr.Message
	}
	if message == "" {
		message = resp.Status()
	}

	c.logger.Warn("entity store call failed",
		zap.String("op", op),
		zap.Int("status", resp.StatusCode()),
		zap.String("message", message))

	if resp.StatusCode() == http.StatusNotFound {
		return fmt.Errorf("%s: %w", op, ErrNotFound)
	}

	return &Error{Op: op, Status: resp.StatusCode(), Message: message}
}
