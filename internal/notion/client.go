package notion

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/jomei/notionapi"

	"github.com/enzocage/Notion-Mediator/internal/backend"
	"github.com/enzocage/Notion-Mediator/internal/formatter"
	"github.com/enzocage/Notion-Mediator/internal/instrumentation"
)

// EmptyPage is returned by Read for a page without text blocks.
const EmptyPage = "[Page is empty or contains no text blocks]"

// pageSize is the number of children requested per page of results.
const pageSize = 50

// blockService is the subset of notionapi.BlockService used by the backend.
type blockService interface {
	Get(ctx context.Context, id notionapi.BlockID) (notionapi.Block, error)
	GetChildren(ctx context.Context, id notionapi.BlockID, pagination *notionapi.Pagination) (*notionapi.GetChildrenResponse, error)
	AppendChildren(ctx context.Context, id notionapi.BlockID, request *notionapi.AppendBlockChildrenRequest) (*notionapi.AppendBlockChildrenResponse, error)
	Update(ctx context.Context, id notionapi.BlockID, request *notionapi.BlockUpdateRequest) (notionapi.Block, error)
}

// Client is the Notion backend. Blocks are addressed by their block ID.
type Client struct {
	blocks  blockService
	pages   backend.Documents
	metrics *instrumentation.Metrics
}

var _ backend.Backend = (*Client)(nil)

// Option configures a Client.
type Option func(*Client)

// WithMetrics records document API metrics on m.
func WithMetrics(m *instrumentation.Metrics) Option {
	return func(c *Client) { c.metrics = m }
}

// NewClient creates a backend authenticated with an integration token for
// the given page aliases.
func NewClient(token string, pages backend.Documents, opts ...Option) *Client {
	api := notionapi.NewClient(notionapi.Token(token))
	return newClient(api.Block, pages, opts...)
}

func newClient(blocks blockService, pages backend.Documents, opts ...Option) *Client {
	c := &Client{
		blocks: blocks,
		pages:  pages,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Kind implements backend.Backend.
func (c *Client) Kind() backend.Kind {
	return backend.KindNotion
}

// Aliases implements backend.Backend.
func (c *Client) Aliases() []string {
	return c.pages.Aliases()
}

// Read returns the page as "[BLOCK_ID:<id>] <markdown>" lines.
func (c *Client) Read(ctx context.Context, alias string) (string, error) {
	var out string
	err := c.instrument(ctx, instrumentation.OperationRead, alias, "", func(ctx context.Context) error {
		pageID, err := c.pages.Resolve(alias)
		if err != nil {
			return err
		}

		children, err := c.children(ctx, notionapi.BlockID(pageID))
		if err != nil {
			return pageError(alias, err)
		}

		var lines []string
		for _, block := range children {
			md, ok := blockToMarkdown(block)
			if !ok {
				continue
			}
			lines = append(lines, fmt.Sprintf("[BLOCK_ID:%s] %s", block.GetID(), md))
		}

		out = EmptyPage
		if len(lines) > 0 {
			out = strings.Join(lines, "\n")
		}
		return nil
	})
	return out, err
}

// Append formats text into blocks and adds them to the end of the page.
func (c *Client) Append(ctx context.Context, alias, text string) (string, error) {
	err := c.instrument(ctx, instrumentation.OperationAppend, alias, "", func(ctx context.Context) error {
		pageID, err := c.pages.Resolve(alias)
		if err != nil {
			return err
		}

		blocks := linesToBlocks(formatter.Format(text))
		for _, batch := range batches(blocks, maxChildrenPerRequest) {
			_, err := c.blocks.AppendChildren(ctx, notionapi.BlockID(pageID), &notionapi.AppendBlockChildrenRequest{
				Children: batch,
			})
			if err != nil {
				return pageError(alias, fmt.Errorf("failed to append blocks: %w", err))
			}
		}
		return nil
	})
	if err != nil {
		return "", err
	}
	return "Successfully appended text.", nil
}

// Update replaces the rich text of the block named by locator. The block
// keeps its type; all lines of text are joined inside it. A block whose
// parent is another page is reported as not found.
func (c *Client) Update(ctx context.Context, alias string, locator backend.Locator, text string) (string, error) {
	id := strings.TrimSpace(string(locator))
	if id == "" {
		return "", fmt.Errorf("%w: empty block id", backend.ErrInvalidLocator)
	}

	err := c.instrument(ctx, instrumentation.OperationUpdate, alias, id, func(ctx context.Context) error {
		pageID, err := c.pages.Resolve(alias)
		if err != nil {
			return err
		}

		block, err := c.blocks.Get(ctx, notionapi.BlockID(id))
		if err != nil {
			return blockError(id, fmt.Errorf("failed to get block: %w", err))
		}
		if parent := block.GetParent(); parent != nil && parent.Type == notionapi.ParentTypePageID &&
			!sameID(string(parent.PageID), pageID) {
			return fmt.Errorf("%w: block %s is not on page %s", backend.ErrLocatorNotFound, id, alias)
		}

		req, ok := setRichText(block, linesToRichText(formatter.Format(text)))
		if !ok {
			return fmt.Errorf("block %s of type %s cannot be updated as text", id, block.GetType())
		}

		if _, err := c.blocks.Update(ctx, notionapi.BlockID(id), req); err != nil {
			return blockError(id, fmt.Errorf("failed to update block: %w", err))
		}
		return nil
	})
	if err != nil {
		return "", err
	}
	return "Successfully updated block.", nil
}

// children lists every child block of id, following pagination cursors.
func (c *Client) children(ctx context.Context, id notionapi.BlockID) ([]notionapi.Block, error) {
	var (
		out    []notionapi.Block
		cursor notionapi.Cursor
	)
	for {
		resp, err := c.blocks.GetChildren(ctx, id, &notionapi.Pagination{
			StartCursor: cursor,
			PageSize:    pageSize,
		})
		if err != nil {
			return nil, fmt.Errorf("failed to list blocks: %w", err)
		}
		out = append(out, resp.Results...)

		if !resp.HasMore || resp.NextCursor == "" {
			return out, nil
		}
		cursor = notionapi.Cursor(resp.NextCursor)
	}
}

// sameID compares Notion IDs with or without dashes.
func sameID(a, b string) bool {
	norm := func(s string) string {
		return strings.ToLower(strings.ReplaceAll(strings.TrimSpace(s), "-", ""))
	}
	return norm(a) == norm(b)
}

func isNotFound(err error) bool {
	var apiErr *notionapi.Error
	return errors.As(err, &apiErr) && apiErr.Status == http.StatusNotFound
}

// pageError maps a missing page to backend.ErrAccessDenied. Notion answers
// 404 for pages the integration has not been invited to.
func pageError(alias string, err error) error {
	if isNotFound(err) {
		return fmt.Errorf("%w to page %s: share the page with your Notion integration", backend.ErrAccessDenied, alias)
	}
	return err
}

func blockError(id string, err error) error {
	if isNotFound(err) {
		return fmt.Errorf("%w: block %s", backend.ErrLocatorNotFound, id)
	}
	return err
}

func (c *Client) instrument(ctx context.Context, operation, alias, locator string, fn func(context.Context) error) error {
	ctx, span := instrumentation.StartDocumentSpan(ctx, instrumentation.BackendNotion, operation,
		instrumentation.NewSpanAttributeBuilder().WithDocument(alias, locator).Build()...)

	start := time.Now()
	err := fn(ctx)

	c.metrics.RecordDocumentOperation(ctx, instrumentation.BackendNotion, operation, alias,
		instrumentation.StatusFromError(err), time.Since(start))
	instrumentation.EndSpan(span, err)
	return err
}
