package docs

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/pmezard/go-difflib/difflib"
	docs "google.golang.org/api/docs/v1"
	"google.golang.org/api/googleapi"
	"google.golang.org/api/option"

	"github.com/enzocage/Notion-Mediator/internal/backend"
	"github.com/enzocage/Notion-Mediator/internal/formatter"
	"github.com/enzocage/Notion-Mediator/internal/google"
	"github.com/enzocage/Notion-Mediator/internal/instrumentation"
)

// Client is the Google Docs backend. Paragraphs are addressed by their
// zero-based index among the non-blank paragraphs of the document body.
type Client struct {
	service   *docs.Service
	documents backend.Documents
	shareWith string
	metrics   *instrumentation.Metrics
}

var _ backend.Backend = (*Client)(nil)

// Option configures a Client.
type Option func(*Client)

// WithMetrics records document API metrics on m.
func WithMetrics(m *instrumentation.Metrics) Option {
	return func(c *Client) { c.metrics = m }
}

// WithShareHint names the account documents must be shared with. It is
// included in access-denied errors.
func WithShareHint(email string) Option {
	return func(c *Client) { c.shareWith = email }
}

// NewService creates a Docs API service authenticated with service-account
// credentials.
func NewService(ctx context.Context, creds *google.Credentials) (*docs.Service, error) {
	httpClient, err := creds.HTTPClient(ctx, google.DocumentsScope)
	if err != nil {
		return nil, fmt.Errorf("failed to create Docs HTTP client: %w", err)
	}

	service, err := docs.NewService(ctx, option.WithHTTPClient(httpClient))
	if err != nil {
		return nil, fmt.Errorf("failed to create Docs service: %w", err)
	}
	return service, nil
}

// NewClient creates a backend over service for the given document aliases.
func NewClient(service *docs.Service, documents backend.Documents, opts ...Option) *Client {
	c := &Client{
		service:   service,
		documents: documents,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Kind implements backend.Backend.
func (c *Client) Kind() backend.Kind {
	return backend.KindGoogle
}

// Aliases implements backend.Backend.
func (c *Client) Aliases() []string {
	return c.documents.Aliases()
}

// Read returns the document as "[PARAGRAPH:n] <markdown>" lines.
func (c *Client) Read(ctx context.Context, alias string) (string, error) {
	var out string
	err := c.instrument(ctx, instrumentation.OperationRead, alias, "", func(ctx context.Context) error {
		doc, err := c.get(ctx, alias)
		if err != nil {
			return err
		}
		out, err = DocumentToMarkdown(doc)
		return err
	})
	return out, err
}

// Append formats text and adds it after the last paragraph in a single
// batch update.
func (c *Client) Append(ctx context.Context, alias, text string) (string, error) {
	err := c.instrument(ctx, instrumentation.OperationAppend, alias, "", func(ctx context.Context) error {
		doc, err := c.get(ctx, alias)
		if err != nil {
			return err
		}

		end := bodyEndIndex(doc)
		empty := end <= 2

		b := newBatch(end - 1)
		if empty {
			b = newBatch(1)
		}
		b.writeLines(formatter.Format(text), !empty)

		return c.batchUpdate(ctx, alias, doc.DocumentId, b.requests)
	})
	if err != nil {
		return "", err
	}
	return "Successfully appended text.", nil
}

// Update replaces the text of paragraph locator, keeping its trailing
// newline, and reports a diff of the paragraph before and after.
func (c *Client) Update(ctx context.Context, alias string, locator backend.Locator, text string) (string, error) {
	index, err := locator.Index()
	if err != nil {
		return "", err
	}

	var before string
	err = c.instrument(ctx, instrumentation.OperationUpdate, alias, string(locator), func(ctx context.Context) error {
		doc, err := c.get(ctx, alias)
		if err != nil {
			return err
		}

		p, ok := findParagraph(doc, index)
		if !ok {
			return fmt.Errorf("%w: paragraph %d not found", backend.ErrLocatorNotFound, index)
		}
		before = ParagraphToMarkdown(p.Paragraph)

		var requests []*docs.Request
		if p.Paragraph.Bullet != nil {
			requests = append(requests, &docs.Request{
				DeleteParagraphBullets: &docs.DeleteParagraphBulletsRequest{
					Range: &docs.Range{StartIndex: p.StartIndex, EndIndex: p.EndIndex},
				},
			})
		}
		if p.EndIndex-1 > p.StartIndex {
			requests = append(requests, &docs.Request{
				DeleteContentRange: &docs.DeleteContentRangeRequest{
					Range: &docs.Range{StartIndex: p.StartIndex, EndIndex: p.EndIndex - 1},
				},
			})
		}

		b := newBatch(p.StartIndex)
		b.writeLines(formatter.Format(text), false)
		requests = append(requests, b.requests...)

		return c.batchUpdate(ctx, alias, doc.DocumentId, requests)
	})
	if err != nil {
		return "", err
	}

	return fmt.Sprintf("Successfully updated paragraph %d.\n%s", index, paragraphDiff(before, text)), nil
}

func (c *Client) get(ctx context.Context, alias string) (*docs.Document, error) {
	id, err := c.documents.Resolve(alias)
	if err != nil {
		return nil, err
	}

	doc, err := c.service.Documents.Get(id).Context(ctx).Do()
	if err != nil {
		return nil, c.wrap(alias, fmt.Errorf("failed to get document %s: %w", id, err))
	}
	if doc.DocumentId == "" {
		doc.DocumentId = id
	}
	return doc, nil
}

func (c *Client) batchUpdate(ctx context.Context, alias, documentID string, requests []*docs.Request) error {
	if len(requests) == 0 {
		return nil
	}

	_, err := c.service.Documents.BatchUpdate(documentID, &docs.BatchUpdateDocumentRequest{
		Requests: requests,
	}).Context(ctx).Do()
	if err != nil {
		return c.wrap(alias, fmt.Errorf("failed to update document %s: %w", documentID, err))
	}
	return nil
}

// wrap maps permission and not-found API errors to backend.ErrAccessDenied.
func (c *Client) wrap(alias string, err error) error {
	var apiErr *googleapi.Error
	if !errors.As(err, &apiErr) {
		return err
	}
	if apiErr.Code != http.StatusForbidden && apiErr.Code != http.StatusNotFound {
		return err
	}

	hint := "share the document with the service account"
	if c.shareWith != "" {
		hint = "share the document with " + c.shareWith
	}
	return fmt.Errorf("%w to document %s: %s: %v", backend.ErrAccessDenied, alias, hint, err)
}

func (c *Client) instrument(ctx context.Context, operation, alias, locator string, fn func(context.Context) error) error {
	ctx, span := instrumentation.StartDocumentSpan(ctx, instrumentation.BackendGoogle, operation,
		instrumentation.NewSpanAttributeBuilder().WithDocument(alias, locator).Build()...)

	start := time.Now()
	err := fn(ctx)

	c.metrics.RecordDocumentOperation(ctx, instrumentation.BackendGoogle, operation, alias,
		instrumentation.StatusFromError(err), time.Since(start))
	instrumentation.EndSpan(span, err)
	return err
}

// paragraphDiff returns a unified diff between the old paragraph markdown and
// the replacement text.
func paragraphDiff(before, after string) string {
	diff, err := difflib.GetUnifiedDiffString(difflib.UnifiedDiff{
		A:        difflib.SplitLines(before + "\n"),
		B:        difflib.SplitLines(after + "\n"),
		FromFile: "before",
		ToFile:   "after",
		Context:  1,
	})
	if err != nil {
		return ""
	}
	return diff
}
