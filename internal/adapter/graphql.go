package adapter

import (
	"context"
	"fmt"
	"net/http"
	"strings"

	"github.com/bytedance/sonic"

	"github.com/vyrodovalexey/avapibridge/internal/config"
	"github.com/vyrodovalexey/avapibridge/internal/message"
	"github.com/vyrodovalexey/avapibridge/internal/observability"
	"github.com/vyrodovalexey/avapibridge/internal/serializer"
	"github.com/vyrodovalexey/avapibridge/internal/util"
)

// GraphQLResult is the data portion of a successful GraphQL response.
type GraphQLResult struct {
	Data map[string]interface{} `json:"data"`
}

// GraphQLAdapter converts GraphQL operations to HTTP requests and HTTP
// responses back to results. Every operation is POSTed as JSON to one
// configured endpoint path; the endpoint is fixed at construction and
// not discoverable at runtime.
type GraphQLAdapter struct {
	endpoint string
	logger   observability.Logger
}

// GraphQLAdapterOption is a functional option for the adapter.
type GraphQLAdapterOption func(*GraphQLAdapter)

// WithGraphQLLogger sets the logger for the adapter.
func WithGraphQLLogger(logger observability.Logger) GraphQLAdapterOption {
	return func(a *GraphQLAdapter) {
		a.logger = logger
	}
}

// NewGraphQLAdapter creates a GraphQL adapter. A nil configuration or
// empty endpoint selects the default /graphql path.
func NewGraphQLAdapter(cfg *config.GraphQLConfig, opts ...GraphQLAdapterOption) *GraphQLAdapter {
	endpoint := config.DefaultGraphQLEndpoint
	if cfg != nil && cfg.Endpoint != "" {
		endpoint = cfg.Endpoint
	}

	a := &GraphQLAdapter{
		endpoint: endpoint,
		logger:   observability.NopLogger(),
	}

	for _, opt := range opts {
		opt(a)
	}

	return a
}

// Endpoint returns the configured GraphQL endpoint path.
func (a *GraphQLAdapter) Endpoint() string { return a.endpoint }

// AdaptQueryToRequest builds the HTTP request for a GraphQL operation.
// Nil variables are sent as an empty object so the remote end always
// receives both fields.
func (a *GraphQLAdapter) AdaptQueryToRequest(ctx context.Context, query string, variables map[string]interface{}) (*message.Request, error) {
	_, span := startSpan(ctx, adapterGraphQL, "adapt_query")
	defer span.End()

	if strings.TrimSpace(query) == "" {
		err := util.NewFieldValidationError("graphql", "query", "must not be empty")
		span.RecordError(err)
		return nil, err
	}

	if variables == nil {
		variables = map[string]interface{}{}
	}

	body, err := sonic.ConfigStd.Marshal(map[string]interface{}{
		"query":     query,
		"variables": variables,
	})
	if err != nil {
		span.RecordError(err)
		return nil, util.NewAdaptationErrorWithCause(adapterGraphQL, err)
	}

	req := message.NewRequest(http.MethodPost, a.endpoint,
		message.WithHeader(HeaderContentType, serializer.ContentTypeJSON),
		message.WithHeader(HeaderAccept, serializer.ContentTypeJSON),
		message.WithBody(body, serializer.ContentTypeJSON),
	)
	return req, nil
}

// AdaptResponseToResult extracts the GraphQL result from an HTTP
// response. A non-200 status fails, and a response carrying a
// top-level errors array fails with every error message joined into
// one adaptation error. A missing data field defaults to an empty
// object.
func (a *GraphQLAdapter) AdaptResponseToResult(ctx context.Context, resp *message.Response) (*GraphQLResult, error) {
	_, span := startSpan(ctx, adapterGraphQL, "adapt_response")
	defer span.End()

	if resp == nil {
		err := util.NewAdaptationError(adapterGraphQL, "response is nil")
		span.RecordError(err)
		return nil, err
	}
	if resp.StatusCode() != http.StatusOK {
		err := util.NewAdaptationError(adapterGraphQL,
			fmt.Sprintf("unexpected status %d", resp.StatusCode()))
		span.RecordError(err)
		return nil, err
	}

	var payload map[string]interface{}
	if len(resp.Body()) > 0 {
		if err := sonic.ConfigStd.Unmarshal(resp.Body(), &payload); err != nil {
			span.RecordError(err)
			return nil, util.NewAdaptationErrorWithCause(adapterGraphQL, err)
		}
	}

	if raw, ok := payload["errors"]; ok {
		if entries, ok := raw.([]interface{}); ok && len(entries) > 0 {
			msgs := graphQLErrorMessages(entries)
			err := util.NewAdaptationError(adapterGraphQL, msgs...)
			span.RecordError(err)
			return nil, err
		}
	}

	data, _ := payload["data"].(map[string]interface{})
	if data == nil {
		data = map[string]interface{}{}
	}
	return &GraphQLResult{Data: data}, nil
}

// graphQLErrorMessages collects the message strings from a GraphQL
// errors array. Entries without one are reported generically so a
// malformed errors array still fails loudly.
func graphQLErrorMessages(entries []interface{}) []string {
	msgs := make([]string, 0, len(entries))
	for _, entry := range entries {
		obj, ok := entry.(map[string]interface{})
		if !ok {
			continue
		}
		if s, ok := obj["message"].(string); ok {
			msgs = append(msgs, s)
		}
	}
	if len(msgs) == 0 {
		msgs = append(msgs, "graphql response contained errors")
	}
	return msgs
}
