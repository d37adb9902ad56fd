package middleware

import (
	"testing"

	"github.com/vyrodovalexey/avapibridge/internal/pipeline"
)

// newTestPipeline builds a pipeline around the given middlewares.
func newTestPipeline(t *testing.T, mws ...pipeline.Middleware) *pipeline.Pipeline {
	t.Helper()

	p := pipeline.New()
	for _, mw := range mws {
		p.Use(mw)
	}
	return p
}
