// Package httpfetch performs one HTTP request and produces the response as
// an object artifact with status, body, and headers attributes.
package httpfetch

import (
	"context"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/zclconf/go-cty/cty"
	"resty.dev/v3"

	"github.com/vk/artifactgraphgo/internal/builder"
	"github.com/vk/artifactgraphgo/internal/ctxlog"
	"github.com/vk/artifactgraphgo/internal/registry"
)

// Module implements the registry.Module interface for this package.
type Module struct{}

// Input defines the arguments for the 'arguments' HCL block.
type Input struct {
	URL     string            `hcl:"url"`
	Method  string            `hcl:"method,optional"`
	Headers map[string]string `hcl:"headers,optional"`
	Body    string            `hcl:"body,optional"`
	Timeout string            `hcl:"timeout,optional"`
}

// OnBuildHTTPFetch is the handler for the 'httpfetch' builder.
func OnBuildHTTPFetch(ctx context.Context, input any, bc *builder.Context) error {
	in := input.(*Input)
	logger := ctxlog.FromContext(ctx).With("handler", "httpfetch", "url", in.URL)

	method := strings.ToUpper(in.Method)
	if method == "" {
		method = http.MethodGet
	}

	timeout := 10 * time.Second
	if in.Timeout != "" {
		d, err := time.ParseDuration(in.Timeout)
		if err != nil {
			logger.Warn("Failed to parse timeout, using default 10s.", "timeout", in.Timeout, "error", err)
		} else {
			timeout = d
		}
	}

	client := resty.New().SetTimeout(timeout)
	defer client.Close()

	req := client.R().SetContext(ctx)
	if len(in.Headers) > 0 {
		req.SetHeaders(in.Headers)
	}
	if in.Body != "" {
		req.SetBody(in.Body)
	}

	start := time.Now()
	resp, err := req.Execute(method, in.URL)
	if err != nil {
		return fmt.Errorf("%s %s failed: %w", method, in.URL, err)
	}
	logger.Debug("Received HTTP response.", "status", resp.StatusCode(), "duration", time.Since(start))

	if err := bc.Progress(ctx, fmt.Sprintf("%s %s -> %d", method, in.URL, resp.StatusCode())); err != nil {
		return err
	}

	out := responseValue(resp.StatusCode(), resp.String(), resp.Header())
	for _, id := range bc.OutputIDs() {
		if err := bc.Produce(ctx, id, out); err != nil {
			return err
		}
	}
	return nil
}

// responseValue shapes an HTTP response as a cty object. Headers keep their
// first value only; repeated headers are rare in the graphs this serves.
func responseValue(status int, body string, header http.Header) cty.Value {
	headers := cty.MapValEmpty(cty.String)
	if len(header) > 0 {
		hv := make(map[string]cty.Value, len(header))
		for name, values := range header {
			if len(values) > 0 {
				hv[name] = cty.StringVal(values[0])
			}
		}
		headers = cty.MapVal(hv)
	}

	return cty.ObjectVal(map[string]cty.Value{
		"status":  cty.NumberIntVal(int64(status)),
		"body":    cty.StringVal(body),
		"headers": headers,
	})
}

// Register registers the handler with the engine.
func (m *Module) Register(r *registry.Registry) {
	r.RegisterHandler("httpfetch", &registry.Handler{
		NewInput: func() any { return new(Input) },
		Build:    OnBuildHTTPFetch,
	})
}
