// Package socketiopush delivers the builder's consumed artifacts to a
// socket.io endpoint and produces a delivery report artifact. It can
// optionally wait for an acknowledgement event before reporting success.
package socketiopush

import (
	"context"
	"crypto/tls"
	"encoding/json"
	"fmt"
	"net/url"
	"sync/atomic"
	"time"

	"github.com/zclconf/go-cty/cty"
	ctyjson "github.com/zclconf/go-cty/cty/json"
	"github.com/zishang520/engine.io-client-go/transports"
	"github.com/zishang520/engine.io/v2/types"
	"github.com/zishang520/socket.io-client-go/socket"

	"github.com/vk/artifactgraphgo/internal/builder"
	"github.com/vk/artifactgraphgo/internal/ctxlog"
	"github.com/vk/artifactgraphgo/internal/registry"
)

// Module implements the registry.Module interface for this package.
type Module struct{}

// Input defines the arguments for the 'arguments' HCL block.
type Input struct {
	URL                string `hcl:"url"`
	Namespace          string `hcl:"namespace,optional"`
	EmitEvent          string `hcl:"emit_event"`
	AckEvent           string `hcl:"ack_event,optional"`
	Timeout            string `hcl:"timeout,optional"`
	InsecureSkipVerify bool   `hcl:"insecure_skip_verify,optional"`
}

// opResult is a private struct to safely pass results through the done channel.
type opResult struct {
	ack string
	err error
}

// OnBuildSocketIOPush is the handler for the 'socketiopush' builder.
func OnBuildSocketIOPush(ctx context.Context, input any, bc *builder.Context) error {
	in := input.(*Input)
	logger := ctxlog.FromContext(ctx).With("handler", "socketiopush", "url", in.URL, "emitEvent", in.EmitEvent)
	logger.Debug("Handler started.")
	defer logger.Debug("Handler finished.")

	payload, err := buildPayload(bc)
	if err != nil {
		return err
	}

	var isConnected atomic.Bool

	timeout := 10 * time.Second
	if in.Timeout != "" {
		d, err := time.ParseDuration(in.Timeout)
		if err != nil {
			logger.Warn("Failed to parse timeout, using default 10s.", "timeout", in.Timeout, "error", err)
		} else {
			timeout = d
		}
	}

	done := make(chan opResult, 1)
	opCtx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	parsedURL, err := url.Parse(in.URL)
	if err != nil {
		return fmt.Errorf("failed to parse URL: %w", err)
	}

	baseURL := fmt.Sprintf("%s://%s", parsedURL.Scheme, parsedURL.Host)
	opts := socket.DefaultOptions()
	opts.SetPath(parsedURL.Path)

	if in.InsecureSkipVerify {
		logger.Warn("Skipping TLS certificate verification.")
		opts.SetTLSClientConfig(&tls.Config{InsecureSkipVerify: true})
	}
	opts.SetTransports(types.NewSet(transports.WebSocket))

	manager := socket.NewManager(baseURL, opts)
	io := manager.Socket(in.Namespace, opts)
	defer func() {
		logger.Debug("Disconnecting socket client.")
		io.Disconnect()
	}()

	// --- Event Listeners ---
	io.On(types.EventName("connect"), func(...any) {
		isConnected.Store(true)
		logger.Debug("Connected, emitting payload.", "namespace", in.Namespace, "sid", io.Id())
		io.Emit(in.EmitEvent, payload)
		if in.AckEvent == "" {
			done <- opResult{}
		}
	})

	io.On(types.EventName("connect_error"), func(errs ...any) {
		done <- opResult{err: errs[0].(error)}
	})

	if in.AckEvent != "" {
		io.On(types.EventName(in.AckEvent), func(data ...any) {
			var ack string
			if len(data) > 0 {
				if raw, err := json.Marshal(data[0]); err == nil {
					ack = string(raw)
				}
			}
			done <- opResult{ack: ack}
		})
	}

	// --- Execution Block ---
	io.Connect()

	select {
	case <-opCtx.Done():
		if isConnected.Load() {
			return fmt.Errorf("timed out after connecting while waiting for event '%s'", in.AckEvent)
		}
		return fmt.Errorf("timed out while waiting for initial connection")
	case res := <-done:
		if res.err != nil {
			return fmt.Errorf("socket.io delivery failed: %w", res.err)
		}
		if err := bc.Progress(opCtx, fmt.Sprintf("delivered '%s' to %s", in.EmitEvent, in.URL)); err != nil {
			return err
		}
		report := cty.ObjectVal(map[string]cty.Value{
			"delivered": cty.True,
			"event":     cty.StringVal(in.EmitEvent),
			"response":  cty.StringVal(res.ack),
		})
		for _, id := range bc.OutputIDs() {
			if err := bc.Produce(opCtx, id, report); err != nil {
				return err
			}
		}
		return nil
	}
}

// buildPayload shapes the emitted message: the task id plus every consumed
// artifact, keyed by id, rendered through its JSON form.
func buildPayload(bc *builder.Context) (map[string]any, error) {
	arts := make(map[string]any)
	for _, id := range bc.InputIDs() {
		v, ok := bc.Input(id)
		if !ok {
			return nil, fmt.Errorf("input artifact '%s' was not resolved", id)
		}
		raw, err := ctyjson.Marshal(v, v.Type())
		if err != nil {
			return nil, fmt.Errorf("input artifact '%s': %w", id, err)
		}
		var decoded any
		if err := json.Unmarshal(raw, &decoded); err != nil {
			return nil, fmt.Errorf("input artifact '%s': %w", id, err)
		}
		arts[string(id)] = decoded
	}

	return map[string]any{
		"task":      bc.Task.ID,
		"artifacts": arts,
	}, nil
}

// Register registers the handler with the engine.
func (m *Module) Register(r *registry.Registry) {
	r.RegisterHandler("socketiopush", &registry.Handler{
		NewInput: func() any { return new(Input) },
		Build:    OnBuildSocketIOPush,
	})
}
