package opts

import (
	"context"
	"io"
	"os"
	"sync"
	"time"

	"github.com/walteh/regexrules/pkg/config"
	"github.com/walteh/regexrules/pkg/engine"
	"github.com/walteh/regexrules/pkg/invoke"
	"github.com/walteh/regexrules/pkg/log"
	"github.com/walteh/regexrules/pkg/state"
	"github.com/walteh/regexrules/pkg/view"
	"gitlab.com/tozd/go/errors"
)

// DefaultSources are tried in order when no --config is given
var DefaultSources = []string{".regexrules", "regexrules.yaml", "regexrules.yml", "regexrules.hcl", "regexrules.json"}

// Settings are the persistent flags, after environment binding
type Settings struct {
	Sources      []string
	StatePath    string
	Engine       string
	MatchTimeout time.Duration
	Debug        bool
}

// RootOpts contains shared options used by all commands. The rule store and
// usage state are loaded on first use.
type RootOpts struct {
	Settings Settings

	In  io.Reader
	Out io.Writer
	Err io.Writer

	Picker    view.Picker
	Clipboard invoke.Clipboard

	mu    sync.Mutex
	cfg   *config.Config
	state *state.Manager
}

// Logger returns the console reporter for ctx
func (o *RootOpts) Logger(ctx context.Context) *log.Logger {
	return log.FromContext(ctx)
}

// Config loads and merges the rule sources
func (o *RootOpts) Config(ctx context.Context) (*config.Config, error) {
	o.mu.Lock()
	defer o.mu.Unlock()

	if o.cfg != nil {
		return o.cfg, nil
	}

	sources := o.Settings.Sources
	if len(sources) == 0 {
		for _, s := range DefaultSources {
			if _, err := os.Stat(s); err == nil {
				sources = []string{s}
				break
			}
		}
	}
	if len(sources) == 0 {
		return nil, errors.Errorf("no rule config found: pass --config or create one of %v", DefaultSources)
	}

	cfg, err := config.LoadAll(ctx, sources...)
	if err != nil {
		return nil, errors.Errorf("loading config: %w", err)
	}
	o.cfg = cfg
	return cfg, nil
}

// State loads the usage state
func (o *RootOpts) State(ctx context.Context) (*state.Manager, error) {
	o.mu.Lock()
	defer o.mu.Unlock()

	if o.state != nil {
		return o.state, nil
	}

	path := o.Settings.StatePath
	if path == "" {
		p, err := state.DefaultPath()
		if err != nil {
			return nil, err
		}
		path = p
	}

	m, err := state.Load(ctx, path)
	if err != nil {
		return nil, errors.Errorf("loading state: %w", err)
	}
	o.state = m
	return m, nil
}

// Engine builds the engine for the selected backend
func (o *RootOpts) Engine() (*engine.Engine, error) {
	backend := engine.BackendECMAScript
	if o.Settings.Engine != "" {
		b, err := engine.ParseBackend(o.Settings.Engine)
		if err != nil {
			return nil, err
		}
		backend = b
	}
	return engine.New(
		engine.WithBackend(backend),
		engine.WithMatchTimeout(o.Settings.MatchTimeout),
	), nil
}

// Invoker wires the store, engine, usage tracker and clipboard together
func (o *RootOpts) Invoker(ctx context.Context) (*invoke.Invoker, error) {
	cfg, err := o.Config(ctx)
	if err != nil {
		return nil, err
	}
	st, err := o.State(ctx)
	if err != nil {
		return nil, err
	}
	e, err := o.Engine()
	if err != nil {
		return nil, err
	}
	return invoke.New(invoke.Options{
		Store:     cfg,
		Engine:    e,
		Tracker:   st,
		Clipboard: o.Clipboard,
	}), nil
}
