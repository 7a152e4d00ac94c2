// Package intake assembles the medical pre-visit dialogue engine: the
// specialty registry, the general intake flow, and the runtime that walks a
// patient through consent, chief complaint, specialty assessment, medical
// history and wrap-up, and escalates to staff the moment an assessment trips
// an emergency indicator.
package intake

import (
	"log/slog"

	"github.com/carebridge/intake/internal/runtime"
	"github.com/carebridge/intake/pkg/adapters/memory"
	"github.com/carebridge/intake/pkg/flow"
	"github.com/carebridge/intake/pkg/ports"
	"github.com/carebridge/intake/pkg/registry"
	"github.com/carebridge/intake/pkg/session"
	"github.com/carebridge/intake/pkg/specialty"
)

// Version of the intake engine.
const Version = "0.2.0"

// Engine is the runtime clients drive sessions through.
type Engine = runtime.Engine

// Reply is the outcome of one turn, rendered by the host.
type Reply = runtime.Reply

// Options collects the optional collaborators of the engine.
type options struct {
	store     ports.StateStore
	locker    ports.DistributedLocker
	persister ports.RecordPersister
	logger    *slog.Logger
	persona   *flow.Persona
	settings  *flow.Settings
}

// Option configures New.
type Option func(*options)

// WithStore replaces the default in-memory session store.
func WithStore(store ports.StateStore) Option {
	return func(o *options) { o.store = store }
}

// WithLocker enables distributed session locking.
func WithLocker(locker ports.DistributedLocker) Option {
	return func(o *options) { o.locker = locker }
}

// WithPersister sets the medical-record sink.
func WithPersister(p ports.RecordPersister) Option {
	return func(o *options) { o.persister = p }
}

// WithLogger sets the logger for the engine and session manager.
func WithLogger(logger *slog.Logger) Option {
	return func(o *options) { o.logger = logger }
}

// WithPersona overrides the default agent persona.
func WithPersona(p flow.Persona) Option {
	return func(o *options) { o.persona = &p }
}

// WithSettings overrides the default flow settings.
func WithSettings(s flow.Settings) Option {
	return func(o *options) { o.settings = &s }
}

// New wires the full engine: registry, specialties, flow, session manager.
// Specialty registration happens here, once, in a fixed order; match
// tie-breaking depends on it.
func New(opts ...Option) (*Engine, error) {
	var o options
	for _, opt := range opts {
		opt(&o)
	}
	if o.store == nil {
		o.store = memory.NewStore()
	}
	if o.persister == nil {
		o.persister = memory.NewRecorder()
	}

	persona := flow.Persona{
		AgentName:   "Alice",
		ClinicName:  "Surrey Medical Clinic",
		PatientName: "Ricky Sangha",
	}
	if o.persona != nil {
		persona = *o.persona
	}
	settings := flow.DefaultSettings()
	if o.settings != nil {
		settings = *o.settings
	}

	reg := registry.New()
	f, err := flow.New(persona, settings, reg)
	if err != nil {
		return nil, err
	}

	// Registration order is load-bearing: chest pain is consulted first.
	if err := reg.Register(specialty.NewChestPain(f)); err != nil {
		return nil, err
	}
	if err := reg.Register(specialty.NewRespiratory(f)); err != nil {
		return nil, err
	}

	var mgrOpts []session.Option
	if o.locker != nil {
		mgrOpts = append(mgrOpts, session.WithLocker(o.locker))
	}
	if o.logger != nil {
		mgrOpts = append(mgrOpts, session.WithLogger(o.logger))
	}
	mgr := session.NewManager(o.store, mgrOpts...)

	engOpts := []runtime.Option{runtime.WithPersister(o.persister)}
	if o.logger != nil {
		engOpts = append(engOpts, runtime.WithLogger(o.logger))
	}
	return runtime.NewEngine(f, mgr, engOpts...), nil
}
