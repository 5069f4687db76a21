package stack

import (
	"go.uber.org/zap"
)

// Option configures DefineStack and ParseBytes.
type Option func(*options)

type options struct {
	strict     bool
	catalog    *Catalog
	validators Validators
	overrides  Validators
	logger     *zap.Logger
}

// WithStrict toggles validation. Strict mode is the default; with strict set
// to false only normalization runs.
func WithStrict(strict bool) Option {
	return func(o *options) {
		o.strict = strict
	}
}

// WithCatalog replaces the collection table.
func WithCatalog(c *Catalog) Option {
	return func(o *options) {
		o.catalog = c
	}
}

// WithValidators replaces the whole validator table.
func WithValidators(v Validators) Option {
	return func(o *options) {
		o.validators = v
	}
}

// WithValidator registers or replaces the validator of one collection.
// Use ManifestValidator to validate the manifest.
func WithValidator(collection string, fn EntityValidator) Option {
	return func(o *options) {
		if o.overrides == nil {
			o.overrides = make(Validators)
		}
		o.overrides[collection] = fn
	}
}

// WithLogger sets the logger that receives stage progress at debug level.
func WithLogger(l *zap.Logger) Option {
	return func(o *options) {
		o.logger = l
	}
}

func newOptions(opts []Option) *options {
	o := &options{strict: true}
	for _, opt := range opts {
		opt(o)
	}
	if o.catalog == nil {
		o.catalog = DefaultCatalog()
	}
	if o.validators == nil {
		o.validators = DefaultValidators()
	}
	if len(o.overrides) > 0 {
		o.validators = o.validators.Clone()
		for name, fn := range o.overrides {
			o.validators[name] = fn
		}
	}
	if o.logger == nil {
		o.logger = zap.NewNop()
	}
	return o
}

// DefineStack normalizes and validates a stack document and returns its
// canonical form.
//
// In strict mode (the default) the stages run in order: normalization,
// naming convention, per-entity schema validation, cross-references. The
// first stage that finds problems stops the pipeline and its findings are
// returned together as a *StackError. In non-strict mode the normalized
// document is returned without any validation.
func DefineStack(in *Input, opts ...Option) (*Definition, error) {
	o := newOptions(opts)
	log := o.logger.With(zap.Bool("strict", o.strict))
	if in != nil && in.source != "" {
		log = log.With(zap.String("source", in.source))
	}

	def := Normalize(in, o.catalog)
	log.Debug("normalized stack", zap.Int("collections", len(def.Collections)))
	if !o.strict {
		return def, nil
	}

	if err := CheckCasing(def); err != nil {
		log.Debug("naming check failed", zap.Error(err))
		return nil, err
	}

	def, err := Gate(def, o.validators)
	if err != nil {
		log.Debug("schema check failed", zap.Error(err))
		return nil, err
	}

	if err := CheckReferences(def); err != nil {
		log.Debug("cross-reference check failed", zap.Error(err))
		return nil, err
	}

	log.Debug("stack validated", zap.Int("objects", len(def.Objects())))
	return def, nil
}

// MustDefineStack is like DefineStack but panics on error. It is meant for
// stacks declared in Go source.
func MustDefineStack(in *Input, opts ...Option) *Definition {
	def, err := DefineStack(in, opts...)
	if err != nil {
		panic(err)
	}
	return def
}
