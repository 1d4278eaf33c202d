package x86

// Options configures CPU construction: the initial segment/pointer values a
// loaded image starts with, none of which this package can infer on its
// own.
type Options struct {
	initialIP uint16
	initialSP uint16
	initialCS uint16
	initialDS uint16
	initialES uint16
	initialSS uint16
}

// Option mutates Options during CPU construction.
type Option func(*Options)

// NewOptions applies defaults, then every supplied Option in order.
func NewOptions(options ...Option) Options {
	opts := Options{
		initialIP: 0x0000,
		initialSP: 0xFFFE,
		initialCS: 0x0000,
		initialDS: 0x0000,
		initialES: 0x0000,
		initialSS: 0x0000,
	}
	for _, option := range options {
		option(&opts)
	}
	return opts
}

// WithInitialIP sets the instruction pointer a run starts at, normally the
// a.out header's entry point.
func WithInitialIP(ip uint16) Option {
	return func(opts *Options) { opts.initialIP = ip }
}

// WithInitialSP sets the stack pointer's starting value, i.e. the stack's
// empty floor.
func WithInitialSP(sp uint16) Option {
	return func(opts *Options) { opts.initialSP = sp }
}

// WithInitialCS sets the code segment.
func WithInitialCS(cs uint16) Option {
	return func(opts *Options) { opts.initialCS = cs }
}

// WithInitialDS sets the data segment.
func WithInitialDS(ds uint16) Option {
	return func(opts *Options) { opts.initialDS = ds }
}

// WithInitialES sets the extra segment.
func WithInitialES(es uint16) Option {
	return func(opts *Options) { opts.initialES = es }
}

// WithInitialSS sets the stack segment.
func WithInitialSS(ss uint16) Option {
	return func(opts *Options) { opts.initialSS = ss }
}
