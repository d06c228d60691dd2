package extractor

type Option func(*Options)

type Options struct {
	MaxPages int
}

func WithMaxPages(n int) Option {
	return func(o *Options) {
		o.MaxPages = n
	}
}

func NewOptions(opts ...Option) Options {
	options := Options{
		MaxPages: 20,
	}
	for _, opt := range opts {
		opt(&options)
	}
	if options.MaxPages < 1 {
		options.MaxPages = 1
	}
	return options
}
