package store

import "context"

type Option func(*Options)

type Options struct {
	Location   string
	Table      string
	IndexName  string
	Dimensions int
	Candidates int
	Context    context.Context
}

func WithLocation(loc string) Option {
	return func(o *Options) {
		o.Location = loc
	}
}

func WithTable(table string) Option {
	return func(o *Options) {
		o.Table = table
	}
}

func WithIndexName(name string) Option {
	return func(o *Options) {
		o.IndexName = name
	}
}

func WithDimensions(n int) Option {
	return func(o *Options) {
		o.Dimensions = n
	}
}

func WithCandidates(n int) Option {
	return func(o *Options) {
		o.Candidates = n
	}
}

func NewOptions(opts ...Option) Options {
	options := Options{
		Table:      "documents",
		IndexName:  "vector_index",
		Dimensions: 768,
		Candidates: 50,
		Context:    context.Background(),
	}
	for _, opt := range opts {
		opt(&options)
	}
	return options
}
