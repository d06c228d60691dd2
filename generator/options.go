package generator

import "context"

type Option func(*Options)

type Options struct {
	ApiKey         string
	Model          string
	MaxTokens      int
	ThinkingBudget int
	Context        context.Context
}

func WithApiKey(apiKey string) Option {
	return func(o *Options) {
		o.ApiKey = apiKey
	}
}

func WithModel(model string) Option {
	return func(o *Options) {
		o.Model = model
	}
}

func WithMaxTokens(n int) Option {
	return func(o *Options) {
		o.MaxTokens = n
	}
}

func WithThinkingBudget(n int) Option {
	return func(o *Options) {
		o.ThinkingBudget = n
	}
}

func NewOptions(opts ...Option) Options {
	options := Options{
		MaxTokens: 1024,
		Context:   context.Background(),
	}
	for _, opt := range opts {
		opt(&options)
	}
	return options
}
