package finsight

// Options are the per-request settings a provider adapter reads when it
// builds its SDK request. Zero values select the provider default.
type Options struct {
	Model       string
	MaxTokens   int
	Temperature *float64
	Tools       []Tool
	ToolChoice  ToolChoice
}

// Option adjusts Options for a single Chat call.
type Option func(*Options)

// WithModel overrides the client's default chat model.
func WithModel(model string) Option {
	return func(o *Options) { o.Model = model }
}

// WithMaxTokens caps the length of the reply.
func WithMaxTokens(n int) Option {
	return func(o *Options) { o.MaxTokens = n }
}

// WithTemperature sets the sampling temperature. Crews use low values for
// parsing tasks and higher ones for prose.
func WithTemperature(t float64) Option {
	return func(o *Options) { o.Temperature = &t }
}

// WithTools offers tools to the model. Later calls replace earlier ones.
func WithTools(tools ...Tool) Option {
	return func(o *Options) { o.Tools = tools }
}

// ApplyOptions folds opts into a fresh Options value.
func ApplyOptions(opts ...Option) *Options {
	var o Options
	for _, opt := range opts {
		opt(&o)
	}
	return &o
}
