package codec

// Registry maps content-type identifiers to codecs. Mutation is confined to
// process initialization (and test setup); steady-state serving only reads,
// so no locking is needed.
type Registry struct {
	codecs  map[string]Codec
	request map[string]RequestCodec
}

// NewRegistry constructs a registry preloaded with the built-in codecs.
func NewRegistry() *Registry {
	r := &Registry{}
	r.reset()
	return r
}

func (r *Registry) reset() {
	r.codecs = make(map[string]Codec)
	r.request = make(map[string]RequestCodec)
	r.Register(ContentTypeArray, ArrayCodec{})
	r.Register(ContentTypeText, TextCodec{})
	r.Register(ContentTypeBase64, Base64Codec{})
	r.RegisterRequest(ContentTypeTable, TableCodec{reg: r})
}

// Register adds or overwrites the codec for a content type. Last wins.
// Only call during initialization; lookups assume no concurrent mutation.
func (r *Registry) Register(contentType string, c Codec) {
	r.codecs[contentType] = c
}

// RegisterRequest adds or overwrites the request-level codec for a content type.
func (r *Registry) RegisterRequest(contentType string, c RequestCodec) {
	r.request[contentType] = c
}

// Lookup returns the codec registered for a content type.
func (r *Registry) Lookup(contentType string) (Codec, bool) {
	c, ok := r.codecs[contentType]
	return c, ok
}

// LookupRequest returns the request-level codec registered for a content type.
func (r *Registry) LookupRequest(contentType string) (RequestCodec, bool) {
	c, ok := r.request[contentType]
	return c, ok
}

// std is the process-wide registry used when callers pass no explicit one.
var std = NewRegistry()

// Default returns the process-wide registry.
func Default() *Registry { return std }

// Register adds a codec to the process-wide registry.
func Register(contentType string, c Codec) { std.Register(contentType, c) }

// RegisterRequest adds a request-level codec to the process-wide registry.
func RegisterRequest(contentType string, c RequestCodec) { std.RegisterRequest(contentType, c) }

// Reset restores the process-wide registry to the built-in codecs.
// Intended for test teardown.
func Reset() { std.reset() }
