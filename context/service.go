package context

// Service is anything the Context can configure, start and shut down.
type Service interface {
	Id() string
	Configure(ctx *Context) error
	Start() error
	Shutdown()
}

// DefaultService is embedded by services to get no-op lifecycle hooks and
// access to sibling services.
type DefaultService struct {
	ctx *Context
}

func (d *DefaultService) Configure(ctx *Context) error {
	d.ctx = ctx
	return nil
}

func (d *DefaultService) Start() error {
	return nil
}

func (d *DefaultService) Shutdown() {}

// Service looks up a sibling service by id.
func (d *DefaultService) Service(id string) Service {
	if d.ctx == nil {
		return nil
	}
	return d.ctx.Service(id)
}

// Context returns the owning Context, nil before Configure.
func (d *DefaultService) Context() *Context {
	return d.ctx
}
