package functions

import (
	"sync"

	log "github.com/sirupsen/logrus"
	"github.com/squareup/strata/errors"
	"golang.org/x/exp/maps"
	"golang.org/x/exp/slices"
)

// Creator makes a Function bound to a Context.
type Creator func(ctx *Context) Function

// Factory looks functions up by name.
type Factory struct {
	lock     sync.RWMutex
	ctx      *Context
	creators map[string]Creator
}

func NewFactory(ctx *Context) *Factory {
	return &Factory{ctx: ctx, creators: make(map[string]Creator)}
}

// NewDefaultFactory returns a Factory with every built in function registered.
func NewDefaultFactory(ctx *Context) (*Factory, error) {
	f := NewFactory(ctx)
	if err := RegisterArithmetic(f); err != nil {
		return nil, err
	}
	if err := RegisterMiscellaneous(f); err != nil {
		return nil, err
	}
	return f, nil
}

func (f *Factory) Register(name string, creator Creator) error {
	f.lock.Lock()
	defer f.lock.Unlock()
	if _, ok := f.creators[name]; ok {
		return errors.NewFunctionAlreadyExistsError(name)
	}
	f.creators[name] = creator
	log.Debugf("registered function %s", name)
	return nil
}

func (f *Factory) Get(name string) (Function, error) {
	f.lock.RLock()
	defer f.lock.RUnlock()
	creator, ok := f.creators[name]
	if !ok {
		return nil, errors.NewUnknownFunctionError(name)
	}
	return creator(f.ctx), nil
}

// Names returns the registered names in ascending order.
func (f *Factory) Names() []string {
	f.lock.RLock()
	defer f.lock.RUnlock()
	names := maps.Keys(f.creators)
	slices.Sort(names)
	return names
}

func registerAll(f *Factory, creators map[string]Creator) error {
	names := maps.Keys(creators)
	slices.Sort(names)
	for _, name := range names {
		if err := f.Register(name, creators[name]); err != nil {
			return err
		}
	}
	return nil
}
