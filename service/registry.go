// Copyright 2026 The starcoin-core Authors
// This file is part of the starcoin-core library.
//
// The starcoin-core library is free software: you can redistribute it and/or modify
// it under the terms of the GNU Lesser General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
//
// The starcoin-core library is distributed in the hope that it will be useful,
// but WITHOUT ANY WARRANTY; without even the implied warranty of
// MERCHANTABILITY or FITNESS FOR A PARTICULAR PURPOSE. See the
// GNU Lesser General Public License for more details.
//
// You should have received a copy of the GNU Lesser General Public License
// along with the starcoin-core library. If not, see <http://www.gnu.org/licenses/>.

package service

import (
	"context"
	"fmt"
	"reflect"
	"sync"

	"github.com/starcoinorg/starcoin-core/event"
	"github.com/starcoinorg/starcoin-core/log"
	"github.com/starcoinorg/starcoin-core/starerr"
)

// mailboxCapacity bounds how many pending requests/events a single
// service's FIFO mailbox may buffer before a sender blocks.
const mailboxCapacity = 64

type job func()

type serviceEntry struct {
	name    string
	factory ServiceFactory

	mu       sync.Mutex
	status   Status
	instance Service
	ctx      *Context
	cancel   context.CancelFunc

	mailbox  chan job
	quit     chan struct{}
	loopDone chan struct{}
	eventSub *event.TypeMuxSubscription
}

// Registry is the named-service container described in spec.md §4.9: it
// owns every service's Stopped/Started transitions, serializes each
// service's own requests and events through a per-service mailbox
// goroutine, and fans events out to subscribers via an event.TypeMux bus.
type Registry struct {
	mu       sync.Mutex
	services map[string]*serviceEntry
	bus      *event.TypeMux

	wg sync.WaitGroup
}

// NewRegistry constructs an empty, unstarted Registry.
func NewRegistry() *Registry {
	return &Registry{
		services: make(map[string]*serviceEntry),
		bus:      new(event.TypeMux),
	}
}

// Register adds a named service in StatusStopped, built lazily by factory
// the first time Start is called (or immediately re-built on every
// restart). Registering a name twice is a programmer error.
func (r *Registry) Register(name string, factory ServiceFactory) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, exists := r.services[name]; exists {
		return fmt.Errorf("service: %q already registered", name)
	}
	r.services[name] = &serviceEntry{name: name, factory: factory}
	return nil
}

// RegisterMock registers name with a factory that always returns instance
// verbatim instead of constructing one, so tests can substitute a handler
// while the registry still enforces the normal status machine around it.
func (r *Registry) RegisterMock(name string, instance Service) error {
	return r.Register(name, func(*Context) (Service, error) { return instance, nil })
}

func (r *Registry) entry(name string) (*serviceEntry, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	e, ok := r.services[name]
	if !ok {
		return nil, fmt.Errorf("service: %q not registered", name)
	}
	return e, nil
}

// Start transitions name from StatusStopped to StatusStarted: it builds a
// fresh instance via the registered factory, calls Started on it, and (if
// the instance implements EventHandler) subscribes it to the type of every
// value passed in subscribe. Starting an already-started
// service is a no-op.
func (r *Registry) Start(parent context.Context, name string, subscribe ...interface{}) error {
	e, err := r.entry(name)
	if err != nil {
		return err
	}

	e.mu.Lock()
	defer e.mu.Unlock()
	if e.status == StatusStarted {
		return nil
	}

	cctx, cancel := context.WithCancel(parent)
	sctx := &Context{Context: cctx, name: name, registry: r}

	instance, err := e.factory(sctx)
	if err != nil {
		cancel()
		return fmt.Errorf("service: building %q: %w", name, err)
	}

	e.instance = instance
	e.ctx = sctx
	e.cancel = cancel
	e.mailbox = make(chan job, mailboxCapacity)
	e.quit = make(chan struct{})
	e.loopDone = make(chan struct{})

	if handler, ok := instance.(EventHandler); ok && len(subscribe) > 0 {
		e.eventSub = r.bus.Subscribe(subscribe...)
		go r.pumpEvents(e, handler)
	}

	if err := instance.Started(sctx); err != nil {
		cancel()
		if e.eventSub != nil {
			e.eventSub.Unsubscribe()
		}
		e.instance = nil
		return fmt.Errorf("service: starting %q: %w", name, err)
	}

	e.status = StatusStarted
	go r.runLoop(e)
	log.Info("service started", "name", name)
	return nil
}

// Stop transitions name from StatusStarted to StatusStopped: it stops
// accepting new mailbox work, unsubscribes from the bus, calls Stopped on
// the instance, and cancels the service's Context. Stopping an
// already-stopped service is a no-op.
func (r *Registry) Stop(name string) error {
	e, err := r.entry(name)
	if err != nil {
		return err
	}

	e.mu.Lock()
	defer e.mu.Unlock()
	if e.status == StatusStopped {
		return nil
	}

	close(e.quit)
	<-e.loopDone
	if e.eventSub != nil {
		e.eventSub.Unsubscribe()
		e.eventSub = nil
	}

	e.instance.Stopped(e.ctx)
	e.cancel()
	e.status = StatusStopped
	e.instance = nil
	e.ctx = nil
	log.Info("service stopped", "name", name)
	return nil
}

// Restart stops then starts name, rebuilding its instance from scratch via
// the registered factory -- spec.md §4.9's "restart is stop then start",
// never a direct state skip.
func (r *Registry) Restart(parent context.Context, name string, subscribe ...interface{}) error {
	if err := r.Stop(name); err != nil {
		return err
	}
	return r.Start(parent, name, subscribe...)
}

// Status reports name's current position in the status machine.
func (r *Registry) Status(name string) (Status, error) {
	e, err := r.entry(name)
	if err != nil {
		return StatusStopped, err
	}
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.status, nil
}

// Request delivers msg to name's RequestHandler and blocks for the
// response, processed on that service's own mailbox goroutine so it is
// serialized against every other request and event the service receives.
// Returns starerr.ErrServiceStopped if the service is not started, and a
// plain error if it does not implement RequestHandler.
func (r *Registry) Request(name string, msg interface{}) (interface{}, error) {
	e, err := r.entry(name)
	if err != nil {
		return nil, err
	}

	e.mu.Lock()
	if e.status != StatusStarted {
		e.mu.Unlock()
		return nil, fmt.Errorf("service: request to %q: %w", name, starerr.ErrServiceStopped)
	}
	instance, sctx, mailbox, quit := e.instance, e.ctx, e.mailbox, e.quit
	e.mu.Unlock()

	handler, ok := instance.(RequestHandler)
	if !ok {
		return nil, fmt.Errorf("service: %q does not handle requests", name)
	}

	type result struct {
		v   interface{}
		err error
	}
	resp := make(chan result, 1)
	work := job(func() {
		v, err := handler.HandleRequest(sctx, msg)
		resp <- result{v, err}
	})

	select {
	case mailbox <- work:
	case <-quit:
		return nil, fmt.Errorf("service: request to %q: %w", name, starerr.ErrServiceStopped)
	}

	select {
	case r := <-resp:
		return r.v, r.err
	case <-quit:
		return nil, fmt.Errorf("service: request to %q: %w", name, starerr.ErrServiceStopped)
	}
}

// Broadcast posts evt on the shared bus; every started service subscribed
// to evt's dynamic type receives it on its own mailbox. Per spec.md §4.9
// there are no ordering guarantees across services.
func (r *Registry) Broadcast(evt interface{}) error {
	return r.bus.Post(evt)
}

// Locate finds a started service whose instance is assignable to the
// interface type pointed to by out and assigns it, implementing DI by
// type for ServiceFactory bodies and running services alike.
func (r *Registry) Locate(out interface{}) error {
	ptr := reflect.ValueOf(out)
	if ptr.Kind() != reflect.Ptr || ptr.Elem().Kind() != reflect.Interface {
		return fmt.Errorf("service: Locate requires a pointer to an interface, got %T", out)
	}
	target := ptr.Elem().Type()

	r.mu.Lock()
	entries := make([]*serviceEntry, 0, len(r.services))
	for _, e := range r.services {
		entries = append(entries, e)
	}
	r.mu.Unlock()

	for _, e := range entries {
		e.mu.Lock()
		instance, started := e.instance, e.status == StatusStarted
		e.mu.Unlock()
		if !started || instance == nil {
			continue
		}
		v := reflect.ValueOf(instance)
		if v.Type().AssignableTo(target) {
			ptr.Elem().Set(v)
			return nil
		}
	}
	return fmt.Errorf("service: Locate %s: %w", target, starerr.ErrKeyNotFound)
}

// StopAll stops every currently-started service; used for whole-node
// shutdown.
func (r *Registry) StopAll() {
	r.mu.Lock()
	names := make([]string, 0, len(r.services))
	for name := range r.services {
		names = append(names, name)
	}
	r.mu.Unlock()

	for _, name := range names {
		if err := r.Stop(name); err != nil {
			log.Error("service: stopping", "name", name, "err", err)
		}
	}
	r.wg.Wait()
}

func (r *Registry) runLoop(e *serviceEntry) {
	defer close(e.loopDone)
	for {
		select {
		case work, ok := <-e.mailbox:
			if !ok {
				return
			}
			work()
		case <-e.quit:
			return
		}
	}
}

func (r *Registry) pumpEvents(e *serviceEntry, handler EventHandler) {
	for ev := range e.eventSub.Chan() {
		evCopy := ev
		select {
		case e.mailbox <- func() { handler.HandleEvent(e.ctx, evCopy) }:
		case <-e.quit:
			return
		}
	}
}

func (r *Registry) spawn(name string, fn func(ctx context.Context) (interface{}, error)) {
	e, err := r.entry(name)
	if err != nil {
		return
	}
	e.mu.Lock()
	sctx := e.ctx
	e.mu.Unlock()
	if sctx == nil {
		return
	}

	r.wg.Add(1)
	go func() {
		defer r.wg.Done()
		result, err := fn(sctx)
		if postErr := r.Broadcast(TaskCompleted{Service: name, Result: result, Err: err}); postErr != nil && postErr != event.ErrMuxClosed {
			log.Error("service: broadcasting task completion", "name", name, "err", postErr)
		}
	}()
}
