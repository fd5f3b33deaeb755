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

// Package service implements spec.md §4.9's Scheduler / Service Registry
// (C9): named, independently-startable/stoppable services, each processing
// its own requests and subscribed events through a single-threaded FIFO
// mailbox, wired together by a Registry that plays the role of
// go-ethereum's node.Lifecycle registration (Start(ctx) error / Stop()
// error) generalized with request/response and a shared event bus built on
// event.TypeMux.
package service

import "context"

// Status is a service's position in the Stopped -> Started -> Stopped
// machine spec.md §4.9 requires; restarting a service is Stop followed by
// Start, never a direct Stopped->Started transition that skips teardown.
type Status int

const (
	StatusStopped Status = iota
	StatusStarted
)

func (s Status) String() string {
	if s == StatusStarted {
		return "started"
	}
	return "stopped"
}

// Service is the minimum contract every registered service implements.
// Started runs once, synchronously, while the registry holds the service in
// StatusStopped -> StatusStarted transition; a non-nil error aborts the
// transition and the service stays stopped. Stopped runs once on the way
// back down and cannot fail: teardown must always complete.
type Service interface {
	Started(ctx *Context) error
	Stopped(ctx *Context)
}

// RequestHandler is implemented by services that answer Registry.Request
// calls. Handling runs on the service's own mailbox goroutine, so it never
// races the service's own state.
type RequestHandler interface {
	HandleRequest(ctx *Context, msg interface{}) (interface{}, error)
}

// EventHandler is implemented by services that react to events broadcast
// over the registry's bus. Like HandleRequest, delivery is serialized
// through the service's mailbox.
type EventHandler interface {
	HandleEvent(ctx *Context, evt interface{})
}

// ServiceFactory builds a Service instance given a Context scoped to it.
// Factories run DI by type through ctx.Locate, looking up already-started
// sibling services by the interface they implement rather than by name.
type ServiceFactory func(ctx *Context) (Service, error)

// Context is handed to a service's lifecycle and handler methods. It
// embeds context.Context so blocking calls (peer RPCs, store reads) can
// observe cancellation the way every other blocking operation in this
// module does.
type Context struct {
	context.Context
	name     string
	registry *Registry
}

// Name returns the service's own registered name.
func (c *Context) Name() string { return c.name }

// Registry returns the owning registry, e.g. to Request another service.
func (c *Context) Registry() *Registry { return c.registry }

// Locate finds a started, registered service implementing the interface
// pointed to by out (a *T where T is an interface type) and assigns it,
// realizing spec.md §4.9's "DI by type". Returns starerr.ErrKeyNotFound (via
// Registry.Locate) if no started service qualifies.
func (c *Context) Locate(out interface{}) error {
	return c.registry.Locate(out)
}

// Spawn runs fn on the registry's shared executor and, once it completes,
// broadcasts a TaskCompleted event over the bus so the owning service (or
// any other subscriber) can react -- spec.md §4.9's "long-running work is
// spawned onto a shared executor, producing a follow-up notification".
func (c *Context) Spawn(fn func(ctx context.Context) (interface{}, error)) {
	c.registry.spawn(c.name, fn)
}

// TaskCompleted is the follow-up notification posted after a Context.Spawn
// future finishes.
type TaskCompleted struct {
	Service string
	Result  interface{}
	Err     error
}
