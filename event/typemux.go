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

package event

import (
	"errors"
	"reflect"
	"sync"
)

// ErrMuxClosed is returned by Post after the TypeMux has been stopped.
var ErrMuxClosed = errors.New("event: mux closed")

// TypeMux dispatches events of arbitrary dynamic type to subscribers
// registered for that exact type, per spec.md §4.9's "events are broadcast
// via a bus: subscribers receive a clone of each event" -- unlike Feed
// (one static type per Feed instance), one TypeMux multiplexes every event
// type the service registry needs to broadcast, so it is the bus C9's
// Registry uses. Its API is reconstructed from this package's own
// event_test.go/example_test.go, the only copies of go-ethereum's
// event.TypeMux retrieved into the pack.
type TypeMux struct {
	mutex   sync.RWMutex
	subm    map[reflect.Type][]*TypeMuxSubscription
	stopped bool
}

// TypeMuxSubscription is a subscription established through
// TypeMux.Subscribe.
type TypeMuxSubscription struct {
	mux     *TypeMux
	closeMu sync.Mutex
	closing chan struct{}
	closed  bool

	postMu sync.RWMutex
	readC  <-chan interface{}
	writeC chan<- interface{}
}

func newsub(mux *TypeMux) *TypeMuxSubscription {
	c := make(chan interface{})
	return &TypeMuxSubscription{
		mux:     mux,
		readC:   c,
		writeC:  c,
		closing: make(chan struct{}),
	}
}

// Subscribe registers for events of the exact dynamic type of each sample
// value in types. Subscribing the same type twice in one call panics.
func (mux *TypeMux) Subscribe(types ...interface{}) *TypeMuxSubscription {
	sub := newsub(mux)
	mux.mutex.Lock()
	defer mux.mutex.Unlock()
	if mux.subm == nil {
		mux.subm = make(map[reflect.Type][]*TypeMuxSubscription)
	}
	for _, t := range types {
		rtyp := reflect.TypeOf(t)
		oldsubs := mux.subm[rtyp]
		if typeMuxFind(oldsubs, sub) != -1 {
			panic("event: duplicate type " + rtyp.String() + " in Subscribe")
		}
		subs := make([]*TypeMuxSubscription, len(oldsubs)+1)
		copy(subs, oldsubs)
		subs[len(oldsubs)] = sub
		mux.subm[rtyp] = subs
	}
	return sub
}

// Post delivers ev to every subscriber registered for its exact dynamic
// type. Returns ErrMuxClosed once Stop has been called.
func (mux *TypeMux) Post(ev interface{}) error {
	rtyp := reflect.TypeOf(ev)
	mux.mutex.RLock()
	if mux.stopped {
		mux.mutex.RUnlock()
		return ErrMuxClosed
	}
	subs := mux.subm[rtyp]
	mux.mutex.RUnlock()
	for _, sub := range subs {
		sub.deliver(ev)
	}
	return nil
}

// Stop closes every subscription and makes all future Post calls return
// ErrMuxClosed.
func (mux *TypeMux) Stop() {
	mux.mutex.Lock()
	defer mux.mutex.Unlock()
	for _, subs := range mux.subm {
		for _, sub := range subs {
			sub.closewait()
		}
	}
	mux.subm = nil
	mux.stopped = true
}

func (mux *TypeMux) del(s *TypeMuxSubscription) {
	mux.mutex.Lock()
	defer mux.mutex.Unlock()
	for typ, subs := range mux.subm {
		if pos := typeMuxFind(subs, s); pos >= 0 {
			if len(subs) == 1 {
				delete(mux.subm, typ)
			} else {
				mux.subm[typ] = typeMuxDeleteAt(subs, pos)
			}
		}
	}
}

func typeMuxFind(slice []*TypeMuxSubscription, item *TypeMuxSubscription) int {
	for i, v := range slice {
		if v == item {
			return i
		}
	}
	return -1
}

func typeMuxDeleteAt(slice []*TypeMuxSubscription, pos int) []*TypeMuxSubscription {
	news := make([]*TypeMuxSubscription, len(slice)-1)
	copy(news[:pos], slice[:pos])
	copy(news[pos:], slice[pos+1:])
	return news
}

// Chan returns the channel events of the subscribed type are delivered on.
// It is closed once Unsubscribe or the owning TypeMux's Stop is called.
func (s *TypeMuxSubscription) Chan() <-chan interface{} { return s.readC }

// Unsubscribe removes s from its TypeMux and closes its channel.
func (s *TypeMuxSubscription) Unsubscribe() {
	s.mux.del(s)
	s.closewait()
}

func (s *TypeMuxSubscription) closewait() {
	s.closeMu.Lock()
	defer s.closeMu.Unlock()
	if s.closed {
		return
	}
	close(s.closing)
	s.closed = true

	s.postMu.Lock()
	defer s.postMu.Unlock()
	close(s.writeC)
	s.writeC = nil
}

func (s *TypeMuxSubscription) deliver(event interface{}) {
	s.postMu.RLock()
	defer s.postMu.RUnlock()
	select {
	case s.writeC <- event:
	case <-s.closing:
	}
}
