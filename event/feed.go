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

// Package event implements the publish/subscribe bus described in spec.md
// §4.9 and §9: a sum-of-types dispatcher where each event type has its own
// Feed, and subscribers receive a copy of every event sent on it. This is a
// generalization of go-ethereum's event.Feed/event.Subscription, simplified
// to a mutex-guarded subscriber list (the teacher's lock-free reflect.Select
// juggling buys throughput we don't need here, at a correctness cost we'd
// rather not carry without a build to verify it against).
package event

import (
	"errors"
	"reflect"
	"sync"
)

var errBadChannel = errors.New("event: Subscribe argument does not have sendable channel type")

// Feed implements one-to-many subscription of a single static type of event.
// The zero value is ready to use. All Feed methods may be called concurrently.
type Feed struct {
	mu   sync.Mutex
	typ  reflect.Type
	subs map[*feedSub]struct{}
}

// Subscription represents a stream of events.
type Subscription interface {
	Err() <-chan error
	Unsubscribe()
}

// Subscribe adds a channel to the feed. Future sends will be delivered on
// the channel until the subscription is canceled. All channels added
// through Subscribe on the same Feed must carry the same element type.
func (f *Feed) Subscribe(channel interface{}) Subscription {
	chanval := reflect.ValueOf(channel)
	chantyp := chanval.Type()
	if chantyp.Kind() != reflect.Chan || chantyp.ChanDir()&reflect.SendDir == 0 {
		panic(errBadChannel)
	}

	f.mu.Lock()
	defer f.mu.Unlock()
	if f.typ == nil {
		f.typ = chantyp.Elem()
	} else if f.typ != chantyp.Elem() {
		panic(feedTypeError{op: "Subscribe", got: chantyp.Elem(), want: f.typ})
	}
	if f.subs == nil {
		f.subs = make(map[*feedSub]struct{})
	}
	sub := &feedSub{feed: f, channel: chanval, err: make(chan error, 1)}
	f.subs[sub] = struct{}{}
	return sub
}

func (f *Feed) remove(sub *feedSub) {
	f.mu.Lock()
	defer f.mu.Unlock()
	delete(f.subs, sub)
}

// Send delivers value to every currently-subscribed channel, blocking until
// each has received it (or its subscription has been cancelled). It returns
// the number of subscribers the value was sent to.
func (f *Feed) Send(value interface{}) (nsent int) {
	rvalue := reflect.ValueOf(value)

	f.mu.Lock()
	if f.typ == nil {
		f.typ = rvalue.Type()
	} else if f.typ != rvalue.Type() {
		f.mu.Unlock()
		panic(feedTypeError{op: "Send", got: rvalue.Type(), want: f.typ})
	}
	targets := make([]*feedSub, 0, len(f.subs))
	for sub := range f.subs {
		targets = append(targets, sub)
	}
	f.mu.Unlock()

	for _, sub := range targets {
		cases := []reflect.SelectCase{
			{Dir: reflect.SelectSend, Chan: sub.channel, Send: rvalue},
			{Dir: reflect.SelectRecv, Chan: reflect.ValueOf(sub.err)},
		}
		if chosen, _, _ := reflect.Select(cases); chosen == 0 {
			nsent++
		}
	}
	return nsent
}

type feedSub struct {
	feed    *Feed
	channel reflect.Value
	errOnce sync.Once
	err     chan error
}

func (sub *feedSub) Unsubscribe() {
	sub.errOnce.Do(func() {
		sub.feed.remove(sub)
		close(sub.err)
	})
}

func (sub *feedSub) Err() <-chan error { return sub.err }

type feedTypeError struct {
	got, want reflect.Type
	op        string
}

func (e feedTypeError) Error() string {
	if e.want == nil {
		return "event: first argument of " + e.op + " must be a pointer"
	}
	return "event: wrong type in " + e.op + " got " + e.got.String() + ", want " + e.want.String()
}
