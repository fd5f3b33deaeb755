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

import "testing"

func TestFeedSendDeliversToAllSubscribers(t *testing.T) {
	var f Feed
	ch1 := make(chan int, 1)
	ch2 := make(chan int, 1)
	f.Subscribe(ch1)
	f.Subscribe(ch2)

	n := f.Send(42)
	if n != 2 {
		t.Fatalf("Send returned %d, want 2", n)
	}
	if got := <-ch1; got != 42 {
		t.Errorf("ch1 got %d, want 42", got)
	}
	if got := <-ch2; got != 42 {
		t.Errorf("ch2 got %d, want 42", got)
	}
}

func TestFeedUnsubscribeStopsDelivery(t *testing.T) {
	var f Feed
	ch := make(chan int, 1)
	sub := f.Subscribe(ch)
	sub.Unsubscribe()

	if n := f.Send(1); n != 0 {
		t.Fatalf("Send returned %d after unsubscribe, want 0", n)
	}
}

func TestFeedTypeMismatchPanics(t *testing.T) {
	var f Feed
	f.Send(int(1))
	defer func() {
		if recover() == nil {
			t.Fatal("expected panic on type mismatch")
		}
	}()
	f.Send("not an int")
}

func TestSubscriptionScopeClosesAll(t *testing.T) {
	var f Feed
	var scope SubscriptionScope
	ch := make(chan int, 1)
	scope.Track(f.Subscribe(ch))
	if scope.Count() != 1 {
		t.Fatalf("Count() = %d, want 1", scope.Count())
	}
	scope.Close()
	if scope.Count() != 0 {
		t.Fatalf("Count() after Close = %d, want 0", scope.Count())
	}
	if n := f.Send(1); n != 0 {
		t.Fatalf("Send after scope.Close delivered to %d subscribers, want 0", n)
	}
}
