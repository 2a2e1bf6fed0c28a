// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: BSD-3-Clause

package cache

// node is an element of a recency list. It stores the key so the oldest
// entry can be removed from the owning map in O(1).
type node[K comparable] struct {
	key        K
	prev, next *node[K]
}

// recency is a doubly-linked list ordered by last use.
// The front is the most recently used entry, the back the least.
// Not safe for concurrent use.
type recency[K comparable] struct {
	front, back *node[K]
	n           int
}

func (l *recency[K]) len() int { return l.n }

// pushFront inserts key as the most recently used entry.
func (l *recency[K]) pushFront(key K) *node[K] {
	e := &node[K]{key: key}
	l.linkFront(e)
	return e
}

// touch marks e as most recently used.
func (l *recency[K]) touch(e *node[K]) {
	if e == nil || e == l.front {
		return
	}
	l.unlink(e)
	l.linkFront(e)
}

// remove unlinks e.
func (l *recency[K]) remove(e *node[K]) {
	if e != nil {
		l.unlink(e)
	}
}

// popBack removes the least recently used entry and returns its key.
func (l *recency[K]) popBack() (K, bool) {
	if l.back == nil {
		var zero K
		return zero, false
	}
	e := l.back
	l.unlink(e)
	return e.key, true
}

func (l *recency[K]) clear() {
	l.front, l.back, l.n = nil, nil, 0
}

func (l *recency[K]) linkFront(e *node[K]) {
	e.prev = nil
	e.next = l.front
	if l.front != nil {
		l.front.prev = e
	}
	l.front = e
	if l.back == nil {
		l.back = e
	}
	l.n++
}

func (l *recency[K]) unlink(e *node[K]) {
	if e.prev != nil {
		e.prev.next = e.next
	} else {
		l.front = e.next
	}
	if e.next != nil {
		e.next.prev = e.prev
	} else {
		l.back = e.prev
	}
	e.prev, e.next = nil, nil
	l.n--
}
