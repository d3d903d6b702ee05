package router

import "context"

// Event is delivered to injection listeners.
type Event struct {
	Route string

	cancelable bool
	canceled   bool
}

// Cancel aborts the pending transition. It has no effect after injection.
func (e *Event) Cancel() {
	if e.cancelable {
		e.canceled = true
	}
}

// Canceled reports whether a listener canceled the event.
func (e *Event) Canceled() bool { return e.canceled }

// Listener observes injections. Listeners run synchronously on the
// navigating goroutine and must not call SetPage themselves.
type Listener func(ctx context.Context, e *Event)

type listener struct {
	id int
	fn Listener
}

// OnBeforeInject registers fn to run before every transition. The returned
// func unregisters it.
func (r *Router) OnBeforeInject(fn Listener) func() {
	return r.listen(&r.before, fn)
}

// OnAfterInject registers fn to run after every completed transition.
func (r *Router) OnAfterInject(fn Listener) func() {
	return r.listen(&r.after, fn)
}

func (r *Router) listen(list *[]listener, fn Listener) func() {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.nextID++
	id := r.nextID
	*list = append(*list, listener{id: id, fn: fn})
	return func() {
		r.mu.Lock()
		defer r.mu.Unlock()
		for i, l := range *list {
			if l.id == id {
				*list = append((*list)[:i:i], (*list)[i+1:]...)
				return
			}
		}
	}
}

func (r *Router) fire(ctx context.Context, list *[]listener, e *Event) {
	r.mu.Lock()
	fns := make([]Listener, len(*list))
	for i, l := range *list {
		fns[i] = l.fn
	}
	r.mu.Unlock()
	for _, fn := range fns {
		fn(ctx, e)
	}
}
