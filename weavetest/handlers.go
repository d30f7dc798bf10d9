package weavetest

import "github.com/iov-one/tipjar/weave"

// Handler returns a copy of the configured result or the configured error.
// Every call is counted.
type Handler struct {
	CheckResult weave.CheckResult
	CheckErr    error

	DeliverResult weave.DeliverResult
	DeliverErr    error

	checkCall   int
	deliverCall int
}

var _ weave.Handler = (*Handler)(nil)

func (h *Handler) Check(weave.Context, weave.KVStore, weave.Tx) (*weave.CheckResult, error) {
	h.checkCall++
	if h.CheckErr != nil {
		return nil, h.CheckErr
	}
	res := h.CheckResult
	return &res, nil
}

func (h *Handler) Deliver(weave.Context, weave.KVStore, weave.Tx) (*weave.DeliverResult, error) {
	h.deliverCall++
	if h.DeliverErr != nil {
		return nil, h.DeliverErr
	}
	res := h.DeliverResult
	return &res, nil
}

func (h *Handler) CheckCallCount() int   { return h.checkCall }
func (h *Handler) DeliverCallCount() int { return h.deliverCall }
func (h *Handler) CallCount() int        { return h.checkCall + h.deliverCall }
