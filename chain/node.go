package chain

import "context"

// Node wraps one handler and a link to the next node.
//
// Links are plain fields: relinking takes effect on the next Invoke and is not
// synchronised. Use Chain when handlers are reordered concurrently with requests.
type Node[Req, Res any] struct {
	handler Handler[Req, Res]
	next    *Node[Req, Res]
}

// NewNode wraps h in an unlinked node. A node with a nil handler passes every request on.
func NewNode[Req, Res any](h Handler[Req, Res]) *Node[Req, Res] {
	return &Node[Req, Res]{handler: h}
}

// SetNext links n after this node and returns n, so a.SetNext(b).SetNext(c) links a→b→c.
// Passing nil unlinks.
func (n *Node[Req, Res]) SetNext(next *Node[Req, Res]) *Node[Req, Res] {
	n.next = next
	return next
}

// Next returns the linked node, or nil.
func (n *Node[Req, Res]) Next() *Node[Req, Res] { return n.next }

// Invoke offers req to each node from n onwards until one resolves it.
// It returns Unhandled when the request falls off the end.
func (n *Node[Req, Res]) Invoke(ctx context.Context, req Req) (Result[Res], error) {
	for cur := n; cur != nil; cur = cur.next {
		if cur.handler == nil {
			continue
		}

		res, err := cur.handler(ctx, req)
		if err != nil {
			return Unhandled[Res](), fault(err)
		}

		if res.Handled() {
			return res, nil
		}
	}

	return Unhandled[Res](), nil
}

// Handler exposes the chain starting at n as a single handler.
func (n *Node[Req, Res]) Handler() Handler[Req, Res] { return n.Invoke }

// Link links nodes in order and returns the first one. Nil nodes are skipped.
func Link[Req, Res any](nodes ...*Node[Req, Res]) *Node[Req, Res] {
	var head, tail *Node[Req, Res]

	for _, n := range nodes {
		if n == nil {
			continue
		}

		if head == nil {
			head = n
		} else {
			tail.SetNext(n)
		}

		tail = n
	}

	if tail != nil {
		tail.SetNext(nil)
	}

	return head
}
