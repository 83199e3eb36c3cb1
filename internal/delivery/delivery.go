// Package delivery defines the contract every transport front-end
// implements.
package delivery

import "context"

// Delivery is a server that accepts requests until its context ends or the
// process shuts down.
type Delivery interface {
	Serve(ctx context.Context) error
}
