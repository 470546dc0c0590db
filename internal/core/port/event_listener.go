package port

import "context"

// EventListenerPort - входящий адаптер, который сам получает события
// (очередь, long polling) и вызывает ядро.
type EventListenerPort interface {
	Start(ctx context.Context) error
	Close() error
}
