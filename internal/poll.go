package internal

import "context"

type PollPolicy interface {
	Wait(ctx context.Context, wake <-chan struct{}) bool
	Derive() PollPolicy
}
