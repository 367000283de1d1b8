package ai

import (
	"context"

	"golang.org/x/time/rate"
)

// Paced spaces outgoing requests so a provider quota is not exceeded.
type Paced struct {
	next    Generator
	limiter *rate.Limiter
}

// NewPaced wraps next with a limiter of rps requests per second.
// rps <= 0 returns next unchanged.
func NewPaced(next Generator, rps float64, burst int) Generator {
	if rps <= 0 {
		return next
	}
	if burst <= 0 {
		burst = 1
	}
	return &Paced{next: next, limiter: rate.NewLimiter(rate.Limit(rps), burst)}
}

func (p *Paced) Generate(ctx context.Context, prompt Prompt) (string, error) {
	if err := p.limiter.Wait(ctx); err != nil {
		return "", serviceErr("pacer", 0, err)
	}
	return p.next.Generate(ctx, prompt)
}
