package queue

import (
	"context"
	"time"

	jsoniter "github.com/json-iterator/go"
	"github.com/pkg/errors"

	"github.com/ccbrown/messaged/model"
)

const defaultPublishTimeout = 10 * time.Second

// Publisher serializes domain events and hands them to the queue transport.
// It is safe for concurrent use.
type Publisher struct {
	Transport Transport

	// Timeout bounds each publish call. Zero means defaultPublishTimeout.
	Timeout time.Duration
}

func (p *Publisher) Publish(event Event, audience model.Audience) error {
	envelope, err := newEnvelope(event, audience)
	if err != nil {
		return err
	}
	body, err := jsoniter.Marshal(envelope)
	if err != nil {
		return errors.Wrap(err, "unable to serialize event")
	}

	timeout := p.Timeout
	if timeout == 0 {
		timeout = defaultPublishTimeout
	}
	ctx, cancel := context.WithTimeout(context.Background(), timeout)
	defer cancel()
	return p.Transport.Publish(ctx, body)
}
