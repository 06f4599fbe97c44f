package notify

import (
	"encoding/json"
	"fmt"

	"github.com/nats-io/nats.go"
	"github.com/rs/zerolog/log"
)

// NATS publishes notifications on a NATS connection. Broadcasts go to
// <prefix>.game.<event>; per-player events go to
// <prefix>.player.<playerKey>.<event>. Payloads are JSON.
type NATS struct {
	nc     *nats.Conn
	prefix string
}

// NewNATS connects to a NATS server.
func NewNATS(url, prefix string) (*NATS, error) {
	nc, err := nats.Connect(url, nats.Name("crossplay"))
	if err != nil {
		return nil, fmt.Errorf("connecting to NATS at %s: %w", url, err)
	}
	return &NATS{nc: nc, prefix: prefix}, nil
}

// Subscribe registers an async handler on a subject, sharing the
// notifier's connection. The server uses this for its command surface.
func (n *NATS) Subscribe(subject string, cb nats.MsgHandler) (*nats.Subscription, error) {
	return n.nc.Subscribe(subject, cb)
}

// Close drains the connection.
func (n *NATS) Close() {
	if n.nc != nil {
		n.nc.Drain()
	}
}

func (n *NATS) publish(subject string, payload any) {
	data, err := json.Marshal(payload)
	if err != nil {
		log.Error().Err(err).Str("subject", subject).Msg("could not marshal notification")
		return
	}
	if err := n.nc.Publish(subject, data); err != nil {
		log.Warn().Err(err).Str("subject", subject).Msg("notification publish failed")
	}
}

func (n *NATS) NotifyOne(playerKey, event string, payload any) {
	n.publish(fmt.Sprintf("%s.player.%s.%s", n.prefix, playerKey, event), payload)
}

func (n *NATS) NotifyAll(event string, payload any) {
	n.publish(fmt.Sprintf("%s.game.%s", n.prefix, event), payload)
}
