package natsx

import (
	"encoding/json"

	"github.com/nats-io/nats.go"

	"DMProject/logger"
	"DMProject/module/chat/model"
)

// Each gateway subscribes to its own deliver subject; a send whose
// recipient is connected elsewhere gets published to that gateway's
// subject. Delivery stays best-effort end to end: a lost publish means the
// recipient pulls the message later.
const deliverSubjectPrefix = "dm.deliver."

func deliverSubject(gatewayID string) string {
	return deliverSubjectPrefix + gatewayID
}

// DeliverRelay forwards persisted messages between gateways.
type DeliverRelay struct {
	c         *Client
	gatewayID string
	sub       *nats.Subscription
}

func NewDeliverRelay(c *Client, gatewayID string) *DeliverRelay {
	return &DeliverRelay{c: c, gatewayID: gatewayID}
}

// Publish hands a persisted message to the gateway holding the recipient's
// connection.
func (d *DeliverRelay) Publish(gatewayID string, m *model.Message) error {
	data, err := json.Marshal(m)
	if err != nil {
		return err
	}
	return d.c.nc.Publish(deliverSubject(gatewayID), data)
}

// Subscribe binds the local deliver subject; handler runs per inbound
// message on the NATS dispatch goroutine.
func (d *DeliverRelay) Subscribe(handler func(*model.Message)) error {
	sub, err := d.c.nc.Subscribe(deliverSubject(d.gatewayID), func(msg *nats.Msg) {
		var m model.Message
		if err := json.Unmarshal(msg.Data, &m); err != nil {
			logger.Warnf("[natsx] bad deliver payload on %s: %v", msg.Subject, err)
			return
		}
		handler(&m)
	})
	if err != nil {
		return err
	}
	d.sub = sub
	return nil
}

func (d *DeliverRelay) Close() error {
	if d.sub != nil {
		return d.sub.Drain()
	}
	return nil
}
