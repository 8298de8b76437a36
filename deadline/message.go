package deadline

import (
	"github.com/glimte/relay-go/contracts"
)

// NewDeadlineMessage turns a schedule input into the message handed to the
// handler at fire time. A value that is already a contracts.Message donates
// its payload and metadata verbatim; any other value is wrapped as the
// payload of a fresh message with empty metadata.
func NewDeadlineMessage(payloadOrMessage any) (contracts.Message, error) {
	if msg, ok := payloadOrMessage.(contracts.Message); ok {
		payload, err := msg.Payload()
		if err != nil {
			return nil, err
		}
		md, err := msg.MetaData()
		if err != nil {
			return nil, err
		}
		return contracts.NewMessage(msg.Name(), payload).WithMetaData(md), nil
	}
	return contracts.NewMessage(contracts.TypeNameOf(payloadOrMessage), payloadOrMessage), nil
}
