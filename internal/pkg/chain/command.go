package chain

import "github.com/google/uuid"

// Command is the envelope consumed by the external transaction executor.
// Id doubles as the executor-side idempotency key.
type Command struct {
	Id      string `json:"id"`
	Type    string `json:"type"`
	Payload []any  `json:"payload"`
}

func (c Command) GetEventTopicName() string {
	return "chain.solana.commands"
}

func NewCommand(commandType string, payload []any) Command {
	return Command{
		Id:      uuid.New().String(),
		Type:    commandType,
		Payload: payload,
	}
}
