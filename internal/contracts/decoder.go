package contracts

import (
	"fmt"
	"math/big"

	"github.com/ethereum/go-ethereum/accounts/abi"
	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/core/types"

	"humanwork/internal/model"
)

// EventDecoder matches raw logs against one contract's event signatures
// and produces typed payloads.
type EventDecoder struct {
	contractABI abi.ABI
	topicToName map[common.Hash]string
}

// NewEventDecoder builds a decoder for the given contract ABI.
func NewEventDecoder(contractABI abi.ABI) *EventDecoder {
	topicToName := make(map[common.Hash]string, len(contractABI.Events))
	for name, event := range contractABI.Events {
		topicToName[event.ID] = name
	}
	return &EventDecoder{
		contractABI: contractABI,
		topicToName: topicToName,
	}
}

// Decode converts a raw log into a typed event. A log whose topic0 matches
// no known signature returns ok=false with no error; a log that matches a
// signature but cannot be unpacked returns an error.
func (d *EventDecoder) Decode(source string, log types.Log) (model.Event, bool, error) {
	if len(log.Topics) == 0 {
		return model.Event{}, false, nil
	}
	name, ok := d.topicToName[log.Topics[0]]
	if !ok {
		return model.Event{}, false, nil
	}

	data, err := d.decodePayload(name, log)
	if err != nil {
		return model.Event{}, false, fmt.Errorf("decode %s: %w", name, err)
	}

	return model.Event{
		Source:      source,
		Name:        name,
		TxHash:      log.TxHash.Hex(),
		BlockNumber: log.BlockNumber,
		Data:        data,
	}, true, nil
}

func (d *EventDecoder) decodePayload(name string, log types.Log) (interface{}, error) {
	switch name {
	case model.EventProjectCreated:
		if err := wantTopics(log, 4); err != nil {
			return nil, err
		}
		return model.ProjectCreatedData{
			ProjectID:  topicUint(log.Topics[1]),
			Client:     topicAddress(log.Topics[2]),
			Freelancer: topicAddress(log.Topics[3]),
		}, nil

	case model.EventMilestoneSubmitted:
		if err := wantTopics(log, 3); err != nil {
			return nil, err
		}
		return model.MilestoneSubmittedData{
			ProjectID:   topicUint(log.Topics[1]),
			MilestoneID: topicUint(log.Topics[2]),
		}, nil

	case model.EventDisputeCreated:
		if err := wantTopics(log, 4); err != nil {
			return nil, err
		}
		return model.DisputeCreatedData{
			ProjectID:   topicUint(log.Topics[1]),
			MilestoneID: topicUint(log.Topics[2]),
			Initiator:   topicAddress(log.Topics[3]),
		}, nil

	case model.EventDisputeResolved:
		if err := wantTopics(log, 3); err != nil {
			return nil, err
		}
		values, err := d.contractABI.Unpack(name, log.Data)
		if err != nil {
			return nil, err
		}
		verdict, err := asUint8(values, 0)
		if err != nil {
			return nil, err
		}
		return model.DisputeResolvedData{
			ProjectID:   topicUint(log.Topics[1]),
			MilestoneID: topicUint(log.Topics[2]),
			Verdict:     verdict,
		}, nil

	case model.EventJudgmentRequested:
		if err := wantTopics(log, 2); err != nil {
			return nil, err
		}
		values, err := d.contractABI.Unpack(name, log.Data)
		if err != nil {
			return nil, err
		}
		evidence, err := asString(values, 0)
		if err != nil {
			return nil, err
		}
		return model.JudgmentRequestedData{
			DisputeID: topicUint(log.Topics[1]),
			Evidence:  evidence,
		}, nil

	case model.EventJudgmentFulfilled:
		if err := wantTopics(log, 2); err != nil {
			return nil, err
		}
		values, err := d.contractABI.Unpack(name, log.Data)
		if err != nil {
			return nil, err
		}
		verdict, err := asUint8(values, 0)
		if err != nil {
			return nil, err
		}
		reasoning, err := asString(values, 1)
		if err != nil {
			return nil, err
		}
		return model.JudgmentFulfilledData{
			DisputeID: topicUint(log.Topics[1]),
			Verdict:   verdict,
			Reasoning: reasoning,
		}, nil

	case model.EventVoteCasted:
		if err := wantTopics(log, 3); err != nil {
			return nil, err
		}
		values, err := d.contractABI.Unpack(name, log.Data)
		if err != nil {
			return nil, err
		}
		verdict, err := asUint8(values, 0)
		if err != nil {
			return nil, err
		}
		return model.VoteCastedData{
			DisputeID: topicUint(log.Topics[1]),
			Juror:     topicAddress(log.Topics[2]),
			Verdict:   verdict,
		}, nil

	case model.EventDisputeFinalized:
		if err := wantTopics(log, 2); err != nil {
			return nil, err
		}
		values, err := d.contractABI.Unpack(name, log.Data)
		if err != nil {
			return nil, err
		}
		verdict, err := asUint8(values, 0)
		if err != nil {
			return nil, err
		}
		return model.DisputeFinalizedData{
			DisputeID:    topicUint(log.Topics[1]),
			FinalVerdict: verdict,
		}, nil

	default:
		return nil, fmt.Errorf("unsupported event name: %s", name)
	}
}

func wantTopics(log types.Log, count int) error {
	if len(log.Topics) != count {
		return fmt.Errorf("expected %d topics, got %d", count, len(log.Topics))
	}
	return nil
}

func topicUint(topic common.Hash) uint64 {
	return new(big.Int).SetBytes(topic.Bytes()).Uint64()
}

func topicAddress(topic common.Hash) string {
	return common.BytesToAddress(topic.Bytes()).Hex()
}

func asUint8(values []interface{}, index int) (uint8, error) {
	if index >= len(values) {
		return 0, fmt.Errorf("missing argument %d", index)
	}
	value, ok := values[index].(uint8)
	if !ok {
		return 0, fmt.Errorf("argument %d is not uint8", index)
	}
	return value, nil
}

func asString(values []interface{}, index int) (string, error) {
	if index >= len(values) {
		return "", fmt.Errorf("missing argument %d", index)
	}
	value, ok := values[index].(string)
	if !ok {
		return "", fmt.Errorf("argument %d is not string", index)
	}
	return value, nil
}
