package contracts

import (
	"math/big"
	"testing"

	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/core/types"

	"humanwork/internal/model"
)

func addressTopic(address common.Address) common.Hash {
	return common.BytesToHash(common.LeftPadBytes(address.Bytes(), 32))
}

func uintTopic(value uint64) common.Hash {
	return common.BigToHash(new(big.Int).SetUint64(value))
}

func TestDecodeProjectCreated(t *testing.T) {
	escrowABI, err := ProjectEscrowABI()
	if err != nil {
		t.Fatalf("abi parse: %v", err)
	}
	decoder := NewEventDecoder(escrowABI)

	client := common.HexToAddress("0x1111111111111111111111111111111111111111")
	freelancer := common.HexToAddress("0x2222222222222222222222222222222222222222")

	rawLog := types.Log{
		Address: common.HexToAddress("0x3333333333333333333333333333333333333333"),
		Topics: []common.Hash{
			escrowABI.Events["ProjectCreated"].ID,
			uintTopic(7),
			addressTopic(client),
			addressTopic(freelancer),
		},
		TxHash:      common.HexToHash("0xabc1"),
		BlockNumber: 100,
	}

	event, ok, err := decoder.Decode("ProjectEscrow", rawLog)
	if err != nil {
		t.Fatalf("decode: %v", err)
	}
	if !ok {
		t.Fatalf("expected log to decode")
	}

	if event.Source != "ProjectEscrow" || event.Name != model.EventProjectCreated {
		t.Fatalf("event identity mismatch: %+v", event)
	}
	if event.BlockNumber != 100 {
		t.Fatalf("block number mismatch: %d", event.BlockNumber)
	}

	data, ok := event.Data.(model.ProjectCreatedData)
	if !ok {
		t.Fatalf("payload type mismatch: %T", event.Data)
	}
	if data.ProjectID != 7 {
		t.Fatalf("project id mismatch: %d", data.ProjectID)
	}
	if data.Client != client.Hex() || data.Freelancer != freelancer.Hex() {
		t.Fatalf("address mismatch: %+v", data)
	}
}

func TestDecodeDisputeCreated(t *testing.T) {
	escrowABI, err := ProjectEscrowABI()
	if err != nil {
		t.Fatalf("abi parse: %v", err)
	}
	decoder := NewEventDecoder(escrowABI)

	initiator := common.HexToAddress("0x4444444444444444444444444444444444444444")
	rawLog := types.Log{
		Topics: []common.Hash{
			escrowABI.Events["DisputeCreated"].ID,
			uintTopic(7),
			uintTopic(2),
			addressTopic(initiator),
		},
		TxHash: common.HexToHash("0xabc2"),
	}

	event, ok, err := decoder.Decode("ProjectEscrow", rawLog)
	if err != nil || !ok {
		t.Fatalf("decode: ok=%v err=%v", ok, err)
	}

	data, ok := event.Data.(model.DisputeCreatedData)
	if !ok {
		t.Fatalf("payload type mismatch: %T", event.Data)
	}
	if data.ProjectID != 7 || data.MilestoneID != 2 || data.Initiator != initiator.Hex() {
		t.Fatalf("payload mismatch: %+v", data)
	}
}

func TestDecodeDisputeResolved(t *testing.T) {
	escrowABI, err := ProjectEscrowABI()
	if err != nil {
		t.Fatalf("abi parse: %v", err)
	}
	decoder := NewEventDecoder(escrowABI)

	data, err := escrowABI.Events["DisputeResolved"].Inputs.NonIndexed().Pack(uint8(2))
	if err != nil {
		t.Fatalf("pack: %v", err)
	}

	rawLog := types.Log{
		Topics: []common.Hash{
			escrowABI.Events["DisputeResolved"].ID,
			uintTopic(7),
			uintTopic(2),
		},
		Data:   data,
		TxHash: common.HexToHash("0xabc3"),
	}

	event, ok, err := decoder.Decode("ProjectEscrow", rawLog)
	if err != nil || !ok {
		t.Fatalf("decode: ok=%v err=%v", ok, err)
	}

	payload, ok := event.Data.(model.DisputeResolvedData)
	if !ok {
		t.Fatalf("payload type mismatch: %T", event.Data)
	}
	if payload.ProjectID != 7 || payload.MilestoneID != 2 || payload.Verdict != 2 {
		t.Fatalf("payload mismatch: %+v", payload)
	}
}

func TestDecodeJudgmentFulfilled(t *testing.T) {
	oracleABI, err := AIOracleABI()
	if err != nil {
		t.Fatalf("abi parse: %v", err)
	}
	decoder := NewEventDecoder(oracleABI)

	data, err := oracleABI.Events["JudgmentFulfilled"].Inputs.NonIndexed().Pack(uint8(1), "work verified on chain")
	if err != nil {
		t.Fatalf("pack: %v", err)
	}

	rawLog := types.Log{
		Topics: []common.Hash{
			oracleABI.Events["JudgmentFulfilled"].ID,
			uintTopic(9),
		},
		Data:   data,
		TxHash: common.HexToHash("0xabc4"),
	}

	event, ok, err := decoder.Decode("AIOracle", rawLog)
	if err != nil || !ok {
		t.Fatalf("decode: ok=%v err=%v", ok, err)
	}

	payload, ok := event.Data.(model.JudgmentFulfilledData)
	if !ok {
		t.Fatalf("payload type mismatch: %T", event.Data)
	}
	if payload.DisputeID != 9 || payload.Verdict != 1 || payload.Reasoning != "work verified on chain" {
		t.Fatalf("payload mismatch: %+v", payload)
	}
}

func TestDecodeUnknownTopicIgnored(t *testing.T) {
	escrowABI, err := ProjectEscrowABI()
	if err != nil {
		t.Fatalf("abi parse: %v", err)
	}
	decoder := NewEventDecoder(escrowABI)

	rawLog := types.Log{
		Topics: []common.Hash{common.HexToHash("0xdeadbeef")},
	}

	_, ok, err := decoder.Decode("ProjectEscrow", rawLog)
	if err != nil {
		t.Fatalf("unknown topic should not error: %v", err)
	}
	if ok {
		t.Fatalf("unknown topic should not decode")
	}

	_, ok, err = decoder.Decode("ProjectEscrow", types.Log{})
	if err != nil || ok {
		t.Fatalf("empty log should be ignored: ok=%v err=%v", ok, err)
	}
}

func TestDecodeMalformedLogErrors(t *testing.T) {
	escrowABI, err := ProjectEscrowABI()
	if err != nil {
		t.Fatalf("abi parse: %v", err)
	}
	decoder := NewEventDecoder(escrowABI)

	// ProjectCreated with a missing indexed topic.
	rawLog := types.Log{
		Topics: []common.Hash{
			escrowABI.Events["ProjectCreated"].ID,
			uintTopic(7),
		},
	}

	_, _, err = decoder.Decode("ProjectEscrow", rawLog)
	if err == nil {
		t.Fatalf("expected error for malformed log")
	}
}
