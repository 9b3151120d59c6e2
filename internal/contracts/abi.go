package contracts

import (
	"strings"
	"sync"

	"github.com/ethereum/go-ethereum/accounts/abi"
)

const projectEscrowABIJSON = `[
  {
    "anonymous": false,
    "inputs": [
      {"indexed": true, "internalType": "uint256", "name": "projectId", "type": "uint256"},
      {"indexed": true, "internalType": "address", "name": "client", "type": "address"},
      {"indexed": true, "internalType": "address", "name": "freelancer", "type": "address"}
    ],
    "name": "ProjectCreated",
    "type": "event"
  },
  {
    "anonymous": false,
    "inputs": [
      {"indexed": true, "internalType": "uint256", "name": "projectId", "type": "uint256"},
      {"indexed": true, "internalType": "uint256", "name": "milestoneId", "type": "uint256"}
    ],
    "name": "MilestoneSubmitted",
    "type": "event"
  },
  {
    "anonymous": false,
    "inputs": [
      {"indexed": true, "internalType": "uint256", "name": "projectId", "type": "uint256"},
      {"indexed": true, "internalType": "uint256", "name": "milestoneId", "type": "uint256"},
      {"indexed": true, "internalType": "address", "name": "initiator", "type": "address"}
    ],
    "name": "DisputeCreated",
    "type": "event"
  },
  {
    "anonymous": false,
    "inputs": [
      {"indexed": true, "internalType": "uint256", "name": "projectId", "type": "uint256"},
      {"indexed": true, "internalType": "uint256", "name": "milestoneId", "type": "uint256"},
      {"indexed": false, "internalType": "uint8", "name": "verdict", "type": "uint8"}
    ],
    "name": "DisputeResolved",
    "type": "event"
  }
]`

const aiOracleABIJSON = `[
  {
    "anonymous": false,
    "inputs": [
      {"indexed": true, "internalType": "uint256", "name": "disputeId", "type": "uint256"},
      {"indexed": false, "internalType": "string", "name": "evidence", "type": "string"}
    ],
    "name": "JudgmentRequested",
    "type": "event"
  },
  {
    "anonymous": false,
    "inputs": [
      {"indexed": true, "internalType": "uint256", "name": "disputeId", "type": "uint256"},
      {"indexed": false, "internalType": "uint8", "name": "verdict", "type": "uint8"},
      {"indexed": false, "internalType": "string", "name": "reasoning", "type": "string"}
    ],
    "name": "JudgmentFulfilled",
    "type": "event"
  }
]`

const disputeJuryABIJSON = `[
  {
    "anonymous": false,
    "inputs": [
      {"indexed": true, "internalType": "uint256", "name": "disputeId", "type": "uint256"},
      {"indexed": true, "internalType": "address", "name": "juror", "type": "address"},
      {"indexed": false, "internalType": "uint8", "name": "verdict", "type": "uint8"}
    ],
    "name": "VoteCasted",
    "type": "event"
  },
  {
    "anonymous": false,
    "inputs": [
      {"indexed": true, "internalType": "uint256", "name": "disputeId", "type": "uint256"},
      {"indexed": false, "internalType": "uint8", "name": "finalVerdict", "type": "uint8"}
    ],
    "name": "DisputeFinalized",
    "type": "event"
  }
]`

var (
	projectEscrowABI     abi.ABI
	projectEscrowABIOnce sync.Once
	projectEscrowABIErr  error

	aiOracleABI     abi.ABI
	aiOracleABIOnce sync.Once
	aiOracleABIErr  error

	disputeJuryABI     abi.ABI
	disputeJuryABIOnce sync.Once
	disputeJuryABIErr  error
)

// ProjectEscrowABI returns the parsed ProjectEscrow ABI.
func ProjectEscrowABI() (abi.ABI, error) {
	projectEscrowABIOnce.Do(func() {
		projectEscrowABI, projectEscrowABIErr = abi.JSON(strings.NewReader(projectEscrowABIJSON))
	})
	return projectEscrowABI, projectEscrowABIErr
}

// AIOracleABI returns the parsed AIOracle ABI.
func AIOracleABI() (abi.ABI, error) {
	aiOracleABIOnce.Do(func() {
		aiOracleABI, aiOracleABIErr = abi.JSON(strings.NewReader(aiOracleABIJSON))
	})
	return aiOracleABI, aiOracleABIErr
}

// DisputeJuryABI returns the parsed DisputeJury ABI.
func DisputeJuryABI() (abi.ABI, error) {
	disputeJuryABIOnce.Do(func() {
		disputeJuryABI, disputeJuryABIErr = abi.JSON(strings.NewReader(disputeJuryABIJSON))
	})
	return disputeJuryABI, disputeJuryABIErr
}
