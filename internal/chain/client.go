package chain

import (
	"context"
	"math/big"
	"time"

	"github.com/ethereum/go-ethereum"
	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/core/types"
	"github.com/ethereum/go-ethereum/ethclient"
	"github.com/ethereum/go-ethereum/rpc"
)

// Client wraps go-ethereum RPC and provides the calls the worker needs.
type Client struct {
	rpcClient *rpc.Client
	ethClient *ethclient.Client
	timeout   time.Duration
}

// Dial connects to the RPC endpoint and verifies the connection by
// reading the chain ID.
func Dial(ctx context.Context, rpcURL string, timeout time.Duration) (*Client, error) {
	rpcClient, err := rpc.DialContext(ctx, rpcURL)
	if err != nil {
		return nil, err
	}

	client := &Client{
		rpcClient: rpcClient,
		ethClient: ethclient.NewClient(rpcClient),
		timeout:   timeout,
	}

	callCtx, cancel := client.callContext(ctx)
	defer cancel()
	if _, err := client.ethClient.ChainID(callCtx); err != nil {
		rpcClient.Close()
		return nil, err
	}

	return client, nil
}

// Close closes the underlying RPC client.
func (c *Client) Close() {
	if c.rpcClient != nil {
		c.rpcClient.Close()
	}
}

// BlockNumber returns the latest block number.
func (c *Client) BlockNumber(ctx context.Context) (uint64, error) {
	callCtx, cancel := c.callContext(ctx)
	defer cancel()
	return c.ethClient.BlockNumber(callCtx)
}

// FilterLogs returns logs emitted by one contract in the inclusive range.
func (c *Client) FilterLogs(ctx context.Context, address common.Address, fromBlock, toBlock uint64) ([]types.Log, error) {
	callCtx, cancel := c.callContext(ctx)
	defer cancel()

	query := ethereum.FilterQuery{
		FromBlock: new(big.Int).SetUint64(fromBlock),
		ToBlock:   new(big.Int).SetUint64(toBlock),
		Addresses: []common.Address{address},
	}
	return c.ethClient.FilterLogs(callCtx, query)
}

func (c *Client) callContext(ctx context.Context) (context.Context, context.CancelFunc) {
	if c.timeout <= 0 {
		return ctx, func() {}
	}
	return context.WithTimeout(ctx, c.timeout)
}
