package handlers

import (
	"context"

	"github.com/sprintertech/sprinter-bridge/ledger"
	"github.com/sprintertech/sprinter-bridge/transfer"
)

type Bridge interface {
	InitiateTransfer(req transfer.Request) (string, error)
	GetTransfer(id string) (*transfer.Transfer, error)
	ListTransfers(filter ledger.Filter) []*transfer.Transfer
	GetState() ledger.State
}

type SignatureCacher interface {
	Subscribe(ctx context.Context, id string, sigChn chan []transfer.Signature)
}
