package sentinel

import (
	"context"
)

// Querier is the set of Sentinel commands. Client implements it; callers
// that only read topology can depend on this interface instead.
type Querier interface {
	Ping(ctx context.Context) bool
	Masters(ctx context.Context) ([]Record, error)
	Slaves(ctx context.Context, master string) ([]Record, error)
	GetMasterAddrByName(ctx context.Context, master string) (MasterAddr, error)
	IsMasterDownByAddr(ctx context.Context, ip string, port int) (MasterDownReply, error)
	Reset(ctx context.Context, pattern string) (int64, error)
}
