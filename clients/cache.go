package clients

import (
	"fmt"
	"math/big"
	"time"

	"github.com/ethereum/go-ethereum/common"
	"github.com/jellydator/ttlcache/v3"
)

// configStoreCacheTTL bounds how long a ConfigStore read for a given
// mainnet block is reused. A single propose/validate cycle reads values at
// the same bundle-end block repeatedly (a transfer threshold for each L1
// token on each chain, the max refund count once per relayer refund root
// build); the cache turns that into one RPC round trip per value.
const configStoreCacheTTL = 5 * time.Minute

// ConfigStoreCache wraps a ConfigStoreClient with a per-block,
// per-parameter TTL cache.
type ConfigStoreCache struct {
	inner ConfigStoreClient

	maxRefundCount *ttlcache.Cache[uint64, uint32]
	threshold      *ttlcache.Cache[string, *big.Int]
}

func NewConfigStoreCache(inner ConfigStoreClient) *ConfigStoreCache {
	c := &ConfigStoreCache{
		inner:          inner,
		maxRefundCount: ttlcache.New(ttlcache.WithTTL[uint64, uint32](configStoreCacheTTL)),
		threshold:      ttlcache.New(ttlcache.WithTTL[string, *big.Int](configStoreCacheTTL)),
	}
	go c.maxRefundCount.Start()
	go c.threshold.Start()
	return c
}

func (c *ConfigStoreCache) IsUpdated() bool {
	return c.inner.IsUpdated()
}

func (c *ConfigStoreCache) GetMaxRefundCountForRelayerRefundLeaf(mainnetBlock uint64) (uint32, error) {
	if item := c.maxRefundCount.Get(mainnetBlock); item != nil {
		return item.Value(), nil
	}

	v, err := c.inner.GetMaxRefundCountForRelayerRefundLeaf(mainnetBlock)
	if err != nil {
		return 0, err
	}
	c.maxRefundCount.Set(mainnetBlock, v, ttlcache.DefaultTTL)
	return v, nil
}

func (c *ConfigStoreCache) GetTokenTransferThreshold(l1Token common.Address, mainnetBlock uint64) (*big.Int, error) {
	key := fmt.Sprintf("%s-%d", l1Token.Hex(), mainnetBlock)
	if item := c.threshold.Get(key); item != nil {
		return new(big.Int).Set(item.Value()), nil
	}

	v, err := c.inner.GetTokenTransferThreshold(l1Token, mainnetBlock)
	if err != nil {
		return nil, err
	}
	c.threshold.Set(key, v, ttlcache.DefaultTTL)
	return new(big.Int).Set(v), nil
}

// Stop releases the cache's background eviction goroutines.
func (c *ConfigStoreCache) Stop() {
	c.maxRefundCount.Stop()
	c.threshold.Stop()
}
