package biodatasets

import (
	"context"
	"sync"
)

var (
	defaultMu     sync.Mutex
	defaultClient *Client
)

// Default returns the package-level Client, creating it with default
// options on first use.
func Default() (*Client, error) {
	defaultMu.Lock()
	defer defaultMu.Unlock()

	if defaultClient == nil {
		c, err := NewClient()
		if err != nil {
			return nil, err
		}
		defaultClient = c
	}
	return defaultClient, nil
}

// SetDefault replaces the package-level Client used by ListDatasets and
// LoadDataset. Passing nil resets it to be rebuilt on next use.
func SetDefault(c *Client) {
	defaultMu.Lock()
	defer defaultMu.Unlock()
	defaultClient = c
}

// ListDatasets lists the datasets available through the default Client.
func ListDatasets(ctx context.Context) ([]string, error) {
	c, err := Default()
	if err != nil {
		return nil, err
	}
	return c.ListDatasets(ctx)
}

// LoadDataset loads a dataset through the default Client.
// See Client.LoadDataset.
func LoadDataset(ctx context.Context, name string, force bool) (*Dataset, error) {
	c, err := Default()
	if err != nil {
		return nil, err
	}
	return c.LoadDataset(ctx, name, force)
}
