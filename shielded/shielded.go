package shielded

import (
	"context"

	"veil/errors"
	"veil/logx"
)

// Params holds the three proving-parameter blobs the shielded pool needs.
// All three must be present; there is no valid partial state.
type Params struct {
	Spend   []byte
	Output  []byte
	Convert []byte
}

// paramCount is an assertion-level contract with the host: the source must
// yield the blobs in (spend, output, convert) order, exactly three of them.
const paramCount = 3

// ParamsSource is the host-provided asynchronous origin of the parameter
// blobs (a browser fetch, a file read, a download).
type ParamsSource interface {
	FetchParams(ctx context.Context) ([][]byte, error)
}

// Context caches the proving parameters for the lifetime of one SDK
// instance. The zero value is unloaded: every shielded build against it
// fails until Load replaces the cached parameters.
type Context struct {
	params *Params
}

// Load replaces the cached parameters from a fixed-order blob list.
// Supplying fewer or more than three blobs is a contract violation, not a
// recoverable condition.
func (c *Context) Load(blobs [][]byte) error {
	if len(blobs) != paramCount {
		return errors.Errorf(errors.ErrCodeDecode,
			"expected %d shielded parameter blobs, got %d", paramCount, len(blobs))
	}
	for i, blob := range blobs {
		if len(blob) == 0 {
			return errors.Errorf(errors.ErrCodeDecode, "shielded parameter blob %d is empty", i)
		}
	}
	c.params = &Params{
		Spend:   blobs[0],
		Output:  blobs[1],
		Convert: blobs[2],
	}
	logx.Info("SHIELDED", "proving parameters loaded")
	return nil
}

// LoadFromSource fetches the parameter blobs and loads them in one step.
func (c *Context) LoadFromSource(ctx context.Context, src ParamsSource) error {
	blobs, err := src.FetchParams(ctx)
	if err != nil {
		return errors.Wrap(errors.ErrCodeDecode, "fetching shielded parameters", err)
	}
	return c.Load(blobs)
}

// Loaded reports whether all three parameters are cached.
func (c *Context) Loaded() bool {
	return c.params != nil
}

// Params returns the cached parameters, or params_not_loaded before Load.
func (c *Context) Params() (*Params, error) {
	if c.params == nil {
		return nil, errors.New(errors.ErrCodeParamsNotLoaded, errors.ErrMsgParamsNotLoaded)
	}
	return c.params, nil
}
