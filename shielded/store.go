package shielded

import (
	"context"

	bolt "go.etcd.io/bbolt"

	"veil/errors"
	"veil/logx"
)

var (
	paramsBucket = []byte("shielded_params")
	paramKeys    = [][]byte{[]byte("spend"), []byte("output"), []byte("convert")}
)

// Store persists fetched proving parameters so later sessions skip the
// (large) download. It is the durable side of the fetch-and-store flow; the
// in-memory Context stays the only thing builds read from.
type Store struct {
	db *bolt.DB
}

func OpenStore(path string) (*Store, error) {
	db, err := bolt.Open(path, 0600, nil)
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeDecode, "opening shielded parameter store", err)
	}
	return &Store{db: db}, nil
}

func (s *Store) Close() error {
	return s.db.Close()
}

// Has reports whether all three parameter blobs are stored.
func (s *Store) Has() (bool, error) {
	var has bool
	err := s.db.View(func(btx *bolt.Tx) error {
		b := btx.Bucket(paramsBucket)
		if b == nil {
			return nil
		}
		for _, key := range paramKeys {
			if len(b.Get(key)) == 0 {
				return nil
			}
		}
		has = true
		return nil
	})
	return has, err
}

// Put stores the three parameter blobs atomically.
func (s *Store) Put(params *Params) error {
	blobs := [][]byte{params.Spend, params.Output, params.Convert}
	return s.db.Update(func(btx *bolt.Tx) error {
		b, err := btx.CreateBucketIfNotExists(paramsBucket)
		if err != nil {
			return err
		}
		for i, key := range paramKeys {
			if err := b.Put(key, blobs[i]); err != nil {
				return err
			}
		}
		return nil
	})
}

// Load reads the stored blobs back in fixed order.
func (s *Store) Load() (*Params, error) {
	blobs := make([][]byte, len(paramKeys))
	err := s.db.View(func(btx *bolt.Tx) error {
		b := btx.Bucket(paramsBucket)
		if b == nil {
			return errors.New(errors.ErrCodeParamsNotLoaded, errors.ErrMsgParamsNotLoaded)
		}
		for i, key := range paramKeys {
			v := b.Get(key)
			if len(v) == 0 {
				return errors.New(errors.ErrCodeParamsNotLoaded, errors.ErrMsgParamsNotLoaded)
			}
			blobs[i] = append([]byte(nil), v...)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return &Params{Spend: blobs[0], Output: blobs[1], Convert: blobs[2]}, nil
}

// FetchAndStore downloads the parameters from the source and persists them.
func (s *Store) FetchAndStore(ctx context.Context, src ParamsSource) error {
	blobs, err := src.FetchParams(ctx)
	if err != nil {
		return errors.Wrap(errors.ErrCodeDecode, "fetching shielded parameters", err)
	}
	var staging Context
	if err := staging.Load(blobs); err != nil {
		return err
	}
	params, err := staging.Params()
	if err != nil {
		return err
	}
	if err := s.Put(params); err != nil {
		return errors.Wrap(errors.ErrCodeDecode, "storing shielded parameters", err)
	}
	logx.Info("SHIELDED", "proving parameters stored")
	return nil
}

// storeSource adapts the store back into a ParamsSource so a cached session
// loads through the same Context.Load contract.
type storeSource struct {
	store *Store
}

func (ss storeSource) FetchParams(context.Context) ([][]byte, error) {
	params, err := ss.store.Load()
	if err != nil {
		return nil, err
	}
	return [][]byte{params.Spend, params.Output, params.Convert}, nil
}

// Source returns a ParamsSource view over the stored blobs.
func (s *Store) Source() ParamsSource {
	return storeSource{store: s}
}
