package wallet

import (
	"veil/errors"
	"veil/jsonx"
	"veil/keys"
	"veil/logx"
)

// Entry is one keyring slot: an alias, the public key, and the secret key
// bytes, optionally sealed under a password.
type Entry struct {
	Alias     string `json:"alias"`
	PublicKey string `json:"public_key"`
	Secret    []byte `json:"secret"`
	Protected bool   `json:"protected"`
	Salt      []byte `json:"salt,omitempty"`
	Nonce     []byte `json:"nonce,omitempty"`
}

// SpendingEntry holds a shielded spending key under an alias.
type SpendingEntry struct {
	Alias     string `json:"alias"`
	Key       []byte `json:"key"`
	Protected bool   `json:"protected"`
	Salt      []byte `json:"salt,omitempty"`
	Nonce     []byte `json:"nonce,omitempty"`
}

// Store is the in-memory keyring. Entries live for the lifetime of the SDK
// instance; only AddKey/AddSpendingKey create them and only Clear or a full
// Decode replaces them. Not safe for concurrent use; callers serialize.
type Store struct {
	entries  map[string]*Entry
	spending map[string]*SpendingEntry
}

func NewStore() *Store {
	return &Store{
		entries:  make(map[string]*Entry),
		spending: make(map[string]*SpendingEntry),
	}
}

// AddKey stores a secret key. The alias defaults to the derived address.
// An existing alias is overwritten.
func (s *Store) AddKey(secretKey string, password string, alias string) error {
	sk, err := keys.ParseSecretKey(secretKey)
	if err != nil {
		return errors.Wrap(errors.ErrCodeDecode, "invalid secret key", err)
	}
	pk := sk.PublicKey()
	if alias == "" {
		alias = keys.AddressFromPublicKey(pk).String()
	}

	entry := &Entry{
		Alias:     alias,
		PublicKey: pk.String(),
	}
	plain := append([]byte{byte(sk.Scheme)}, sk.Bytes...)
	if password != "" {
		salt, nonce, sealed, err := encryptSecret(plain, password)
		if err != nil {
			return errors.Wrap(errors.ErrCodeDecode, "sealing secret key", err)
		}
		entry.Protected = true
		entry.Salt, entry.Nonce, entry.Secret = salt, nonce, sealed
	} else {
		entry.Secret = plain
	}

	s.entries[alias] = entry
	logx.Debug("WALLET", "stored key ", alias)
	return nil
}

// AddSpendingKey stores a shielded spending key under a mandatory alias.
func (s *Store) AddSpendingKey(xsk []byte, password string, alias string) error {
	if alias == "" {
		return errors.New(errors.ErrCodeMissingRequiredField, "spending key alias is required")
	}
	entry := &SpendingEntry{Alias: alias}
	if password != "" {
		salt, nonce, sealed, err := encryptSecret(xsk, password)
		if err != nil {
			return errors.Wrap(errors.ErrCodeDecode, "sealing spending key", err)
		}
		entry.Protected = true
		entry.Salt, entry.Nonce, entry.Key = salt, nonce, sealed
	} else {
		entry.Key = append([]byte(nil), xsk...)
	}
	s.spending[alias] = entry
	return nil
}

// FindKeyByPublicKey returns the secret key matching pk. A missing entry, a
// missing password and a wrong password are all the same KeyNotFound: the
// contract deliberately does not reveal which one happened.
func (s *Store) FindKeyByPublicKey(pk keys.PublicKey, password string) (keys.SecretKey, error) {
	want := pk.String()
	for _, entry := range s.entries {
		if entry.PublicKey != want {
			continue
		}
		plain := entry.Secret
		if entry.Protected {
			opened, err := decryptSecret(entry.Salt, entry.Nonce, entry.Secret, password)
			if err != nil {
				return keys.SecretKey{}, errors.New(errors.ErrCodeKeyNotFound, errors.ErrMsgKeyNotFound)
			}
			plain = opened
		}
		sk, err := secretFromPlain(plain)
		if err != nil {
			return keys.SecretKey{}, errors.New(errors.ErrCodeKeyNotFound, errors.ErrMsgKeyNotFound)
		}
		return sk, nil
	}
	return keys.SecretKey{}, errors.New(errors.ErrCodeKeyNotFound, errors.ErrMsgKeyNotFound)
}

// FindSpendingKey returns the shielded spending key stored under alias,
// with the same KeyNotFound folding as FindKeyByPublicKey.
func (s *Store) FindSpendingKey(alias string, password string) ([]byte, error) {
	entry, ok := s.spending[alias]
	if !ok {
		return nil, errors.New(errors.ErrCodeKeyNotFound, errors.ErrMsgKeyNotFound)
	}
	if !entry.Protected {
		return append([]byte(nil), entry.Key...), nil
	}
	opened, err := decryptSecret(entry.Salt, entry.Nonce, entry.Key, password)
	if err != nil {
		return nil, errors.New(errors.ErrCodeKeyNotFound, errors.ErrMsgKeyNotFound)
	}
	return opened, nil
}

func secretFromPlain(plain []byte) (keys.SecretKey, error) {
	return keys.SecretKeyFromRaw(plain)
}

// FindPublicKeyByAddress returns the stored public key whose derived
// address matches, for addresses that have not yet revealed on chain.
func (s *Store) FindPublicKeyByAddress(addr keys.Address) (keys.PublicKey, bool) {
	for _, entry := range s.entries {
		pk, err := keys.ParsePublicKey(entry.PublicKey)
		if err != nil {
			continue
		}
		if keys.AddressFromPublicKey(pk) == addr {
			return pk, true
		}
	}
	return keys.PublicKey{}, false
}

// Aliases lists the stored key aliases.
func (s *Store) Aliases() []string {
	out := make([]string, 0, len(s.entries))
	for alias := range s.entries {
		out = append(out, alias)
	}
	return out
}

func (s *Store) Len() int {
	return len(s.entries)
}

// Clear drops every entry.
func (s *Store) Clear() {
	s.entries = make(map[string]*Entry)
	s.spending = make(map[string]*SpendingEntry)
}

type snapshot struct {
	Entries  []*Entry         `json:"entries"`
	Spending []*SpendingEntry `json:"spending"`
}

// Encode serializes the keyring to an opaque blob. Sealed secrets stay
// sealed; the blob never contains a protected key in the clear.
func (s *Store) Encode() ([]byte, error) {
	snap := snapshot{}
	for _, e := range s.entries {
		snap.Entries = append(snap.Entries, e)
	}
	for _, e := range s.spending {
		snap.Spending = append(snap.Spending, e)
	}
	data, err := jsonx.Marshal(snap)
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeDecode, errors.ErrMsgWalletDecode, err)
	}
	return data, nil
}

// Decode reconstructs a keyring from an encoded blob. The result fully
// replaces whatever the caller held before.
func Decode(data []byte) (*Store, error) {
	var snap snapshot
	if err := jsonx.Unmarshal(data, &snap); err != nil {
		return nil, errors.Wrap(errors.ErrCodeDecode, errors.ErrMsgWalletDecode, err)
	}
	store := NewStore()
	for _, e := range snap.Entries {
		if e.Alias == "" {
			return nil, errors.New(errors.ErrCodeDecode, errors.ErrMsgWalletDecode)
		}
		store.entries[e.Alias] = e
	}
	for _, e := range snap.Spending {
		if e.Alias == "" {
			return nil, errors.New(errors.ErrCodeDecode, errors.ErrMsgWalletDecode)
		}
		store.spending[e.Alias] = e
	}
	return store, nil
}
