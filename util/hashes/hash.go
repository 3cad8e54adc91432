package hashes

import (
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"

	"github.com/pkg/errors"
)

// HashSize of array used to store hashes. See Hash.
const HashSize = 32

// HexHashSize is the length of a hash rendered as a hexadecimal string.
const HexHashSize = HashSize * 2

// Hash is used in several of the matchain messages and common structures. It
// typically represents a single SHA-256 of data.
type Hash [HashSize]byte

// TxID is transaction hash
type TxID Hash

// ZeroHash is the null digest. It is the predecessor of the genesis block and
// the previous-transaction reference of every coinbase input.
var ZeroHash = Hash{}

// ZeroTxID is the null transaction id.
var ZeroTxID = TxID{}

// HashData returns the SHA-256 digest of the given data.
func HashData(data []byte) Hash {
	return Hash(sha256.Sum256(data))
}

// String returns the Hash as the hexadecimal string of the hash.
func (hash Hash) String() string {
	return hex.EncodeToString(hash[:])
}

// String returns the TxID as the hexadecimal string of the hash.
func (txID TxID) String() string {
	return Hash(txID).String()
}

// IsEqual returns true if target is the same as hash.
func (hash *Hash) IsEqual(target *Hash) bool {
	if hash == nil && target == nil {
		return true
	}
	if hash == nil || target == nil {
		return false
	}
	return *hash == *target
}

// IsEqual returns true if target is the same as txID.
func (txID *TxID) IsEqual(target *TxID) bool {
	return (*Hash)(txID).IsEqual((*Hash)(target))
}

// MarshalJSON renders the hash as its 64-character hex string. The textual
// form is the canonical identity, so it is also the wire form.
func (hash Hash) MarshalJSON() ([]byte, error) {
	return json.Marshal(hash.String())
}

// UnmarshalJSON parses a hash from its 64-character hex string form.
func (hash *Hash) UnmarshalJSON(data []byte) error {
	var str string
	if err := json.Unmarshal(data, &str); err != nil {
		return errors.WithStack(err)
	}
	return Decode(hash, str)
}

// MarshalJSON renders the transaction id as its 64-character hex string.
func (txID TxID) MarshalJSON() ([]byte, error) {
	return Hash(txID).MarshalJSON()
}

// UnmarshalJSON parses a transaction id from its 64-character hex string form.
func (txID *TxID) UnmarshalJSON(data []byte) error {
	return (*Hash)(txID).UnmarshalJSON(data)
}

// SetBytes sets the bytes which represent the hash. An error is returned if
// the number of bytes passed in is not HashSize.
func (hash *Hash) SetBytes(newHash []byte) error {
	if len(newHash) != HashSize {
		return errors.Errorf("invalid hash length of %d, want %d", len(newHash), HashSize)
	}
	copy(hash[:], newHash)
	return nil
}

// NewHash returns a new Hash from a byte slice. An error is returned if
// the number of bytes passed in is not HashSize.
func NewHash(newHash []byte) (*Hash, error) {
	var hash Hash
	err := hash.SetBytes(newHash)
	if err != nil {
		return nil, err
	}
	return &hash, nil
}

// NewHashFromStr creates a Hash from a hash string. The string should be
// the hexadecimal string of a hash.
func NewHashFromStr(hash string) (*Hash, error) {
	ret := new(Hash)
	err := Decode(ret, hash)
	if err != nil {
		return nil, err
	}
	return ret, nil
}

// NewTxIDFromStr creates a TxID from a hash string. The string should be
// the hexadecimal string of a hash.
func NewTxIDFromStr(txID string) (*TxID, error) {
	hash, err := NewHashFromStr(txID)
	return (*TxID)(hash), err
}

// Decode decodes the hexadecimal string encoding of a Hash to a destination.
func Decode(dst *Hash, src string) error {
	if len(src) != HexHashSize {
		return errors.Errorf("invalid hash string length of %d, want %d", len(src), HexHashSize)
	}
	decoded, err := hex.DecodeString(src)
	if err != nil {
		return errors.WithStack(err)
	}
	copy(dst[:], decoded)
	return nil
}
