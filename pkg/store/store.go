// Package store implements the shared on-disk codec (A3) every persisted
// index in this repo loads through: a msgpack-encoded blob, decoded
// straight into an in-memory map. Grounded on the original's
// serial::Serializer::FromBinary(ifstream, ...), replaced here with the
// pack's msgpack dependency since the persisted format is a
// language-agnostic blob rather than a fixed C++ struct layout.
package store

import (
	"bufio"
	"fmt"
	"os"

	"github.com/vmihailenco/msgpack/v5"
)

// LoadMsgpack opens filename and decodes its msgpack contents into dest,
// which must be a pointer. Every persisted store in this repo (the falcon
// complete-suggestion map, the key-value and key-value-ex indexes) shares
// this one file-open-and-decode path.
func LoadMsgpack(filename string, dest interface{}) error {
	f, err := os.Open(filename)
	if err != nil {
		return fmt.Errorf("store: opening %s: %w", filename, err)
	}
	defer f.Close()

	dec := msgpack.NewDecoder(bufio.NewReader(f))
	if err := dec.Decode(dest); err != nil {
		return fmt.Errorf("store: decoding %s: %w", filename, err)
	}
	return nil
}
