// Package merkletree builds the canonical leaf-encode-then-keccak256
// pairwise Merkle trees the pool rebalance, relayer refund, and slow relay
// roots are committed with. It stands in for the "Merkle primitives"
// external collaborator named in the external interfaces contract, made
// concrete enough that two independent proposers can compare roots
// byte-for-byte.
package merkletree

import (
	"bytes"
	"fmt"

	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/crypto"
)

// EmptyRoot is the sentinel committed on-chain when a root has no leaves -
// e.g. a pool rebalance root with nothing to rebalance.
var EmptyRoot = common.Hash{}

// Tree is a keccak256 pairwise Merkle tree over an ordered leaf set.
type Tree[T any] struct {
	leaves []T
	hashes [][]byte
	layers [][][]byte
}

// New builds a tree from leaves already in their final, sorted order, using
// hashFn to encode and hash each leaf.
func New[T any](leaves []T, hashFn func(T) ([]byte, error)) (*Tree[T], error) {
	if len(leaves) == 0 {
		return &Tree[T]{}, nil
	}

	hashes := make([][]byte, len(leaves))
	for i, leaf := range leaves {
		h, err := hashFn(leaf)
		if err != nil {
			return nil, fmt.Errorf("hashing leaf %d: %w", i, err)
		}
		hashes[i] = h
	}

	layers := [][][]byte{hashes}
	for len(layers[len(layers)-1]) > 1 {
		layers = append(layers, nextLayer(layers[len(layers)-1]))
	}

	return &Tree[T]{leaves: leaves, hashes: hashes, layers: layers}, nil
}

func nextLayer(layer [][]byte) [][]byte {
	next := make([][]byte, 0, (len(layer)+1)/2)
	for i := 0; i < len(layer); i += 2 {
		left := layer[i]
		right := left
		if i+1 < len(layer) {
			right = layer[i+1]
		}
		next = append(next, pairHash(left, right))
	}
	return next
}

func pairHash(left, right []byte) []byte {
	if bytes.Compare(left, right) <= 0 {
		return crypto.Keccak256(left, right)
	}
	return crypto.Keccak256(right, left)
}

// HexRoot returns the tree's root, or the EmptyRoot sentinel if it has no
// leaves.
func (t *Tree[T]) HexRoot() common.Hash {
	if len(t.layers) == 0 {
		return EmptyRoot
	}
	top := t.layers[len(t.layers)-1]
	if len(top) == 0 {
		return EmptyRoot
	}
	return common.BytesToHash(top[0])
}

// HexProof returns the sibling hashes on the path from leaf index i to the
// root.
func (t *Tree[T]) HexProof(i int) ([]common.Hash, error) {
	if i < 0 || i >= len(t.hashes) {
		return nil, fmt.Errorf("leaf index %d out of range", i)
	}

	proof := make([]common.Hash, 0, len(t.layers)-1)
	idx := i
	for level := 0; level < len(t.layers)-1; level++ {
		layer := t.layers[level]
		siblingIdx := idx ^ 1
		if siblingIdx >= len(layer) {
			siblingIdx = idx
		}
		proof = append(proof, common.BytesToHash(layer[siblingIdx]))
		idx /= 2
	}
	return proof, nil
}

// Leaves returns the tree's leaves in tree order.
func (t *Tree[T]) Leaves() []T {
	return t.leaves
}
