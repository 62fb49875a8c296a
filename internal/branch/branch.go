// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package branch splits a dependency tree into its root-to-leaf paths.
package branch

import "github.com/pdiddy/triple-engine/pkg/types"

// Decompose returns one branch per leaf of the tree rooted at root, in
// depth-first order. Each branch starts at root and ends at its leaf. The
// tree must be acyclic; see tree.Validate.
func Decompose(root *types.Token) []types.Branch {
	if root == nil {
		return nil
	}
	return walk(root, nil)
}

// walk returns the branches below tok given the path leading to it. The
// path is copied before extension so siblings never share a backing array.
func walk(tok *types.Token, path types.Branch) []types.Branch {
	extended := make(types.Branch, len(path), len(path)+1)
	copy(extended, path)
	extended = append(extended, tok)

	if tok.IsLeaf() {
		return []types.Branch{extended}
	}

	var branches []types.Branch
	for _, child := range tok.Children {
		branches = append(branches, walk(child, extended)...)
	}
	return branches
}
