// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package tree links flat token rows into a dependency tree and checks
// that a tree is well formed: one root, heads that exist, no cycles, and
// every token reachable from the root.
package tree

import (
	"errors"
	"fmt"
	"sort"

	"github.com/google/uuid"

	"github.com/pdiddy/triple-engine/pkg/types"
)

// ErrMalformedTree reports a structurally invalid dependency tree. It is
// a fatal input error for the sentence.
var ErrMalformedTree = errors.New("malformed dependency tree")

// Build copies rows into fresh tokens, links each token to its head, and
// returns the validated sentence. An empty id is replaced with a UUID.
func Build(id, text string, rows []types.Token) (*types.Sentence, error) {
	if id == "" {
		id = uuid.NewString()
	}
	if len(rows) == 0 {
		return nil, fmt.Errorf("%w: sentence %s has no tokens", ErrMalformedTree, id)
	}

	byIndex := make(map[int]*types.Token, len(rows))
	tokens := make([]*types.Token, 0, len(rows))
	for _, row := range rows {
		if _, dup := byIndex[row.Index]; dup {
			return nil, fmt.Errorf("%w: sentence %s: duplicate token index %d", ErrMalformedTree, id, row.Index)
		}
		tok := row
		tok.Children = nil
		byIndex[tok.Index] = &tok
		tokens = append(tokens, &tok)
	}
	sort.SliceStable(tokens, func(i, j int) bool { return tokens[i].Index < tokens[j].Index })

	var root *types.Token
	for _, tok := range tokens {
		if tok.Head == 0 {
			if root != nil {
				return nil, fmt.Errorf("%w: sentence %s: tokens %d and %d both lack a head", ErrMalformedTree, id, root.Index, tok.Index)
			}
			root = tok
			continue
		}
		parent, ok := byIndex[tok.Head]
		if !ok {
			return nil, fmt.Errorf("%w: sentence %s: token %d has unknown head %d", ErrMalformedTree, id, tok.Index, tok.Head)
		}
		parent.Children = append(parent.Children, tok)
	}
	if root == nil {
		return nil, fmt.Errorf("%w: sentence %s has no root", ErrMalformedTree, id)
	}

	s := &types.Sentence{ID: id, Text: text, Tokens: tokens, Root: root}
	if err := Validate(s); err != nil {
		return nil, err
	}
	return s, nil
}

// Validate walks the tree from the root and fails if a token is visited
// twice (a cycle or shared child) or if a listed token is never reached.
func Validate(s *types.Sentence) error {
	if s == nil || s.Root == nil {
		return fmt.Errorf("%w: missing root", ErrMalformedTree)
	}

	visited := make(map[*types.Token]bool, len(s.Tokens))
	stack := []*types.Token{s.Root}
	for len(stack) > 0 {
		tok := stack[len(stack)-1]
		stack = stack[:len(stack)-1]
		if visited[tok] {
			return fmt.Errorf("%w: sentence %s: token %d reached twice", ErrMalformedTree, s.ID, tok.Index)
		}
		visited[tok] = true
		stack = append(stack, tok.Children...)
	}

	for _, tok := range s.Tokens {
		if !visited[tok] {
			return fmt.Errorf("%w: sentence %s: token %d is not reachable from the root", ErrMalformedTree, s.ID, tok.Index)
		}
	}
	if len(visited) != len(s.Tokens) {
		return fmt.Errorf("%w: sentence %s: tree has %d tokens, token list has %d", ErrMalformedTree, s.ID, len(visited), len(s.Tokens))
	}
	return nil
}
