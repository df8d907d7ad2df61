package ast

import "github.com/corepeg/pyparser/arena"

// Singleton, Prepend, Append, Join, and Flatten are the sequence-
// assembly primitives spec.md §4.4 names (grounded on
// _PyPegen_singleton_seq / _seq_insert_in_front / _seq_append_to_end /
// _PyPegen_join_sequences / _seq_flatten in original_source's
// action_helpers.c), reimplemented over arena-backed Go slices instead
// of the original's counted C arrays.

// Singleton builds a one-element sequence.
func Singleton[T any](a *arena.Arena, v T) []T {
	s := arena.AllocSlice[T](a, 1)
	s[0] = v
	return s
}

// Prepend returns a new sequence with v as its first element, followed
// by rest.
func Prepend[T any](a *arena.Arena, v T, rest []T) []T {
	s := arena.AllocSlice[T](a, len(rest)+1)
	s[0] = v
	copy(s[1:], rest)
	return s
}

// Append returns a new sequence with v as its last element, preceded by
// rest.
func Append[T any](a *arena.Arena, rest []T, v T) []T {
	s := arena.AllocSlice[T](a, len(rest)+1)
	copy(s, rest)
	s[len(rest)] = v
	return s
}

// Join concatenates two sequences in order.
func Join[T any](a *arena.Arena, first, second []T) []T {
	if len(first) == 0 {
		return second
	}
	if len(second) == 0 {
		return first
	}
	s := arena.AllocSlice[T](a, len(first)+len(second))
	copy(s, first)
	copy(s[len(first):], second)
	return s
}

// Flatten concatenates a sequence of sequences into one, used when a
// repeated group rule itself produces a slice per repetition (e.g.
// decorator blocks, or a gathered list of statement lists).
func Flatten[T any](a *arena.Arena, groups [][]T) []T {
	n := 0
	for _, g := range groups {
		n += len(g)
	}
	out := arena.AllocSlice[T](a, n)
	i := 0
	for _, g := range groups {
		i += copy(out[i:], g)
	}
	return out
}
