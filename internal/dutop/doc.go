// Package dutop measures the size of every immediate subdirectory of a base
// directory and selects the largest ones.
//
// Subtrees are walked with fastwalk on a single worker without following
// symbolic links. A directory that cannot be opened aborts the whole sweep,
// while a child whose metadata cannot be read is skipped.
package dutop
