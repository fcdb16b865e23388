// Package pogs implements POGS, the Proximal Operator Graph Solver: an
// ADMM-style splitting method for graph-form convex problems
//
//	minimize    f(y) + g(x)   subject to   y = A x,
//
// where f and g are separable sums of proximable convex functions over the
// rows and columns of A respectively (package prox). The solver alternates
// elementwise proximal evaluations, projection onto the graph subspace
// {(x,y): y=Ax} (package project), and a dual update, with adaptive penalty
// tuning and optional Anderson acceleration (package accel).
//
// A Solver is constructed once per problem matrix via NewSolver; Solve may
// then be called repeatedly with different f, g, and Settings, reusing the
// equilibration and Cholesky factorization computed at construction.
package pogs
