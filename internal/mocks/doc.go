// Package mocks provides function-field mock implementations of the store
// and provider interfaces. Each mock tracks call counts so tests can assert
// how often the expensive paths (generation, translation) actually ran.
package mocks
